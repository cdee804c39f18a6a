// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package builtin is the closed registry of functions an equation's CallExpr
// may name (§4.2, §4.3). Pure functions are evaluated directly by the VM;
// stateful ones are lowered by the compiler into synthetic stocks and flows
// before the VM ever sees them (§4.3 item 7).
package builtin

import "github.com/cpmech/gosl/chk"

// Kind tags how a builtin is realized.
type Kind int

const (
	// KindPure builtins are evaluated in place from their argument values.
	KindPure Kind = iota
	// KindTime builtins additionally read the current sim time and dt.
	KindTime
	// KindStateful builtins are rewritten by the compiler into synthetic
	// stocks/flows (§4.3) and never reach the VM as calls.
	KindStateful
	// KindLookup is the implicit/explicit graphical-function call.
	KindLookup
	// KindReduce builtins (SUM over a wildcard subscript) are expanded by
	// the compiler into an explicit reduction over element slots (§4.4.4)
	// and never reach the VM as a call.
	KindReduce
)

// Spec describes one registered builtin: its canonical name, valid arities,
// and Kind.
type Spec struct {
	Name    string
	MinArgs int
	MaxArgs int // -1 means unbounded
	Kind    Kind
}

var registry = map[string]Spec{
	"abs":         {"abs", 1, 1, KindPure},
	"min":         {"min", 2, 2, KindPure},
	"max":         {"max", 2, 2, KindPure},
	"exp":         {"exp", 1, 1, KindPure},
	"ln":          {"ln", 1, 1, KindPure},
	"log10":       {"log10", 1, 1, KindPure},
	"sqrt":        {"sqrt", 1, 1, KindPure},
	"sin":         {"sin", 1, 1, KindPure},
	"cos":         {"cos", 1, 1, KindPure},
	"tan":         {"tan", 1, 1, KindPure},
	"arctan":      {"arctan", 1, 1, KindPure},
	"modulo":      {"modulo", 2, 2, KindPure},
	"int":         {"int", 1, 1, KindPure},
	"zidz":        {"zidz", 2, 2, KindPure},
	"xidz":        {"xidz", 3, 3, KindPure},
	"nonnegative": {"nonnegative", 1, 1, KindPure},

	"step":  {"step", 2, 2, KindTime},
	"pulse": {"pulse", 2, 3, KindTime},
	"ramp":  {"ramp", 2, 3, KindTime},

	"delay1":   {"delay1", 2, 3, KindStateful},
	"delay3":   {"delay3", 2, 3, KindStateful},
	"smth1":    {"smth1", 2, 3, KindStateful},
	"smth3":    {"smth3", 2, 3, KindStateful},
	"conveyor": {"conveyor", 2, 3, KindStateful},
	"queue":    {"queue", 2, 3, KindStateful},
	"previous": {"previous", 1, 2, KindStateful},

	"lookup": {"lookup", 2, 2, KindLookup},

	"sum": {"sum", 1, 1, KindReduce},
}

// Lookup resolves name (already canonicalized by the parser) against the
// registry.
func Lookup(name string) (Spec, bool) {
	s, ok := registry[name]
	return s, ok
}

// CheckArity validates that n arguments is legal for name; returns a
// chk.Err-style error otherwise, for the compiler's ArityMismatch diagnostic.
func CheckArity(name string, n int) error {
	s, ok := Lookup(name)
	if !ok {
		return chk.Err("builtin: unknown function %q", name)
	}
	if n < s.MinArgs || (s.MaxArgs >= 0 && n > s.MaxArgs) {
		return chk.Err("builtin: %q takes between %d and %d arguments, got %d", name, s.MinArgs, s.MaxArgs, n)
	}
	return nil
}
