// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compiler turns a validated project.Project into a CompiledProject:
// a dependency-ordered, slot-addressed intermediate form the sim VM and the
// ltm analyzer both run against (§4.3).
package compiler

import "github.com/cpmech/gosl/io"

// ErrorKind is the closed set of ways compilation can fail (§4.3).
type ErrorKind int

const (
	UndefinedIdent ErrorKind = iota
	ArityMismatch
	TypeMismatch
	BadSubscript
	CircularDependency
	DuplicateIdent
	BadGraphicalFunction
	ModuleNotFound
	ReservedIdent
	// ParseFailure is a pragmatic extension of §4.3's closed error-kind
	// set: an equation that failed §4.2 parsing is reported as a
	// CompileError against its owning variable rather than surfacing the
	// parser's *parseeqn.ParseError directly, so callers only ever
	// handle one error taxonomy at the compile boundary.
	ParseFailure
)

func (k ErrorKind) String() string {
	switch k {
	case UndefinedIdent:
		return "UndefinedIdent"
	case ArityMismatch:
		return "ArityMismatch"
	case TypeMismatch:
		return "TypeMismatch"
	case BadSubscript:
		return "BadSubscript"
	case CircularDependency:
		return "CircularDependency"
	case DuplicateIdent:
		return "DuplicateIdent"
	case BadGraphicalFunction:
		return "BadGraphicalFunction"
	case ModuleNotFound:
		return "ModuleNotFound"
	case ReservedIdent:
		return "ReservedIdent"
	case ParseFailure:
		return "ParseFailure"
	}
	return "Unknown"
}

// CompileError reports one failure against the model/ident it was raised
// for. Compilation collects every error it can rather than stopping at the
// first one (§4.3 item 1).
type CompileError struct {
	Kind    ErrorKind
	Model   string
	Ident   string
	Message string
	Path    []string // populated for CircularDependency: the offending cycle
}

func (e *CompileError) Error() string {
	if len(e.Path) > 0 {
		return io.Sf("compiler: %s: model %q: %s (cycle: %v)", e.Kind, e.Model, e.Message, e.Path)
	}
	return io.Sf("compiler: %s: model %q, ident %q: %s", e.Kind, e.Model, e.Ident, e.Message)
}
