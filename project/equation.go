// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package project

import (
	"sort"
	"strings"

	"github.com/cpmech/gosl/chk"
)

// EquationKind tags the closed Equation variant set (§3.5).
type EquationKind int

const (
	// KindScalar is a plain scalar equation string.
	KindScalar EquationKind = iota
	// KindApplyToAll applies one equation, element-wise, across a dimension product.
	KindApplyToAll
	// KindArrayed gives an explicit per-element equation map.
	KindArrayed
)

// Equation is the closed tagged variant Scalar | ApplyToAll | Arrayed.
// Exactly one of the Kind-indicated fields is populated; callers must
// switch on Kind and never assume another field's zero value is meaningful.
type Equation struct {
	Kind EquationKind `json:"kind" yaml:"kind"`

	// KindScalar
	Scalar string `json:"scalar,omitempty" yaml:"scalar,omitempty"`

	// KindApplyToAll
	Dimensions   []string `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	ApplyToAllEq string   `json:"apply_to_all_eq,omitempty" yaml:"apply_to_all_eq,omitempty"`

	// KindArrayed (Dimensions also applies)
	Elements map[string]string `json:"elements,omitempty" yaml:"elements,omitempty"`
}

// NewScalar constructs a Scalar equation.
func NewScalar(eqn string) Equation {
	return Equation{Kind: KindScalar, Scalar: eqn}
}

// NewApplyToAll constructs an ApplyToAll equation over the given dimensions.
func NewApplyToAll(dims []string, eqn string) Equation {
	return Equation{Kind: KindApplyToAll, Dimensions: dims, ApplyToAllEq: eqn}
}

// NewArrayed constructs an Arrayed equation with explicit per-element equations.
func NewArrayed(dims []string, elements map[string]string) Equation {
	return Equation{Kind: KindArrayed, Dimensions: dims, Elements: elements}
}

// IsArrayKind reports whether the equation varies over a dimension product.
func (e Equation) IsArrayKind() bool {
	return e.Kind == KindApplyToAll || e.Kind == KindArrayed
}

// Subscripts returns the cartesian product of the equation's dimension
// element-name lists, joined with "," as the canonical subscript key, e.g.
// dims {"region":["north","south"], "product":["a","b"]} yields
// ["north,a","north,b","south,a","south,b"].
func Subscripts(dims map[string][]string, order []string) []string {
	if len(order) == 0 {
		return nil
	}
	keys := make([][]string, len(order))
	for i, d := range order {
		keys[i] = append([]string(nil), dims[d]...)
	}
	var out []string
	var rec func(i int, prefix []string)
	rec = func(i int, prefix []string) {
		if i == len(keys) {
			out = append(out, strings.Join(prefix, ","))
			return
		}
		for _, k := range keys[i] {
			rec(i+1, append(prefix, k))
		}
	}
	rec(0, nil)
	return out
}

// ValidateArrayed checks the §3.5 invariant: every dimension name referenced
// must be declared on the project, and an Arrayed equation's Elements map
// must cover the full cartesian product exactly (no more, no fewer keys).
func (e Equation) ValidateArrayed(dimsDecl map[string][]string) error {
	if !e.IsArrayKind() {
		return nil
	}
	for _, d := range e.Dimensions {
		if _, ok := dimsDecl[d]; !ok {
			return chk.Err("equation: dimension %q is not declared on the project", d)
		}
	}
	if e.Kind != KindArrayed {
		return nil
	}
	want := Subscripts(dimsDecl, e.Dimensions)
	if len(want) != len(e.Elements) {
		return chk.Err("arrayed equation: expected %d elements (full cartesian product), got %d", len(want), len(e.Elements))
	}
	sort.Strings(want)
	for _, k := range want {
		if _, ok := e.Elements[k]; !ok {
			return chk.Err("arrayed equation: missing element for subscript %q", k)
		}
	}
	return nil
}
