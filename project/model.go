// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package project

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/bpowers/simlin-sub002/ident"
)

// Model owns a uniquely-keyed set of Variables and an ordered list of Views (§3.3).
type Model struct {
	Name      string
	Variables map[string]Variable // canonical ident -> Variable
	Views     []View
}

// NewModel returns an empty, named Model.
func NewModel(name string) *Model {
	return &Model{Name: ident.Canonicalize(name), Variables: make(map[string]Variable)}
}

// AddVariable inserts v, keyed by its canonicalized ident. It is a compile
// error (§4.1) for two variables in the same model to canonicalize to the
// same ident.
func (m *Model) AddVariable(v Variable) error {
	key := ident.Canonicalize(v.Ident())
	if _, exists := m.Variables[key]; exists {
		return chk.Err("model %q: duplicate identifier %q", m.Name, key)
	}
	m.Variables[key] = v
	return nil
}

// Get returns the variable with the given (possibly non-canonical) ident,
// or nil if not found.
func (m *Model) Get(name string) Variable {
	return m.Variables[ident.Canonicalize(name)]
}

// SortedIdents returns the model's variable idents in sorted order, for
// deterministic iteration.
func (m *Model) SortedIdents() []string {
	out := make([]string, 0, len(m.Variables))
	for k := range m.Variables {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Validate checks the model-local structural invariants of §3.3: stock
// inflow/outflow idents must name Flow variables in the same model. Arrayed
// equations are checked against the project's declared dimensions.
func (m *Model) Validate(dims map[string][]string) error {
	for key, v := range m.Variables {
		switch vv := v.(type) {
		case *Stock:
			for _, in := range vv.Inflows {
				if err := m.requireFlow(in); err != nil {
					return chk.Err("model %q, stock %q: %v", m.Name, key, err)
				}
			}
			for _, out := range vv.Outflows {
				if err := m.requireFlow(out); err != nil {
					return chk.Err("model %q, stock %q: %v", m.Name, key, err)
				}
			}
			if err := vv.Equation.ValidateArrayed(dims); err != nil {
				return chk.Err("model %q, stock %q: %v", m.Name, key, err)
			}
		case *Flow:
			if err := vv.Equation.ValidateArrayed(dims); err != nil {
				return chk.Err("model %q, flow %q: %v", m.Name, key, err)
			}
		case *Aux:
			if err := vv.Equation.ValidateArrayed(dims); err != nil {
				return chk.Err("model %q, aux %q: %v", m.Name, key, err)
			}
		case *Module:
			if vv.ModelName == "" {
				return chk.Err("model %q, module %q: missing model_name", m.Name, key)
			}
		}
	}
	for i := range m.Views {
		if err := m.Views[i].Validate(); err != nil {
			return chk.Err("model %q: %v", m.Name, err)
		}
	}
	return nil
}

func (m *Model) requireFlow(flowIdent string) error {
	v := m.Get(flowIdent)
	if v == nil {
		return chk.Err("inflow/outflow %q does not resolve to any variable", flowIdent)
	}
	if v.Kind() != KindFlow {
		return chk.Err("inflow/outflow %q resolves to a %s, not a flow", flowIdent, v.Kind())
	}
	return nil
}

// Summary counts variables by kind and returns a human-readable report,
// mirroring the DYNAMO-family habit of dumping a model census before a run.
func (m *Model) Summary() string {
	var nStock, nFlow, nAux, nModule int
	for _, v := range m.Variables {
		switch v.Kind() {
		case KindStock:
			nStock++
		case KindFlow:
			nFlow++
		case KindAux:
			nAux++
		case KindModule:
			nModule++
		}
	}
	return io.Sf("model %q: %d stocks, %d flows, %d auxes, %d modules", m.Name, nStock, nFlow, nAux, nModule)
}
