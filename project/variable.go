// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package project

// VariableKind tags the closed Variable variant set (§3.4).
type VariableKind int

const (
	KindStock VariableKind = iota
	KindFlow
	KindAux
	KindModule
)

// String returns a human-readable name of the variable kind.
func (k VariableKind) String() string {
	switch k {
	case KindStock:
		return "stock"
	case KindFlow:
		return "flow"
	case KindAux:
		return "aux"
	case KindModule:
		return "module"
	default:
		return "unknown"
	}
}

// Variable is the closed Stock | Flow | Aux | Module variant. Every
// implementation is a pointer type so that compiler/sim code sharing a
// *Variable-by-ident map mutates the same underlying record.
type Variable interface {
	Ident() string
	Kind() VariableKind
	Doc() string
	VarUnits() string
}

// common holds the fields shared by all Variable variants (§3.4).
type common struct {
	IdentName     string `json:"ident" yaml:"ident"`
	Documentation string `json:"documentation,omitempty" yaml:"documentation,omitempty"`
	Units         string `json:"units,omitempty" yaml:"units,omitempty"`
}

func (c *common) Ident() string    { return c.IdentName }
func (c *common) Doc() string      { return c.Documentation }
func (c *common) VarUnits() string { return c.Units }

// Stock owns an initial-value equation and its named in/out flows (§3.4).
type Stock struct {
	common
	Equation    Equation
	Inflows     []string
	Outflows    []string
	NonNegative bool
}

// Kind implements Variable.
func (*Stock) Kind() VariableKind { return KindStock }

// NewStock constructs a Stock variable.
func NewStock(ident string, eqn Equation, inflows, outflows []string, nonNeg bool) *Stock {
	return &Stock{common: common{IdentName: ident}, Equation: eqn, Inflows: inflows, Outflows: outflows, NonNegative: nonNeg}
}

// Flow is a rate variable that feeds zero or more stocks (§3.4).
type Flow struct {
	common
	Equation    Equation
	GF          *GraphicalFunction
	NonNegative bool
}

// Kind implements Variable.
func (*Flow) Kind() VariableKind { return KindFlow }

// NewFlow constructs a Flow variable.
func NewFlow(ident string, eqn Equation, nonNeg bool) *Flow {
	return &Flow{common: common{IdentName: ident}, Equation: eqn, NonNegative: nonNeg}
}

// Aux is an algebraic variable with no integration state (§3.4).
type Aux struct {
	common
	Equation Equation
	GF       *GraphicalFunction
}

// Kind implements Variable.
func (*Aux) Kind() VariableKind { return KindAux }

// NewAux constructs an Aux variable.
func NewAux(ident string, eqn Equation) *Aux {
	return &Aux{common: common{IdentName: ident}, Equation: eqn}
}

// Reference wires a parent ident (src) to a child model's input ident (dst) (§3.4).
type Reference struct {
	Src string
	Dst string
}

// Module instantiates another model and wires its inputs (§3.4).
type Module struct {
	common
	ModelName  string
	References []Reference
}

// Kind implements Variable.
func (*Module) Kind() VariableKind { return KindModule }

// NewModule constructs a Module variable.
func NewModule(ident, modelName string, refs []Reference) *Module {
	return &Module{common: common{IdentName: ident}, ModelName: modelName, References: refs}
}
