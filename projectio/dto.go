// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package projectio is the external-collaborator boundary of a project
// (§6.1): reading/writing the on-disk project form (YAML or JSON, a flat
// DTO schema distinct from project.Project's live Variable-interface
// graph, the way inp/sim.go reads a flat Simulation struct off disk and
// only derives live mesh/material objects afterward) and the XMILE/Vensim
// parse-boundary contracts.
package projectio

// File is the on-disk project schema: a flat, fully json/yaml-taggable
// mirror of project.Project that round-trips through convert.go. It
// exists because project.Variable is a closed interface, not a struct,
// so it cannot be unmarshalled directly.
type File struct {
	Sim        SimSpecsFile         `json:"sim" yaml:"sim"`
	Dimensions map[string][]string  `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	Models     map[string]ModelFile `json:"models" yaml:"models"`
}

// SimSpecsFile mirrors project.SimSpecs.
type SimSpecsFile struct {
	Start          float64 `json:"start" yaml:"start"`
	Stop           float64 `json:"stop" yaml:"stop"`
	Dt             float64 `json:"dt" yaml:"dt"`
	DtIsReciprocal bool    `json:"dt_is_reciprocal,omitempty" yaml:"dt_is_reciprocal,omitempty"`
	SaveStep       float64 `json:"save_step,omitempty" yaml:"save_step,omitempty"`
	Method         string  `json:"method,omitempty" yaml:"method,omitempty"` // "euler" | "rk4"
	TimeUnits      string  `json:"time_units,omitempty" yaml:"time_units,omitempty"`
}

// ModelFile mirrors project.Model.
type ModelFile struct {
	Variables map[string]VariableFile `json:"variables" yaml:"variables"`
	Views     []View                  `json:"views,omitempty" yaml:"views,omitempty"`
}

// VariableFile mirrors the closed Variable variant set: exactly one of
// Stock/Flow/Aux/Module is populated, selected by Kind.
type VariableFile struct {
	Kind          string              `json:"kind" yaml:"kind"` // "stock" | "flow" | "aux" | "module"
	Documentation string              `json:"documentation,omitempty" yaml:"documentation,omitempty"`
	Units         string              `json:"units,omitempty" yaml:"units,omitempty"`
	Equation      *EquationFile       `json:"equation,omitempty" yaml:"equation,omitempty"`
	GF            *GraphicalFunction  `json:"gf,omitempty" yaml:"gf,omitempty"`
	NonNegative   bool                `json:"non_negative,omitempty" yaml:"non_negative,omitempty"`

	// KindStock
	Inflows  []string `json:"inflows,omitempty" yaml:"inflows,omitempty"`
	Outflows []string `json:"outflows,omitempty" yaml:"outflows,omitempty"`

	// KindModule
	ModelName  string            `json:"model_name,omitempty" yaml:"model_name,omitempty"`
	References []ReferenceFile   `json:"references,omitempty" yaml:"references,omitempty"`
}

// EquationFile mirrors project.Equation.
type EquationFile struct {
	Kind         string            `json:"kind" yaml:"kind"` // "scalar" | "apply_to_all" | "arrayed"
	Scalar       string            `json:"scalar,omitempty" yaml:"scalar,omitempty"`
	Dimensions   []string          `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	ApplyToAllEq string            `json:"apply_to_all_eq,omitempty" yaml:"apply_to_all_eq,omitempty"`
	Elements     map[string]string `json:"elements,omitempty" yaml:"elements,omitempty"`
}

// ReferenceFile mirrors project.Reference.
type ReferenceFile struct {
	Src string `json:"src" yaml:"src"`
	Dst string `json:"dst" yaml:"dst"`
}

// GraphicalFunction mirrors project.GraphicalFunction, with Kind spelled as
// a string name instead of a project.GFKind value.
type GraphicalFunction struct {
	Kind    string    `json:"kind" yaml:"kind"` // "continuous" | "extrapolate" | "discrete"
	XPoints []float64 `json:"x_points,omitempty" yaml:"x_points,omitempty"`
	YPoints []float64 `json:"y_points" yaml:"y_points"`
	XScale  ScaleFile `json:"x_scale" yaml:"x_scale"`
	YScale  ScaleFile `json:"y_scale" yaml:"y_scale"`
}

// ScaleFile mirrors project.Scale.
type ScaleFile struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// View mirrors project.View; view elements are passed through as opaque
// maps since the core treats them as opaque layout data (§3.7).
type View struct {
	Elements []map[string]interface{} `json:"elements,omitempty" yaml:"elements,omitempty"`
}
