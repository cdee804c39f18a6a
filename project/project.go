// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package project

import "github.com/cpmech/gosl/chk"

// RootModelName is the canonical name of a project's entry-point model (§3.1).
const RootModelName = "main"

// Project owns a SimSpecs and a mapping from model-name to Model (§3.1). It
// is immutable from the core's point of view; mutation happens at an
// external editor boundary that produces a new Project.
type Project struct {
	Sim        SimSpecs
	Models     map[string]*Model  // canonical model name -> Model
	Dimensions map[string][]string // declared dimension name -> ordered element names
}

// NewProject returns an empty Project with default-zero SimSpecs.
func NewProject() *Project {
	return &Project{
		Models:     make(map[string]*Model),
		Dimensions: make(map[string][]string),
	}
}

// AddModel inserts m, keyed by its name.
func (p *Project) AddModel(m *Model) error {
	if _, exists := p.Models[m.Name]; exists {
		return chk.Err("project: duplicate model name %q", m.Name)
	}
	p.Models[m.Name] = m
	return nil
}

// Root returns the "main" model, or nil if absent.
func (p *Project) Root() *Model {
	return p.Models[RootModelName]
}

// Validate checks the project-wide invariants: a root model exists, SimSpecs
// is well-formed, and every model is internally consistent.
func (p *Project) Validate() error {
	if err := p.Sim.Validate(); err != nil {
		return err
	}
	if p.Root() == nil {
		return chk.Err("project: no model named %q (root model)", RootModelName)
	}
	for name, m := range p.Models {
		if err := m.Validate(p.Dimensions); err != nil {
			return chk.Err("project: model %q: %v", name, err)
		}
		for _, v := range m.Variables {
			mod, ok := v.(*Module)
			if !ok {
				continue
			}
			if _, ok := p.Models[mod.ModelName]; !ok {
				return chk.Err("project: module %q in model %q references unknown model %q", mod.Ident(), name, mod.ModelName)
			}
		}
	}
	return nil
}
