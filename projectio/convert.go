// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package projectio

import (
	"encoding/json"

	"github.com/cpmech/gosl/chk"

	"github.com/bpowers/simlin-sub002/project"
)

// ToProject converts the on-disk DTO form into a live project.Project.
func ToProject(f *File) (*project.Project, error) {
	p := project.NewProject()
	p.Sim = project.SimSpecs{
		Start:          f.Sim.Start,
		Stop:           f.Sim.Stop,
		Dt:             f.Sim.Dt,
		DtIsReciprocal: f.Sim.DtIsReciprocal,
		SaveStep:       f.Sim.SaveStep,
		Method:         methodFromString(f.Sim.Method),
		TimeUnits:      f.Sim.TimeUnits,
	}
	for dim, elems := range f.Dimensions {
		p.Dimensions[dim] = append([]string(nil), elems...)
	}
	for name, mf := range f.Models {
		m := project.NewModel(name)
		for ident, vf := range mf.Variables {
			v, err := vf.toVariable(ident)
			if err != nil {
				return nil, chk.Err("projectio: model %q, variable %q: %v", name, ident, err)
			}
			if err := m.AddVariable(v); err != nil {
				return nil, chk.Err("projectio: %v", err)
			}
		}
		for _, vw := range mf.Views {
			view, err := vw.toView()
			if err != nil {
				return nil, chk.Err("projectio: model %q: %v", name, err)
			}
			m.Views = append(m.Views, view)
		}
		if err := p.AddModel(m); err != nil {
			return nil, chk.Err("projectio: %v", err)
		}
	}
	return p, nil
}

func (vf *VariableFile) toVariable(ident string) (project.Variable, error) {
	switch vf.Kind {
	case "stock":
		eqn, err := vf.Equation.toEquation()
		if err != nil {
			return nil, err
		}
		s := project.NewStock(ident, eqn, vf.Inflows, vf.Outflows, vf.NonNegative)
		s.Documentation, s.Units = vf.Documentation, vf.Units
		return s, nil
	case "flow":
		eqn, err := vf.Equation.toEquation()
		if err != nil {
			return nil, err
		}
		fl := project.NewFlow(ident, eqn, vf.NonNegative)
		fl.Documentation, fl.Units = vf.Documentation, vf.Units
		fl.GF = vf.GF.toGF()
		return fl, nil
	case "aux":
		eqn, err := vf.Equation.toEquation()
		if err != nil {
			return nil, err
		}
		a := project.NewAux(ident, eqn)
		a.Documentation, a.Units = vf.Documentation, vf.Units
		a.GF = vf.GF.toGF()
		return a, nil
	case "module":
		refs := make([]project.Reference, len(vf.References))
		for i, r := range vf.References {
			refs[i] = project.Reference{Src: r.Src, Dst: r.Dst}
		}
		mod := project.NewModule(ident, vf.ModelName, refs)
		mod.Documentation, mod.Units = vf.Documentation, vf.Units
		return mod, nil
	default:
		return nil, chk.Err("unknown variable kind %q", vf.Kind)
	}
}

func (ef *EquationFile) toEquation() (project.Equation, error) {
	if ef == nil {
		return project.Equation{}, chk.Err("missing equation")
	}
	switch ef.Kind {
	case "", "scalar":
		return project.NewScalar(ef.Scalar), nil
	case "apply_to_all":
		return project.NewApplyToAll(ef.Dimensions, ef.ApplyToAllEq), nil
	case "arrayed":
		return project.NewArrayed(ef.Dimensions, ef.Elements), nil
	default:
		return project.Equation{}, chk.Err("unknown equation kind %q", ef.Kind)
	}
}

func (g *GraphicalFunction) toGF() *project.GraphicalFunction {
	if g == nil {
		return nil
	}
	return &project.GraphicalFunction{
		Kind:    gfKindFromString(g.Kind),
		XPoints: g.XPoints,
		YPoints: g.YPoints,
		XScale:  project.Scale{Min: g.XScale.Min, Max: g.XScale.Max},
		YScale:  project.Scale{Min: g.YScale.Min, Max: g.YScale.Max},
	}
}

// toView round-trips through encoding/json since project.View's elements
// are opaque pass-through layout data (§3.7) the core never interprets.
func (vw *View) toView() (project.View, error) {
	b, err := json.Marshal(vw.Elements)
	if err != nil {
		return project.View{}, err
	}
	var elems []project.ViewElement
	if err := json.Unmarshal(b, &elems); err != nil {
		return project.View{}, err
	}
	return project.View{Elements: elems}, nil
}

func methodFromString(s string) project.IntegrationMethod {
	if s == "rk4" {
		return project.RungeKutta4
	}
	return project.Euler
}

func gfKindFromString(s string) project.GFKind {
	switch s {
	case "extrapolate":
		return project.GFExtrapolate
	case "discrete":
		return project.GFDiscrete
	default:
		return project.GFContinuous
	}
}

// FromProject converts a live project.Project into its on-disk DTO form,
// the inverse of ToProject.
func FromProject(p *project.Project) (*File, error) {
	f := &File{
		Sim: SimSpecsFile{
			Start:          p.Sim.Start,
			Stop:           p.Sim.Stop,
			Dt:             p.Sim.Dt,
			DtIsReciprocal: p.Sim.DtIsReciprocal,
			SaveStep:       p.Sim.SaveStep,
			Method:         p.Sim.Method.String(),
			TimeUnits:      p.Sim.TimeUnits,
		},
		Dimensions: p.Dimensions,
		Models:     make(map[string]ModelFile, len(p.Models)),
	}
	for name, m := range p.Models {
		mf := ModelFile{Variables: make(map[string]VariableFile, len(m.Variables))}
		for ident, v := range m.Variables {
			vf, err := fromVariable(v)
			if err != nil {
				return nil, chk.Err("projectio: model %q, variable %q: %v", name, ident, err)
			}
			mf.Variables[ident] = vf
		}
		for _, vw := range m.Views {
			b, err := json.Marshal(vw.Elements)
			if err != nil {
				return nil, err
			}
			var raw []map[string]interface{}
			if err := json.Unmarshal(b, &raw); err != nil {
				return nil, err
			}
			mf.Views = append(mf.Views, View{Elements: raw})
		}
		f.Models[name] = mf
	}
	return f, nil
}

func fromVariable(v project.Variable) (VariableFile, error) {
	vf := VariableFile{Kind: v.Kind().String(), Documentation: v.Doc(), Units: v.VarUnits()}
	switch vv := v.(type) {
	case *project.Stock:
		eqn := fromEquation(vv.Equation)
		vf.Equation = &eqn
		vf.Inflows, vf.Outflows, vf.NonNegative = vv.Inflows, vv.Outflows, vv.NonNegative
	case *project.Flow:
		eqn := fromEquation(vv.Equation)
		vf.Equation = &eqn
		vf.NonNegative = vv.NonNegative
		vf.GF = fromGF(vv.GF)
	case *project.Aux:
		eqn := fromEquation(vv.Equation)
		vf.Equation = &eqn
		vf.GF = fromGF(vv.GF)
	case *project.Module:
		vf.ModelName = vv.ModelName
		for _, r := range vv.References {
			vf.References = append(vf.References, ReferenceFile{Src: r.Src, Dst: r.Dst})
		}
	default:
		return VariableFile{}, chk.Err("unknown Variable implementation %T", v)
	}
	return vf, nil
}

func fromEquation(e project.Equation) EquationFile {
	ef := EquationFile{Dimensions: e.Dimensions, Elements: e.Elements}
	switch e.Kind {
	case project.KindApplyToAll:
		ef.Kind = "apply_to_all"
		ef.ApplyToAllEq = e.ApplyToAllEq
	case project.KindArrayed:
		ef.Kind = "arrayed"
	default:
		ef.Kind = "scalar"
		ef.Scalar = e.Scalar
	}
	return ef
}

func fromGF(g *project.GraphicalFunction) *GraphicalFunction {
	if g == nil {
		return nil
	}
	kind := "continuous"
	switch g.Kind {
	case project.GFExtrapolate:
		kind = "extrapolate"
	case project.GFDiscrete:
		kind = "discrete"
	}
	return &GraphicalFunction{
		Kind:    kind,
		XPoints: g.XPoints,
		YPoints: g.YPoints,
		XScale:  ScaleFile{Min: g.XScale.Min, Max: g.XScale.Max},
		YScale:  ScaleFile{Min: g.YScale.Min, Max: g.YScale.Max},
	}
}
