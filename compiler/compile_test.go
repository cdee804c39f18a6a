package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bpowers/simlin-sub002/compiler"
	"github.com/bpowers/simlin-sub002/project"
)

// birthsOnlyProject is an isolated reinforcing loop: population grows at a
// constant fractional birth rate with no offsetting outflow.
func birthsOnlyProject() *project.Project {
	p := project.NewProject()
	p.Sim = project.SimSpecs{Start: 0, Stop: 10, Dt: 1, SaveStep: 1, Method: project.Euler}
	m := project.NewModel("main")
	_ = m.AddVariable(project.NewStock("population", project.NewScalar("100"), []string{"births"}, nil, false))
	_ = m.AddVariable(project.NewFlow("births", project.NewScalar("population*birth_fraction"), false))
	_ = m.AddVariable(project.NewAux("birth_fraction", project.NewScalar("0.1")))
	_ = p.AddModel(m)
	return p
}

func TestCompileBirthsOnly(t *testing.T) {
	cp, errs := compiler.Compile(birthsOnlyProject())
	require.Empty(t, errs)
	require.NotNil(t, cp)

	require.Contains(t, cp.SlotByName, "population")
	require.Contains(t, cp.SlotByName, "births")
	require.Contains(t, cp.SlotByName, "birth_fraction")

	popSlot := cp.SlotByName["population"]
	require.Equal(t, compiler.SlotStock, cp.Vars[popSlot].Kind)
	require.Len(t, cp.Vars[popSlot].Inflows, 1)
	require.Equal(t, cp.SlotByName["births"], cp.Vars[popSlot].Inflows[0].Slot)
	require.Equal(t, float64(1), cp.Vars[popSlot].Inflows[0].Sign)

	// births must be ordered before population never matters (stocks read
	// prev), but births must come after birth_fraction in the step order.
	idxBirths, idxFrac := -1, -1
	for i, s := range cp.Steps {
		if s == cp.SlotByName["births"] {
			idxBirths = i
		}
		if s == cp.SlotByName["birth_fraction"] {
			idxFrac = i
		}
	}
	require.Greater(t, idxBirths, idxFrac)
}

func TestCompileUndefinedIdent(t *testing.T) {
	p := project.NewProject()
	p.Sim = project.SimSpecs{Start: 0, Stop: 1, Dt: 1, SaveStep: 1}
	m := project.NewModel("main")
	_ = m.AddVariable(project.NewAux("x", project.NewScalar("nonexistent_ident * 2")))
	_ = p.AddModel(m)

	_, errs := compiler.Compile(p)
	require.NotEmpty(t, errs)
	found := false
	for _, e := range errs {
		if e.Kind == compiler.UndefinedIdent {
			found = true
		}
	}
	require.True(t, found, "expected an UndefinedIdent error, got %v", errs)
}

func TestCompileCircularDependency(t *testing.T) {
	p := project.NewProject()
	p.Sim = project.SimSpecs{Start: 0, Stop: 1, Dt: 1, SaveStep: 1}
	m := project.NewModel("main")
	_ = m.AddVariable(project.NewAux("a", project.NewScalar("b + 1")))
	_ = m.AddVariable(project.NewAux("b", project.NewScalar("a + 1")))
	_ = p.AddModel(m)

	_, errs := compiler.Compile(p)
	require.NotEmpty(t, errs)
	found := false
	for _, e := range errs {
		if e.Kind == compiler.CircularDependency {
			found = true
		}
	}
	require.True(t, found, "expected a CircularDependency error, got %v", errs)
}

func TestCompileBadArity(t *testing.T) {
	p := project.NewProject()
	p.Sim = project.SimSpecs{Start: 0, Stop: 1, Dt: 1, SaveStep: 1}
	m := project.NewModel("main")
	_ = m.AddVariable(project.NewAux("x", project.NewScalar("MAX(1)")))
	_ = p.AddModel(m)

	_, errs := compiler.Compile(p)
	require.NotEmpty(t, errs)
	found := false
	for _, e := range errs {
		if e.Kind == compiler.ArityMismatch {
			found = true
		}
	}
	require.True(t, found, "expected an ArityMismatch error for MAX/1, got %v", errs)
}

// TestCompileArrayedApplyToAll exercises §3.5/§4.4.4: an ApplyToAll
// equation compiles to one slot per cartesian-product element, and a
// SUM(x[*]) reduction over those elements resolves to every element slot.
func TestCompileArrayedApplyToAll(t *testing.T) {
	p := project.NewProject()
	p.Sim = project.SimSpecs{Start: 0, Stop: 1, Dt: 1, SaveStep: 1}
	p.Dimensions["region"] = []string{"north", "south", "east"}
	m := project.NewModel("main")
	_ = m.AddVariable(project.NewAux("capacity", project.NewApplyToAll([]string{"region"}, "100")))
	_ = m.AddVariable(project.NewAux("total_capacity", project.NewScalar("SUM(capacity[*])")))
	_ = p.AddModel(m)

	cp, errs := compiler.Compile(p)
	require.Empty(t, errs)
	require.NotNil(t, cp)

	for _, key := range []string{"north", "south", "east"} {
		require.Contains(t, cp.SlotByName, "capacity["+key+"]")
	}
	totalSlot := cp.SlotByName["total_capacity"]
	require.Len(t, cp.Vars[totalSlot].Inputs, 3)
}

// TestCompileArrayedMissingElement exercises §3.5's coverage invariant: an
// Arrayed equation whose element map does not cover the full cartesian
// product is rejected during Project.Validate (wrapped as TypeMismatch by
// Compile) before the compiler's own per-slot BadSubscript check ever runs.
func TestCompileArrayedMissingElement(t *testing.T) {
	p := project.NewProject()
	p.Sim = project.SimSpecs{Start: 0, Stop: 1, Dt: 1, SaveStep: 1}
	p.Dimensions["region"] = []string{"north", "south"}
	m := project.NewModel("main")
	_ = m.AddVariable(project.NewAux("capacity", project.NewArrayed([]string{"region"}, map[string]string{"north": "100"})))
	_ = p.AddModel(m)

	_, errs := compiler.Compile(p)
	require.NotEmpty(t, errs)
	found := false
	for _, e := range errs {
		if e.Kind == compiler.TypeMismatch {
			found = true
		}
	}
	require.True(t, found, "expected a TypeMismatch error for missing element, got %v", errs)
}

func TestCompileModuleWiring(t *testing.T) {
	p := project.NewProject()
	p.Sim = project.SimSpecs{Start: 0, Stop: 1, Dt: 1, SaveStep: 1}

	sub := project.NewModel("sector")
	_ = sub.AddVariable(project.NewAux("input", project.NewScalar("0")))
	_ = sub.AddVariable(project.NewAux("doubled", project.NewScalar("input*2")))
	_ = p.AddModel(sub)

	root := project.NewModel("main")
	_ = root.AddVariable(project.NewAux("source", project.NewScalar("21")))
	_ = root.AddVariable(project.NewModule("sector_inst", "sector", []project.Reference{{Src: "source", Dst: "input"}}))
	_ = p.AddModel(root)

	cp, errs := compiler.Compile(p)
	require.Empty(t, errs)
	require.NotNil(t, cp)
	require.Contains(t, cp.SlotByName, "sector_inst.doubled")
	require.Contains(t, cp.SlotByName, "sector_inst.input")

	copySlot := cp.SlotByName["sector_inst.input"]
	require.Equal(t, compiler.SlotModuleCopy, cp.Vars[copySlot].Kind)
	require.Equal(t, cp.SlotByName["source"], cp.Vars[copySlot].CopyFrom)
}
