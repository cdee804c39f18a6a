package project

import "testing"

func buildBassProject() *Project {
	p := NewProject()
	p.Sim = SimSpecs{Start: 0, Stop: 15, Dt: 0.125, Method: Euler, SaveStep: 0.125}
	m := NewModel("main")
	m.AddVariable(NewStock("potential_adopters", NewScalar("999999"), nil, []string{"adopting"}, false))
	m.AddVariable(NewStock("adopters", NewScalar("1"), []string{"adopting"}, nil, false))
	m.AddVariable(NewFlow("adopting", NewScalar("potential_adopters*(contact_rate*adoption_fraction*adopters/market_size)"), false))
	m.AddVariable(NewAux("contact_rate", NewScalar("100")))
	m.AddVariable(NewAux("adoption_fraction", NewScalar("0.015")))
	m.AddVariable(NewAux("market_size", NewScalar("1000000")))
	p.AddModel(m)
	return p
}

func TestProjectValidateOK(t *testing.T) {
	p := buildBassProject()
	if err := p.Validate(); err != nil {
		t.Fatalf("expected valid project, got %v", err)
	}
}

func TestProjectValidateMissingRoot(t *testing.T) {
	p := NewProject()
	p.Sim = SimSpecs{Start: 0, Stop: 1, Dt: 1, SaveStep: 1}
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for missing root model")
	}
}

func TestStockRequiresFlowKind(t *testing.T) {
	p := NewProject()
	p.Sim = SimSpecs{Start: 0, Stop: 1, Dt: 1, SaveStep: 1}
	m := NewModel("main")
	m.AddVariable(NewStock("s", NewScalar("0"), []string{"not_a_flow"}, nil, false))
	m.AddVariable(NewAux("not_a_flow", NewScalar("1")))
	p.AddModel(m)
	if err := p.Validate(); err == nil {
		t.Fatal("expected error: inflow resolves to an aux, not a flow")
	}
}

func TestDuplicateIdent(t *testing.T) {
	m := NewModel("main")
	if err := m.AddVariable(NewAux("X", NewScalar("1"))); err != nil {
		t.Fatal(err)
	}
	if err := m.AddVariable(NewAux("  x  ", NewScalar("2"))); err == nil {
		t.Fatal("expected duplicate-ident error after canonicalization")
	}
}

func TestSimSpecsInvariants(t *testing.T) {
	bad := SimSpecs{Start: 0, Stop: 10, Dt: 0.3, SaveStep: 1} // not integer multiple
	if err := bad.Validate(); err == nil {
		t.Fatal("expected save_step/dt mismatch error")
	}
	good := SimSpecs{Start: 0, Stop: 10, Dt: 0.5, SaveStep: 1}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected valid specs, got %v", err)
	}
	recip := SimSpecs{Start: 0, Stop: 10, Dt: 4, DtIsReciprocal: true, SaveStep: 0.25}
	if got := recip.DtValue(); got != 0.25 {
		t.Fatalf("expected reciprocal dt 0.25, got %v", got)
	}
}
