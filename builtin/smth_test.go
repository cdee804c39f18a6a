package builtin

import (
	"testing"

	"github.com/bpowers/simlin-sub002/parseeqn"
)

func TestLowerSmth1ResultIsStockItself(t *testing.T) {
	in := identRef("signal")
	tau := num(4)
	lw := LowerSmth1("smth1_s1", in, tau, nil)
	if len(lw.Stages) != 1 {
		t.Fatalf("expected 1 stage, got %d", len(lw.Stages))
	}
	res, ok := lw.Result.(*parseeqn.IdentExpr)
	if !ok || res.Name != "smth1_s1" {
		t.Fatalf("expected result to be the stock itself, got %#v", lw.Result)
	}
	if lw.Stages[0].Init != in {
		t.Errorf("expected default init to be the input expression")
	}
}

func TestLowerSmth3Cascade(t *testing.T) {
	in := identRef("signal")
	tau := num(9)
	lw := LowerSmth3([3]string{"s1", "s2", "s3"}, in, tau, nil)
	if len(lw.Stages) != 3 {
		t.Fatalf("expected 3 stages, got %d", len(lw.Stages))
	}
	res, ok := lw.Result.(*parseeqn.IdentExpr)
	if !ok || res.Name != "s3" {
		t.Fatalf("expected result to be the last stage's stock, got %#v", lw.Result)
	}
}

func TestLowerPreviousIsSmth1WithTauEqualDt(t *testing.T) {
	x := identRef("x")
	dt := num(0.25)
	lw := LowerPrevious("previous_s1", x, dt, nil)
	if len(lw.Stages) != 1 {
		t.Fatalf("expected 1 stage, got %d", len(lw.Stages))
	}
	div, ok := lw.Stages[0].NetFlow.(*parseeqn.BinaryExpr)
	if !ok || div.Op != parseeqn.BinDiv || div.Y != dt {
		t.Fatalf("expected net flow divided by dt, got %#v", lw.Stages[0].NetFlow)
	}
}
