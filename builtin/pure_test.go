package builtin

import "testing"

func TestEvalPureArithmetic(t *testing.T) {
	cases := []struct {
		name string
		args []float64
		want float64
	}{
		{"abs", []float64{-3}, 3},
		{"min", []float64{2, 5}, 2},
		{"max", []float64{2, 5}, 5},
		{"int", []float64{3.9}, 3},
		{"modulo", []float64{7, 3}, 1},
		{"zidz", []float64{10, 0}, 0},
		{"zidz", []float64{10, 2}, 5},
		{"xidz", []float64{10, 0, 99}, 99},
		{"xidz", []float64{10, 2, 99}, 5},
		{"nonnegative", []float64{-5}, 0},
		{"nonnegative", []float64{5}, 5},
	}
	for _, c := range cases {
		got, err := EvalPure(c.name, c.args)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.name, err)
		}
		if got != c.want {
			t.Errorf("%s(%v): got %v want %v", c.name, c.args, got, c.want)
		}
	}
}

func TestEvalPureUnknown(t *testing.T) {
	if _, err := EvalPure("not_a_function", nil); err == nil {
		t.Fatal("expected error for unknown/non-pure function")
	}
}

func TestCheckArity(t *testing.T) {
	if err := CheckArity("min", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckArity("min", 1); err == nil {
		t.Fatal("expected arity error")
	}
	if err := CheckArity("delay1", 2); err != nil {
		t.Fatalf("unexpected error for delay1/2: %v", err)
	}
	if err := CheckArity("nope", 1); err == nil {
		t.Fatal("expected error for unknown function")
	}
}
