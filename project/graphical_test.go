package project

import "testing"

func TestGraphicalFunctionContinuous(t *testing.T) {
	gf := &GraphicalFunction{
		Kind:    GFContinuous,
		XPoints: []float64{0, 1, 2},
		YPoints: []float64{0, 10, 20},
	}
	if err := gf.Validate(); err != nil {
		t.Fatal(err)
	}
	if v := gf.Lookup(0.5); v != 5 {
		t.Errorf("interp: got %v want 5", v)
	}
	if v := gf.Lookup(-1); v != 0 {
		t.Errorf("clamp low: got %v want 0", v)
	}
	if v := gf.Lookup(5); v != 20 {
		t.Errorf("clamp high: got %v want 20", v)
	}
}

func TestGraphicalFunctionExtrapolate(t *testing.T) {
	gf := &GraphicalFunction{
		Kind:    GFExtrapolate,
		XPoints: []float64{0, 1, 2},
		YPoints: []float64{0, 10, 20},
	}
	if v := gf.Lookup(3); v != 30 {
		t.Errorf("extrapolate high: got %v want 30", v)
	}
	if v := gf.Lookup(-1); v != -10 {
		t.Errorf("extrapolate low: got %v want -10", v)
	}
}

func TestGraphicalFunctionDiscrete(t *testing.T) {
	gf := &GraphicalFunction{
		Kind:    GFDiscrete,
		XPoints: []float64{0, 1, 2},
		YPoints: []float64{5, 10, 20},
	}
	if v := gf.Lookup(0.5); v != 5 {
		t.Errorf("discrete mid: got %v want 5", v)
	}
	if v := gf.Lookup(-1); v != 5 {
		t.Errorf("discrete below: got %v want 5", v)
	}
	if v := gf.Lookup(2); v != 20 {
		t.Errorf("discrete at last: got %v want 20", v)
	}
	if v := gf.Lookup(100); v != 20 {
		t.Errorf("discrete above: got %v want 20", v)
	}
}

func TestGraphicalFunctionUniformGridFromScale(t *testing.T) {
	gf := &GraphicalFunction{
		Kind:   GFContinuous,
		YPoints: []float64{0, 5, 10},
		XScale: Scale{Min: 0, Max: 4},
	}
	if err := gf.Validate(); err != nil {
		t.Fatal(err)
	}
	if v := gf.Lookup(2); v != 5 {
		t.Errorf("derived grid midpoint: got %v want 5", v)
	}
}
