package builtin

import "testing"

func TestStep(t *testing.T) {
	if v := Step(5, 2, 1); v != 0 {
		t.Errorf("before t0: got %v want 0", v)
	}
	if v := Step(5, 2, 2); v != 5 {
		t.Errorf("at t0: got %v want 5", v)
	}
	if v := Step(5, 2, 10); v != 5 {
		t.Errorf("after t0: got %v want 5", v)
	}
}

// TestPulseBoundary covers the decided open question: a pulse at t0 fires
// iff t0 in [t-dt, t).
func TestPulseBoundary(t *testing.T) {
	dt := 0.25
	cases := []struct {
		t    float64
		want float64
	}{
		{0.25, 4},  // first pulse time 0 lies in [0, 0.25)... step landing on t=0.25 covers [0,0.25)
		{0.5, 0},   // window [0.25,0.5) does not contain 0
		{0.75, 0},
	}
	for _, c := range cases {
		got := Pulse(1, 0, 0, c.t, dt)
		if got != c.want {
			t.Errorf("Pulse at t=%v: got %v want %v", c.t, got, c.want)
		}
	}
}

func TestPulseRepeating(t *testing.T) {
	dt := 1.0
	// pulses scheduled at 2, 6, 10, ...
	if got := Pulse(1, 2, 4, 3, dt); got != 1 {
		t.Errorf("pulse at step ending t=3 (window [2,3)): got %v want 1", got)
	}
	if got := Pulse(1, 2, 4, 7, dt); got != 1 {
		t.Errorf("pulse at step ending t=7 (window [6,7)): got %v want 1", got)
	}
	if got := Pulse(1, 2, 4, 5, dt); got != 0 {
		t.Errorf("no pulse scheduled in window [4,5): got %v want 0", got)
	}
}

func TestPulseZeroDt(t *testing.T) {
	if got := Pulse(1, 0, 0, 0, 0); got != 0 {
		t.Errorf("dt=0 must not divide by zero: got %v", got)
	}
}

func TestRamp(t *testing.T) {
	if v := Ramp(2, 1, 5, 0); v != 0 {
		t.Errorf("before start: got %v want 0", v)
	}
	if v := Ramp(2, 1, 5, 3); v != 4 {
		t.Errorf("mid-ramp: got %v want 4", v)
	}
	if v := Ramp(2, 1, 5, 100); v != 8 {
		t.Errorf("after end held: got %v want 8", v)
	}
}
