package ident

import "testing"

func TestCanonicalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Potential Adopters", "potential_adopters"},
		{"  Adopters  ", "adopters"},
		{"\"Quoted Name\"", "quoted_name"},
		{"already_canon", "already_canon"},
		{"Multi   Space", "multi_space"},
		{"\"", "\""},
	}
	for _, c := range cases {
		if got := Canonicalize(c.in); got != c.want {
			t.Errorf("Canonicalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	inputs := []string{"Potential Adopters", "  X  ", "\"Y Z\"", "already"}
	for _, in := range inputs {
		once := Canonicalize(in)
		twice := Canonicalize(once)
		if once != twice {
			t.Errorf("Canonicalize not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

func TestEqual(t *testing.T) {
	if !Equal("Adopters", "  adopters ") {
		t.Error("expected canonical equality")
	}
	if Equal("Adopters", "Potential Adopters") {
		t.Error("expected inequality")
	}
}

func TestSplit(t *testing.T) {
	got := Split("Sub1.Sub2.My Var")
	want := []string{"sub1", "sub2", "my_var"}
	if len(got) != len(want) {
		t.Fatalf("len mismatch: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment %d: got %q want %q", i, got[i], want[i])
		}
	}
}
