package builtin

import "github.com/bpowers/simlin-sub002/project"

// EvalLookup evaluates a variable's GraphicalFunction at x (§4.4.5, the
// implicit `variable(x)` call and the explicit LOOKUP(ident, x) form share
// this entry point once the compiler has resolved ident to its GF).
func EvalLookup(gf *project.GraphicalFunction, x float64) float64 {
	return gf.Lookup(x)
}
