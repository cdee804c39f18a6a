package builtin

import "github.com/bpowers/simlin-sub002/parseeqn"

// LowerSmth1 lowers SMTH1(in, tau, init?) per §4.3:
//
//	S(0) = init (default init = in evaluated at t0)
//	dS/dt = (in - S)/tau
//	result = S
func LowerSmth1(stockIdent string, in parseeqn.Expr, tau parseeqn.Expr, init parseeqn.Expr) Lowering {
	if init == nil {
		init = in
	}
	s := identRef(stockIdent)
	return Lowering{
		Stages: []Stage{{
			Ident:   stockIdent,
			Init:    init,
			NetFlow: div(sub(in, s), tau),
		}},
		Result: s,
	}
}

// LowerSmth3 lowers SMTH3(in, tau, init?) into a cascade of three
// first-order smooths, each with tau/3 (§4.3), where each stage smooths the
// previous stage's level rather than a flow quantity.
func LowerSmth3(stockIdents [3]string, in parseeqn.Expr, tau parseeqn.Expr, init parseeqn.Expr) Lowering {
	if init == nil {
		init = in
	}
	third := div(tau, num(3))
	var stages []Stage
	prevLevel := in
	var last parseeqn.Expr
	for _, id := range stockIdents {
		s := identRef(id)
		stages = append(stages, Stage{
			Ident:   id,
			Init:    init,
			NetFlow: div(sub(prevLevel, s), third),
		})
		prevLevel = s
		last = s
	}
	return Lowering{Stages: stages, Result: last}
}
