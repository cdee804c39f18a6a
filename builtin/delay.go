package builtin

import "github.com/bpowers/simlin-sub002/parseeqn"

// Stage is one synthetic stock in a lowered stateful builtin's cascade: a
// stock identifier, its initial-value expression, and the net-flow
// expression that drives it (§4.3 item 7). NetFlow may reference the
// idents of earlier stages in the same cascade and the ident of the
// builtin's own input expression's pre-allocated holding variable.
type Stage struct {
	Ident   string
	Init    parseeqn.Expr
	NetFlow parseeqn.Expr
}

// Lowering is what a stateful builtin call compiles down to: zero or more
// synthetic stock Stages plus a Result expression (in terms of the stage
// idents) that replaces the original CallExpr at its use site.
type Lowering struct {
	Stages []Stage
	Result parseeqn.Expr
}

// LowerDelay1 lowers DELAY1(in, tau, init?) per §4.3:
//
//	S(0) = init*tau (default init = in evaluated at t0)
//	dS/dt = in - S/tau
//	result = S/tau
//
// stockIdent is the compiler-assigned synthetic stock name; inIdent is the
// already-compiled input expression (typically a reference to a holding
// aux the compiler allocates for `in`, so it is evaluated once per step).
func LowerDelay1(stockIdent string, in parseeqn.Expr, tau parseeqn.Expr, init parseeqn.Expr) Lowering {
	if init == nil {
		init = in
	}
	s := identRef(stockIdent)
	outflow := div(s, tau)
	return Lowering{
		Stages: []Stage{{
			Ident:   stockIdent,
			Init:    mul(init, tau),
			NetFlow: sub(in, outflow),
		}},
		Result: outflow,
	}
}

// LowerDelay3 lowers DELAY3(in, tau, init?) into a three-stage cascade,
// each stage holding tau/3 (§4.3).
func LowerDelay3(stockIdents [3]string, in parseeqn.Expr, tau parseeqn.Expr, init parseeqn.Expr) Lowering {
	if init == nil {
		init = in
	}
	third := div(tau, num(3))
	var stages []Stage
	prevOut := in
	for _, id := range stockIdents {
		s := identRef(id)
		out := div(s, third)
		stages = append(stages, Stage{
			Ident:   id,
			Init:    mul(init, third),
			NetFlow: sub(prevOut, out),
		})
		prevOut = out
	}
	return Lowering{Stages: stages, Result: prevOut}
}
