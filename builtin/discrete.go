package builtin

import "github.com/bpowers/simlin-sub002/parseeqn"

// LowerConveyor approximates CONVEYOR(in, transit_time, init?) by a
// perfect-mixing stock, i.e. the same cascade as DELAY1 (§4.5.5): true FIFO
// ordering of material through the pipeline is not preserved, but total
// residence time and throughput match in steady state.
func LowerConveyor(stockIdent string, in parseeqn.Expr, transitTime parseeqn.Expr, init parseeqn.Expr) Lowering {
	return LowerDelay1(stockIdent, in, transitTime, init)
}

// LowerQueue approximates QUEUE(in, transit_time, init?) the same way as
// LowerConveyor: a discrete FIFO collapsed to its perfect-mixing continuous
// analogue (§4.5.5).
func LowerQueue(stockIdent string, in parseeqn.Expr, transitTime parseeqn.Expr, init parseeqn.Expr) Lowering {
	return LowerDelay1(stockIdent, in, transitTime, init)
}

// LowerPrevious approximates stateful PREVIOUS(x, init?) — "the value x had
// last step" — as SMTH1(x, dt, init): under Euler integration this is
// exact, since S_{k} = S_{k-1} + dt*(x_{k-1}-S_{k-1})/dt = x_{k-1}. Under
// RK4 it is the perfect-mixing approximation noted in §4.5.5.
func LowerPrevious(stockIdent string, x parseeqn.Expr, dt parseeqn.Expr, init parseeqn.Expr) Lowering {
	return LowerSmth1(stockIdent, x, dt, init)
}
