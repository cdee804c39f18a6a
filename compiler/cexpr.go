package compiler

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/bpowers/simlin-sub002/builtin"
	"github.com/bpowers/simlin-sub002/parseeqn"
	"github.com/bpowers/simlin-sub002/project"
)

// CExpr is the closed set of compiled-expression node kinds: the result of
// resolving a parseeqn.Expr's identifiers to slot indices. The VM evaluates
// a CExpr against a single flat buffer (curr or prev) plus the current
// (t, dt).
type CExpr interface {
	cexprNode()
}

// CNumber is a literal value.
type CNumber struct{ Value float64 }

func (CNumber) cexprNode() {}

// CSlotRef reads buf[Slot] at evaluation time.
type CSlotRef struct{ Slot int }

func (CSlotRef) cexprNode() {}

// CUnary is a resolved unary expression.
type CUnary struct {
	Op parseeqn.UnaryOp
	X  CExpr
}

func (CUnary) cexprNode() {}

// CBinary is a resolved binary expression.
type CBinary struct {
	Op   parseeqn.BinaryOp
	X, Y CExpr
}

func (CBinary) cexprNode() {}

// CCond is a resolved `IF...THEN...ELSE`.
type CCond struct {
	Cond, Then, Else CExpr
}

func (CCond) cexprNode() {}

// CCall is a resolved call to a KindPure or KindTime builtin.
type CCall struct {
	Name string
	Args []CExpr
}

func (CCall) cexprNode() {}

// CLookup is a resolved graphical-function evaluation, whether spelled as
// LOOKUP(ident, x) or the implicit `variable(x)` call form (§4.4.5).
type CLookup struct {
	GF *project.GraphicalFunction
	X  CExpr
}

func (CLookup) cexprNode() {}

// CDt evaluates to the current step's dt. It is produced only by lowering
// PREVIOUS(x) to SMTH1(x, dt) (§4.3 item 7); no surface equation syntax
// reaches it directly.
type CDt struct{}

func (CDt) cexprNode() {}

// CReduceSum is a resolved SUM(x[*]) (or SUM(x[*,*]), ...) reduction: the
// compiler expands a full wildcard subscript into the concrete element
// slots at compile time (§4.4.4).
type CReduceSum struct {
	Elems []int
}

func (CReduceSum) cexprNode() {}

// Eval evaluates e against buf (curr or prev, depending on what the caller
// is computing) at simulation time t with step size dt. NaN propagates
// through arithmetic per §4.4.6; the VM is responsible for detecting it on
// stock slots after a step.
func Eval(e CExpr, buf []float64, t, dt float64) float64 {
	switch n := e.(type) {
	case CNumber:
		return n.Value
	case CSlotRef:
		return buf[n.Slot]
	case CUnary:
		x := Eval(n.X, buf, t, dt)
		switch n.Op {
		case parseeqn.UnaryPlus:
			return x
		case parseeqn.UnaryMinus:
			return -x
		case parseeqn.UnaryNot:
			return boolToFloat(x == 0)
		}
	case CBinary:
		return evalBinary(n, buf, t, dt)
	case CCond:
		if Eval(n.Cond, buf, t, dt) != 0 {
			return Eval(n.Then, buf, t, dt)
		}
		return Eval(n.Else, buf, t, dt)
	case CCall:
		return evalCall(n, buf, t, dt)
	case CLookup:
		return builtin.EvalLookup(n.GF, Eval(n.X, buf, t, dt))
	case CDt:
		return dt
	case CReduceSum:
		var sum float64
		for _, s := range n.Elems {
			sum += buf[s]
		}
		return sum
	}
	panic(chk.Err("compiler: Eval: unhandled CExpr %T", e))
}

func evalBinary(n CBinary, buf []float64, t, dt float64) float64 {
	x := Eval(n.X, buf, t, dt)
	y := Eval(n.Y, buf, t, dt)
	switch n.Op {
	case parseeqn.BinAdd:
		return x + y
	case parseeqn.BinSub:
		return x - y
	case parseeqn.BinMul:
		return x * y
	case parseeqn.BinDiv:
		if y == 0 {
			return math.NaN() // division by zero yields NaN, propagated per §4.4.6
		}
		return x / y
	case parseeqn.BinPow:
		return math.Pow(x, y)
	case parseeqn.BinLt:
		return boolToFloat(x < y)
	case parseeqn.BinLe:
		return boolToFloat(x <= y)
	case parseeqn.BinGt:
		return boolToFloat(x > y)
	case parseeqn.BinGe:
		return boolToFloat(x >= y)
	case parseeqn.BinEq:
		return boolToFloat(x == y)
	case parseeqn.BinNe:
		return boolToFloat(x != y)
	case parseeqn.BinAnd:
		return boolToFloat(x != 0 && y != 0)
	case parseeqn.BinOr:
		return boolToFloat(x != 0 || y != 0)
	}
	panic(chk.Err("compiler: evalBinary: unhandled op %v", n.Op))
}

func evalCall(n CCall, buf []float64, t, dt float64) float64 {
	spec, ok := builtin.Lookup(n.Name)
	if !ok {
		panic(chk.Err("compiler: evalCall: unregistered builtin %q reached the VM", n.Name))
	}
	args := make([]float64, len(n.Args))
	for i, a := range n.Args {
		args[i] = Eval(a, buf, t, dt)
	}
	switch spec.Kind {
	case builtin.KindPure:
		v, err := builtin.EvalPure(n.Name, args)
		if err != nil {
			panic(err)
		}
		return v
	case builtin.KindTime:
		return evalTimeCall(n.Name, args, t, dt)
	}
	panic(chk.Err("compiler: evalCall: builtin %q should have been lowered at compile time", n.Name))
}

func evalTimeCall(name string, args []float64, t, dt float64) float64 {
	switch name {
	case "step":
		return builtin.Step(args[0], args[1], t)
	case "pulse":
		interval := 0.0
		if len(args) > 2 {
			interval = args[2]
		}
		return builtin.Pulse(args[0], args[1], interval, t, dt)
	case "ramp":
		t1 := math.Inf(1)
		if len(args) > 2 {
			t1 = args[2]
		}
		return builtin.Ramp(args[0], args[1], t1, t)
	}
	panic(chk.Err("compiler: evalTimeCall: unhandled time builtin %q", name))
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
