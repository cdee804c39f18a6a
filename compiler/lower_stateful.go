package compiler

import (
	"github.com/bpowers/simlin-sub002/builtin"
	"github.com/bpowers/simlin-sub002/parseeqn"
)

// lowerStatefulCall expands a DELAY1/DELAY3/SMTH1/SMTH3/CONVEYOR/QUEUE/
// PREVIOUS call into synthetic stock/flow/output slots (§4.3 item 7), wires
// them into scope so their idents resolve like any other variable, and
// returns a CSlotRef to the materialized output slot in place of the
// original call. The chain is recorded as a MacroGroup for the LTM
// aggregator's macro-collapsing (§4.5.4).
func lowerStatefulCall(c *ctx, n *parseeqn.CallExpr) CExpr {
	switch n.Name {
	case "delay1", "conveyor", "queue":
		in, tau, init := args3(n)
		return lowerCascade1(c, n.Name, in, tau, init, builtin.LowerDelay1)
	case "smth1":
		in, tau, init := args3(n)
		return lowerCascade1(c, n.Name, in, tau, init, builtin.LowerSmth1)
	case "previous":
		x := n.Args[0]
		var init parseeqn.Expr
		if len(n.Args) > 1 {
			init = n.Args[1]
		}
		dt := &parseeqn.IdentExpr{Name: "__dt__"}
		return lowerCascade1(c, n.Name, x, dt, init, builtin.LowerPrevious)
	case "delay3":
		in, tau, init := args3(n)
		return lowerCascade3(c, n.Name, in, tau, init, builtin.LowerDelay3)
	case "smth3":
		in, tau, init := args3(n)
		return lowerCascade3(c, n.Name, in, tau, init, builtin.LowerSmth3)
	}
	return c.fail(TypeMismatch, "unhandled stateful builtin \""+n.Name+"\"")
}

func args3(n *parseeqn.CallExpr) (in, tau, init parseeqn.Expr) {
	in, tau = n.Args[0], n.Args[1]
	if len(n.Args) > 2 {
		init = n.Args[2]
	}
	return
}

// lowerCascade1 handles the single-stage lowerings (DELAY1/SMTH1/CONVEYOR/
// QUEUE/PREVIOUS).
func lowerCascade1(c *ctx, name string, in, tau, init parseeqn.Expr, lower func(string, parseeqn.Expr, parseeqn.Expr, parseeqn.Expr) builtin.Lowering) CExpr {
	stockIdent := c.cp.nextSynthIdent(name + "_s")
	flowIdent := c.cp.nextSynthIdent(name + "_f")
	outIdent := c.cp.nextSynthIdent(name + "_out")

	stockSlot := c.cp.allocSlot(CompiledVar{Ident: c.scope.qualify(stockIdent), Kind: SlotStock, Synthetic: true})
	flowSlot := c.cp.allocSlot(CompiledVar{Ident: c.scope.qualify(flowIdent), Kind: SlotFlow, Synthetic: true})
	outSlot := c.cp.allocSlot(CompiledVar{Ident: c.scope.qualify(outIdent), Kind: SlotAux, Synthetic: true})
	c.scope.local[stockIdent] = stockSlot
	c.scope.local[flowIdent] = flowSlot
	c.scope.local[outIdent] = outSlot

	l := lower(stockIdent, in, tau, init)
	stage := l.Stages[0]

	c.cp.Vars[stockSlot].Init = compileExpr(c, stage.Init)
	c.cp.Vars[flowSlot].Expr = compileExpr(c, stage.NetFlow)
	c.cp.Vars[flowSlot].Inputs = directSlotRefs(c.cp.Vars[flowSlot].Expr)
	c.cp.Vars[stockSlot].Inflows = []StockFlowRef{{Slot: flowSlot, Sign: 1}}
	c.cp.Vars[outSlot].Expr = compileExpr(c, l.Result)
	c.cp.Vars[outSlot].Inputs = directSlotRefs(c.cp.Vars[outSlot].Expr)

	c.cp.Macros = append(c.cp.Macros, MacroGroup{
		Ident:  c.owner,
		Chain:  []int{flowSlot, stockSlot, outSlot},
		Input:  firstInput(c.cp.Vars[flowSlot].Inputs, stockSlot),
		Output: outSlot,
		Params: builtin.LiteralParams([]string{"transit_time", "init"}, []parseeqn.Expr{tau, init}),
	})
	return CSlotRef{outSlot}
}

// lowerCascade3 handles the three-stage lowerings (DELAY3/SMTH3).
func lowerCascade3(c *ctx, name string, in, tau, init parseeqn.Expr, lower func([3]string, parseeqn.Expr, parseeqn.Expr, parseeqn.Expr) builtin.Lowering) CExpr {
	var stockIdents [3]string
	var stockSlots [3]int
	for i := range stockIdents {
		stockIdents[i] = c.cp.nextSynthIdent(name + "_s")
		stockSlots[i] = c.cp.allocSlot(CompiledVar{Ident: c.scope.qualify(stockIdents[i]), Kind: SlotStock, Synthetic: true})
		c.scope.local[stockIdents[i]] = stockSlots[i]
	}
	outIdent := c.cp.nextSynthIdent(name + "_out")
	outSlot := c.cp.allocSlot(CompiledVar{Ident: c.scope.qualify(outIdent), Kind: SlotAux, Synthetic: true})
	c.scope.local[outIdent] = outSlot

	l := lower(stockIdents, in, tau, init)

	chain := make([]int, 0, 7)
	for i, stage := range l.Stages {
		flowIdent := c.cp.nextSynthIdent(name + "_f")
		flowSlot := c.cp.allocSlot(CompiledVar{Ident: c.scope.qualify(flowIdent), Kind: SlotFlow, Synthetic: true})
		c.scope.local[flowIdent] = flowSlot

		c.cp.Vars[stockSlots[i]].Init = compileExpr(c, stage.Init)
		c.cp.Vars[flowSlot].Expr = compileExpr(c, stage.NetFlow)
		c.cp.Vars[flowSlot].Inputs = directSlotRefs(c.cp.Vars[flowSlot].Expr)
		c.cp.Vars[stockSlots[i]].Inflows = []StockFlowRef{{Slot: flowSlot, Sign: 1}}
		chain = append(chain, flowSlot, stockSlots[i])
	}
	c.cp.Vars[outSlot].Expr = compileExpr(c, l.Result)
	c.cp.Vars[outSlot].Inputs = directSlotRefs(c.cp.Vars[outSlot].Expr)
	chain = append(chain, outSlot)

	c.cp.Macros = append(c.cp.Macros, MacroGroup{
		Ident:  c.owner,
		Chain:  chain,
		Input:  firstInput(c.cp.Vars[chain[0]].Inputs, stockSlots[0]),
		Output: outSlot,
		Params: builtin.LiteralParams([]string{"transit_time", "init"}, []parseeqn.Expr{tau, init}),
	})
	return CSlotRef{outSlot}
}

// firstInput returns the first input slot that isn't skip, or skip itself
// if there is none (a constant-driven stage has no external input).
func firstInput(inputs []int, skip int) int {
	for _, s := range inputs {
		if s != skip {
			return s
		}
	}
	return skip
}

// directSlotRefs walks e and returns the deduplicated, stable-ordered list
// of slots it reads directly (one hop), for the LTM ceteris-paribus
// re-evaluation (§4.5.2).
func directSlotRefs(e CExpr) []int {
	var out []int
	seen := map[int]bool{}
	var walk func(CExpr)
	walk = func(e CExpr) {
		switch n := e.(type) {
		case CSlotRef:
			if !seen[n.Slot] {
				seen[n.Slot] = true
				out = append(out, n.Slot)
			}
		case CUnary:
			walk(n.X)
		case CBinary:
			walk(n.X)
			walk(n.Y)
		case CCond:
			walk(n.Cond)
			walk(n.Then)
			walk(n.Else)
		case CCall:
			for _, a := range n.Args {
				walk(a)
			}
		case CLookup:
			walk(n.X)
		case CReduceSum:
			for _, s := range n.Elems {
				if !seen[s] {
					seen[s] = true
					out = append(out, s)
				}
			}
		}
	}
	walk(e)
	return out
}
