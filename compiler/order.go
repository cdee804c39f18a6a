package compiler

// orderSlots computes the two execution orders the VM needs (§4.4.1):
// Initials, a topological order over the stock slots' Init expressions
// (§4.4.1 step 1, "evaluate every initials expression in order, write the
// results into the stock slots"), and Steps, a topological order over
// every flow/aux/module-copy slot's per-step expression (the
// flows_then_auxes pass used both during initialization and on every
// subsequent step; stocks are excluded because they read prev, not curr,
// so they never constrain step ordering).
func orderSlots(cp *CompiledProject, errs *[]CompileError) {
	cp.Initials = topoOrderInit(cp, errs)
	cp.Steps = topoOrderStep(cp, errs)
}

func topoOrderInit(cp *CompiledProject, errs *[]CompileError) []int {
	deps := make(map[int][]int, len(cp.Vars))
	nodes := make([]int, 0, len(cp.Vars))
	for i, v := range cp.Vars {
		if v.Kind != SlotStock {
			continue
		}
		nodes = append(nodes, i)
		if v.Init != nil {
			deps[i] = directSlotRefs(v.Init)
		}
	}
	order, cyclePath := kahnSlots(nodes, deps)
	if cyclePath != nil {
		*errs = append(*errs, CompileError{Kind: CircularDependency, Model: cp.RootModel, Message: "circular initial-value dependency among stocks", Path: identPath(cp, cyclePath)})
	}
	return order
}

func topoOrderStep(cp *CompiledProject, errs *[]CompileError) []int {
	deps := make(map[int][]int, len(cp.Vars))
	nodes := make([]int, 0, len(cp.Vars))
	for i, v := range cp.Vars {
		switch v.Kind {
		case SlotStock:
			continue // stocks read prev; they never constrain step order
		case SlotModuleCopy:
			nodes = append(nodes, i)
			deps[i] = []int{v.CopyFrom}
		default:
			nodes = append(nodes, i)
			deps[i] = v.Inputs
		}
	}
	order, cyclePath := kahnSlots(nodes, deps)
	if cyclePath != nil {
		*errs = append(*errs, CompileError{Kind: CircularDependency, Model: cp.RootModel, Message: "circular per-step dependency among flows/auxiliaries (stocks break real feedback loops; this is a same-step cycle)", Path: identPath(cp, cyclePath)})
	}
	return order
}

// kahnSlots is Kahn's algorithm over slot indices, grounded in
// bfix-dynamo's EqnList.Sort but operating directly on already-resolved
// slot dependencies (CompiledVar.Inputs/Init) rather than re-deriving them
// from the raw AST.
func kahnSlots(nodes []int, deps map[int][]int) (order []int, cyclePath []int) {
	indeg := make(map[int]int, len(nodes))
	fwd := make(map[int][]int, len(nodes))
	inSet := make(map[int]bool, len(nodes))
	for _, n := range nodes {
		inSet[n] = true
	}
	for _, n := range nodes {
		indeg[n] = 0
	}
	for _, n := range nodes {
		for _, d := range deps[n] {
			if !inSet[d] || d == n {
				continue
			}
			fwd[d] = append(fwd[d], n)
			indeg[n]++
		}
	}
	queue := make([]int, 0, len(nodes))
	for _, n := range nodes {
		if indeg[n] == 0 {
			queue = append(queue, n)
		}
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, m := range fwd[n] {
			indeg[m]--
			if indeg[m] == 0 {
				queue = append(queue, m)
			}
		}
	}
	if len(order) != len(nodes) {
		remaining := make([]int, 0)
		for _, n := range nodes {
			if indeg[n] > 0 {
				remaining = append(remaining, n)
			}
		}
		return order, remaining
	}
	return order, nil
}

func identPath(cp *CompiledProject, slots []int) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = cp.IdentOf(s)
	}
	return out
}
