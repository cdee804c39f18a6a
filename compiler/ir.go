package compiler

import (
	"strconv"

	"github.com/cpmech/gosl/fun/dbf"

	"github.com/bpowers/simlin-sub002/project"
)

// SlotKind distinguishes how a compiled slot's value is produced each step
// (§3.8, §4.4.1).
type SlotKind int

const (
	// SlotStock is integrated: Init runs once at t0, then the VM advances
	// it by dt*net_flow every subsequent step.
	SlotStock SlotKind = iota
	// SlotFlow is a rate variable, re-evaluated every step.
	SlotFlow
	// SlotAux is an algebraic variable, re-evaluated every step.
	SlotAux
	// SlotModuleCopy is a module input: copied from a parent slot at the
	// start of every flows_then_auxes pass (§4.4.3), never from its own
	// Expr.
	SlotModuleCopy
)

// StockFlowRef is one signed flow slot feeding a stock's net-flow sum
// (§4.4.1 step 2: net_flow = sum(inflows) - sum(outflows)).
type StockFlowRef struct {
	Slot int
	Sign float64 // +1 inflow, -1 outflow
}

// MacroGroup records a stateful-builtin lowering's synthetic stock/flow
// chain (§4.3 item 7) so the LTM aggregator can collapse macro-internal
// link scores to a single composite pathway (§4.5.4). DELAY/SMTH/CONVEYOR/
// QUEUE/PREVIOUS all lower to a single linear cascade (no branching), so
// the internal pathway from Input to Output is unique.
type MacroGroup struct {
	// Ident is the canonical ident of the variable whose equation
	// contained the stateful call (diagnostic + simplified-CLD label).
	Ident string
	// Chain is the ordered list of slots along the unique internal
	// pathway: each stage's synthetic flow followed by its stock, then the
	// Output slot.
	Chain []int
	// Input is the slot the first stage's net-flow reads as its driving
	// input (may be a holding aux the compiler allocated for a
	// non-trivial `in` expression).
	Input int
	// Output is the slot whose value is substituted at the original call
	// site (e.g. the final stage's rate expression for DELAY, or the
	// last level for SMTH).
	Output int

	// Params captures the lowering's literal-valued arguments (transit
	// time, initial value) for `sim inspect`; non-literal arguments are
	// omitted since they are just another compiled expression (see
	// builtin.LiteralParams).
	Params dbf.Params
}

// CompiledVar is one slot's compiled definition (§3.8).
type CompiledVar struct {
	Slot        int
	Ident       string // qualified dotted path, e.g. "sector_a.population"
	Kind        SlotKind
	Synthetic   bool // allocated by stateful-builtin lowering, not user-authored
	NonNegative bool

	Init CExpr // SlotStock only: initial-value expression
	Expr CExpr // SlotFlow/SlotAux: per-step expression

	CopyFrom int // SlotModuleCopy: parent slot index copied every step

	Inflows  []StockFlowRef // SlotStock only
	Outflows []StockFlowRef // SlotStock only

	// Inputs is the deduplicated, stable-ordered list of slots this
	// variable's Expr reads directly (one hop, not transitive). Used by
	// the LTM link-score computer's ceteris-paribus re-evaluation
	// (§4.5.2). Empty for SlotStock and SlotModuleCopy.
	Inputs []int
}

// CompiledProject is the output of Compile (§3.8, §4.3): a single flat,
// dense slot array spanning the root model and every instantiated module,
// plus a dependency-ordered execution plan.
type CompiledProject struct {
	NSlots int
	Vars   []CompiledVar // len == NSlots, indexed by slot

	// Initials is the stock slot evaluation order for step k=0 (§4.4.1
	// item 1): a topological order over the stocks' Init expressions, so a
	// stock whose initial value reads another stock comes after it. Only
	// stock-to-stock references constrain this order; a cycle among them
	// is reported as CircularDependency.
	Initials []int

	// Steps is the flows_then_auxes dependency order (§4.3 item 4):
	// every slot a given slot's Expr reads directly appears earlier.
	Steps []int

	// SlotByName maps a qualified dotted ident (and, for array elements,
	// "ident[key]") to its slot index.
	SlotByName map[string]int

	// Macros lists every stateful-builtin lowering performed, for LTM
	// macro-collapsing (§4.5.4).
	Macros []MacroGroup

	RootModel string

	gf      map[int]*project.GraphicalFunction
	synthID int
}

// nextSynthIdent returns a fresh, globally unique synthetic local ident
// name within prefix for a stateful-builtin lowering (§4.3 item 7).
func (cp *CompiledProject) nextSynthIdent(kind string) string {
	cp.synthID++
	return "__" + kind + "_" + strconv.Itoa(cp.synthID)
}

// allocSlot appends a new slot and returns its index.
func (cp *CompiledProject) allocSlot(v CompiledVar) int {
	v.Slot = len(cp.Vars)
	cp.Vars = append(cp.Vars, v)
	cp.NSlots = len(cp.Vars)
	if v.Ident != "" {
		cp.SlotByName[v.Ident] = v.Slot
	}
	return v.Slot
}

// IdentOf returns the compiled ident for slot, or "" if out of range.
func (cp *CompiledProject) IdentOf(slot int) string {
	if slot < 0 || slot >= len(cp.Vars) {
		return ""
	}
	return cp.Vars[slot].Ident
}
