package compiler

import (
	"strings"

	"github.com/bpowers/simlin-sub002/ident"
	"github.com/bpowers/simlin-sub002/parseeqn"
	"github.com/bpowers/simlin-sub002/project"
)

// resolveInstance compiles every local variable's equation(s) in scope into
// CExpr, descending into child module scopes first so dotted references
// into a child are always resolvable (§4.4.3).
func resolveInstance(cp *CompiledProject, scope *instScope, errs *[]CompileError) {
	if scope == nil {
		return
	}
	for _, child := range scope.children {
		resolveInstance(cp, child, errs)
	}
	for _, localIdent := range scope.model.SortedIdents() {
		v := scope.model.Variables[localIdent]
		switch vv := v.(type) {
		case *project.Stock:
			resolveVar(cp, scope, localIdent, vv.Equation, SlotStock, errs)
			resolveStockFlows(cp, scope, localIdent, vv, errs)
		case *project.Flow:
			resolveVar(cp, scope, localIdent, vv.Equation, SlotFlow, errs)
		case *project.Aux:
			resolveVar(cp, scope, localIdent, vv.Equation, SlotAux, errs)
		case *project.Module:
			wireModule(cp, scope, localIdent, vv, errs)
		}
	}
}

func resolveVar(cp *CompiledProject, scope *instScope, localIdent string, eqn project.Equation, kind SlotKind, errs *[]CompileError) {
	switch eqn.Kind {
	case project.KindScalar:
		slot := scope.local[localIdent]
		compileOneSlot(cp, scope, slot, eqn.Scalar, nil, kind, scope.qualify(localIdent), errs)

	case project.KindApplyToAll:
		for _, key := range subscripts(scope.proj, eqn.Dimensions) {
			slot := scope.arrayElems[localIdent][key]
			binding := bindingFromKey(eqn.Dimensions, key)
			compileOneSlot(cp, scope, slot, eqn.ApplyToAllEq, binding, kind, scope.qualify(localIdent)+"["+key+"]", errs)
		}

	case project.KindArrayed:
		for _, key := range subscripts(scope.proj, eqn.Dimensions) {
			slot := scope.arrayElems[localIdent][key]
			src, ok := eqn.Elements[key]
			if !ok {
				*errs = append(*errs, CompileError{Kind: BadSubscript, Model: scope.model.Name, Ident: localIdent, Message: "missing element equation for \"" + key + "\""})
				continue
			}
			compileOneSlot(cp, scope, slot, src, nil, kind, scope.qualify(localIdent)+"["+key+"]", errs)
		}
	}
}

func bindingFromKey(dims []string, key string) map[string]string {
	if key == "" {
		return nil
	}
	parts := strings.Split(key, ",")
	b := make(map[string]string, len(dims))
	for i, d := range dims {
		if i < len(parts) {
			b[d] = parts[i]
		}
	}
	return b
}

func compileOneSlot(cp *CompiledProject, scope *instScope, slot int, eqnSrc string, binding map[string]string, kind SlotKind, owner string, errs *[]CompileError) {
	ast, err := parseeqn.Parse(eqnSrc)
	if err != nil {
		*errs = append(*errs, CompileError{Kind: ParseFailure, Model: scope.model.Name, Ident: owner, Message: err.Error()})
		return
	}
	c := &ctx{cp: cp, scope: scope, binding: binding, owner: owner, errs: errs}
	ce := compileExpr(c, ast)
	if kind == SlotStock {
		cp.Vars[slot].Init = ce
	} else {
		cp.Vars[slot].Expr = ce
		cp.Vars[slot].Inputs = directSlotRefs(ce)
	}
}

func resolveStockFlows(cp *CompiledProject, scope *instScope, localIdent string, vv *project.Stock, errs *[]CompileError) {
	keys := []string{""}
	if dims, ok := scope.arrayDims[localIdent]; ok {
		keys = subscripts(scope.proj, dims)
	}
	for _, key := range keys {
		var slot int
		if key == "" {
			slot = scope.local[localIdent]
		} else {
			slot = scope.arrayElems[localIdent][key]
		}
		var inflows, outflows []StockFlowRef
		for _, fi := range vv.Inflows {
			if s, ok := resolveFlowRef(scope, fi, key); ok {
				inflows = append(inflows, StockFlowRef{Slot: s, Sign: 1})
			} else {
				*errs = append(*errs, CompileError{Kind: UndefinedIdent, Model: scope.model.Name, Ident: localIdent, Message: "inflow \"" + fi + "\" does not resolve"})
			}
		}
		for _, fo := range vv.Outflows {
			if s, ok := resolveFlowRef(scope, fo, key); ok {
				outflows = append(outflows, StockFlowRef{Slot: s, Sign: -1})
			} else {
				*errs = append(*errs, CompileError{Kind: UndefinedIdent, Model: scope.model.Name, Ident: localIdent, Message: "outflow \"" + fo + "\" does not resolve"})
			}
		}
		cp.Vars[slot].Inflows = append(cp.Vars[slot].Inflows, inflows...)
		cp.Vars[slot].Outflows = append(cp.Vars[slot].Outflows, outflows...)
	}
}

// resolveFlowRef resolves a stock's inflow/outflow ident: a same-shape
// arrayed flow matching key element-wise, or a scalar flow broadcast to
// every element.
func resolveFlowRef(scope *instScope, flowIdent, key string) (int, bool) {
	if elems, ok := scope.arrayElems[flowIdent]; ok {
		slot, ok := elems[key]
		return slot, ok
	}
	slot, ok := scope.local[flowIdent]
	return slot, ok
}

func wireModule(cp *CompiledProject, scope *instScope, localIdent string, vv *project.Module, errs *[]CompileError) {
	child := scope.children[localIdent]
	if child == nil {
		return // ModuleNotFound / instantiation cycle already reported
	}
	for _, ref := range vv.References {
		srcParts := splitCanonical(ref.Src)
		if len(srcParts) == 1 {
			if _, isArray := scope.arrayDims[srcParts[0]]; isArray {
				*errs = append(*errs, CompileError{Kind: TypeMismatch, Model: scope.model.Name, Ident: localIdent,
					Message: "arrayed source \"" + ref.Src + "\" cannot be wired to a scalar module input"})
				continue
			}
		}
		srcSlot, ok := resolvePath(scope, srcParts)
		if !ok {
			*errs = append(*errs, CompileError{Kind: UndefinedIdent, Model: scope.model.Name, Ident: localIdent, Message: "module reference src \"" + ref.Src + "\" does not resolve"})
			continue
		}

		dstParts := splitCanonical(ref.Dst)
		if len(dstParts) != 1 {
			*errs = append(*errs, CompileError{Kind: TypeMismatch, Model: scope.model.Name, Ident: localIdent, Message: "module reference dst must name a direct input of the referenced model"})
			continue
		}
		dstLocal := dstParts[0]
		if _, isArray := child.arrayDims[dstLocal]; isArray {
			*errs = append(*errs, CompileError{Kind: TypeMismatch, Model: scope.model.Name, Ident: localIdent,
				Message: "arrayed input \"" + ref.Dst + "\" cannot be driven by a scalar module reference"})
			continue
		}
		dstSlot, ok := child.local[dstLocal]
		if !ok {
			*errs = append(*errs, CompileError{Kind: UndefinedIdent, Model: scope.model.Name, Ident: localIdent, Message: "module reference dst \"" + ref.Dst + "\" does not resolve"})
			continue
		}
		old := cp.Vars[dstSlot]
		cp.Vars[dstSlot] = CompiledVar{
			Slot:        dstSlot,
			Ident:       old.Ident,
			Kind:        SlotModuleCopy,
			NonNegative: old.NonNegative,
			CopyFrom:    srcSlot,
		}
	}
}

func splitCanonical(s string) []string {
	parts := strings.Split(s, ".")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = ident.Canonicalize(p)
	}
	return out
}
