package compiler

import (
	"github.com/bpowers/simlin-sub002/project"
)

// allocateInstance allocates slots for every local Stock/Flow/Aux of
// modelName, recursively instantiating any Module variables as child
// scopes (§4.4.3), and returns the resulting instScope. It does not yet
// compile any expressions: that happens in a second pass so that sibling
// and descendant idents are always resolvable regardless of declaration
// order (§4.3 item 2 builds the dependency graph only after every ident
// exists).
func allocateInstance(cp *CompiledProject, proj *project.Project, modelName, prefix string, path map[string]bool, errs *[]CompileError) *instScope {
	model, ok := proj.Models[modelName]
	if !ok {
		*errs = append(*errs, CompileError{Kind: ModuleNotFound, Model: modelName, Message: "model not found"})
		return nil
	}
	if path[modelName] {
		*errs = append(*errs, CompileError{Kind: CircularDependency, Model: modelName, Message: "module instantiation cycle", Path: pathSlice(path, modelName)})
		return nil
	}
	path[modelName] = true
	defer delete(path, modelName)

	scope := newInstScope(proj, model, prefix)

	for _, localIdent := range model.SortedIdents() {
		v := model.Variables[localIdent]
		switch vv := v.(type) {
		case *project.Stock:
			allocVariable(cp, scope, localIdent, vv.Equation, SlotStock, vv.NonNegative, nil)
		case *project.Flow:
			allocVariable(cp, scope, localIdent, vv.Equation, SlotFlow, vv.NonNegative, vv.GF)
		case *project.Aux:
			allocVariable(cp, scope, localIdent, vv.Equation, SlotAux, false, vv.GF)
		case *project.Module:
			child := allocateInstance(cp, proj, vv.ModelName, scope.qualify(localIdent)+".", path, errs)
			scope.children[localIdent] = child
		}
	}
	return scope
}

// allocVariable allocates one slot per subscript element of eqn (a single
// slot for a Scalar equation), registers it in scope, and records its
// graphical function, if any, for later lookup-call resolution.
func allocVariable(cp *CompiledProject, scope *instScope, localIdent string, eqn project.Equation, kind SlotKind, nonNeg bool, gf *project.GraphicalFunction) {
	qualified := scope.qualify(localIdent)
	if !eqn.IsArrayKind() {
		slot := cp.allocSlot(CompiledVar{Ident: qualified, Kind: kind, NonNegative: nonNeg})
		scope.local[localIdent] = slot
		if gf != nil {
			cp.gf[slot] = gf
		}
		return
	}
	scope.arrayDims[localIdent] = eqn.Dimensions
	elems := make(map[string]int)
	for _, key := range subscripts(scope.proj, eqn.Dimensions) {
		slot := cp.allocSlot(CompiledVar{Ident: qualified + "[" + key + "]", Kind: kind, NonNegative: nonNeg})
		elems[key] = slot
		if gf != nil {
			cp.gf[slot] = gf
		}
	}
	scope.arrayElems[localIdent] = elems
}

func pathSlice(path map[string]bool, last string) []string {
	out := make([]string, 0, len(path)+1)
	for k := range path {
		out = append(out, k)
	}
	out = append(out, last)
	return out
}
