package compiler

import (
	"github.com/bpowers/simlin-sub002/project"
)

// Compile turns proj into a CompiledProject: a slot-addressed, dependency-
// ordered intermediate form. Compilation happens in three passes, mirroring
// how gofem's Domain.SetStage separates dof numbering from equation
// assembly: allocation (every Variable gets a slot, recursing into module
// instances), resolution (every equation string is parsed and its
// identifiers resolved to slot refs), and ordering (two topological sorts,
// one for initial values and one for per-step evaluation).
//
// Compile collects every error it can find rather than stopping at the
// first one (§4.3 item 1). When project validation fails or the root model
// cannot be instantiated it returns a nil CompiledProject; otherwise a
// non-empty errs comes with a best-effort CompiledProject, which callers
// must treat as unusable.
func Compile(proj *project.Project) (*CompiledProject, []CompileError) {
	var errs []CompileError

	if err := proj.Validate(); err != nil {
		errs = append(errs, CompileError{Kind: TypeMismatch, Model: project.RootModelName, Message: err.Error()})
		return nil, errs
	}

	cp := &CompiledProject{
		SlotByName: make(map[string]int),
		gf:         make(map[int]*project.GraphicalFunction),
		RootModel:  project.RootModelName,
	}

	root := allocateInstance(cp, proj, project.RootModelName, "", map[string]bool{}, &errs)
	if root == nil {
		return nil, errs
	}

	resolveInstance(cp, root, &errs)
	if len(errs) > 0 {
		return cp, errs
	}

	orderSlots(cp, &errs)
	return cp, errs
}
