package compiler

import (
	"strings"

	"github.com/bpowers/simlin-sub002/project"
)

// instScope is one instantiation of a Model: the root model at prefix "",
// or a Module variable's child model at prefix "<parent-prefix><module
// ident>.". It is the identifier-resolution environment for every
// expression compiled within this instance (§4.4.3).
type instScope struct {
	proj   *project.Project
	model  *project.Model
	prefix string

	// local maps a scalar local ident to its global slot.
	local map[string]int
	// arrayDims maps an arrayed local ident to its equation's declared
	// dimension-name order.
	arrayDims map[string][]string
	// arrayElems maps an arrayed local ident to its subscript-key -> slot
	// table.
	arrayElems map[string]map[string]int

	// children maps a local Module-variable ident to its instantiated
	// child scope.
	children map[string]*instScope
}

func newInstScope(proj *project.Project, model *project.Model, prefix string) *instScope {
	return &instScope{
		proj:       proj,
		model:      model,
		prefix:     prefix,
		local:      make(map[string]int),
		arrayDims:  make(map[string][]string),
		arrayElems: make(map[string]map[string]int),
		children:   make(map[string]*instScope),
	}
}

func (s *instScope) qualify(local string) string {
	if s.prefix == "" {
		return local
	}
	return s.prefix + local
}

// subscripts returns the ordered list of "dim1,dim2" keys for dims, or a
// single "" key for a scalar (len(dims)==0).
func subscripts(proj *project.Project, dims []string) []string {
	if len(dims) == 0 {
		return []string{""}
	}
	return project.Subscripts(proj.Dimensions, dims)
}

func joinKey(parts []string) string { return strings.Join(parts, ",") }
