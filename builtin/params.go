package builtin

import (
	"github.com/cpmech/gosl/fun/dbf"

	"github.com/bpowers/simlin-sub002/parseeqn"
)

// LiteralParams captures the literal-valued arguments among args as a
// dbf.Params record, named positionally from names, mirroring the
// name/value parameter-bag shape the teacher's model packages use for
// GetPrms()/Init(prms) (e.g. mdl/solid/elasticity.go). This is diagnostic
// metadata for `sim inspect` — non-literal (expression) arguments, which
// are the common case, are simply omitted rather than evaluated here.
func LiteralParams(names []string, args []parseeqn.Expr) dbf.Params {
	var out dbf.Params
	for i, a := range args {
		if i >= len(names) {
			break
		}
		if lit, ok := a.(*parseeqn.NumberLit); ok {
			out = append(out, &dbf.P{N: names[i], V: lit.Value})
		}
	}
	return out
}
