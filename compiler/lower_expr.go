package compiler

import (
	"sort"

	"github.com/bpowers/simlin-sub002/builtin"
	"github.com/bpowers/simlin-sub002/parseeqn"
)

// ctx carries everything needed to lower one equation's parsed AST into a
// CExpr: the instance scope it resolves idents against, the current
// arrayed-equation subscript binding (dimension name -> bound element),
// and the shared compiled project (for slot allocation and error
// collection).
type ctx struct {
	cp      *CompiledProject
	scope   *instScope
	binding map[string]string
	owner   string // qualified ident of the variable whose equation is being compiled, for diagnostics
	errs    *[]CompileError
}

func (c *ctx) fail(kind ErrorKind, msg string) CExpr {
	*c.errs = append(*c.errs, CompileError{Kind: kind, Model: c.scope.model.Name, Ident: c.owner, Message: msg})
	return CNumber{0}
}

// resolveLocal resolves a bare scalar ident against scope's local table.
func resolveLocal(scope *instScope, name string) (int, bool) {
	slot, ok := scope.local[name]
	return slot, ok
}

// resolvePath resolves a dotted ident path (len==1 for a bare local ident)
// against scope, descending into child module scopes for each leading
// part.
func resolvePath(scope *instScope, parts []string) (int, bool) {
	if len(parts) == 1 {
		return resolveLocal(scope, parts[0])
	}
	child, ok := scope.children[parts[0]]
	if !ok || child == nil {
		return 0, false
	}
	return resolvePath(child, parts[1:])
}

func compileExpr(c *ctx, e parseeqn.Expr) CExpr {
	switch n := e.(type) {
	case *parseeqn.NumberLit:
		return CNumber{n.Value}

	case *parseeqn.IdentExpr:
		if n.Name == "__dt__" {
			return CDt{}
		}
		if slot, ok := resolveLocal(c.scope, n.Name); ok {
			return CSlotRef{slot}
		}
		return c.fail(UndefinedIdent, "undefined identifier \""+n.Name+"\"")

	case *parseeqn.QualifiedIdentExpr:
		if slot, ok := resolvePath(c.scope, n.Parts); ok {
			return CSlotRef{slot}
		}
		return c.fail(UndefinedIdent, "undefined qualified identifier")

	case *parseeqn.SubscriptExpr:
		return compileSubscript(c, n)

	case *parseeqn.WildcardExpr:
		return c.fail(BadSubscript, "'*' is only legal as a direct argument to SUM(...)")

	case *parseeqn.UnaryExpr:
		return CUnary{Op: n.Op, X: compileExpr(c, n.X)}

	case *parseeqn.BinaryExpr:
		return CBinary{Op: n.Op, X: compileExpr(c, n.X), Y: compileExpr(c, n.Y)}

	case *parseeqn.CondExpr:
		return CCond{Cond: compileExpr(c, n.Cond), Then: compileExpr(c, n.Then), Else: compileExpr(c, n.Else)}

	case *parseeqn.CallExpr:
		return compileCall(c, n)
	}
	return c.fail(TypeMismatch, "unhandled expression node")
}

func compileSubscript(c *ctx, n *parseeqn.SubscriptExpr) CExpr {
	target, ok := n.Target.(*parseeqn.IdentExpr)
	if !ok {
		return c.fail(BadSubscript, "subscript target must be a bare identifier")
	}
	dims, isArray := c.scope.arrayDims[target.Name]
	if !isArray {
		return c.fail(BadSubscript, "\""+target.Name+"\" is not an arrayed variable")
	}
	if len(n.Index) != len(dims) {
		return c.fail(BadSubscript, "expected "+itoaSmall(len(dims))+" subscript(s), got "+itoaSmall(len(n.Index)))
	}
	parts := make([]string, len(dims))
	for i, idx := range n.Index {
		elem, ok := resolveSubscriptElement(c, dims[i], idx)
		if !ok {
			return c.fail(BadSubscript, "could not resolve subscript "+itoaSmall(i)+" of \""+target.Name+"\"")
		}
		parts[i] = elem
	}
	slot, ok := c.scope.arrayElems[target.Name][joinKey(parts)]
	if !ok {
		return c.fail(BadSubscript, "no element \""+joinKey(parts)+"\" of \""+target.Name+"\"")
	}
	return CSlotRef{slot}
}

func resolveSubscriptElement(c *ctx, dimName string, idx parseeqn.Expr) (string, bool) {
	elems := c.scope.proj.Dimensions[dimName]
	switch v := idx.(type) {
	case *parseeqn.NumberLit:
		i := int(v.Value)
		if i < 1 || i > len(elems) {
			return "", false
		}
		return elems[i-1], true
	case *parseeqn.IdentExpr:
		if v.Name == dimName {
			if bound, ok := c.binding[dimName]; ok {
				return bound, true
			}
			return "", false
		}
		for _, e := range elems {
			if e == v.Name {
				return e, true
			}
		}
		return "", false
	}
	return "", false
}

func compileCall(c *ctx, n *parseeqn.CallExpr) CExpr {
	spec, ok := builtin.Lookup(n.Name)
	if !ok {
		return compileImplicitLookup(c, n)
	}
	if err := builtin.CheckArity(n.Name, len(n.Args)); err != nil {
		return c.fail(ArityMismatch, err.Error())
	}
	switch spec.Kind {
	case builtin.KindPure, builtin.KindTime:
		args := make([]CExpr, len(n.Args))
		for i, a := range n.Args {
			args[i] = compileExpr(c, a)
		}
		return CCall{Name: n.Name, Args: args}

	case builtin.KindLookup:
		identArg, ok := n.Args[0].(*parseeqn.IdentExpr)
		if !ok {
			return c.fail(BadGraphicalFunction, "LOOKUP's first argument must be a variable identifier")
		}
		slot, ok := resolveLocal(c.scope, identArg.Name)
		if !ok {
			return c.fail(UndefinedIdent, "undefined identifier \""+identArg.Name+"\"")
		}
		gf := c.cp.gf[slot]
		if gf == nil {
			return c.fail(BadGraphicalFunction, "\""+identArg.Name+"\" has no graphical function")
		}
		return CLookup{GF: gf, X: compileExpr(c, n.Args[1])}

	case builtin.KindReduce:
		return compileReduce(c, n)

	case builtin.KindStateful:
		return lowerStatefulCall(c, n)
	}
	return c.fail(TypeMismatch, "unhandled builtin kind")
}

// compileImplicitLookup handles the implicit `variable(x)` graphical-function
// call form (§4.4.5): an unrecognized call name that in fact names a
// variable owning a GF.
func compileImplicitLookup(c *ctx, n *parseeqn.CallExpr) CExpr {
	if len(n.Args) != 1 {
		return c.fail(UndefinedIdent, "unknown function \""+n.Name+"\"")
	}
	slot, ok := resolveLocal(c.scope, n.Name)
	if !ok {
		return c.fail(UndefinedIdent, "unknown function or variable \""+n.Name+"\"")
	}
	gf := c.cp.gf[slot]
	if gf == nil {
		return c.fail(BadGraphicalFunction, "\""+n.Name+"\" is not callable: no graphical function")
	}
	return CLookup{GF: gf, X: compileExpr(c, n.Args[0])}
}

func compileReduce(c *ctx, n *parseeqn.CallExpr) CExpr {
	sub, ok := n.Args[0].(*parseeqn.SubscriptExpr)
	if !ok {
		return c.fail(BadSubscript, "SUM's argument must be a subscripted array reference")
	}
	target, ok := sub.Target.(*parseeqn.IdentExpr)
	if !ok {
		return c.fail(BadSubscript, "SUM's argument must be a subscripted array reference")
	}
	dims, isArray := c.scope.arrayDims[target.Name]
	if !isArray || len(sub.Index) != len(dims) {
		return c.fail(BadSubscript, "\""+target.Name+"\" is not an arrayed variable matching this subscript")
	}
	for _, idx := range sub.Index {
		if _, ok := idx.(*parseeqn.WildcardExpr); !ok {
			return c.fail(BadSubscript, "SUM currently supports only a full wildcard subscript, e.g. SUM(x[*])")
		}
	}
	elemsMap := c.scope.arrayElems[target.Name]
	keys := make([]string, 0, len(elemsMap))
	for k := range elemsMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	slots := make([]int, len(keys))
	for i, k := range keys {
		slots[i] = elemsMap[k]
	}
	return CReduceSum{Elems: slots}
}

func itoaSmall(n int) string {
	if n < 10 {
		return string(rune('0' + n))
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
