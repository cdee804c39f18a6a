package builtin

import "github.com/bpowers/simlin-sub002/parseeqn"

func num(v float64) parseeqn.Expr           { return &parseeqn.NumberLit{Value: v} }
func identRef(name string) parseeqn.Expr    { return &parseeqn.IdentExpr{Name: name} }
func binOp(op parseeqn.BinaryOp, x, y parseeqn.Expr) parseeqn.Expr {
	return &parseeqn.BinaryExpr{Op: op, X: x, Y: y}
}

func add(x, y parseeqn.Expr) parseeqn.Expr { return binOp(parseeqn.BinAdd, x, y) }
func sub(x, y parseeqn.Expr) parseeqn.Expr { return binOp(parseeqn.BinSub, x, y) }
func mul(x, y parseeqn.Expr) parseeqn.Expr { return binOp(parseeqn.BinMul, x, y) }
func div(x, y parseeqn.Expr) parseeqn.Expr { return binOp(parseeqn.BinDiv, x, y) }
