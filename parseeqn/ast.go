package parseeqn

// Expr is the closed set of expression-tree node kinds an equation compiles
// to. Each concrete type below is a sealed implementer; there is no
// inheritance and no open extension point.
type Expr interface {
	Pos() int
	exprNode()
}

type base struct {
	P int
}

func (b base) Pos() int { return b.P }

// NumberLit is a numeric literal, e.g. 3.14.
type NumberLit struct {
	base
	Value float64
}

func (*NumberLit) exprNode() {}

// IdentExpr references a variable in the current model by its canonicalized
// ident.
type IdentExpr struct {
	base
	Name string
}

func (*IdentExpr) exprNode() {}

// QualifiedIdentExpr references a variable through one or more module
// boundaries, e.g. `sector_a.population`.
type QualifiedIdentExpr struct {
	base
	Parts []string
}

func (*QualifiedIdentExpr) exprNode() {}

// SubscriptExpr indexes an arrayed variable: `ident[expr(,expr)*]`. A `*`
// wildcard subscript is represented as a WildcardExpr element.
type SubscriptExpr struct {
	base
	Target Expr
	Index  []Expr
}

func (*SubscriptExpr) exprNode() {}

// WildcardExpr is the `*` subscript wildcard, legal only inside a
// SubscriptExpr's Index and meaningful only as an argument to range
// builtins such as SUM(x[*]).
type WildcardExpr struct {
	base
}

func (*WildcardExpr) exprNode() {}

// CallExpr is a function call `name(args)`, resolved at compile time against
// the builtin registry.
type CallExpr struct {
	base
	Name string
	Args []Expr
}

func (*CallExpr) exprNode() {}

// UnaryOp tags the closed set of unary operators.
type UnaryOp int

const (
	UnaryPlus UnaryOp = iota
	UnaryMinus
	UnaryNot
)

// UnaryExpr is a prefix unary expression.
type UnaryExpr struct {
	base
	Op UnaryOp
	X  Expr
}

func (*UnaryExpr) exprNode() {}

// BinaryOp tags the closed set of binary operators.
type BinaryOp int

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinPow
	BinLt
	BinLe
	BinGt
	BinGe
	BinEq
	BinNe
	BinAnd
	BinOr
)

// BinaryExpr is an infix binary expression.
type BinaryExpr struct {
	base
	Op   BinaryOp
	X, Y Expr
}

func (*BinaryExpr) exprNode() {}

// CondExpr is `IF Cond THEN Then ELSE Else`.
type CondExpr struct {
	base
	Cond, Then, Else Expr
}

func (*CondExpr) exprNode() {}
