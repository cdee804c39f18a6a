package parseeqn

import "testing"

func mustParse(t *testing.T, src string) Expr {
	t.Helper()
	e, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): unexpected error: %v", src, err)
	}
	return e
}

func TestParseArithmeticPrecedence(t *testing.T) {
	e := mustParse(t, "1 + 2 * 3 ^ 2")
	add, ok := e.(*BinaryExpr)
	if !ok || add.Op != BinAdd {
		t.Fatalf("expected top-level +, got %#v", e)
	}
	mul, ok := add.Y.(*BinaryExpr)
	if !ok || mul.Op != BinMul {
		t.Fatalf("expected right side to be *, got %#v", add.Y)
	}
	pow, ok := mul.Y.(*BinaryExpr)
	if !ok || pow.Op != BinPow {
		t.Fatalf("expected innermost to be ^, got %#v", mul.Y)
	}
}

func TestParsePowRightAssociative(t *testing.T) {
	e := mustParse(t, "2^3^2")
	top, ok := e.(*BinaryExpr)
	if !ok || top.Op != BinPow {
		t.Fatalf("expected ^ at top, got %#v", e)
	}
	if _, ok := top.Y.(*BinaryExpr); !ok {
		t.Fatalf("expected right-associative nesting on the right side, got %#v", top.Y)
	}
	if _, ok := top.X.(*NumberLit); !ok {
		t.Fatalf("expected left side to be a bare literal, got %#v", top.X)
	}
}

func TestParseUnaryMinus(t *testing.T) {
	e := mustParse(t, "-x + 1")
	top := e.(*BinaryExpr)
	un, ok := top.X.(*UnaryExpr)
	if !ok || un.Op != UnaryMinus {
		t.Fatalf("expected unary minus on left operand, got %#v", top.X)
	}
}

func TestParseIdentCanonicalization(t *testing.T) {
	e := mustParse(t, "\"Potential Adopters\"")
	id, ok := e.(*IdentExpr)
	if !ok {
		t.Fatalf("expected IdentExpr, got %#v", e)
	}
	if id.Name != "potential_adopters" {
		t.Fatalf("expected canonicalized ident, got %q", id.Name)
	}
}

func TestParseQualifiedIdent(t *testing.T) {
	e := mustParse(t, "sector_a.population")
	q, ok := e.(*QualifiedIdentExpr)
	if !ok {
		t.Fatalf("expected QualifiedIdentExpr, got %#v", e)
	}
	if len(q.Parts) != 2 || q.Parts[0] != "sector_a" || q.Parts[1] != "population" {
		t.Fatalf("unexpected parts: %v", q.Parts)
	}
}

func TestParseSubscript(t *testing.T) {
	e := mustParse(t, "x[region, 1]")
	sub, ok := e.(*SubscriptExpr)
	if !ok {
		t.Fatalf("expected SubscriptExpr, got %#v", e)
	}
	if len(sub.Index) != 2 {
		t.Fatalf("expected 2 subscript indices, got %d", len(sub.Index))
	}
}

func TestParseWildcardSubscript(t *testing.T) {
	e := mustParse(t, "SUM(x[*])")
	call, ok := e.(*CallExpr)
	if !ok || call.Name != "sum" {
		t.Fatalf("expected call to sum, got %#v", e)
	}
	sub, ok := call.Args[0].(*SubscriptExpr)
	if !ok {
		t.Fatalf("expected subscript argument, got %#v", call.Args[0])
	}
	if _, ok := sub.Index[0].(*WildcardExpr); !ok {
		t.Fatalf("expected wildcard index, got %#v", sub.Index[0])
	}
}

func TestParseCallMultipleArgs(t *testing.T) {
	e := mustParse(t, "DELAY1(inflow, 3, 0)")
	call, ok := e.(*CallExpr)
	if !ok || call.Name != "delay1" || len(call.Args) != 3 {
		t.Fatalf("unexpected call parse: %#v", e)
	}
}

func TestParseIfThenElse(t *testing.T) {
	e := mustParse(t, "IF x > 0 THEN 1 ELSE -1")
	cond, ok := e.(*CondExpr)
	if !ok {
		t.Fatalf("expected CondExpr, got %#v", e)
	}
	if _, ok := cond.Cond.(*BinaryExpr); !ok {
		t.Fatalf("expected comparison as condition, got %#v", cond.Cond)
	}
}

func TestParseComparisonAndLogical(t *testing.T) {
	e := mustParse(t, "x >= 1 AND y <> 2 OR z = 3")
	top, ok := e.(*BinaryExpr)
	if !ok || top.Op != BinOr {
		t.Fatalf("expected top-level OR (lowest precedence), got %#v", e)
	}
	left, ok := top.X.(*BinaryExpr)
	if !ok || left.Op != BinAnd {
		t.Fatalf("expected AND on the left of OR, got %#v", top.X)
	}
}

func TestParseParenthesized(t *testing.T) {
	e := mustParse(t, "(1 + 2) * 3")
	top, ok := e.(*BinaryExpr)
	if !ok || top.Op != BinMul {
		t.Fatalf("expected * at top after parens collapse precedence, got %#v", e)
	}
	if _, ok := top.X.(*BinaryExpr); !ok {
		t.Fatalf("expected parenthesized + on the left, got %#v", top.X)
	}
}

func TestParseErrorUnexpectedTrailing(t *testing.T) {
	_, err := Parse("1 + 2)")
	if err == nil {
		t.Fatal("expected ParseError for unbalanced parens")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
}

func TestParseErrorMissingThen(t *testing.T) {
	_, err := Parse("IF x > 0 1 ELSE 2")
	if err == nil {
		t.Fatal("expected ParseError for missing THEN")
	}
}

func TestParseErrorUnterminatedString(t *testing.T) {
	_, err := Parse("\"abc")
	if err == nil {
		t.Fatal("expected ParseError for unterminated string literal")
	}
}
