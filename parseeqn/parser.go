package parseeqn

import (
	"github.com/bpowers/simlin-sub002/ident"
)

// Parser implements the recursive-descent expression grammar of §4.2. It
// never panics: every failure is returned as a *ParseError.
type Parser struct {
	lx  *lexer
	cur Token
}

// Parse parses src as a single equation expression and returns its root
// Expr, or a *ParseError.
func Parse(src string) (Expr, error) {
	p := &Parser{lx: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != TokEOF {
		return nil, &ParseError{Position: p.cur.Pos, Message: "unexpected trailing input " + tokDesc(p.cur)}
	}
	return e, nil
}

func (p *Parser) advance() error {
	t, err := p.lx.next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

func (p *Parser) expect(k TokKind, what string) error {
	if p.cur.Kind != k {
		return &ParseError{Position: p.cur.Pos, Message: "expected " + what + ", got " + tokDesc(p.cur)}
	}
	return p.advance()
}

func tokDesc(t Token) string {
	if t.Kind == TokEOF {
		return "end of input"
	}
	return "\"" + t.Text + "\""
}

func (p *Parser) parseExpr() (Expr, error) {
	if p.cur.Kind == TokIf {
		return p.parseIf()
	}
	return p.parseOr()
}

func (p *Parser) parseIf() (Expr, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil { // consume IF
		return nil, err
	}
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokThen, "THEN"); err != nil {
		return nil, err
	}
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokElse, "ELSE"); err != nil {
		return nil, err
	}
	els, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &CondExpr{base: base{pos}, Cond: cond, Then: then, Else: els}, nil
}

func (p *Parser) parseOr() (Expr, error) {
	x, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == TokOr {
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		y, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		x = &BinaryExpr{base: base{pos}, Op: BinOr, X: x, Y: y}
	}
	return x, nil
}

func (p *Parser) parseAnd() (Expr, error) {
	x, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == TokAnd {
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		y, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		x = &BinaryExpr{base: base{pos}, Op: BinAnd, X: x, Y: y}
	}
	return x, nil
}

var cmpOps = map[TokKind]BinaryOp{
	TokLt: BinLt, TokLe: BinLe, TokGt: BinGt, TokGe: BinGe, TokEq: BinEq, TokNe: BinNe,
}

func (p *Parser) parseComparison() (Expr, error) {
	x, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := cmpOps[p.cur.Kind]
		if !ok {
			return x, nil
		}
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		y, err := p.parseAdd()
		if err != nil {
			return nil, err
		}
		x = &BinaryExpr{base: base{pos}, Op: op, X: x, Y: y}
	}
}

func (p *Parser) parseAdd() (Expr, error) {
	x, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == TokPlus || p.cur.Kind == TokMinus {
		op := BinAdd
		if p.cur.Kind == TokMinus {
			op = BinSub
		}
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		y, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		x = &BinaryExpr{base: base{pos}, Op: op, X: x, Y: y}
	}
	return x, nil
}

func (p *Parser) parseMul() (Expr, error) {
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == TokStar || p.cur.Kind == TokSlash {
		op := BinMul
		if p.cur.Kind == TokSlash {
			op = BinDiv
		}
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		y, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		x = &BinaryExpr{base: base{pos}, Op: op, X: x, Y: y}
	}
	return x, nil
}

func (p *Parser) parseUnary() (Expr, error) {
	switch p.cur.Kind {
	case TokPlus, TokMinus, TokNot:
		pos := p.cur.Pos
		op := UnaryPlus
		switch p.cur.Kind {
		case TokMinus:
			op = UnaryMinus
		case TokNot:
			op = UnaryNot
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{base: base{pos}, Op: op, X: x}, nil
	}
	return p.parsePow()
}

func (p *Parser) parsePow() (Expr, error) {
	x, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind == TokCaret {
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		y, err := p.parseUnary() // right-associative: 2^-3^2 binds as 2^(-(3^2))
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{base: base{pos}, Op: BinPow, X: x, Y: y}, nil
	}
	return x, nil
}

func (p *Parser) parsePostfix() (Expr, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == TokLBracket {
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		var idx []Expr
		for {
			if p.cur.Kind == TokStar {
				idx = append(idx, &WildcardExpr{base: base{p.cur.Pos}})
				if err := p.advance(); err != nil {
					return nil, err
				}
			} else {
				e, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				idx = append(idx, e)
			}
			if p.cur.Kind == TokComma {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
		if err := p.expect(TokRBracket, "]"); err != nil {
			return nil, err
		}
		x = &SubscriptExpr{base: base{pos}, Target: x, Index: idx}
	}
	return x, nil
}

func (p *Parser) parsePrimary() (Expr, error) {
	switch p.cur.Kind {
	case TokNumber:
		n := &NumberLit{base: base{p.cur.Pos}, Value: p.cur.Num}
		return n, p.advance()
	case TokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokRParen, ")"); err != nil {
			return nil, err
		}
		return e, nil
	case TokIdent:
		return p.parseIdentOrCall()
	}
	return nil, &ParseError{Position: p.cur.Pos, Message: "expected an expression, got " + tokDesc(p.cur)}
}

func (p *Parser) parseIdentOrCall() (Expr, error) {
	pos := p.cur.Pos
	first := p.cur.Text
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.Kind == TokLParen {
		if err := p.advance(); err != nil {
			return nil, err
		}
		var args []Expr
		if p.cur.Kind != TokRParen {
			for {
				a, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
				if p.cur.Kind == TokComma {
					if err := p.advance(); err != nil {
						return nil, err
					}
					continue
				}
				break
			}
		}
		if err := p.expect(TokRParen, ")"); err != nil {
			return nil, err
		}
		return &CallExpr{base: base{pos}, Name: ident.Canonicalize(first), Args: args}, nil
	}
	if p.cur.Kind == TokDot {
		parts := []string{ident.Canonicalize(first)}
		for p.cur.Kind == TokDot {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.Kind != TokIdent {
				return nil, &ParseError{Position: p.cur.Pos, Message: "expected identifier after '.', got " + tokDesc(p.cur)}
			}
			parts = append(parts, ident.Canonicalize(p.cur.Text))
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		return &QualifiedIdentExpr{base: base{pos}, Parts: parts}, nil
	}
	return &IdentExpr{base: base{pos}, Name: ident.Canonicalize(first)}, nil
}
