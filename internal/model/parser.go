package model

import (
	"fmt"

	"github.com/jpequegn/satbench/internal/errs"
)

// Parser is a recursive-descent parser for the grammar in §6.
type Parser struct {
	lex *Lexer
	cur Token
}

// Parse tokenizes and parses src into a Model. Any lexical or grammatical
// failure is returned as an *errs.Error of kind Parse, per §7.
func Parse(src string) (*Model, error) {
	p := &Parser{lex: NewLexer(src)}
	if err := p.advance(); err != nil {
		return nil, errs.Wrap(errs.Parse, "tokenizing modelling source", err)
	}

	m := &Model{}
	for p.cur.Kind != TokEOF {
		switch p.cur.Kind {
		case TokVarKW:
			if err := p.parseVarDecl(m); err != nil {
				return nil, errs.Wrap(errs.Parse, "parsing variable declaration", err)
			}
		case TokConstraintKW:
			if err := p.parseConstraint(m); err != nil {
				return nil, errs.Wrap(errs.Parse, "parsing constraint", err)
			}
		default:
			return nil, errs.New(errs.Parse, fmt.Sprintf("unexpected token at offset %d: expected 'var' or 'constraint'", p.cur.Pos))
		}
	}
	return m, nil
}

func (p *Parser) advance() error {
	t, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

func (p *Parser) expect(kind TokenKind, what string) (Token, error) {
	if p.cur.Kind != kind {
		return Token{}, fmt.Errorf("expected %s at offset %d", what, p.cur.Pos)
	}
	t := p.cur
	if err := p.advance(); err != nil {
		return Token{}, err
	}
	return t, nil
}

func (p *Parser) parseVarDecl(m *Model) error {
	if _, err := p.expect(TokVarKW, "'var'"); err != nil {
		return err
	}
	if _, err := p.expect(TokBoolKW, "'bool'"); err != nil {
		return err
	}
	if _, err := p.expect(TokColon, "':'"); err != nil {
		return err
	}
	for {
		id, err := p.expect(TokIdent, "identifier")
		if err != nil {
			return err
		}
		m.Vars = append(m.Vars, id.Text)
		if p.cur.Kind == TokComma {
			if err := p.advance(); err != nil {
				return err
			}
			continue
		}
		break
	}
	_, err := p.expect(TokSemicolon, "';'")
	return err
}

func (p *Parser) parseConstraint(m *Model) error {
	if _, err := p.expect(TokConstraintKW, "'constraint'"); err != nil {
		return err
	}
	e, err := p.parseExpr()
	if err != nil {
		return err
	}
	if _, err := p.expect(TokSemicolon, "';'"); err != nil {
		return err
	}
	m.Constraints = append(m.Constraints, e)
	return nil
}

// parseExpr is the grammar's iff_expr production, the lowest-precedence
// entry point: iff_expr := impl_expr ('<->' impl_expr)*.
func (p *Parser) parseExpr() (Expr, error) { return p.parseIff() }

func (p *Parser) parseIff() (Expr, error) {
	x, err := p.parseImpl()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == TokIff {
		if err := p.advance(); err != nil {
			return nil, err
		}
		y, err := p.parseImpl()
		if err != nil {
			return nil, err
		}
		x = Iff{X: x, Y: y}
	}
	return x, nil
}

// parseImpl is the grammar's impl_expr production: impl_expr := or_expr
// ('->' or_expr)*.
func (p *Parser) parseImpl() (Expr, error) {
	x, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == TokImplies {
		if err := p.advance(); err != nil {
			return nil, err
		}
		y, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		x = Implies{X: x, Y: y}
	}
	return x, nil
}

func (p *Parser) parseOr() (Expr, error) {
	x, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == TokOrOp || p.cur.Kind == TokOrKW {
		if err := p.advance(); err != nil {
			return nil, err
		}
		y, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		x = Or{X: x, Y: y}
	}
	return x, nil
}

func (p *Parser) parseAnd() (Expr, error) {
	x, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == TokAndOp || p.cur.Kind == TokAndKW {
		if err := p.advance(); err != nil {
			return nil, err
		}
		y, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		x = And{X: x, Y: y}
	}
	return x, nil
}

func (p *Parser) parseNot() (Expr, error) {
	if p.cur.Kind == TokNotOp || p.cur.Kind == TokNotKW {
		if err := p.advance(); err != nil {
			return nil, err
		}
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return Not{X: x}, nil
	}
	return p.parseAtom()
}

func (p *Parser) parseAtom() (Expr, error) {
	switch p.cur.Kind {
	case TokTrueKW:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return BoolLit{Value: true}, nil
	case TokFalseKW:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return BoolLit{Value: false}, nil
	case TokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen, "')'"); err != nil {
			return nil, err
		}
		return e, nil
	case TokXorKW:
		return p.parseXor()
	case TokAtMostKW:
		return p.parseCardinality(AtMost)
	case TokAtLeastKW:
		return p.parseCardinality(AtLeast)
	case TokExactlyKW:
		return p.parseCardinality(Exactly)
	case TokIdent:
		name := p.cur.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return VarRef{Name: name}, nil
	default:
		return nil, fmt.Errorf("unexpected token at offset %d", p.cur.Pos)
	}
}

func (p *Parser) parseXor() (Expr, error) {
	if _, err := p.expect(TokXorKW, "'xor'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLParen, "'('"); err != nil {
		return nil, err
	}
	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokComma, "','"); err != nil {
		return nil, err
	}
	y, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokRParen, "')'"); err != nil {
		return nil, err
	}
	return Xor{X: x, Y: y}, nil
}

func (p *Parser) parseCardinality(op CardOp) (Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLParen, "'('"); err != nil {
		return nil, err
	}
	k, err := p.expect(TokInt, "integer bound")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokComma, "','"); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLBracket, "'['"); err != nil {
		return nil, err
	}
	var vars []string
	for {
		id, err := p.expect(TokIdent, "identifier")
		if err != nil {
			return nil, err
		}
		vars = append(vars, id.Text)
		if p.cur.Kind == TokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(TokRBracket, "']'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokRParen, "')'"); err != nil {
		return nil, err
	}
	return Cardinality{Op: op, K: k.Int, Vars: vars}, nil
}
