package parser

import (
	"github.com/mgomes/mython"
)

const (
	precLowest = iota
	precOr
	precAnd
	precNot
	precComparison
	precSum
	precProduct
	precCall
)

// precedence reports the infix binding power of the current token, or
// (0, false) if it isn't an infix operator.
func (p *Parser) precedence() (int, bool) {
	switch {
	case p.cur.Is(mython.TagOr):
		return precOr, true
	case p.cur.Is(mython.TagAnd):
		return precAnd, true
	case p.cur.Is(mython.TagEq), p.cur.Is(mython.TagNotEq),
		p.cur.Is(mython.TagLessOrEq), p.cur.Is(mython.TagGreaterOrEq):
		return precComparison, true
	case p.isChar('<'), p.isChar('>'):
		return precComparison, true
	case p.isChar('+'), p.isChar('-'):
		return precSum, true
	case p.isChar('*'), p.isChar('/'):
		return precProduct, true
	default:
		return 0, false
	}
}

// parseExpression is a standard precedence-climbing parser: parse a prefix
// term, then keep folding in infix/postfix operators whose precedence
// exceeds the caller's floor.
func (p *Parser) parseExpression(minPrec int) (mython.Statement, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	for {
		prec, ok := p.precedence()
		if !ok || prec <= minPrec {
			return left, nil
		}
		left, err = p.parseInfix(left, prec)
		if err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parsePrefix() (mython.Statement, error) {
	tok := p.cur
	switch {
	case tok.Is(mython.TagNumber):
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &mython.Literal{Val: mython.NewNumber(tok.Number)}, nil
	case tok.Is(mython.TagString):
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &mython.Literal{Val: mython.NewString(tok.Str)}, nil
	case tok.Is(mython.TagTrue):
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &mython.Literal{Val: mython.NewBool(true)}, nil
	case tok.Is(mython.TagFalse):
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &mython.Literal{Val: mython.NewBool(false)}, nil
	case tok.Is(mython.TagNone):
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &mython.Literal{Val: mython.None()}, nil
	case tok.Is(mython.TagNot):
		if err := p.advance(); err != nil {
			return nil, err
		}
		arg, err := p.parseExpression(precNot)
		if err != nil {
			return nil, err
		}
		return &mython.Not{Arg: arg}, nil
	case tok.Is(mython.TagId):
		return p.parseIdentifier()
	case p.isChar('('):
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		if err := p.expectChar(')'); err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return expr, nil
	default:
		return nil, p.errorf("unexpected token %s", tok)
	}
}

// parseIdentifier handles a bare Id, which may start a dotted variable
// chain (a.b.c), a class instantiation (Id(args)), or a method call chain
// (Id(args).method(args)...).
func (p *Parser) parseIdentifier() (mython.Statement, error) {
	pos := p.cur.Pos
	name := p.cur.Str
	if err := p.advance(); err != nil {
		return nil, err
	}

	var base mython.Statement
	if p.isChar('(') {
		args, err := p.parseArgList()
		if err != nil {
			return nil, err
		}
		// str(x) is the one builtin call Mython exposes directly as a
		// Stringify node rather than a class instantiation.
		if name == "str" && len(args) == 1 {
			base = &mython.Stringify{Arg: args[0]}
		} else {
			base = &mython.NewInstance{Pos: pos, ClassExpr: &mython.VariableValue{Pos: pos, Ids: []string{name}}, Args: args}
		}
	} else {
		base = &mython.VariableValue{Pos: pos, Ids: []string{name}}
	}

	for p.isChar('.') {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectTag(mython.TagId); err != nil {
			return nil, err
		}
		field := p.cur.Str
		fieldPos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.isChar('(') {
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			base = &mython.MethodCall{Pos: fieldPos, Obj: base, Name: field, Args: args}
			continue
		}
		if vv, ok := base.(*mython.VariableValue); ok {
			vv.Ids = append(vv.Ids, field)
			continue
		}
		base = &mython.FieldAccess{Pos: fieldPos, Obj: base, Field: field}
	}
	return base, nil
}

// parseArgList consumes '(' [expr (,expr)*] ')'.
func (p *Parser) parseArgList() ([]mython.Statement, error) {
	if err := p.expectChar('('); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	var args []mython.Statement
	if !p.isChar(')') {
		arg, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		for p.isChar(',') {
			if err := p.advance(); err != nil {
				return nil, err
			}
			arg, err := p.parseExpression(precLowest)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
	}
	if err := p.expectChar(')'); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseInfix(left mython.Statement, prec int) (mython.Statement, error) {
	tok := p.cur
	switch {
	case tok.Is(mython.TagOr):
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseExpression(prec)
		if err != nil {
			return nil, err
		}
		return &mython.Or{Lhs: left, Rhs: rhs}, nil
	case tok.Is(mython.TagAnd):
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseExpression(prec)
		if err != nil {
			return nil, err
		}
		return &mython.And{Lhs: left, Rhs: rhs}, nil
	case tok.Is(mython.TagEq):
		return p.parseComparison(left, prec, mython.CmpEq)
	case tok.Is(mython.TagNotEq):
		return p.parseComparison(left, prec, mython.CmpNotEq)
	case tok.Is(mython.TagLessOrEq):
		return p.parseComparison(left, prec, mython.CmpLessOrEq)
	case tok.Is(mython.TagGreaterOrEq):
		return p.parseComparison(left, prec, mython.CmpGreaterOrEq)
	case p.isChar('<'):
		return p.parseComparison(left, prec, mython.CmpLess)
	case p.isChar('>'):
		return p.parseComparison(left, prec, mython.CmpGreater)
	case p.isChar('+'):
		pos := tok.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseExpression(prec)
		if err != nil {
			return nil, err
		}
		return &mython.Add{Pos: pos, Lhs: left, Rhs: rhs}, nil
	case p.isChar('-'):
		pos := tok.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseExpression(prec)
		if err != nil {
			return nil, err
		}
		return &mython.Sub{Pos: pos, Lhs: left, Rhs: rhs}, nil
	case p.isChar('*'):
		pos := tok.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseExpression(prec)
		if err != nil {
			return nil, err
		}
		return &mython.Mult{Pos: pos, Lhs: left, Rhs: rhs}, nil
	case p.isChar('/'):
		pos := tok.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseExpression(prec)
		if err != nil {
			return nil, err
		}
		return &mython.Div{Pos: pos, Lhs: left, Rhs: rhs}, nil
	default:
		return nil, p.errorf("unexpected infix token %s", tok)
	}
}

func (p *Parser) parseComparison(left mython.Statement, prec int, op mython.ComparisonOp) (mython.Statement, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	rhs, err := p.parseExpression(prec)
	if err != nil {
		return nil, err
	}
	return &mython.Comparison{Op: op, Lhs: left, Rhs: rhs}, nil
}
