// Package parser builds Mython statement trees from the token stream the
// core lexer exposes. It is an external collaborator per the core's own
// design: it depends only on mython.Lexer's public Current/Next contract.
package parser

import (
	"fmt"

	"github.com/mgomes/mython"
)

// ParseError is raised when the token stream doesn't match the grammar.
type ParseError struct {
	Pos mython.Position
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

// Parser is a recursive-descent, precedence-climbing parser over a
// mython.Lexer's token stream.
type Parser struct {
	lx  *mython.Lexer
	cur mython.Token

	classes map[string]*mython.Class
}

// New builds a Parser positioned at the Lexer's first token.
func New(lx *mython.Lexer) *Parser {
	return &Parser{lx: lx, cur: lx.Current(), classes: make(map[string]*mython.Class)}
}

// Parse consumes the entire token stream and returns the top-level Program.
func Parse(lx *mython.Lexer) (*mython.Program, error) {
	p := New(lx)
	return p.ParseProgram()
}

func (p *Parser) advance() error {
	tok, err := p.lx.Next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *Parser) errorf(format string, args ...any) error {
	return &ParseError{Pos: p.cur.Pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) expectTag(tag mython.Tag) error {
	if !p.cur.Is(tag) {
		return p.errorf("expected %s, got %s", tag, p.cur)
	}
	return nil
}

func (p *Parser) expectChar(c byte) error {
	if !p.cur.Is(mython.TagChar) || p.cur.Ch != c {
		return p.errorf("expected %q, got %s", string(c), p.cur)
	}
	return nil
}

func (p *Parser) isChar(c byte) bool {
	return p.cur.Is(mython.TagChar) && p.cur.Ch == c
}

// ParseProgram parses every top-level statement until Eof.
func (p *Parser) ParseProgram() (*mython.Program, error) {
	prog := &mython.Program{}
	for !p.cur.Is(mython.TagEof) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, stmt)
	}
	return prog, nil
}

func (p *Parser) parseStatement() (mython.Statement, error) {
	switch p.cur.Tag {
	case mython.TagClass:
		return p.parseClassDef()
	case mython.TagIf:
		return p.parseIfElse()
	case mython.TagReturn:
		return p.parseReturn()
	case mython.TagPrint:
		return p.parsePrint()
	default:
		return p.parseExprOrAssignStatement()
	}
}

// parseBlock consumes Newline Indent {statement}* Dedent and returns the
// statements as a Compound.
func (p *Parser) parseBlock() (mython.Statement, error) {
	if err := p.expectTag(mython.TagNewline); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expectTag(mython.TagIndent); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	var stmts []mython.Statement
	for !p.cur.Is(mython.TagDedent) && !p.cur.Is(mython.TagEof) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if err := p.expectTag(mython.TagDedent); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &mython.Compound{Stmts: stmts}, nil
}

func (p *Parser) parseClassDef() (mython.Statement, error) {
	if err := p.advance(); err != nil { // consume 'class'
		return nil, err
	}
	if err := p.expectTag(mython.TagId); err != nil {
		return nil, err
	}
	name := p.cur.Str
	if err := p.advance(); err != nil {
		return nil, err
	}

	var parent *mython.Class
	if p.isChar('(') {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectTag(mython.TagId); err != nil {
			return nil, err
		}
		parentName := p.cur.Str
		cls, ok := p.classes[parentName]
		if !ok {
			return nil, p.errorf("unknown parent class %s", parentName)
		}
		parent = cls
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectChar(')'); err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	if err := p.expectChar(':'); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expectTag(mython.TagNewline); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expectTag(mython.TagIndent); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	var methods []*mython.Method
	for !p.cur.Is(mython.TagDedent) && !p.cur.Is(mython.TagEof) {
		m, err := p.parseMethodDef()
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	if err := p.expectTag(mython.TagDedent); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	cls := mython.NewClass(name, methods, parent)
	p.classes[name] = cls
	return &mython.ClassDefinition{Cls: cls}, nil
}

func (p *Parser) parseMethodDef() (*mython.Method, error) {
	if err := p.expectTag(mython.TagDef); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expectTag(mython.TagId); err != nil {
		return nil, err
	}
	name := p.cur.Str
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expectChar('('); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	var params []string
	if !p.isChar(')') {
		if err := p.expectTag(mython.TagId); err != nil {
			return nil, err
		}
		params = append(params, p.cur.Str)
		if err := p.advance(); err != nil {
			return nil, err
		}
		for p.isChar(',') {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if err := p.expectTag(mython.TagId); err != nil {
				return nil, err
			}
			params = append(params, p.cur.Str)
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if err := p.expectChar(')'); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expectChar(':'); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &mython.Method{Name: name, Params: params, Body: &mython.MethodBody{Body: body}}, nil
}

func (p *Parser) parseIfElse() (mython.Statement, error) {
	if err := p.advance(); err != nil { // consume 'if'
		return nil, err
	}
	cond, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if err := p.expectChar(':'); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	thenBody, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var elseBody mython.Statement
	if p.cur.Is(mython.TagElse) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectChar(':'); err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		elseBody, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &mython.IfElse{Cond: cond, Then: thenBody, Else: elseBody}, nil
}

func (p *Parser) parseReturn() (mython.Statement, error) {
	if err := p.advance(); err != nil { // consume 'return'
		return nil, err
	}
	expr, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if err := p.consumeNewline(); err != nil {
		return nil, err
	}
	return &mython.Return{Expr: expr}, nil
}

func (p *Parser) parsePrint() (mython.Statement, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil { // consume 'print'
		return nil, err
	}
	var args []mython.Statement
	for !p.cur.Is(mython.TagNewline) && !p.cur.Is(mython.TagEof) {
		arg, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if err := p.consumeNewline(); err != nil {
		return nil, err
	}
	return &mython.Print{Pos: pos, Args: args}, nil
}

func (p *Parser) consumeNewline() error {
	if p.cur.Is(mython.TagEof) {
		return nil
	}
	if err := p.expectTag(mython.TagNewline); err != nil {
		return err
	}
	return p.advance()
}

func (p *Parser) parseExprOrAssignStatement() (mython.Statement, error) {
	expr, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if p.isChar('=') {
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		stmt, err := buildAssignment(pos, expr, rhs)
		if err != nil {
			return nil, err
		}
		if err := p.consumeNewline(); err != nil {
			return nil, err
		}
		return stmt, nil
	}
	if err := p.consumeNewline(); err != nil {
		return nil, err
	}
	return expr, nil
}

func buildAssignment(pos mython.Position, target, rhs mython.Statement) (mython.Statement, error) {
	switch t := target.(type) {
	case *mython.VariableValue:
		if len(t.Ids) == 1 {
			return &mython.Assignment{Pos: pos, Name: t.Ids[0], Rhs: rhs}, nil
		}
		obj := &mython.VariableValue{Pos: t.Pos, Ids: t.Ids[:len(t.Ids)-1]}
		return &mython.FieldAssignment{Pos: pos, Obj: obj, Field: t.Ids[len(t.Ids)-1], Rhs: rhs}, nil
	case *mython.FieldAccess:
		obj, ok := t.Obj.(*mython.VariableValue)
		if !ok {
			return nil, &ParseError{Pos: pos, Msg: "cannot assign a field on a non-variable receiver"}
		}
		return &mython.FieldAssignment{Pos: pos, Obj: obj, Field: t.Field, Rhs: rhs}, nil
	default:
		return nil, &ParseError{Pos: pos, Msg: "left-hand side of assignment is not assignable"}
	}
}
