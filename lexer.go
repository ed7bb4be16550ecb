package mython

import (
	"bufio"
	"fmt"
	"io"
)

// LexerError is raised by the Lexer on invalid indentation or an
// unterminated string literal. It is fatal: the Lexer does not recover.
type LexerError struct {
	Message string
	Pos     Position
}

func (e *LexerError) Error() string {
	return fmt.Sprintf("lexer error at %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

func newLexerError(pos Position, format string, args ...any) *LexerError {
	return &LexerError{Message: fmt.Sprintf(format, args...), Pos: pos}
}

const indentWidth = 2
const charBufSize = 1024

// lexState is the Lexer's finite-automaton state.
type lexState int

const (
	stateNewLine lexState = iota
	stateOut
	stateMayBeId
	stateMayBeCompare
	stateNumber
	stateSingleQuote
	stateSingleQuoteEscape
	stateDoubleQuote
	stateDoubleQuoteEscape
	stateTrailingComment
	stateLineComment
)

// Lexer turns a byte stream into a Token stream, synthesizing Indent/Dedent/
// Newline tokens from leading-space indentation. It reads one byte at a time
// through a buffered reader (bufio.Reader buffers charBufSize-ish reads
// under the hood), exposing Current/Next/Expect as the only contract the
// parser depends on.
type Lexer struct {
	r *bufio.Reader

	state lexState

	pendingIndent int
	currentIndent int

	buf          []byte
	compareFirst byte
	tokStart     Position

	line, col int

	tokens     []Token
	eofReached bool
}

// NewLexer constructs a Lexer over r and primes its token buffer so that
// Current is valid immediately: the FIFO is never empty after construction.
func NewLexer(r io.Reader) (*Lexer, error) {
	lx := &Lexer{
		r:     bufio.NewReaderSize(r, charBufSize),
		state: stateNewLine,
		line:  1,
		col:   1,
	}
	if err := lx.fill(); err != nil {
		return nil, err
	}
	return lx, nil
}

// Current returns the head token. After end of input it yields Eof
// indefinitely.
func (lx *Lexer) Current() Token {
	return lx.tokens[0]
}

// Next advances past the head token and returns the new head. Once Eof is
// reached it keeps returning Eof without consuming further input.
func (lx *Lexer) Next() (Token, error) {
	if lx.tokens[0].Is(TagEof) {
		return lx.tokens[0], nil
	}
	lx.tokens = lx.tokens[1:]
	if err := lx.fill(); err != nil {
		return Token{}, err
	}
	return lx.tokens[0], nil
}

// Expect verifies the head token's tag, raising a LexerError on mismatch.
func (lx *Lexer) Expect(tag Tag) error {
	if !lx.Current().Is(tag) {
		return newLexerError(lx.Current().Pos, "expected %s, got %s", tag, lx.Current())
	}
	return nil
}

// ExpectValue verifies the head token's tag and payload (Str for
// TagId/TagString, Number for TagNumber, Ch for TagChar).
func (lx *Lexer) ExpectValue(tag Tag, payload any) error {
	if err := lx.Expect(tag); err != nil {
		return err
	}
	cur := lx.Current()
	var ok bool
	switch tag {
	case TagId, TagString:
		s, isStr := payload.(string)
		ok = isStr && cur.Str == s
	case TagNumber:
		n, isNum := payload.(int32)
		ok = isNum && cur.Number == n
	case TagChar:
		c, isCh := payload.(byte)
		ok = isCh && cur.Ch == c
	default:
		ok = true
	}
	if !ok {
		return newLexerError(cur.Pos, "expected %s with value %v, got %s", tag, payload, cur)
	}
	return nil
}

// ExpectNext advances and then verifies the new head's tag.
func (lx *Lexer) ExpectNext(tag Tag) error {
	if _, err := lx.Next(); err != nil {
		return err
	}
	return lx.Expect(tag)
}

// ExpectNextValue advances and then verifies the new head's tag and payload.
func (lx *Lexer) ExpectNextValue(tag Tag, payload any) error {
	if _, err := lx.Next(); err != nil {
		return err
	}
	return lx.ExpectValue(tag, payload)
}

// fill pulls bytes from the underlying reader, feeding the automaton one
// byte at a time, until the FIFO gains at least one token or EOF is
// reached.
func (lx *Lexer) fill() error {
	for len(lx.tokens) == 0 && !lx.eofReached {
		b, err := lx.r.ReadByte()
		if err == io.EOF {
			toks, ferr := lx.feed(0, true)
			if ferr != nil {
				return ferr
			}
			lx.tokens = append(lx.tokens, toks...)
			lx.eofReached = true
			continue
		}
		if err != nil {
			return err
		}
		toks, ferr := lx.feed(b, false)
		if ferr != nil {
			return ferr
		}
		lx.tokens = append(lx.tokens, toks...)
		lx.advancePos(b)
	}
	return nil
}

func (lx *Lexer) advancePos(c byte) {
	if c == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
}

func (lx *Lexer) pos() Position {
	return Position{Line: lx.line, Column: lx.col}
}

// feed is the automaton's single-step transition: (state, char) -> (new
// state, emitted tokens). eof=true feeds the end-of-stream sentinel.
func (lx *Lexer) feed(c byte, eof bool) ([]Token, error) {
	switch lx.state {
	case stateNewLine:
		return lx.feedNewLine(c, eof)
	case stateOut:
		return lx.feedOut(c, eof)
	case stateMayBeId:
		return lx.feedMayBeId(c, eof)
	case stateMayBeCompare:
		return lx.feedMayBeCompare(c, eof)
	case stateNumber:
		return lx.feedNumber(c, eof)
	case stateSingleQuote:
		return lx.feedQuote(c, eof, '\'', stateSingleQuote, stateSingleQuoteEscape)
	case stateDoubleQuote:
		return lx.feedQuote(c, eof, '"', stateDoubleQuote, stateDoubleQuoteEscape)
	case stateSingleQuoteEscape:
		return lx.feedEscape(c, eof, stateSingleQuote)
	case stateDoubleQuoteEscape:
		return lx.feedEscape(c, eof, stateDoubleQuote)
	case stateTrailingComment:
		return lx.feedTrailingComment(c, eof)
	case stateLineComment:
		return lx.feedLineComment(c, eof)
	default:
		panic("mython: unreachable lexer state")
	}
}

func (lx *Lexer) feedNewLine(c byte, eof bool) ([]Token, error) {
	if eof {
		lx.pendingIndent = 0
		toks, err := lx.processIndentation()
		if err != nil {
			return nil, err
		}
		return append(toks, simpleToken(TagEof, lx.pos())), nil
	}
	switch c {
	case ' ':
		lx.pendingIndent++
		return nil, nil
	case '\n':
		lx.pendingIndent = 0
		return nil, nil
	case '#':
		lx.pendingIndent = 0
		lx.state = stateLineComment
		return nil, nil
	default:
		toks, err := lx.processIndentation()
		if err != nil {
			return nil, err
		}
		more, err := lx.dispatchOut(c, false)
		if err != nil {
			return nil, err
		}
		return append(toks, more...), nil
	}
}

// processIndentation synthesizes Indent/Dedent tokens for the accumulated
// pendingIndent.
func (lx *Lexer) processIndentation() ([]Token, error) {
	if lx.pendingIndent%indentWidth != 0 {
		return nil, newLexerError(lx.pos(), "Invalid Indentation")
	}
	diff := (lx.pendingIndent - lx.currentIndent) / indentWidth
	lx.currentIndent = lx.pendingIndent
	lx.pendingIndent = 0

	if diff == 0 {
		return nil, nil
	}
	toks := make([]Token, 0, abs(diff))
	if diff > 0 {
		for i := 0; i < diff; i++ {
			toks = append(toks, simpleToken(TagIndent, lx.pos()))
		}
	} else {
		for i := 0; i < -diff; i++ {
			toks = append(toks, simpleToken(TagDedent, lx.pos()))
		}
	}
	return toks, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// feedOut dispatches a mid-line character. It is also reused to re-dispatch
// the terminator byte that closes an identifier/number/compare run.
func (lx *Lexer) feedOut(c byte, eof bool) ([]Token, error) {
	return lx.dispatchOut(c, eof)
}

func (lx *Lexer) dispatchOut(c byte, eof bool) ([]Token, error) {
	if eof {
		lx.state = stateNewLine
		toks := []Token{simpleToken(TagNewline, lx.pos())}
		lx.pendingIndent = 0
		flushed, err := lx.processIndentation()
		if err != nil {
			return nil, err
		}
		toks = append(toks, flushed...)
		return append(toks, simpleToken(TagEof, lx.pos())), nil
	}
	switch {
	case c == ' ':
		lx.state = stateOut
		return nil, nil
	case c == '\n':
		lx.state = stateNewLine
		lx.pendingIndent = 0
		return []Token{simpleToken(TagNewline, lx.pos())}, nil
	case c == '#':
		lx.state = stateTrailingComment
		return nil, nil
	case isLetter(c) || c == '_':
		lx.buf = []byte{c}
		lx.tokStart = lx.pos()
		lx.state = stateMayBeId
		return nil, nil
	case isDigit(c):
		lx.buf = []byte{c}
		lx.tokStart = lx.pos()
		lx.state = stateNumber
		return nil, nil
	case c == '=' || c == '!' || c == '<' || c == '>':
		lx.compareFirst = c
		lx.tokStart = lx.pos()
		lx.state = stateMayBeCompare
		return nil, nil
	case c == '\'':
		lx.buf = nil
		lx.tokStart = lx.pos()
		lx.state = stateSingleQuote
		return nil, nil
	case c == '"':
		lx.buf = nil
		lx.tokStart = lx.pos()
		lx.state = stateDoubleQuote
		return nil, nil
	default:
		lx.state = stateOut
		return []Token{charToken(c, lx.pos())}, nil
	}
}

func (lx *Lexer) feedMayBeId(c byte, eof bool) ([]Token, error) {
	if !eof && (isLetter(c) || isDigit(c) || c == '_') {
		lx.buf = append(lx.buf, c)
		return nil, nil
	}
	name := string(lx.buf)
	lx.buf = nil
	tok := idToken(name, lx.tokStart)
	if tag, ok := keywords[name]; ok {
		tok = simpleToken(tag, lx.tokStart)
	}
	more, err := lx.dispatchOut(c, eof)
	if err != nil {
		return nil, err
	}
	return append([]Token{tok}, more...), nil
}

func (lx *Lexer) feedMayBeCompare(c byte, eof bool) ([]Token, error) {
	if !eof && c == '=' {
		lx.state = stateOut
		var tag Tag
		switch lx.compareFirst {
		case '=':
			tag = TagEq
		case '!':
			tag = TagNotEq
		case '<':
			tag = TagLessOrEq
		case '>':
			tag = TagGreaterOrEq
		}
		return []Token{simpleToken(tag, lx.tokStart)}, nil
	}
	first := charToken(lx.compareFirst, lx.tokStart)
	more, err := lx.dispatchOut(c, eof)
	if err != nil {
		return nil, err
	}
	return append([]Token{first}, more...), nil
}

func (lx *Lexer) feedNumber(c byte, eof bool) ([]Token, error) {
	if !eof && isDigit(c) {
		lx.buf = append(lx.buf, c)
		return nil, nil
	}
	var v int32
	for _, d := range lx.buf {
		v = v*10 + int32(d-'0')
	}
	lx.buf = nil
	tok := numberToken(v, lx.tokStart)
	more, err := lx.dispatchOut(c, eof)
	if err != nil {
		return nil, err
	}
	return append([]Token{tok}, more...), nil
}

func (lx *Lexer) feedQuote(c byte, eof bool, quote byte, selfState, escapeState lexState) ([]Token, error) {
	if eof || c == '\n' {
		return nil, newLexerError(lx.tokStart, "unterminated string literal")
	}
	if c == quote {
		s := string(lx.buf)
		lx.buf = nil
		lx.state = stateOut
		return []Token{stringToken(s, lx.tokStart)}, nil
	}
	if c == '\\' {
		lx.state = escapeState
		return nil, nil
	}
	lx.buf = append(lx.buf, c)
	lx.state = selfState
	return nil, nil
}

func (lx *Lexer) feedEscape(c byte, eof bool, back lexState) ([]Token, error) {
	if eof {
		return nil, newLexerError(lx.tokStart, "unterminated string literal")
	}
	switch c {
	case 'n':
		lx.buf = append(lx.buf, '\n')
	case 't':
		lx.buf = append(lx.buf, '\t')
	default:
		lx.buf = append(lx.buf, c)
	}
	lx.state = back
	return nil, nil
}

func (lx *Lexer) feedTrailingComment(c byte, eof bool) ([]Token, error) {
	if eof {
		lx.state = stateNewLine
		toks := []Token{simpleToken(TagNewline, lx.pos())}
		lx.pendingIndent = 0
		flushed, err := lx.processIndentation()
		if err != nil {
			return nil, err
		}
		toks = append(toks, flushed...)
		return append(toks, simpleToken(TagEof, lx.pos())), nil
	}
	if c == '\n' {
		lx.state = stateNewLine
		lx.pendingIndent = 0
		return []Token{simpleToken(TagNewline, lx.pos())}, nil
	}
	return nil, nil
}

func (lx *Lexer) feedLineComment(c byte, eof bool) ([]Token, error) {
	if eof {
		lx.state = stateNewLine
		lx.pendingIndent = 0
		toks, err := lx.processIndentation()
		if err != nil {
			return nil, err
		}
		return append(toks, simpleToken(TagEof, lx.pos())), nil
	}
	if c == '\n' {
		lx.state = stateNewLine
		lx.pendingIndent = 0
		return nil, nil
	}
	return nil, nil
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
