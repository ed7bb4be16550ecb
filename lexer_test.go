package mython

import (
	"strings"
	"testing"
)

// tagsOf drains a fresh Lexer over src down to (and including) Eof and
// returns the tag sequence.
func tagsOf(t *testing.T, src string) []Tag {
	t.Helper()
	lx, err := NewLexer(strings.NewReader(src))
	if err != nil {
		t.Fatalf("NewLexer: %v", err)
	}
	var tags []Tag
	for {
		tok := lx.Current()
		tags = append(tags, tok.Tag)
		if tok.Is(TagEof) {
			return tags
		}
		if _, err := lx.Next(); err != nil {
			t.Fatalf("Next: %v", err)
		}
	}
}

func TestLexerSimpleAssignment(t *testing.T) {
	got := tagsOf(t, "x = 1\n")
	want := []Tag{TagId, TagChar, TagNumber, TagNewline, TagEof}
	assertTags(t, got, want)
}

func TestLexerIndentDedentBalance(t *testing.T) {
	src := "if x:\n  y = 1\n  z = 2\nprint y\n"
	got := tagsOf(t, src)

	var indents, dedents int
	for _, tag := range got {
		switch tag {
		case TagIndent:
			indents++
		case TagDedent:
			dedents++
		}
	}
	if indents != dedents {
		t.Fatalf("unbalanced indent/dedent: %d indents, %d dedents in %v", indents, dedents, got)
	}
	if indents != 1 {
		t.Fatalf("expected exactly one indent level, got %d", indents)
	}
}

func TestLexerNestedDedentOnEof(t *testing.T) {
	src := "if x:\n  if y:\n    z = 1\n"
	got := tagsOf(t, src)
	var indents, dedents int
	for _, tag := range got {
		switch tag {
		case TagIndent:
			indents++
		case TagDedent:
			dedents++
		}
	}
	if indents != 2 || dedents != 2 {
		t.Fatalf("expected 2 indents and 2 dedents flushed at eof, got %d/%d in %v", indents, dedents, got)
	}
	if got[len(got)-1] != TagEof {
		t.Fatalf("expected stream to end in Eof, got %v", got)
	}
	if got[len(got)-2] != TagDedent {
		t.Fatalf("expected Dedent immediately before Eof, got %v", got)
	}
}

func TestLexerOddIndentationIsAnError(t *testing.T) {
	lx, err := NewLexer(strings.NewReader("if x:\n   y = 1\n"))
	if err != nil {
		t.Fatalf("NewLexer: %v", err)
	}
	var lastErr error
	for {
		tok, err := lx.Next()
		if err != nil {
			lastErr = err
			break
		}
		if tok.Is(TagEof) {
			break
		}
	}
	if lastErr == nil {
		t.Fatal("expected a lexer error for 3-space indentation")
	}
	lerr, ok := lastErr.(*LexerError)
	if !ok {
		t.Fatalf("expected *LexerError, got %T: %v", lastErr, lastErr)
	}
	if lerr.Message != "Invalid Indentation" {
		t.Fatalf("unexpected message: %q", lerr.Message)
	}
}

func TestLexerBlankAndCommentLinesDoNotAffectIndentation(t *testing.T) {
	withNoise := "if x:\n\n  # a comment\n  y = 1\n"
	withoutNoise := "if x:\n  y = 1\n"
	got := tagsOf(t, withNoise)
	want := tagsOf(t, withoutNoise)
	assertTags(t, got, want)
}

func TestLexerNewlineNeverFollowsLayoutToken(t *testing.T) {
	src := "if x:\n  y = 1\nelse:\n  y = 2\n"
	tags := tagsOf(t, src)
	for i, tag := range tags {
		if tag != TagNewline {
			continue
		}
		if i == 0 {
			t.Fatalf("Newline cannot be the first token")
		}
		switch tags[i-1] {
		case TagNewline, TagIndent, TagDedent:
			t.Fatalf("Newline at %d directly follows a layout token %v: %v", i, tags[i-1], tags)
		}
	}
}

func TestTokenLexemeRoundTrips(t *testing.T) {
	cases := []string{
		"x", "42", `"hello"`, "class", "return", "if", "else", "def", "print",
		"and", "or", "not", "None", "True", "False", "==", "!=", "<=", ">=",
	}
	for _, src := range cases {
		lx, err := NewLexer(strings.NewReader(src + "\n"))
		if err != nil {
			t.Fatalf("NewLexer(%q): %v", src, err)
		}
		tok := lx.Current()
		lexeme := tok.Lexeme()
		lx2, err := NewLexer(strings.NewReader(lexeme + "\n"))
		if err != nil {
			t.Fatalf("NewLexer(%q) round-trip: %v", lexeme, err)
		}
		tok2 := lx2.Current()
		if !tok.Equal(tok2) {
			t.Fatalf("round-trip mismatch for %q: %v != %v", src, tok, tok2)
		}
	}
}

func TestLexerUnterminatedStringIsAnError(t *testing.T) {
	lx, err := NewLexer(strings.NewReader(`x = "abc`))
	if err != nil {
		t.Fatalf("NewLexer: %v", err)
	}
	var lastErr error
	for {
		tok, err := lx.Next()
		if err != nil {
			lastErr = err
			break
		}
		if tok.Is(TagEof) {
			break
		}
	}
	if lastErr == nil {
		t.Fatal("expected an unterminated string error")
	}
}

func TestLexerStringEscapes(t *testing.T) {
	lx, err := NewLexer(strings.NewReader(`"a\nb\tc\"d"` + "\n"))
	if err != nil {
		t.Fatalf("NewLexer: %v", err)
	}
	tok := lx.Current()
	if !tok.Is(TagString) {
		t.Fatalf("expected TagString, got %v", tok)
	}
	if tok.Str != "a\nb\tc\"d" {
		t.Fatalf("unexpected escaped string: %q", tok.Str)
	}
}

func assertTags(t *testing.T, got, want []Tag) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("tag count mismatch\n got:  %v\n want: %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("tag mismatch at %d\n got:  %v\n want: %v", i, got, want)
		}
	}
}
