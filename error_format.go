package mython

import (
	"fmt"
	"strconv"
	"strings"
)

// formatCodeFrame renders a caret-pointing source excerpt for pos, used by
// the CLI boundary when printing a LexerError or RuntimeError.
func formatCodeFrame(source string, pos Position) string {
	if source == "" || pos.Line <= 0 {
		return ""
	}

	lines := strings.Split(source, "\n")
	if pos.Line > len(lines) {
		return ""
	}

	lineText := lines[pos.Line-1]
	lineRunes := []rune(lineText)

	column := pos.Column
	if column <= 0 {
		column = 1
	}
	if column > len(lineRunes)+1 {
		column = len(lineRunes) + 1
	}

	lineLabel := strconv.Itoa(pos.Line)
	gutterPad := strings.Repeat(" ", len(lineLabel))
	caretPad := strings.Repeat(" ", column-1)

	return fmt.Sprintf(
		"  --> line %d, column %d\n %s | %s\n %s | %s^",
		pos.Line,
		column,
		lineLabel,
		lineText,
		gutterPad,
		caretPad,
	)
}

// FormatError renders err (a *LexerError or *RuntimeError) against source,
// falling back to err.Error() for anything else.
func FormatError(err error, source string) string {
	switch e := err.(type) {
	case *LexerError:
		frame := formatCodeFrame(source, e.Pos)
		if frame == "" {
			return "lexer error: " + e.Message
		}
		return fmt.Sprintf("lexer error: %s\n%s", e.Message, frame)
	case *RuntimeError:
		frame := formatCodeFrame(source, e.Pos)
		if frame == "" {
			return "runtime error: " + e.Message
		}
		return fmt.Sprintf("runtime error: %s\n%s", e.Message, frame)
	default:
		return err.Error()
	}
}
