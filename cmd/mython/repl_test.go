package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mgomes/mython"
)

func TestUpdateQuitCommandReturnsQuit(t *testing.T) {
	m := newREPLModel()
	m.textInput.SetValue(":quit")

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(replModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}

	if !rm.quitting {
		t.Fatalf("quitting flag not set")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after quit command")
	}
	if cmd == nil {
		t.Fatalf("expected tea.Quit command")
	}
	if msg := cmd(); msg != nil {
		if _, ok := msg.(tea.QuitMsg); !ok {
			t.Fatalf("expected QuitMsg, got %T", msg)
		}
	}
}

func TestUpdateNonQuitCommandDoesNotReturnCmd(t *testing.T) {
	m := newREPLModel()
	m.textInput.SetValue(":help")

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(replModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}

	if cmd != nil {
		t.Fatalf("expected no command for non-quit input")
	}
	if rm.quitting {
		t.Fatalf("quitting should remain false")
	}
	if !rm.showHelp {
		t.Fatalf("help toggle should be enabled")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after command")
	}
}

func TestEvaluateAssignmentStoresVariable(t *testing.T) {
	m := newREPLModel()

	_, isErr := m.evaluate("score = 42")
	if isErr {
		t.Fatalf("unexpected eval error")
	}

	v, ok := m.ev.Closure.Get("score")
	if !ok {
		t.Fatalf("expected score to be stored in the REPL's closure")
	}
	if n, ok := v.TryNumber(); !ok || n != 42 {
		t.Fatalf("unexpected score value: %#v", v)
	}
}

func TestEvaluateEqualityDoesNotOverwriteVariable(t *testing.T) {
	m := newREPLModel()
	m.ev.Closure.Set("a", mython.NewNumber(5))

	_, isErr := m.evaluate("a == 5")
	if isErr {
		t.Fatalf("unexpected eval error")
	}

	v, _ := m.ev.Closure.Get("a")
	if n, ok := v.TryNumber(); !ok || n != 5 {
		t.Fatalf("variable a was clobbered by equality expression: %#v", v)
	}
}

func TestEvaluatePrintCapturesOutput(t *testing.T) {
	m := newREPLModel()

	output, isErr := m.evaluate("print 1 + 2")
	if isErr {
		t.Fatalf("unexpected eval error: %s", output)
	}
	if output != "3" {
		t.Fatalf("got %q, want %q", output, "3")
	}
}

func TestEvaluateReportsRuntimeErrors(t *testing.T) {
	m := newREPLModel()

	_, isErr := m.evaluate("x = 1 / 0")
	if !isErr {
		t.Fatal("expected a runtime error for division by zero")
	}
}

func TestResetCommandClearsClosure(t *testing.T) {
	m := newREPLModel()
	m.ev.Closure.Set("a", mython.NewNumber(5))
	m.textInput.SetValue(":reset")

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm := model.(replModel)

	if _, ok := rm.ev.Closure.Get("a"); ok {
		t.Fatalf("expected closure to be cleared after :reset")
	}
}
