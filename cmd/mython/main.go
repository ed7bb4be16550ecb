package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mgomes/mython"
	"github.com/mgomes/mython/parser"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "repl":
		return runRepl()
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	checkOnly := fs.Bool("check", false, "only parse the script without executing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("mython run: script path required")
	}
	scriptPath := remaining[0]
	absScriptPath, err := filepath.Abs(scriptPath)
	if err != nil {
		return fmt.Errorf("resolve script path: %w", err)
	}
	input, err := os.ReadFile(absScriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	source := string(input)

	lx, err := mython.NewLexer(bytes.NewReader(input))
	if err != nil {
		return fmt.Errorf("lex failed: %w", reportErr(err, source))
	}
	prog, err := parser.Parse(lx)
	if err != nil {
		return fmt.Errorf("parse failed: %w", reportErr(err, source))
	}
	if *checkOnly {
		return nil
	}

	ctx := mython.NewContext(os.Stdout)
	ev := mython.NewEvaluator(ctx)
	if _, err := ev.Run(prog); err != nil {
		return fmt.Errorf("execution failed: %w", reportErr(err, source))
	}
	return nil
}

// reportErr wraps err so its message includes a code frame when it's a
// LexerError or RuntimeError, while leaving the original error available to
// errors.As at the caller.
func reportErr(err error, source string) error {
	return errorWithFrame{err: err, frame: mython.FormatError(err, source)}
}

type errorWithFrame struct {
	err   error
	frame string
}

func (e errorWithFrame) Error() string { return e.frame }
func (e errorWithFrame) Unwrap() error { return e.err }

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s run [flags] <script>\n", prog)
	fmt.Fprintf(os.Stderr, "       %s repl\n", prog)
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprintln(os.Stderr, "  -check")
	fmt.Fprintln(os.Stderr, "    only parse the script without executing")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
