package mython

import "io"

// Context is the runtime services object exposed to statement execution.
// The only service the core evaluator requires is an output stream for
// Print and for ClassInstance.Print's __str__ fallback.
type Context interface {
	OutputStream() io.Writer
}

// runContext is the Context implementation used by a running program.
type runContext struct {
	out io.Writer
}

// NewContext builds a Context that writes program output to out.
func NewContext(out io.Writer) Context {
	return &runContext{out: out}
}

func (c *runContext) OutputStream() io.Writer { return c.out }
