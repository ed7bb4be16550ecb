package mython

// Literal wraps a constant Value computed once at parse time: Number,
// String, Bool, or None tokens all become one of these in the statement
// tree.
type Literal struct {
	Val Value
}

func (l *Literal) Execute(closure Closure, ctx Context) (Value, error) {
	return l.Val, nil
}
