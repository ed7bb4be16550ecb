package mython

// Stringify evaluates Arg, prints it to a local buffer, and returns a new
// String holding the result — this is the `str(...)` builtin.
type Stringify struct {
	Arg Statement
}

func (s *Stringify) Execute(closure Closure, ctx Context) (Value, error) {
	v, err := s.Arg.Execute(closure, ctx)
	if err != nil {
		return None(), err
	}
	str, err := stringifyValue(v, ctx)
	if err != nil {
		return None(), err
	}
	return NewString(str), nil
}

// Add evaluates both sides and dispatches to Number+Number, String+String,
// or ClassInstance.__add__(rhs); anything else is "Bad addition".
type Add struct {
	Pos      Position
	Lhs, Rhs Statement
}

func (a *Add) Execute(closure Closure, ctx Context) (Value, error) {
	l, r, err := evalPair(a.Lhs, a.Rhs, closure, ctx)
	if err != nil {
		return None(), err
	}
	if ln, ok := l.TryNumber(); ok {
		if rn, ok := r.TryNumber(); ok {
			return NewNumber(ln + rn), nil
		}
	}
	if ls, ok := l.TryString(); ok {
		if rs, ok := r.TryString(); ok {
			return NewString(ls + rs), nil
		}
	}
	if inst, ok := l.TryInstance(); ok && !r.IsNone() && inst.HasMethod("__add__", 1) {
		return inst.Call("__add__", []Value{r}, ctx)
	}
	return None(), newRuntimeError(a.Pos, "Bad addition")
}

// Sub evaluates both sides; only Number-Number is valid.
type Sub struct {
	Pos      Position
	Lhs, Rhs Statement
}

func (s *Sub) Execute(closure Closure, ctx Context) (Value, error) {
	l, r, err := evalPair(s.Lhs, s.Rhs, closure, ctx)
	if err != nil {
		return None(), err
	}
	ln, lok := l.TryNumber()
	rn, rok := r.TryNumber()
	if !lok || !rok {
		return None(), newRuntimeError(s.Pos, "Bad subtraction")
	}
	return NewNumber(ln - rn), nil
}

// Mult evaluates both sides; only Number*Number is valid.
type Mult struct {
	Pos      Position
	Lhs, Rhs Statement
}

func (m *Mult) Execute(closure Closure, ctx Context) (Value, error) {
	l, r, err := evalPair(m.Lhs, m.Rhs, closure, ctx)
	if err != nil {
		return None(), err
	}
	ln, lok := l.TryNumber()
	rn, rok := r.TryNumber()
	if !lok || !rok {
		return None(), newRuntimeError(m.Pos, "Bad multiplication")
	}
	return NewNumber(ln * rn), nil
}

// Div evaluates both sides; only Number/Number is valid, and the divisor
// must be non-zero.
type Div struct {
	Pos      Position
	Lhs, Rhs Statement
}

func (d *Div) Execute(closure Closure, ctx Context) (Value, error) {
	l, r, err := evalPair(d.Lhs, d.Rhs, closure, ctx)
	if err != nil {
		return None(), err
	}
	ln, lok := l.TryNumber()
	rn, rok := r.TryNumber()
	if !lok || !rok || rn == 0 {
		return None(), newRuntimeError(d.Pos, "Bad division")
	}
	return NewNumber(ln / rn), nil
}

func evalPair(lhs, rhs Statement, closure Closure, ctx Context) (Value, Value, error) {
	l, err := lhs.Execute(closure, ctx)
	if err != nil {
		return None(), None(), err
	}
	r, err := rhs.Execute(closure, ctx)
	if err != nil {
		return None(), None(), err
	}
	return l, r, nil
}

// Or short-circuits: true without evaluating Rhs when Lhs is truthy.
type Or struct {
	Lhs, Rhs Statement
}

func (o *Or) Execute(closure Closure, ctx Context) (Value, error) {
	l, err := o.Lhs.Execute(closure, ctx)
	if err != nil {
		return None(), err
	}
	if IsTrue(l) {
		return NewBool(true), nil
	}
	r, err := o.Rhs.Execute(closure, ctx)
	if err != nil {
		return None(), err
	}
	return NewBool(IsTrue(r)), nil
}

// And short-circuits: false without evaluating Rhs when Lhs is falsy.
type And struct {
	Lhs, Rhs Statement
}

func (a *And) Execute(closure Closure, ctx Context) (Value, error) {
	l, err := a.Lhs.Execute(closure, ctx)
	if err != nil {
		return None(), err
	}
	if !IsTrue(l) {
		return NewBool(false), nil
	}
	r, err := a.Rhs.Execute(closure, ctx)
	if err != nil {
		return None(), err
	}
	return NewBool(IsTrue(r)), nil
}

// Not negates is_true(Arg).
type Not struct {
	Arg Statement
}

func (n *Not) Execute(closure Closure, ctx Context) (Value, error) {
	v, err := n.Arg.Execute(closure, ctx)
	if err != nil {
		return None(), err
	}
	return NewBool(!IsTrue(v)), nil
}

// ComparisonOp identifies which relation a Comparison node applies.
type ComparisonOp int

const (
	CmpEq ComparisonOp = iota
	CmpNotEq
	CmpLess
	CmpGreater
	CmpLessOrEq
	CmpGreaterOrEq
)

// Comparison evaluates both sides and applies Equal/Less or a relation
// derived from them.
type Comparison struct {
	Op       ComparisonOp
	Lhs, Rhs Statement
}

func (c *Comparison) Execute(closure Closure, ctx Context) (Value, error) {
	l, r, err := evalPair(c.Lhs, c.Rhs, closure, ctx)
	if err != nil {
		return None(), err
	}
	var result bool
	switch c.Op {
	case CmpEq:
		result, err = Equal(l, r, ctx)
	case CmpNotEq:
		result, err = NotEqual(l, r, ctx)
	case CmpLess:
		result, err = Less(l, r, ctx)
	case CmpGreater:
		result, err = Greater(l, r, ctx)
	case CmpLessOrEq:
		result, err = LessOrEqual(l, r, ctx)
	case CmpGreaterOrEq:
		result, err = GreaterOrEqual(l, r, ctx)
	}
	if err != nil {
		return None(), err
	}
	return NewBool(result), nil
}
