package mython

import (
	"fmt"
)

// RuntimeError covers type mismatches, unknown variables, bad arithmetic,
// divide-by-zero, missing methods, and arity mismatches. It is never
// catchable from Mython code.
type RuntimeError struct {
	Message string
	Pos     Position
}

func (e *RuntimeError) Error() string { return e.Message }

func newRuntimeError(pos Position, format string, args ...any) *RuntimeError {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &RuntimeError{Message: msg, Pos: pos}
}

// IsTrue implements Mython's truthiness policy.
func IsTrue(v Value) bool {
	switch v.Kind() {
	case KindNone:
		return false
	case KindString:
		return v.Str() != ""
	case KindNumber:
		return v.Number() != 0
	case KindBool:
		return v.Bool()
	case KindClass, KindInstance:
		return false
	default:
		return true
	}
}

// Equal implements Mython's equality policy: same-kind primitive equality,
// or a __eq__ dunder dispatch for class instances.
func Equal(l, r Value, ctx Context) (bool, error) {
	if l.IsNone() && r.IsNone() {
		return true, nil
	}
	if inst, ok := l.TryInstance(); ok && inst.HasMethod("__eq__", 1) {
		result, err := inst.Call("__eq__", []Value{r}, ctx)
		if err != nil {
			return false, err
		}
		b, ok := result.TryBool()
		if !ok {
			return false, newRuntimeError(Position{}, "cannot compare class instances for equality")
		}
		return b, nil
	}
	if l.Kind() == r.Kind() {
		switch l.Kind() {
		case KindString:
			return l.Str() == r.Str(), nil
		case KindNumber:
			return l.Number() == r.Number(), nil
		case KindBool:
			return l.Bool() == r.Bool(), nil
		}
	}
	return false, newRuntimeError(Position{}, "Cannot compare objects for equality")
}

// Less implements Mython's ordering policy: same-kind primitive comparison,
// or a __lt__ dunder dispatch for class instances.
func Less(l, r Value, ctx Context) (bool, error) {
	if inst, ok := l.TryInstance(); ok && inst.HasMethod("__lt__", 1) {
		result, err := inst.Call("__lt__", []Value{r}, ctx)
		if err != nil {
			return false, err
		}
		b, ok := result.TryBool()
		if !ok {
			return false, newRuntimeError(Position{}, "cannot compare class instances for less")
		}
		return b, nil
	}
	if l.Kind() == r.Kind() {
		switch l.Kind() {
		case KindString:
			return l.Str() < r.Str(), nil
		case KindNumber:
			return l.Number() < r.Number(), nil
		case KindBool:
			return !l.Bool() && r.Bool(), nil
		}
	}
	return false, newRuntimeError(Position{}, "Cannot compare objects for less")
}

// NotEqual, Greater, LessOrEqual, GreaterOrEqual are derived from Equal and
// Less.

func NotEqual(l, r Value, ctx Context) (bool, error) {
	eq, err := Equal(l, r, ctx)
	if err != nil {
		return false, err
	}
	return !eq, nil
}

func Greater(l, r Value, ctx Context) (bool, error) {
	lt, err := Less(l, r, ctx)
	if err != nil {
		return false, err
	}
	eq, err := Equal(l, r, ctx)
	if err != nil {
		return false, err
	}
	return !(lt || eq), nil
}

func LessOrEqual(l, r Value, ctx Context) (bool, error) {
	gt, err := Greater(l, r, ctx)
	if err != nil {
		return false, err
	}
	return !gt, nil
}

func GreaterOrEqual(l, r Value, ctx Context) (bool, error) {
	lt, err := Less(l, r, ctx)
	if err != nil {
		return false, err
	}
	return !lt, nil
}
