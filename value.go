package mython

import (
	"fmt"
	"io"
	"strings"
)

// ValueKind tags the variant a Value holds.
type ValueKind int

const (
	KindNone ValueKind = iota
	KindNumber
	KindString
	KindBool
	KindClass
	KindInstance
)

func (k ValueKind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindBool:
		return "Bool"
	case KindClass:
		return "Class"
	case KindInstance:
		return "ClassInstance"
	default:
		return "Unknown"
	}
}

// Value is the runtime object model's tagged variant. Go's garbage collector
// owns the lifetime of anything behind data, which is what lets Value double
// as both an owning and a non-owning handle: copying a Value that holds
// *Instance shares the same instance (the semantics self and field access
// need) without any reference counting. See DESIGN.md for more.
type Value struct {
	kind ValueKind
	data any
}

// None is the empty Handle: Kind()==KindNone, Print writes "None".
func None() Value { return Value{kind: KindNone} }

// NewNumber wraps an int32 (Mython's only numeric type; no floats).
func NewNumber(v int32) Value { return Value{kind: KindNumber, data: v} }

// NewString wraps an immutable byte string.
func NewString(s string) Value { return Value{kind: KindString, data: s} }

// NewBool wraps a boolean.
func NewBool(b bool) Value { return Value{kind: KindBool, data: b} }

// NewClassValue wraps a *Class.
func NewClassValue(c *Class) Value { return Value{kind: KindClass, data: c} }

// NewInstanceValue wraps a *Instance.
func NewInstanceValue(i *Instance) Value { return Value{kind: KindInstance, data: i} }

// Kind reports which variant v holds.
func (v Value) Kind() ValueKind { return v.kind }

// IsNone is the Handle's test-for-emptiness.
func (v Value) IsNone() bool { return v.kind == KindNone }

// Number returns the payload, or 0 if v is not a Number.
func (v Value) Number() int32 {
	n, _ := v.TryNumber()
	return n
}

// Str returns the payload, or "" if v is not a String.
func (v Value) Str() string {
	s, _ := v.TryString()
	return s
}

// Bool returns the payload, or false if v is not a Bool.
func (v Value) Bool() bool {
	b, _ := v.TryBool()
	return b
}

// TryNumber is the Handle's dynamic downcast to Number.
func (v Value) TryNumber() (int32, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.data.(int32), true
}

// TryString is the Handle's dynamic downcast to String.
func (v Value) TryString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.data.(string), true
}

// TryBool is the Handle's dynamic downcast to Bool.
func (v Value) TryBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.data.(bool), true
}

// TryClass is the Handle's dynamic downcast to Class.
func (v Value) TryClass() (*Class, bool) {
	if v.kind != KindClass {
		return nil, false
	}
	return v.data.(*Class), true
}

// TryInstance is the Handle's dynamic downcast to ClassInstance.
func (v Value) TryInstance() (*Instance, bool) {
	if v.kind != KindInstance {
		return nil, false
	}
	return v.data.(*Instance), true
}

// Print is the Handle's indirect print: writes "None" for an empty handle,
// otherwise dispatches to the variant's own rendering.
func (v Value) Print(w io.Writer, ctx Context) error {
	switch v.kind {
	case KindNone:
		_, err := io.WriteString(w, "None")
		return err
	case KindNumber:
		_, err := fmt.Fprintf(w, "%d", v.data.(int32))
		return err
	case KindString:
		_, err := io.WriteString(w, v.data.(string))
		return err
	case KindBool:
		if v.data.(bool) {
			_, err := io.WriteString(w, "True")
			return err
		}
		_, err := io.WriteString(w, "False")
		return err
	case KindClass:
		cls := v.data.(*Class)
		_, err := fmt.Fprintf(w, "Class %s", cls.Name)
		return err
	case KindInstance:
		inst := v.data.(*Instance)
		return inst.Print(w, ctx)
	default:
		return nil
	}
}

// stringifyValue renders v the way Stringify (the `str(...)` builtin) does:
// through Print into an in-memory buffer.
func stringifyValue(v Value, ctx Context) (string, error) {
	var sb strings.Builder
	if err := v.Print(&sb, ctx); err != nil {
		return "", err
	}
	return sb.String(), nil
}
