package mython

import (
	"fmt"
	"io"
)

// Method is a name, its formal parameter list, and a body statement tree
// (always a *MethodBody, which is what catches the non-local-return signal).
type Method struct {
	Name   string
	Params []string
	Body   *MethodBody
}

// Class is constructed once, by the parser when it reads a class
// definition; executing that ClassDefinition statement binds it by name in
// the closure, and it lives for the remainder of the run. Parent is a non-owning borrow: the parser's symbol
// table and the defining closure are what keep it alive for as long as any
// child class is reachable.
type Class struct {
	Name    string
	Methods map[string]*Method
	Parent  *Class
}

// NewClass builds a Class from its name, method list, and optional parent.
func NewClass(name string, methods []*Method, parent *Class) *Class {
	c := &Class{Name: name, Methods: make(map[string]*Method, len(methods)), Parent: parent}
	for _, m := range methods {
		c.Methods[m.Name] = m
	}
	return c
}

// GetMethod walks the parent chain and returns the first method named name,
// or nil. No cycle guard.
func (c *Class) GetMethod(name string) *Method {
	for cls := c; cls != nil; cls = cls.Parent {
		if m, ok := cls.Methods[name]; ok {
			return m
		}
	}
	return nil
}

// Print writes "Class <name>".
func (c *Class) Print(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Class %s", c.Name)
	return err
}

// Instance holds a non-owning reference to its Class and an owning Closure
// of its fields.
type Instance struct {
	Class  *Class
	Fields Closure
}

// newInstance constructs a ClassInstance owning a fresh, empty field closure.
func newInstance(cls *Class) *Instance {
	return &Instance{Class: cls, Fields: NewClosure()}
}

// HasMethod reports whether the resolved method exists with exactly
// argCount formal parameters.
func (inst *Instance) HasMethod(name string, argCount int) bool {
	m := inst.Class.GetMethod(name)
	return m != nil && len(m.Params) == argCount
}

// Call validates existence and arity, seeds a fresh Closure with
// self→share(this) and formal[i]→args[i], executes the method body, and
// returns its return value.
func (inst *Instance) Call(name string, args []Value, ctx Context) (Value, error) {
	m := inst.Class.GetMethod(name)
	if m == nil || len(m.Params) != len(args) {
		return None(), fmt.Errorf("the name of the method or the number of params is invalid")
	}
	closure := NewClosure()
	closure.Set("self", NewInstanceValue(inst))
	for i, p := range m.Params {
		closure.Set(p, args[i])
	}
	return m.Body.Execute(closure, ctx)
}

// Print calls __str__ with arity 0 and prints its result when present,
// otherwise prints a stable identity string. The exact non-__str__ format
// is deliberately unspecified and must not be asserted on.
func (inst *Instance) Print(w io.Writer, ctx Context) error {
	if inst.HasMethod("__str__", 0) {
		v, err := inst.Call("__str__", nil, ctx)
		if err != nil {
			return err
		}
		return v.Print(w, ctx)
	}
	_, err := fmt.Fprintf(w, "%p", inst)
	return err
}
