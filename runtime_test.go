package mython

import (
	"bytes"
	"testing"
)

func TestIsTrue(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"none", None(), false},
		{"empty string", NewString(""), false},
		{"non-empty string", NewString("a"), true},
		{"zero number", NewNumber(0), false},
		{"nonzero number", NewNumber(-1), true},
		{"false bool", NewBool(false), false},
		{"true bool", NewBool(true), true},
		{"class", NewClassValue(NewClass("C", nil, nil)), false},
		{"instance", NewInstanceValue(newInstance(NewClass("C", nil, nil))), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IsTrue(c.v); got != c.want {
				t.Fatalf("IsTrue(%v) = %v, want %v", c.v, got, c.want)
			}
		})
	}
}

func TestEqualPrimitives(t *testing.T) {
	ctx := NewContext(&bytes.Buffer{})
	cases := []struct {
		name    string
		l, r    Value
		want    bool
		wantErr bool
	}{
		{"none == none", None(), None(), true, false},
		{"same numbers", NewNumber(5), NewNumber(5), true, false},
		{"different numbers", NewNumber(5), NewNumber(6), false, false},
		{"same strings", NewString("a"), NewString("a"), true, false},
		{"same bools", NewBool(true), NewBool(true), true, false},
		{"number vs string", NewNumber(1), NewString("1"), false, true},
		{"number vs none", NewNumber(0), None(), false, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Equal(c.l, c.r, ctx)
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected error, got result %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != c.want {
				t.Fatalf("Equal(%v, %v) = %v, want %v", c.l, c.r, got, c.want)
			}
		})
	}
}

func TestEqualDispatchesToDunderEq(t *testing.T) {
	ctx := NewContext(&bytes.Buffer{})
	eqMethod := &Method{
		Name:   "__eq__",
		Params: []string{"other"},
		Body: &MethodBody{Body: &Return{Expr: &Comparison{
			Op:  CmpEq,
			Lhs: &FieldAccess{Obj: &VariableValue{Ids: []string{"self"}}, Field: "n"},
			Rhs: &FieldAccess{Obj: &VariableValue{Ids: []string{"other"}}, Field: "n"},
		}}},
	}
	cls := NewClass("Box", []*Method{eqMethod}, nil)
	a := newInstance(cls)
	a.Fields.Set("n", NewNumber(1))
	b := newInstance(cls)
	b.Fields.Set("n", NewNumber(1))
	c := newInstance(cls)
	c.Fields.Set("n", NewNumber(2))

	got, err := Equal(NewInstanceValue(a), NewInstanceValue(b), ctx)
	if err != nil || !got {
		t.Fatalf("expected equal boxes, got %v, err %v", got, err)
	}
	got, err = Equal(NewInstanceValue(a), NewInstanceValue(c), ctx)
	if err != nil || got {
		t.Fatalf("expected unequal boxes, got %v, err %v", got, err)
	}
}

func TestLessAndDerivedComparisons(t *testing.T) {
	ctx := NewContext(&bytes.Buffer{})
	one, two := NewNumber(1), NewNumber(2)

	if lt, err := Less(one, two, ctx); err != nil || !lt {
		t.Fatalf("Less(1, 2) = %v, %v", lt, err)
	}
	if gt, err := Greater(two, one, ctx); err != nil || !gt {
		t.Fatalf("Greater(2, 1) = %v, %v", gt, err)
	}
	if le, err := LessOrEqual(one, one, ctx); err != nil || !le {
		t.Fatalf("LessOrEqual(1, 1) = %v, %v", le, err)
	}
	if ge, err := GreaterOrEqual(one, one, ctx); err != nil || !ge {
		t.Fatalf("GreaterOrEqual(1, 1) = %v, %v", ge, err)
	}
	if ne, err := NotEqual(one, two, ctx); err != nil || !ne {
		t.Fatalf("NotEqual(1, 2) = %v, %v", ne, err)
	}
}

func TestFieldAssignmentIsVisibleThroughSharedHandle(t *testing.T) {
	ctx := NewContext(&bytes.Buffer{})
	closure := NewClosure()
	cls := NewClass("Box", nil, nil)
	inst := newInstance(cls)
	closure.Set("a", NewInstanceValue(inst))
	closure.Set("b", NewInstanceValue(inst)) // same *Instance, two closure slots

	assign := &FieldAssignment{Obj: &VariableValue{Ids: []string{"a"}}, Field: "n", Rhs: &Literal{Val: NewNumber(7)}}
	if _, err := assign.Execute(closure, ctx); err != nil {
		t.Fatalf("FieldAssignment.Execute: %v", err)
	}

	read := &VariableValue{Ids: []string{"b", "n"}}
	v, err := read.Execute(closure, ctx)
	if err != nil {
		t.Fatalf("VariableValue.Execute: %v", err)
	}
	if n, ok := v.TryNumber(); !ok || n != 7 {
		t.Fatalf("expected shared instance to see the assignment, got %v", v)
	}
}
