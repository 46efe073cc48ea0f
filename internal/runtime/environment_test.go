package runtime

import "testing"

func TestDefineGet(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("x", Number(1), true)
	v, ok := env.Get("x")
	if !ok || v != Number(1) {
		t.Fatalf("Get(x) = %v, %v; want Number(1), true", v, ok)
	}
}

func TestGetWalksEnclosing(t *testing.T) {
	parent := NewEnvironment(nil)
	parent.Define("x", Number(1), true)
	child := NewEnvironment(parent)
	v, ok := child.Get("x")
	if !ok || v != Number(1) {
		t.Fatalf("Get(x) via enclosing = %v, %v; want Number(1), true", v, ok)
	}
}

func TestAssignImmutableFails(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("x", Number(1), false)
	found, mutable := env.Assign("x", Number(2))
	if !found {
		t.Fatalf("expected binding to be found")
	}
	if mutable {
		t.Fatalf("expected Assign to report immutable")
	}
	v, _ := env.Get("x")
	if v != Number(1) {
		t.Errorf("value changed despite immutability: %v", v)
	}
}

func TestAssignMutableSucceeds(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("x", Number(1), true)
	found, mutable := env.Assign("x", Number(2))
	if !found || !mutable {
		t.Fatalf("Assign(x) = %v, %v; want true, true", found, mutable)
	}
	v, _ := env.Get("x")
	if v != Number(2) {
		t.Errorf("Get(x) = %v, want Number(2)", v)
	}
}

func TestAssignUndefinedFails(t *testing.T) {
	env := NewEnvironment(nil)
	found, _ := env.Assign("missing", Number(1))
	if found {
		t.Errorf("expected Assign to report not found for an undefined variable")
	}
}

func TestGetAtAndAssignAt(t *testing.T) {
	globals := NewEnvironment(nil)
	globals.Define("x", Number(1), true)
	inner := NewEnvironment(NewEnvironment(globals))

	v, ok := inner.GetAt(2, "x")
	if !ok || v != Number(1) {
		t.Fatalf("GetAt(2, x) = %v, %v; want Number(1), true", v, ok)
	}

	found, mutable := inner.AssignAt(2, "x", Number(5))
	if !found || !mutable {
		t.Fatalf("AssignAt(2, x) = %v, %v; want true, true", found, mutable)
	}
	v, _ = globals.Get("x")
	if v != Number(5) {
		t.Errorf("globals.Get(x) after AssignAt = %v, want Number(5)", v)
	}
}
