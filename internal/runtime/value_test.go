package runtime

import "testing"

func TestTruthy(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{Nil{}, false},
		{Bool(false), false},
		{Bool(true), true},
		{Number(0), true},
		{String(""), true},
	}
	for _, c := range cases {
		if got := Truthy(c.v); got != c.want {
			t.Errorf("Truthy(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestEqual(t *testing.T) {
	if !Equal(Number(1), Number(1)) {
		t.Errorf("Number(1) should equal Number(1)")
	}
	if Equal(Number(1), String("1")) {
		t.Errorf("Number(1) should not equal String(\"1\")")
	}
	if !Equal(Nil{}, Nil{}) {
		t.Errorf("Nil should equal Nil")
	}

	a := &Instance{class: &Class{Name: "C"}, fields: map[string]Value{}}
	b := &Instance{class: &Class{Name: "C"}, fields: map[string]Value{}}
	if Equal(a, b) {
		t.Errorf("distinct instances should not be equal")
	}
	if !Equal(a, a) {
		t.Errorf("an instance should equal itself")
	}
}

func TestTypeOf(t *testing.T) {
	if got := TypeOf(Number(1)); got != "number" {
		t.Errorf("TypeOf(Number) = %q, want number", got)
	}
	if got := TypeOf(nil); got != "nil" {
		t.Errorf("TypeOf(nil) = %q, want nil", got)
	}
}
