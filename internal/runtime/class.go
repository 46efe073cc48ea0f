package runtime

import "fmt"

// Class is a single-inheritance class value. Method lookup walks the
// superclass chain.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

func (c *Class) Render() string   { return c.Name }
func (c *Class) typeName() string { return "class" }

// FindMethod looks up name on c or any ancestor.
func (c *Class) FindMethod(name string) (*Function, bool) {
	for cls := c; cls != nil; cls = cls.Superclass {
		if m, ok := cls.Methods[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// Arity is the arity of `init`, or 0 for a class with no initializer.
func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// Call instantiates c, running `init` (if any) bound to the fresh instance.
func (c *Class) Call(in *Interpreter, args []Value) (Value, error) {
	instance := &Instance{class: c, fields: make(map[string]Value, 4)}
	if init, ok := c.FindMethod("init"); ok {
		if _, err := init.bind(instance).Call(in, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// Instance is a single object produced by calling a Class.
type Instance struct {
	class  *Class
	fields map[string]Value
}

func (i *Instance) Render() string   { return fmt.Sprintf("<%s instance>", i.class.Name) }
func (i *Instance) typeName() string { return "instance" }

// Get reads a field, falling back to a bound method. Fields shadow methods.
func (i *Instance) Get(name string) (Value, bool) {
	if v, ok := i.fields[name]; ok {
		return v, true
	}
	if m, ok := i.class.FindMethod(name); ok {
		return m.bind(i), true
	}
	return nil, false
}

// Set assigns a field, creating it if absent. Fields are always mutable,
// unlike `var` bindings.
func (i *Instance) Set(name string, value Value) {
	i.fields[name] = value
}
