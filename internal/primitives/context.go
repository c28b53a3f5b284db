package primitives

// Param is one dynamic segment value captured or supplied for a state.
// Raw is the serialized URL form; Value is what enter/exit hooks see (the raw
// string, a resolved model, or the caller-supplied context object).
type Param struct {
	State string `json:"state" yaml:"state"`
	Name  string `json:"name" yaml:"name"`
	Value any    `json:"value,omitempty" yaml:"value,omitempty"`
	Raw   string `json:"raw" yaml:"raw"`
}

// Context is the ordered sequence of dynamic segment values along the path
// from the root to a state, outermost first.
//
// Context values are never mutated in place; With and Owned return new slices.
type Context []Param

// Get returns the first value bound to name.
func (c Context) Get(name string) (any, bool) {
	for _, p := range c {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// Lookup returns the param bound to name on the given state path.
func (c Context) Lookup(state, name string) (Param, bool) {
	for _, p := range c {
		if p.State == state && p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Owned returns the params declared by the given state path.
func (c Context) Owned(state string) Context {
	var out Context
	for _, p := range c {
		if p.State == state {
			out = append(out, p)
		}
	}
	return out
}

// With returns a copy of c with params appended.
func (c Context) With(params ...Param) Context {
	out := make(Context, 0, len(c)+len(params))
	out = append(out, c...)
	return append(out, params...)
}

// Values returns the bound values in order.
func (c Context) Values() []any {
	out := make([]any, len(c))
	for i, p := range c {
		out[i] = p.Value
	}
	return out
}

// Snapshot returns name -> raw for serialization and display.
// Later params shadow earlier ones with the same name.
func (c Context) Snapshot() map[string]string {
	snap := make(map[string]string, len(c))
	for _, p := range c {
		snap[p.Name] = p.Raw
	}
	return snap
}

// ParamSerializer is implemented by context objects that know how to render
// themselves into a dynamic segment. ok=false means the object has no value
// for the named segment.
type ParamSerializer interface {
	SerializeParam(name string) (raw string, ok bool)
}
