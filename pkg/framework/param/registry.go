package param

// Registry is the parameter table. It is built in bulk at (re)configuration
// time and owned by the audio thread afterwards; indices stay stable until
// the next Reset. Render-time access is a plain slice lookup.
type Registry struct {
	params []*Parameter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends parameters, assigning each its stable index. Only valid at
// configuration time.
func (r *Registry) Add(params ...*Parameter) {
	for _, p := range params {
		p.Index = int32(len(r.params))
		r.params = append(r.params, p)
	}
}

// Get returns the parameter at index, or nil when out of range.
func (r *Registry) Get(index int32) *Parameter {
	if index < 0 || index >= int32(len(r.params)) {
		return nil
	}
	return r.params[index]
}

// Count returns the number of parameters.
func (r *Registry) Count() int32 {
	return int32(len(r.params))
}

// All returns the parameter table in index order.
func (r *Registry) All() []*Parameter {
	return r.params
}

// Reset drops all parameters. Only valid at reconfiguration time.
func (r *Registry) Reset() {
	r.params = nil
}
