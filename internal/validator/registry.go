package validator

// Registry maps rule keys to Validator implementations and remembers
// registration order, which is the order rules run in.
type Registry struct {
	validators map[string]Validator
	order      []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{validators: make(map[string]Validator)}
}

// NewDefaultRegistry returns a registry holding the built-in date rules.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, v := range DateValidators() {
		r.Register(v)
	}
	return r
}

// Register adds a validator to the registry. Re-registering a key replaces
// the validator in place without changing its position.
func (r *Registry) Register(v Validator) {
	if _, exists := r.validators[v.RuleKey()]; !exists {
		r.order = append(r.order, v.RuleKey())
	}
	r.validators[v.RuleKey()] = v
}

// Get returns the validator for a given rule key, or nil if not found.
func (r *Registry) Get(key string) Validator {
	return r.validators[key]
}

// All returns all registered validators in registration order.
func (r *Registry) All() []Validator {
	out := make([]Validator, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.validators[key])
	}
	return out
}
