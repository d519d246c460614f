package validator

import (
	"context"
	"slices"
	"sync"
)

// RuleFunc is a synchronous predicate. It must not panic for expected inputs;
// a panic propagates to the caller of Validate.
type RuleFunc func(value any, params Params) bool

// AsyncRuleFunc is a predicate that may block, e.g. on a database lookup.
// A non-nil error is a rule fault and aborts ValidateAsync.
type AsyncRuleFunc func(ctx context.Context, value any, params Params) (bool, error)

// Registry maps rule names to rule functions. Registration overwrites any
// previous function under the same name.
type Registry[F any] struct {
	mu    sync.RWMutex
	rules map[string]F
}

// NewRegistry returns an empty registry.
func NewRegistry[F any]() *Registry[F] {
	return &Registry[F]{rules: make(map[string]F)}
}

// Add registers fn under name. Last write wins.
func (r *Registry[F]) Add(name string, fn F) {
	r.mu.Lock()
	r.rules[name] = fn
	r.mu.Unlock()
}

// Lookup resolves name. A miss is not an error.
func (r *Registry[F]) Lookup(name string) (F, bool) {
	r.mu.RLock()
	fn, ok := r.rules[name]
	r.mu.RUnlock()
	return fn, ok
}

// Names returns the registered rule names in lexical order.
func (r *Registry[F]) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Len returns the number of registered rules.
func (r *Registry[F]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}
