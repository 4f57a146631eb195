package adapter

import (
	"sort"
	"sync"
)

// Constructor creates a fresh value of a registered factory class.
type Constructor func() any

// ClassRegistry maps factory class names to constructors. Go has no runtime
// class loading, so adapters supporting FactoryClassAware resolve class
// names through a registry populated at bootstrap:
//
//	classes := adapter.NewClassRegistry()
//	classes.Register("mail.SMTPFactory", func() any { return &SMTPFactory{} })
type ClassRegistry struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

// NewClassRegistry creates an empty registry.
func NewClassRegistry() *ClassRegistry {
	return &ClassRegistry{ctors: make(map[string]Constructor)}
}

// Register adds or replaces the constructor for class.
func (r *ClassRegistry) Register(class string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[class] = ctor
}

// Lookup returns the constructor for class.
func (r *ClassRegistry) Lookup(class string) (Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctor, ok := r.ctors[class]
	return ctor, ok && ctor != nil
}

// Has reports whether class is registered.
func (r *ClassRegistry) Has(class string) bool {
	_, ok := r.Lookup(class)
	return ok
}

// Classes returns the registered class names, sorted.
func (r *ClassRegistry) Classes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
