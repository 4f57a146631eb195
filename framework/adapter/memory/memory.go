// Package memory provides a map-backed adapter implementing only the base
// adapter contract. It has no factory-class, alias or build support.
package memory

import (
	"fmt"
	"sync"

	"github.com/km-arc/go-container/framework/adapter"
	cerrors "github.com/km-arc/go-container/framework/errors"
)

// Adapter stores services and factories in maps. A factory runs on the
// first lookup of its name and the result is shared afterwards.
type Adapter struct {
	mu        sync.Mutex
	services  map[string]any
	factories map[string]adapter.Factory
}

var _ adapter.Adapter = (*Adapter)(nil)

// New creates an empty adapter.
func New() *Adapter {
	return &Adapter{
		services:  make(map[string]any),
		factories: make(map[string]adapter.Factory),
	}
}

func (a *Adapter) HasService(name string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.services[name]
	if !ok {
		_, ok = a.factories[name]
	}
	return ok, nil
}

func (a *Adapter) GetService(name string) (any, error) {
	a.mu.Lock()
	if s, ok := a.services[name]; ok {
		a.mu.Unlock()
		return s, nil
	}
	f, ok := a.factories[name]
	a.mu.Unlock()
	if !ok {
		return nil, cerrors.NotFound(fmt.Sprintf("service '%s' is not registered", name), 0, nil)
	}

	// Run outside the lock: factories look up their own dependencies.
	s, err := f(a, name, nil)
	if err != nil {
		return nil, cerrors.Wrapf(cerrors.KindAdapter, err,
			"the factory for service '%s' failed: %s", name, err.Error())
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if existing, ok := a.services[name]; ok {
		return existing, nil
	}
	a.services[name] = s
	delete(a.factories, name)
	return s, nil
}

func (a *Adapter) SetService(name string, service any) error {
	if name == "" {
		return cerrors.Adapter("service name cannot be empty", 0, nil)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.factories, name)
	a.services[name] = service
	return nil
}

func (a *Adapter) SetFactory(name string, factory adapter.Factory) error {
	if name == "" {
		return cerrors.Adapter("service name cannot be empty", 0, nil)
	}
	if factory == nil {
		return cerrors.Adapter(fmt.Sprintf("nil factory for service '%s'", name), 0, nil)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.services, name)
	a.factories[name] = factory
	return nil
}
