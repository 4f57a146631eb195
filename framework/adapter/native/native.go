// Package native binds the adapter contract to the framework's own IoC
// store (framework/container). It supports every optional capability:
// factory classes, aliases, option builds, listing, removal, decorators and
// resolve callbacks.
package native

import (
	"fmt"

	"github.com/km-arc/go-container/framework/adapter"
	"github.com/km-arc/go-container/framework/container"
	cerrors "github.com/km-arc/go-container/framework/errors"
)

// Adapter implements adapter.FactoryClassAware, adapter.AliasAware and
// adapter.BuildAware over a *container.Container. Factories are bound as
// singletons; Build bypasses the cache.
type Adapter struct {
	*adapter.Bridge
	c       *container.Container
	classes *adapter.ClassRegistry
}

var (
	_ adapter.FactoryClassAware = (*Adapter)(nil)
	_ adapter.AliasAware        = (*Adapter)(nil)
	_ adapter.BuildAware        = (*Adapter)(nil)
	_ adapter.ListAware         = (*Adapter)(nil)
	_ adapter.RemoveAware       = (*Adapter)(nil)
	_ adapter.ExtendAware       = (*Adapter)(nil)
	_ adapter.ResolveAware      = (*Adapter)(nil)
)

// New creates an adapter over c. classes resolves factory class names; a nil
// registry means no class is known.
func New(c *container.Container, classes *adapter.ClassRegistry) *Adapter {
	if classes == nil {
		classes = adapter.NewClassRegistry()
	}
	return &Adapter{
		Bridge:  adapter.NewBridge(store{c}),
		c:       c,
		classes: classes,
	}
}

// Container returns the backing store.
func (a *Adapter) Container() *container.Container { return a.c }

func (a *Adapter) SetService(name string, service any) error {
	if err := a.c.Instance(name, service); err != nil {
		return cerrors.Wrapf(cerrors.KindAdapter, err, "failed to set service '%s': %s", name, err.Error())
	}
	return nil
}

func (a *Adapter) SetFactory(name string, factory adapter.Factory) error {
	if factory == nil {
		return cerrors.Adapter(fmt.Sprintf("nil factory for service '%s'", name), 0, nil)
	}
	return a.singleton(name, factory)
}

// SetFactoryClass registers class as the factory for name. The class must
// already be in the registry; it is constructed and invoked through method
// on every build of name.
func (a *Adapter) SetFactoryClass(name, class, method string) error {
	ctor, ok := a.classes.Lookup(class)
	if !ok {
		return cerrors.Adapter(fmt.Sprintf("the factory class '%s' is not registered", class), 0, nil)
	}
	if method == "" {
		method = adapter.DefaultMethod
	}

	return a.singleton(name, func(l adapter.Locator, name string, options map[string]any) (any, error) {
		f, ok := adapter.Invocable(ctor(), method)
		if !ok {
			return nil, fmt.Errorf("factory class '%s' cannot be invoked through method '%s'", class, method)
		}
		return f(l, name, options)
	})
}

func (a *Adapter) SetAlias(alias, name string) error {
	if err := a.c.Alias(name, alias); err != nil {
		return cerrors.Wrapf(cerrors.KindAdapter, err,
			"failed to set alias '%s' for service '%s': %s", alias, name, err.Error())
	}
	return nil
}

// Build creates a fresh instance of name, passing options to its factory.
func (a *Adapter) Build(name string, options map[string]any) (any, error) {
	s, err := a.c.MakeWith(name, options)
	if err == nil {
		return s, nil
	}
	if _, ok := err.(*container.NotBoundError); ok {
		return nil, cerrors.Wrapf(cerrors.KindNotFound, err,
			"the service '%s' could not be found: %s", name, err.Error())
	}
	return nil, cerrors.Wrapf(cerrors.KindAdapter, err,
		"the service '%s' could not be built: %s", name, err.Error())
}

// Services lists every registered name, aliases included.
func (a *Adapter) Services() []string { return a.c.Bindings() }

// RemoveService forgets name. Given an alias, it forgets the aliased service.
func (a *Adapter) RemoveService(name string) error {
	if name == "" {
		return cerrors.Adapter("service name cannot be empty", 0, nil)
	}
	a.c.Forget(name)
	return nil
}

func (a *Adapter) Extend(name string, d adapter.Decorator) error {
	if d == nil {
		return cerrors.Adapter(fmt.Sprintf("nil decorator for service '%s'", name), 0, nil)
	}
	err := a.c.Extend(name, func(_ *container.Container, instance any) (any, error) {
		return d(a, name, instance)
	})
	if err != nil {
		return cerrors.Wrapf(cerrors.KindAdapter, err, "failed to extend service '%s': %s", name, err.Error())
	}
	return nil
}

// AfterResolving calls fn with the canonical name of every built service.
func (a *Adapter) AfterResolving(fn func(name string, service any)) {
	a.c.AfterResolving(fn)
}

func (a *Adapter) singleton(name string, factory adapter.Factory) error {
	err := a.c.Singleton(name, func(_ *container.Container, params map[string]any) (any, error) {
		return factory(a, name, params)
	})
	if err != nil {
		return cerrors.Wrapf(cerrors.KindAdapter, err, "failed to set factory for service '%s': %s", name, err.Error())
	}
	return nil
}

// store exposes the container as an adapter.Store for the bridge.
type store struct {
	c *container.Container
}

func (s store) Has(name string) (bool, error) { return s.c.Bound(name), nil }
func (s store) Get(name string) (any, error)  { return s.c.Make(name) }
