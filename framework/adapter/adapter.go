// Package adapter defines the container adapter contract.
//
// An adapter bridges the facade container (framework/di) and the
// configuration service provider (framework/provider) to a concrete backing
// store. Every adapter implements Adapter; optional capabilities are separate
// interfaces detected with a type assertion:
//
//	if fca, ok := a.(adapter.FactoryClassAware); ok {
//	    err = fca.SetFactoryClass("mailer", "smtp.Factory", adapter.DefaultMethod)
//	}
//
// Adapters report absence with a KindNotFound error and every other store
// failure with a KindAdapter error (see framework/errors).
package adapter

// Locator is the read half of the contract. Factories receive the adapter
// that invokes them as a Locator.
type Locator interface {
	// HasService reports whether name has an entry. Absence is never an error.
	HasService(name string) (bool, error)

	// GetService returns the entry for name, building it if needed.
	GetService(name string) (any, error)
}

// Adapter is the capability set every adapter implements.
type Adapter interface {
	Locator

	// SetService registers a pre-built value.
	SetService(name string, service any) error

	// SetFactory registers a lazily invoked factory.
	SetFactory(name string, factory Factory) error
}

// FactoryClassAware adapters accept factories declared by class name.
type FactoryClassAware interface {
	Adapter

	// SetFactoryClass registers the class as the factory for name; method is
	// the method invoked on the constructed class value.
	SetFactoryClass(name, class, method string) error
}

// AliasAware adapters accept aliases.
type AliasAware interface {
	Adapter

	// SetAlias makes alias resolve to name.
	SetAlias(alias, name string) error
}

// BuildAware adapters can build a fresh, unshared instance with options.
type BuildAware interface {
	Adapter

	// Build invokes the factory for name with options. The result is not cached.
	Build(name string, options map[string]any) (any, error)
}

// ListAware adapters can enumerate the names HasService reports true for.
type ListAware interface {
	Adapter

	// Services returns the registered names, sorted.
	Services() []string
}

// RemoveAware adapters can drop a registration.
type RemoveAware interface {
	Adapter

	// RemoveService forgets name. Removing an unknown name is not an error.
	RemoveService(name string) error
}

// Decorator wraps a service after its factory built it. The returned value
// replaces the service.
type Decorator func(l Locator, name string, service any) (any, error)

// ExtendAware adapters accept decorators.
type ExtendAware interface {
	Adapter

	// Extend registers d for name. A shared instance already built is
	// decorated immediately.
	Extend(name string, d Decorator) error
}

// ResolveAware adapters report every service their factories build.
type ResolveAware interface {
	Adapter

	// AfterResolving registers fn, called after each build.
	AfterResolving(fn func(name string, service any))
}
