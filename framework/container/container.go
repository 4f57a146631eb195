package container

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ── Binding types ─────────────────────────────────────────────────────────────

// Factory builds a concrete value from the container. params is nil for
// plain Make calls and carries the caller's parameters for MakeWith.
type Factory func(c *Container, params map[string]any) (any, error)

// Extender decorates a built instance. The returned value replaces it.
type Extender func(c *Container, instance any) (any, error)

// binding holds a registered factory and whether it is a singleton.
type binding struct {
	factory   Factory
	singleton bool
}

// ErrEmptyAbstract is returned when registering under an empty name.
var ErrEmptyAbstract = errors.New("container: abstract name cannot be empty")

// NotBoundError is returned by Make when nothing is registered for an abstract.
type NotBoundError struct {
	Abstract string
}

func (e *NotBoundError) Error() string {
	return fmt.Sprintf("container: no binding registered for [%s]", e.Abstract)
}

// NotFound marks the error as an absence signal for adapters.
func (e *NotBoundError) NotFound() bool { return true }

// ResolutionError is returned by Make when a factory fails.
type ResolutionError struct {
	Abstract string
	Err      error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("container: resolving [%s]: %v", e.Abstract, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// AliasError is returned by Alias when the alias would resolve to itself.
type AliasError struct {
	Alias    string
	Abstract string
}

func (e *AliasError) Error() string {
	return fmt.Sprintf("container: [%s] is aliased to itself", e.Alias)
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the IoC store — mirrors Laravel's Illuminate\Container\Container.
//
// It supports:
//   - Bind / Singleton / Instance / Alias
//   - Make / MakeWith / Resolve (generic)
//   - Extend (decorate resolved instances)
//   - AfterResolving callbacks
//   - Forget / Flush / Bindings
type Container struct {
	mu sync.RWMutex

	// abstract → binding
	bindings map[string]*binding

	// abstract → resolved singleton instance
	instances map[string]any

	// alias → abstract (canonical key)
	aliases map[string]string

	// abstract → extenders, applied in registration order
	extenders map[string][]Extender

	// fired after every factory build
	afterResolving []func(abstract string, instance any)
}

// New creates an empty container.
func New() *Container {
	return &Container{
		bindings:  make(map[string]*binding),
		instances: make(map[string]any),
		aliases:   make(map[string]string),
		extenders: make(map[string][]Extender),
	}
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers a transient (new instance each Make) factory.
//
//	// Laravel: $app->bind(UserRepository::class, fn($app) => new EloquentUserRepository($app))
//	c.Bind("UserRepository", func(c *container.Container, _ map[string]any) (any, error) {
//	    db, err := container.Resolve[*sql.DB](c, "db")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return &EloquentUserRepository{DB: db}, nil
//	})
func (c *Container) Bind(abstract string, factory Factory) error {
	return c.bind(abstract, factory, false)
}

// Singleton registers a factory whose result is cached after first resolution.
//
//	// Laravel: $app->singleton(Cache::class, fn($app) => new RedisCache($app))
func (c *Container) Singleton(abstract string, factory Factory) error {
	return c.bind(abstract, factory, true)
}

// Instance registers a pre-built value as a singleton.
//
//	// Laravel: $app->instance(Config::class, $config)
//	c.Instance("config", myConfig)
func (c *Container) Instance(abstract string, instance any) error {
	if abstract == "" {
		return ErrEmptyAbstract
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	delete(c.bindings, key)
	c.instances[key] = instance
	return nil
}

func (c *Container) bind(abstract string, factory Factory, singleton bool) error {
	if abstract == "" {
		return ErrEmptyAbstract
	}
	if factory == nil {
		return fmt.Errorf("container: nil factory for [%s]", abstract)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)

	// Drop any cached instance so it's rebuilt with the new factory
	delete(c.instances, key)
	c.bindings[key] = &binding{factory: factory, singleton: singleton}
	return nil
}

// Alias registers an alternative name for an abstract.
//
//	// Laravel: $app->alias(Cache::class, 'cache')
//	c.Alias("cache", "cacheManager")
func (c *Container) Alias(abstract, alias string) error {
	if abstract == "" || alias == "" {
		return ErrEmptyAbstract
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	target := c.canonical(abstract)
	if target == alias {
		return &AliasError{Alias: alias, Abstract: abstract}
	}
	c.aliases[alias] = target
	return nil
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Make resolves an abstract from the container.
//
//	// Laravel: $app->make(UserRepository::class)
//	repo, err := c.Make("UserRepository")
func (c *Container) Make(abstract string) (any, error) {
	c.mu.RLock()
	key := c.canonical(abstract)
	if inst, ok := c.instances[key]; ok {
		c.mu.RUnlock()
		return inst, nil
	}
	b, ok := c.bindings[key]
	c.mu.RUnlock()

	if !ok {
		return nil, &NotBoundError{Abstract: abstract}
	}

	instance, err := c.build(key, b, nil)
	if err != nil {
		return nil, &ResolutionError{Abstract: abstract, Err: err}
	}

	if b.singleton {
		c.mu.Lock()
		// Another caller may have won the race; keep the first instance.
		if existing, ok := c.instances[key]; ok {
			instance = existing
		} else {
			c.instances[key] = instance
		}
		c.mu.Unlock()
	}
	c.fireAfterResolving(key, instance)
	return instance, nil
}

// MakeWith builds a fresh instance passing params to the factory. The
// singleton cache is neither read nor written.
//
//	// Laravel: $app->makeWith(Report::class, ['month' => 3])
//	report, err := c.MakeWith("report", map[string]any{"month": 3})
func (c *Container) MakeWith(abstract string, params map[string]any) (any, error) {
	c.mu.RLock()
	key := c.canonical(abstract)
	b, hasBinding := c.bindings[key]
	inst, hasInstance := c.instances[key]
	c.mu.RUnlock()

	if !hasBinding {
		if hasInstance {
			return inst, nil
		}
		return nil, &NotBoundError{Abstract: abstract}
	}

	instance, err := c.build(key, b, params)
	if err != nil {
		return nil, &ResolutionError{Abstract: abstract, Err: err}
	}
	c.fireAfterResolving(key, instance)
	return instance, nil
}

// build runs the factory and the extenders registered for key.
func (c *Container) build(key string, b *binding, params map[string]any) (any, error) {
	instance, err := b.factory(c, params)
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	exts := c.extenders[key]
	c.mu.RUnlock()
	for _, ext := range exts {
		if instance, err = ext(c, instance); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// ── Extend ────────────────────────────────────────────────────────────────────

// Extend decorates the instances of an abstract. An already cached instance
// is decorated immediately; later builds are decorated as they happen. If
// decorating the cached instance fails, the extender is not registered.
//
//	// Laravel: $app->extend(Logger::class, fn($logger, $app) => new TimestampLogger($logger))
//	c.Extend("logger", func(c *container.Container, instance any) (any, error) {
//	    return NewTimestampLogger(instance.(Logger)), nil
//	})
func (c *Container) Extend(abstract string, fn Extender) error {
	if abstract == "" {
		return ErrEmptyAbstract
	}
	if fn == nil {
		return fmt.Errorf("container: nil extender for [%s]", abstract)
	}

	c.mu.RLock()
	key := c.canonical(abstract)
	inst, cached := c.instances[key]
	c.mu.RUnlock()

	// Run outside the lock: extenders may resolve other abstracts.
	if cached {
		extended, err := fn(c, inst)
		if err != nil {
			return &ResolutionError{Abstract: abstract, Err: err}
		}
		inst = extended
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.extenders[key] = append(c.extenders[key], fn)
	if cached {
		c.instances[key] = inst
	}
	return nil
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// AfterResolving registers a callback fired after a factory builds an
// instance, with the canonical abstract. Cached instances do not fire it.
//
//	// Laravel: $app->afterResolving(fn($object, $app) => ...)
func (c *Container) AfterResolving(cb func(abstract string, instance any)) {
	if cb == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

func (c *Container) fireAfterResolving(abstract string, instance any) {
	c.mu.RLock()
	cbs := c.afterResolving
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(abstract, instance)
	}
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Bound returns true if an abstract (or an alias of it) has been registered.
//
//	// Laravel: $app->bound(UserRepository::class)
func (c *Container) Bound(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key := c.canonical(abstract)
	_, hasBinding := c.bindings[key]
	_, hasInstance := c.instances[key]
	return hasBinding || hasInstance
}

// Resolved returns true if the abstract holds a cached instance.
//
//	// Laravel: $app->resolved(Cache::class)
func (c *Container) Resolved(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.instances[c.canonical(abstract)]
	return ok
}

// Forget removes the binding, cached instance and extenders of an abstract.
// Called with an alias it forgets the target; the alias itself stays.
//
//	// Laravel: $app->forgetInstance(Cache::class)
func (c *Container) Forget(abstract string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	delete(c.bindings, key)
	delete(c.instances, key)
	delete(c.extenders, key)
}

// Flush resets the entire container. Resolving callbacks are kept.
func (c *Container) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings = make(map[string]*binding)
	c.instances = make(map[string]any)
	c.aliases = make(map[string]string)
	c.extenders = make(map[string][]Extender)
}

// Bindings returns the sorted names Bound reports true for: every registered
// abstract and every alias of one.
func (c *Container) Bindings() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.bindings)+len(c.instances)+len(c.aliases))
	for k := range c.bindings {
		out = append(out, k)
	}
	for k := range c.instances {
		if _, already := c.bindings[k]; !already {
			out = append(out, k)
		}
	}
	for alias, target := range c.aliases {
		_, hasBinding := c.bindings[target]
		_, hasInstance := c.instances[target]
		_, shadowed := c.bindings[alias]
		if (hasBinding || hasInstance) && !shadowed {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}

// canonical resolves an alias to its canonical key (caller holds mu).
func (c *Container) canonical(abstract string) string {
	if target, ok := c.aliases[abstract]; ok {
		return target
	}
	return abstract
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve calls Make and type-asserts the result.
//
//	// Instead of: raw, err := c.Make("db"); db := raw.(*sql.DB)
//	// Write:      db, err := container.Resolve[*sql.DB](c, "db")
func Resolve[T any](c *Container, abstract string) (T, error) {
	var zero T
	instance, err := c.Make(abstract)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("container: Resolve[%T]: [%s] resolved to %T", zero, abstract, instance)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on failure. Meant for bootstrap code.
func MustResolve[T any](c *Container, abstract string) T {
	typed, err := Resolve[T](c, abstract)
	if err != nil {
		panic(err)
	}
	return typed
}
