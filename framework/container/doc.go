// Package container provides a Laravel-style IoC store for Go.
//
// # Overview
//
// The store holds named entries: transient bindings, singletons, pre-built
// instances and aliases. It mirrors the registration API of Laravel's
// Illuminate\Container\Container but reports failures as errors instead of
// panicking, so it can sit behind an adapter (see framework/adapter/native).
//
// # Bindings
//
//	// Transient — new instance every Make()
//	// Laravel: $app->bind(Foo::class, fn($app) => new Foo)
//	c.Bind("Foo", func(c *container.Container, _ map[string]any) (any, error) {
//	    return &Foo{}, nil
//	})
//
//	// Singleton — created once, reused
//	c.Singleton("cache", func(c *container.Container, _ map[string]any) (any, error) {
//	    cfg, err := container.Resolve[*Config](c, "config")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return cache.NewRedis(cfg), nil
//	})
//
//	// Pre-built value
//	c.Instance("config", myConfig)
//
//	// Alias
//	c.Alias("cache", "cacheManager")
//
// # Resolving
//
//	raw, err := c.Make("cache")
//	cache, err := container.Resolve[*RedisCache](c, "cache")
//
//	// Fresh build with parameters, bypassing the singleton cache
//	report, err := c.MakeWith("report", map[string]any{"month": 3})
//
// # Errors
//
// Make returns *NotBoundError when nothing is registered (its NotFound method
// reports true) and *ResolutionError when the factory fails.
package container
