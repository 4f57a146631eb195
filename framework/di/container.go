// Package di is the public face of the container.
//
// A Container composes one adapter and translates its errors into the
// facade's own surface:
//
//	c, err := di.NewFactory(di.DefaultAdapterFactory(classes)).Create(map[string]any{
//	    "adapter": map[string]any{"type": "native"},
//	    "logger":  zapLogger,
//	})
//	err = c.RegisterServices(provider.NewConfigServiceProvider(cfg))
//	mailer, err := di.Resolve[*mail.Mailer](c, "mailer")
package di

import (
	"fmt"
	"reflect"

	"github.com/km-arc/go-container/framework/adapter"
	cerrors "github.com/km-arc/go-container/framework/errors"
	"github.com/km-arc/go-container/framework/logging"
	"github.com/km-arc/go-container/framework/metrics"
	"github.com/km-arc/go-container/framework/provider"
)

// Lookup operations used as metric labels.
const (
	opHas     = "has"
	opGet     = "get"
	opBuild   = "build"
	opList    = "list"
	opRemove  = "remove"
	opExtend  = "extend"
	opResolve = "resolve"
)

// Container delegates to an adapter. It is safe for concurrent use when the
// adapter is.
type Container struct {
	adapter adapter.Adapter
	logger  logging.Logger
	metrics *metrics.Collector
}

// Option configures a Container.
type Option func(*Container)

// WithLogger logs every failed operation.
func WithLogger(l logging.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics counts lookups by operation and outcome.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Container) { c.metrics = m }
}

// New creates a Container over a. When a implements adapter.ResolveAware,
// every service it builds is counted and logged at debug level.
func New(a adapter.Adapter, opts ...Option) *Container {
	c := &Container{adapter: a, logger: logging.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	if ra, ok := a.(adapter.ResolveAware); ok {
		ra.AfterResolving(c.resolved)
	}
	return c
}

// Adapter returns the composed adapter.
func (c *Container) Adapter() adapter.Adapter { return c.adapter }

// ── Lookups ───────────────────────────────────────────────────────────────────

// Has reports whether name can be returned. A true result means Get will not
// fail with a not-found error; it may still fail otherwise.
func (c *Container) Has(name string) (bool, error) {
	ok, err := c.adapter.HasService(name)
	if err != nil {
		c.metrics.Lookup(opHas, metrics.OutcomeError)
		c.fail(opHas, name, err)
		return false, cerrors.Wrap(cerrors.KindContainer, err.Error(), err)
	}
	c.metrics.Lookup(opHas, metrics.OutcomeOK)
	return ok, nil
}

// Get returns the service registered under name.
func (c *Container) Get(name string) (any, error) {
	s, err := c.adapter.GetService(name)
	if err != nil {
		return nil, c.translate(opGet, name, err)
	}
	c.metrics.Lookup(opGet, metrics.OutcomeOK)
	return s, nil
}

// Build creates a fresh, unshared instance of name with options. The adapter
// must implement adapter.BuildAware.
func (c *Container) Build(name string, options map[string]any) (any, error) {
	ba, ok := c.adapter.(adapter.BuildAware)
	if !ok {
		return nil, c.unsupported(opBuild, name, "the adapter '%T' does not support building service '%s'", c.adapter, name)
	}

	s, err := ba.Build(name, options)
	if err != nil {
		return nil, c.translate(opBuild, name, err)
	}
	c.metrics.Lookup(opBuild, metrics.OutcomeOK)
	return s, nil
}

// Services lists the registered names, sorted. The adapter must implement
// adapter.ListAware.
func (c *Container) Services() ([]string, error) {
	la, ok := c.adapter.(adapter.ListAware)
	if !ok {
		return nil, c.unsupported(opList, "", "the adapter '%T' does not support listing services", c.adapter)
	}
	c.metrics.Lookup(opList, metrics.OutcomeOK)
	return la.Services(), nil
}

// translate maps an adapter not-found error onto the facade's not-found
// error and everything else onto a container error.
func (c *Container) translate(op, name string, err error) error {
	c.fail(op, name, err)
	if cerrors.KindOf(err) == cerrors.KindNotFound {
		c.metrics.Lookup(op, metrics.OutcomeNotFound)
		return cerrors.Wrap(cerrors.KindNotFound, err.Error(), err)
	}
	c.metrics.Lookup(op, metrics.OutcomeError)
	return cerrors.Wrap(cerrors.KindContainer, err.Error(), err)
}

// ── Registration ──────────────────────────────────────────────────────────────

// RegisterServices lets p register its services with the adapter.
// Provider failures become container errors naming the provider; any other
// error is returned unchanged.
func (c *Container) RegisterServices(p provider.ServiceProvider) error {
	if p == nil {
		return cerrors.New(cerrors.KindContainer, 0, "cannot register a nil service provider", nil)
	}

	err := p.RegisterServices(c.adapter)
	if err == nil {
		c.logger.Log(logging.DebugLevel, "service provider registered", map[string]any{
			"provider": fmt.Sprintf("%T", p),
		})
		return nil
	}

	c.logger.Log(logging.ErrorLevel, "service provider failed", map[string]any{
		"provider": fmt.Sprintf("%T", p),
		"error":    err,
	})
	if cerrors.KindOf(err) == cerrors.KindServiceProvider || cerrors.KindOf(err) == cerrors.KindNotSupported {
		return cerrors.Wrapf(cerrors.KindContainer, err,
			"failed to register service provider '%T': %s", p, err.Error())
	}
	return err
}

// Remove drops the registration of name. The adapter must implement
// adapter.RemoveAware.
func (c *Container) Remove(name string) error {
	ra, ok := c.adapter.(adapter.RemoveAware)
	if !ok {
		return c.unsupported(opRemove, name, "the adapter '%T' does not support removing service '%s'", c.adapter, name)
	}
	if err := ra.RemoveService(name); err != nil {
		return c.translate(opRemove, name, err)
	}
	c.metrics.Lookup(opRemove, metrics.OutcomeOK)
	c.logger.Log(logging.InfoLevel, "service removed", map[string]any{"service": name})
	return nil
}

// Extend decorates the instances of name. The adapter must implement
// adapter.ExtendAware.
//
//	err := c.Extend("mailer", func(l adapter.Locator, name string, s any) (any, error) {
//	    return mail.WithRetry(s.(*mail.Mailer)), nil
//	})
func (c *Container) Extend(name string, d adapter.Decorator) error {
	ea, ok := c.adapter.(adapter.ExtendAware)
	if !ok {
		return c.unsupported(opExtend, name, "the adapter '%T' does not support extending service '%s'", c.adapter, name)
	}
	if err := ea.Extend(name, d); err != nil {
		return c.translate(opExtend, name, err)
	}
	c.metrics.Lookup(opExtend, metrics.OutcomeOK)
	return nil
}

func (c *Container) resolved(name string, service any) {
	c.metrics.Lookup(opResolve, metrics.OutcomeOK)
	c.logger.Log(logging.DebugLevel, "service resolved", map[string]any{
		"service": name,
		"type":    adapter.Describe(service),
	})
}

// unsupported reports an optional capability the adapter lacks as a
// container error caused by a not-supported error.
func (c *Container) unsupported(op, name, format string, args ...any) error {
	cause := cerrors.NotSupported(format, args...)
	c.metrics.Lookup(op, metrics.OutcomeNotSupported)
	c.fail(op, name, cause)
	return cerrors.Wrap(cerrors.KindContainer, cause.Error(), cause)
}

func (c *Container) fail(op, name string, err error) {
	c.logger.Log(logging.ErrorLevel, "container "+op+" failed", map[string]any{
		"service": name,
		"kind":    cerrors.KindOf(err).String(),
		"code":    cerrors.CodeOf(err),
		"error":   err,
	})
}

// ── Typed resolution ──────────────────────────────────────────────────────────

// Resolve returns the service registered under name as a T.
//
//	cfg, err := di.Resolve[*config.Config](c, "config")
func Resolve[T any](c *Container, name string) (T, error) {
	var zero T
	s, err := c.Get(name)
	if err != nil {
		return zero, err
	}
	v, ok := s.(T)
	if !ok {
		return zero, cerrors.New(cerrors.KindContainer, 0,
			fmt.Sprintf("service '%s' is of type %s, not %s", name, adapter.Describe(s), reflect.TypeOf((*T)(nil)).Elem()), nil)
	}
	return v, nil
}
