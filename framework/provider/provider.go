// Package provider registers services with a container adapter.
//
// ConfigServiceProvider drives an adapter from declarative configuration:
//
//	cfg, err := provider.LoadFile("config/container.yaml")
//	if err != nil { ... }
//	err = provider.NewConfigServiceProvider(cfg).RegisterServices(a)
//
// Sections are processed in the order services, factories, aliases, and
// entries in their configured order. Registration stops at the first error;
// entries registered before it stay registered.
package provider

import (
	"fmt"

	"github.com/km-arc/go-container/framework/adapter"
	cerrors "github.com/km-arc/go-container/framework/errors"
	"github.com/km-arc/go-container/framework/metrics"
)

// ServiceProvider registers a collection of services with an adapter.
type ServiceProvider interface {
	// RegisterServices returns a KindServiceProvider or KindNotSupported error
	// on failure.
	RegisterServices(a adapter.Adapter) error
}

// Registration kinds used as metric labels.
const (
	kindService      = "service"
	kindFactory      = "factory"
	kindFactoryClass = "factory_class"
	kindAlias        = "alias"
)

// ConfigServiceProvider registers the services, factories and aliases of a
// Config.
type ConfigServiceProvider struct {
	config  Config
	metrics *metrics.Collector
}

var _ ServiceProvider = (*ConfigServiceProvider)(nil)

// Option configures a ConfigServiceProvider.
type Option func(*ConfigServiceProvider)

// WithMetrics counts registrations by kind and outcome.
func WithMetrics(m *metrics.Collector) Option {
	return func(p *ConfigServiceProvider) { p.metrics = m }
}

// NewConfigServiceProvider captures a copy of cfg; later changes to the
// caller's slices do not affect the provider.
func NewConfigServiceProvider(cfg Config, opts ...Option) *ConfigServiceProvider {
	p := &ConfigServiceProvider{config: cfg.clone()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Config returns a copy of the held configuration.
func (p *ConfigServiceProvider) Config() Config { return p.config.clone() }

// RegisterServices registers every configured entry with a.
func (p *ConfigServiceProvider) RegisterServices(a adapter.Adapter) error {
	if a == nil {
		return cerrors.ServiceProvider("cannot register services with a nil adapter")
	}

	for _, e := range p.config.Services {
		if err := a.SetService(e.Name, e.Value); err != nil {
			p.record(kindService, err)
			return wrapAdapterError(err, "failed to register service '%s': %s", e.Name, err.Error())
		}
		p.record(kindService, nil)
	}

	for _, e := range p.config.Factories {
		if err := p.registerFactory(a, e.Name, e.Value); err != nil {
			return err
		}
	}

	if len(p.config.Aliases) == 0 {
		return nil
	}
	// Adapters without alias support skip the section.
	aa, ok := a.(adapter.AliasAware)
	if !ok {
		return nil
	}
	for _, al := range p.config.Aliases {
		if err := aa.SetAlias(al.Name, al.Service); err != nil {
			p.record(kindAlias, err)
			return wrapAdapterError(err,
				"failed to register alias '%s' for service '%s': %s", al.Name, al.Service, err.Error())
		}
		p.record(kindAlias, nil)
	}
	return nil
}

func (p *ConfigServiceProvider) registerFactory(a adapter.Adapter, name string, value any) error {
	decl, err := declare(name, value)
	if err != nil {
		p.record(kindFactory, err)
		return err
	}

	switch d := decl.(type) {
	case classDecl:
		return p.registerClass(a, name, d)
	case callableDecl:
		return p.registerCallable(a, name, d)
	default:
		panic(fmt.Sprintf("provider: unhandled factory declaration %T", decl))
	}
}

func (p *ConfigServiceProvider) registerClass(a adapter.Adapter, name string, d classDecl) error {
	fca, ok := a.(adapter.FactoryClassAware)
	if !ok {
		err := cerrors.NotSupported(
			"the adapter '%T' does not support factory class registration for service '%s'", a, name)
		p.record(kindFactoryClass, err)
		return err
	}

	if err := fca.SetFactoryClass(name, d.class, d.method); err != nil {
		p.record(kindFactoryClass, err)
		return wrapAdapterError(err,
			"failed to register service '%s' with adapter '%T' using factory class '%s': %s",
			name, a, d.class, err.Error())
	}
	p.record(kindFactoryClass, nil)
	return nil
}

func (p *ConfigServiceProvider) registerCallable(a adapter.Adapter, name string, d callableDecl) error {
	factory, ok := adapter.Invocable(d.payload, d.method)
	if !ok {
		err := cerrors.ServiceProvider("failed to register service '%s': the factory provided is not callable", name)
		p.record(kindFactory, err)
		return err
	}

	if err := a.SetFactory(name, factory); err != nil {
		p.record(kindFactory, err)
		return wrapAdapterError(err,
			"failed to set callable factory for service '%s': %s", name, err.Error())
	}
	p.record(kindFactory, nil)
	return nil
}

// wrapAdapterError turns adapter failures (including not-found) into
// service provider errors. Any other error is returned unchanged.
func wrapAdapterError(err error, format string, args ...any) error {
	switch cerrors.KindOf(err) {
	case cerrors.KindAdapter, cerrors.KindNotFound:
		return cerrors.Wrapf(cerrors.KindServiceProvider, err, format, args...)
	}
	return err
}

func (p *ConfigServiceProvider) record(kind string, err error) {
	switch {
	case err == nil:
		p.metrics.Registration(kind, metrics.OutcomeOK)
	case cerrors.KindOf(err) == cerrors.KindNotSupported:
		p.metrics.Registration(kind, metrics.OutcomeNotSupported)
	default:
		p.metrics.Registration(kind, metrics.OutcomeError)
	}
}
