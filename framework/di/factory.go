package di

import (
	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/adapter"
	"github.com/km-arc/go-container/framework/adapter/memory"
	"github.com/km-arc/go-container/framework/adapter/native"
	"github.com/km-arc/go-container/framework/container"
	cerrors "github.com/km-arc/go-container/framework/errors"
	"github.com/km-arc/go-container/framework/logging"
	"github.com/km-arc/go-container/framework/metrics"
)

// Configuration keys understood by Factory.Create.
const (
	KeyAdapter = "adapter"
	KeyLogger  = "logger"
	KeyMetrics = "metrics"
)

// Adapter types understood by DefaultAdapterFactory.
const (
	AdapterNative = "native"
	AdapterMemory = "memory"
)

// AdapterFactory builds an adapter from a sub-configuration.
type AdapterFactory interface {
	Create(config map[string]any) (adapter.Adapter, error)
}

// AdapterFactoryFunc adapts a function to AdapterFactory.
type AdapterFactoryFunc func(config map[string]any) (adapter.Adapter, error)

func (f AdapterFactoryFunc) Create(config map[string]any) (adapter.Adapter, error) { return f(config) }

// Factory builds Containers from configuration.
type Factory struct {
	adapters AdapterFactory
}

// NewFactory creates a Factory. adapters resolves adapter sub-configurations;
// it may be nil when every configuration supplies a built adapter.
func NewFactory(adapters AdapterFactory) *Factory {
	return &Factory{adapters: adapters}
}

// Create builds a Container. config must hold an "adapter" entry: an
// adapter.Adapter, or a map handed to the adapter factory. "logger" may hold
// a logging.Logger or a *zap.Logger, "metrics" a *metrics.Collector.
func (f *Factory) Create(config map[string]any) (*Container, error) {
	raw := config[KeyAdapter]
	if raw == nil {
		return nil, cerrors.Factory("the required '%s' configuration option is missing", KeyAdapter)
	}

	a, err := f.adapter(raw)
	if err != nil {
		return nil, err
	}

	var opts []Option

	if raw, ok := config[KeyLogger]; ok && raw != nil {
		switch l := raw.(type) {
		case logging.Logger:
			opts = append(opts, WithLogger(l))
		case *zap.Logger:
			opts = append(opts, WithLogger(logging.NewZap(l)))
		default:
			return nil, cerrors.Factory("the '%s' configuration option must be a logging.Logger; '%s' provided",
				KeyLogger, adapter.Describe(raw))
		}
	}

	if raw, ok := config[KeyMetrics]; ok && raw != nil {
		m, ok := raw.(*metrics.Collector)
		if !ok {
			return nil, cerrors.Factory("the '%s' configuration option must be a *metrics.Collector; '%s' provided",
				KeyMetrics, adapter.Describe(raw))
		}
		opts = append(opts, WithMetrics(m))
	}

	return New(a, opts...), nil
}

func (f *Factory) adapter(raw any) (adapter.Adapter, error) {
	switch v := raw.(type) {
	case adapter.Adapter:
		return v, nil
	case map[string]any:
		if f.adapters == nil {
			return nil, cerrors.Factory("cannot create the '%s' from configuration: no adapter factory is set", KeyAdapter)
		}
		a, err := f.adapters.Create(v)
		if err != nil {
			return nil, cerrors.Wrapf(cerrors.KindFactory, err,
				"failed to create the '%s' from configuration: %s", KeyAdapter, err.Error())
		}
		if a == nil {
			return nil, cerrors.Factory("the '%s' configuration option must be an adapter.Adapter; 'nil' provided", KeyAdapter)
		}
		return a, nil
	default:
		return nil, cerrors.Factory("the '%s' configuration option must be an adapter.Adapter; '%s' provided",
			KeyAdapter, adapter.Describe(raw))
	}
}

// DefaultAdapterFactory creates the framework's adapters. The "type" key
// selects "native" (the default, over a new container.Container using
// classes for factory classes) or "memory".
func DefaultAdapterFactory(classes *adapter.ClassRegistry) AdapterFactory {
	return AdapterFactoryFunc(func(config map[string]any) (adapter.Adapter, error) {
		kind := AdapterNative
		if raw, ok := config["type"]; ok && raw != nil {
			s, ok := raw.(string)
			if !ok {
				return nil, cerrors.Factory("the adapter 'type' must be a string; '%s' provided", adapter.Describe(raw))
			}
			kind = s
		}

		switch kind {
		case AdapterNative, "":
			return native.New(container.New(), classes), nil
		case AdapterMemory:
			return memory.New(), nil
		default:
			return nil, cerrors.Factory("unknown adapter type '%s'", kind)
		}
	})
}
