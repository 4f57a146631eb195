package adapter

import (
	cerrors "github.com/km-arc/go-container/framework/errors"
)

// Store is a generic backing store whose failures are not typed as adapter
// errors.
type Store interface {
	Has(name string) (bool, error)
	Get(name string) (any, error)
}

// Bridge implements Locator over a Store, translating store failures:
// absence becomes a KindNotFound error and anything else a KindAdapter
// error. The store error is kept as the cause and its code is preserved.
//
// Concrete adapters embed *Bridge and add the write half of the contract.
type Bridge struct {
	store    Store
	notFound func(error) bool
}

// BridgeOption configures a Bridge.
type BridgeOption func(*Bridge)

// WithNotFound overrides how the store's absence signal is detected.
func WithNotFound(fn func(error) bool) BridgeOption {
	return func(b *Bridge) { b.notFound = fn }
}

// NewBridge wraps store. By default an error reports absence when it
// implements NotFound() bool and returns true. Only the outermost error is
// inspected, so a factory failing on a missing dependency is not mistaken
// for the requested name being absent.
func NewBridge(store Store, opts ...BridgeOption) *Bridge {
	b := &Bridge{store: store, notFound: isNotFound}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func isNotFound(err error) bool {
	nf, ok := err.(interface{ NotFound() bool })
	return ok && nf.NotFound()
}

// HasService delegates to the store.
func (b *Bridge) HasService(name string) (bool, error) {
	ok, err := b.store.Has(name)
	if err != nil {
		return false, cerrors.Wrapf(cerrors.KindAdapter, err,
			"the check for service '%s' failed: %s", name, err.Error())
	}
	return ok, nil
}

// GetService delegates to the store.
func (b *Bridge) GetService(name string) (any, error) {
	service, err := b.store.Get(name)
	if err == nil {
		return service, nil
	}
	if b.notFound(err) {
		return nil, cerrors.Wrapf(cerrors.KindNotFound, err,
			"the service '%s' could not be found: %s", name, err.Error())
	}
	return nil, cerrors.Wrapf(cerrors.KindAdapter, err,
		"the service '%s' was found but could not be returned: %s", name, err.Error())
}
