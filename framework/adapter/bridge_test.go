package adapter_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-container/framework/adapter"
	cerrors "github.com/km-arc/go-container/framework/errors"
)

type missingErr struct{ name string }

func (e missingErr) Error() string  { return e.name + " is missing" }
func (e missingErr) NotFound() bool { return true }
func (e missingErr) ErrorCode() int { return 404 }

type brokenErr struct{ code int }

func (e brokenErr) Error() string  { return "store broken" }
func (e brokenErr) ErrorCode() int { return e.code }

// fakeStore is a plain map whose errors are untyped for the adapter layer.
type fakeStore struct {
	entries map[string]any
	hasErr  error
	getErr  error
}

func (s *fakeStore) Has(name string) (bool, error) {
	if s.hasErr != nil {
		return false, s.hasErr
	}
	_, ok := s.entries[name]
	return ok, nil
}

func (s *fakeStore) Get(name string) (any, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	v, ok := s.entries[name]
	if !ok {
		return nil, missingErr{name: name}
	}
	return v, nil
}

func TestBridge_PassesThroughValues(t *testing.T) {
	obj := &product{}
	b := adapter.NewBridge(&fakeStore{entries: map[string]any{"a": obj}})

	ok, err := b.HasService("a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.HasService("b")
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := b.GetService("a")
	require.NoError(t, err)
	assert.Same(t, obj, got)
}

func TestBridge_NotFoundTranslated(t *testing.T) {
	b := adapter.NewBridge(&fakeStore{entries: map[string]any{}})

	_, err := b.GetService("b")
	require.Error(t, err)
	assert.ErrorIs(t, err, cerrors.ErrNotFound)
	assert.Equal(t, 404, cerrors.CodeOf(err))
	assert.Equal(t, "the service 'b' could not be found: b is missing", err.Error())
	assert.Equal(t, missingErr{name: "b"}, errors.Unwrap(err))
}

func TestBridge_StoreFailureTranslated(t *testing.T) {
	store := &fakeStore{getErr: brokenErr{code: 500}, hasErr: brokenErr{code: 503}}
	b := adapter.NewBridge(store)

	_, err := b.GetService("a")
	assert.ErrorIs(t, err, cerrors.ErrAdapter)
	assert.NotErrorIs(t, err, cerrors.ErrNotFound)
	assert.Equal(t, 500, cerrors.CodeOf(err))
	assert.Contains(t, err.Error(), "was found but could not be returned")

	_, err = b.HasService("a")
	assert.ErrorIs(t, err, cerrors.ErrAdapter)
	assert.Equal(t, 503, cerrors.CodeOf(err))
	assert.Equal(t, "the check for service 'a' failed: store broken", err.Error())
}

func TestBridge_WrappedNotFoundIsAdapterError(t *testing.T) {
	// A factory failing on a missing dependency is not absence of "a".
	store := &fakeStore{getErr: fmt.Errorf("building a: %w", missingErr{name: "dep"})}

	_, err := adapter.NewBridge(store).GetService("a")
	assert.ErrorIs(t, err, cerrors.ErrAdapter)
}

func TestBridge_WithNotFound(t *testing.T) {
	sentinel := errors.New("nope")
	store := &fakeStore{getErr: sentinel}
	b := adapter.NewBridge(store, adapter.WithNotFound(func(err error) bool {
		return errors.Is(err, sentinel)
	}))

	_, err := b.GetService("a")
	assert.ErrorIs(t, err, cerrors.ErrNotFound)
}
