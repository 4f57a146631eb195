package container_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-container/framework/container"
)

type widget struct{ id int64 }

func counterFactory(n *int64) container.Factory {
	return func(_ *container.Container, _ map[string]any) (any, error) {
		return &widget{id: atomic.AddInt64(n, 1)}, nil
	}
}

// ── Registration ──────────────────────────────────────────────────────────────

func TestContainer_Instance_ReturnsSameValue(t *testing.T) {
	c := container.New()
	w := &widget{id: 7}
	require.NoError(t, c.Instance("w", w))

	got, err := c.Make("w")
	require.NoError(t, err)
	assert.Same(t, w, got)
}

func TestContainer_EmptyAbstract_Rejected(t *testing.T) {
	c := container.New()
	var n int64

	assert.ErrorIs(t, c.Instance("", 1), container.ErrEmptyAbstract)
	assert.ErrorIs(t, c.Bind("", counterFactory(&n)), container.ErrEmptyAbstract)
	assert.ErrorIs(t, c.Alias("", "x"), container.ErrEmptyAbstract)
}

func TestContainer_Bind_NilFactoryRejected(t *testing.T) {
	assert.Error(t, container.New().Bind("x", nil))
}

func TestContainer_Bind_IsTransient(t *testing.T) {
	c := container.New()
	var n int64
	require.NoError(t, c.Bind("w", counterFactory(&n)))

	a, _ := c.Make("w")
	b, _ := c.Make("w")
	assert.NotSame(t, a, b)
	assert.False(t, c.Resolved("w"))
}

func TestContainer_Singleton_IsShared(t *testing.T) {
	c := container.New()
	var n int64
	require.NoError(t, c.Singleton("w", counterFactory(&n)))

	a, _ := c.Make("w")
	b, _ := c.Make("w")
	assert.Same(t, a, b)
	assert.True(t, c.Resolved("w"))
	assert.EqualValues(t, 1, n)
}

func TestContainer_Singleton_ConcurrentMakeSharesInstance(t *testing.T) {
	c := container.New()
	var n int64
	require.NoError(t, c.Singleton("w", counterFactory(&n)))

	results := make([]any, 16)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Make("w")
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestContainer_Rebind_DropsCachedInstance(t *testing.T) {
	c := container.New()
	var n int64
	require.NoError(t, c.Singleton("w", counterFactory(&n)))
	first, _ := c.Make("w")

	require.NoError(t, c.Singleton("w", counterFactory(&n)))
	second, _ := c.Make("w")
	assert.NotSame(t, first, second)
}

// ── Aliases ───────────────────────────────────────────────────────────────────

func TestContainer_Alias_ResolvesTarget(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Instance("config", "cfg"))
	require.NoError(t, c.Alias("config", "configuration"))

	got, err := c.Make("configuration")
	require.NoError(t, err)
	assert.Equal(t, "cfg", got)
	assert.True(t, c.Bound("configuration"))
}

func TestContainer_Alias_ToItselfFails(t *testing.T) {
	err := container.New().Alias("a", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aliased to itself")

	var ae *container.AliasError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "a", ae.Alias)
}

func TestContainer_Alias_BackToTargetFails(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Alias("config", "configuration"))

	var ae *container.AliasError
	require.ErrorAs(t, c.Alias("configuration", "config"), &ae)
	assert.Equal(t, "config", ae.Alias)
	assert.Equal(t, "configuration", ae.Abstract)
}

// ── Failures ──────────────────────────────────────────────────────────────────

func TestContainer_Make_NotBound(t *testing.T) {
	_, err := container.New().Make("missing")

	var nb *container.NotBoundError
	require.ErrorAs(t, err, &nb)
	assert.True(t, nb.NotFound())
	assert.Equal(t, "missing", nb.Abstract)
}

func TestContainer_Make_FactoryErrorWrapped(t *testing.T) {
	c := container.New()
	boom := errors.New("boom")
	require.NoError(t, c.Singleton("x", func(*container.Container, map[string]any) (any, error) {
		return nil, boom
	}))

	_, err := c.Make("x")
	var re *container.ResolutionError
	require.ErrorAs(t, err, &re)
	assert.ErrorIs(t, err, boom)
	assert.False(t, c.Resolved("x"))
}

// ── MakeWith ──────────────────────────────────────────────────────────────────

func TestContainer_MakeWith_PassesParamsAndSkipsCache(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Singleton("greet", func(_ *container.Container, p map[string]any) (any, error) {
		if who, ok := p["who"].(string); ok {
			return "hello " + who, nil
		}
		return "hello", nil
	}))

	got, err := c.MakeWith("greet", map[string]any{"who": "go"})
	require.NoError(t, err)
	assert.Equal(t, "hello go", got)
	assert.False(t, c.Resolved("greet"))

	plain, _ := c.Make("greet")
	assert.Equal(t, "hello", plain)
}

func TestContainer_MakeWith_InstanceOnly(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Instance("n", 3))

	got, err := c.MakeWith("n", map[string]any{"ignored": true})
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	_, err = c.MakeWith("missing", nil)
	var nb *container.NotBoundError
	assert.ErrorAs(t, err, &nb)
}

// ── Extend ────────────────────────────────────────────────────────────────────

func TestContainer_Extend_DecoratesBuilds(t *testing.T) {
	c := container.New()
	var n int64
	require.NoError(t, c.Bind("w", counterFactory(&n)))
	require.NoError(t, c.Extend("w", func(_ *container.Container, inst any) (any, error) {
		w := inst.(*widget)
		w.id *= 10
		return w, nil
	}))

	got, err := c.Make("w")
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.(*widget).id)

	got, err = c.MakeWith("w", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(20), got.(*widget).id)
}

func TestContainer_Extend_ReplacesCachedInstance(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Instance("greeting", "hello"))
	require.NoError(t, c.Alias("greeting", "hi"))

	require.NoError(t, c.Extend("hi", func(_ *container.Container, inst any) (any, error) {
		return inst.(string) + "!", nil
	}))

	got, err := c.Make("greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello!", got)
}

func TestContainer_Extend_ChainsInOrder(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Singleton("s", func(*container.Container, map[string]any) (any, error) {
		return "a", nil
	}))
	for _, suffix := range []string{"b", "c"} {
		suffix := suffix
		require.NoError(t, c.Extend("s", func(_ *container.Container, inst any) (any, error) {
			return inst.(string) + suffix, nil
		}))
	}

	got, err := c.Make("s")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
}

func TestContainer_Extend_Failures(t *testing.T) {
	c := container.New()
	boom := errors.New("boom")
	fail := func(*container.Container, any) (any, error) { return nil, boom }

	assert.ErrorIs(t, c.Extend("", fail), container.ErrEmptyAbstract)
	assert.Error(t, c.Extend("x", nil))

	// Failing on a cached instance leaves it untouched and unregistered.
	require.NoError(t, c.Instance("n", 1))
	var re *container.ResolutionError
	require.ErrorAs(t, c.Extend("n", fail), &re)
	got, err := c.Make("n")
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	// Failing during a build surfaces as a resolution error.
	require.NoError(t, c.Singleton("s", func(*container.Container, map[string]any) (any, error) {
		return "s", nil
	}))
	require.NoError(t, c.Extend("s", fail))
	_, err = c.Make("s")
	require.ErrorAs(t, err, &re)
	assert.ErrorIs(t, err, boom)
	assert.False(t, c.Resolved("s"))
}

// ── AfterResolving ────────────────────────────────────────────────────────────

func TestContainer_AfterResolving_FiresOnBuildsOnly(t *testing.T) {
	c := container.New()
	var n int64
	require.NoError(t, c.Singleton("w", counterFactory(&n)))
	require.NoError(t, c.Alias("w", "widget"))
	require.NoError(t, c.Instance("pre", 1))

	var seen []string
	c.AfterResolving(func(abstract string, _ any) { seen = append(seen, abstract) })
	c.AfterResolving(nil)

	_, err := c.Make("widget")
	require.NoError(t, err)
	_, err = c.Make("w")
	require.NoError(t, err)
	_, err = c.Make("pre")
	require.NoError(t, err)
	_, err = c.MakeWith("w", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"w", "w"}, seen)
}

// ── Forget / Flush / Bindings ─────────────────────────────────────────────────

func TestContainer_Forget(t *testing.T) {
	c := container.New()
	var n int64
	require.NoError(t, c.Singleton("w", counterFactory(&n)))
	require.NoError(t, c.Alias("w", "widget"))
	_, err := c.Make("w")
	require.NoError(t, err)

	c.Forget("widget")

	assert.False(t, c.Bound("w"))
	assert.False(t, c.Resolved("w"))
	_, err = c.Make("w")
	var nb *container.NotBoundError
	assert.ErrorAs(t, err, &nb)

	c.Forget("never-registered")
}

func TestContainer_Flush(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Instance("a", 1))
	require.NoError(t, c.Alias("a", "b"))

	c.Flush()

	assert.Empty(t, c.Bindings())
	assert.False(t, c.Bound("b"))
	require.NoError(t, c.Instance("a", 2))
	got, err := c.Make("a")
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestContainer_Bindings(t *testing.T) {
	c := container.New()
	var n int64
	require.NoError(t, c.Singleton("w", counterFactory(&n)))
	require.NoError(t, c.Instance("config", "cfg"))
	require.NoError(t, c.Alias("config", "configuration"))
	require.NoError(t, c.Alias("missing", "dangling"))
	_, err := c.Make("w")
	require.NoError(t, err)

	assert.Equal(t, []string{"config", "configuration", "w"}, c.Bindings())
	for _, name := range c.Bindings() {
		assert.True(t, c.Bound(name), name)
	}
}

// ── Resolve ───────────────────────────────────────────────────────────────────

func TestResolve_Typed(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Instance("n", 42))

	n, err := container.Resolve[int](c, "n")
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	_, err = container.Resolve[string](c, "n")
	assert.ErrorContains(t, err, "resolved to int")
}

func TestMustResolve_PanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() { container.MustResolve[int](container.New(), "missing") })
}
