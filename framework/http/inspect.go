package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/km-arc/go-container/framework/adapter"
	"github.com/km-arc/go-container/framework/di"
	cerrors "github.com/km-arc/go-container/framework/errors"
)

// InspectOption configures Inspect.
type InspectOption func(*inspectOptions)

type inspectOptions struct {
	removal bool
}

// WithRemoval mounts DELETE /services/{name}.
func WithRemoval() InspectOption {
	return func(o *inspectOptions) { o.removal = true }
}

// Inspect mounts the container endpoints on r:
//
//	GET    /healthz                    → 200 {"data": {"status": "ok"}}
//	GET    /services                   → 200 with the sorted service names, 501 when the adapter cannot list
//	GET    /services/{name}            → 200 when registered, 404 otherwise
//	GET    /services/{name}?resolve=1  → also resolves the service and reports its type
//	DELETE /services/{name}            → removes the service (WithRemoval only)
//	GET    /metrics                    → Prometheus exposition (when gatherer is non-nil)
func Inspect(r *Router, c *di.Container, gatherer prometheus.Gatherer, opts ...InspectOption) {
	var o inspectOptions
	for _, opt := range opts {
		opt(&o)
	}

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		NewResponse(w).Success(map[string]any{"status": "ok"})
	})

	r.Prefix("/services", func(s *Router) {
		s.Get("/", listHandler(c))
		s.Get("/{name}", serviceHandler(c))
		if o.removal {
			s.Delete("/{name}", removeHandler(c))
		}
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
}

func listHandler(c *di.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		res := NewResponse(w)
		names, err := c.Services()
		if err != nil {
			res.Failure(statusOf(err), err)
			return
		}
		res.Success(map[string]any{"services": names, "count": len(names)})
	}
}

func serviceHandler(c *di.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		res := NewResponse(w)
		name := Param(req, "name")

		resolve := false
		if raw := req.URL.Query().Get("resolve"); raw != "" {
			b, err := strconv.ParseBool(raw)
			if err != nil {
				res.Error(http.StatusBadRequest, fmt.Sprintf("invalid resolve value '%s'", raw))
				return
			}
			resolve = b
		}

		ok, err := c.Has(name)
		if err != nil {
			res.Failure(http.StatusInternalServerError, err)
			return
		}
		if !ok {
			res.NotFound(fmt.Sprintf("service '%s' is not registered", name))
			return
		}

		data := map[string]any{"name": name, "registered": true}
		if !resolve {
			res.Success(data)
			return
		}

		s, err := c.Get(name)
		if err != nil {
			res.Failure(statusOf(err), err)
			return
		}
		data["type"] = adapter.Describe(s)
		res.Success(data)
	}
}

func removeHandler(c *di.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		res := NewResponse(w)
		name := Param(req, "name")

		ok, err := c.Has(name)
		if err != nil {
			res.Failure(http.StatusInternalServerError, err)
			return
		}
		if !ok {
			res.NotFound(fmt.Sprintf("service '%s' is not registered", name))
			return
		}

		if err := c.Remove(name); err != nil {
			res.Failure(statusOf(err), err)
			return
		}
		res.Success(map[string]any{"name": name, "removed": true})
	}
}

// statusOf maps a facade error onto a response status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, cerrors.ErrNotSupported):
		return http.StatusNotImplemented
	case errors.Is(err, cerrors.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func describeError(err error) envelope {
	return envelope{
		"message": err.Error(),
		"kind":    cerrors.KindOf(err).String(),
		"code":    cerrors.CodeOf(err),
	}
}
