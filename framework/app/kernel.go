package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/adapter"
	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/di"
	gohttp "github.com/km-arc/go-container/framework/http"
	"github.com/km-arc/go-container/framework/logging"
	"github.com/km-arc/go-container/framework/metrics"
	"github.com/km-arc/go-container/framework/provider"
	"github.com/km-arc/go-container/framework/providers"
)

// Application is the top-level application. It embeds the facade container
// so user code can call app.Get(), app.Has() and app.RegisterServices()
// directly, like $app in Laravel's bootstrap/app.php.
type Application struct {
	*di.Container

	Config  *config.Config
	Logger  logging.Logger
	Metrics *metrics.Collector

	zap       *zap.Logger
	providers provider.Aggregate
	bootOnce  sync.Once
	bootErr   error
}

// New loads configuration, builds the logger, the metrics collector and the
// container, and queues the framework providers. classes resolves the
// factory classes named in the container configuration file.
func New(classes *adapter.ClassRegistry, envFiles ...string) (*Application, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, err
	}

	zl, err := logging.NewZapLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("app: logger: %w", err)
	}
	logger := logging.NewZap(zl.With(zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env)))

	var m *metrics.Collector
	if cfg.Metrics.Enabled {
		if m, err = metrics.New(cfg.Metrics.Namespace); err != nil {
			return nil, fmt.Errorf("app: metrics: %w", err)
		}
	}

	c, err := di.NewFactory(di.DefaultAdapterFactory(classes)).Create(map[string]any{
		di.KeyAdapter: map[string]any{"type": cfg.Container.Adapter},
		di.KeyLogger:  logger,
		di.KeyMetrics: m,
	})
	if err != nil {
		return nil, err
	}

	a := &Application{
		Container: c,
		Config:    cfg,
		Logger:    logger,
		Metrics:   m,
		zap:       zl,
	}

	// Framework services first, so file-configured factories can use them.
	a.Register(providers.Framework(cfg, logger, m))
	if cfg.Container.File != "" {
		fileCfg, err := provider.LoadFile(cfg.Container.File)
		if err != nil {
			return nil, fmt.Errorf("app: container config: %w", err)
		}
		a.Register(provider.NewConfigServiceProvider(fileCfg, provider.WithMetrics(m)))
	}

	return a, nil
}

// Register queues a ServiceProvider. Providers run in registration order on
// Boot.
func (a *Application) Register(p provider.ServiceProvider) {
	a.providers = append(a.providers, p)
}

// Boot registers the services of every queued provider. Later calls return
// the result of the first.
func (a *Application) Boot() error {
	a.bootOnce.Do(func() {
		a.bootErr = a.RegisterServices(a.providers)
		if a.bootErr == nil {
			a.Logger.Log(logging.InfoLevel, "application booted", map[string]any{
				"providers": len(a.providers),
			})
		}
	})
	return a.bootErr
}

// Handler returns the inspection router. Responses are never cached; in
// debug mode services can also be removed over HTTP.
func (a *Application) Handler() http.Handler {
	r := gohttp.NewRouter(a.Logger)
	r.Middleware(middleware.NoCache)

	var gatherer prometheus.Gatherer
	if a.Metrics != nil {
		gatherer = a.Metrics.Registry()
	}
	var opts []gohttp.InspectOption
	if a.IsDebug() {
		opts = append(opts, gohttp.WithRemoval())
	}
	gohttp.Inspect(r, a.Container, gatherer, opts...)
	return r
}

// Run boots the application (if needed) and serves the inspection router
// until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if err := a.Boot(); err != nil {
		return err
	}
	defer func() { _ = a.zap.Sync() }()

	srv := &http.Server{
		Addr:              a.Config.App.Addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		a.Logger.Log(logging.InfoLevel, "server listening", map[string]any{"addr": srv.Addr})
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.App.ShutdownTimeout)
	defer cancel()
	a.Logger.Log(logging.InfoLevel, "server shutting down", nil)
	return srv.Shutdown(shutdownCtx)
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config.App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config.App.Debug }
func (a *Application) Version() string     { return "0.1.0" }
