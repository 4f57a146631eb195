package providers

import (
	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/logging"
	"github.com/km-arc/go-container/framework/metrics"
	"github.com/km-arc/go-container/framework/provider"
)

// Service names bound by Framework.
const (
	Config        = "config"
	Configuration = "configuration"
	Logger        = "logger"
	Log           = "log"
	Metrics       = "metrics"
)

// ── Framework ─────────────────────────────────────────────────────────────────

// Framework returns the provider for the framework's own services.
//
// Bound services:
//   - "config"   → *config.Config
//   - "logger"   → logging.Logger
//   - "metrics"  → *metrics.Collector (only when m is non-nil)
//
// Aliases (adapters with alias support only):
//   - "configuration" → "config"
//   - "log"           → "logger"
//
// Laravel equivalent:
//
//	// Illuminate\Foundation\Bootstrap\LoadConfiguration
//	$app->instance('config', $config = new Repository($items));
func Framework(cfg *config.Config, logger logging.Logger, m *metrics.Collector) *provider.ConfigServiceProvider {
	if logger == nil {
		logger = logging.Nop()
	}

	services := []provider.Entry{
		{Name: Config, Value: cfg},
		{Name: Logger, Value: logger},
	}
	if m != nil {
		services = append(services, provider.Entry{Name: Metrics, Value: m})
	}

	return provider.NewConfigServiceProvider(provider.Config{
		Services: services,
		Aliases: []provider.Alias{
			{Name: Configuration, Service: Config},
			{Name: Log, Service: Logger},
		},
	}, provider.WithMetrics(m))
}
