package provider

import (
	"github.com/km-arc/go-container/framework/adapter"
)

// Aggregate runs several providers in order against the same adapter,
// stopping at the first failure.
//
//	p := provider.Aggregate{providers.Framework(cfg, logger), fileProvider}
//	err := container.RegisterServices(p)
type Aggregate []ServiceProvider

var _ ServiceProvider = Aggregate(nil)

func (agg Aggregate) RegisterServices(a adapter.Adapter) error {
	for _, p := range agg {
		if p == nil {
			continue
		}
		if err := p.RegisterServices(a); err != nil {
			return err
		}
	}
	return nil
}
