package adapter

import (
	"github.com/sirupsen/logrus"

	"github.com/shaunakgokhale/trainy/internal/adapter/dbahn"
	"github.com/shaunakgokhale/trainy/internal/adapter/ns"
	"github.com/shaunakgokhale/trainy/internal/adapter/sbb"
	"github.com/shaunakgokhale/trainy/internal/config"
	"github.com/shaunakgokhale/trainy/internal/interfaces"
	"github.com/shaunakgokhale/trainy/internal/model"
)

// Factory builds a provider adapter from its config section.
type Factory func(cfg *config.ProviderConfig, logger *logrus.Logger) interfaces.ProviderAdapter

// factories maps config keys to adapter constructors. Adding a provider means
// adding one entry here plus its config section.
var factories = map[string]Factory{
	string(model.ProviderNS):    ns.New,
	string(model.ProviderDBahn): dbahn.New,
	string(model.ProviderSBB):   sbb.New,
}

// Registry holds the initialized provider adapters for this process.
type Registry struct {
	logger   *logrus.Logger
	adapters map[model.ProviderID]interfaces.ProviderAdapter
}

// NewRegistry instantiates an adapter for every enabled provider in the
// config. Unknown provider names are skipped with a logged reason rather
// than failing startup.
func NewRegistry(cfg *config.Config, logger *logrus.Logger) *Registry {
	r := &Registry{
		logger:   logger,
		adapters: make(map[model.ProviderID]interfaces.ProviderAdapter),
	}
	for name, providerCfg := range cfg.Providers {
		if !cfg.ProviderEnabled(name) {
			logger.WithField("provider", name).Info("provider disabled by config")
			continue
		}
		factory, ok := factories[name]
		if !ok {
			logger.WithField("provider", name).Error("no adapter factory for configured provider")
			continue
		}
		pc := providerCfg
		a := factory(&pc, logger)
		r.adapters[a.ID()] = a
		logger.WithFields(logrus.Fields{
			"provider": a.ID(),
			"country":  a.Country(),
		}).Info("provider adapter initialized")
	}
	return r
}

// Get returns the adapter with the given id.
func (r *Registry) Get(id model.ProviderID) (interfaces.ProviderAdapter, bool) {
	a, ok := r.adapters[id]
	return a, ok
}

// ByCountry returns the provider authoritative for a country code.
func (r *Registry) ByCountry(country string) (interfaces.ProviderAdapter, bool) {
	for _, a := range r.adapters {
		if a.Country() == country {
			return a, true
		}
	}
	return nil, false
}

// All returns every initialized adapter.
func (r *Registry) All() []interfaces.ProviderAdapter {
	out := make([]interfaces.ProviderAdapter, 0, len(r.adapters))
	for _, a := range r.adapters {
		out = append(out, a)
	}
	return out
}

// Count returns the number of initialized adapters.
func (r *Registry) Count() int {
	return len(r.adapters)
}
