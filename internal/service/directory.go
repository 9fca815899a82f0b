package service

import (
	"github.com/shaunakgokhale/trainy/internal/interfaces"
	"github.com/shaunakgokhale/trainy/internal/model"
)

// ProviderDirectory is the view of the adapter registry the services need.
type ProviderDirectory interface {
	All() []interfaces.ProviderAdapter
	ByCountry(country string) (interfaces.ProviderAdapter, bool)
	Get(id model.ProviderID) (interfaces.ProviderAdapter, bool)
}
