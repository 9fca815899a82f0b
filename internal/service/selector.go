package service

import (
	"github.com/sirupsen/logrus"

	"github.com/shaunakgokhale/trainy/internal/interfaces"
	"github.com/shaunakgokhale/trainy/internal/model"
)

// Selector decides which providers to query for an origin/destination pair:
// the provider authoritative for each endpoint's country, deduplicated.
type Selector struct {
	providers ProviderDirectory
	logger    *logrus.Logger
}

func NewSelector(providers ProviderDirectory, logger *logrus.Logger) *Selector {
	return &Selector{providers: providers, logger: logger}
}

// Select returns the adapters to fan out to. A provider lacking a native id
// for an endpoint is skipped with a logged reason, unless it resolves
// display names itself, in which case the journey search falls back to
// names.
func (s *Selector) Select(origin, dest *model.Station) []interfaces.ProviderAdapter {
	var out []interfaces.ProviderAdapter
	seen := make(map[model.ProviderID]bool)

	for _, country := range []string{origin.Country, dest.Country} {
		a, ok := s.providers.ByCountry(country)
		if !ok {
			s.logger.WithField("country", country).Warn("no provider authoritative for country")
			continue
		}
		if seen[a.ID()] {
			continue
		}
		seen[a.ID()] = true

		if (a.StationIDFor(origin) == "" || a.StationIDFor(dest) == "") && !a.AcceptsNameQueries() {
			s.logger.WithFields(logrus.Fields{
				"provider":    a.ID(),
				"origin":      origin.DisplayName,
				"destination": dest.DisplayName,
			}).Warn("provider skipped: no native station id for both endpoints")
			continue
		}
		out = append(out, a)
	}
	return out
}
