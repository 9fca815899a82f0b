package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/shaunakgokhale/trainy/internal/interfaces"
	"github.com/shaunakgokhale/trainy/internal/model"
	"github.com/shaunakgokhale/trainy/internal/station"
)

// Enricher opportunistically refines one stop of a merged journey with data
// from a provider that was not selected for the search but happens to also
// track a station on the route, typically a platform number at a
// border-country stop. Strictly best-effort: every failure is swallowed and
// the base journey is always returned.
type Enricher struct {
	providers ProviderDirectory
	registry  *station.Registry
	logger    *logrus.Logger
}

func NewEnricher(providers ProviderDirectory, registry *station.Registry, logger *logrus.Logger) *Enricher {
	return &Enricher{providers: providers, registry: registry, logger: logger}
}

// Enrich looks for a third provider, one outside the selector set, that
// has a native id for the destination and whose home country contains a stop
// of the journey. If that provider confirms the train, its platform data is
// spliced into the arrival stop, which relabels that stop's source while the
// journey-level sources stay unchanged.
func (e *Enricher) Enrich(ctx context.Context, j *model.MergedJourney, origin, dest *model.Station, selected []interfaces.ProviderAdapter) *model.MergedJourney {
	if j == nil || len(j.Stops) == 0 {
		return j
	}
	selectedIDs := make(map[model.ProviderID]bool, len(selected))
	for _, p := range selected {
		selectedIDs[p.ID()] = true
	}

	for _, third := range e.providers.All() {
		if selectedIDs[third.ID()] {
			continue
		}
		destCode := dest.ProviderCode(third.ID())
		if destCode == "" {
			continue
		}
		bridge := e.stopInCountry(j, third.Country())
		if bridge == nil {
			continue
		}
		if e.tryProvider(ctx, j, dest, third, destCode, bridge) {
			return j
		}
	}
	return j
}

// stopInCountry returns the first intermediate stop located in the given
// country that has a scheduled departure to query around.
func (e *Enricher) stopInCountry(j *model.MergedJourney, country string) *model.MergedStop {
	for i := range j.Stops {
		s := &j.Stops[i]
		if s.Country == country && s.ScheduledDeparture != nil {
			return s
		}
	}
	return nil
}

func (e *Enricher) tryProvider(ctx context.Context, j *model.MergedJourney, dest *model.Station, third interfaces.ProviderAdapter, destCode string, bridge *model.MergedStop) bool {
	// The bridge stop came from another provider; map it back onto the
	// canonical registry to learn the third provider's id for it.
	bridgeStation, ok := e.registry.FindByName(bridge.StationName)
	if !ok {
		return false
	}
	bridgeCode := bridgeStation.ProviderCode(third.ID())
	if bridgeCode == "" {
		return false
	}

	candidates, err := third.SearchJourneys(ctx, bridgeCode, destCode, *bridge.ScheduledDeparture)
	if err != nil {
		e.logger.WithError(err).WithField("provider", third.ID()).Debug("enrichment query failed")
		return false
	}

	match := e.selectCandidate(j, dest, third.ID(), candidates)
	if match == nil {
		return false
	}
	arr := match.Arrival()
	if arr == nil || !arr.HasPlatform() {
		return false
	}

	last := &j.Stops[len(j.Stops)-1]
	if last.HasPlatform() && third.Country() != dest.Country {
		return false
	}

	e.logger.WithFields(logrus.Fields{
		"provider": third.ID(),
		"station":  arr.StationName,
		"platform": arr.PlannedPlatform,
	}).Info("cross-reference enrichment applied")

	splicePlatform(last, arr, third.ID())
	for i := range j.Stops {
		if station.NamesOverlap(j.Stops[i].StationName, arr.StationName) {
			splicePlatform(&j.Stops[i], arr, third.ID())
		}
	}
	return true
}

// selectCandidate picks the returned journey whose arrival is within the
// matcher tolerance of the merged journey's arrival and whose destination
// name or code matches.
func (e *Enricher) selectCandidate(j *model.MergedJourney, dest *model.Station, p model.ProviderID, candidates []*model.RawJourneyCandidate) *model.RawJourneyCandidate {
	for _, c := range candidates {
		arr := c.Arrival()
		if arr == nil || arr.ScheduledArrival == nil {
			continue
		}
		diff := arr.ScheduledArrival.Sub(j.ScheduledArrival)
		if diff < 0 {
			diff = -diff
		}
		if diff > arrivalTolerance {
			continue
		}
		if station.NamesOverlap(arr.StationName, j.DestinationName) ||
			(arr.StationCode != "" && arr.StationCode == dest.ProviderCode(p)) {
			return c
		}
	}
	return nil
}

func splicePlatform(target *model.MergedStop, from *model.Stop, source model.ProviderID) {
	target.PlannedPlatform = from.PlannedPlatform
	target.ActualPlatform = from.ActualPlatform
	target.Source = source
}
