package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shaunakgokhale/trainy/internal/interfaces"
	"github.com/shaunakgokhale/trainy/internal/model"
	"github.com/shaunakgokhale/trainy/internal/station"
)

// SearchService is the public core: resolve stations, fan out a journey
// query, match, merge, enrich, persist. Callers always get a (possibly
// empty) journey list; provider-level failures never surface as errors.
type SearchService struct {
	resolver  *Resolver
	selector  *Selector
	fanOut    *FanOut
	matcher   *Matcher
	merger    *Merger
	enricher  *Enricher
	refresher *Refresher
	store     interfaces.JourneyStore
	logger    *logrus.Logger
}

func NewSearchService(registry *station.Registry, providers ProviderDirectory, store interfaces.JourneyStore, logger *logrus.Logger) *SearchService {
	return &SearchService{
		resolver:  NewResolver(registry, providers, logger),
		selector:  NewSelector(providers, logger),
		fanOut:    NewFanOut(logger),
		matcher:   NewMatcher(logger),
		merger:    NewMerger(providers, logger),
		enricher:  NewEnricher(providers, registry, logger),
		refresher: NewRefresher(providers, store, logger),
		store:     store,
		logger:    logger,
	}
}

// SearchStations resolves a free-text query to canonical stations.
func (s *SearchService) SearchStations(ctx context.Context, query string) []*model.Station {
	return s.resolver.Resolve(ctx, query)
}

// SearchJourneys runs the full reconciliation pipeline. Every search
// computes a fresh merge; persistence upserts by journey key so repeated
// searches converge to one stored row. When the store is down the in-memory
// journeys are returned with synthetic ids instead of failing the search.
func (s *SearchService) SearchJourneys(ctx context.Context, origin, dest *model.Station, when time.Time) []*model.MergedJourney {
	selected := s.selector.Select(origin, dest)
	if len(selected) == 0 {
		s.logger.WithFields(logrus.Fields{
			"origin":      origin.DisplayName,
			"destination": dest.DisplayName,
		}).Warn("no providers selectable for search")
		return nil
	}

	candidates := s.fanOut.Search(ctx, selected, origin, dest, when)
	if len(candidates) == 0 {
		return nil
	}

	var journeys []*model.MergedJourney
	for _, set := range s.matcher.Match(candidates) {
		j := s.merger.Merge(set, origin, dest)
		if j == nil {
			continue
		}
		j = s.enricher.Enrich(ctx, j, origin, dest, selected)
		s.persist(ctx, j)
		journeys = append(journeys, j)
	}

	sort.Slice(journeys, func(i, k int) bool {
		return journeys[i].ScheduledDeparture.Before(journeys[k].ScheduledDeparture)
	})
	s.logger.WithFields(logrus.Fields{
		"candidates": len(candidates),
		"journeys":   len(journeys),
	}).Info("journey search reconciled")
	return journeys
}

// persist upserts by journey key; on failure the journey keeps working with
// a synthetic temporary id.
func (s *SearchService) persist(ctx context.Context, j *model.MergedJourney) {
	id, err := s.store.UpsertByKey(ctx, j.Key(), j)
	if err != nil {
		j.ID = "tmp-" + uuid.New().String()
		s.logger.WithError(err).WithField("journey_key", j.Key()).Warn("journey not persisted, returning in-memory result")
		return
	}
	j.ID = id
}

// JourneyDetails returns a stored journey, optionally refreshed against its
// contributing providers first.
func (s *SearchService) JourneyDetails(ctx context.Context, id string, refresh bool) (*model.MergedJourney, error) {
	j, err := s.store.GetByID(ctx, id)
	if err != nil || j == nil {
		return nil, err
	}
	if refresh {
		j = s.refresher.Refresh(ctx, j)
	}
	return j, nil
}
