package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shaunakgokhale/trainy/internal/interfaces"
	"github.com/shaunakgokhale/trainy/internal/model"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

// fakeAdapter is a scriptable provider for pipeline tests.
type fakeAdapter struct {
	id          model.ProviderID
	country     string
	nameQueries bool

	stationsFn func(ctx context.Context, query string) ([]model.ProviderStation, error)
	journeysFn func(ctx context.Context, from, to string, when time.Time) ([]*model.RawJourneyCandidate, error)
	detailsFn  func(ctx context.Context, nativeID string) (*model.RawJourneyCandidate, error)
}

func (f *fakeAdapter) ID() model.ProviderID     { return f.id }
func (f *fakeAdapter) Country() string          { return f.country }
func (f *fakeAdapter) AcceptsNameQueries() bool { return f.nameQueries }

func (f *fakeAdapter) StationIDFor(st *model.Station) string {
	return st.ProviderCode(f.id)
}

func (f *fakeAdapter) SearchStations(ctx context.Context, query string) ([]model.ProviderStation, error) {
	if f.stationsFn == nil {
		return nil, nil
	}
	return f.stationsFn(ctx, query)
}

func (f *fakeAdapter) SearchJourneys(ctx context.Context, from, to string, when time.Time) ([]*model.RawJourneyCandidate, error) {
	if f.journeysFn == nil {
		return nil, nil
	}
	return f.journeysFn(ctx, from, to, when)
}

func (f *fakeAdapter) JourneyDetails(ctx context.Context, nativeID string) (*model.RawJourneyCandidate, error) {
	if f.detailsFn == nil {
		return nil, nil
	}
	return f.detailsFn(ctx, nativeID)
}

type fakeDirectory struct {
	adapters []interfaces.ProviderAdapter
}

func (d *fakeDirectory) All() []interfaces.ProviderAdapter { return d.adapters }

func (d *fakeDirectory) ByCountry(country string) (interfaces.ProviderAdapter, bool) {
	for _, a := range d.adapters {
		if a.Country() == country {
			return a, true
		}
	}
	return nil, false
}

func (d *fakeDirectory) Get(id model.ProviderID) (interfaces.ProviderAdapter, bool) {
	for _, a := range d.adapters {
		if a.ID() == id {
			return a, true
		}
	}
	return nil, false
}

// fakeStore is an in-memory JourneyStore with upsert-by-key semantics.
type fakeStore struct {
	mu      sync.Mutex
	byKey   map[string]*model.MergedJourney
	ids     map[string]string // key -> id
	upserts int
	fail    bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		byKey: make(map[string]*model.MergedJourney),
		ids:   make(map[string]string),
	}
}

func (s *fakeStore) UpsertByKey(ctx context.Context, key string, j *model.MergedJourney) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return "", errors.New("store down")
	}
	s.upserts++
	id, ok := s.ids[key]
	if !ok {
		id = "row-" + key
		s.ids[key] = id
	}
	cp := *j
	cp.ID = id
	s.byKey[key] = &cp
	return id, nil
}

func (s *fakeStore) FindByKey(ctx context.Context, key string) (*model.MergedJourney, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byKey[key], nil
}

func (s *fakeStore) GetByID(ctx context.Context, id string) (*model.MergedJourney, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.byKey {
		if j.ID == id {
			return j, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) ApplyRealtimeUpdate(ctx context.Context, id string, patch model.RealtimePatch) (*model.MergedJourney, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.byKey {
		if j.ID != id {
			continue
		}
		if patch.Status != "" {
			j.Status = patch.Status
		}
		for _, sp := range patch.Stops {
			for i := range j.Stops {
				if sp.StationName != j.Stops[i].StationName && sp.StationCode != j.Stops[i].StationCode {
					continue
				}
				if sp.DelayMinutes != nil {
					j.Stops[i].DelayMinutes = *sp.DelayMinutes
				}
				if sp.PlannedPlatform != nil {
					j.Stops[i].PlannedPlatform = *sp.PlannedPlatform
				}
				if sp.ActualPlatform != nil {
					j.Stops[i].ActualPlatform = *sp.ActualPlatform
				}
				if sp.Cancelled != nil {
					j.Stops[i].Cancelled = *sp.Cancelled
				}
			}
		}
		return j, nil
	}
	return nil, nil
}

// --- fixtures ---

func mkTime(h, m int) time.Time {
	return time.Date(2026, 1, 17, h, m, 0, 0, time.UTC)
}

func tptr(t time.Time) *time.Time { return &t }

func amsterdam() *model.Station {
	return &model.Station{
		ID: "amsterdam-centraal", DisplayName: "Amsterdam Centraal", Country: "NL",
		Tier: model.TierRegistered,
		ProviderIDs: map[model.ProviderID]string{
			model.ProviderNS:    "ASD",
			model.ProviderDBahn: "8400058",
		},
	}
}

func zuerich() *model.Station {
	return &model.Station{
		ID: "zuerich-hb", DisplayName: "Zürich HB", Country: "CH",
		Tier: model.TierRegistered,
		ProviderIDs: map[model.ProviderID]string{
			model.ProviderNS:    "ZUERICH",
			model.ProviderSBB:   "8503000",
			model.ProviderDBahn: "8503000",
		},
	}
}

func depStop(name, code string, dep time.Time, platform string) model.Stop {
	return model.Stop{
		StationName:        name,
		StationCode:        code,
		ScheduledDeparture: tptr(dep),
		PlannedPlatform:    platform,
	}
}

func arrStop(name, code string, arr time.Time, platform string) model.Stop {
	return model.Stop{
		StationName:      name,
		StationCode:      code,
		ScheduledArrival: tptr(arr),
		PlannedPlatform:  platform,
	}
}
