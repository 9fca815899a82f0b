package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shaunakgokhale/trainy/internal/interfaces"
	"github.com/shaunakgokhale/trainy/internal/model"
	"github.com/shaunakgokhale/trainy/internal/station"
)

func searchFixture(store *fakeStore) *SearchService {
	dir := &fakeDirectory{adapters: []interfaces.ProviderAdapter{
		&fakeAdapter{id: model.ProviderNS, country: "NL",
			journeysFn: func(ctx context.Context, from, to string, when time.Time) ([]*model.RawJourneyCandidate, error) {
				return []*model.RawJourneyCandidate{ic123FromNS()}, nil
			}},
		&fakeAdapter{id: model.ProviderSBB, country: "CH", nameQueries: true,
			journeysFn: func(ctx context.Context, from, to string, when time.Time) ([]*model.RawJourneyCandidate, error) {
				return []*model.RawJourneyCandidate{ic123FromSBB()}, nil
			}},
	}}
	return NewSearchService(station.NewRegistry(), dir, store, testLogger())
}

func TestSearchJourneysReconcilesTwoProviders(t *testing.T) {
	store := newFakeStore()
	svc := searchFixture(store)

	got := svc.SearchJourneys(context.Background(), amsterdam(), zuerich(), mkTime(9, 0))
	if len(got) != 1 {
		t.Fatalf("expected both providers reconciled into 1 journey, got %d", len(got))
	}
	j := got[0]
	if len(j.Sources) != 2 {
		t.Errorf("sources = %v, want ns and sbb", j.Sources)
	}
	last := j.Stops[len(j.Stops)-1]
	if last.PlannedPlatform != "31" {
		t.Errorf("arrival platform = %q, want 31 from the destination authority", last.PlannedPlatform)
	}
	if j.ID == "" || strings.HasPrefix(j.ID, "tmp-") {
		t.Errorf("journey must carry its stored id, got %q", j.ID)
	}
	if store.upserts != 1 {
		t.Errorf("upserts = %d, want 1", store.upserts)
	}
}

func TestSearchJourneysUpsertIsIdempotent(t *testing.T) {
	store := newFakeStore()
	svc := searchFixture(store)

	first := svc.SearchJourneys(context.Background(), amsterdam(), zuerich(), mkTime(9, 0))
	second := svc.SearchJourneys(context.Background(), amsterdam(), zuerich(), mkTime(9, 0))

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("got %d and %d journeys, want 1 and 1", len(first), len(second))
	}
	if first[0].ID != second[0].ID {
		t.Errorf("repeated search produced different ids: %s vs %s", first[0].ID, second[0].ID)
	}
	if len(store.ids) != 1 {
		t.Errorf("store holds %d rows, want 1", len(store.ids))
	}
	if store.upserts != 2 {
		t.Errorf("upserts = %d, want one per search", store.upserts)
	}
}

func TestSearchJourneysSurvivesStoreOutage(t *testing.T) {
	store := newFakeStore()
	store.fail = true
	svc := searchFixture(store)

	got := svc.SearchJourneys(context.Background(), amsterdam(), zuerich(), mkTime(9, 0))
	if len(got) != 1 {
		t.Fatalf("store outage must not fail the search, got %d journeys", len(got))
	}
	if !strings.HasPrefix(got[0].ID, "tmp-") {
		t.Errorf("unpersisted journey needs a synthetic id, got %q", got[0].ID)
	}
}

func TestSearchJourneysNoSelectableProviders(t *testing.T) {
	svc := NewSearchService(station.NewRegistry(), &fakeDirectory{}, newFakeStore(), testLogger())

	if got := svc.SearchJourneys(context.Background(), amsterdam(), zuerich(), mkTime(9, 0)); got != nil {
		t.Errorf("no providers must yield no journeys, got %d", len(got))
	}
}

func TestSearchJourneysSortedByDeparture(t *testing.T) {
	later := ic123FromNS()
	later.TrainNumber = "125"
	later.NativeID = "ns-ic125"
	for i := range later.Stops {
		shift := func(ts *time.Time) *time.Time {
			if ts == nil {
				return nil
			}
			return tptr(ts.Add(2 * time.Hour))
		}
		later.Stops[i].ScheduledArrival = shift(later.Stops[i].ScheduledArrival)
		later.Stops[i].ScheduledDeparture = shift(later.Stops[i].ScheduledDeparture)
	}

	dir := &fakeDirectory{adapters: []interfaces.ProviderAdapter{
		&fakeAdapter{id: model.ProviderNS, country: "NL",
			journeysFn: func(ctx context.Context, from, to string, when time.Time) ([]*model.RawJourneyCandidate, error) {
				return []*model.RawJourneyCandidate{later, ic123FromNS()}, nil
			}},
	}}
	origin, dest := amsterdam(), zuerich()
	dest.Country = "NL" // keep the second leg on the same provider
	svc := NewSearchService(station.NewRegistry(), dir, newFakeStore(), testLogger())

	got := svc.SearchJourneys(context.Background(), origin, dest, mkTime(9, 0))
	if len(got) != 2 {
		t.Fatalf("expected 2 journeys, got %d", len(got))
	}
	if !got[0].ScheduledDeparture.Before(got[1].ScheduledDeparture) {
		t.Errorf("journeys not sorted by departure: %v then %v", got[0].ScheduledDeparture, got[1].ScheduledDeparture)
	}
}

func TestJourneyDetailsRefreshFlag(t *testing.T) {
	store := newFakeStore()
	svc := searchFixture(store)

	searched := svc.SearchJourneys(context.Background(), amsterdam(), zuerich(), mkTime(9, 0))
	if len(searched) != 1 {
		t.Fatalf("fixture search failed, got %d journeys", len(searched))
	}

	got, err := svc.JourneyDetails(context.Background(), searched[0].ID, false)
	if err != nil || got == nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if got.TrainNumber != "123" {
		t.Errorf("wrong journey returned: %s", got.TrainNumber)
	}

	missing, err := svc.JourneyDetails(context.Background(), "nope", false)
	if err != nil || missing != nil {
		t.Errorf("unknown id must return (nil, nil), got (%v, %v)", missing, err)
	}
}
