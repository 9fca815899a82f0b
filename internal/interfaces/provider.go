package interfaces

import (
	"context"
	"time"

	"github.com/shaunakgokhale/trainy/internal/model"
)

// ProviderAdapter is the contract every per-country railway client
// implements. Each provider knows only about trains inside or passing
// through its home country and speaks its own station identifiers.
type ProviderAdapter interface {
	ID() model.ProviderID
	Country() string

	// SearchStations queries the provider's station directory.
	SearchStations(ctx context.Context, query string) ([]model.ProviderStation, error)

	// SearchJourneys queries direct journeys between two provider-native
	// station references around the given departure time.
	SearchJourneys(ctx context.Context, from, to string, when time.Time) ([]*model.RawJourneyCandidate, error)

	// JourneyDetails re-fetches one journey by the provider's native id.
	// Returns nil without error when the provider no longer knows the id.
	JourneyDetails(ctx context.Context, nativeID string) (*model.RawJourneyCandidate, error)

	// StationIDFor returns the provider's native id for a canonical
	// station, or "" when the mapping is unknown.
	StationIDFor(st *model.Station) string

	// AcceptsNameQueries reports whether SearchJourneys also accepts
	// display names in place of native station ids. The orchestrator uses
	// this for its name-fallback retry.
	AcceptsNameQueries() bool
}

// JourneyStore is the persistence gateway for merged journeys.
type JourneyStore interface {
	UpsertByKey(ctx context.Context, key string, j *model.MergedJourney) (string, error)
	FindByKey(ctx context.Context, key string) (*model.MergedJourney, error)
	GetByID(ctx context.Context, id string) (*model.MergedJourney, error)
	ApplyRealtimeUpdate(ctx context.Context, id string, patch model.RealtimePatch) (*model.MergedJourney, error)
}
