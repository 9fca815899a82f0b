package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/shaunakgokhale/trainy/internal/interfaces"
	"github.com/shaunakgokhale/trainy/internal/model"
)

// Refresher re-polls the providers that contributed to a stored journey and
// patches the stored stops with current delay, platform and cancellation
// data. This is the only mutation path on an already-persisted journey.
type Refresher struct {
	providers ProviderDirectory
	store     interfaces.JourneyStore
	logger    *logrus.Logger
}

func NewRefresher(providers ProviderDirectory, store interfaces.JourneyStore, logger *logrus.Logger) *Refresher {
	return &Refresher{providers: providers, store: store, logger: logger}
}

// Refresh re-invokes the detail lookup of every contributing source with a
// retained native id and applies the resulting patch. Provider failures are
// logged and skipped; on persistence failure the unrefreshed journey is
// returned.
func (r *Refresher) Refresh(ctx context.Context, j *model.MergedJourney) *model.MergedJourney {
	if j == nil || len(j.NativeIDs) == 0 {
		return j
	}

	patch := model.RealtimePatch{}
	for providerID, nativeID := range j.NativeIDs {
		a, ok := r.providers.Get(providerID)
		if !ok {
			continue
		}
		detail, err := a.JourneyDetails(ctx, nativeID)
		if err != nil {
			r.logger.WithError(err).WithField("provider", providerID).Warn("realtime detail lookup failed")
			continue
		}
		if detail == nil {
			continue
		}
		if detail.Status != model.StatusScheduled && patch.Status == "" {
			patch.Status = detail.Status
		}
		for i := range detail.Stops {
			s := &detail.Stops[i]
			sp := model.StopPatch{
				StationName:  s.StationName,
				StationCode:  s.StationCode,
				DelayMinutes: intPtr(s.DelayMinutes),
				Cancelled:    boolPtr(s.Cancelled),
			}
			if s.PlannedPlatform != "" {
				sp.PlannedPlatform = strPtr(s.PlannedPlatform)
			}
			if s.ActualPlatform != "" {
				sp.ActualPlatform = strPtr(s.ActualPlatform)
			}
			patch.Stops = append(patch.Stops, sp)
		}
	}

	if patch.Status == "" && len(patch.Stops) == 0 {
		return j
	}
	stored, err := r.store.ApplyRealtimeUpdate(ctx, j.ID, patch)
	if err != nil {
		r.logger.WithError(err).WithField("journey", j.ID).Warn("realtime update not persisted")
		return j
	}
	return stored
}

func intPtr(v int) *int       { return &v }
func boolPtr(v bool) *bool    { return &v }
func strPtr(v string) *string { return &v }
