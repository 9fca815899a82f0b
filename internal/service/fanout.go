package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shaunakgokhale/trainy/internal/interfaces"
	"github.com/shaunakgokhale/trainy/internal/model"
)

// defaultCallTimeout bounds one provider call; on expiry the call counts as
// a provider failure, not a fatal error.
const defaultCallTimeout = 45 * time.Second

// FanOut queries the selected providers concurrently. Each call is an
// independent failure boundary: an error, timeout or panic on one provider
// degrades to zero candidates from that provider and never cancels or
// delays the others. The operation completes only after every call settled;
// there is no early return, because every provider's contribution may be
// needed for the merge.
type FanOut struct {
	logger  *logrus.Logger
	timeout time.Duration
}

func NewFanOut(logger *logrus.Logger) *FanOut {
	return &FanOut{logger: logger, timeout: defaultCallTimeout}
}

type fanOutResult struct {
	provider   model.ProviderID
	candidates []*model.RawJourneyCandidate
	err        error
}

// Search fans out to all providers and returns the joined raw candidates,
// each tagged with its source.
func (f *FanOut) Search(ctx context.Context, providers []interfaces.ProviderAdapter, origin, dest *model.Station, when time.Time) []*model.RawJourneyCandidate {
	results := make([]fanOutResult, len(providers))
	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p interfaces.ProviderAdapter) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[i] = fanOutResult{provider: p.ID(), err: fmt.Errorf("provider panicked: %v", r)}
				}
			}()
			results[i] = f.query(ctx, p, origin, dest, when)
		}(i, p)
	}
	wg.Wait()

	var out []*model.RawJourneyCandidate
	for _, res := range results {
		if res.err != nil {
			f.logger.WithError(res.err).WithField("provider", res.provider).Warn("provider journey search failed")
			continue
		}
		for _, c := range res.candidates {
			c.Source = res.provider
			out = append(out, c)
		}
	}
	return out
}

func (f *FanOut) query(ctx context.Context, p interfaces.ProviderAdapter, origin, dest *model.Station, when time.Time) fanOutResult {
	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	fromID, toID := p.StationIDFor(origin), p.StationIDFor(dest)
	if (fromID == "" || toID == "") && p.AcceptsNameQueries() {
		candidates, err := p.SearchJourneys(callCtx, origin.DisplayName, dest.DisplayName, when)
		if err != nil {
			return fanOutResult{provider: p.ID(), err: err}
		}
		return fanOutResult{provider: p.ID(), candidates: candidates}
	}

	candidates, err := p.SearchJourneys(callCtx, fromID, toID, when)
	if err != nil {
		return fanOutResult{provider: p.ID(), err: err}
	}

	// Some providers resolve display names where the id-based query finds
	// nothing (cross-border ids are patchy). Retry once with names.
	if len(candidates) == 0 && p.AcceptsNameQueries() {
		f.logger.WithField("provider", p.ID()).Debug("id query empty, retrying with display names")
		candidates, err = p.SearchJourneys(callCtx, origin.DisplayName, dest.DisplayName, when)
		if err != nil {
			return fanOutResult{provider: p.ID(), err: err}
		}
	}
	return fanOutResult{provider: p.ID(), candidates: candidates}
}
