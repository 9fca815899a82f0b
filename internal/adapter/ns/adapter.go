package ns

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shaunakgokhale/trainy/internal/config"
	"github.com/shaunakgokhale/trainy/internal/interfaces"
	"github.com/shaunakgokhale/trainy/internal/model"
	"github.com/shaunakgokhale/trainy/internal/utils/httpclient"
)

// Adapter talks to the Dutch national railways JSON API. Authoritative for
// stations in NL.
type Adapter struct {
	cfg        *config.ProviderConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

func New(cfg *config.ProviderConfig, logger *logrus.Logger) interfaces.ProviderAdapter {
	return &Adapter{
		cfg:        cfg,
		httpClient: httpclient.New(cfg, logger),
		logger:     logger,
	}
}

func (a *Adapter) ID() model.ProviderID { return model.ProviderNS }
func (a *Adapter) Country() string      { return "NL" }

// AcceptsNameQueries is false: the trips endpoint requires station codes.
func (a *Adapter) AcceptsNameQueries() bool { return false }

func (a *Adapter) StationIDFor(st *model.Station) string {
	return st.ProviderCode(model.ProviderNS)
}

func (a *Adapter) SearchStations(ctx context.Context, query string) ([]model.ProviderStation, error) {
	u := fmt.Sprintf("%s/stations?q=%s", a.cfg.BaseURL, url.QueryEscape(query))
	var resp stationsResponse
	if err := a.getJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("ns station search: %w", err)
	}
	out := make([]model.ProviderStation, 0, len(resp.Payload))
	for _, s := range resp.Payload {
		out = append(out, model.ProviderStation{
			Code:    s.Code,
			Name:    s.Names.Long,
			Country: s.Country,
			Lat:     s.Lat,
			Lon:     s.Lng,
		})
	}
	return out, nil
}

func (a *Adapter) SearchJourneys(ctx context.Context, from, to string, when time.Time) ([]*model.RawJourneyCandidate, error) {
	u := fmt.Sprintf("%s/trips?fromStation=%s&toStation=%s&dateTime=%s",
		a.cfg.BaseURL, url.QueryEscape(from), url.QueryEscape(to),
		url.QueryEscape(when.Format(time.RFC3339)))
	var resp tripsResponse
	if err := a.getJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("ns journey search: %w", err)
	}

	var out []*model.RawJourneyCandidate
	for _, trip := range resp.Trips {
		// Only direct trips; itineraries with changes are out of scope.
		if len(trip.Legs) != 1 {
			continue
		}
		c := a.legToCandidate(trip.Legs[0])
		if c != nil {
			out = append(out, c)
		}
	}
	a.logger.WithFields(logrus.Fields{
		"provider": a.ID(),
		"count":    len(out),
	}).Debug("journey search complete")
	return out, nil
}

func (a *Adapter) JourneyDetails(ctx context.Context, nativeID string) (*model.RawJourneyCandidate, error) {
	u := fmt.Sprintf("%s/journey?id=%s", a.cfg.BaseURL, url.QueryEscape(nativeID))
	var resp journeyResponse
	if err := a.getJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("ns journey details: %w", err)
	}
	if len(resp.Payload.Legs) == 0 {
		return nil, nil
	}
	return a.legToCandidate(resp.Payload.Legs[0]), nil
}

func (a *Adapter) legToCandidate(leg legPayload) *model.RawJourneyCandidate {
	if len(leg.Stops) == 0 {
		return nil
	}
	c := &model.RawJourneyCandidate{
		Source:          model.ProviderNS,
		NativeID:        leg.JourneyDetailRef,
		TrainNumber:     leg.Product.Number,
		TrainType:       leg.Product.CategoryCode,
		Operator:        leg.Product.OperatorName,
		Status:          model.StatusScheduled,
		DurationMinutes: leg.PlannedDurationInMinutes,
	}
	if leg.Cancelled {
		c.Status = model.StatusCancelled
	}
	for _, s := range leg.Stops {
		stop := model.Stop{
			StationName:        s.Name,
			StationCode:        s.UICCode,
			Country:            s.CountryCode,
			ScheduledArrival:   parseTime(s.PlannedArrival),
			ActualArrival:      parseTime(s.ActualArrival),
			ScheduledDeparture: parseTime(s.PlannedDeparture),
			ActualDeparture:    parseTime(s.ActualDeparture),
			PlannedPlatform:    s.PlannedTrack,
			ActualPlatform:     s.ActualTrack,
			Cancelled:          s.Cancelled,
		}
		stop.DelayMinutes = model.ComputeDelayMinutes(stop.ScheduledDeparture, stop.ActualDeparture)
		if stop.DelayMinutes == 0 {
			stop.DelayMinutes = model.ComputeDelayMinutes(stop.ScheduledArrival, stop.ActualArrival)
		}
		if s.Cancelled && c.Status == model.StatusScheduled {
			c.Status = model.StatusCancelled
		}
		if stop.DelayMinutes > 0 && c.Status == model.StatusScheduled {
			c.Status = model.StatusDelayed
		}
		c.Stops = append(c.Stops, stop)
	}
	return c
}

func (a *Adapter) getJSON(ctx context.Context, rawURL string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	if a.cfg.AuthKey != "" {
		req.Header.Set("Ocp-Apim-Subscription-Key", a.cfg.AuthKey)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			a.logger.WithError(err).Warn("closing ns response body failed")
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
