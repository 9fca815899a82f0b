package sbb

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

const timeLayout = "2006-01-02T15:04:05-0700"

// Adapter talks to the Swiss open transport JSON API. Authoritative for
// stations in CH.
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

func (a *Adapter) ID() model.ProviderID { return model.ProviderSBB }
func (a *Adapter) Country() string      { return "CH" }

// AcceptsNameQueries is true: the connections endpoint resolves station
// names as well as numeric ids.
func (a *Adapter) AcceptsNameQueries() bool { return true }

func (a *Adapter) StationIDFor(st *model.Station) string {
	return st.ProviderCode(model.ProviderSBB)
}

func (a *Adapter) SearchStations(ctx context.Context, query string) ([]model.ProviderStation, error) {
	u := fmt.Sprintf("%s/locations?query=%s&type=station", a.cfg.BaseURL, url.QueryEscape(query))
	var resp locationsResponse
	if err := a.getJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("sbb station search: %w", err)
	}
	out := make([]model.ProviderStation, 0, len(resp.Stations))
	for _, s := range resp.Stations {
		ps := model.ProviderStation{Code: s.ID, Name: s.Name, Country: "CH"}
		if s.Coordinate != nil {
			ps.Lat, ps.Lon = s.Coordinate.X, s.Coordinate.Y
		}
		out = append(out, ps)
	}
	return out, nil
}

func (a *Adapter) SearchJourneys(ctx context.Context, from, to string, when time.Time) ([]*model.RawJourneyCandidate, error) {
	u := fmt.Sprintf("%s/connections?from=%s&to=%s&date=%s&time=%s&direct=1",
		a.cfg.BaseURL, url.QueryEscape(from), url.QueryEscape(to),
		when.Format("2006-01-02"), when.Format("15:04"))
	var resp connectionsResponse
	if err := a.getJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("sbb journey search: %w", err)
	}

	var out []*model.RawJourneyCandidate
	for _, conn := range resp.Connections {
		// A direct journey has exactly one ridden section.
		if len(conn.Sections) != 1 || conn.Sections[0].Journey == nil {
			continue
		}
		c := a.journeyToCandidate(conn.Sections[0].Journey)
		if c == nil {
			continue
		}
		c.DurationMinutes = parseDurationMinutes(conn.Duration)
		out = append(out, c)
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
		return nil, fmt.Errorf("sbb journey details: %w", err)
	}
	if resp.Journey == nil {
		return nil, nil
	}
	return a.journeyToCandidate(resp.Journey), nil
}

func (a *Adapter) journeyToCandidate(j *journeyPayload) *model.RawJourneyCandidate {
	if len(j.PassList) == 0 {
		return nil
	}
	c := &model.RawJourneyCandidate{
		Source:      model.ProviderSBB,
		NativeID:    j.ID,
		TrainNumber: j.Number,
		TrainType:   j.Category,
		Operator:    j.Operator,
		Status:      model.StatusScheduled,
	}
	for _, cp := range j.PassList {
		stop := model.Stop{
			StationName:        cp.Station.Name,
			StationCode:        cp.Station.ID,
			Country:            "CH",
			ScheduledArrival:   parseTime(cp.Arrival),
			ScheduledDeparture: parseTime(cp.Departure),
			PlannedPlatform:    cp.Platform,
			DelayMinutes:       cp.Delay,
		}
		if cp.Prognosis != nil {
			stop.ActualPlatform = cp.Prognosis.Platform
			stop.ActualArrival = parseTime(cp.Prognosis.Arrival)
			stop.ActualDeparture = parseTime(cp.Prognosis.Departure)
		}
		if stop.DelayMinutes == 0 {
			stop.DelayMinutes = model.ComputeDelayMinutes(stop.ScheduledArrival, stop.ActualArrival)
		}
		if stop.DelayMinutes > 0 && c.Status == model.StatusScheduled {
			c.Status = model.StatusDelayed
		}
		c.Stops = append(c.Stops, stop)
	}
	first, last := c.Departure(), c.Arrival()
	if c.DurationMinutes == 0 && first != nil && last != nil &&
		first.ScheduledDeparture != nil && last.ScheduledArrival != nil {
		c.DurationMinutes = int(last.ScheduledArrival.Sub(*first.ScheduledDeparture).Minutes())
	}
	return c
}

func (a *Adapter) getJSON(ctx context.Context, rawURL string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			a.logger.WithError(err).Warn("closing sbb response body failed")
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
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// parseDurationMinutes parses the "00d04:03:00" wire format.
func parseDurationMinutes(s string) int {
	var days, h, m, sec int
	if _, err := fmt.Sscanf(s, "%02dd%02d:%02d:%02d", &days, &h, &m, &sec); err != nil {
		return 0
	}
	return days*24*60 + h*60 + m
}
