package dbahn

import (
	"context"
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	resty "gopkg.in/resty.v1"

	"github.com/shaunakgokhale/trainy/internal/config"
	"github.com/shaunakgokhale/trainy/internal/interfaces"
	"github.com/shaunakgokhale/trainy/internal/model"
)

const (
	dateFormat = "060102"
	hourFormat = "15"
	timeFormat = "0601021504"
)

// tripIDCore extracts the daily trip identifier shared between the
// departure and arrival boards of different stations.
var tripIDCore = regexp.MustCompile(`-?\d+-\d`)

// arrivalScanHours bounds how many hourly arrival boards are scanned when
// completing a journey at its destination.
const arrivalScanHours = 4

// Adapter talks to the German XML timetables API. Authoritative for
// stations in DE. The API is board-based: journeys between two stations are
// reconstructed from the origin's departure board (filtered by the trains'
// forward path) and the destination's arrival board.
type Adapter struct {
	cfg    *config.ProviderConfig
	client *resty.Client
	logger *logrus.Logger
}

func New(cfg *config.ProviderConfig, logger *logrus.Logger) interfaces.ProviderAdapter {
	client := resty.New().
		SetHostURL(cfg.BaseURL).
		SetTimeout(cfg.CallTimeout()).
		SetRetryCount(cfg.RetryCount)
	if cfg.AuthToken != "" {
		client.SetAuthToken(cfg.AuthToken)
	}
	return &Adapter{cfg: cfg, client: client, logger: logger}
}

func (a *Adapter) ID() model.ProviderID { return model.ProviderDBahn }
func (a *Adapter) Country() string      { return "DE" }

// AcceptsNameQueries is true: the station endpoint resolves name fragments,
// so journeys can be searched with display names when no EVA id is known.
func (a *Adapter) AcceptsNameQueries() bool { return true }

func (a *Adapter) StationIDFor(st *model.Station) string {
	return st.ProviderCode(model.ProviderDBahn)
}

func (a *Adapter) SearchStations(ctx context.Context, query string) ([]model.ProviderStation, error) {
	stations, err := a.findStations(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]model.ProviderStation, 0, len(stations))
	for _, s := range stations {
		if s.EVA == 0 {
			continue
		}
		out = append(out, model.ProviderStation{
			Code:    strconv.Itoa(s.EVA),
			Name:    s.Name,
			Country: "DE",
		})
	}
	return out, nil
}

func (a *Adapter) SearchJourneys(ctx context.Context, from, to string, when time.Time) ([]*model.RawJourneyCandidate, error) {
	origin, err := a.resolveBoardStation(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("dbahn origin lookup: %w", err)
	}
	dest, err := a.resolveBoardStation(ctx, to)
	if err != nil {
		return nil, fmt.Errorf("dbahn destination lookup: %w", err)
	}

	board, err := a.board(ctx, origin.EVA, when)
	if err != nil {
		return nil, fmt.Errorf("dbahn departure board: %w", err)
	}

	var out []*model.RawJourneyCandidate
	for _, trip := range board.Trips {
		if trip.Departure.PlannedTime == "" {
			continue
		}
		if !pathContains(trip.Departure.Path, dest.Name) {
			continue
		}
		dep, err := parseBoardTime(trip.Departure.PlannedTime)
		if err != nil || dep.Before(when) {
			continue
		}
		c := a.buildCandidate(ctx, trip, origin, dest, dep)
		out = append(out, c)
	}
	a.logger.WithFields(logrus.Fields{
		"provider": a.ID(),
		"count":    len(out),
	}).Debug("journey search complete")
	return out, nil
}

// JourneyDetails refetches the origin board encoded in the native id and
// rebuilds the candidate. Native ids have the form tripID@originEVA@pt.
func (a *Adapter) JourneyDetails(ctx context.Context, nativeID string) (*model.RawJourneyCandidate, error) {
	parts := strings.Split(nativeID, "@")
	if len(parts) != 3 {
		return nil, fmt.Errorf("dbahn: malformed native id %q", nativeID)
	}
	eva, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("dbahn: malformed native id %q", nativeID)
	}
	dep, err := parseBoardTime(parts[2])
	if err != nil {
		return nil, fmt.Errorf("dbahn: malformed native id %q", nativeID)
	}
	board, err := a.board(ctx, eva, dep)
	if err != nil {
		return nil, fmt.Errorf("dbahn journey details: %w", err)
	}
	for _, trip := range board.Trips {
		if coreID(trip.ID) != parts[0] {
			continue
		}
		origin := stationXML{Name: board.Station, EVA: eva}
		return a.buildCandidate(ctx, trip, origin, stationXML{}, dep), nil
	}
	return nil, nil
}

// buildCandidate assembles a candidate from a departure-board trip: the
// origin event, the path stations after it (names only, the board carries no
// times for them), and, when the destination is known, the arrival event
// found on the destination's own board by trip id.
func (a *Adapter) buildCandidate(ctx context.Context, trip tripXML, origin, dest stationXML, dep time.Time) *model.RawJourneyCandidate {
	c := &model.RawJourneyCandidate{
		Source:      model.ProviderDBahn,
		NativeID:    fmt.Sprintf("%s@%d@%s", coreID(trip.ID), origin.EVA, trip.Departure.PlannedTime),
		TrainNumber: trip.Label.Number,
		TrainType:   trip.Label.Category,
		Operator:    trip.Label.Owner,
		Status:      model.StatusScheduled,
	}

	originStop := model.Stop{
		StationName:        origin.Name,
		StationCode:        strconv.Itoa(origin.EVA),
		Country:            "DE",
		ScheduledDeparture: &dep,
		PlannedPlatform:    trip.Departure.PlannedPlatform,
		ActualPlatform:     trip.Departure.ChangedPlatform,
	}
	if trip.Departure.ChangedTime != "" {
		if actual, err := parseBoardTime(trip.Departure.ChangedTime); err == nil {
			originStop.ActualDeparture = &actual
			originStop.DelayMinutes = model.ComputeDelayMinutes(&dep, &actual)
		}
	}
	if trip.Departure.Status == "c" {
		originStop.Cancelled = true
		c.Status = model.StatusCancelled
	} else if originStop.DelayMinutes > 0 {
		c.Status = model.StatusDelayed
	}
	c.Stops = append(c.Stops, originStop)

	for _, name := range pathUpTo(trip.Departure.Path, dest.Name) {
		c.Stops = append(c.Stops, model.Stop{StationName: name})
	}

	if dest.EVA != 0 {
		if arrStop, ok := a.completeArrival(ctx, trip, dest, dep); ok {
			c.Stops = append(c.Stops, arrStop)
			if arrStop.ScheduledArrival != nil {
				c.DurationMinutes = int(arrStop.ScheduledArrival.Sub(dep).Minutes())
			}
			if arrStop.DelayMinutes > 0 && c.Status == model.StatusScheduled {
				c.Status = model.StatusDelayed
			}
		} else {
			c.Stops = append(c.Stops, model.Stop{
				StationName: dest.Name,
				StationCode: strconv.Itoa(dest.EVA),
				Country:     "DE",
			})
		}
	}
	return c
}

// completeArrival scans the destination's hourly arrival boards for the same
// trip id and returns the arrival stop.
func (a *Adapter) completeArrival(ctx context.Context, trip tripXML, dest stationXML, dep time.Time) (model.Stop, bool) {
	want := coreID(trip.ID)
	for hour := 0; hour < arrivalScanHours; hour++ {
		board, err := a.board(ctx, dest.EVA, dep.Add(time.Duration(hour)*time.Hour))
		if err != nil {
			a.logger.WithError(err).WithField("eva", dest.EVA).Warn("arrival board fetch failed")
			return model.Stop{}, false
		}
		for _, t := range board.Trips {
			if coreID(t.ID) != want || t.Arrival.PlannedTime == "" {
				continue
			}
			arr, err := parseBoardTime(t.Arrival.PlannedTime)
			if err != nil {
				continue
			}
			stop := model.Stop{
				StationName:      dest.Name,
				StationCode:      strconv.Itoa(dest.EVA),
				Country:          "DE",
				ScheduledArrival: &arr,
				PlannedPlatform:  t.Arrival.PlannedPlatform,
				ActualPlatform:   t.Arrival.ChangedPlatform,
				Cancelled:        t.Arrival.Status == "c",
			}
			if t.Arrival.ChangedTime != "" {
				if actual, err := parseBoardTime(t.Arrival.ChangedTime); err == nil {
					stop.ActualArrival = &actual
					stop.DelayMinutes = model.ComputeDelayMinutes(&arr, &actual)
				}
			}
			return stop, true
		}
	}
	return model.Stop{}, false
}

// resolveBoardStation accepts either an EVA id or a name fragment.
func (a *Adapter) resolveBoardStation(ctx context.Context, ref string) (stationXML, error) {
	stations, err := a.findStations(ctx, ref)
	if err != nil {
		return stationXML{}, err
	}
	if eva, err := strconv.Atoi(ref); err == nil {
		for _, s := range stations {
			if s.EVA == eva {
				return s, nil
			}
		}
	}
	if len(stations) == 0 || stations[0].EVA == 0 {
		return stationXML{}, fmt.Errorf("no station found for %q", ref)
	}
	return stations[0], nil
}

func (a *Adapter) findStations(ctx context.Context, query string) ([]stationXML, error) {
	resp, err := a.client.R().SetContext(ctx).Get("/station/" + query)
	if err != nil {
		return nil, err
	}
	var stations stationsXML
	if err := xml.Unmarshal(resp.Body(), &stations); err != nil {
		return nil, err
	}
	return stations.Station, nil
}

func (a *Adapter) board(ctx context.Context, eva int, at time.Time) (*timetableXML, error) {
	path := fmt.Sprintf("/plan/%d/%s/%s", eva, at.Format(dateFormat), at.Format(hourFormat))
	resp, err := a.client.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, err
	}
	var board timetableXML
	if err := xml.Unmarshal(resp.Body(), &board); err != nil {
		return nil, err
	}
	return &board, nil
}

func coreID(id string) string {
	if m := tripIDCore.FindAllString(id, 1); len(m) > 0 {
		return m[0]
	}
	return id
}

func parseBoardTime(s string) (time.Time, error) {
	return time.ParseInLocation(timeFormat, s, time.UTC)
}

// pathContains matches a path segment ("A|B|C") against a station name,
// tolerating qualifier differences.
func pathContains(path, name string) bool {
	if name == "" {
		return false
	}
	for _, seg := range strings.Split(path, "|") {
		if strings.Contains(seg, name) || strings.Contains(name, seg) {
			return true
		}
	}
	return false
}

// pathUpTo returns the path station names strictly before the destination.
func pathUpTo(path, dest string) []string {
	if path == "" {
		return nil
	}
	var out []string
	for _, seg := range strings.Split(path, "|") {
		if dest != "" && (strings.Contains(seg, dest) || strings.Contains(dest, seg)) {
			break
		}
		out = append(out, seg)
	}
	return out
}
