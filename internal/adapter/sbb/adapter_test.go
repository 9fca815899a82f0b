package sbb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shaunakgokhale/trainy/internal/config"
	"github.com/shaunakgokhale/trainy/internal/model"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

const locationsBody = `{
	"stations": [
		{"id": "8503000", "name": "Zürich HB", "coordinate": {"x": 47.377847, "y": 8.540502}},
		{"id": "8503006", "name": "Zürich Oerlikon", "coordinate": null}
	]
}`

const connectionsBody = `{
	"connections": [
		{
			"duration": "00d01:25:00",
			"sections": [{
				"journey": {
					"id": "sbb-ic123", "category": "IC", "number": "123", "operator": "SBB",
					"passList": [
						{"station": {"id": "8500010", "name": "Basel SBB"},
						 "departure": "2026-01-17T14:33:00+0100", "platform": "4"},
						{"station": {"id": "8503000", "name": "Zürich HB"},
						 "arrival": "2026-01-17T15:58:00+0100", "platform": "31",
						 "prognosis": {"platform": "32", "arrival": "2026-01-17T16:01:00+0100"}}
					]
				}
			}]
		},
		{
			"duration": "00d02:10:00",
			"sections": [
				{"journey": {"id": "leg-a", "number": "7", "passList": [{"station": {"id": "1", "name": "A"}}]}},
				{"journey": {"id": "leg-b", "number": "8", "passList": [{"station": {"id": "2", "name": "B"}}]}}
			]
		},
		{
			"duration": "00d00:40:00",
			"sections": [{"journey": null}]
		}
	]
}`

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := &config.ProviderConfig{BaseURL: srv.URL, Country: "CH"}
	return New(cfg, testLogger()).(*Adapter)
}

func TestSearchStations(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/locations" || r.URL.Query().Get("query") != "zürich" {
			t.Errorf("unexpected request %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		w.Write([]byte(locationsBody))
	})

	got, err := a.SearchStations(context.Background(), "zürich")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d stations, want 2", len(got))
	}
	if got[0].Code != "8503000" || got[0].Name != "Zürich HB" || got[0].Lat == 0 {
		t.Errorf("first station = %+v", got[0])
	}
	if got[1].Lat != 0 || got[1].Lon != 0 {
		t.Errorf("missing coordinate must stay zero, got %+v", got[1])
	}
}

func TestSearchJourneysDirectOnly(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("from") != "8500010" || q.Get("to") != "8503000" || q.Get("direct") != "1" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if q.Get("date") != "2026-01-17" || q.Get("time") != "14:00" {
			t.Errorf("unexpected date/time %s %s", q.Get("date"), q.Get("time"))
		}
		w.Write([]byte(connectionsBody))
	})

	when := time.Date(2026, 1, 17, 14, 0, 0, 0, time.UTC)
	got, err := a.SearchJourneys(context.Background(), "8500010", "8503000", when)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("multi-section and walk-only connections must be dropped, got %d", len(got))
	}
	c := got[0]
	if c.TrainNumber != "123" || c.TrainType != "IC" || c.NativeID != "sbb-ic123" {
		t.Errorf("candidate header = %+v", c)
	}
	if c.DurationMinutes != 85 {
		t.Errorf("duration = %d, want 85", c.DurationMinutes)
	}
	if c.Status != model.StatusDelayed {
		t.Errorf("status = %s, want delayed from the prognosis", c.Status)
	}

	dep := c.Stops[0]
	if dep.PlannedPlatform != "4" || dep.ScheduledDeparture == nil {
		t.Errorf("departure stop = %+v", dep)
	}
	arr := c.Stops[1]
	if arr.PlannedPlatform != "31" || arr.ActualPlatform != "32" {
		t.Errorf("arrival platforms = %+v", arr)
	}
	if arr.DelayMinutes != 3 {
		t.Errorf("arrival delay = %d, want 3 from the prognosis", arr.DelayMinutes)
	}
}

func TestJourneyDetails(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/journey" || r.URL.Query().Get("id") != "sbb-ic123" {
			t.Errorf("unexpected request %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		w.Write([]byte(`{"journey": {
			"id": "sbb-ic123", "category": "IC", "number": "123",
			"passList": [
				{"station": {"id": "8500010", "name": "Basel SBB"},
				 "departure": "2026-01-17T14:33:00+0100", "platform": "4", "delay": 2}
			]
		}}`))
	})

	got, err := a.JourneyDetails(context.Background(), "sbb-ic123")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Status != model.StatusDelayed || got.Stops[0].DelayMinutes != 2 {
		t.Fatalf("candidate = %+v", got)
	}
}

func TestJourneyDetailsUnknown(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"journey": null}`))
	})

	got, err := a.JourneyDetails(context.Background(), "nope")
	if err != nil || got != nil {
		t.Errorf("unknown id must yield (nil, nil), got (%v, %v)", got, err)
	}
}

func TestParseDurationMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00d04:03:00", 243},
		{"01d00:30:00", 1470},
		{"00d00:00:00", 0},
		{"garbage", 0},
	}
	for _, c := range cases {
		if got := parseDurationMinutes(c.in); got != c.want {
			t.Errorf("parseDurationMinutes(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}
