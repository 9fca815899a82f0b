package model

import (
	"fmt"
	"math"
	"time"
)

// JourneyStatus is the lifecycle status of a journey. Within one merge pass
// the status only escalates away from scheduled, never back.
type JourneyStatus string

const (
	StatusScheduled JourneyStatus = "scheduled"
	StatusDelayed   JourneyStatus = "delayed"
	StatusCancelled JourneyStatus = "cancelled"
	StatusDeparted  JourneyStatus = "departed"
	StatusArrived   JourneyStatus = "arrived"
)

// Stop is one halt of a journey as reported by a single provider.
type Stop struct {
	StationName        string     `json:"station_name"`
	StationCode        string     `json:"station_code,omitempty"`
	Country            string     `json:"country,omitempty"`
	ScheduledArrival   *time.Time `json:"scheduled_arrival,omitempty"`
	ActualArrival      *time.Time `json:"actual_arrival,omitempty"`
	ScheduledDeparture *time.Time `json:"scheduled_departure,omitempty"`
	ActualDeparture    *time.Time `json:"actual_departure,omitempty"`
	PlannedPlatform    string     `json:"planned_platform,omitempty"`
	ActualPlatform     string     `json:"actual_platform,omitempty"`
	DelayMinutes       int        `json:"delay_minutes,omitempty"`
	Cancelled          bool       `json:"cancelled,omitempty"`
}

// HasPlatform reports whether the stop carries any platform information.
func (s *Stop) HasPlatform() bool {
	return s.PlannedPlatform != "" || s.ActualPlatform != ""
}

// RawJourneyCandidate is a journey exactly as one provider returned it,
// tagged with its source. NativeID is the provider's own journey identifier,
// retained so the journey can be re-queried for a realtime refresh.
type RawJourneyCandidate struct {
	Source          ProviderID    `json:"source"`
	NativeID        string        `json:"native_id"`
	TrainNumber     string        `json:"train_number"`
	TrainType       string        `json:"train_type"`
	Operator        string        `json:"operator,omitempty"`
	Status          JourneyStatus `json:"status"`
	Stops           []Stop        `json:"stops"`
	DurationMinutes int           `json:"duration_minutes"`
}

// Departure returns the first stop, or nil for an empty candidate.
func (c *RawJourneyCandidate) Departure() *Stop {
	if len(c.Stops) == 0 {
		return nil
	}
	return &c.Stops[0]
}

// Arrival returns the last stop, or nil for an empty candidate.
func (c *RawJourneyCandidate) Arrival() *Stop {
	if len(c.Stops) == 0 {
		return nil
	}
	return &c.Stops[len(c.Stops)-1]
}

// MatchSet groups raw candidates believed to be the same physical train.
type MatchSet struct {
	Candidates []*RawJourneyCandidate
	Sources    []ProviderID
	NativeIDs  map[ProviderID]string
}

// Add appends a candidate, recording its source and native journey id.
func (m *MatchSet) Add(c *RawJourneyCandidate) {
	m.Candidates = append(m.Candidates, c)
	if m.NativeIDs == nil {
		m.NativeIDs = make(map[ProviderID]string)
	}
	for _, s := range m.Sources {
		if s == c.Source {
			if _, ok := m.NativeIDs[c.Source]; !ok && c.NativeID != "" {
				m.NativeIDs[c.Source] = c.NativeID
			}
			return
		}
	}
	m.Sources = append(m.Sources, c.Source)
	if c.NativeID != "" {
		m.NativeIDs[c.Source] = c.NativeID
	}
}

// MergedStop is a stop of the canonical journey. Source records which
// provider's data is currently authoritative for this specific stop; it can
// diverge from the journey-level Sources list after enrichment.
type MergedStop struct {
	Stop
	Source ProviderID `json:"source"`
}

// MergedJourney is the canonical, cross-provider journey record.
type MergedJourney struct {
	ID                   string                `json:"id,omitempty"`
	TrainNumber          string                `json:"train_number"`
	TrainType            string                `json:"train_type"`
	Operator             string                `json:"operator,omitempty"`
	OriginStationID      string                `json:"origin_station_id"`
	OriginName           string                `json:"origin_name"`
	DestinationStationID string                `json:"destination_station_id"`
	DestinationName      string                `json:"destination_name"`
	ScheduledDeparture   time.Time             `json:"scheduled_departure"`
	ScheduledArrival     time.Time             `json:"scheduled_arrival"`
	DurationMinutes      int                   `json:"duration_minutes"`
	Status               JourneyStatus         `json:"status"`
	Sources              []ProviderID          `json:"sources"`
	NativeIDs            map[ProviderID]string `json:"native_ids,omitempty"`
	Stops                []MergedStop          `json:"stops"`
}

// Key is the durable idempotency key used for the persistence upsert. It is
// deliberately distinct from the fuzzy in-memory key the matcher uses.
func (j *MergedJourney) Key() string {
	return fmt.Sprintf("%s%s_%s_%s",
		j.TrainType, j.TrainNumber, j.OriginStationID,
		j.ScheduledDeparture.Truncate(time.Second).Format(time.RFC3339))
}

// ComputeDelayMinutes rounds the actual-vs-scheduled difference to whole
// minutes. Early or on-time is reported as zero; negative delays are not
// surfaced.
func ComputeDelayMinutes(scheduled, actual *time.Time) int {
	if scheduled == nil || actual == nil {
		return 0
	}
	d := int(math.Round(float64(actual.Sub(*scheduled).Milliseconds()) / 60000.0))
	if d <= 0 {
		return 0
	}
	return d
}

// RealtimePatch carries the per-stop fields a realtime refresh may overwrite
// on an already-persisted journey.
type RealtimePatch struct {
	Status JourneyStatus
	Stops  []StopPatch
}

// StopPatch targets a stored stop by station name or native code.
type StopPatch struct {
	StationName     string
	StationCode     string
	DelayMinutes    *int
	PlannedPlatform *string
	ActualPlatform  *string
	Cancelled       *bool
}
