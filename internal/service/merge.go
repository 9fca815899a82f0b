package service

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/shaunakgokhale/trainy/internal/model"
)

// Merger reduces a match set into one canonical journey under the
// field-authority policy: the provider whose home country matches a stop's
// country wins for that stop, longer stop lists win wholesale, and status
// only escalates.
type Merger struct {
	providers ProviderDirectory
	logger    *logrus.Logger
}

func NewMerger(providers ProviderDirectory, logger *logrus.Logger) *Merger {
	return &Merger{providers: providers, logger: logger}
}

// Merge folds every candidate of the set, in arrival order, onto the first
// one. The rules are commutative enough that the output should not depend
// on provider completion order.
func (m *Merger) Merge(set *model.MatchSet, origin, dest *model.Station) *model.MergedJourney {
	if set == nil || len(set.Candidates) == 0 {
		return nil
	}
	j := m.journeyFromCandidate(set.Candidates[0], origin, dest)
	for _, c := range set.Candidates[1:] {
		m.apply(j, c, origin, dest)
	}

	j.Sources = append([]model.ProviderID(nil), set.Sources...)
	j.NativeIDs = make(map[model.ProviderID]string, len(set.NativeIDs))
	for p, id := range set.NativeIDs {
		j.NativeIDs[p] = id
	}
	return j
}

func (m *Merger) journeyFromCandidate(c *model.RawJourneyCandidate, origin, dest *model.Station) *model.MergedJourney {
	j := &model.MergedJourney{
		TrainNumber:          c.TrainNumber,
		TrainType:            c.TrainType,
		Operator:             c.Operator,
		OriginStationID:      origin.ID,
		OriginName:           origin.DisplayName,
		DestinationStationID: dest.ID,
		DestinationName:      dest.DisplayName,
		DurationMinutes:      c.DurationMinutes,
		Status:               c.Status,
		Stops:                stopsFrom(c),
	}
	if d := c.Departure(); d != nil && d.ScheduledDeparture != nil {
		j.ScheduledDeparture = *d.ScheduledDeparture
	}
	if a := c.Arrival(); a != nil && a.ScheduledArrival != nil {
		j.ScheduledArrival = *a.ScheduledArrival
	}
	return j
}

// apply folds one further candidate from provider c.Source onto the merged
// journey.
func (m *Merger) apply(j *model.MergedJourney, c *model.RawJourneyCandidate, origin, dest *model.Station) {
	if len(c.Stops) == 0 {
		return
	}

	// Departure stop: when the provider is authoritative for the origin
	// country and brings platform data the merged stop lacks, its whole
	// stop is adopted, not just the platform field.
	if m.authoritativeFor(c.Source, origin.Country) && len(j.Stops) > 0 {
		if dep := c.Departure(); dep != nil && dep.HasPlatform() && !j.Stops[0].HasPlatform() {
			j.Stops[0] = model.MergedStop{Stop: *dep, Source: c.Source}
		}
	}
	if m.authoritativeFor(c.Source, dest.Country) && len(j.Stops) > 0 {
		if arr := c.Arrival(); arr != nil && arr.HasPlatform() && !j.Stops[len(j.Stops)-1].HasPlatform() {
			j.Stops[len(j.Stops)-1] = model.MergedStop{Stop: *arr, Source: c.Source}
		}
	}

	// Stop list completeness: a strictly longer list replaces the whole
	// list. Count decides, there is no accuracy weighting.
	if len(c.Stops) > len(j.Stops) {
		j.Stops = stopsFrom(c)
	} else {
		for i := range j.Stops {
			if j.Stops[i].HasPlatform() {
				continue
			}
			if other := findStopByName(c, j.Stops[i].StationName); other != nil && other.HasPlatform() {
				j.Stops[i].PlannedPlatform = other.PlannedPlatform
				j.Stops[i].ActualPlatform = other.ActualPlatform
			}
		}
	}

	// Status is monotonic within a merge: once escalated away from
	// scheduled, it is never downgraded back.
	if c.Status != model.StatusScheduled && j.Status == model.StatusScheduled {
		j.Status = c.Status
	}

	if j.DurationMinutes == 0 && c.DurationMinutes > 0 {
		j.DurationMinutes = c.DurationMinutes
	}
}

func (m *Merger) authoritativeFor(p model.ProviderID, country string) bool {
	a, ok := m.providers.Get(p)
	return ok && a.Country() == country
}

func stopsFrom(c *model.RawJourneyCandidate) []model.MergedStop {
	out := make([]model.MergedStop, 0, len(c.Stops))
	for _, s := range c.Stops {
		out = append(out, model.MergedStop{Stop: s, Source: c.Source})
	}
	return out
}

func findStopByName(c *model.RawJourneyCandidate, name string) *model.Stop {
	for i := range c.Stops {
		if strings.EqualFold(c.Stops[i].StationName, name) {
			return &c.Stops[i]
		}
	}
	return nil
}
