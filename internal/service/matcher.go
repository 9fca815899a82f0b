package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shaunakgokhale/trainy/internal/model"
	"github.com/shaunakgokhale/trainy/internal/station"
)

const (
	// departureBucket rounds scheduled departures for the primary match
	// key; providers disagree on exact minutes across borders.
	departureBucket = 5 * time.Minute
	// arrivalTolerance is the window for the secondary (fuzzy) key.
	arrivalTolerance = 20 * time.Minute
)

// Matcher groups raw candidates from different providers that represent the
// same physical train. There is no shared identifier, so identity is
// inferred: a primary key on train identity plus a bucketed departure time,
// and a fuzzy secondary key for candidates where providers disagree on
// destination naming or exact schedule.
type Matcher struct {
	logger *logrus.Logger
}

func NewMatcher(logger *logrus.Logger) *Matcher {
	return &Matcher{logger: logger}
}

// Match folds candidates into match sets. Unmatched candidates become
// singleton sets.
func (m *Matcher) Match(candidates []*model.RawJourneyCandidate) []*model.MatchSet {
	var sets []*model.MatchSet
	byPrimary := make(map[string]*model.MatchSet)

	for _, c := range candidates {
		key := primaryKey(c)
		if set, ok := byPrimary[key]; ok {
			set.Add(c)
			continue
		}
		if set := m.secondaryMatch(sets, c); set != nil {
			set.Add(c)
			byPrimary[key] = set
			continue
		}
		set := &model.MatchSet{}
		set.Add(c)
		sets = append(sets, set)
		byPrimary[key] = set
	}
	return sets
}

// primaryKey is normalized train identity plus the departure rounded to the
// nearest five-minute bucket.
func primaryKey(c *model.RawJourneyCandidate) string {
	ident := normalizeTrainIdent(c.TrainType + c.TrainNumber)
	var dep int64
	if d := c.Departure(); d != nil && d.ScheduledDeparture != nil {
		dep = d.ScheduledDeparture.Round(departureBucket).Unix()
	}
	return fmt.Sprintf("%s|%d", ident, dep)
}

func normalizeTrainIdent(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// secondaryMatch finds an existing set the candidate plausibly belongs to:
// same train number, arrivals within tolerance, and destination names that
// overlap (or matching native codes). The first plausible set wins; there is
// no scoring among ties.
func (m *Matcher) secondaryMatch(sets []*model.MatchSet, c *model.RawJourneyCandidate) *model.MatchSet {
	arr := c.Arrival()
	if arr == nil || arr.ScheduledArrival == nil || c.TrainNumber == "" {
		return nil
	}
	for _, set := range sets {
		ref := set.Candidates[0]
		if normalizeTrainIdent(ref.TrainNumber) != normalizeTrainIdent(c.TrainNumber) {
			continue
		}
		refArr := ref.Arrival()
		if refArr == nil || refArr.ScheduledArrival == nil {
			continue
		}
		diff := refArr.ScheduledArrival.Sub(*arr.ScheduledArrival)
		if diff < 0 {
			diff = -diff
		}
		if diff > arrivalTolerance {
			continue
		}
		if station.NamesOverlap(refArr.StationName, arr.StationName) ||
			(arr.StationCode != "" && arr.StationCode == refArr.StationCode) {
			m.logger.WithFields(logrus.Fields{
				"train":       c.TrainNumber,
				"candidate":   arr.StationName,
				"matched_set": refArr.StationName,
			}).Debug("secondary key match")
			return set
		}
	}
	return nil
}
