package station

import (
	"strings"
	"sync"

	"github.com/shaunakgokhale/trainy/internal/model"
)

// Registry is the canonical station set: read-heavy, mutated only by filling
// in newly learned provider codes. All reads hand out copies; the only write
// path is RecordProviderCode, so concurrent resolutions cannot corrupt it.
type Registry struct {
	mu       sync.RWMutex
	stations map[string]*model.Station
	aliases  map[string]string // normalized alias -> station id
}

func NewRegistry() *Registry {
	return &Registry{
		stations: make(map[string]*model.Station),
		aliases:  make(map[string]string),
	}
}

// Add stores a registered station. Intended for seeding; later provider-code
// discoveries go through RecordProviderCode.
func (r *Registry) Add(st *model.Station) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st.Tier = model.TierRegistered
	r.stations[st.ID] = st
}

// AddAlias maps a common name to a canonical station id.
func (r *Registry) AddAlias(alias, stationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[NormalizeName(alias)] = stationID
}

// Get returns a copy of the station with the given id.
func (r *Registry) Get(id string) (*model.Station, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.stations[id]
	if !ok {
		return nil, false
	}
	return clone(st), true
}

// ByAlias resolves a static alias ("zurich" -> Zürich HB) to its station.
func (r *Registry) ByAlias(query string) (*model.Station, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.aliases[NormalizeName(query)]
	if !ok {
		return nil, false
	}
	st, ok := r.stations[id]
	if !ok {
		return nil, false
	}
	return clone(st), true
}

// ScanByName returns copies of all stations whose display name contains the
// normalized query.
func (r *Registry) ScanByName(query string) []*model.Station {
	q := NormalizeName(query)
	if q == "" {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.Station
	for _, st := range r.stations {
		if strings.Contains(NormalizeName(st.DisplayName), q) {
			out = append(out, clone(st))
		}
	}
	return out
}

// FindByName locates a station by exact or qualifier-tolerant name match.
// Used by enrichment to map a journey stop back onto the canonical set.
func (r *Registry) FindByName(name string) (*model.Station, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := NormalizeName(name)
	for _, st := range r.stations {
		if NormalizeName(st.DisplayName) == n {
			return clone(st), true
		}
	}
	for _, st := range r.stations {
		if NamesOverlap(st.DisplayName, name) {
			return clone(st), true
		}
	}
	return nil, false
}

// RecordProviderCode fills in a provider mapping learned from a search
// result. Existing mappings are never reassigned.
func (r *Registry) RecordProviderCode(stationID string, provider model.ProviderID, code string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.stations[stationID]
	if !ok {
		return false
	}
	return st.SetProviderCode(provider, code)
}

func clone(st *model.Station) *model.Station {
	c := *st
	c.ProviderIDs = make(map[model.ProviderID]string, len(st.ProviderIDs))
	for p, code := range st.ProviderIDs {
		c.ProviderIDs[p] = code
	}
	return &c
}
