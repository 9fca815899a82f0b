package model

// ProviderID identifies one per-country railway data source.
type ProviderID string

const (
	ProviderNS    ProviderID = "ns"    // Nederlandse Spoorwegen (NL)
	ProviderDBahn ProviderID = "dbahn" // Deutsche Bahn (DE)
	ProviderSBB   ProviderID = "sbb"   // Swiss federal railways (CH)
)

// StationTier separates durable registry stations from stations synthesized
// on the fly out of a provider search hit.
type StationTier string

const (
	TierRegistered StationTier = "registered"
	TierDiscovered StationTier = "discovered"
)

// Station is the canonical cross-provider station entity. ProviderIDs maps a
// provider to that provider's native station code; the map is partial and
// additive only.
type Station struct {
	ID          string                `json:"id"`
	DisplayName string                `json:"display_name"`
	Country     string                `json:"country"`
	Lat         float64               `json:"lat,omitempty"`
	Lon         float64               `json:"lon,omitempty"`
	Tier        StationTier           `json:"tier"`
	ProviderIDs map[ProviderID]string `json:"provider_ids"`
}

// ProviderCode returns the station's native code at the given provider, or
// "" when the mapping is unknown.
func (s *Station) ProviderCode(p ProviderID) string {
	if s == nil || s.ProviderIDs == nil {
		return ""
	}
	return s.ProviderIDs[p]
}

// SetProviderCode fills in a missing provider mapping. An existing mapping is
// never overwritten; it reports whether the code was stored.
func (s *Station) SetProviderCode(p ProviderID, code string) bool {
	if code == "" {
		return false
	}
	if s.ProviderIDs == nil {
		s.ProviderIDs = make(map[ProviderID]string)
	}
	if _, ok := s.ProviderIDs[p]; ok {
		return false
	}
	s.ProviderIDs[p] = code
	return true
}

// HasProviderCode reports whether any provider maps the given native code to
// this station.
func (s *Station) HasProviderCode(code string) bool {
	if code == "" {
		return false
	}
	for _, c := range s.ProviderIDs {
		if c == code {
			return true
		}
	}
	return false
}

// ProviderStation is a raw station search hit from a single provider, before
// it is folded into a canonical Station.
type ProviderStation struct {
	Code    string  `json:"code"`
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat,omitempty"`
	Lon     float64 `json:"lon,omitempty"`
}
