package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shaunakgokhale/trainy/internal/interfaces"
	"github.com/shaunakgokhale/trainy/internal/model"
	"github.com/shaunakgokhale/trainy/internal/station"
)

// Resolver maps a free-text query to canonical stations, folding each
// provider's raw hits into one record per physical station.
type Resolver struct {
	registry  *station.Registry
	providers ProviderDirectory
	logger    *logrus.Logger
}

func NewResolver(registry *station.Registry, providers ProviderDirectory, logger *logrus.Logger) *Resolver {
	return &Resolver{registry: registry, providers: providers, logger: logger}
}

// Resolve returns candidate stations for a query, best match first. A single
// provider's search failing degrades to an empty contribution from that
// provider; it never fails the resolution.
func (r *Resolver) Resolve(ctx context.Context, query string) []*model.Station {
	q := station.NormalizeName(query)
	if q == "" {
		return nil
	}

	if st, ok := r.registry.ByAlias(q); ok {
		return []*model.Station{st}
	}

	collected := r.registry.ScanByName(q)

	for _, res := range r.searchAllProviders(ctx, query) {
		for _, hit := range res.hits {
			r.fold(&collected, res.provider, res.country, hit)
		}
	}

	sortStations(collected, q)
	return collected
}

type providerHits struct {
	provider model.ProviderID
	country  string
	hits     []model.ProviderStation
}

// searchAllProviders queries every active provider's station search
// concurrently and joins all results.
func (r *Resolver) searchAllProviders(ctx context.Context, query string) []providerHits {
	adapters := r.providers.All()
	results := make([]providerHits, len(adapters))
	var wg sync.WaitGroup
	for i, a := range adapters {
		wg.Add(1)
		go func(i int, a interfaces.ProviderAdapter) {
			defer wg.Done()
			hits, err := a.SearchStations(ctx, query)
			if err != nil {
				r.logger.WithError(err).WithField("provider", a.ID()).Warn("provider station search failed")
				results[i] = providerHits{provider: a.ID(), country: a.Country()}
				return
			}
			results[i] = providerHits{provider: a.ID(), country: a.Country(), hits: hits}
		}(i, a)
	}
	wg.Wait()
	return results
}

// fold merges one provider hit into the collected set, by exact normalized
// name, then shared native identifier, then qualifier-tolerant containment.
// Hits with no fold target become a new Discovered station.
func (r *Resolver) fold(collected *[]*model.Station, provider model.ProviderID, providerCountry string, hit model.ProviderStation) {
	hitName := station.NormalizeName(hit.Name)

	var target *model.Station
	for _, st := range *collected {
		if station.NormalizeName(st.DisplayName) == hitName {
			target = st
			break
		}
	}
	if target == nil {
		// Identifier match: the hit's native code is already recorded for
		// another provider on some collected station. Catches spelling
		// variants that share a numeric code.
		for _, st := range *collected {
			if st.HasProviderCode(hit.Code) {
				target = st
				break
			}
		}
	}
	if target == nil {
		for _, st := range *collected {
			if station.NamesOverlap(st.DisplayName, hit.Name) {
				target = st
				break
			}
		}
	}

	if target != nil {
		if target.SetProviderCode(provider, hit.Code) && target.Tier == model.TierRegistered {
			// Learned a new mapping for a canonical station; keep it.
			r.registry.RecordProviderCode(target.ID, provider, hit.Code)
		}
		return
	}

	country := hit.Country
	if country == "" {
		country = providerCountry
	}
	*collected = append(*collected, &model.Station{
		ID:          uuid.New().String(),
		DisplayName: hit.Name,
		Country:     country,
		Lat:         hit.Lat,
		Lon:         hit.Lon,
		Tier:        model.TierDiscovered,
		ProviderIDs: map[model.ProviderID]string{provider: hit.Code},
	})
}

// sortStations orders results: stations known to more providers first, then
// exact-prefix matches, then alphabetically.
func sortStations(stations []*model.Station, normalizedQuery string) {
	sort.SliceStable(stations, func(i, j int) bool {
		a, b := stations[i], stations[j]
		if len(a.ProviderIDs) != len(b.ProviderIDs) {
			return len(a.ProviderIDs) > len(b.ProviderIDs)
		}
		ap := strings.HasPrefix(station.NormalizeName(a.DisplayName), normalizedQuery)
		bp := strings.HasPrefix(station.NormalizeName(b.DisplayName), normalizedQuery)
		if ap != bp {
			return ap
		}
		return a.DisplayName < b.DisplayName
	})
}
