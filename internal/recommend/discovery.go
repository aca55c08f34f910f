package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/questlogapp/questlog-server/internal/domain"
	"github.com/questlogapp/questlog-server/internal/normalize"
	"github.com/questlogapp/questlog-server/internal/store"
)

const (
	// maxCandidatePool caps the similarity graph before hydration.
	maxCandidatePool = 200
	// hydrateBatchSize is how many catalog ids one lookup resolves.
	hydrateBatchSize = 40
	// pricedResults is how many leading results get deal prices attached.
	pricedResults = 9
	// fallbackThreshold triggers the top-rated fallback when the
	// similarity graph produced too few results.
	fallbackThreshold = 5
)

// Discover proposes new titles the user does not own, mined from the
// catalog's similarity graph around their most played games. genreFilter
// narrows both the seed games and the candidates; platform narrows the
// seeds to one storefront and the candidates to its catalog platforms.
func (e *Engine) Discover(ctx context.Context, genreFilter, platform string, limit int) ([]*domain.DiscoveryResult, error) {
	if strings.EqualFold(genreFilter, "all") {
		genreFilter = ""
	}

	p, err := e.BuildProfile(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}

	sources, err := e.discoverySources(ctx, genreFilter, platform)
	if err != nil {
		return nil, err
	}
	if len(sources) > 10 {
		sources = sources[:10]
	}
	e.shuffle(len(sources), func(i, j int) {
		sources[i], sources[j] = sources[j], sources[i]
	})

	ownedIDs, err := e.store.OwnedIGDBIDs(ctx)
	if err != nil {
		return nil, err
	}
	ownedTitles, err := e.store.OwnedNormalizedTitles(ctx)
	if err != nil {
		return nil, err
	}
	ignored, err := e.store.IgnoredIDs(ctx)
	if err != nil {
		return nil, err
	}

	// Mine similar games, accumulating each source's weight on its
	// neighbors. A candidate adjacent to several heavy sources rises.
	weights := make(map[int64]float64)
	sourceTitles := make(map[int64][]string)
	for _, src := range sources {
		weight := sourceWeight(src.PlaytimeMinutes, src.Rating, src.Genres, genreFilter)
		similar, err := e.catalog.SimilarIDs(ctx, src.IGDBID)
		if err != nil {
			e.logger.Warn("similar games lookup failed",
				"igdb_id", src.IGDBID, "title", src.Title, "error", err)
			continue
		}
		for _, id := range similar {
			if _, owned := ownedIDs[id]; owned {
				continue
			}
			if _, skip := ignored[id]; skip {
				continue
			}
			weights[id] += weight
			if !containsString(sourceTitles[id], src.Title) {
				sourceTitles[id] = append(sourceTitles[id], src.Title)
			}
		}
	}

	pool := rankCandidatePool(weights)
	results := e.hydrate(ctx, pool, sourceTitles, genreFilter, platform, limit, ownedTitles, ignored)

	if len(results) < fallbackThreshold {
		results = e.fallback(ctx, p, results, genreFilter, platform, limit, ownedIDs, ownedTitles, ignored)
	}
	return results, nil
}

// discoverySources picks the played games that seed the similarity walk.
// A genre filter prefers seeds in that genre but pads with generally
// engaged games when they run thin.
func (e *Engine) discoverySources(ctx context.Context, genreFilter, platform string) ([]*sourceSeed, error) {
	var seeds []*sourceSeed
	if genreFilter != "" {
		rows, err := e.store.SourceRowsByGenre(ctx, genreFilter, platform, 10)
		if err != nil {
			return nil, err
		}
		seeds = toSeeds(rows)
		if len(seeds) < 6 {
			general, err := e.store.SourceRowsGeneral(ctx, platform, 15)
			if err != nil {
				return nil, err
			}
			seen := make(map[int64]struct{}, len(seeds))
			for _, s := range seeds {
				seen[s.IGDBID] = struct{}{}
			}
			for _, s := range toSeeds(general) {
				if _, ok := seen[s.IGDBID]; ok {
					continue
				}
				seeds = append(seeds, s)
			}
		}
		return seeds, nil
	}

	rows, err := e.store.SourceRowsGeneral(ctx, platform, 15)
	if err != nil {
		return nil, err
	}
	return toSeeds(rows), nil
}

type sourceSeed struct {
	IGDBID          int64
	Title           string
	Genres          []string
	PlaytimeMinutes int
	Rating          int
}

func toSeeds(rows []*store.SourceRow) []*sourceSeed {
	seeds := make([]*sourceSeed, 0, len(rows))
	for _, r := range rows {
		seeds = append(seeds, &sourceSeed{
			IGDBID:          r.IGDBID,
			Title:           r.Title,
			Genres:          r.Genres,
			PlaytimeMinutes: r.PlaytimeMinutes,
			Rating:          r.Rating,
		})
	}
	return seeds
}

// sourceWeight sizes a seed's influence: log-damped playtime, boosted for
// loved games, halved for panned ones, boosted again when the seed itself
// matches the active genre filter.
func sourceWeight(playtimeMinutes, rating int, genres []string, genreFilter string) float64 {
	weight := math.Log1p(float64(playtimeMinutes) + 1)
	if rating >= 8 {
		weight *= 1.5
	} else if rating >= 1 && rating <= 5 {
		weight *= 0.5
	}
	if genreFilter != "" {
		joined := strings.ToLower(strings.Join(genres, ","))
		if strings.Contains(joined, strings.ToLower(genreFilter)) {
			weight *= 1.5
		}
	}
	return weight
}

// rankCandidatePool orders mined candidates by accumulated weight, id as
// the tie break, capped to the hydration budget.
func rankCandidatePool(weights map[int64]float64) []int64 {
	pool := make([]int64, 0, len(weights))
	for id := range weights {
		pool = append(pool, id)
	}
	sort.Slice(pool, func(i, j int) bool {
		if weights[pool[i]] != weights[pool[j]] {
			return weights[pool[i]] > weights[pool[j]]
		}
		return pool[i] < pool[j]
	})
	if len(pool) > maxCandidatePool {
		pool = pool[:maxCandidatePool]
	}
	return pool
}

func (e *Engine) hydrate(
	ctx context.Context,
	pool []int64,
	sourceTitles map[int64][]string,
	genreFilter, platform string,
	limit int,
	ownedTitles map[string]struct{},
	ignored map[int64]struct{},
) []*domain.DiscoveryResult {
	var results []*domain.DiscoveryResult
	for start := 0; start < len(pool) && len(results) < limit; start += hydrateBatchSize {
		end := start + hydrateBatchSize
		if end > len(pool) {
			end = len(pool)
		}
		candidates, err := e.catalog.GetCandidates(ctx, pool[start:end], genreFilter, platform)
		if err != nil {
			e.logger.Warn("candidate hydration failed", "batch", start/hydrateBatchSize, "error", err)
			continue
		}
		for _, c := range candidates {
			if _, owned := ownedTitles[normalize.Title(c.Title)]; owned {
				continue
			}
			if _, skip := ignored[c.IGDBID]; skip {
				continue
			}
			result := &domain.DiscoveryResult{
				IGDBID:   c.IGDBID,
				Title:    c.Title,
				Summary:  c.Summary,
				Rating:   c.Rating,
				Genres:   c.Genres,
				CoverURL: c.CoverURL,
			}
			if titles := sourceTitles[c.IGDBID]; len(titles) > 0 {
				if len(titles) > 3 {
					titles = titles[:3]
				}
				result.BasedOn = strings.Join(titles, ", ")
			}
			if len(results) < pricedResults && e.pricer != nil {
				result.Prices = e.pricer.Prices(ctx, c.Title)
			}
			results = append(results, result)
			if len(results) >= limit {
				break
			}
		}
	}
	return results
}

// fallback pads thin discovery output with critically acclaimed games from
// the filtered genre, or from the profile's top genre when no filter is set.
func (e *Engine) fallback(
	ctx context.Context,
	p *domain.Profile,
	results []*domain.DiscoveryResult,
	genreFilter, platform string,
	limit int,
	ownedIDs map[int64]struct{},
	ownedTitles map[string]struct{},
	ignored map[int64]struct{},
) []*domain.DiscoveryResult {
	genre := genreFilter
	if genre == "" {
		genre, _ = p.Genres.Top()
	}
	if genre == "" {
		return results
	}

	needed := limit - len(results)
	candidates, err := e.catalog.TopRatedByGenre(ctx, genre, platform, needed*3)
	if err != nil {
		e.logger.Warn("top rated fallback failed", "genre", genre, "error", err)
		return results
	}

	inResults := make(map[int64]struct{}, len(results))
	for _, r := range results {
		inResults[r.IGDBID] = struct{}{}
	}
	basedOn := fmt.Sprintf("Top Rated in %s", genre)
	for _, c := range candidates {
		if _, ok := inResults[c.IGDBID]; ok {
			continue
		}
		if _, owned := ownedIDs[c.IGDBID]; owned {
			continue
		}
		if _, owned := ownedTitles[normalize.Title(c.Title)]; owned {
			continue
		}
		if _, skip := ignored[c.IGDBID]; skip {
			continue
		}
		result := &domain.DiscoveryResult{
			IGDBID:   c.IGDBID,
			Title:    c.Title,
			Summary:  c.Summary,
			Rating:   c.Rating,
			Genres:   c.Genres,
			CoverURL: c.CoverURL,
			BasedOn:  basedOn,
		}
		if len(results) < pricedResults && e.pricer != nil {
			result.Prices = e.pricer.Prices(ctx, c.Title)
		}
		results = append(results, result)
		if len(results) >= limit {
			break
		}
	}
	return results
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
