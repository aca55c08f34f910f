package search

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Params configures a library search.
type Params struct {
	Query string // user's search text

	// Filters
	Genres      []string // exact genre tags, OR across values
	Platforms   []string // exact platform names, OR across values
	MinPlaytime int      // minimum playtime in minutes
	MaxPlaytime int      // maximum playtime in minutes
	MinRating   int      // minimum personal rating

	// Pagination
	Limit  int
	Offset int

	// Sorting
	SortBy    string // "relevance", "title", "playtime", "rating"
	SortOrder string // "asc", "desc"

	// Options
	IncludeFacets bool
	Highlight     bool
}

// DefaultParams returns sensible defaults.
func DefaultParams() Params {
	return Params{
		Limit:         20,
		Offset:        0,
		SortBy:        "relevance",
		SortOrder:     "desc",
		IncludeFacets: true,
		Highlight:     true,
	}
}

// Result is a page of search hits.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
	Facets Facets `json:"facets,omitempty"`
}

// Hit is a single matched game.
type Hit struct {
	ID              string            `json:"id"`
	Score           float64           `json:"score"`
	Name            string            `json:"name"`
	IGDBID          int64             `json:"igdb_id,omitempty"`
	Genres          []string          `json:"genres,omitempty"`
	Platforms       []string          `json:"platforms,omitempty"`
	Developers      []string          `json:"developers,omitempty"`
	PlaytimeMinutes int               `json:"playtime_minutes,omitempty"`
	Rating          int               `json:"rating,omitempty"`
	CoverURL        string            `json:"cover_url,omitempty"`
	Highlights      map[string]string `json:"highlights,omitempty"`
}

// Facets holds tag counts over the matched set.
type Facets struct {
	Genres    []FacetCount `json:"genres,omitempty"`
	Platforms []FacetCount `json:"platforms,omitempty"`
}

// FacetCount is one facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search executes a library search.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	searchQuery := buildSearchQuery(params)
	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)

	addSorting(searchRequest, params)

	if params.IncludeFacets {
		searchRequest.AddFacet("genres", bleve.NewFacetRequest("genres", 20))
		searchRequest.AddFacet("platforms", bleve.NewFacetRequest("platforms", 10))
	}

	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("name")
		searchRequest.Highlight.AddField("developers")
	}

	searchRequest.Fields = []string{
		"id", "name", "igdb_id", "genres", "platforms", "developers",
		"playtime_minutes", "rating", "cover_url",
	}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		h := Hit{
			ID:    hit.ID,
			Score: hit.Score,
		}

		if n, ok := hit.Fields["name"].(string); ok {
			h.Name = n
		}
		if id, ok := hit.Fields["igdb_id"].(float64); ok {
			h.IGDBID = int64(id)
		}
		h.Genres = fieldStrings(hit.Fields["genres"])
		h.Platforms = fieldStrings(hit.Fields["platforms"])
		h.Developers = fieldStrings(hit.Fields["developers"])
		if p, ok := hit.Fields["playtime_minutes"].(float64); ok {
			h.PlaytimeMinutes = int(p)
		}
		if r, ok := hit.Fields["rating"].(float64); ok {
			h.Rating = int(r)
		}
		if c, ok := hit.Fields["cover_url"].(string); ok {
			h.CoverURL = c
		}

		if len(hit.Fragments) > 0 {
			h.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					h.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, h)
	}

	if params.IncludeFacets {
		result.Facets = extractFacets(searchResult)
	}

	return result, nil
}

// fieldStrings normalizes a stored field that Bleve returns as either a
// bare string or a []interface{} depending on cardinality.
func fieldStrings(v interface{}) []string {
	switch f := v.(type) {
	case string:
		return []string{f}
	case []interface{}:
		out := make([]string, 0, len(f))
		for _, e := range f {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// buildSearchQuery constructs the Bleve query from params. The text query
// matches titles first, then developers and summaries, with fuzzy and
// prefix variants for typo tolerance and autocomplete.
func buildSearchQuery(params Params) query.Query {
	var queries []query.Query

	if params.Query != "" {
		textQueries := []query.Query{}

		nameMatch := bleve.NewMatchQuery(params.Query)
		nameMatch.SetField("name")
		nameMatch.SetBoost(3.0)
		textQueries = append(textQueries, nameMatch)

		devMatch := bleve.NewMatchQuery(params.Query)
		devMatch.SetField("developers")
		devMatch.SetBoost(1.5)
		textQueries = append(textQueries, devMatch)

		summaryMatch := bleve.NewMatchQuery(params.Query)
		summaryMatch.SetField("summary")
		summaryMatch.SetBoost(0.5)
		textQueries = append(textQueries, summaryMatch)

		fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("name")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		if len(params.Query) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefixQuery.SetField("name")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if len(params.Genres) > 0 {
		genreQueries := make([]query.Query, len(params.Genres))
		for i, g := range params.Genres {
			gq := bleve.NewTermQuery(g)
			gq.SetField("genres")
			genreQueries[i] = gq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(genreQueries...))
	}

	if len(params.Platforms) > 0 {
		platformQueries := make([]query.Query, len(params.Platforms))
		for i, p := range params.Platforms {
			pq := bleve.NewTermQuery(p)
			pq.SetField("platforms")
			platformQueries[i] = pq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(platformQueries...))
	}

	if params.MinPlaytime > 0 || params.MaxPlaytime > 0 {
		min := float64(params.MinPlaytime)
		max := float64(params.MaxPlaytime)
		if params.MaxPlaytime == 0 {
			max = math.MaxFloat64
		}
		rangeQuery := bleve.NewNumericRangeQuery(&min, &max)
		rangeQuery.SetField("playtime_minutes")
		queries = append(queries, rangeQuery)
	}

	if params.MinRating > 0 {
		min := float64(params.MinRating)
		max := 10.0
		rangeQuery := bleve.NewNumericRangeQuery(&min, &max)
		rangeQuery.SetField("rating")
		queries = append(queries, rangeQuery)
	}

	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

func addSorting(req *bleve.SearchRequest, params Params) {
	switch params.SortBy {
	case "title", "name":
		if params.SortOrder == "desc" {
			req.SortBy([]string{"-name"})
		} else {
			req.SortBy([]string{"name"})
		}
	case "playtime":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"playtime_minutes"})
		} else {
			req.SortBy([]string{"-playtime_minutes"})
		}
	case "rating":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"rating", "name"})
		} else {
			req.SortBy([]string{"-rating", "name"})
		}
	default:
		req.SortBy([]string{"-_score"})
	}
}

func extractFacets(result *bleve.SearchResult) Facets {
	facets := Facets{}

	if genreFacet, ok := result.Facets["genres"]; ok {
		for _, term := range genreFacet.Terms.Terms() {
			facets.Genres = append(facets.Genres, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	if platformFacet, ok := result.Facets["platforms"]; ok {
		for _, term := range platformFacet.Terms.Terms() {
			facets.Platforms = append(facets.Platforms, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	return facets
}
