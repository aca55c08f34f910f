package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/questlogapp/questlog-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchLibrary",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search library",
		Description: "Full-text search over owned games with genre and platform facets",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// === DTOs ===

// SearchInput contains parameters for searching the library.
type SearchInput struct {
	Query     string `query:"q" minLength:"1" maxLength:"200" doc:"Search query"`
	Genres    string `query:"genres" doc:"Comma-separated genre tags to filter by"`
	Platforms string `query:"platforms" doc:"Comma-separated platforms to filter by"`
	MinRating int    `query:"min_rating" minimum:"0" maximum:"10" doc:"Minimum personal rating"`
	Limit     int    `query:"limit" minimum:"1" maximum:"100" doc:"Max results (default 20)"`
	Offset    int    `query:"offset" minimum:"0" doc:"Pagination offset"`
	SortBy    string `query:"sort_by" enum:",relevance,title,playtime,rating" doc:"Sort order (default relevance)"`
	Facets    bool   `query:"facets" doc:"Include facet counts in the response"`
}

// SearchOutput wraps the search result for huma.
type SearchOutput struct {
	Body search.Result
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	params := search.DefaultParams()
	params.Query = input.Query
	params.Genres = splitCSV(input.Genres)
	params.Platforms = splitCSV(input.Platforms)
	params.MinRating = input.MinRating
	params.IncludeFacets = input.Facets
	if input.Limit > 0 {
		params.Limit = input.Limit
	}
	params.Offset = input.Offset
	if input.SortBy != "" {
		params.SortBy = input.SortBy
	}

	result, err := s.services.Library.Search(ctx, params)
	if err != nil {
		s.logger.Error("search failed", "query", input.Query, "error", err)
		return nil, err
	}
	return &SearchOutput{Body: *result}, nil
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
