package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/questlogapp/questlog-server/internal/domain"
)

func (s *Server) registerRecommendationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "analyzeGame",
		Method:      http.MethodGet,
		Path:        "/api/v1/analyze",
		Summary:     "Analyze a game",
		Description: "Scores a game against the taste profile and explains the verdict. Accepts an igdb_id or a title; owned games resolve locally, unknown ones are fetched from the catalog.",
		Tags:        []string{"Recommendations"},
	}, s.handleAnalyze)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBacklog",
		Method:      http.MethodGet,
		Path:        "/api/v1/backlog",
		Summary:     "Rank the backlog",
		Description: "Returns unplayed owned games ranked by fit against the taste profile",
		Tags:        []string{"Recommendations"},
	}, s.handleBacklog)

	huma.Register(s.api, huma.Operation{
		OperationID: "discoverGames",
		Method:      http.MethodGet,
		Path:        "/api/v1/discover",
		Summary:     "Discover new games",
		Description: "Proposes unowned titles mined from catalog similarity around the most played games, with deal prices on the leading results",
		Tags:        []string{"Recommendations"},
	}, s.handleDiscover)
}

// === DTOs ===

// AnalyzeInput identifies the game to score.
type AnalyzeInput struct {
	Title  string `query:"title" doc:"Game title to look up"`
	IGDBID int64  `query:"igdb_id" doc:"IGDB catalog ID (takes precedence over title)"`
}

// AnalyzeOutput wraps the analysis for huma.
type AnalyzeOutput struct {
	Body domain.Analysis
}

// BacklogInput holds backlog query parameters.
type BacklogInput struct {
	Limit int `query:"limit" minimum:"1" maximum:"50" doc:"Max items to return (default 10)"`
}

// BacklogOutput wraps the ranked backlog for huma.
type BacklogOutput struct {
	Body struct {
		Items []*domain.BacklogItem `json:"items" doc:"Backlog games, best fit first"`
		Total int                   `json:"total" doc:"Number of items returned"`
	}
}

// DiscoverInput holds discovery query parameters.
type DiscoverInput struct {
	Genre    string `query:"genre" doc:"Restrict seeds and candidates to one genre (\"all\" disables the filter)"`
	Platform string `query:"platform" enum:",steam,psn" doc:"Restrict seeds to one storefront"`
	Limit    int    `query:"limit" minimum:"1" maximum:"50" doc:"Max results (default 10)"`
}

// DiscoverOutput wraps discovery results for huma.
type DiscoverOutput struct {
	Body struct {
		Results []*domain.DiscoveryResult `json:"results" doc:"Proposed new games"`
		Total   int                       `json:"total" doc:"Number of results returned"`
	}
}

// === Handlers ===

func (s *Server) handleAnalyze(ctx context.Context, input *AnalyzeInput) (*AnalyzeOutput, error) {
	analysis, err := s.services.Recommendation.Analyze(ctx, input.Title, input.IGDBID)
	if err != nil {
		return nil, err
	}
	return &AnalyzeOutput{Body: *analysis}, nil
}

func (s *Server) handleBacklog(ctx context.Context, input *BacklogInput) (*BacklogOutput, error) {
	items, err := s.services.Recommendation.Backlog(ctx, input.Limit)
	if err != nil {
		s.logger.Error("failed to rank backlog", "error", err)
		return nil, err
	}

	out := &BacklogOutput{}
	out.Body.Items = items
	out.Body.Total = len(items)
	return out, nil
}

func (s *Server) handleDiscover(ctx context.Context, input *DiscoverInput) (*DiscoverOutput, error) {
	results, err := s.services.Recommendation.Discover(ctx, input.Genre, input.Platform, input.Limit)
	if err != nil {
		s.logger.Error("discovery failed", "error", err)
		return nil, err
	}

	out := &DiscoverOutput{}
	out.Body.Results = results
	out.Body.Total = len(results)
	return out, nil
}
