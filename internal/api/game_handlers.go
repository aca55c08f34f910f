package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/questlogapp/questlog-server/internal/domain"
)

func (s *Server) registerGameRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "rateGame",
		Method:      http.MethodPut,
		Path:        "/api/v1/games/{igdbID}/rating",
		Summary:     "Rate a game",
		Description: "Stores a personal 1-10 rating for an owned game, replacing any previous rating",
		Tags:        []string{"Games"},
	}, s.handleRateGame)

	huma.Register(s.api, huma.Operation{
		OperationID:   "unrateGame",
		Method:        http.MethodDelete,
		Path:          "/api/v1/games/{igdbID}/rating",
		Summary:       "Remove a rating",
		Tags:          []string{"Games"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleUnrateGame)

	huma.Register(s.api, huma.Operation{
		OperationID: "ignoreGame",
		Method:      http.MethodPost,
		Path:        "/api/v1/games/{igdbID}/ignore",
		Summary:     "Dismiss a recommendation",
		Description: "Hides a discovered game. A not_interested dismissal also feeds the profile's negative keywords.",
		Tags:        []string{"Games"},
	}, s.handleIgnoreGame)

	huma.Register(s.api, huma.Operation{
		OperationID:   "unignoreGame",
		Method:        http.MethodDelete,
		Path:          "/api/v1/games/{igdbID}/ignore",
		Summary:       "Restore a dismissed recommendation",
		Tags:          []string{"Games"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleUnignoreGame)
}

// === DTOs ===

// RateGameInput stores a rating for a game.
type RateGameInput struct {
	IGDBID int64 `path:"igdbID" doc:"IGDB catalog ID"`
	Body   struct {
		Rating int `json:"rating" minimum:"1" maximum:"10" doc:"Personal rating, 1-10"`
	}
}

// GameIDInput identifies a game by catalog ID.
type GameIDInput struct {
	IGDBID int64 `path:"igdbID" doc:"IGDB catalog ID"`
}

// IgnoreGameInput dismisses a recommendation.
type IgnoreGameInput struct {
	IGDBID int64 `path:"igdbID" doc:"IGDB catalog ID"`
	Body   struct {
		Reason string `json:"reason,omitempty" enum:"not_interested,already_owned" doc:"Why the game was dismissed (default not_interested)"`
	}
}

// MessageResponse is a simple success message.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps a message response for huma.
type MessageOutput struct {
	Body MessageResponse
}

// === Handlers ===

func (s *Server) handleRateGame(ctx context.Context, input *RateGameInput) (*MessageOutput, error) {
	if err := s.services.Library.Rate(ctx, input.IGDBID, input.Body.Rating); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "rating saved"}}, nil
}

func (s *Server) handleUnrateGame(ctx context.Context, input *GameIDInput) (*struct{}, error) {
	if err := s.services.Library.Unrate(ctx, input.IGDBID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleIgnoreGame(ctx context.Context, input *IgnoreGameInput) (*MessageOutput, error) {
	reason := domain.IgnoreReason(input.Body.Reason)
	if err := s.services.Library.Ignore(ctx, input.IGDBID, reason); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "recommendation dismissed"}}, nil
}

func (s *Server) handleUnignoreGame(ctx context.Context, input *GameIDInput) (*struct{}, error) {
	if err := s.services.Library.Unignore(ctx, input.IGDBID); err != nil {
		return nil, err
	}
	return nil, nil
}
