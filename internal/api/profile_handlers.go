package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/questlogapp/questlog-server/internal/service"
)

func (s *Server) registerProfileRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/profile",
		Summary:     "Get taste profile",
		Description: "Returns the profile computed from the current library: top tags, gamer type, favorite game, and diagnostic toxic traits",
		Tags:        []string{"Profile"},
	}, s.handleGetProfile)
}

// ProfileOutput wraps the profile summary for huma.
type ProfileOutput struct {
	Body service.ProfileSummary
}

func (s *Server) handleGetProfile(ctx context.Context, _ *struct{}) (*ProfileOutput, error) {
	summary, err := s.services.Recommendation.Profile(ctx)
	if err != nil {
		s.logger.Error("failed to build profile", "error", err)
		return nil, err
	}
	return &ProfileOutput{Body: *summary}, nil
}
