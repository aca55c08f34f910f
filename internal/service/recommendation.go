package service

import (
	"context"
	"log/slog"

	"github.com/questlogapp/questlog-server/internal/domain"
	"github.com/questlogapp/questlog-server/internal/errors"
	"github.com/questlogapp/questlog-server/internal/profile"
	"github.com/questlogapp/questlog-server/internal/recommend"
)

// Default result counts when the caller does not specify a limit.
const (
	DefaultBacklogLimit   = 10
	DefaultDiscoveryLimit = 10
	MaxResultLimit        = 50
)

// ProfileSummary is the API-facing view of the computed taste profile.
type ProfileSummary struct {
	GamerType    string               `json:"gamer_type"`
	FavoriteGame string               `json:"favorite_game,omitempty"`
	TotalHours   int                  `json:"total_hours"`
	TopGenres    []domain.WeightedTag `json:"top_genres,omitempty"`
	TopThemes    []domain.WeightedTag `json:"top_themes,omitempty"`
	TopKeywords  []domain.WeightedTag `json:"top_keywords,omitempty"`
	TopDevs      []domain.WeightedTag `json:"top_developers,omitempty"`

	// Diagnostic surface: tags the user keeps buying into and regretting.
	ToxicGenres   []string `json:"toxic_genres,omitempty"`
	ToxicKeywords []string `json:"toxic_keywords,omitempty"`

	Empty bool `json:"empty"` // true when no profile could be built yet
}

// RecommendationService fronts the recommendation engine.
type RecommendationService struct {
	engine *recommend.Engine
	logger *slog.Logger
}

// NewRecommendationService creates a new recommendation service.
func NewRecommendationService(engine *recommend.Engine, logger *slog.Logger) *RecommendationService {
	return &RecommendationService{
		engine: engine,
		logger: logger,
	}
}

// Profile returns a summary of the current taste profile.
func (s *RecommendationService) Profile(ctx context.Context) (*ProfileSummary, error) {
	p, err := s.engine.BuildProfile(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return &ProfileSummary{
			GamerType: profile.DefaultGamerType,
			Empty:     true,
		}, nil
	}

	toxicGenres, toxicKeywords := profile.ToxicTraits(p)

	return &ProfileSummary{
		GamerType:     p.GamerType,
		FavoriteGame:  p.FavoriteGame,
		TotalHours:    p.TotalMinutes / 60,
		TopGenres:     p.Genres.TopN(5),
		TopThemes:     p.Themes.TopN(5),
		TopKeywords:   p.Keywords.TopN(10),
		TopDevs:       p.Developers.TopN(5),
		ToxicGenres:   toxicGenres,
		ToxicKeywords: toxicKeywords,
	}, nil
}

// Analyze scores one game, looked up by catalog id or title.
func (s *RecommendationService) Analyze(ctx context.Context, title string, igdbID int64) (*domain.Analysis, error) {
	if title == "" && igdbID == 0 {
		return nil, errors.Validation("either a title or an igdb_id is required")
	}
	return s.engine.Analyze(ctx, title, igdbID)
}

// Backlog returns the user's unplayed games ranked by profile fit.
func (s *RecommendationService) Backlog(ctx context.Context, limit int) ([]*domain.BacklogItem, error) {
	return s.engine.Backlog(ctx, clampLimit(limit, DefaultBacklogLimit))
}

// Discover proposes new games mined from similarity around the most
// played titles, optionally narrowed by genre and platform.
func (s *RecommendationService) Discover(ctx context.Context, genre, platform string, limit int) ([]*domain.DiscoveryResult, error) {
	return s.engine.Discover(ctx, genre, platform, clampLimit(limit, DefaultDiscoveryLimit))
}

func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > MaxResultLimit {
		return MaxResultLimit
	}
	return limit
}
