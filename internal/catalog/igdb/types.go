package igdb

import (
	"strings"

	"github.com/questlogapp/questlog-server/internal/domain"
	"github.com/questlogapp/questlog-server/internal/normalize"
)

// Candidate is a lightly hydrated discovery result, carrying only the
// fields the discovery surface shows.
type Candidate struct {
	IGDBID   int64
	Title    string
	Summary  string
	Rating   float64
	Genres   []string
	CoverURL string
}

// Raw API response types (internal)

type rawNamed struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type rawCover struct {
	URL     string `json:"url"`
	ImageID string `json:"image_id"`
}

type rawInvolvedCompany struct {
	Company   rawNamed `json:"company"`
	Developer bool     `json:"developer"`
}

type rawGame struct {
	ID                int64                `json:"id"`
	Name              string               `json:"name"`
	Summary           string               `json:"summary"`
	Rating            float64              `json:"rating"`
	TotalRating       float64              `json:"total_rating"`
	TotalRatingCount  int                  `json:"total_rating_count"`
	Genres            []rawNamed           `json:"genres"`
	Themes            []rawNamed           `json:"themes"`
	Keywords          []rawNamed           `json:"keywords"`
	GameModes         []rawNamed           `json:"game_modes"`
	InvolvedCompanies []rawInvolvedCompany `json:"involved_companies"`
	Cover             *rawCover            `json:"cover"`
	SimilarGames      []int64              `json:"similar_games"`
}

func names(raw []rawNamed) []string {
	var out []string
	for _, r := range raw {
		if r.Name != "" {
			out = append(out, r.Name)
		}
	}
	return out
}

// developers extracts the names of companies flagged as developer.
func developers(raw []rawInvolvedCompany) []string {
	var out []string
	for _, ic := range raw {
		if ic.Developer && ic.Company.Name != "" {
			out = append(out, ic.Company.Name)
		}
	}
	return out
}

// coverURL resolves a usable https cover URL from either form IGDB returns.
func coverURL(c *rawCover) string {
	if c == nil {
		return ""
	}
	if c.URL != "" {
		u := c.URL
		if strings.HasPrefix(u, "//") {
			u = "https:" + u
		}
		// Thumbnails are too small for library cards.
		return strings.Replace(u, "t_thumb", "t_cover_big", 1)
	}
	if c.ImageID != "" {
		return "https://images.igdb.com/igdb/image/upload/t_cover_big/" + c.ImageID + ".jpg"
	}
	return ""
}

// toDomain converts a raw API game into a golden record.
func (g *rawGame) toDomain() *domain.Game {
	return &domain.Game{
		IGDBID:           g.ID,
		Title:            g.Name,
		NormalizedTitle:  normalize.Title(g.Name),
		Genres:           names(g.Genres),
		Themes:           names(g.Themes),
		Keywords:         names(g.Keywords),
		Developers:       developers(g.InvolvedCompanies),
		GameModes:        names(g.GameModes),
		Summary:          g.Summary,
		CoverURL:         coverURL(g.Cover),
		TotalRating:      g.TotalRating,
		TotalRatingCount: g.TotalRatingCount,
	}
}

// toCandidate converts a raw API game into a discovery candidate.
func (g *rawGame) toCandidate() *Candidate {
	return &Candidate{
		IGDBID:   g.ID,
		Title:    g.Name,
		Summary:  g.Summary,
		Rating:   g.Rating,
		Genres:   names(g.Genres),
		CoverURL: coverURL(g.Cover),
	}
}
