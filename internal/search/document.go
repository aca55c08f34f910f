// Package search provides full-text search over the owned game library
// using Bleve, with fuzzy matching, genre and platform facets, and
// numeric filtering on playtime and ratings.
package search

import (
	"github.com/questlogapp/questlog-server/internal/domain"
)

// Document is the indexed shape of one golden game record, denormalized
// with the library data a hit needs to render without a store round trip.
type Document struct {
	ID       string   `json:"id"` // golden game row id
	IGDBID   int64    `json:"igdb_id,omitempty"`
	Name     string   `json:"name"`
	Summary  string   `json:"summary,omitempty"`
	Genres   []string `json:"genres,omitempty"`
	Themes   []string `json:"themes,omitempty"`
	Keywords []string `json:"keywords,omitempty"`

	Developers []string `json:"developers,omitempty"`
	Platforms  []string `json:"platforms,omitempty"`

	PlaytimeMinutes int     `json:"playtime_minutes,omitempty"`
	Rating          int     `json:"rating,omitempty"`
	GlobalRating    float64 `json:"global_rating,omitempty"`

	CoverURL string `json:"cover_url,omitempty"`
}

// ToMap converts the document to a map with lowercase field names so they
// line up with the index mapping; Bleve would otherwise index the Go
// struct field names.
func (d *Document) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":   d.ID,
		"name": d.Name,
	}

	if d.IGDBID > 0 {
		m["igdb_id"] = d.IGDBID
	}
	if d.Summary != "" {
		m["summary"] = d.Summary
	}
	if len(d.Genres) > 0 {
		m["genres"] = d.Genres
	}
	if len(d.Themes) > 0 {
		m["themes"] = d.Themes
	}
	if len(d.Keywords) > 0 {
		m["keywords"] = d.Keywords
	}
	if len(d.Developers) > 0 {
		m["developers"] = d.Developers
	}
	if len(d.Platforms) > 0 {
		m["platforms"] = d.Platforms
	}
	if d.PlaytimeMinutes > 0 {
		m["playtime_minutes"] = d.PlaytimeMinutes
	}
	if d.Rating > 0 {
		m["rating"] = d.Rating
	}
	if d.GlobalRating > 0 {
		m["global_rating"] = d.GlobalRating
	}
	if d.CoverURL != "" {
		m["cover_url"] = d.CoverURL
	}

	return m
}

// GameToDocument converts a golden game plus its library context into an
// indexable document. Platforms, playtime and rating come from the grouped
// library view, passed by the caller so the search package does not depend
// on the store.
func GameToDocument(g *domain.Game, platforms []string, playtimeMinutes, rating int) *Document {
	return &Document{
		ID:              DocumentID(g.ID),
		IGDBID:          g.IGDBID,
		Name:            g.Title,
		Summary:         g.Summary,
		Genres:          g.Genres,
		Themes:          g.Themes,
		Keywords:        g.Keywords,
		Developers:      g.Developers,
		Platforms:       platforms,
		PlaytimeMinutes: playtimeMinutes,
		Rating:          rating,
		GlobalRating:    g.TotalRating,
		CoverURL:        g.CoverURL,
	}
}
