// Package domain contains the core business entities for the QuestLog game library.
package domain

// Game is the golden catalog record for a title. Multiple library entries may
// reference the same Game when the operator owns it on several storefronts.
type Game struct {
	ID               int64    `json:"id"`
	IGDBID           int64    `json:"igdb_id,omitempty"`
	Title            string   `json:"title"`
	NormalizedTitle  string   `json:"normalized_title,omitempty"`
	Genres           []string `json:"genres,omitempty"`
	Themes           []string `json:"themes,omitempty"`
	Keywords         []string `json:"keywords,omitempty"`
	Developers       []string `json:"developers,omitempty"`
	GameModes        []string `json:"game_modes,omitempty"`
	Summary          string   `json:"summary,omitempty"`
	CoverURL         string   `json:"cover_url,omitempty"`
	TotalRating      float64  `json:"total_rating,omitempty"`
	TotalRatingCount int      `json:"total_rating_count,omitempty"`
}

// TagCount returns the number of genre, theme and keyword tags on the record.
// Used for sparse-metadata compensation when scoring.
func (g *Game) TagCount() int {
	return len(g.Genres) + len(g.Themes) + len(g.Keywords)
}

// HasGlobalRating reports whether the catalog carries an aggregate rating.
// A zero rating means "unknown", not "rated zero".
func (g *Game) HasGlobalRating() bool {
	return g.TotalRating > 0
}
