package domain

import "time"

// PlayStatus is the manually assigned play state of a library entry.
type PlayStatus string

// Play statuses.
const (
	StatusUnplayed  PlayStatus = "unplayed"
	StatusPlaying   PlayStatus = "playing"
	StatusCompleted PlayStatus = "completed"
	StatusDropped   PlayStatus = "dropped"
)

// Valid reports whether s is a known play status.
func (s PlayStatus) Valid() bool {
	switch s {
	case StatusUnplayed, StatusPlaying, StatusCompleted, StatusDropped:
		return true
	}
	return false
}

// LibraryEntry is one owned game on one storefront. Entries are written by
// ingestion (or the seed tool) and are read-only input to the engine.
type LibraryEntry struct {
	ID                   string     `json:"id"`
	GameID               int64      `json:"game_id,omitempty"` // 0 until matched to a golden record
	Platform             string     `json:"platform"`          // "steam", "psn", "xbox", "gog", "epic"
	PlatformID           string     `json:"platform_id,omitempty"`
	OriginalTitle        string     `json:"original_title"`
	PlaytimeMinutes      int        `json:"playtime_minutes"`
	LastPlayed           *time.Time `json:"last_played,omitempty"`
	Status               PlayStatus `json:"manual_play_status"`
	AchievementsUnlocked int        `json:"achievements_unlocked,omitempty"`
	AchievementsTotal    int        `json:"achievements_total,omitempty"`
}

// LibraryGroup is the grouped view of all storefront entries for one golden
// game: summed playtime, unioned platforms, with the most-played entry acting
// as the primary row for status edits.
type LibraryGroup struct {
	PrimaryEntryID  string     `json:"id"`
	GameID          int64      `json:"game_id,omitempty"`
	IGDBID          int64      `json:"igdb_id,omitempty"`
	Title           string     `json:"title"`
	CoverURL        string     `json:"cover_url,omitempty"`
	Platforms       []string   `json:"platforms"`
	PlaytimeMinutes int        `json:"playtime_minutes"`
	Status          PlayStatus `json:"manual_play_status"`
	Rating          int        `json:"rating,omitempty"` // 0 = unrated
	LastPlayed      *time.Time `json:"last_played,omitempty"`
}

// BlacklistEntry records a deleted library row so a later storefront sync
// does not resurrect it.
type BlacklistEntry struct {
	Platform   string    `json:"platform"`
	PlatformID string    `json:"platform_id"`
	Title      string    `json:"title,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
