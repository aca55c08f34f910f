package domain

import "time"

// Rating is the operator's explicit 1-10 rating of a golden game.
// At most one rating exists per game; absence means "unrated".
type Rating struct {
	GameID    int64     `json:"game_id"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// IgnoreReason tags why a recommendation was dismissed.
type IgnoreReason string

// Ignore reasons. Only NotInterested feeds negative-keyword profiling;
// AlreadyOwned just suppresses the title from discovery.
const (
	ReasonNotInterested IgnoreReason = "not_interested"
	ReasonAlreadyOwned  IgnoreReason = "already_owned"
)

// Valid reports whether r is a known ignore reason.
func (r IgnoreReason) Valid() bool {
	return r == ReasonNotInterested || r == ReasonAlreadyOwned
}

// IgnoredRecommendation is a catalog id the operator explicitly rejected.
type IgnoredRecommendation struct {
	IGDBID    int64        `json:"igdb_id"`
	Reason    IgnoreReason `json:"reason"`
	CreatedAt time.Time    `json:"created_at"`
}
