package domain

// Verdict buckets a compatibility score into a human label.
type Verdict string

// Verdicts, from best to worst. NeedData is the degraded result returned
// when no profile can be built yet.
const (
	VerdictMustPlay    Verdict = "Must Play"
	VerdictRecommended Verdict = "Recommended"
	VerdictWorthALook  Verdict = "Worth a Look"
	VerdictRiskyBet    Verdict = "Risky Bet"
	VerdictNeedData    Verdict = "Need Data"
)

// VerdictFor maps a final clamped score to its verdict. Bands are checked
// against the fractional score, so 85.5 clears the Must Play bar even
// though it displays as 85.
func VerdictFor(score float64) Verdict {
	switch {
	case score > 85:
		return VerdictMustPlay
	case score > 60:
		return VerdictRecommended
	case score > 40:
		return VerdictWorthALook
	default:
		return VerdictRiskyBet
	}
}

// Analysis is the result of scoring one candidate game against the profile.
type Analysis struct {
	Game    *Game    `json:"game"`
	Score   int      `json:"score"`
	Verdict Verdict  `json:"verdict"`
	Reasons []string `json:"reasons"`
}

// BacklogItem is one unplayed owned game with its priority score.
type BacklogItem struct {
	PrimaryEntryID  string   `json:"id"`
	LibraryIDs      []string `json:"library_ids"`
	GameID          int64    `json:"game_id"`
	Title           string   `json:"title"`
	CoverURL        string   `json:"cover_url,omitempty"`
	Platforms       []string `json:"platforms"`
	PlaytimeMinutes int      `json:"playtime_minutes"`
	Score           float64  `json:"score"`
	Genres          []string `json:"genres,omitempty"`
}

// DiscoveryResult is one proposed new title from the similarity pipeline.
type DiscoveryResult struct {
	IGDBID   int64             `json:"id"`
	Title    string            `json:"name"`
	Summary  string            `json:"summary,omitempty"`
	Rating   float64           `json:"rating,omitempty"`
	Genres   []string          `json:"genres,omitempty"`
	CoverURL string            `json:"cover_url,omitempty"`
	BasedOn  string            `json:"based_on,omitempty"` // provenance: source titles or "Top Rated in <genre>"
	Prices   map[string]string `json:"prices,omitempty"`
}
