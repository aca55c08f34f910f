package recommend

import (
	"strings"
	"testing"

	"github.com/questlogapp/questlog-server/internal/domain"
)

func containsReason(reasons []string, fragment string) bool {
	for _, r := range reasons {
		if strings.Contains(r, fragment) {
			return true
		}
	}
	return false
}

func TestScoreGameNeutral(t *testing.T) {
	p := domain.NewProfile()
	game := &domain.Game{Title: "Unknown Title"}

	score, reasons := scoreGame(p, game)
	if score != 0 {
		t.Errorf("expected score 0 for empty profile and metadata, got %v", score)
	}
	if len(reasons) != 1 || reasons[0] != "Neutral match" {
		t.Errorf("expected neutral reason, got %v", reasons)
	}
}

func TestScoreGameStrongMatch(t *testing.T) {
	p := domain.NewProfile()
	p.Genres.Add("Role-Playing (Rpg)", 37.5)
	p.Themes.Add("Fantasy", 37.5)
	p.Keywords.Add("open world", 37.5)
	p.Developers.Add("FromSoftware", 37.5)
	p.GameModes.Add("Single player", 37.5)

	game := &domain.Game{
		Title:       "Bloodborne",
		Genres:      []string{"Role-playing (RPG)"},
		Themes:      []string{"Fantasy"},
		Keywords:    []string{"Open World"},
		Developers:  []string{"FromSoftware"},
		GameModes:   []string{"Single player"},
		TotalRating: 92,
	}

	score, reasons := scoreGame(p, game)
	if score <= 60 {
		t.Errorf("expected strong match to clear 60, got %v", score)
	}
	if !containsReason(reasons, "Aligns with your gaming history") {
		t.Errorf("expected history alignment reason, got %v", reasons)
	}
	if !containsReason(reasons, "Trust: From FromSoftware") {
		t.Errorf("expected developer trust reason, got %v", reasons)
	}
	if !containsReason(reasons, "Match: open world") {
		t.Errorf("expected keyword match reason, got %v", reasons)
	}
}

func TestScoreGamePannedCap(t *testing.T) {
	p := domain.NewProfile()
	p.Genres.Add("Role-Playing (Rpg)", 300)
	p.Themes.Add("Fantasy", 300)
	p.Keywords.Add("open world", 300)
	p.Developers.Add("FromSoftware", 300)

	game := &domain.Game{
		Title:       "Rushed Sequel",
		Genres:      []string{"Role-playing (RPG)"},
		Themes:      []string{"Fantasy"},
		Keywords:    []string{"open world"},
		Developers:  []string{"FromSoftware"},
		TotalRating: 42,
	}

	score, reasons := scoreGame(p, game)
	if score > 59 {
		t.Errorf("critically panned game must stay at or below 59, got %v", score)
	}
	if !containsReason(reasons, "Penalty: Critically Panned") {
		t.Errorf("expected panned penalty reason, got %v", reasons)
	}
}

func TestScoreGameMultiplayerOnlyWarning(t *testing.T) {
	p := domain.NewProfile()
	p.GameModes.Add("Single player", 100)

	game := &domain.Game{
		Title:     "Arena Shooter",
		GameModes: []string{"Multiplayer"},
	}

	score, reasons := scoreGame(p, game)
	if score != 0 {
		t.Errorf("expected clamp to 0, got %v", score)
	}
	if !containsReason(reasons, "Warning: Multiplayer focused") {
		t.Errorf("expected multiplayer warning, got %v", reasons)
	}
}

func TestScoreGameNegativeKeywords(t *testing.T) {
	p := domain.NewProfile()
	p.Genres.Add("Shooter", 200)
	p.NegativeKeywords.Add("battle royale", 2)

	game := &domain.Game{
		Title:    "Drop Zone",
		Genres:   []string{"Shooter"},
		Keywords: []string{"Battle Royale"},
	}

	score, reasons := scoreGame(p, game)
	if score > 60 {
		t.Errorf("negative keyword hits must cap the score at 60, got %v", score)
	}
	if !containsReason(reasons, "Risk: Contains disliked elements (battle royale)") {
		t.Errorf("expected disliked elements reason, got %v", reasons)
	}
}

func TestScoreGameRiskyTagNoHistory(t *testing.T) {
	p := domain.NewProfile()
	p.Genres.Add("Platform", 50)

	game := &domain.Game{
		Title:    "Grim Ascent",
		Genres:   []string{"Platform"},
		Keywords: []string{"Soulslike"},
	}

	_, reasons := scoreGame(p, game)
	if !containsReason(reasons, "Warning: Low history with 'Soulslike'") {
		t.Errorf("expected risky tag warning, got %v", reasons)
	}
}

func TestScoreGameRiskyTagWithHistory(t *testing.T) {
	p := domain.NewProfile()
	p.Keywords.Add("soulslike", 80)

	game := &domain.Game{
		Title:    "Grim Ascent",
		Keywords: []string{"Soulslike"},
	}

	_, reasons := scoreGame(p, game)
	if containsReason(reasons, "Low history with 'Soulslike'") {
		t.Errorf("history with the tag must suppress the warning, got %v", reasons)
	}
}

func TestScoreGameDislikedImpactKeyword(t *testing.T) {
	p := domain.NewProfile()
	p.Genres.Add("Strategy", 100)
	p.DislikedKeywords.Add("moba", 2)

	game := &domain.Game{
		Title:    "Lane Wars",
		Genres:   []string{"Strategy"},
		Keywords: []string{"MOBA"},
	}

	score, reasons := scoreGame(p, game)
	if !containsReason(reasons, "Warning: Similar to low-rated games (moba)") {
		t.Errorf("expected dislike warning, got %v", reasons)
	}
	if score > 40 {
		t.Errorf("expected heavy impact-keyword penalty, got %v", score)
	}
}

func TestScoreGameNoiseKeywordIgnored(t *testing.T) {
	p := domain.NewProfile()
	p.Genres.Add("Adventure", 100)
	p.DislikedKeywords.Add("protagonist", 5)

	game := &domain.Game{
		Title:    "Journey Home",
		Genres:   []string{"Adventure"},
		Keywords: []string{"Protagonist"},
	}

	_, reasons := scoreGame(p, game)
	if containsReason(reasons, "Similar to low-rated games") {
		t.Errorf("noise keywords must never trigger dislike warnings, got %v", reasons)
	}
}

func TestScoreGameClampUpper(t *testing.T) {
	p := domain.NewProfile()
	p.Genres.Add("Role-Playing (Rpg)", 500)
	p.Themes.Add("Fantasy", 500)
	p.Keywords.Add("open world", 500)
	p.Keywords.Add("dragons", 500)
	p.Developers.Add("FromSoftware", 500)
	p.GameModes.Add("Single player", 500)

	game := &domain.Game{
		Title:       "Perfect Fit",
		Genres:      []string{"Role-playing (RPG)"},
		Themes:      []string{"Fantasy"},
		Keywords:    []string{"open world", "dragons"},
		Developers:  []string{"FromSoftware"},
		GameModes:   []string{"Single player"},
		TotalRating: 95,
	}

	score, _ := scoreGame(p, game)
	if score > 99 {
		t.Errorf("score must never exceed 99, got %v", score)
	}
	if score < 90 {
		t.Errorf("expected a near-perfect score, got %v", score)
	}
}

func TestSortReasonsOrdersWarningsFirst(t *testing.T) {
	reasons := sortReasons([]string{
		"Aligns with your gaming history",
		"Boost: Critically Acclaimed",
		"Warning: Multiplayer focused (You prefer Single Player)",
		"Match: open world",
	})
	if reasons[0] != "Warning: Multiplayer focused (You prefer Single Player)" {
		t.Errorf("expected warning first, got %v", reasons)
	}
	if reasons[1] != "Boost: Critically Acclaimed" {
		t.Errorf("expected boost second, got %v", reasons)
	}
}
