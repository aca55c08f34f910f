package recommend

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/questlogapp/questlog-server/internal/domain"
	"github.com/questlogapp/questlog-server/internal/normalize"
)

// saturationCap is the profile weight treated as full "love" for a tag,
// roughly fifty hours of play. Weights above it add only gently, so one
// giant genre cannot drown out smaller but real interests.
const saturationCap = 300.0

// broadGenres are too generic to drive a score on their own.
var broadGenres = map[string]bool{
	"Indie":      true,
	"Action":     true,
	"Adventure":  true,
	"Casual":     true,
	"Simulation": true,
}

// noiseKeywords are metadata junk that must never count as a dislike.
var noiseKeywords = map[string]bool{
	"plant": true, "tree": true, "human": true, "male": true, "female": true,
	"protagonist": true, "sequence": true, "development": true, "engine": true,
	"publishing": true, "narrative": true, "pax prime 2014": true,
	"health": true, "system": true, "level": true, "item": true,
	"lore rich": true, "map": true, "object": true, "dynamic weather": true,
	"eating": true, "explosives": true, "bioluminescene": true,
}

// impactKeywords mark polarizing mechanics where even a single dislike is
// a strong signal.
var impactKeywords = map[string]bool{
	"soulslike": true, "roguelike": true, "permadeath": true, "horror": true,
	"turn-based": true, "moba": true, "mmo": true, "visual novel": true,
	"first person": true,
}

// riskyTags get a hard-risk check when the user has no history with them.
var riskyTags = []string{"Soulslike", "Permadeath", "Roguelike", "Horror"}

// multiplayerOnlyModes are the modes that, alone, mark a game as having no
// solo experience.
var multiplayerOnlyModes = map[string]bool{
	"Multiplayer":                        true,
	"Co-operative":                       true,
	"MMO":                                true,
	"Massively Multiplayer Online (MMO)": true,
}

// saturationBoost converts a profile weight into a multiplier that grows
// as sqrt below the cap and logarithmically above it.
func saturationBoost(weight, cap float64) float64 {
	ratio := weight / cap
	if ratio < 1.0 {
		return math.Sqrt(ratio)
	}
	return 1.0 + math.Log1p(ratio-1.0)*0.5
}

// scoreGame rates a single game against the profile and explains itself.
// The returned score is clamped to [0, 99] and kept fractional so the
// verdict bands see the full precision before display rounds it down.
func scoreGame(p *domain.Profile, game *domain.Game) (float64, []string) {
	score := 0.0
	var reasons []string

	genres := normalize.TagTitles(game.Genres)
	themes := normalize.TagTitles(game.Themes)
	keywords := normalize.Keywords(game.Keywords)

	// Positive tag matches.
	matchFound := false
	for _, g := range genres {
		if w := p.Genres.Get(g); w > 0 {
			weight := 25.0
			if broadGenres[g] {
				weight = 15.0
			}
			score += saturationBoost(w, saturationCap) * weight
			matchFound = true
		}
	}
	for _, t := range themes {
		if w := p.Themes.Get(t); w > 0 {
			score += saturationBoost(w, saturationCap) * 25
			matchFound = true
		}
	}
	for _, k := range keywords {
		if w := p.Keywords.Get(k); w > 0 {
			// Keywords saturate earlier: they are more specific signals.
			score += saturationBoost(w, saturationCap*0.8) * 35
			matchFound = true
			if len(reasons) < 2 {
				reasons = append(reasons, fmt.Sprintf("Match: %s", k))
			}
		}
	}

	if matchFound {
		reasons = append([]string{"Aligns with your gaming history"}, reasons...)

		// Sparse metadata compensation: with only a couple of tags total,
		// each match has to carry more of the score.
		tagCount := len(genres) + len(themes) + len(keywords)
		if tagCount > 0 && tagCount < 4 {
			broadOnly := len(themes) == 0 && len(keywords) == 0
			for _, g := range genres {
				if !broadGenres[g] {
					broadOnly = false
				}
			}
			if score > 20 && !broadOnly {
				multiplier := math.Min(4.0/float64(tagCount), 2.0)
				score *= multiplier
				reasons = append(reasons, fmt.Sprintf("Boost: Adjusted for sparse metadata (%d tags)", tagCount))
			}
		}
	}

	// Global critic rating as a quality proxy.
	globalRating := game.TotalRating
	if globalRating > 0 {
		switch {
		case globalRating >= 90:
			score += 15
			reasons = append(reasons, "Boost: Critically Acclaimed")
		case globalRating >= 80:
			score += 10
			reasons = append(reasons, "Boost: Highly Rated")
		case globalRating <= 50:
			score -= 40
			reasons = append(reasons, "Penalty: Critically Panned")
		case globalRating <= 60:
			score -= 15
			reasons = append(reasons, "Penalty: Low Global Rating")
		}
	}

	// Developer history.
	devRiskPenalty := 0.0
	hasTrustedDev := false
	for _, dev := range game.Developers {
		if p.Developers.Get(dev) >= 15 {
			score += 15
			reasons = append(reasons, fmt.Sprintf("Trust: From %s (history of high ratings)", dev))
			hasTrustedDev = true
		} else if p.Developers.Get(dev) > 0 {
			score += 5
			reasons = append(reasons, fmt.Sprintf("Boost: From %s", dev))
		}

		if p.DislikedDevelopers.Get(dev) >= 2 {
			devRiskPenalty += 25
			reasons = append(reasons, fmt.Sprintf("Risk: From %s (history of dislikes)", dev))
		}
	}

	// Game mode fit.
	if len(game.GameModes) > 0 {
		mpOnly := true
		for _, m := range game.GameModes {
			if !multiplayerOnlyModes[m] {
				mpOnly = false
			}
		}

		spScore := p.GameModes.Get("Single player")
		mpScore := p.GameModes.Get("Multiplayer") + p.GameModes.Get("Co-operative")

		if mpOnly && spScore > mpScore*5 {
			score -= 30
			reasons = append(reasons, "Warning: Multiplayer focused (You prefer Single Player)")
		}

		hasSP := false
		for _, m := range game.GameModes {
			if m == "Single player" {
				hasSP = true
			}
		}
		if hasSP && spScore > 20 {
			score += 5 // silent boost
		}
	}

	// Keywords learned from explicitly dismissed recommendations.
	var negativeHits []string
	for _, k := range keywords {
		if count := p.NegativeKeywords.Get(k); count > 0 {
			score -= 15 * count
			negativeHits = append(negativeHits, k)
		}
	}
	if len(negativeHits) > 0 {
		reasons = append(reasons, fmt.Sprintf("Risk: Contains disliked elements (%s)",
			strings.Join(firstN(negativeHits, 2), ", ")))
		score = math.Min(score, 60)
	}

	// Clamp the positive side before penalties so the penalties are felt.
	score = math.Min(100, score)

	if devRiskPenalty > 0 {
		score -= devRiskPenalty
		if devRiskPenalty >= 25 && !hasTrustedDev {
			score = math.Min(score, 45)
		}
	}

	// Panned games never score above "worth a look" territory.
	if globalRating > 0 && globalRating <= 50 {
		score = math.Min(score, 59)
	}

	score -= dislikePenalties(p, genres, themes, keywords, negativeHits, &reasons)

	score = legacyRiskCheck(p, score, globalRating, genres, themes, keywords, negativeHits, &reasons)

	score = math.Max(0, math.Min(99, score))

	if len(reasons) == 0 {
		reasons = append(reasons, "Neutral match")
	}
	reasons = sortReasons(reasons)

	return score, reasons
}

// dislikePenalties accumulates graded penalties from low-rated history on
// the game's tags, capped so a single bad streak cannot zero a good match.
func dislikePenalties(p *domain.Profile, genres, themes, keywords, negativeHits []string, reasons *[]string) float64 {
	total := 0.0
	var traits []string

	// Genres and themes share the same ratio-based shape: roughly 50
	// points of positive history neutralize one dislike, and proven
	// success (>35) is a full pardon.
	tagPenalty := func(dislikes, positive float64) float64 {
		threshold := math.Min(dislikes*40, 120)
		if positive >= threshold {
			return 0
		}
		if positive > 35 {
			return 0
		}
		excess := (threshold - positive) / 50.0
		return math.Min(excess*5, 25)
	}

	for _, g := range genres {
		if d := p.DislikedGenres.Get(g); d > 0 {
			if positive := p.Genres.Get(g); positive < math.Min(d*40, 120) {
				total += tagPenalty(d, positive)
				traits = append(traits, g)
			}
		}
	}
	for _, t := range themes {
		if d := p.DislikedThemes.Get(t); d > 0 {
			if positive := p.Themes.Get(t); positive < math.Min(d*40, 120) {
				total += tagPenalty(d, positive)
				traits = append(traits, t)
			}
		}
	}

	for _, k := range keywords {
		if noiseKeywords[k] {
			continue
		}
		d := p.DislikedKeywords.Get(k)
		if d == 0 {
			continue
		}

		impact := impactKeywords[k]

		// Single keyword dislikes are usually noise unless the keyword is
		// a polarizing mechanic.
		if d < 2 && !impact {
			continue
		}

		positive := p.Keywords.Get(k)

		bias := 15.0
		if impact {
			bias = 30.0
		}
		threshold := math.Min(d*bias, 150)

		if positive < threshold {
			excess := (threshold - positive) / bias

			multiplier := 10.0
			maxPenalty := 25.0
			if impact {
				multiplier = 40.0
				maxPenalty = 60.0
			}

			penalty := excess * multiplier
			if positive > 35 {
				penalty = 0 // proven success cancels the risk
			}
			penalty = math.Min(penalty, maxPenalty)

			if positive <= 35 {
				if impact {
					penalty += 25
					if d >= 2 || positive < 5 {
						penalty += 30
					}
				} else if positive < d*10 && d >= 3 {
					penalty += 25
				}
			}

			total += penalty
			traits = append(traits, k)
		} else if impact && positive < threshold*1.5 {
			// The user both likes and dislikes this polarized tag.
			total += 20
			traits = append(traits, fmt.Sprintf("%s (mixed history)", k))
		}
	}

	total = math.Min(total, 80)

	if total > 0 && len(traits) > 0 {
		*reasons = append(*reasons, fmt.Sprintf("Warning: Similar to low-rated games (%s)",
			strings.Join(firstN(dedupe(traits), 2), ", ")))
	}
	return total
}

// legacyRiskCheck penalizes hard-to-love mechanics the user has zero
// history with, softened when the rest of the analysis already likes the
// game or the world rates it highly.
func legacyRiskCheck(p *domain.Profile, score, globalRating float64, genres, themes, keywords, negativeHits []string, reasons *[]string) float64 {
	allTags := append(append(append([]string{}, genres...), themes...), keywords...)

	negSet := make(map[string]bool, len(negativeHits))
	for _, n := range negativeHits {
		negSet[n] = true
	}

	for _, tag := range riskyTags {
		lower := strings.ToLower(tag)

		var matches []string
		for _, t := range allTags {
			if strings.Contains(strings.ToLower(t), lower) {
				matches = append(matches, t)
			}
		}
		if len(matches) == 0 {
			continue
		}

		hasHistory := false
		for _, counter := range []domain.Counter{p.Genres, p.Themes, p.Keywords} {
			for k := range counter {
				for _, m := range matches {
					if strings.Contains(strings.ToLower(k), strings.ToLower(m)) {
						hasHistory = true
					}
				}
			}
		}
		if hasHistory {
			continue
		}

		alreadyHit := false
		for _, m := range matches {
			if negSet[m] {
				alreadyHit = true
			}
		}
		if alreadyHit {
			continue
		}

		penalty := 20.0
		if score > 80 {
			penalty = 5
		} else if score > 60 {
			penalty = 10
		}
		if globalRating > 0 && globalRating >= 78 {
			penalty = math.Max(0, penalty-10)
		}

		if penalty > 0 {
			score -= penalty
			*reasons = append(*reasons, fmt.Sprintf("Warning: Low history with '%s'", tag))
		}
	}
	return score
}

// sortReasons orders warnings first, boosts second, then the history line,
// removes duplicates and keeps the top five.
func sortReasons(reasons []string) []string {
	key := func(r string) int {
		switch {
		case strings.HasPrefix(r, "Warning"), strings.HasPrefix(r, "Risk"), strings.HasPrefix(r, "Penalty"):
			return 0
		case strings.HasPrefix(r, "Boost"):
			return 1
		case strings.HasPrefix(r, "Aligns"):
			return 2
		default:
			return 3
		}
	}
	sort.SliceStable(reasons, func(i, j int) bool {
		return key(reasons[i]) < key(reasons[j])
	})
	return firstN(dedupe(reasons), 5)
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := items[:0:0]
	for _, s := range items {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
