// Package profile builds the ephemeral taste profile the recommendation
// engine scores against. A profile is recomputed from the library snapshot
// on every request and never persisted.
package profile

import (
	"math"

	"github.com/questlogapp/questlog-server/internal/domain"
	"github.com/questlogapp/questlog-server/internal/normalize"
	"github.com/questlogapp/questlog-server/internal/store"
)

// DefaultGamerType is used when the library holds no genre signal at all.
const DefaultGamerType = "Novice Explorer"

// Build computes a taste profile from matched library entries plus the
// keyword lists of games the user explicitly marked not interested.
// Returns nil when the library holds no matched entries.
func Build(rows []*store.ProfileRow, ignoredKeywordLists [][]string) *domain.Profile {
	if len(rows) == 0 {
		return nil
	}

	p := domain.NewProfile()
	p.GamerType = DefaultGamerType

	// Favorite is the single most played entry. Rows arrive ordered by
	// playtime, so the first one wins.
	p.FavoriteGame = rows[0].Title
	for _, row := range rows {
		p.TotalMinutes += row.PlaytimeMinutes
	}

	for _, row := range rows {
		playtime := row.PlaytimeMinutes
		rating := row.Rating

		// Short unrated plays are noise. Short rated plays stay: a rage
		// quit carries real signal.
		if playtime < 60 && rating == 0 {
			continue
		}

		baseWeight := math.Log1p(math.Max(float64(playtime), 10))

		disliked := false
		switch {
		case rating >= 9:
			// Favorites dominate the profile regardless of playtime.
			baseWeight = math.Max(baseWeight, 15.0) * 2.5
		case rating >= 8:
			baseWeight = math.Max(baseWeight, 10.0) * 1.5
		case rating >= 6:
			baseWeight *= 1.2
		case rating >= 1:
			baseWeight = 0
			disliked = true
		}

		genres := normalize.TagTitles(row.Genres)
		themes := normalize.TagTitles(row.Themes)
		keywords := normalize.Keywords(row.Keywords)

		if disliked {
			// Barely played and still rated badly reads as "hated this
			// immediately" and counts double.
			dislikeWeight := 1.0
			if playtime < 120 {
				dislikeWeight = 2.0
			}
			for _, g := range genres {
				p.DislikedGenres.Add(g, dislikeWeight)
			}
			for _, t := range themes {
				p.DislikedThemes.Add(t, dislikeWeight)
			}
			for _, k := range keywords {
				p.DislikedKeywords.Add(k, dislikeWeight)
			}
			for _, d := range row.Developers {
				p.DislikedDevelopers.Add(d, dislikeWeight)
			}
			continue
		}

		for _, g := range genres {
			p.Genres.Add(g, baseWeight)
		}
		for _, t := range themes {
			p.Themes.Add(t, baseWeight)
		}
		for _, k := range keywords {
			p.Keywords.Add(k, baseWeight)
		}
		for _, d := range row.Developers {
			p.Developers.Add(d, baseWeight)
		}
		for _, m := range row.GameModes {
			p.GameModes.Add(m, baseWeight)
		}
	}

	for _, keywords := range ignoredKeywordLists {
		for _, k := range normalize.Keywords(keywords) {
			p.NegativeKeywords.Add(k, 1)
		}
	}

	if len(p.Genres) > 0 {
		topGenre, _ := p.Genres.Top()
		p.GamerType = gamerType(topGenre, p.TotalMinutes)
	}

	return p
}
