package recommend

import (
	"context"
	"sort"

	"github.com/questlogapp/questlog-server/internal/domain"
	"github.com/questlogapp/questlog-server/internal/normalize"
)

// Match weights for backlog scoring. Developers carry the most signal per
// tag since a library rarely has more than a handful of trusted studios.
const (
	backlogGenreWeight     = 1.0
	backlogThemeWeight     = 0.8
	backlogKeywordWeight   = 0.5
	backlogDeveloperWeight = 2.0
	backlogModeWeight      = 0.5
	backlogTextWeight      = 50.0
)

// Dislike penalties. Deliberately heavier than the match weights so one
// confirmed dislike outweighs several weak matches.
const (
	backlogGenrePenalty      = 10.0
	backlogThemePenalty      = 8.0
	backlogKeywordPenalty    = 5.0
	backlogNegKeywordPenalty = 10.0
	backlogDeveloperPenalty  = 20.0
)

// Backlog ranks the user's unplayed owned games by fit against the
// profile. Returns nil when no profile can be built or nothing qualifies.
func (e *Engine) Backlog(ctx context.Context, limit int) ([]*domain.BacklogItem, error) {
	p, err := e.BuildProfile(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}

	summaries, err := e.store.LikedSummaries(ctx)
	if err != nil {
		return nil, err
	}
	e.affinity.Train(summaries)

	rows, err := e.store.BacklogRows(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*domain.BacklogItem, 0, len(rows))
	for _, row := range rows {
		score := 0.0
		for _, g := range normalize.TagTitles(row.Genres) {
			score += p.Genres.Get(g) * backlogGenreWeight
			score -= p.DislikedGenres.Get(g) * backlogGenrePenalty
		}
		for _, t := range normalize.TagTitles(row.Themes) {
			score += p.Themes.Get(t) * backlogThemeWeight
			score -= p.DislikedThemes.Get(t) * backlogThemePenalty
		}
		for _, k := range normalize.Keywords(row.Keywords) {
			score += p.Keywords.Get(k) * backlogKeywordWeight
			score -= p.DislikedKeywords.Get(k) * backlogKeywordPenalty
			score -= p.NegativeKeywords.Get(k) * backlogNegKeywordPenalty
		}
		for _, d := range row.Developers {
			score += p.Developers.Get(d) * backlogDeveloperWeight
			score -= p.DislikedDevelopers.Get(d) * backlogDeveloperPenalty
		}
		for _, m := range row.GameModes {
			score += p.GameModes.Get(m) * backlogModeWeight
		}
		score += e.affinity.Score(row.Summary) * backlogTextWeight

		genres := normalize.TagTitles(row.Genres)
		if len(genres) > 3 {
			genres = genres[:3]
		}
		items = append(items, &domain.BacklogItem{
			PrimaryEntryID:  row.PrimaryEntryID,
			LibraryIDs:      row.LibraryIDs,
			GameID:          row.GameID,
			Title:           row.Title,
			CoverURL:        row.CoverURL,
			Platforms:       sortedUnique(row.Platforms),
			PlaytimeMinutes: row.PlaytimeMinutes,
			Score:           score,
			Genres:          genres,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func sortedUnique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
