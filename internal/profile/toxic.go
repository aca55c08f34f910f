package profile

import (
	"sort"

	"github.com/questlogapp/questlog-server/internal/domain"
)

// ToxicTraits identifies genres and keywords the user has disliked and
// never redeemed with positive history. The result is diagnostic: it is
// surfaced alongside the profile, not fed into scoring, which applies its
// own graded dislike penalties.
func ToxicTraits(p *domain.Profile) (genres, keywords []string) {
	if p == nil || len(p.Genres) == 0 {
		return nil, nil
	}

	avgGenre := p.Genres.Mean()

	// A genre that is a major part of the user's taste never turns toxic,
	// no matter how many bad entries it accumulated.
	safeThreshold := avgGenre * 0.75

	for g, dislikes := range p.DislikedGenres {
		liked := p.Genres.Get(g)
		if liked > safeThreshold {
			continue
		}

		// The weaker the positive history, the fewer dislikes it takes.
		toxic := false
		switch {
		case liked < avgGenre*0.2:
			toxic = dislikes >= 1
		case liked < avgGenre*0.5:
			toxic = dislikes >= 2
		default:
			toxic = dislikes >= 4
		}
		if toxic {
			genres = append(genres, g)
		}
	}

	avgKeyword := p.Keywords.Mean()
	if len(p.Keywords) == 0 {
		avgKeyword = 1
	}

	// Keywords are specific enough that a single dislike on a rarely
	// played keyword flags it.
	for k, dislikes := range p.DislikedKeywords {
		if p.Keywords.Get(k) < avgKeyword*0.3 && dislikes >= 1 {
			keywords = append(keywords, k)
		}
	}

	sort.Strings(genres)
	sort.Strings(keywords)
	return genres, keywords
}
