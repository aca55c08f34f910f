package igdb

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/questlogapp/questlog-server/internal/domain"
)

// gameFields is the Apicalypse field list for full golden-record hydration.
const gameFields = `fields name, genres.name, themes.name, keywords.name, summary, cover.url,
	total_rating, total_rating_count, rating,
	involved_companies.company.name, involved_companies.developer, game_modes.name;`

// candidateFields is the lighter field list used by discovery hydration.
const candidateFields = `fields name, summary, rating, genres.name, cover.image_id;`

// platformClause returns the Apicalypse platform restriction for a
// storefront filter, or "" when the filter is unknown or empty.
func platformClause(platform string) string {
	switch platform {
	case "steam":
		return " & platforms = (6)"
	case "psn":
		return " & platforms = (48, 167)"
	}
	return ""
}

func (c *Client) queryGames(ctx context.Context, body string) ([]rawGame, error) {
	data, err := c.query(ctx, "games", body)
	if err != nil {
		return nil, err
	}
	var games []rawGame
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("parse games response: %w", err)
	}
	return games, nil
}

// SearchByTitle searches IGDB for the closest match to a title and returns
// it as a golden record. Returns ErrNotFound when nothing matches.
func (c *Client) SearchByTitle(ctx context.Context, title string) (*domain.Game, error) {
	body := fmt.Sprintf("%s search %q; limit 1;", gameFields, title)
	games, err := c.queryGames(ctx, body)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, ErrNotFound
	}
	return games[0].toDomain(), nil
}

// GetByID fetches one game by catalog id as a golden record.
func (c *Client) GetByID(ctx context.Context, igdbID int64) (*domain.Game, error) {
	body := fmt.Sprintf("%s where id = %d; limit 1;", gameFields, igdbID)
	games, err := c.queryGames(ctx, body)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, ErrNotFound
	}
	return games[0].toDomain(), nil
}

// SimilarIDs returns the catalog ids IGDB lists as similar to a game.
func (c *Client) SimilarIDs(ctx context.Context, igdbID int64) ([]int64, error) {
	body := fmt.Sprintf("fields similar_games; where id = %d;", igdbID)
	games, err := c.queryGames(ctx, body)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, nil
	}
	return games[0].SimilarGames, nil
}

// GetCandidates hydrates a batch of catalog ids into discovery candidates.
// The genre and platform filters are applied server side, so games failing
// them are silently dropped from the result.
func (c *Client) GetCandidates(ctx context.Context, igdbIDs []int64, genre, platform string) ([]*Candidate, error) {
	if len(igdbIDs) == 0 {
		return nil, nil
	}

	ids := make([]string, len(igdbIDs))
	for i, id := range igdbIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}

	where := fmt.Sprintf("id = (%s)", strings.Join(ids, ","))
	if genre != "" {
		where += fmt.Sprintf(" & genres.name = %q", genre)
	}
	where += platformClause(platform)

	body := fmt.Sprintf("%s where %s;", candidateFields, where)
	games, err := c.queryGames(ctx, body)
	if err != nil {
		return nil, err
	}

	out := make([]*Candidate, 0, len(games))
	for i := range games {
		out = append(out, games[i].toCandidate())
	}
	return out, nil
}

// TopRatedByGenre returns well-reviewed games in a genre, best first, used
// as the discovery fallback when similarity mining comes up short.
func (c *Client) TopRatedByGenre(ctx context.Context, genre, platform string, limit int) ([]*Candidate, error) {
	where := fmt.Sprintf("genres.name = %q & rating > 75 & rating_count > 10", genre)
	where += platformClause(platform)

	body := fmt.Sprintf("%s where %s; sort rating desc; limit %d;", candidateFields, where, limit)
	games, err := c.queryGames(ctx, body)
	if err != nil {
		return nil, err
	}

	out := make([]*Candidate, 0, len(games))
	for i := range games {
		out = append(out, games[i].toCandidate())
	}
	return out, nil
}
