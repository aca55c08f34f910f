package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/questlogapp/questlog-server/internal/domain"
	"github.com/questlogapp/questlog-server/internal/normalize"
)

// gameColumns is the ordered list of columns selected in game queries.
// Must match the scan order in scanGame.
const gameColumns = `id, igdb_id, title, normalized_title, genres, themes, keywords,
	developers, game_modes, summary, cover_url, total_rating, total_rating_count`

// scanGame scans a sql.Row (or sql.Rows via its Scan method) into a domain.Game.
func scanGame(scanner interface{ Scan(dest ...any) error }) (*domain.Game, error) {
	var g domain.Game

	var (
		igdbID      sql.NullInt64
		normTitle   sql.NullString
		genres      sql.NullString
		themes      sql.NullString
		keywords    sql.NullString
		developers  sql.NullString
		modes       sql.NullString
		summary     sql.NullString
		coverURL    sql.NullString
		rating      sql.NullFloat64
		ratingCount sql.NullInt64
	)

	err := scanner.Scan(
		&g.ID,
		&igdbID,
		&g.Title,
		&normTitle,
		&genres,
		&themes,
		&keywords,
		&developers,
		&modes,
		&summary,
		&coverURL,
		&rating,
		&ratingCount,
	)
	if err != nil {
		return nil, err
	}

	g.IGDBID = igdbID.Int64
	g.NormalizedTitle = normTitle.String
	g.Genres = parseTags(genres)
	g.Themes = parseTags(themes)
	g.Keywords = parseTags(keywords)
	g.Developers = parseTags(developers)
	g.GameModes = parseTags(modes)
	g.Summary = summary.String
	g.CoverURL = coverURL.String
	g.TotalRating = rating.Float64
	g.TotalRatingCount = int(ratingCount.Int64)

	return &g, nil
}

// UpsertGame inserts or updates a golden game record, matched by IGDB id.
// On insert the generated row id is written back to g.ID.
func (s *Store) UpsertGame(ctx context.Context, g *domain.Game) error {
	if g.NormalizedTitle == "" {
		g.NormalizedTitle = normalize.Title(g.Title)
	}

	if g.IGDBID != 0 {
		var existingID int64
		err := s.db.QueryRowContext(ctx,
			`SELECT id FROM games WHERE igdb_id = ?`, g.IGDBID).Scan(&existingID)
		switch {
		case err == sql.ErrNoRows:
			// fall through to insert
		case err != nil:
			return err
		default:
			g.ID = existingID
			_, err = s.db.ExecContext(ctx, `
				UPDATE games
				SET title = ?, normalized_title = ?, genres = ?, themes = ?, keywords = ?,
					developers = ?, game_modes = ?, summary = ?, cover_url = ?,
					total_rating = ?, total_rating_count = ?
				WHERE id = ?`,
				g.Title,
				g.NormalizedTitle,
				marshalTags(g.Genres),
				marshalTags(g.Themes),
				marshalTags(g.Keywords),
				marshalTags(g.Developers),
				marshalTags(g.GameModes),
				nullString(g.Summary),
				nullString(g.CoverURL),
				nullFloat64(g.TotalRating),
				nullInt64(int64(g.TotalRatingCount)),
				g.ID,
			)
			return err
		}
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO games (
			igdb_id, title, normalized_title, genres, themes, keywords,
			developers, game_modes, summary, cover_url, total_rating, total_rating_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullInt64(g.IGDBID),
		g.Title,
		g.NormalizedTitle,
		marshalTags(g.Genres),
		marshalTags(g.Themes),
		marshalTags(g.Keywords),
		marshalTags(g.Developers),
		marshalTags(g.GameModes),
		nullString(g.Summary),
		nullString(g.CoverURL),
		nullFloat64(g.TotalRating),
		nullInt64(int64(g.TotalRatingCount)),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrAlreadyExists
		}
		return err
	}

	g.ID, err = res.LastInsertId()
	return err
}

// GetGame retrieves a golden game by row id.
// Returns ErrNotFound if the game does not exist.
func (s *Store) GetGame(ctx context.Context, id int64) (*domain.Game, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+gameColumns+` FROM games WHERE id = ?`, id)

	g, err := scanGame(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// GetGameByIGDBID retrieves a golden game by catalog id.
// Returns ErrNotFound if no record references that id.
func (s *Store) GetGameByIGDBID(ctx context.Context, igdbID int64) (*domain.Game, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+gameColumns+` FROM games WHERE igdb_id = ?`, igdbID)

	g, err := scanGame(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// GetGameByTitle retrieves a golden game by normalized or exact title.
// Returns ErrNotFound if no record matches.
func (s *Store) GetGameByTitle(ctx context.Context, title string) (*domain.Game, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+gameColumns+` FROM games WHERE normalized_title = ? OR title = ?`,
		normalize.Title(title), title)

	g, err := scanGame(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// AllGames returns every golden game record, for search index rebuilds.
func (s *Store) AllGames(ctx context.Context) ([]*domain.Game, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+gameColumns+` FROM games ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []*domain.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// OwnedIGDBIDs returns the set of catalog ids referenced by golden records.
func (s *Store) OwnedIGDBIDs(ctx context.Context) (map[int64]struct{}, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT igdb_id FROM games WHERE igdb_id IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// OwnedNormalizedTitles returns the normalized titles of every library entry,
// used to filter discovery results that match an owned game by name.
func (s *Store) OwnedNormalizedTitles(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT original_title FROM user_library`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	titles := make(map[string]struct{})
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		titles[normalize.Title(title)] = struct{}{}
	}
	return titles, rows.Err()
}
