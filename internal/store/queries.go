package store

import (
	"context"
	"database/sql"
	"strings"
)

// ProfileRow is one matched library entry with its game's tags. A game
// owned on two storefronts contributes one row per entry, so a rage quit
// on one platform keeps its own playtime signal. Rating is 0 when unrated.
type ProfileRow struct {
	EntryID         string
	GameID          int64
	Title           string
	Genres          []string
	Themes          []string
	Keywords        []string
	Developers      []string
	GameModes       []string
	PlaytimeMinutes int
	Rating          int
}

// ProfileRows returns every matched library entry ordered by playtime
// descending then entry id, so profile builds are deterministic.
func (s *Store) ProfileRows(ctx context.Context) ([]*ProfileRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ul.id, g.id, g.title, g.genres, g.themes, g.keywords,
			g.developers, g.game_modes, ul.playtime_minutes, r.rating
		FROM user_library ul
		JOIN games g ON ul.game_id = g.id
		LEFT JOIN ratings r ON ul.game_id = r.game_id
		ORDER BY ul.playtime_minutes DESC, ul.id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*ProfileRow
	for rows.Next() {
		var (
			p          ProfileRow
			genres     sql.NullString
			themes     sql.NullString
			keywords   sql.NullString
			developers sql.NullString
			modes      sql.NullString
			rating     sql.NullInt64
		)
		err := rows.Scan(
			&p.EntryID, &p.GameID, &p.Title, &genres, &themes, &keywords,
			&developers, &modes, &p.PlaytimeMinutes, &rating,
		)
		if err != nil {
			return nil, err
		}
		p.Genres = parseTags(genres)
		p.Themes = parseTags(themes)
		p.Keywords = parseTags(keywords)
		p.Developers = parseTags(developers)
		p.GameModes = parseTags(modes)
		p.Rating = int(rating.Int64)
		out = append(out, &p)
	}
	return out, rows.Err()
}

// LikedSummaries returns the summaries of games the user demonstrably
// engaged with, used to train the text affinity model.
func (s *Store) LikedSummaries(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.summary
		FROM user_library ul
		JOIN games g ON ul.game_id = g.id
		LEFT JOIN ratings r ON ul.game_id = r.game_id
		WHERE g.summary IS NOT NULL AND g.summary != ''
		  AND (ul.playtime_minutes > 60 OR r.rating >= 7)
		ORDER BY ul.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// BacklogRow is one unplayed, unrated game grouped across its library
// entries, candidate for backlog scoring.
type BacklogRow struct {
	PrimaryEntryID  string
	LibraryIDs      []string
	GameID          int64
	IGDBID          int64
	Title           string
	CoverURL        string
	Platforms       []string
	PlaytimeMinutes int
	Genres          []string
	Themes          []string
	Keywords        []string
	Developers      []string
	GameModes       []string
	Summary         string
}

// BacklogRows returns games where every library entry is unplayed with
// under two hours on the clock and no rating exists. A single played or
// status-changed entry anywhere excludes the whole game.
func (s *Store) BacklogRows(ctx context.Context) ([]*BacklogRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT MIN(ul.id), GROUP_CONCAT(ul.id), g.id, g.igdb_id, g.title, g.cover_url,
			GROUP_CONCAT(DISTINCT ul.platform), MAX(ul.playtime_minutes),
			g.genres, g.themes, g.keywords, g.developers, g.game_modes, g.summary
		FROM user_library ul
		JOIN games g ON ul.game_id = g.id
		WHERE ul.playtime_minutes < 120
		  AND ul.manual_play_status = 'unplayed'
		  AND NOT EXISTS (
		      SELECT 1 FROM user_library ul2
		      WHERE ul2.game_id = g.id
		        AND (ul2.playtime_minutes >= 120 OR ul2.manual_play_status != 'unplayed')
		  )
		  AND NOT EXISTS (
		      SELECT 1 FROM ratings r WHERE r.game_id = g.id
		  )
		GROUP BY g.id
		ORDER BY MIN(ul.id) ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*BacklogRow
	for rows.Next() {
		var (
			b          BacklogRow
			ids        string
			igdbID     sql.NullInt64
			coverURL   sql.NullString
			platforms  string
			genres     sql.NullString
			themes     sql.NullString
			keywords   sql.NullString
			developers sql.NullString
			modes      sql.NullString
			summary    sql.NullString
		)
		err := rows.Scan(
			&b.PrimaryEntryID, &ids, &b.GameID, &igdbID, &b.Title, &coverURL,
			&platforms, &b.PlaytimeMinutes,
			&genres, &themes, &keywords, &developers, &modes, &summary,
		)
		if err != nil {
			return nil, err
		}
		b.LibraryIDs = strings.Split(ids, ",")
		b.IGDBID = igdbID.Int64
		b.CoverURL = coverURL.String
		b.Platforms = strings.Split(platforms, ",")
		b.Genres = parseTags(genres)
		b.Themes = parseTags(themes)
		b.Keywords = parseTags(keywords)
		b.Developers = parseTags(developers)
		b.GameModes = parseTags(modes)
		b.Summary = summary.String
		out = append(out, &b)
	}
	return out, rows.Err()
}

// SourceRow is a played game eligible to seed discovery.
type SourceRow struct {
	IGDBID          int64
	Title           string
	Genres          []string
	PlaytimeMinutes int
	Rating          int
}

const sourceRowBase = `
	SELECT DISTINCT g.igdb_id, g.title, g.genres, ul.playtime_minutes, r.rating
	FROM user_library ul
	JOIN games g ON ul.game_id = g.id
	LEFT JOIN ratings r ON ul.game_id = r.game_id
	WHERE g.igdb_id IS NOT NULL`

func (s *Store) querySourceRows(ctx context.Context, query string, args ...any) ([]*SourceRow, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*SourceRow
	for rows.Next() {
		var (
			sr     SourceRow
			genres sql.NullString
			rating sql.NullInt64
		)
		if err := rows.Scan(&sr.IGDBID, &sr.Title, &genres, &sr.PlaytimeMinutes, &rating); err != nil {
			return nil, err
		}
		sr.Genres = parseTags(genres)
		sr.Rating = int(rating.Int64)
		out = append(out, &sr)
	}
	return out, rows.Err()
}

// SourceRowsByGenre returns the most played library entries whose game lists
// the given genre, optionally restricted to one storefront.
func (s *Store) SourceRowsByGenre(ctx context.Context, genre, platform string, limit int) ([]*SourceRow, error) {
	query := sourceRowBase
	var args []any
	if platform != "" {
		query += " AND ul.platform = ?"
		args = append(args, platform)
	}
	query += " AND g.genres LIKE ? ORDER BY ul.playtime_minutes DESC LIMIT ?"
	args = append(args, "%"+genre+"%", limit)
	return s.querySourceRows(ctx, query, args...)
}

// SourceRowsGeneral returns library entries with real engagement, either
// meaningful playtime or a high rating, most played first.
func (s *Store) SourceRowsGeneral(ctx context.Context, platform string, limit int) ([]*SourceRow, error) {
	query := sourceRowBase
	var args []any
	if platform != "" {
		query += " AND ul.platform = ?"
		args = append(args, platform)
	}
	query += " AND (ul.playtime_minutes > 120 OR r.rating >= 7) ORDER BY ul.playtime_minutes DESC LIMIT ?"
	args = append(args, limit)
	return s.querySourceRows(ctx, query, args...)
}
