package store

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/questlogapp/questlog-server/internal/domain"
)

const libraryColumns = `id, game_id, platform, platform_id, original_title,
	playtime_minutes, last_played, manual_play_status, achievements_unlocked, achievements_total`

func scanLibraryEntry(scanner interface{ Scan(dest ...any) error }) (*domain.LibraryEntry, error) {
	var e domain.LibraryEntry

	var (
		gameID     sql.NullInt64
		platformID sql.NullString
		lastPlayed sql.NullString
		status     sql.NullString
	)

	err := scanner.Scan(
		&e.ID,
		&gameID,
		&e.Platform,
		&platformID,
		&e.OriginalTitle,
		&e.PlaytimeMinutes,
		&lastPlayed,
		&status,
		&e.AchievementsUnlocked,
		&e.AchievementsTotal,
	)
	if err != nil {
		return nil, err
	}

	e.GameID = gameID.Int64
	e.PlatformID = platformID.String
	e.LastPlayed = parseNullableTime(lastPlayed)
	e.Status = domain.PlayStatus(status.String)
	if e.Status == "" {
		e.Status = domain.StatusUnplayed
	}

	return &e, nil
}

// CreateLibraryEntry inserts a new library entry. Returns ErrAlreadyExists
// when an entry for the same platform and platform id is present.
func (s *Store) CreateLibraryEntry(ctx context.Context, e *domain.LibraryEntry) error {
	if e.Status == "" {
		e.Status = domain.StatusUnplayed
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_library (
			id, game_id, platform, platform_id, original_title,
			playtime_minutes, last_played, manual_play_status,
			achievements_unlocked, achievements_total
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		nullInt64(e.GameID),
		e.Platform,
		nullString(e.PlatformID),
		e.OriginalTitle,
		e.PlaytimeMinutes,
		nullTimeString(e.LastPlayed),
		string(e.Status),
		e.AchievementsUnlocked,
		e.AchievementsTotal,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetLibraryEntry retrieves a single library entry by id.
func (s *Store) GetLibraryEntry(ctx context.Context, id string) (*domain.LibraryEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+libraryColumns+` FROM user_library WHERE id = ?`, id)

	e, err := scanLibraryEntry(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// UpdatePlayStatus sets the manual play status on an entry.
func (s *Store) UpdatePlayStatus(ctx context.Context, id string, status domain.PlayStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE user_library SET manual_play_status = ? WHERE id = ?`,
		string(status), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePlaytime refreshes playtime, last played and achievements on an
// existing entry, used by import when a platform reports new activity.
func (s *Store) UpdatePlaytime(ctx context.Context, e *domain.LibraryEntry) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE user_library
		SET playtime_minutes = ?, last_played = ?,
			achievements_unlocked = ?, achievements_total = ?
		WHERE id = ?`,
		e.PlaytimeMinutes,
		nullTimeString(e.LastPlayed),
		e.AchievementsUnlocked,
		e.AchievementsTotal,
		e.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// LinkEntryToGame points a library entry at a golden game record.
func (s *Store) LinkEntryToGame(ctx context.Context, entryID string, gameID int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE user_library SET game_id = ? WHERE id = ?`, gameID, entryID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteLibraryEntry removes an entry. Returns ErrNotFound if missing.
func (s *Store) DeleteLibraryEntry(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM user_library WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// FindEntryByPlatformID looks up an entry by its platform identity.
func (s *Store) FindEntryByPlatformID(ctx context.Context, platform, platformID string) (*domain.LibraryEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+libraryColumns+` FROM user_library WHERE platform = ? AND platform_id = ?`,
		platform, platformID)

	e, err := scanLibraryEntry(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListLibraryEntries returns every raw entry ordered by playtime.
func (s *Store) ListLibraryEntries(ctx context.Context) ([]*domain.LibraryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+libraryColumns+` FROM user_library ORDER BY playtime_minutes DESC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.LibraryEntry
	for rows.Next() {
		e, err := scanLibraryEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// libraryGroupRow is the raw join row behind ListLibrary grouping.
type libraryGroupRow struct {
	entry    *domain.LibraryEntry
	igdbID   int64
	title    string
	coverURL string
	rating   int
}

// ListLibrary returns the library grouped by golden game. Entries for the
// same game across platforms collapse into one group with summed playtime;
// unmatched entries each form their own group. Groups are ordered by total
// playtime descending, then by primary entry id for a stable order.
func (s *Store) ListLibrary(ctx context.Context) ([]*domain.LibraryGroup, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ul.id, ul.game_id, ul.platform, ul.platform_id, ul.original_title,
			ul.playtime_minutes, ul.last_played, ul.manual_play_status,
			ul.achievements_unlocked, ul.achievements_total,
			g.igdb_id, g.title, g.cover_url, r.rating
		FROM user_library ul
		LEFT JOIN games g ON ul.game_id = g.id
		LEFT JOIN ratings r ON r.game_id = g.id
		ORDER BY ul.playtime_minutes DESC, ul.id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var raw []libraryGroupRow
	for rows.Next() {
		var (
			r          libraryGroupRow
			e          domain.LibraryEntry
			gameID     sql.NullInt64
			platformID sql.NullString
			lastPlayed sql.NullString
			status     sql.NullString
			igdbID     sql.NullInt64
			title      sql.NullString
			coverURL   sql.NullString
			rating     sql.NullInt64
		)
		err := rows.Scan(
			&e.ID, &gameID, &e.Platform, &platformID, &e.OriginalTitle,
			&e.PlaytimeMinutes, &lastPlayed, &status,
			&e.AchievementsUnlocked, &e.AchievementsTotal,
			&igdbID, &title, &coverURL, &rating,
		)
		if err != nil {
			return nil, err
		}
		e.GameID = gameID.Int64
		e.PlatformID = platformID.String
		e.LastPlayed = parseNullableTime(lastPlayed)
		e.Status = domain.PlayStatus(status.String)
		if e.Status == "" {
			e.Status = domain.StatusUnplayed
		}
		r.entry = &e
		r.igdbID = igdbID.Int64
		r.title = title.String
		r.coverURL = coverURL.String
		r.rating = int(rating.Int64)
		raw = append(raw, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	groups := make(map[int64]*domain.LibraryGroup)
	var ordered []*domain.LibraryGroup

	for _, r := range raw {
		e := r.entry
		if e.GameID != 0 {
			if g, ok := groups[e.GameID]; ok {
				g.PlaytimeMinutes += e.PlaytimeMinutes
				g.Platforms = append(g.Platforms, e.Platform)
				if g.LastPlayed == nil || (e.LastPlayed != nil && e.LastPlayed.After(*g.LastPlayed)) {
					g.LastPlayed = e.LastPlayed
				}
				continue
			}
		}

		g := &domain.LibraryGroup{
			PrimaryEntryID:  e.ID,
			GameID:          e.GameID,
			IGDBID:          r.igdbID,
			Title:           e.OriginalTitle,
			CoverURL:        r.coverURL,
			Platforms:       []string{e.Platform},
			PlaytimeMinutes: e.PlaytimeMinutes,
			Status:          e.Status,
			Rating:          r.rating,
			LastPlayed:      e.LastPlayed,
		}
		if r.title != "" {
			g.Title = r.title
		}
		if e.GameID != 0 {
			groups[e.GameID] = g
		}
		ordered = append(ordered, g)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].PlaytimeMinutes != ordered[j].PlaytimeMinutes {
			return ordered[i].PlaytimeMinutes > ordered[j].PlaytimeMinutes
		}
		return ordered[i].PrimaryEntryID < ordered[j].PrimaryEntryID
	})

	return ordered, nil
}

// UnratedGames returns library groups for played games with no rating,
// ordered by playtime so the most played show up first for review.
func (s *Store) UnratedGames(ctx context.Context) ([]*domain.LibraryGroup, error) {
	groups, err := s.ListLibrary(ctx)
	if err != nil {
		return nil, err
	}

	var unrated []*domain.LibraryGroup
	for _, g := range groups {
		if g.GameID != 0 && g.Rating == 0 && g.PlaytimeMinutes >= 60 {
			unrated = append(unrated, g)
		}
	}
	return unrated, nil
}
