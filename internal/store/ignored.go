package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/questlogapp/questlog-server/internal/domain"
)

// AddIgnored marks a catalog id as ignored for recommendations. Re-adding
// an already ignored id updates the reason.
func (s *Store) AddIgnored(ctx context.Context, igdbID int64, reason domain.IgnoreReason) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ignored_recommendations (igdb_id, reason, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(igdb_id) DO UPDATE SET reason = excluded.reason`,
		igdbID, string(reason), formatTime(time.Now().UTC()))
	return err
}

// RemoveIgnored clears the ignore flag on a catalog id.
func (s *Store) RemoveIgnored(ctx context.Context, igdbID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM ignored_recommendations WHERE igdb_id = ?`, igdbID)
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

// IgnoredIDs returns the set of ignored catalog ids, any reason.
func (s *Store) IgnoredIDs(ctx context.Context) (map[int64]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT igdb_id FROM ignored_recommendations`)
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

// ListIgnored returns all ignored recommendations with reasons.
func (s *Store) ListIgnored(ctx context.Context) ([]*domain.IgnoredRecommendation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT igdb_id, reason, created_at FROM ignored_recommendations ORDER BY igdb_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.IgnoredRecommendation
	for rows.Next() {
		var (
			rec     domain.IgnoredRecommendation
			reason  sql.NullString
			created sql.NullString
		)
		if err := rows.Scan(&rec.IGDBID, &reason, &created); err != nil {
			return nil, err
		}
		rec.Reason = domain.IgnoreReason(reason.String)
		if t := parseNullableTime(created); t != nil {
			rec.CreatedAt = *t
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// NotInterestedKeywordLists returns the keyword lists of golden games the
// user marked not interested, used to learn negative keyword signals.
func (s *Store) NotInterestedKeywordLists(ctx context.Context) ([][]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.keywords
		FROM ignored_recommendations ir
		JOIN games g ON g.igdb_id = ir.igdb_id
		WHERE ir.reason = ? AND g.keywords IS NOT NULL
		ORDER BY ir.igdb_id`,
		string(domain.ReasonNotInterested))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists [][]string
	for rows.Next() {
		var raw sql.NullString
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		if kws := parseTags(raw); len(kws) > 0 {
			lists = append(lists, kws)
		}
	}
	return lists, rows.Err()
}
