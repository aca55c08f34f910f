package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/questlogapp/questlog-server/internal/domain"
)

// UpsertRating records a 1-10 rating for a golden game, replacing any
// previous rating for the same game.
func (s *Store) UpsertRating(ctx context.Context, gameID int64, rating int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ratings (game_id, rating, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(game_id) DO UPDATE SET rating = excluded.rating, created_at = excluded.created_at`,
		gameID, rating, formatTime(time.Now().UTC()))
	return err
}

// GetRating returns the rating for a game, or ErrNotFound if unrated.
func (s *Store) GetRating(ctx context.Context, gameID int64) (*domain.Rating, error) {
	var (
		r       domain.Rating
		created sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT game_id, rating, created_at FROM ratings WHERE game_id = ?`,
		gameID).Scan(&r.GameID, &r.Rating, &created)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if t := parseNullableTime(created); t != nil {
		r.CreatedAt = *t
	}
	return &r, nil
}

// DeleteRating removes a rating. Returns ErrNotFound if none exists.
func (s *Store) DeleteRating(ctx context.Context, gameID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ratings WHERE game_id = ?`, gameID)
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
