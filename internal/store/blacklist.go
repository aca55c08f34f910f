package store

import (
	"context"
	"strings"
	"time"
)

// AddBlacklist records a platform identity so re-imports skip it after the
// user deletes the entry. Adding twice is a no-op.
func (s *Store) AddBlacklist(ctx context.Context, platform, platformID, title string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blacklist (platform, platform_id, title, created_at)
		VALUES (?, ?, ?, ?)`,
		platform, platformID, title, formatTime(time.Now().UTC()))
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return nil
	}
	return err
}

// IsBlacklisted reports whether a platform identity was removed by the user.
func (s *Store) IsBlacklisted(ctx context.Context, platform, platformID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM blacklist WHERE platform = ? AND platform_id = ?`,
		platform, platformID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
