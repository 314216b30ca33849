package sqlite

import (
	"context"
	"time"

	"github.com/example/smart-calendar/internal/persistence"
)

// DismissedKeys returns the owner's dismissed suggestion keys, sorted.
func (s *Storage) DismissedKeys(ctx context.Context, ownerID string) ([]string, error) {
	rows, err := s.pool.DB().QueryContext(ctx, `
		SELECT suggestion_key FROM suggestion_dismissals
		WHERE owner_id = ?
		ORDER BY suggestion_key ASC`, ownerID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, mapError(err)
		}
		keys = append(keys, key)
	}
	return keys, mapError(rows.Err())
}

// AddDismissal records a dismissal. Dismissing a key again overwrites the
// earlier timestamp.
func (s *Storage) AddDismissal(ctx context.Context, dismissal persistence.Dismissal) error {
	if dismissal.OwnerID == "" || dismissal.Key == "" {
		return persistence.ErrConstraintViolation
	}

	at := dismissal.DismissedAt
	if at.IsZero() {
		at = s.now()
	}

	_, err := s.pool.DB().ExecContext(ctx, `
		INSERT INTO suggestion_dismissals (owner_id, suggestion_key, dismissed_at)
		VALUES (?, ?, ?)
		ON CONFLICT (owner_id, suggestion_key) DO UPDATE SET dismissed_at = excluded.dismissed_at`,
		dismissal.OwnerID, dismissal.Key, at.UTC().Format(time.RFC3339Nano))
	return mapError(err)
}
