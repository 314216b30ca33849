package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/smart-calendar/internal/calendar"
	"github.com/example/smart-calendar/internal/civil"
	"github.com/example/smart-calendar/internal/persistence"
	"github.com/example/smart-calendar/internal/recurrence"
)

const eventColumns = `id, owner_id, title, category, start_date, end_date, recurrence, status,
	linked_property_id, notes, visibility, notify_day_of, notify_1_week, notify_30_days,
	template_key, is_suggested, completed_on, created_at, updated_at`

// ListEvents returns the owner's events ordered by start date then id.
func (s *Storage) ListEvents(ctx context.Context, ownerID string, filter persistence.EventFilter) ([]calendar.Event, error) {
	conditions := []string{"owner_id = ?"}
	args := []any{ownerID}

	if filter.Category != nil {
		conditions = append(conditions, "category = ?")
		args = append(args, string(*filter.Category))
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.LinkedPropertyID != nil {
		conditions = append(conditions, "linked_property_id = ?")
		args = append(args, *filter.LinkedPropertyID)
	}
	if filter.StartsFrom != nil {
		conditions = append(conditions, "start_date >= ?")
		args = append(args, filter.StartsFrom.String())
	}
	if filter.StartsTo != nil {
		conditions = append(conditions, "start_date <= ?")
		args = append(args, filter.StartsTo.String())
	}

	query := fmt.Sprintf(`SELECT %s FROM calendar_events WHERE %s ORDER BY start_date ASC, id ASC`,
		eventColumns, strings.Join(conditions, " AND "))

	rows, err := s.pool.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	events := make([]calendar.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return events, nil
}

// GetEvent retrieves an event by id.
func (s *Storage) GetEvent(ctx context.Context, ownerID, id string) (calendar.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM calendar_events WHERE id = ? AND owner_id = ?`, eventColumns)
	e, err := scanEvent(s.pool.DB().QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		return calendar.Event{}, err
	}
	return e, nil
}

// CreateEvent inserts a new event.
func (s *Storage) CreateEvent(ctx context.Context, event calendar.Event) error {
	if event.ID == "" || event.OwnerID == "" {
		return persistence.ErrConstraintViolation
	}

	created := s.formatTime(event.CreatedAt)
	updated := s.formatTime(event.UpdatedAt)

	return s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		query := fmt.Sprintf(`INSERT INTO calendar_events (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, eventColumns)
		_, err := tx.ExecContext(ctx, query,
			event.ID,
			event.OwnerID,
			event.Title,
			string(event.Category),
			event.StartDate.String(),
			nullableDate(event.EndDate),
			string(event.Recurrence),
			string(event.Status),
			nullableString(event.LinkedPropertyID),
			event.Notes,
			string(event.Visibility),
			event.NotifyDayOf,
			event.Notify1Week,
			event.Notify30Days,
			event.TemplateKey,
			event.IsSuggested,
			nullableDate(event.CompletedOn),
			created,
			updated,
		)
		return mapError(err)
	})
}

// UpdateEvent rewrites every mutable column. owner_id and created_at never
// change.
func (s *Storage) UpdateEvent(ctx context.Context, event calendar.Event) error {
	updated := s.formatTime(event.UpdatedAt)

	return s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE calendar_events SET
				title = ?, category = ?, start_date = ?, end_date = ?, recurrence = ?, status = ?,
				linked_property_id = ?, notes = ?, visibility = ?, notify_day_of = ?, notify_1_week = ?,
				notify_30_days = ?, template_key = ?, is_suggested = ?, completed_on = ?, updated_at = ?
			WHERE id = ? AND owner_id = ?`,
			event.Title,
			string(event.Category),
			event.StartDate.String(),
			nullableDate(event.EndDate),
			string(event.Recurrence),
			string(event.Status),
			nullableString(event.LinkedPropertyID),
			event.Notes,
			string(event.Visibility),
			event.NotifyDayOf,
			event.Notify1Week,
			event.Notify30Days,
			event.TemplateKey,
			event.IsSuggested,
			nullableDate(event.CompletedOn),
			updated,
			event.ID,
			event.OwnerID,
		)
		if err != nil {
			return mapError(err)
		}
		return requireAffected(result)
	})
}

// DeleteEvent removes an event by id.
func (s *Storage) DeleteEvent(ctx context.Context, ownerID, id string) error {
	result, err := s.pool.DB().ExecContext(ctx, `DELETE FROM calendar_events WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(result)
}

// TemplateKeys returns the owner's distinct template keys, sorted.
func (s *Storage) TemplateKeys(ctx context.Context, ownerID string) ([]string, error) {
	rows, err := s.pool.DB().QueryContext(ctx, `
		SELECT DISTINCT template_key FROM calendar_events
		WHERE owner_id = ? AND template_key <> ''
		ORDER BY template_key ASC`, ownerID)
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

func scanEvent(row rowScanner) (calendar.Event, error) {
	var (
		e                     calendar.Event
		category, rec, status string
		visibility            string
		endDate, completedOn  civil.Date
		linkedProperty        sql.NullString
		createdAt, updatedAt  string
	)

	err := row.Scan(
		&e.ID,
		&e.OwnerID,
		&e.Title,
		&category,
		&e.StartDate,
		&endDate,
		&rec,
		&status,
		&linkedProperty,
		&e.Notes,
		&visibility,
		&e.NotifyDayOf,
		&e.Notify1Week,
		&e.Notify30Days,
		&e.TemplateKey,
		&e.IsSuggested,
		&completedOn,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return calendar.Event{}, mapError(err)
	}

	e.Category = calendar.Category(category)
	e.Recurrence = recurrence.Recurrence(rec)
	e.Status = calendar.Status(status)
	e.Visibility = calendar.Visibility(visibility)
	if !endDate.IsZero() {
		e.EndDate = &endDate
	}
	if !completedOn.IsZero() {
		e.CompletedOn = &completedOn
	}
	if linkedProperty.Valid {
		id := linkedProperty.String
		e.LinkedPropertyID = &id
	}
	e.CreatedAt = parseTime(createdAt)
	e.UpdatedAt = parseTime(updatedAt)
	return e, nil
}

func (s *Storage) formatTime(t time.Time) string {
	if t.IsZero() {
		return s.timestamp()
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(v string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableDate(d *civil.Date) any {
	if d == nil || d.IsZero() {
		return nil
	}
	return d.String()
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if n == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
