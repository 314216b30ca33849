// Package sqlite persists calendar events, suggestion dismissals and signal
// records in SQLite through database/sql and the pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"log/slog"
	"time"

	"github.com/example/smart-calendar/internal/persistence"
	"github.com/example/smart-calendar/internal/persistence/sqlite/migration"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

var (
	_ persistence.EventRepository = (*Storage)(nil)
	_ persistence.DismissalStore  = (*Storage)(nil)
	_ persistence.SignalSource    = (*Storage)(nil)
	_ persistence.SignalWriter    = (*Storage)(nil)
)

// Storage implements the persistence interfaces on one connection pool.
type Storage struct {
	pool   *ConnectionPool
	logger *slog.Logger
	now    func() time.Time
}

// Option customises Storage.
type Option func(*Storage)

// WithLogger sets the logger used for migrations.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Storage) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithNow overrides the clock used for row timestamps.
func WithNow(now func() time.Time) Option {
	return func(s *Storage) {
		if now != nil {
			s.now = now
		}
	}
}

// Open connects to dsn. Call Migrate before first use.
func Open(dsn string, opts ...Option) (*Storage, error) {
	pool, err := NewConnectionPool(dsn)
	if err != nil {
		return nil, err
	}

	s := &Storage{pool: pool, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases the connection pool.
func (s *Storage) Close() error {
	return s.pool.Close()
}

// Ping checks that the database answers.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Stats reports connection pool statistics.
func (s *Storage) Stats() sql.DBStats {
	return s.pool.DB().Stats()
}

// Migrate applies the embedded schema migrations.
func (s *Storage) Migrate(ctx context.Context) error {
	manager := migration.NewManager(
		migration.NewScanner(migrationFiles, "migrations"),
		migration.NewExecutor(s.pool.DB()),
		s.logger,
	)
	return manager.Run(ctx)
}

func (s *Storage) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}
