package testfixtures

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/smart-calendar/internal/persistence/sqlite"
)

// SQLiteHarness is a migrated storage in a temporary directory.
type SQLiteHarness struct {
	Storage *sqlite.Storage

	cleanup func()
}

// Close releases the storage. It is also registered with tb.Cleanup.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness opens and migrates a fresh database. Row timestamps come
// from now when it is not nil.
func NewSQLiteHarness(tb testing.TB, now func() time.Time) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "calendar.db")

	storage, err := sqlite.Open(path, sqlite.WithNow(now))
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := storage.Migrate(context.Background()); err != nil {
		_ = storage.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Storage: storage,
		cleanup: func() {
			_ = storage.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
