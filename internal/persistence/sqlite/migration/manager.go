package migration

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Manager applies pending migrations in version order.
type Manager struct {
	scanner  *Scanner
	executor *Executor
	logger   *slog.Logger
}

// NewManager wires a scanner and executor together. A nil logger discards
// output.
func NewManager(scanner *Scanner, executor *Executor, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{
		scanner:  scanner,
		executor: executor,
		logger:   logger.With(slog.String("component", "migration")),
	}
}

// Run applies every pending migration. It stops at the first failure.
func (m *Manager) Run(ctx context.Context) error {
	started := time.Now()

	status, err := m.Status(ctx)
	if err != nil {
		return err
	}

	if len(status.Pending) == 0 {
		m.logger.DebugContext(ctx, "database schema up to date", slog.String("version", status.CurrentVersion))
		return nil
	}

	for i, mig := range status.Pending {
		logger := m.logger.With(
			slog.String("version", mig.Version),
			slog.String("description", mig.Description),
		)
		logger.InfoContext(ctx, "applying migration", slog.Int("step", i+1), slog.Int("total", len(status.Pending)))

		if err := m.executor.Apply(ctx, mig); err != nil {
			logger.ErrorContext(ctx, "migration failed", slog.Any("error", err))
			return NewMigrationError(mig.Version, mig.Path, "execute migration", fmt.Errorf("%w: %w", ErrMigrationFailed, err))
		}
	}

	m.logger.InfoContext(ctx, "migrations applied",
		slog.Int("count", len(status.Pending)),
		slog.Duration("duration", time.Since(started)),
	)
	return nil
}

// Status compares the files on disk with schema_migrations. It fails when
// the sequence has a gap, when an applied file disappeared, or when an
// applied file was changed.
func (m *Manager) Status(ctx context.Context) (*Status, error) {
	if err := m.executor.InitializeVersionTable(ctx); err != nil {
		return nil, err
	}

	available, err := m.scanner.Scan()
	if err != nil {
		return nil, err
	}

	applied, err := m.executor.Applied(ctx)
	if err != nil {
		return nil, err
	}

	if err := validateSequence(available, applied); err != nil {
		return nil, err
	}

	appliedByVersion := make(map[string]AppliedMigration, len(applied))
	for _, a := range applied {
		appliedByVersion[a.Version] = a
	}

	status := &Status{Applied: applied}
	for _, mig := range available {
		if _, ok := appliedByVersion[mig.Version]; !ok {
			status.Pending = append(status.Pending, mig)
		}
	}
	if len(applied) > 0 {
		status.CurrentVersion = applied[len(applied)-1].Version
	}
	return status, nil
}

func validateSequence(available []Migration, applied []AppliedMigration) error {
	byVersion := make(map[int]Migration, len(available))
	for _, mig := range available {
		byVersion[versionNumber(mig.Version)] = mig
	}

	if len(available) > 0 {
		first := versionNumber(available[0].Version)
		last := versionNumber(available[len(available)-1].Version)
		for v := first; v <= last; v++ {
			if _, ok := byVersion[v]; !ok {
				return fmt.Errorf("%w: missing migration version %03d in sequence", ErrVersionConflict, v)
			}
		}
	}

	for _, a := range applied {
		mig, ok := byVersion[versionNumber(a.Version)]
		if !ok {
			return fmt.Errorf("%w: applied migration %s not found in available migrations", ErrVersionConflict, a.Version)
		}
		if a.Checksum != "" && a.Checksum != mig.Checksum {
			return NewMigrationError(a.Version, mig.Path, "verify checksum", ErrChecksumMismatch)
		}
	}
	return nil
}
