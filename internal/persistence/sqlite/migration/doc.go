// Package migration applies versioned SQL files to the calendar database.
//
// Migration files live in an fs.FS (normally embedded into the binary) and
// follow the naming convention {version}_{description}.sql, for example
// "001_calendar_events.sql". Each file runs inside its own transaction and
// is recorded in the schema_migrations table together with its checksum, so
// a file is never applied twice.
//
// Example usage:
//
//	manager := migration.NewManager(migration.NewScanner(files, "."), migration.NewExecutor(db), logger)
//	if err := manager.Run(ctx); err != nil {
//		return err
//	}
package migration
