package migration

import "time"

// Migration is one versioned SQL file.
type Migration struct {
	Version     string // numeric prefix such as "001"
	Description string
	SQL         string
	Path        string
	Checksum    string // sha256 of SQL
}

// AppliedMigration is a row of the schema_migrations table.
type AppliedMigration struct {
	Version       string
	AppliedAt     time.Time
	ExecutionTime time.Duration
	Checksum      string
}

// Status summarises the migration state of a database.
type Status struct {
	CurrentVersion string
	Applied        []AppliedMigration
	Pending        []Migration
}
