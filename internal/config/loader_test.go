package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/smart-calendar/internal/application"
)

var allKeys = []string{
	FileEnv,
	"CALENDAR_HTTP_PORT",
	"CALENDAR_SQLITE_DSN",
	"CALENDAR_TIMEZONE",
	"CALENDAR_WEEK_START",
	"CALENDAR_COMPLETION_POLICY",
	"CALENDAR_DISMISSAL_SCOPE",
	"CALENDAR_TEMPLATES_FILE",
	"CALENDAR_CALENDAR_NAME",
	"CALENDAR_SNAPSHOT_TTL",
	"CALENDAR_LOG_LEVEL",
	"CALENDAR_LOG_FORMAT",
	"CALENDAR_AUTH_USER",
	"CALENDAR_AUTH_PASSWORD_HASH",
	"CALENDAR_REQUEST_TIMEOUT",
	"CALENDAR_SHUTDOWN_TIMEOUT",
}

// clearEnv blanks every key for the duration of the test. Load treats an
// empty value as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
	}
}

func testHash(t *testing.T) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}
	return string(hash)
}

func TestLoader_ParseEnvironment(t *testing.T) {
	hash := testHash(t)

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CALENDAR_AUTH_PASSWORD_HASH", hash)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		want := Default()
		want.AuthPasswordHash = hash
		assert.Equal(t, want, cfg)
		assert.Equal(t, time.Monday, cfg.WeekStart)
		assert.Equal(t, ":8080", cfg.Addr())
	})

	t.Run("errors when required values are missing", func(t *testing.T) {
		clearEnv(t)

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error when required values are missing")
		}
		expected := "required configuration is missing: CALENDAR_AUTH_PASSWORD_HASH"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("parses every field", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CALENDAR_AUTH_PASSWORD_HASH", hash)
		t.Setenv("CALENDAR_HTTP_PORT", "9090")
		t.Setenv("CALENDAR_SQLITE_DSN", "/tmp/calendar.db")
		t.Setenv("CALENDAR_TIMEZONE", "America/Chicago")
		t.Setenv("CALENDAR_WEEK_START", "Sunday")
		t.Setenv("CALENDAR_COMPLETION_POLICY", "new_row")
		t.Setenv("CALENDAR_DISMISSAL_SCOPE", "revision")
		t.Setenv("CALENDAR_TEMPLATES_FILE", "/etc/calendar/templates.yaml")
		t.Setenv("CALENDAR_CALENDAR_NAME", "Household")
		t.Setenv("CALENDAR_SNAPSHOT_TTL", "0s")
		t.Setenv("CALENDAR_LOG_LEVEL", "debug")
		t.Setenv("CALENDAR_LOG_FORMAT", "TEXT")
		t.Setenv("CALENDAR_AUTH_USER", "kim")
		t.Setenv("CALENDAR_REQUEST_TIMEOUT", "5s")
		t.Setenv("CALENDAR_SHUTDOWN_TIMEOUT", "1m")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.HTTPPort)
		assert.Equal(t, "/tmp/calendar.db", cfg.SQLiteDSN)
		assert.Equal(t, "America/Chicago", cfg.Location.String())
		assert.Equal(t, time.Sunday, cfg.WeekStart)
		assert.Equal(t, application.CompletionNewRow, cfg.CompletionPolicy)
		assert.Equal(t, application.DismissByRevision, cfg.DismissalScope)
		assert.Equal(t, "/etc/calendar/templates.yaml", cfg.TemplatesFile)
		assert.Equal(t, "Household", cfg.CalendarName)
		assert.Zero(t, cfg.SnapshotTTL)
		assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "kim", cfg.AuthUser)
		assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
		assert.Equal(t, time.Minute, cfg.ShutdownTimeout)
	})

	t.Run("reports every invalid value", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CALENDAR_AUTH_PASSWORD_HASH", "plaintext")
		t.Setenv("CALENDAR_HTTP_PORT", "eighty")
		t.Setenv("CALENDAR_TIMEZONE", "Mars/Olympus")
		t.Setenv("CALENDAR_WEEK_START", "wednesday")
		t.Setenv("CALENDAR_COMPLETION_POLICY", "archive")
		t.Setenv("CALENDAR_SNAPSHOT_TTL", "-1m")
		t.Setenv("CALENDAR_LOG_FORMAT", "xml")

		_, err := Load()
		require.Error(t, err)
		for _, key := range []string{
			"CALENDAR_HTTP_PORT",
			"CALENDAR_TIMEZONE",
			"CALENDAR_WEEK_START",
			"CALENDAR_COMPLETION_POLICY",
			"CALENDAR_SNAPSHOT_TTL",
			"CALENDAR_LOG_FORMAT",
			"CALENDAR_AUTH_PASSWORD_HASH",
		} {
			if !strings.Contains(err.Error(), key) {
				t.Fatalf("expected %s in %q", key, err.Error())
			}
		}
	})
}

func TestLoader_ConfigFile(t *testing.T) {
	hash := testHash(t)

	write := func(t *testing.T, body string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "calendar.yaml")
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		return path
	}

	t.Run("file values apply and environment wins", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(FileEnv, write(t, strings.Join([]string{
			`http_port: "7070"`,
			`week_start: sunday`,
			`dismissal_scope: revision`,
			`auth_user: household`,
			`auth_password_hash: "` + hash + `"`,
		}, "\n")))
		t.Setenv("CALENDAR_WEEK_START", "monday")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 7070, cfg.HTTPPort)
		assert.Equal(t, time.Monday, cfg.WeekStart)
		assert.Equal(t, application.DismissByRevision, cfg.DismissalScope)
		assert.Equal(t, "household", cfg.AuthUser)
		assert.Equal(t, hash, cfg.AuthPasswordHash)
	})

	t.Run("empty file falls back to defaults", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(FileEnv, write(t, ""))
		t.Setenv("CALENDAR_AUTH_PASSWORD_HASH", hash)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.HTTPPort)
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(FileEnv, write(t, "http_prot: 1\n"))

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config file")
	})

	t.Run("missing file is an error", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(FileEnv, filepath.Join(t.TempDir(), "absent.yaml"))

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config file")
	})
}
