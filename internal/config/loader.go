// Package config loads service settings from the environment and an
// optional YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"github.com/example/smart-calendar/internal/application"
	"github.com/example/smart-calendar/internal/logging"
)

// FileEnv names the environment variable pointing at the YAML file.
const FileEnv = "CALENDAR_CONFIG_FILE"

// Config captures configuration values for the calendar service.
type Config struct {
	HTTPPort         int
	SQLiteDSN        string
	Location         *time.Location
	WeekStart        time.Weekday
	CompletionPolicy application.CompletionPolicy
	DismissalScope   application.DismissalScope
	TemplatesFile    string
	CalendarName     string
	SnapshotTTL      time.Duration
	LogLevel         slog.Level
	LogFormat        string
	AuthUser         string
	AuthPasswordHash string
	RequestTimeout   time.Duration
	ShutdownTimeout  time.Duration
}

// fileConfig mirrors the YAML layout. Every key is optional and environment
// variables win over it.
type fileConfig struct {
	HTTPPort         string `yaml:"http_port"`
	SQLiteDSN        string `yaml:"sqlite_dsn"`
	Timezone         string `yaml:"timezone"`
	WeekStart        string `yaml:"week_start"`
	CompletionPolicy string `yaml:"completion_policy"`
	DismissalScope   string `yaml:"dismissal_scope"`
	TemplatesFile    string `yaml:"templates_file"`
	CalendarName     string `yaml:"calendar_name"`
	SnapshotTTL      string `yaml:"snapshot_ttl"`
	LogLevel         string `yaml:"log_level"`
	LogFormat        string `yaml:"log_format"`
	AuthUser         string `yaml:"auth_user"`
	AuthPasswordHash string `yaml:"auth_password_hash"`
	RequestTimeout   string `yaml:"request_timeout"`
	ShutdownTimeout  string `yaml:"shutdown_timeout"`
}

func (f fileConfig) values() map[string]string {
	return map[string]string{
		"CALENDAR_HTTP_PORT":          f.HTTPPort,
		"CALENDAR_SQLITE_DSN":         f.SQLiteDSN,
		"CALENDAR_TIMEZONE":           f.Timezone,
		"CALENDAR_WEEK_START":         f.WeekStart,
		"CALENDAR_COMPLETION_POLICY":  f.CompletionPolicy,
		"CALENDAR_DISMISSAL_SCOPE":    f.DismissalScope,
		"CALENDAR_TEMPLATES_FILE":     f.TemplatesFile,
		"CALENDAR_CALENDAR_NAME":      f.CalendarName,
		"CALENDAR_SNAPSHOT_TTL":       f.SnapshotTTL,
		"CALENDAR_LOG_LEVEL":          f.LogLevel,
		"CALENDAR_LOG_FORMAT":         f.LogFormat,
		"CALENDAR_AUTH_USER":          f.AuthUser,
		"CALENDAR_AUTH_PASSWORD_HASH": f.AuthPasswordHash,
		"CALENDAR_REQUEST_TIMEOUT":    f.RequestTimeout,
		"CALENDAR_SHUTDOWN_TIMEOUT":   f.ShutdownTimeout,
	}
}

// Default returns the configuration used when nothing is set. It has no
// password hash, so it does not pass Load on its own.
func Default() Config {
	return Config{
		HTTPPort:         8080,
		SQLiteDSN:        "calendar.db",
		Location:         time.UTC,
		WeekStart:        time.Monday,
		CompletionPolicy: application.CompletionAdvance,
		DismissalScope:   application.DismissByKey,
		CalendarName:     "Smart Calendar",
		SnapshotTTL:      5 * time.Minute,
		LogLevel:         slog.LevelInfo,
		LogFormat:        "json",
		AuthUser:         "owner",
		RequestTimeout:   30 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// Load parses configuration from the process environment, falling back to
// the YAML file named by CALENDAR_CONFIG_FILE and then to the defaults.
//
// Missing required keys and invalid values are reported together.
func Load() (Config, error) {
	file := map[string]string{}
	if path := strings.TrimSpace(os.Getenv(FileEnv)); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		fc, err := decodeFile(bytes.NewReader(data))
		if err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
		file = fc.values()
	}

	return parse(func(key string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return strings.TrimSpace(file[key])
	})
}

func decodeFile(r io.Reader) (fileConfig, error) {
	var fc fileConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fileConfig{}, err
	}
	return fc, nil
}

func parse(lookup func(string) string) (Config, error) {
	cfg := Default()

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if v := lookup("CALENDAR_HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, "CALENDAR_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if v := lookup("CALENDAR_SQLITE_DSN"); v != "" {
		cfg.SQLiteDSN = v
	}

	if v := lookup("CALENDAR_TIMEZONE"); v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			invalid = append(invalid, "CALENDAR_TIMEZONE")
		} else {
			cfg.Location = loc
		}
	}

	if v := lookup("CALENDAR_WEEK_START"); v != "" {
		switch strings.ToLower(v) {
		case "monday":
			cfg.WeekStart = time.Monday
		case "sunday":
			cfg.WeekStart = time.Sunday
		default:
			invalid = append(invalid, "CALENDAR_WEEK_START")
		}
	}

	if policy, err := application.ParseCompletionPolicy(lookup("CALENDAR_COMPLETION_POLICY")); err != nil {
		invalid = append(invalid, "CALENDAR_COMPLETION_POLICY")
	} else {
		cfg.CompletionPolicy = policy
	}

	if scope, err := application.ParseDismissalScope(lookup("CALENDAR_DISMISSAL_SCOPE")); err != nil {
		invalid = append(invalid, "CALENDAR_DISMISSAL_SCOPE")
	} else {
		cfg.DismissalScope = scope
	}

	cfg.TemplatesFile = lookup("CALENDAR_TEMPLATES_FILE")
	if v := lookup("CALENDAR_CALENDAR_NAME"); v != "" {
		cfg.CalendarName = v
	}

	for _, d := range []struct {
		key string
		dst *time.Duration
		min time.Duration
	}{
		{"CALENDAR_SNAPSHOT_TTL", &cfg.SnapshotTTL, 0},
		{"CALENDAR_REQUEST_TIMEOUT", &cfg.RequestTimeout, time.Nanosecond},
		{"CALENDAR_SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout, time.Nanosecond},
	} {
		v := lookup(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed < d.min {
			invalid = append(invalid, d.key)
			continue
		}
		*d.dst = parsed
	}

	if level, err := logging.ParseLevel(lookup("CALENDAR_LOG_LEVEL")); err != nil {
		invalid = append(invalid, "CALENDAR_LOG_LEVEL")
	} else {
		cfg.LogLevel = level
	}

	if v := lookup("CALENDAR_LOG_FORMAT"); v != "" {
		switch strings.ToLower(v) {
		case "json", "text":
			cfg.LogFormat = strings.ToLower(v)
		default:
			invalid = append(invalid, "CALENDAR_LOG_FORMAT")
		}
	}

	if v := lookup("CALENDAR_AUTH_USER"); v != "" {
		cfg.AuthUser = v
	}

	if v := lookup("CALENDAR_AUTH_PASSWORD_HASH"); v == "" {
		missing = append(missing, "CALENDAR_AUTH_PASSWORD_HASH")
	} else if err := application.ValidatePasswordHash(v); err != nil {
		invalid = append(invalid, "CALENDAR_AUTH_PASSWORD_HASH")
	} else {
		cfg.AuthPasswordHash = v
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required configuration is missing: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("configuration values are invalid: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
