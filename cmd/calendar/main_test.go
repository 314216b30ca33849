package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/smart-calendar/internal/application"
	"github.com/example/smart-calendar/internal/config"
	"github.com/example/smart-calendar/internal/logging"
)

func TestHashPassword(t *testing.T) {
	t.Parallel()

	t.Run("bcrypt from argument", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		require.NoError(t, hashPassword([]string{"-cost", "4", "s3cret"}, strings.NewReader(""), &out))
		hash := strings.TrimSpace(out.String())
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
		require.NoError(t, application.ValidatePasswordHash(hash))
	})

	t.Run("argon2id from stdin", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		require.NoError(t, hashPassword([]string{"-algo", "argon2id"}, strings.NewReader("from-stdin\nignored"), &out))
		hash := strings.TrimSpace(out.String())
		assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
		require.NoError(t, application.VerifyPassword(hash, "from-stdin"))
	})

	t.Run("rejects empty password and unknown algorithm", func(t *testing.T) {
		t.Parallel()

		require.Error(t, hashPassword(nil, strings.NewReader(""), &bytes.Buffer{}))
		require.Error(t, hashPassword([]string{"-algo", "md5", "pw"}, strings.NewReader(""), &bytes.Buffer{}))
	})
}

func TestNewAppServesRequests(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.SQLiteDSN = filepath.Join(t.TempDir(), "calendar.db")
	cfg.AuthUser = "owner"
	cfg.AuthPasswordHash = string(hash)

	a, err := newApp(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	rec := httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(`{"title":"Test smoke detectors","category":"safety_devices","start_date":"2030-06-01","recurrence":"monthly"}`))
	req.SetBasicAuth("owner", "pw")
	rec = httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/templates", nil)
	req.SetBasicAuth("owner", "pw")
	rec = httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "smart_calendar_db_open_connections")
}
