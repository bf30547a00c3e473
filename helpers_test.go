package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"budgettracker/models"
	"budgettracker/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/logger"
)

const testPassword = "SecurePass123!"

func testConfig() Config {
	return Config{
		Port:            "8081",
		DBDriver:        database.DriverSQLite,
		DBDSN:           "test.db",
		JWTSecret:       "test-secret",
		AccessTokenTTL:  5 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
		BcryptCost:      bcrypt.MinCost,
		PageSize:        10,
		LogLevel:        "info",
		LogFormat:       "text",
		ShutdownTimeout: time.Second,
	}
}

// newTestServer wires a server to a throwaway SQLite database.
func newTestServer(t *testing.T, mutate ...func(*Config)) (*server, http.Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	db, err := database.Open(database.Options{
		Driver:   database.DriverSQLite,
		DSN:      filepath.Join(t.TempDir(), "test.db"),
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db))

	srv := newServer(cfg, db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return srv, srv.router()
}

// performRequest sends body (marshalled to JSON unless nil or a string) with
// an optional bearer token.
func performRequest(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		buf, _ := json.Marshal(b)
		reader = bytes.NewBuffer(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func createUser(t *testing.T, srv *server, username string) models.User {
	t.Helper()
	u, err := srv.auth.Register(context.Background(), registerInput{
		Username:        username,
		Email:           username + "@example.com",
		Password:        testPassword,
		PasswordConfirm: testPassword,
	})
	require.NoError(t, err)
	return u
}

func loginTokens(t *testing.T, h http.Handler, username string) (access, refresh string) {
	t.Helper()
	rec := performRequest(h, http.MethodPost, "/api/token/", map[string]string{"username": username, "password": testPassword}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	access, _ = body["access"].(string)
	refresh, _ = body["refresh"].(string)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	return access, refresh
}

func performRequestRaw(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
