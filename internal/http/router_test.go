package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/shelfwise/internal/circulation"
	"github.com/shelfwise/shelfwise/internal/database/books"
	"github.com/shelfwise/shelfwise/internal/database/borrowings"
	"github.com/shelfwise/shelfwise/internal/database/genres"
	"github.com/shelfwise/shelfwise/internal/database/members"
	"github.com/shelfwise/shelfwise/internal/database/settings"
)

func TestNewRouter(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	booksRepo := books.NewRepository(db.DB)
	genresRepo := genres.NewRepository(db.DB)
	membersRepo := members.NewRepository(db.DB)
	loansRepo := borrowings.NewRepository(db.DB)
	settingsRepo := settings.NewRepository(db.DB)
	service := circulation.NewService(booksRepo, membersRepo, loansRepo)

	router := NewRouter(RouterConfig{
		Database:      db,
		Books:         booksRepo,
		Genres:        genresRepo,
		Members:       membersRepo,
		Circulation:   service,
		Settings:      settingsRepo,
		BookCounter:   booksRepo,
		MemberCounter: membersRepo,
		LoanCounter:   loansRepo,
		Version:       "test",
	})

	t.Run("health endpoint", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/health", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"healthy"`)
		assert.Contains(t, w.Body.String(), `"database": "ok"`)
	})

	t.Run("ping endpoint", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/ping", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "pong")
	})

	t.Run("security headers applied", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/ping", nil)
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	})

	t.Run("api routes reachable", func(t *testing.T) {
		for _, path := range []string{
			"/api/books",
			"/api/genres",
			"/api/members",
			"/api/borrowings",
			"/api/borrowings/overdue",
			"/api/settings",
			"/api/settings/sweep/status",
			"/api/dashboard/stats",
		} {
			w := doJSON(t, router, "GET", path, nil)
			assert.Equal(t, http.StatusOK, w.Code, path)
		}
	})

	t.Run("static route wins over id route", func(t *testing.T) {
		// "overdue" must not be parsed as a loan ID. With no loans the
		// handler returns an empty list, not a 404.
		w := doJSON(t, router, "GET", "/api/borrowings/overdue", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", w.Body.String())
	})

	t.Run("staff routes absent without auth", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/staff", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCORSMiddleware(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	booksRepo := books.NewRepository(db.DB)
	router := NewRouter(RouterConfig{
		Database:          db,
		Books:             booksRepo,
		Genres:            genres.NewRepository(db.DB),
		Members:           members.NewRepository(db.DB),
		Circulation:       circulation.NewService(booksRepo, members.NewRepository(db.DB), borrowings.NewRepository(db.DB)),
		Settings:          settings.NewRepository(db.DB),
		BookCounter:       booksRepo,
		MemberCounter:     members.NewRepository(db.DB),
		LoanCounter:       borrowings.NewRepository(db.DB),
		CORSAllowedOrigin: "http://localhost:5173",
	})

	t.Run("allowed origin echoed", func(t *testing.T) {
		w := doJSONWithOrigin(t, router, "GET", "/api/books", "http://localhost:5173")
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("other origin gets no CORS headers", func(t *testing.T) {
		w := doJSONWithOrigin(t, router, "GET", "/api/books", "https://evil.example.com")
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		w := doJSONWithOrigin(t, router, "OPTIONS", "/api/books", "http://localhost:5173")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	})
}
