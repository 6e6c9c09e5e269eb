package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shelfwise/shelfwise/internal/config"
	"github.com/shelfwise/shelfwise/internal/entities"
)

// setupAuthStack wires the full local-mode auth stack the way entrypoint
// does: sessions, auth middleware, and the JSON controller.
func setupAuthStack(t *testing.T) (*gin.Engine, func()) {
	dbPath := "./test_auth_integration_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{})
	require.NoError(t, err)

	cfg := config.Auth{
		Mode:             config.AuthModeLocal,
		BcryptCost:       bcrypt.MinCost,
		SessionLifetime:  time.Hour,
		MaxLoginAttempts: 5,
		LockoutDuration:  time.Minute,
	}

	service := NewService(db, cfg)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sessionManager, err := NewSessionManager(sqlDB, cfg)
	require.NoError(t, err)

	controller := NewController(service, sessionManager, cfg)
	middleware := NewMiddleware(service, sessionManager, cfg)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sessionManager.SessionLoadSave())
	router.Use(middleware.Handler())
	api := router.Group("/api")
	controller.RegisterRoutes(api)

	cleanup := func() {
		controller.Stop()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return router, cleanup
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAuthFlow_SetupLoginMeLogout(t *testing.T) {
	router, cleanup := setupAuthStack(t)
	defer cleanup()

	// Fresh instance reports setup needed.
	w := doJSON(t, router, http.MethodGet, "/api/auth/status", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"setup_needed":true`)

	// Setup creates the first admin and logs it in.
	w = doJSON(t, router, http.MethodPost, "/api/auth/setup",
		`{"username":"admin","password":"a-long-enough-password"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	sessionCookies := w.Result().Cookies()
	require.NotEmpty(t, sessionCookies)

	// The session from setup authenticates /me.
	w = doJSON(t, router, http.MethodGet, "/api/auth/me", "", sessionCookies)
	require.Equal(t, http.StatusOK, w.Code)

	var me entities.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "admin", me.Username)
	assert.Equal(t, entities.UserRoleAdmin, me.Role)

	// Password hash never leaks in responses.
	assert.NotContains(t, w.Body.String(), "password")

	// Logout destroys the session.
	w = doJSON(t, router, http.MethodPost, "/api/auth/logout", "", sessionCookies)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAuthFlow_LoginWithCredentials(t *testing.T) {
	router, cleanup := setupAuthStack(t)
	defer cleanup()

	w := doJSON(t, router, http.MethodPost, "/api/auth/setup",
		`{"username":"admin","password":"a-long-enough-password"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	// A fresh client logs in.
	w = doJSON(t, router, http.MethodPost, "/api/auth/login",
		`{"username":"admin","password":"a-long-enough-password"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	w = doJSON(t, router, http.MethodGet, "/api/auth/me", "", cookies)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthFlow_BadCredentials(t *testing.T) {
	router, cleanup := setupAuthStack(t)
	defer cleanup()

	w := doJSON(t, router, http.MethodPost, "/api/auth/setup",
		`{"username":"admin","password":"a-long-enough-password"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/auth/login",
		`{"username":"admin","password":"not-the-password"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Unknown user yields the same response as a bad password.
	w = doJSON(t, router, http.MethodPost, "/api/auth/login",
		`{"username":"ghost","password":"not-the-password"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid username or password")
}

func TestAuthFlow_SecondSetupRejected(t *testing.T) {
	router, cleanup := setupAuthStack(t)
	defer cleanup()

	w := doJSON(t, router, http.MethodPost, "/api/auth/setup",
		`{"username":"admin","password":"a-long-enough-password"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/auth/setup",
		`{"username":"intruder","password":"another-long-password"}`, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthFlow_UnauthenticatedMe(t *testing.T) {
	router, cleanup := setupAuthStack(t)
	defer cleanup()

	w := doJSON(t, router, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
