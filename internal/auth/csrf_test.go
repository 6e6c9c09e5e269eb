package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCSRFRouter(trustedOrigins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CSRFMiddleware([]byte("0123456789abcdef0123456789abcdef"), false, trustedOrigins))
	router.GET("/token", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"csrf_token": GetCSRFToken(c)})
	})
	router.POST("/mutate", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

// fetchCSRFToken performs the GET the SPA does on load: it returns the token
// plus the cookie that pairs with it.
func fetchCSRFToken(t *testing.T, router *gin.Engine) (string, []*http.Cookie) {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/token", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	var body struct {
		Token string `json:"csrf_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)

	return body.Token, cookies
}

func TestCSRF_GetPassesAndYieldsToken(t *testing.T) {
	router := newCSRFRouter(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/token", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "csrf_token")
}

func TestCSRF_PostWithoutTokenRejected(t *testing.T) {
	router := newCSRFRouter(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mutate", strings.NewReader("{}"))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "CSRF token invalid or missing")
}

func TestCSRF_PostWithTokenAccepted(t *testing.T) {
	router := newCSRFRouter(nil)
	token, cookies := fetchCSRFToken(t, router)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mutate", strings.NewReader("{}"))
	req.Header.Set(CSRFTokenHeader, token)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCSRF_TrustedOrigin(t *testing.T) {
	router := newCSRFRouter([]string{"app.example.test"})
	token, cookies := fetchCSRFToken(t, router)

	post := func(origin string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/mutate", strings.NewReader("{}"))
		req.Header.Set(CSRFTokenHeader, token)
		req.Header.Set("Origin", origin)
		for _, cookie := range cookies {
			req.AddCookie(cookie)
		}
		router.ServeHTTP(w, req)
		return w
	}

	// The SPA's origin is allow-listed; anything else fails the origin check
	// even with a valid token.
	assert.Equal(t, http.StatusOK, post("http://app.example.test").Code)
	assert.Equal(t, http.StatusForbidden, post("https://evil.example.com").Code)
}
