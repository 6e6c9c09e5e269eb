package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// CSRFTokenHeader is the header the SPA sends the CSRF token in.
const CSRFTokenHeader = "X-CSRF-Token"

// CSRFMiddleware creates a Gin middleware for CSRF protection of
// cookie-authenticated state-changing requests. Safe methods (GET, HEAD,
// OPTIONS, TRACE) pass through; the SPA fetches the current token from
// GET /api/auth/csrf and echoes it back in the X-CSRF-Token header.
//
// gorilla/csrf checks the Origin header against the request host on top of
// the token itself, so an SPA served from a different origin must have that
// origin (host[:port] form) listed in trustedOrigins. The router derives it
// from the CORS allowed origin.
func CSRFMiddleware(secret []byte, secure bool, trustedOrigins []string) gin.HandlerFunc {
	csrfProtect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		// Lax for the same reason as the session cookie: Strict would keep
		// the browser from sending the cookie on the SPA's requests.
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.Path("/"),
		csrf.TrustedOrigins(trustedOrigins),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		req := c.Request
		if !secure {
			// Without this the library compares origins against an assumed
			// https:// scheme and rejects every write on plain-HTTP
			// deployments (local development).
			req = csrf.PlaintextHTTPRequest(req)
		}

		handler := csrfProtect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Expose the token to handlers; session middleware runs after this
			// so session context is layered on top of the CSRF context.
			c.Set("csrf_token", csrf.Token(r))
			c.Request = r
			c.Next()
		}))

		handler.ServeHTTP(c.Writer, req)
	}
}

// csrfErrorHandler handles CSRF validation failures. The backend only serves
// JSON, so the response is always a JSON body.
func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"CSRF token invalid or missing"}`))
}

// GetCSRFToken retrieves the CSRF token from the Gin context.
func GetCSRFToken(c *gin.Context) string {
	if token, exists := c.Get("csrf_token"); exists {
		if t, ok := token.(string); ok {
			return t
		}
	}
	return ""
}
