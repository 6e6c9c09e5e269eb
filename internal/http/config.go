package http

import (
	"github.com/shelfwise/shelfwise/internal/auth"
	"github.com/shelfwise/shelfwise/internal/config"
	"github.com/shelfwise/shelfwise/internal/database"
)

// RouterConfig contains all dependencies and configuration needed to create
// the HTTP router. This replaces a long parameter list in NewRouter.
type RouterConfig struct {
	// Core dependencies
	Database    *database.Database
	Books       BookStore
	Genres      GenreStore
	Members     MemberStore
	Circulation CirculationService
	Settings    SettingsStore

	// Dashboard counters; usually the repositories themselves
	BookCounter   BookCounter
	MemberCounter MemberCounter
	LoanCounter   LoanCounter

	// Overdue sweep scheduler (optional)
	Sweep SweepControl

	// Authentication (all optional; nil means auth mode "none")
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	AuthConfig     config.Auth
	CSRFSecret     []byte

	// Cross-origin access for the admin SPA
	CORSAllowedOrigin string

	// Application info
	Version string
}
