package http

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/shelfwise/shelfwise/internal/auth"
	"github.com/shelfwise/shelfwise/internal/entities"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(auth.SecurityHeadersMiddleware())

	if cfg.CORSAllowedOrigin != "" {
		router.Use(CORSMiddleware(cfg.CORSAllowedOrigin))
	}

	// CSRF must run before session so that session context is preserved.
	if len(cfg.CSRFSecret) > 0 {
		var trustedOrigins []string
		if cfg.CORSAllowedOrigin != "" {
			if origin, err := url.Parse(cfg.CORSAllowedOrigin); err == nil && origin.Host != "" {
				trustedOrigins = append(trustedOrigins, origin.Host)
			}
		}
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.AuthConfig.SecureCookies, trustedOrigins))
	}

	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	} else {
		// No auth configured; every request runs as an anonymous session.
		router.Use(func(c *gin.Context) {
			c.Set(auth.ContextKeyAuthType, auth.AuthTypeNone)
			c.Next()
		})
	}

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Sweep, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")

	if cfg.AuthService != nil {
		authController := auth.NewController(cfg.AuthService, cfg.SessionManager, cfg.AuthConfig)
		authController.RegisterRoutes(api)
	}

	// Book catalog
	booksController := NewBooksController(cfg.Books)
	api.GET("/books", booksController.List)
	api.GET("/books/:id", booksController.Get)
	api.POST("/books", booksController.Create)
	api.PUT("/books/:id", booksController.Update)
	api.DELETE("/books/:id", booksController.Delete)

	// Genres
	genresController := NewGenresController(cfg.Genres)
	api.GET("/genres", genresController.List)
	api.GET("/genres/:id", genresController.Get)
	api.POST("/genres", genresController.Create)
	api.PUT("/genres/:id", genresController.Update)
	api.DELETE("/genres/:id", genresController.Delete)

	// Members
	membersController := NewMembersController(cfg.Members)
	api.GET("/members", membersController.List)
	api.GET("/members/active", membersController.Active)
	api.GET("/members/:id", membersController.Get)
	api.POST("/members", membersController.Create)
	api.PUT("/members/:id", membersController.Update)
	api.DELETE("/members/:id", membersController.Delete)

	// Borrowing lifecycle. Static routes are registered before the :id route
	// so gin does not treat "overdue" as a loan ID.
	borrowingsController := NewBorrowingsController(cfg.Circulation, cfg.Settings)
	api.POST("/borrowings/borrow", borrowingsController.Borrow)
	api.PATCH("/borrowings/return/:id", borrowingsController.Return)
	api.POST("/borrowings/mark-overdue", borrowingsController.MarkOverdue)
	api.GET("/borrowings", borrowingsController.List)
	api.GET("/borrowings/overdue", borrowingsController.Overdue)
	api.GET("/borrowings/member/:id", borrowingsController.ByMember)
	api.GET("/borrowings/book/:id", borrowingsController.ByBook)
	api.GET("/borrowings/:id", borrowingsController.Get)
	api.DELETE("/borrowings/:id", borrowingsController.Delete)

	// Settings and sweep control
	settingsController := NewSettingsController(cfg.Settings, cfg.Sweep)
	api.GET("/settings", settingsController.List)
	api.PUT("/settings", settingsController.Update)
	api.GET("/settings/sweep/status", settingsController.SweepStatus)
	api.POST("/settings/sweep/run", settingsController.RunSweep)

	// Dashboard
	dashboardController := NewDashboardController(cfg.BookCounter, cfg.MemberCounter, cfg.LoanCounter)
	api.GET("/dashboard/stats", dashboardController.Stats)

	// Staff management, admins only
	if cfg.AuthService != nil && cfg.AuthMiddleware != nil {
		staffController := NewStaffController(cfg.AuthService)
		staff := api.Group("/staff", cfg.AuthMiddleware.RequireRole(entities.UserRoleAdmin))
		staff.GET("", staffController.List)
		staff.POST("", staffController.Create)
		staff.PATCH("/:id/role", staffController.UpdateRole)
		staff.DELETE("/:id", staffController.Delete)
	}

	return router
}
