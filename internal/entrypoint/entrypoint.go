package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shelfwise/shelfwise/internal/auth"
	"github.com/shelfwise/shelfwise/internal/circulation"
	"github.com/shelfwise/shelfwise/internal/config"
	"github.com/shelfwise/shelfwise/internal/database"
	"github.com/shelfwise/shelfwise/internal/database/books"
	"github.com/shelfwise/shelfwise/internal/database/borrowings"
	"github.com/shelfwise/shelfwise/internal/database/genres"
	"github.com/shelfwise/shelfwise/internal/database/members"
	"github.com/shelfwise/shelfwise/internal/database/settings"
	http_controllers "github.com/shelfwise/shelfwise/internal/http"
	"github.com/shelfwise/shelfwise/internal/scheduler"
	"github.com/shelfwise/shelfwise/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work (scheduler, task queue) before the listener.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires the whole application together and serves it.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Shelfwise v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	booksRepo := books.NewRepository(db.DB)
	genresRepo := genres.NewRepository(db.DB)
	membersRepo := members.NewRepository(db.DB)
	loansRepo := borrowings.NewRepository(db.DB)
	settingsRepo := settings.NewRepository(db.DB)

	circulationService := circulation.NewService(booksRepo, membersRepo, loansRepo)

	// Task queue for the overdue sweep (optional; the sweep runs inline
	// on the scheduler goroutine when disabled).
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var enqueueSweep scheduler.Enqueuer
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewOverdueSweepQueue(circulationService, settingsRepo),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		enqueueSweep = func(requestedAt time.Time) error {
			_, err := taskClient.Add(tasks.OverdueSweepTask{RequestedAt: requestedAt}).Save()
			return err
		}
	}

	sweepScheduler := scheduler.NewOverdueSweepScheduler(circulationService, settingsRepo, cfg.Sweep, enqueueSweep)
	if err := sweepScheduler.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start overdue sweep scheduler: %v", err)
	}

	// Authentication
	var authService *auth.Service
	var authMiddleware *auth.Middleware
	var sessionManager *auth.SessionManager
	var csrfSecret []byte

	if cfg.Auth.Mode == config.AuthModeLocal {
		log.Printf("Authentication mode: local")

		authService = auth.NewService(db.DB, cfg.Auth)

		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatalf("Failed to get SQL DB for sessions: %v", err)
		}

		sessionManager, err = auth.NewSessionManager(sqlDB, cfg.Auth)
		if err != nil {
			log.Fatalf("Failed to initialize session manager: %v", err)
		}

		authMiddleware = auth.NewMiddleware(authService, sessionManager, cfg.Auth)

		if cfg.Auth.SessionSecret != "" {
			csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
			if err != nil {
				// Not hex, use as raw bytes
				csrfSecret = []byte(cfg.Auth.SessionSecret)
			}
		} else {
			secret, err := auth.GenerateSessionSecret()
			if err != nil {
				log.Fatalf("Failed to generate CSRF secret: %v", err)
			}
			csrfSecret, _ = hex.DecodeString(secret)
			log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
		}

		hasUsers, _ := authService.HasUsers()
		if !hasUsers {
			log.Printf("No staff accounts found. POST to /api/auth/setup to create the first administrator.")
		}
	} else {
		log.Printf("Authentication mode: none (no authentication required)")
	}

	routerCfg := http_controllers.RouterConfig{
		Database:          db,
		Books:             booksRepo,
		Genres:            genresRepo,
		Members:           membersRepo,
		Circulation:       circulationService,
		Settings:          settingsRepo,
		BookCounter:       booksRepo,
		MemberCounter:     membersRepo,
		LoanCounter:       loansRepo,
		Sweep:             sweepScheduler,
		AuthService:       authService,
		AuthMiddleware:    authMiddleware,
		SessionManager:    sessionManager,
		AuthConfig:        cfg.Auth,
		CSRFSecret:        csrfSecret,
		CORSAllowedOrigin: cfg.CORS.AllowedOrigin,
		Version:           version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		sweepScheduler.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
