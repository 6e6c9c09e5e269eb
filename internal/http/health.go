package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shelfwise/shelfwise/internal/database"
)

// HealthController answers liveness and readiness probes. The database check
// decides healthy vs unhealthy; the scheduler check is informational only,
// since the API is fully usable with the sweep disabled.
type HealthController struct {
	db      *database.Database
	sweep   SweepControl
	version string
}

type healthReport struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

func NewHealthController(db *database.Database, sweep SweepControl, version string) *HealthController {
	return &HealthController{
		db:      db,
		sweep:   sweep,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db == nil {
		checks["database"] = "not configured"
	} else if err := h.pingDatabase(); err != nil {
		checks["database"] = "error: " + err.Error()
		status = "unhealthy"
	} else {
		checks["database"] = "ok"
	}

	switch {
	case h.sweep == nil:
		checks["sweep_scheduler"] = "not configured"
	case h.sweep.IsRunning():
		checks["sweep_scheduler"] = "running"
	default:
		checks["sweep_scheduler"] = "stopped"
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	c.IndentedJSON(code, healthReport{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	})
}

func (h *HealthController) pingDatabase() error {
	sqlDB, err := h.db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
