package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shelfwise/shelfwise/internal/entities"
)

// SweepControl is the scheduler surface the settings controller needs:
// reschedule after a settings change, report status, trigger a manual run.
type SweepControl interface {
	Reschedule() error
	RunNow()
	IsRunning() bool
	IsSweeping() bool
	GetNextRunTime() *time.Time
}

// SettingsController manages application settings and the overdue sweep
// schedule derived from them.
type SettingsController struct {
	store SettingsStore
	sweep SweepControl
}

// NewSettingsController creates a new settings controller. The sweep control
// may be nil when the scheduler is not wired (tests, one-shot commands).
func NewSettingsController(store SettingsStore, sweep SweepControl) *SettingsController {
	return &SettingsController{store: store, sweep: sweep}
}

type updateSettingsRequest map[string]string

type sweepStatusResponse struct {
	SchedulerRunning bool       `json:"scheduler_running"`
	SweepInProgress  bool       `json:"sweep_in_progress"`
	NextRun          *time.Time `json:"next_run,omitempty"`
	LastRunAt        string     `json:"last_run_at,omitempty"`
	LastStatus       string     `json:"last_status,omitempty"`
	LastMessage      string     `json:"last_message,omitempty"`
	LastMarked       string     `json:"last_marked,omitempty"`
}

// List retrieves all stored settings: GET /settings.
func (sc *SettingsController) List(c *gin.Context) {
	settings, err := sc.store.GetAllSettings()
	if err != nil {
		respondInternalError(c, err, "list settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// Update stores the given key/value pairs: PUT /settings. Changing a sweep
// key reschedules the scheduler so the new value takes effect immediately.
func (sc *SettingsController) Update(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req) == 0 {
		respondBadRequest(c, "a non-empty object of setting keys and values is required")
		return
	}

	sweepChanged := false
	for key, value := range req {
		key = strings.TrimSpace(key)
		if key == "" {
			respondBadRequest(c, "setting keys must be non-empty")
			return
		}
		if err := sc.store.SetSetting(key, value); err != nil {
			respondInternalError(c, err, "update settings")
			return
		}
		if key == entities.SettingKeySweepEnabled || key == entities.SettingKeySweepSchedule {
			sweepChanged = true
		}
	}

	if sweepChanged && sc.sweep != nil {
		if err := sc.sweep.Reschedule(); err != nil {
			// The values are stored; the scheduler just could not apply them.
			c.JSON(http.StatusOK, SuccessResponse{
				Message: "settings saved, but rescheduling failed: " + err.Error(),
			})
			return
		}
	}
	respondSuccess(c, "settings saved")
}

// SweepStatus reports the scheduler state and the last sweep outcome:
// GET /settings/sweep/status.
func (sc *SettingsController) SweepStatus(c *gin.Context) {
	resp := sweepStatusResponse{
		LastRunAt:   sc.store.GetSettingOrDefault(entities.SettingKeySweepLastAt, ""),
		LastStatus:  sc.store.GetSettingOrDefault(entities.SettingKeySweepLastStatus, ""),
		LastMessage: sc.store.GetSettingOrDefault(entities.SettingKeySweepLastMessage, ""),
		LastMarked:  sc.store.GetSettingOrDefault(entities.SettingKeySweepLastMarked, ""),
	}
	if sc.sweep != nil {
		resp.SchedulerRunning = sc.sweep.IsRunning()
		resp.SweepInProgress = sc.sweep.IsSweeping()
		resp.NextRun = sc.sweep.GetNextRunTime()
	}
	c.JSON(http.StatusOK, resp)
}

// RunSweep triggers an immediate sweep: POST /settings/sweep/run. The sweep
// runs asynchronously; poll the status endpoint for the outcome.
func (sc *SettingsController) RunSweep(c *gin.Context) {
	if sc.sweep == nil {
		respondBadRequest(c, "sweep scheduler is not available")
		return
	}
	sc.sweep.RunNow()
	c.JSON(http.StatusAccepted, SuccessResponse{Message: "sweep started"})
}
