package entities

import (
	"time"
)

type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys
const (
	// General library settings
	SettingKeyLibraryName       = "library_name"
	SettingKeyLoanPeriodDays    = "loan_period_days"
	SettingKeyMaxLoansPerMember = "max_loans_per_member"

	// Overdue sweep settings
	SettingKeySweepEnabled     = "overdue_sweep_enabled"
	SettingKeySweepSchedule    = "overdue_sweep_schedule"
	SettingKeySweepLastAt      = "overdue_sweep_last_at"
	SettingKeySweepLastStatus  = "overdue_sweep_last_status"
	SettingKeySweepLastMessage = "overdue_sweep_last_message"
	SettingKeySweepLastMarked  = "overdue_sweep_last_marked"
)
