// Package settings provides database operations for application settings.
//
// # Usage
//
//	repo := settings.NewRepository(db)
//	setting, err := repo.GetSetting(entities.SettingKeyLoanPeriodDays)
package settings

import (
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/shelfwise/shelfwise/internal/entities"
)

// Repository handles all settings database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new settings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetSetting retrieves a setting by key.
func (r *Repository) GetSetting(key string) (*entities.Setting, error) {
	var setting entities.Setting
	err := r.db.Where("key = ?", key).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// GetSettingOrDefault retrieves a setting value, falling back to the given
// default when the key is not present.
func (r *Repository) GetSettingOrDefault(key, fallback string) string {
	setting, err := r.GetSetting(key)
	if err != nil {
		return fallback
	}
	return setting.Value
}

// SetSetting creates or updates a setting.
func (r *Repository) SetSetting(key, value string) error {
	var setting entities.Setting
	result := r.db.Where("key = ?", key).First(&setting)

	if result.Error == gorm.ErrRecordNotFound {
		setting = entities.Setting{
			Key:   key,
			Value: value,
		}
		return r.db.Create(&setting).Error
	} else if result.Error != nil {
		return result.Error
	}

	setting.Value = value
	return r.db.Save(&setting).Error
}

// DeleteSetting removes a setting by key.
func (r *Repository) DeleteSetting(key string) error {
	return r.db.Where("key = ?", key).Delete(&entities.Setting{}).Error
}

// GetAllSettings retrieves every stored setting.
func (r *Repository) GetAllSettings() ([]entities.Setting, error) {
	var settings []entities.Setting
	err := r.db.Order("key ASC").Find(&settings).Error
	return settings, err
}

// GetLoanPeriodDays returns the configured default loan period.
func (r *Repository) GetLoanPeriodDays(fallback int) int {
	value := r.GetSettingOrDefault(entities.SettingKeyLoanPeriodDays, "")
	if value == "" {
		return fallback
	}
	days, err := strconv.Atoi(value)
	if err != nil || days <= 0 {
		return fallback
	}
	return days
}

// SetSweepStatus records the outcome of the latest overdue sweep.
func (r *Repository) SetSweepStatus(status, message string, marked int) error {
	if err := r.SetSetting(entities.SettingKeySweepLastAt, time.Now().Format(time.RFC3339)); err != nil {
		return err
	}
	if err := r.SetSetting(entities.SettingKeySweepLastStatus, status); err != nil {
		return err
	}
	if err := r.SetSetting(entities.SettingKeySweepLastMessage, message); err != nil {
		return err
	}
	return r.SetSetting(entities.SettingKeySweepLastMarked, strconv.Itoa(marked))
}
