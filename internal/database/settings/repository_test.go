package settings

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shelfwise/shelfwise/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_settings_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Setting{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestSetSetting_New(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.SetSetting(entities.SettingKeyLibraryName, "Central Library")
	require.NoError(t, err)

	setting, err := repo.GetSetting(entities.SettingKeyLibraryName)
	require.NoError(t, err)
	assert.Equal(t, "Central Library", setting.Value)
}

func TestSetSetting_Update(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.SetSetting(entities.SettingKeyLoanPeriodDays, "14"))
	require.NoError(t, repo.SetSetting(entities.SettingKeyLoanPeriodDays, "21"))

	setting, err := repo.GetSetting(entities.SettingKeyLoanPeriodDays)
	require.NoError(t, err)
	assert.Equal(t, "21", setting.Value)

	all, err := repo.GetAllSettings()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetSetting_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetSetting("nonexistent")
	assert.Error(t, err)

	assert.Equal(t, "fallback", repo.GetSettingOrDefault("nonexistent", "fallback"))
}

func TestGetLoanPeriodDays(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	t.Run("unset", func(t *testing.T) {
		assert.Equal(t, 14, repo.GetLoanPeriodDays(14))
	})

	t.Run("configured", func(t *testing.T) {
		require.NoError(t, repo.SetSetting(entities.SettingKeyLoanPeriodDays, "30"))
		assert.Equal(t, 30, repo.GetLoanPeriodDays(14))
	})

	t.Run("garbage falls back", func(t *testing.T) {
		require.NoError(t, repo.SetSetting(entities.SettingKeyLoanPeriodDays, "soon"))
		assert.Equal(t, 14, repo.GetLoanPeriodDays(14))
	})

	t.Run("non-positive falls back", func(t *testing.T) {
		require.NoError(t, repo.SetSetting(entities.SettingKeyLoanPeriodDays, "0"))
		assert.Equal(t, 14, repo.GetLoanPeriodDays(14))
	})
}

func TestSetSweepStatus(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.SetSweepStatus("ok", "3 loans flagged", 3))

	assert.Equal(t, "ok", repo.GetSettingOrDefault(entities.SettingKeySweepLastStatus, ""))
	assert.Equal(t, "3 loans flagged", repo.GetSettingOrDefault(entities.SettingKeySweepLastMessage, ""))
	assert.Equal(t, "3", repo.GetSettingOrDefault(entities.SettingKeySweepLastMarked, ""))
	assert.NotEmpty(t, repo.GetSettingOrDefault(entities.SettingKeySweepLastAt, ""))
}

func TestDeleteSetting(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.SetSetting(entities.SettingKeyLibraryName, "Central Library"))
	require.NoError(t, repo.DeleteSetting(entities.SettingKeyLibraryName))

	_, err := repo.GetSetting(entities.SettingKeyLibraryName)
	assert.Error(t, err)
}
