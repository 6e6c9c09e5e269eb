package members

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
	dbPath := "./test_members_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Member{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func createTestMember(t *testing.T, repo *Repository, email, number string, active bool) *entities.Member {
	member := &entities.Member{
		FirstName:        "Jane",
		LastName:         "Doe",
		Email:            email,
		MembershipNumber: number,
		IsActive:         active,
	}
	require.NoError(t, repo.CreateMember(member))
	return member
}

func TestCreateAndGetMember(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	member := createTestMember(t, repo, "jane@example.com", "M-001", true)

	stored, err := repo.GetMemberByID(member.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", stored.Email)
	assert.True(t, stored.IsActive)
	assert.NotEmpty(t, stored.ID)
}

func TestGetMemberByEmail(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestMember(t, repo, "jane@example.com", "M-001", true)

	stored, err := repo.GetMemberByEmail("jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "M-001", stored.MembershipNumber)

	_, err = repo.GetMemberByEmail("nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetMemberByMembershipNumber(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestMember(t, repo, "jane@example.com", "M-001", true)

	stored, err := repo.GetMemberByMembershipNumber("M-001")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", stored.Email)
}

func TestCreateMember_InactiveSurvivesInsert(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	// An explicit false must reach the database; a gorm column default of
	// true would swallow it because zero-valued fields are omitted from the
	// INSERT.
	member := createTestMember(t, repo, "inactive@example.com", "M-001", false)

	stored, err := repo.GetMemberByID(member.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestFindActiveMembers(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestMember(t, repo, "active@example.com", "M-001", true)
	createTestMember(t, repo, "inactive@example.com", "M-002", false)

	active, err := repo.FindActiveMembers()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "active@example.com", active[0].Email)
}

func TestUpdateMember_Deactivate(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	member := createTestMember(t, repo, "jane@example.com", "M-001", true)

	updated, err := repo.UpdateMember(member.ID, map[string]any{"is_active": false})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	_, err = repo.UpdateMember("missing", map[string]any{"is_active": false})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteMember(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	member := createTestMember(t, repo, "jane@example.com", "M-001", true)

	require.NoError(t, repo.DeleteMember(member.ID))

	_, err := repo.GetMemberByID(member.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCountMembers(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestMember(t, repo, "one@example.com", "M-001", true)
	createTestMember(t, repo, "two@example.com", "M-002", false)

	count, err := repo.CountMembers()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
