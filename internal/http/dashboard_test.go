package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/shelfwise/internal/database/books"
	"github.com/shelfwise/shelfwise/internal/database/borrowings"
	"github.com/shelfwise/shelfwise/internal/database/members"
	"github.com/shelfwise/shelfwise/internal/entities"
)

func TestDashboardController_Stats(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	booksRepo := books.NewRepository(db.DB)
	membersRepo := members.NewRepository(db.DB)
	loansRepo := borrowings.NewRepository(db.DB)

	book := entities.Book{Title: "T", Author: "A", ISBN: "i-1", TotalCopies: 5}
	require.NoError(t, booksRepo.CreateBook(&book))

	member := entities.Member{FirstName: "F", LastName: "L", Email: "f@example.com", MembershipNumber: "M-1", IsActive: true}
	require.NoError(t, membersRepo.CreateMember(&member))

	now := time.Now()
	statuses := []entities.BorrowingStatus{
		entities.BorrowingStatusBorrowed,
		entities.BorrowingStatusBorrowed,
		entities.BorrowingStatusOverdue,
		entities.BorrowingStatusReturned,
	}
	for _, status := range statuses {
		loan := entities.Borrowing{
			BookID:     book.ID,
			MemberID:   member.ID,
			BorrowDate: now.Add(-48 * time.Hour),
			DueDate:    now.Add(24 * time.Hour),
			Status:     status,
		}
		require.NoError(t, loansRepo.CreateBorrowing(&loan))
	}

	controller := NewDashboardController(booksRepo, membersRepo, loansRepo)
	router := gin.New()
	router.GET("/api/dashboard/stats", controller.Stats)

	w := doJSON(t, router, "GET", "/api/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats dashboardStats
	decodeBody(t, w, &stats)
	assert.Equal(t, int64(1), stats.Books)
	assert.Equal(t, int64(1), stats.Members)
	assert.Equal(t, int64(2), stats.ActiveLoans)
	assert.Equal(t, int64(1), stats.OverdueLoans)
	assert.Equal(t, int64(1), stats.ReturnedLoans)
}
