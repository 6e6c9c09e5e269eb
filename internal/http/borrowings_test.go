package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/shelfwise/internal/circulation"
	"github.com/shelfwise/shelfwise/internal/database/books"
	"github.com/shelfwise/shelfwise/internal/database/borrowings"
	"github.com/shelfwise/shelfwise/internal/database/members"
	"github.com/shelfwise/shelfwise/internal/database/settings"
	"github.com/shelfwise/shelfwise/internal/entities"
)

type borrowingsEnv struct {
	router   *gin.Engine
	books    *books.Repository
	members  *members.Repository
	loans    *borrowings.Repository
	settings *settings.Repository
}

func setupBorrowingsRouter(t *testing.T) (*borrowingsEnv, func()) {
	t.Helper()
	db, cleanup := setupTestDB(t)

	env := &borrowingsEnv{
		books:    books.NewRepository(db.DB),
		members:  members.NewRepository(db.DB),
		loans:    borrowings.NewRepository(db.DB),
		settings: settings.NewRepository(db.DB),
	}
	service := circulation.NewService(env.books, env.members, env.loans)
	controller := NewBorrowingsController(service, env.settings)

	router := gin.New()
	router.POST("/api/borrowings/borrow", controller.Borrow)
	router.PATCH("/api/borrowings/return/:id", controller.Return)
	router.POST("/api/borrowings/mark-overdue", controller.MarkOverdue)
	router.GET("/api/borrowings", controller.List)
	router.GET("/api/borrowings/overdue", controller.Overdue)
	router.GET("/api/borrowings/member/:id", controller.ByMember)
	router.GET("/api/borrowings/book/:id", controller.ByBook)
	router.GET("/api/borrowings/:id", controller.Get)
	router.DELETE("/api/borrowings/:id", controller.Delete)
	env.router = router

	return env, cleanup
}

func (e *borrowingsEnv) createBook(t *testing.T, copies int) *entities.Book {
	t.Helper()
	book := entities.Book{Title: "Test Book", Author: "Author", ISBN: "isbn-" + t.Name(), TotalCopies: copies}
	require.NoError(t, e.books.CreateBook(&book))
	return &book
}

func (e *borrowingsEnv) createMember(t *testing.T, active bool) *entities.Member {
	t.Helper()
	tag := uuid.NewString()[:8]
	member := entities.Member{
		FirstName:        "Jane",
		LastName:         "Reader",
		Email:            tag + "@example.com",
		MembershipNumber: "M-" + tag,
		IsActive:         active,
	}
	require.NoError(t, e.members.CreateMember(&member))
	if !active {
		// gorm treats false as a zero value on create; force it.
		_, err := e.members.UpdateMember(member.ID, map[string]any{"is_active": false})
		require.NoError(t, err)
	}
	return &member
}

func TestBorrowingsController_Borrow(t *testing.T) {
	env, cleanup := setupBorrowingsRouter(t)
	defer cleanup()

	book := env.createBook(t, 2)
	member := env.createMember(t, true)

	due := time.Now().Add(7 * 24 * time.Hour)
	w := doJSON(t, env.router, "POST", "/api/borrowings/borrow", gin.H{
		"book_id":   book.ID,
		"member_id": member.ID,
		"due_date":  due.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var loan entities.Borrowing
	decodeBody(t, w, &loan)
	assert.Equal(t, book.ID, loan.BookID)
	assert.Equal(t, member.ID, loan.MemberID)
	assert.Equal(t, entities.BorrowingStatusBorrowed, loan.Status)

	updated, err := env.books.GetBookByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.AvailableCopies)
}

func TestBorrowingsController_Borrow_DefaultDueDate(t *testing.T) {
	env, cleanup := setupBorrowingsRouter(t)
	defer cleanup()

	require.NoError(t, env.settings.SetSetting(entities.SettingKeyLoanPeriodDays, "7"))

	book := env.createBook(t, 1)
	member := env.createMember(t, true)

	w := doJSON(t, env.router, "POST", "/api/borrowings/borrow", gin.H{
		"book_id":   book.ID,
		"member_id": member.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var loan entities.Borrowing
	decodeBody(t, w, &loan)
	expected := time.Now().Add(7 * 24 * time.Hour)
	assert.WithinDuration(t, expected, loan.DueDate, time.Minute)
}

func TestBorrowingsController_Borrow_Errors(t *testing.T) {
	env, cleanup := setupBorrowingsRouter(t)
	defer cleanup()

	book := env.createBook(t, 1)
	member := env.createMember(t, true)
	inactive := env.createMember(t, false)

	t.Run("missing fields", func(t *testing.T) {
		w := doJSON(t, env.router, "POST", "/api/borrowings/borrow", gin.H{"book_id": book.ID})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown book", func(t *testing.T) {
		w := doJSON(t, env.router, "POST", "/api/borrowings/borrow", gin.H{
			"book_id":   "missing",
			"member_id": member.ID,
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown member", func(t *testing.T) {
		w := doJSON(t, env.router, "POST", "/api/borrowings/borrow", gin.H{
			"book_id":   book.ID,
			"member_id": "missing",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("inactive member", func(t *testing.T) {
		w := doJSON(t, env.router, "POST", "/api/borrowings/borrow", gin.H{
			"book_id":   book.ID,
			"member_id": inactive.ID,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("due date in the past", func(t *testing.T) {
		w := doJSON(t, env.router, "POST", "/api/borrowings/borrow", gin.H{
			"book_id":   book.ID,
			"member_id": member.ID,
			"due_date":  time.Now().Add(-time.Hour).Format(time.RFC3339),
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("no copies left", func(t *testing.T) {
		w := doJSON(t, env.router, "POST", "/api/borrowings/borrow", gin.H{
			"book_id":   book.ID,
			"member_id": member.ID,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(t, env.router, "POST", "/api/borrowings/borrow", gin.H{
			"book_id":   book.ID,
			"member_id": member.ID,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBorrowingsController_Return(t *testing.T) {
	env, cleanup := setupBorrowingsRouter(t)
	defer cleanup()

	book := env.createBook(t, 1)
	member := env.createMember(t, true)

	w := doJSON(t, env.router, "POST", "/api/borrowings/borrow", gin.H{
		"book_id":   book.ID,
		"member_id": member.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var loan entities.Borrowing
	decodeBody(t, w, &loan)

	w = doJSON(t, env.router, "PATCH", "/api/borrowings/return/"+loan.ID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var returned entities.Borrowing
	decodeBody(t, w, &returned)
	assert.Equal(t, entities.BorrowingStatusReturned, returned.Status)
	assert.NotNil(t, returned.ReturnDate)

	updated, err := env.books.GetBookByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.AvailableCopies)

	// Second return of the same loan is rejected.
	w = doJSON(t, env.router, "PATCH", "/api/borrowings/return/"+loan.ID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, env.router, "PATCH", "/api/borrowings/return/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBorrowingsController_MarkOverdue(t *testing.T) {
	env, cleanup := setupBorrowingsRouter(t)
	defer cleanup()

	book := env.createBook(t, 2)
	member := env.createMember(t, true)

	// One loan past due, one in the future.
	past := entities.Borrowing{
		BookID:     book.ID,
		MemberID:   member.ID,
		BorrowDate: time.Now().Add(-72 * time.Hour),
		DueDate:    time.Now().Add(-24 * time.Hour),
		Status:     entities.BorrowingStatusBorrowed,
	}
	require.NoError(t, env.loans.CreateBorrowing(&past))
	future := entities.Borrowing{
		BookID:     book.ID,
		MemberID:   member.ID,
		BorrowDate: time.Now(),
		DueDate:    time.Now().Add(24 * time.Hour),
		Status:     entities.BorrowingStatusBorrowed,
	}
	require.NoError(t, env.loans.CreateBorrowing(&future))

	w := doJSON(t, env.router, "POST", "/api/borrowings/mark-overdue", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var result circulation.SweepResult
	decodeBody(t, w, &result)
	assert.Equal(t, 1, result.Scanned)
	assert.Equal(t, 1, result.Marked)
	assert.Empty(t, result.Failed)

	flagged, err := env.loans.GetBorrowingByID(past.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.BorrowingStatusOverdue, flagged.Status)
}

func TestBorrowingsController_Queries(t *testing.T) {
	env, cleanup := setupBorrowingsRouter(t)
	defer cleanup()

	book := env.createBook(t, 3)
	member := env.createMember(t, true)

	w := doJSON(t, env.router, "POST", "/api/borrowings/borrow", gin.H{
		"book_id":   book.ID,
		"member_id": member.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var loan entities.Borrowing
	decodeBody(t, w, &loan)

	w = doJSON(t, env.router, "GET", "/api/borrowings", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var all []entities.Borrowing
	decodeBody(t, w, &all)
	assert.Len(t, all, 1)

	w = doJSON(t, env.router, "GET", "/api/borrowings/member/"+member.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var byMember []entities.Borrowing
	decodeBody(t, w, &byMember)
	assert.Len(t, byMember, 1)

	w = doJSON(t, env.router, "GET", "/api/borrowings/book/"+book.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var byBook []entities.Borrowing
	decodeBody(t, w, &byBook)
	assert.Len(t, byBook, 1)

	w = doJSON(t, env.router, "GET", "/api/borrowings/"+loan.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, env.router, "GET", "/api/borrowings/missing-id", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// No loans are overdue yet.
	w = doJSON(t, env.router, "GET", "/api/borrowings/overdue", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var overdue []entities.Borrowing
	decodeBody(t, w, &overdue)
	assert.Empty(t, overdue)
}

func TestBorrowingsController_Delete(t *testing.T) {
	env, cleanup := setupBorrowingsRouter(t)
	defer cleanup()

	book := env.createBook(t, 1)
	member := env.createMember(t, true)

	w := doJSON(t, env.router, "POST", "/api/borrowings/borrow", gin.H{
		"book_id":   book.ID,
		"member_id": member.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var loan entities.Borrowing
	decodeBody(t, w, &loan)

	w = doJSON(t, env.router, "DELETE", "/api/borrowings/"+loan.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, env.router, "GET", "/api/borrowings/"+loan.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
