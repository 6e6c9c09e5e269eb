package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shelfwise/shelfwise/internal/circulation"
	"github.com/shelfwise/shelfwise/internal/config"
)

// BorrowingsController exposes the borrowing lifecycle over HTTP.
type BorrowingsController struct {
	service  CirculationService
	settings SettingsStore
}

// NewBorrowingsController creates a new borrowings controller. The settings
// store is used for the default loan period when a borrow request omits the
// due date; it may be nil, in which case the compiled-in default applies.
func NewBorrowingsController(service CirculationService, settings SettingsStore) *BorrowingsController {
	return &BorrowingsController{
		service:  service,
		settings: settings,
	}
}

type borrowRequest struct {
	BookID   string     `json:"book_id" binding:"required"`
	MemberID string     `json:"member_id" binding:"required"`
	DueDate  *time.Time `json:"due_date"`
}

// Borrow creates a loan: POST /borrowings/borrow.
func (bc *BorrowingsController) Borrow(c *gin.Context) {
	var req borrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "book_id and member_id are required")
		return
	}

	dueDate := bc.defaultDueDate()
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}

	borrowing, err := bc.service.Borrow(req.BookID, req.MemberID, dueDate)
	if err != nil {
		switch {
		case errors.Is(err, circulation.ErrBookNotFound):
			respondNotFound(c, "book")
		case errors.Is(err, circulation.ErrMemberNotFound):
			respondNotFound(c, "member")
		case errors.Is(err, circulation.ErrBookUnavailable),
			errors.Is(err, circulation.ErrMemberInactive),
			errors.Is(err, circulation.ErrInvalidDueDate):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "borrow")
		}
		return
	}

	respondCreated(c, borrowing)
}

// Return closes a loan: PATCH /borrowings/return/:id.
func (bc *BorrowingsController) Return(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	borrowing, err := bc.service.Return(id)
	if err != nil {
		switch {
		case errors.Is(err, circulation.ErrLoanNotFound):
			respondNotFound(c, "borrowing")
		case errors.Is(err, circulation.ErrAlreadyReturned):
			respondBadRequest(c, err.Error())
		default:
			// Includes ledger violations: the loan/book state no longer adds
			// up, which is a server-side problem, not the caller's.
			respondInternalError(c, err, "return")
		}
		return
	}

	c.JSON(http.StatusOK, borrowing)
}

// List retrieves all loans: GET /borrowings.
func (bc *BorrowingsController) List(c *gin.Context) {
	borrowings, err := bc.service.ListLoans()
	if err != nil {
		respondInternalError(c, err, "list borrowings")
		return
	}
	c.JSON(http.StatusOK, borrowings)
}

// Overdue retrieves open loans past their due date: GET /borrowings/overdue.
// Loans already flagged by the sweep are excluded; this is the sweep's view.
func (bc *BorrowingsController) Overdue(c *gin.Context) {
	borrowings, err := bc.service.DueLoans(time.Now())
	if err != nil {
		respondInternalError(c, err, "list overdue borrowings")
		return
	}
	c.JSON(http.StatusOK, borrowings)
}

// ByMember retrieves a member's loans: GET /borrowings/member/:id.
func (bc *BorrowingsController) ByMember(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	borrowings, err := bc.service.LoansByMember(id)
	if err != nil {
		respondInternalError(c, err, "list borrowings by member")
		return
	}
	c.JSON(http.StatusOK, borrowings)
}

// ByBook retrieves a book's loans: GET /borrowings/book/:id.
func (bc *BorrowingsController) ByBook(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	borrowings, err := bc.service.LoansByBook(id)
	if err != nil {
		respondInternalError(c, err, "list borrowings by book")
		return
	}
	c.JSON(http.StatusOK, borrowings)
}

// Get retrieves a single loan: GET /borrowings/:id.
func (bc *BorrowingsController) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	borrowing, err := bc.service.GetLoan(id)
	if err != nil {
		if errors.Is(err, circulation.ErrLoanNotFound) {
			respondNotFound(c, "borrowing")
			return
		}
		respondInternalError(c, err, "get borrowing")
		return
	}
	c.JSON(http.StatusOK, borrowing)
}

// MarkOverdue runs the sweep synchronously: POST /borrowings/mark-overdue.
// Per-record failures are reported in the summary, not as an error status.
func (bc *BorrowingsController) MarkOverdue(c *gin.Context) {
	result, err := bc.service.MarkOverdue(time.Now())
	if err != nil {
		respondInternalError(c, err, "mark overdue")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Delete hard-deletes a loan record: DELETE /borrowings/:id.
func (bc *BorrowingsController) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := bc.service.DeleteLoan(id); err != nil {
		respondInternalError(c, err, "delete borrowing")
		return
	}
	respondSuccess(c, "borrowing deleted")
}

// defaultDueDate computes the due date for borrow requests that omit one,
// from the configurable loan period.
func (bc *BorrowingsController) defaultDueDate() time.Time {
	days := config.DefaultLoanPeriodDays
	if bc.settings != nil {
		days = bc.settings.GetLoanPeriodDays(config.DefaultLoanPeriodDays)
	}
	return time.Now().Add(time.Duration(days) * 24 * time.Hour)
}
