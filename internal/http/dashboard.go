package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfwise/shelfwise/internal/entities"
)

// DashboardController serves the aggregate counts shown on the admin
// dashboard.
type DashboardController struct {
	books   BookCounter
	members MemberCounter
	loans   LoanCounter
}

// NewDashboardController creates a new dashboard controller.
func NewDashboardController(books BookCounter, members MemberCounter, loans LoanCounter) *DashboardController {
	return &DashboardController{
		books:   books,
		members: members,
		loans:   loans,
	}
}

type dashboardStats struct {
	Books         int64 `json:"books"`
	Members       int64 `json:"members"`
	ActiveLoans   int64 `json:"active_loans"`
	OverdueLoans  int64 `json:"overdue_loans"`
	ReturnedLoans int64 `json:"returned_loans"`
}

// Stats returns the dashboard counters: GET /dashboard/stats.
func (dc *DashboardController) Stats(c *gin.Context) {
	var stats dashboardStats
	var err error

	if stats.Books, err = dc.books.CountBooks(); err != nil {
		respondInternalError(c, err, "dashboard stats")
		return
	}
	if stats.Members, err = dc.members.CountMembers(); err != nil {
		respondInternalError(c, err, "dashboard stats")
		return
	}
	if stats.ActiveLoans, err = dc.loans.CountByStatus(entities.BorrowingStatusBorrowed); err != nil {
		respondInternalError(c, err, "dashboard stats")
		return
	}
	if stats.OverdueLoans, err = dc.loans.CountByStatus(entities.BorrowingStatusOverdue); err != nil {
		respondInternalError(c, err, "dashboard stats")
		return
	}
	if stats.ReturnedLoans, err = dc.loans.CountByStatus(entities.BorrowingStatusReturned); err != nil {
		respondInternalError(c, err, "dashboard stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}
