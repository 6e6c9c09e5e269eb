// Package circulation implements the borrow/return lifecycle for loans.
//
// A loan moves through {} -> borrowed -> returned, with an orthogonal
// borrowed -> overdue transition driven by the sweep. Nothing ever leaves
// returned or overdue (except that an overdue loan may still be returned).
// The book's available-copy counter is mutated only here, as a consequence
// of loan transitions, never the other way around.
package circulation

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/shelfwise/shelfwise/internal/database/books"
	"github.com/shelfwise/shelfwise/internal/database/borrowings"
	"github.com/shelfwise/shelfwise/internal/entities"
)

var (
	ErrBookNotFound    = errors.New("book not found")
	ErrBookUnavailable = errors.New("book not available for borrowing")
	ErrMemberNotFound  = errors.New("member not found")
	ErrMemberInactive  = errors.New("member is not active")
	ErrLoanNotFound    = errors.New("borrowing record not found")
	ErrAlreadyReturned = errors.New("book already returned")
	ErrInvalidDueDate  = errors.New("due date must be after the borrow date")
)

// BookLedger is the slice of the books repository circulation needs:
// id-based lookup plus the two atomic counter mutations.
type BookLedger interface {
	GetBookByID(id string) (*entities.Book, error)
	DecrementAvailable(id string) error
	IncrementAvailable(id string) error
}

// MemberDirectory resolves member ids for the eligibility check.
type MemberDirectory interface {
	GetMemberByID(id string) (*entities.Member, error)
}

// LoanStore persists loan records.
type LoanStore interface {
	CreateBorrowing(borrowing *entities.Borrowing) error
	GetBorrowingByID(id string) (*entities.Borrowing, error)
	GetAllBorrowings() ([]entities.Borrowing, error)
	FindByMember(memberID string) ([]entities.Borrowing, error)
	FindByBook(bookID string) ([]entities.Borrowing, error)
	FindDue(now time.Time) ([]entities.Borrowing, error)
	MarkReturned(id string, returnedAt time.Time) error
	MarkOverdue(id string) (bool, error)
	DeleteBorrowing(id string) error
}

// SweepResult summarizes one run of the overdue sweep. Failed holds the ids
// of loans whose transition could not be persisted; callers can retry just
// those without re-running the whole batch.
type SweepResult struct {
	Scanned int      `json:"scanned"`
	Marked  int      `json:"marked"`
	Skipped int      `json:"skipped"`
	Failed  []string `json:"failed,omitempty"`
}

// Service coordinates loans, the book ledger, and member eligibility.
type Service struct {
	ledger  BookLedger
	members MemberDirectory
	loans   LoanStore
}

// NewService creates a new circulation service.
func NewService(ledger BookLedger, members MemberDirectory, loans LoanStore) *Service {
	return &Service{
		ledger:  ledger,
		members: members,
		loans:   loans,
	}
}

// Borrow creates a loan for a member against a book. Preconditions are
// checked in order and the first failure wins: book exists, book available,
// member exists, member active.
//
// The availability precheck is advisory; the authoritative check is the
// conditional decrement in the ledger, so two concurrent borrows of the
// last copy produce exactly one loan.
func (s *Service) Borrow(bookID, memberID string, dueDate time.Time) (*entities.Borrowing, error) {
	now := time.Now()

	book, err := s.ledger.GetBookByID(bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("look up book %s: %w", bookID, err)
	}
	if book.AvailableCopies <= 0 {
		return nil, ErrBookUnavailable
	}

	member, err := s.members.GetMemberByID(memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("look up member %s: %w", memberID, err)
	}
	if !member.IsActive {
		return nil, ErrMemberInactive
	}

	if !dueDate.After(now) {
		return nil, ErrInvalidDueDate
	}

	// Claim the copy first. The UPDATE re-checks availability, so a stale
	// read above cannot overdraw the ledger.
	if err := s.ledger.DecrementAvailable(bookID); err != nil {
		switch {
		case errors.Is(err, books.ErrNoCopiesAvailable):
			return nil, ErrBookUnavailable
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrBookNotFound
		default:
			return nil, fmt.Errorf("claim copy of book %s: %w", bookID, err)
		}
	}

	borrowing := &entities.Borrowing{
		BookID:     bookID,
		MemberID:   memberID,
		BorrowDate: now,
		DueDate:    dueDate,
		Status:     entities.BorrowingStatusBorrowed,
	}
	if err := s.loans.CreateBorrowing(borrowing); err != nil {
		// Put the claimed copy back so the ledger stays consistent.
		if compErr := s.ledger.IncrementAvailable(bookID); compErr != nil {
			log.Printf("Failed to release copy of book %s after loan create failure: %v", bookID, compErr)
		}
		return nil, fmt.Errorf("create borrowing record: %w", err)
	}

	return borrowing, nil
}

// Return closes a loan and puts the copy back on the shelf. Returning a loan
// that is already returned fails with ErrAlreadyReturned; returning an
// overdue loan succeeds.
func (s *Service) Return(loanID string) (*entities.Borrowing, error) {
	loan, err := s.loans.GetBorrowingByID(loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, fmt.Errorf("look up borrowing %s: %w", loanID, err)
	}
	if loan.Status == entities.BorrowingStatusReturned {
		return nil, ErrAlreadyReturned
	}

	returnedAt := time.Now()
	if err := s.loans.MarkReturned(loanID, returnedAt); err != nil {
		switch {
		case errors.Is(err, borrowings.ErrAlreadyReturned):
			return nil, ErrAlreadyReturned
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrLoanNotFound
		default:
			return nil, fmt.Errorf("mark borrowing %s returned: %w", loanID, err)
		}
	}

	if err := s.ledger.IncrementAvailable(loan.BookID); err != nil {
		// The loan is closed either way; a ledger failure here is data
		// corruption (overflow) or a deleted book, and must be surfaced.
		return nil, fmt.Errorf("restore availability for book %s: %w", loan.BookID, err)
	}

	return s.loans.GetBorrowingByID(loanID)
}

// MarkOverdue is the sweep: it flags every open loan whose due date has
// passed. Each record is transitioned independently; one failed write is
// recorded and the rest of the batch continues. Running the sweep twice with
// the same (or a later) now is a no-op for loans already flagged, because
// the selection and the guarded update both require borrowed status.
func (s *Service) MarkOverdue(now time.Time) (*SweepResult, error) {
	due, err := s.loans.FindDue(now)
	if err != nil {
		return nil, fmt.Errorf("find due borrowings: %w", err)
	}

	result := &SweepResult{Scanned: len(due)}
	for _, loan := range due {
		changed, err := s.loans.MarkOverdue(loan.ID)
		if err != nil {
			log.Printf("Overdue sweep: failed to mark borrowing %s: %v", loan.ID, err)
			result.Failed = append(result.Failed, loan.ID)
			continue
		}
		if changed {
			result.Marked++
		} else {
			result.Skipped++
		}
	}

	return result, nil
}

// GetLoan retrieves a single loan.
func (s *Service) GetLoan(loanID string) (*entities.Borrowing, error) {
	loan, err := s.loans.GetBorrowingByID(loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	return loan, nil
}

// ListLoans retrieves all loans.
func (s *Service) ListLoans() ([]entities.Borrowing, error) {
	return s.loans.GetAllBorrowings()
}

// LoansByMember retrieves all loans for a member.
func (s *Service) LoansByMember(memberID string) ([]entities.Borrowing, error) {
	return s.loans.FindByMember(memberID)
}

// LoansByBook retrieves all loans for a book.
func (s *Service) LoansByBook(bookID string) ([]entities.Borrowing, error) {
	return s.loans.FindByBook(bookID)
}

// DueLoans retrieves open loans whose due date has passed but that the sweep
// has not flagged yet. Loans already in overdue status are not included; the
// admin UI combines this set with a status filter when it wants both.
func (s *Service) DueLoans(now time.Time) ([]entities.Borrowing, error) {
	return s.loans.FindDue(now)
}

// DeleteLoan hard-deletes a loan record without reversing its ledger effects.
func (s *Service) DeleteLoan(loanID string) error {
	return s.loans.DeleteBorrowing(loanID)
}
