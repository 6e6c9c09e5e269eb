// Package borrowings provides database operations for loan records.
//
// Status transitions are written as guarded single-row UPDATEs with a status
// predicate, so a transition that already happened affects zero rows instead
// of being silently repeated. The circulation service builds the lifecycle
// rules on top of that.
package borrowings

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/shelfwise/shelfwise/internal/entities"
)

// ErrAlreadyReturned is returned when a return is attempted on a loan that
// has already been closed.
var ErrAlreadyReturned = errors.New("borrowing already returned")

// Repository handles all borrowing database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new borrowings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateBorrowing creates a new loan record.
func (r *Repository) CreateBorrowing(borrowing *entities.Borrowing) error {
	return r.db.Create(borrowing).Error
}

// GetBorrowingByID retrieves a loan by ID.
func (r *Repository) GetBorrowingByID(id string) (*entities.Borrowing, error) {
	var borrowing entities.Borrowing
	err := r.db.Where("id = ?", id).First(&borrowing).Error
	if err != nil {
		return nil, err
	}
	return &borrowing, nil
}

// GetAllBorrowings retrieves all loans, newest first.
func (r *Repository) GetAllBorrowings() ([]entities.Borrowing, error) {
	var borrowings []entities.Borrowing
	err := r.db.Order("borrow_date DESC").Find(&borrowings).Error
	return borrowings, err
}

// FindByMember retrieves all loans for a member.
func (r *Repository) FindByMember(memberID string) ([]entities.Borrowing, error) {
	var borrowings []entities.Borrowing
	err := r.db.Where("member_id = ?", memberID).Order("borrow_date DESC").Find(&borrowings).Error
	return borrowings, err
}

// FindByBook retrieves all loans for a book.
func (r *Repository) FindByBook(bookID string) ([]entities.Borrowing, error) {
	var borrowings []entities.Borrowing
	err := r.db.Where("book_id = ?", bookID).Order("borrow_date DESC").Find(&borrowings).Error
	return borrowings, err
}

// FindDue retrieves open loans whose due date has passed: the set the overdue
// sweep will act on next. Loans already flagged overdue are excluded; callers
// that need the full overdue picture combine this with FindByStatus.
func (r *Repository) FindDue(now time.Time) ([]entities.Borrowing, error) {
	var borrowings []entities.Borrowing
	err := r.db.
		Where("status = ? AND due_date < ?", entities.BorrowingStatusBorrowed, now).
		Order("due_date ASC").
		Find(&borrowings).Error
	return borrowings, err
}

// FindByStatus retrieves all loans in the given status.
func (r *Repository) FindByStatus(status entities.BorrowingStatus) ([]entities.Borrowing, error) {
	var borrowings []entities.Borrowing
	err := r.db.Where("status = ?", status).Order("due_date ASC").Find(&borrowings).Error
	return borrowings, err
}

// MarkReturned closes a loan. The status predicate in the UPDATE makes a
// double return lose the race at the database, whatever the service read
// moments earlier.
func (r *Repository) MarkReturned(id string, returnedAt time.Time) error {
	result := r.db.Model(&entities.Borrowing{}).
		Where("id = ? AND status <> ?", id, entities.BorrowingStatusReturned).
		Updates(map[string]any{
			"status":      entities.BorrowingStatusReturned,
			"return_date": returnedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&entities.Borrowing{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrAlreadyReturned
	}
	return nil
}

// MarkOverdue flags an open loan as overdue. Returns false when the loan was
// not in borrowed status (already swept, returned, or deleted), which keeps
// repeated sweeps idempotent.
func (r *Repository) MarkOverdue(id string) (bool, error) {
	result := r.db.Model(&entities.Borrowing{}).
		Where("id = ? AND status = ?", id, entities.BorrowingStatusBorrowed).
		Update("status", entities.BorrowingStatusOverdue)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteBorrowing hard-deletes a loan record. Ledger effects are not reversed;
// this is an administrative escape hatch.
func (r *Repository) DeleteBorrowing(id string) error {
	return r.db.Where("id = ?", id).Delete(&entities.Borrowing{}).Error
}

// CountByStatus returns the number of loans in the given status.
func (r *Repository) CountByStatus(status entities.BorrowingStatus) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Borrowing{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
