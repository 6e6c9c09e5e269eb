// Package books provides database operations for the book catalog,
// including the available-copy ledger used by circulation.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetBookByID(id)
//	err = repo.DecrementAvailable(id)
package books

import (
	"errors"

	"gorm.io/gorm"

	"github.com/shelfwise/shelfwise/internal/entities"
)

var (
	// ErrNoCopiesAvailable is returned when a decrement finds no available copy.
	ErrNoCopiesAvailable = errors.New("no copies available")

	// ErrLedgerOverflow is returned when an increment would push the available
	// count past the total. This means a caller returned a loan twice without
	// going through the lifecycle checks; it is surfaced instead of clamped so
	// the corruption is visible.
	ErrLedgerOverflow = errors.New("available copies would exceed total copies")
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetAllBooks retrieves every book with its genre.
func (r *Repository) GetAllBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Preload("Genre").Order("title ASC").Find(&books).Error
	return books, err
}

// GetBookByID retrieves a book by ID.
func (r *Repository) GetBookByID(id string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Genre").Where("id = ?", id).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// SearchBooks finds books whose title, author or ISBN matches the query
// (case-insensitive partial match).
func (r *Repository) SearchBooks(query string) ([]entities.Book, error) {
	var books []entities.Book
	pattern := "%" + query + "%"
	err := r.db.Preload("Genre").
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(author) LIKE LOWER(?) OR isbn LIKE ?", pattern, pattern, pattern).
		Order("title ASC").
		Find(&books).Error
	return books, err
}

// CreateBook creates a new book. A new book starts with all copies available
// unless the caller says otherwise.
func (r *Repository) CreateBook(book *entities.Book) error {
	if book.AvailableCopies == 0 && book.TotalCopies > 0 {
		book.AvailableCopies = book.TotalCopies
	}
	return r.db.Create(book).Error
}

// UpdateBook applies the given fields to a book and returns the updated record.
func (r *Repository) UpdateBook(id string, fields map[string]any) (*entities.Book, error) {
	result := r.db.Model(&entities.Book{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetBookByID(id)
}

// DeleteBook removes a book.
func (r *Repository) DeleteBook(id string) error {
	return r.db.Where("id = ?", id).Delete(&entities.Book{}).Error
}

// CountBooks returns the number of books in the catalog.
func (r *Repository) CountBooks() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Count(&count).Error
	return count, err
}

// DecrementAvailable takes one copy off the shelf. The availability check and
// the write are a single conditional UPDATE, so two concurrent borrows of the
// last copy can never both succeed.
func (r *Repository) DecrementAvailable(id string) error {
	result := r.db.Model(&entities.Book{}).
		Where("id = ? AND available_copies > 0", id).
		Update("available_copies", gorm.Expr("available_copies - 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.classifyNoRows(id, ErrNoCopiesAvailable)
	}
	return nil
}

// IncrementAvailable puts one copy back on the shelf. The guard against
// exceeding total_copies runs in the same UPDATE.
func (r *Repository) IncrementAvailable(id string) error {
	result := r.db.Model(&entities.Book{}).
		Where("id = ? AND available_copies < total_copies", id).
		Update("available_copies", gorm.Expr("available_copies + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.classifyNoRows(id, ErrLedgerOverflow)
	}
	return nil
}

// classifyNoRows distinguishes "book does not exist" from a failed guard.
func (r *Repository) classifyNoRows(id string, guardErr error) error {
	var count int64
	if err := r.db.Model(&entities.Book{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return guardErr
}
