package http

import (
	"time"

	"github.com/shelfwise/shelfwise/internal/circulation"
	"github.com/shelfwise/shelfwise/internal/entities"
)

// Consumer-side interfaces for the controllers. The database repositories and
// the circulation service satisfy these; tests substitute fakes where useful.

// BookStore provides catalog access for the books controller.
type BookStore interface {
	GetAllBooks() ([]entities.Book, error)
	GetBookByID(id string) (*entities.Book, error)
	SearchBooks(query string) ([]entities.Book, error)
	CreateBook(book *entities.Book) error
	UpdateBook(id string, fields map[string]any) (*entities.Book, error)
	DeleteBook(id string) error
}

// GenreStore provides genre access for the genres controller.
type GenreStore interface {
	GetAllGenres() ([]entities.Genre, error)
	GetGenreByID(id string) (*entities.Genre, error)
	CreateGenre(genre *entities.Genre) error
	UpdateGenre(id string, fields map[string]any) (*entities.Genre, error)
	DeleteGenre(id string) error
}

// MemberStore provides member access for the members controller.
type MemberStore interface {
	GetAllMembers() ([]entities.Member, error)
	GetMemberByID(id string) (*entities.Member, error)
	FindActiveMembers() ([]entities.Member, error)
	CreateMember(member *entities.Member) error
	UpdateMember(id string, fields map[string]any) (*entities.Member, error)
	DeleteMember(id string) error
}

// CirculationService drives the borrowing lifecycle for the borrowings
// controller.
type CirculationService interface {
	Borrow(bookID, memberID string, dueDate time.Time) (*entities.Borrowing, error)
	Return(loanID string) (*entities.Borrowing, error)
	MarkOverdue(now time.Time) (*circulation.SweepResult, error)
	GetLoan(loanID string) (*entities.Borrowing, error)
	ListLoans() ([]entities.Borrowing, error)
	LoansByMember(memberID string) ([]entities.Borrowing, error)
	LoansByBook(bookID string) ([]entities.Borrowing, error)
	DueLoans(now time.Time) ([]entities.Borrowing, error)
	DeleteLoan(loanID string) error
}

// SettingsStore provides settings access for the settings controller.
type SettingsStore interface {
	GetAllSettings() ([]entities.Setting, error)
	GetSettingOrDefault(key, fallback string) string
	SetSetting(key, value string) error
	GetLoanPeriodDays(fallback int) int
}

// BookCounter, MemberCounter and LoanCounter feed the dashboard controller.
type BookCounter interface {
	CountBooks() (int64, error)
}

type MemberCounter interface {
	CountMembers() (int64, error)
}

type LoanCounter interface {
	CountByStatus(status entities.BorrowingStatus) (int64, error)
}
