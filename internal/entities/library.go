package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BorrowingStatus string

const (
	BorrowingStatusBorrowed BorrowingStatus = "borrowed"
	BorrowingStatusReturned BorrowingStatus = "returned"
	BorrowingStatusOverdue  BorrowingStatus = "overdue"
)

type Genre struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Book struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	Title           string    `gorm:"index;size:512" json:"title"`
	Author          string    `gorm:"index;size:256" json:"author"`
	ISBN            string    `gorm:"uniqueIndex;size:20" json:"isbn"`
	TotalCopies     int       `gorm:"default:0" json:"total_copies"`
	AvailableCopies int       `gorm:"default:0" json:"available_copies"`
	GenreID         string    `gorm:"index;size:36" json:"genre_id,omitempty"`
	Genre           *Genre    `gorm:"foreignKey:GenreID" json:"genre,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Member struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`
	FirstName        string     `gorm:"size:100" json:"first_name"`
	LastName         string     `gorm:"size:100" json:"last_name"`
	Email            string     `gorm:"uniqueIndex;size:255" json:"email"`
	MembershipNumber string     `gorm:"uniqueIndex;size:50" json:"membership_number"`
	Phone            string     `gorm:"size:50" json:"phone,omitempty"`
	Address          string     `gorm:"size:512" json:"address,omitempty"`
	MembershipExpiry *time.Time `json:"membership_expiry,omitempty"`
	// No gorm default tag on IsActive: gorm drops zero-valued fields from the
	// INSERT, so a column default of true would silently overwrite an explicit
	// false. Callers that want a new member active say so (the members
	// controller and the seed command both do).
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Borrowing is the record of a single loan. It is the sole source of truth
// for a borrow transaction; the book's available-copy counter is only ever
// mutated as a consequence of a Borrowing transition.
type Borrowing struct {
	ID         string          `gorm:"primaryKey;size:36" json:"id"`
	BookID     string          `gorm:"index;size:36" json:"book_id"`
	Book       *Book           `gorm:"foreignKey:BookID" json:"book,omitempty"`
	MemberID   string          `gorm:"index;size:36" json:"member_id"`
	Member     *Member         `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	BorrowDate time.Time       `json:"borrow_date"`
	DueDate    time.Time       `gorm:"index" json:"due_date"`
	ReturnDate *time.Time      `json:"return_date,omitempty"`
	Status     BorrowingStatus `gorm:"index;size:20;default:'borrowed'" json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (Genre) TableName() string {
	return "genres"
}

func (Book) TableName() string {
	return "books"
}

func (Member) TableName() string {
	return "members"
}

func (Borrowing) TableName() string {
	return "borrowings"
}

func (g *Genre) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (b *Borrowing) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
