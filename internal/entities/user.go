package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole defines what a staff account is allowed to do.
type UserRole string

const (
	UserRoleAdmin     UserRole = "admin"     // Full access including staff management
	UserRoleLibrarian UserRole = "librarian" // Day-to-day circulation and catalog work
)

// User is a staff account. Library members never log in; they are plain
// records managed by staff.
type User struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	Username     string     `gorm:"uniqueIndex;size:100" json:"username"`
	PasswordHash string     `gorm:"size:255" json:"-"`
	Role         UserRole   `gorm:"size:20;default:'librarian'" json:"role"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`

	// Account lockout tracking
	FailedLoginCount int        `gorm:"default:0" json:"-"`
	LockedUntil      *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
