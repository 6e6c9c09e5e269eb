// Package members provides database operations for library members.
//
// Member eligibility for borrowing is exactly the is_active flag; the
// circulation service reads it through GetMemberByID.
package members

import (
	"gorm.io/gorm"

	"github.com/shelfwise/shelfwise/internal/entities"
)

// Repository handles all member database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new members repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetAllMembers retrieves all members.
func (r *Repository) GetAllMembers() ([]entities.Member, error) {
	var members []entities.Member
	err := r.db.Order("last_name ASC, first_name ASC").Find(&members).Error
	return members, err
}

// GetMemberByID retrieves a member by ID.
func (r *Repository) GetMemberByID(id string) (*entities.Member, error) {
	var member entities.Member
	err := r.db.Where("id = ?", id).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetMemberByEmail retrieves a member by email.
func (r *Repository) GetMemberByEmail(email string) (*entities.Member, error) {
	var member entities.Member
	err := r.db.Where("email = ?", email).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetMemberByMembershipNumber retrieves a member by membership number.
func (r *Repository) GetMemberByMembershipNumber(number string) (*entities.Member, error) {
	var member entities.Member
	err := r.db.Where("membership_number = ?", number).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// FindActiveMembers retrieves members that are currently allowed to borrow.
func (r *Repository) FindActiveMembers() ([]entities.Member, error) {
	var members []entities.Member
	err := r.db.Where("is_active = ?", true).Order("last_name ASC, first_name ASC").Find(&members).Error
	return members, err
}

// CreateMember creates a new member.
func (r *Repository) CreateMember(member *entities.Member) error {
	return r.db.Create(member).Error
}

// UpdateMember applies the given fields to a member and returns the updated record.
func (r *Repository) UpdateMember(id string, fields map[string]any) (*entities.Member, error) {
	result := r.db.Model(&entities.Member{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetMemberByID(id)
}

// DeleteMember removes a member.
func (r *Repository) DeleteMember(id string) error {
	return r.db.Where("id = ?", id).Delete(&entities.Member{}).Error
}

// CountMembers returns the number of registered members.
func (r *Repository) CountMembers() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Member{}).Count(&count).Error
	return count, err
}
