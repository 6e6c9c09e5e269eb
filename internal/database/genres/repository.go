// Package genres provides database operations for genre management.
package genres

import (
	"gorm.io/gorm"

	"github.com/shelfwise/shelfwise/internal/entities"
)

// Repository handles all genre database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new genres repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetAllGenres retrieves all genres.
func (r *Repository) GetAllGenres() ([]entities.Genre, error) {
	var genres []entities.Genre
	err := r.db.Order("name ASC").Find(&genres).Error
	return genres, err
}

// GetGenreByID retrieves a genre by ID.
func (r *Repository) GetGenreByID(id string) (*entities.Genre, error) {
	var genre entities.Genre
	err := r.db.Where("id = ?", id).First(&genre).Error
	if err != nil {
		return nil, err
	}
	return &genre, nil
}

// CreateGenre creates a new genre.
func (r *Repository) CreateGenre(genre *entities.Genre) error {
	return r.db.Create(genre).Error
}

// UpdateGenre applies the given fields to a genre and returns the updated record.
func (r *Repository) UpdateGenre(id string, fields map[string]any) (*entities.Genre, error) {
	result := r.db.Model(&entities.Genre{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetGenreByID(id)
}

// DeleteGenre removes a genre.
func (r *Repository) DeleteGenre(id string) error {
	return r.db.Where("id = ?", id).Delete(&entities.Genre{}).Error
}
