package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shelfwise/shelfwise/internal/entities"
)

// GenresController manages the genre taxonomy.
type GenresController struct {
	store GenreStore
}

// NewGenresController creates a new genres controller.
func NewGenresController(store GenreStore) *GenresController {
	return &GenresController{store: store}
}

type genreRequest struct {
	Name string `json:"name" binding:"required"`
}

// List retrieves all genres: GET /genres.
func (gc *GenresController) List(c *gin.Context) {
	genres, err := gc.store.GetAllGenres()
	if err != nil {
		respondInternalError(c, err, "list genres")
		return
	}
	c.JSON(http.StatusOK, genres)
}

// Get retrieves a single genre: GET /genres/:id.
func (gc *GenresController) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	genre, err := gc.store.GetGenreByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "genre")
			return
		}
		respondInternalError(c, err, "get genre")
		return
	}
	c.JSON(http.StatusOK, genre)
}

// Create adds a genre: POST /genres.
func (gc *GenresController) Create(c *gin.Context) {
	var req genreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	genre := entities.Genre{Name: req.Name}
	if err := gc.store.CreateGenre(&genre); err != nil {
		respondInternalError(c, err, "create genre")
		return
	}
	respondCreated(c, genre)
}

// Update renames a genre: PUT /genres/:id.
func (gc *GenresController) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req genreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	genre, err := gc.store.UpdateGenre(id, map[string]any{"name": req.Name})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "genre")
			return
		}
		respondInternalError(c, err, "update genre")
		return
	}
	c.JSON(http.StatusOK, genre)
}

// Delete removes a genre: DELETE /genres/:id.
func (gc *GenresController) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := gc.store.DeleteGenre(id); err != nil {
		respondInternalError(c, err, "delete genre")
		return
	}
	respondSuccess(c, "genre deleted")
}
