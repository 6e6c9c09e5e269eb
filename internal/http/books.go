package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shelfwise/shelfwise/internal/entities"
)

// BooksController manages the book catalog.
type BooksController struct {
	store BookStore
}

// NewBooksController creates a new books controller.
func NewBooksController(store BookStore) *BooksController {
	return &BooksController{store: store}
}

type createBookRequest struct {
	Title       string `json:"title" binding:"required"`
	Author      string `json:"author" binding:"required"`
	ISBN        string `json:"isbn" binding:"required"`
	TotalCopies int    `json:"total_copies" binding:"required,gt=0"`
	GenreID     string `json:"genre_id"`
}

type updateBookRequest struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	ISBN        *string `json:"isbn"`
	TotalCopies *int    `json:"total_copies"`
	GenreID     *string `json:"genre_id"`
}

// List retrieves all books, or a filtered set when ?q= is given:
// GET /books, GET /books?q=tolstoy.
func (bc *BooksController) List(c *gin.Context) {
	query := c.Query("q")

	var (
		books []entities.Book
		err   error
	)
	if query != "" {
		books, err = bc.store.SearchBooks(query)
	} else {
		books, err = bc.store.GetAllBooks()
	}
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, books)
}

// Get retrieves a single book: GET /books/:id.
func (bc *BooksController) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetBookByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// Create adds a book to the catalog: POST /books.
func (bc *BooksController) Create(c *gin.Context) {
	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title, author, isbn and a positive total_copies are required")
		return
	}

	book := entities.Book{
		Title:       req.Title,
		Author:      req.Author,
		ISBN:        req.ISBN,
		TotalCopies: req.TotalCopies,
		GenreID:     req.GenreID,
	}
	if err := bc.store.CreateBook(&book); err != nil {
		respondInternalError(c, err, "create book")
		return
	}
	respondCreated(c, book)
}

// Update modifies a book: PUT /books/:id. Only the fields present in the
// request body are changed; copy counters are not editable here, they belong
// to the borrowing lifecycle.
func (bc *BooksController) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req updateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Author != nil {
		fields["author"] = *req.Author
	}
	if req.ISBN != nil {
		fields["isbn"] = *req.ISBN
	}
	if req.TotalCopies != nil {
		if *req.TotalCopies <= 0 {
			respondBadRequest(c, "total_copies must be positive")
			return
		}
		fields["total_copies"] = *req.TotalCopies
	}
	if req.GenreID != nil {
		fields["genre_id"] = *req.GenreID
	}
	if len(fields) == 0 {
		respondBadRequest(c, "no fields to update")
		return
	}

	book, err := bc.store.UpdateBook(id, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "update book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// Delete removes a book: DELETE /books/:id.
func (bc *BooksController) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := bc.store.DeleteBook(id); err != nil {
		respondInternalError(c, err, "delete book")
		return
	}
	respondSuccess(c, "book deleted")
}
