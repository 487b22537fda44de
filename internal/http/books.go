package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/catalog"
)

// BookStore defines the record operations the books endpoints need.
type BookStore interface {
	List(ctx context.Context, title string) ([]catalog.Book, error)
	Create(ctx context.Context, in catalog.BookInput) (*catalog.Book, error)
	Update(ctx context.Context, id string, in catalog.BookInput) error
	Delete(ctx context.Context, id string) error
}

var _ BookStore = (*catalog.BookRepository)(nil)

type BooksController struct {
	store BookStore
}

func NewBooksController(store BookStore) *BooksController {
	return &BooksController{store: store}
}

// ListBooks searches books by title, or lists the first few without one.
// GET /books?title=
func (bc *BooksController) ListBooks(c *gin.Context) {
	books, err := bc.store.List(c.Request.Context(), c.Query("title"))
	if err != nil {
		respondStoreError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, books)
}

// CreateBook adds a new book.
// POST /books
func (bc *BooksController) CreateBook(c *gin.Context) {
	var in catalog.BookInput
	if !bindJSON(c, &in) {
		return
	}

	book, err := bc.store.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, resourceBook, "create book")
		return
	}
	respondCreated(c, book)
}

// UpdateBook replaces the title, isbn and authors of a book.
// PUT /books/:id
func (bc *BooksController) UpdateBook(c *gin.Context) {
	var in catalog.BookInput
	if !bindJSON(c, &in) {
		return
	}

	if err := bc.store.Update(c.Request.Context(), c.Param("id"), in); err != nil {
		respondError(c, err, resourceBook, "update book")
		return
	}
	respondSuccess(c, resourceBook.updated())
}

// DeleteBook removes a book.
// DELETE /books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	if err := bc.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, resourceBook, "delete book")
		return
	}
	respondSuccess(c, resourceBook.deleted())
}
