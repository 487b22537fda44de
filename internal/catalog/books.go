package catalog

import (
	"context"

	"github.com/mrlokans/catalog/internal/docstore"
	"github.com/mrlokans/catalog/internal/entities"
)

// UnknownTitle stands in for a stored book without a title.
const UnknownTitle = "Unknown Title"

// Book is the API view of a stored book.
type Book struct {
	ID      string   `json:"_id"`
	Title   string   `json:"title"`
	ISBN    []string `json:"isbn"`
	Authors []string `json:"authors"`
}

// BookInput is the body of a create or update request.
type BookInput struct {
	Title   string   `json:"title"`
	ISBN    []string `json:"isbn"`
	Authors []string `json:"authors"`
}

// Validate reports every missing or empty field.
func (in BookInput) Validate() error {
	var missing requiredFields
	missing.text("title", in.Title)
	missing.list("isbn", in.ISBN)
	missing.list("authors", in.Authors)
	return missing.err()
}

func (in BookInput) fields() entities.BookFields {
	return entities.BookFields{Title: in.Title, ISBN: in.ISBN, Authors: in.Authors}
}

type BookRepository struct {
	coll docstore.Collection
}

func NewBookRepository(coll docstore.Collection) *BookRepository {
	return &BookRepository{coll: coll}
}

// List returns every book whose title contains query, or the first
// DefaultListLimit books when query is empty.
func (r *BookRepository) List(ctx context.Context, query string) ([]Book, error) {
	filter, limit := search("title", query)

	var docs []entities.Book
	if err := r.coll.Find(ctx, filter, limit, &docs); err != nil {
		return nil, storeError("find", entities.BooksCollection, err)
	}

	books := make([]Book, 0, len(docs))
	for _, doc := range docs {
		books = append(books, bookView(doc))
	}
	return books, nil
}

// Create stores a new book and returns it with its generated id.
func (r *BookRepository) Create(ctx context.Context, in BookInput) (*Book, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	id, err := r.coll.InsertOne(ctx, entities.Book{Title: in.Title, ISBN: in.ISBN, Authors: in.Authors})
	if err != nil {
		return nil, storeError("insert", entities.BooksCollection, err)
	}

	return &Book{ID: id.Hex(), Title: in.Title, ISBN: in.ISBN, Authors: in.Authors}, nil
}

// Update replaces the title, isbn and authors of the book with the given id.
func (r *BookRepository) Update(ctx context.Context, id string, in BookInput) error {
	oid, err := docstore.ParseID(id)
	if err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return err
	}
	return updateOne(ctx, r.coll, entities.BooksCollection, oid, in.fields())
}

// Delete removes the book with the given id.
func (r *BookRepository) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.coll, entities.BooksCollection, id)
}

func bookView(doc entities.Book) Book {
	book := Book{
		ID:      doc.ID.Hex(),
		Title:   doc.Title,
		ISBN:    doc.ISBN,
		Authors: doc.Authors,
	}
	if book.Title == "" {
		book.Title = UnknownTitle
	}
	if book.ISBN == nil {
		book.ISBN = []string{}
	}
	if book.Authors == nil {
		book.Authors = []string{}
	}
	return book
}
