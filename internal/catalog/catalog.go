// Package catalog is the record access layer: one repository per resource,
// each validating input, issuing a single document-store operation and
// shaping the result for the HTTP layer.
//
// Repositories receive their collection handles explicitly, so any
// docstore backend (including the in-memory one used in tests) can serve
// them:
//
//	client := memstore.New()
//	cat := catalog.New(client, catalog.DefaultDatabases())
//	books, err := cat.Books.List(ctx, "gatsby")
package catalog

import (
	"context"
	"fmt"

	"github.com/mrlokans/catalog/internal/docstore"
	"github.com/mrlokans/catalog/internal/entities"
)

// DefaultListLimit caps listings that carry no search query.
const DefaultListLimit = 10

// Databases names the logical database of each collection.
type Databases struct {
	Book    string
	Library string
	Creator string
}

// DefaultDatabases returns the database names the catalog has always used.
func DefaultDatabases() Databases {
	return Databases{
		Book:    "bookDatabase",
		Library: "libraryDatabase",
		Creator: "creatorDatabase",
	}
}

// Catalog bundles the three repositories over one store client.
type Catalog struct {
	Books     *BookRepository
	Libraries *LibraryRepository
	Creators  *CreatorRepository
}

// New resolves the collection handles and builds the repositories.
func New(client docstore.Client, dbs Databases) *Catalog {
	return &Catalog{
		Books:     NewBookRepository(client.Collection(dbs.Book, entities.BooksCollection)),
		Libraries: NewLibraryRepository(client.Collection(dbs.Library, entities.LibrariesCollection)),
		Creators:  NewCreatorRepository(client.Collection(dbs.Creator, entities.CreatorsCollection)),
	}
}

// search builds the filter and limit for a listing: a query searches one
// field without limit, no query lists the first DefaultListLimit records.
func search(field, query string) (docstore.Filter, int64) {
	if query == "" {
		return docstore.Filter{}, DefaultListLimit
	}
	return docstore.Filter{Field: field, Contains: query}, 0
}

// updateOne applies set to the document with the given id.
func updateOne(ctx context.Context, coll docstore.Collection, collection string, id docstore.ID, set any) error {
	matched, err := coll.UpdateOne(ctx, id, set)
	if err != nil {
		return storeError("update", collection, err)
	}
	if matched == 0 {
		return fmt.Errorf("%w: %s %s", ErrNotFound, collection, id.Hex())
	}
	return nil
}

// deleteOne removes the document identified by the raw id.
func deleteOne(ctx context.Context, coll docstore.Collection, collection, rawID string) error {
	id, err := docstore.ParseID(rawID)
	if err != nil {
		return err
	}

	deleted, err := coll.DeleteOne(ctx, id)
	if err != nil {
		return storeError("delete", collection, err)
	}
	if deleted == 0 {
		return fmt.Errorf("%w: %s %s", ErrNotFound, collection, rawID)
	}
	return nil
}
