// Package docstore defines the document-store collaborator used by the
// catalog: named collections inside named logical databases, supporting
// find-by-filter, insert-one, update-one and delete-one.
//
// # Backends
//
//	docstore/
//	├── mongostore/   # MongoDB, the reference store
//	├── sqlitestore/  # single-file store on SQLite (gorm), JSON bodies
//	├── pgstore/      # PostgreSQL JSONB table (pgx)
//	└── memstore/     # in-process store for tests and local runs
//
// Every backend identifies documents with a MongoDB ObjectID stored under
// the "_id" key, so identifiers are portable between backends.
//
// # Documents
//
// Documents are Go structs carrying both bson and json tags with matching
// field names. Find decodes into a pointer to a slice, the way a Mongo
// cursor's All does:
//
//	var books []entities.Book
//	err := coll.Find(ctx, docstore.Filter{Field: "title", Contains: "dune"}, 0, &books)
package docstore

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IDField is the document key holding the identifier.
const IDField = "_id"

// ID identifies a single document.
type ID = primitive.ObjectID

var (
	// ErrInvalidID is returned by ParseID for identifiers that are not
	// 24-character hexadecimal tokens.
	ErrInvalidID = errors.New("docstore: invalid document id")

	// ErrClosed is returned by operations on a closed client.
	ErrClosed = errors.New("docstore: client closed")
)

// Filter selects documents whose string Field contains Contains,
// ignoring case. An empty Contains matches every document.
type Filter struct {
	Field    string
	Contains string
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return f.Contains == ""
}

// Matches reports whether value contains the filter text under Unicode
// case folding. Backends that cannot fold case natively match with it.
func (f Filter) Matches(value string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(f.Contains))
}

// Client is a connection to a document store.
type Client interface {
	// Collection returns a handle to a collection. Handles are cheap and
	// safe for concurrent use.
	Collection(database, name string) Collection
	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
	// Close releases the connection.
	Close(ctx context.Context) error
}

// Collection is a named group of documents within a logical database.
type Collection interface {
	// Find decodes matching documents into results, which must be a
	// pointer to a slice. Documents come back in store order. A limit of
	// zero means no limit.
	Find(ctx context.Context, filter Filter, limit int64, results any) error
	// InsertOne stores doc, assigning an identifier when doc has none.
	InsertOne(ctx context.Context, doc any) (ID, error)
	// UpdateOne sets the top-level fields of set on the document with the
	// given id and reports how many documents matched (0 or 1). The
	// identifier itself is never changed.
	UpdateOne(ctx context.Context, id ID, set any) (int64, error)
	// DeleteOne removes the document with the given id and reports how
	// many documents were deleted (0 or 1).
	DeleteOne(ctx context.Context, id ID) (int64, error)
}

// ParseID parses the hexadecimal form of an identifier.
func ParseID(s string) (ID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return id, nil
}

// NewID generates a fresh identifier.
func NewID() ID {
	return primitive.NewObjectID()
}

// Namespace joins a database and collection name the way Mongo does.
func Namespace(database, name string) string {
	return database + "." + name
}

// DecodeAll unmarshals each encoded document into a new element of the
// slice results points to, replacing its contents. Backends that keep
// documents as bytes use it to implement Find.
func DecodeAll(results any, docs [][]byte, unmarshal func([]byte, any) error) error {
	rv := reflect.ValueOf(results)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("docstore: results must be a non-nil pointer to a slice, got %T", results)
	}

	slice := rv.Elem()
	out := reflect.MakeSlice(slice.Type(), 0, len(docs))
	elemType := slice.Type().Elem()

	for i, doc := range docs {
		elem := reflect.New(elemType)
		if err := unmarshal(doc, elem.Interface()); err != nil {
			return fmt.Errorf("docstore: decode document %d: %w", i, err)
		}
		out = reflect.Append(out, elem.Elem())
	}

	slice.Set(out)
	return nil
}
