package entities

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names inside their logical databases.
const (
	BooksCollection     = "books"
	LibrariesCollection = "libraries"
	CreatorsCollection  = "creators"
)

// Book is a catalog entry as stored in the books collection.
type Book struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title   string             `bson:"title,omitempty" json:"title,omitempty"`
	ISBN    []string           `bson:"isbn,omitempty" json:"isbn,omitempty"`
	Authors []string           `bson:"authors,omitempty" json:"authors,omitempty"`
}

// BookFields are the editable fields of a book, replaced together on update.
type BookFields struct {
	Title   string   `bson:"title" json:"title"`
	ISBN    []string `bson:"isbn" json:"isbn"`
	Authors []string `bson:"authors" json:"authors"`
}

// Library is an inventory record for one title held by the library.
type Library struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title        string             `bson:"title,omitempty" json:"title,omitempty"`
	MaterialType string             `bson:"material_type,omitempty" json:"material_type,omitempty"`
	Inventory    *Inventory         `bson:"inventory,omitempty" json:"inventory,omitempty"`
}

// LibraryFields are the editable fields of a library record.
type LibraryFields struct {
	Title        string    `bson:"title" json:"title"`
	MaterialType string    `bson:"material_type" json:"material_type"`
	Inventory    Inventory `bson:"inventory" json:"inventory"`
}

// Inventory counts copies of a library record. The counters are not
// required to add up.
type Inventory struct {
	TotalCopies      int64 `bson:"total_copies" json:"total_copies"`
	CopiesAvailable  int64 `bson:"copies_available" json:"copies_available"`
	CopiesCheckedOut int64 `bson:"copies_checked_out" json:"copies_checked_out"`
	CopiesLost       int64 `bson:"copies_lost" json:"copies_lost"`
}

// Creator is an author or contributor and the works attributed to them.
type Creator struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name  string             `bson:"name,omitempty" json:"name,omitempty"`
	Works []WorkRef          `bson:"works,omitempty" json:"works,omitempty"`
}

// WorkRef points at a work either by title or by the id of its document.
// Both forms are stored as they were written and come back as strings.
type WorkRef string

// UnmarshalBSONValue accepts string and ObjectID references. Any other
// element is kept as its extended JSON text so one malformed reference
// does not fail the whole document.
func (w *WorkRef) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t == bsontype.Null {
		*w = ""
		return nil
	}
	rv := bson.RawValue{Type: t, Value: data}
	if s, ok := rv.StringValueOK(); ok {
		*w = WorkRef(s)
		return nil
	}
	if oid, ok := rv.ObjectIDOK(); ok {
		*w = WorkRef(oid.Hex())
		return nil
	}
	*w = WorkRef(rv.String())
	return nil
}
