package catalog

import (
	"context"

	"github.com/mrlokans/catalog/internal/docstore"
	"github.com/mrlokans/catalog/internal/entities"
)

// Placeholders for library records stored without these fields.
const (
	NoTitleAvailable    = "No Title Available"
	UnknownMaterialType = "Unknown"
)

// Library is the API view of a stored library record. Inventory is null
// when the record has none.
type Library struct {
	ID           string              `json:"_id"`
	Title        string              `json:"title"`
	MaterialType string              `json:"material_type"`
	Inventory    *entities.Inventory `json:"inventory"`
}

// LibraryInput is the body of a create or update request. Counters left
// out of inventory are stored as 0.
type LibraryInput struct {
	Title        string              `json:"title"`
	MaterialType string              `json:"material_type"`
	Inventory    *entities.Inventory `json:"inventory"`
}

// Validate reports every missing or empty field.
func (in LibraryInput) Validate() error {
	var missing requiredFields
	missing.text("title", in.Title)
	missing.text("material_type", in.MaterialType)
	missing.present("inventory", in.Inventory != nil)
	return missing.err()
}

func (in LibraryInput) fields() entities.LibraryFields {
	return entities.LibraryFields{
		Title:        in.Title,
		MaterialType: in.MaterialType,
		Inventory:    *in.Inventory,
	}
}

type LibraryRepository struct {
	coll docstore.Collection
}

func NewLibraryRepository(coll docstore.Collection) *LibraryRepository {
	return &LibraryRepository{coll: coll}
}

// List matches query against the record title. With no query it returns
// the first DefaultListLimit records.
func (r *LibraryRepository) List(ctx context.Context, query string) ([]Library, error) {
	filter, limit := search("title", query)

	var docs []entities.Library
	if err := r.coll.Find(ctx, filter, limit, &docs); err != nil {
		return nil, storeError("find", entities.LibrariesCollection, err)
	}

	libraries := make([]Library, 0, len(docs))
	for _, doc := range docs {
		libraries = append(libraries, libraryView(doc))
	}
	return libraries, nil
}

// Create stores a new library record with every inventory counter set.
func (r *LibraryRepository) Create(ctx context.Context, in LibraryInput) (*Library, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	inventory := *in.Inventory
	doc := entities.Library{Title: in.Title, MaterialType: in.MaterialType, Inventory: &inventory}

	id, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, storeError("insert", entities.LibrariesCollection, err)
	}

	return &Library{ID: id.Hex(), Title: in.Title, MaterialType: in.MaterialType, Inventory: &inventory}, nil
}

// Update replaces title, material type and the whole inventory.
func (r *LibraryRepository) Update(ctx context.Context, id string, in LibraryInput) error {
	oid, err := docstore.ParseID(id)
	if err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return err
	}
	return updateOne(ctx, r.coll, entities.LibrariesCollection, oid, in.fields())
}

// Delete removes the library record with the given id.
func (r *LibraryRepository) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.coll, entities.LibrariesCollection, id)
}

func libraryView(doc entities.Library) Library {
	lib := Library{
		ID:           doc.ID.Hex(),
		Title:        doc.Title,
		MaterialType: doc.MaterialType,
	}
	if lib.Title == "" {
		lib.Title = NoTitleAvailable
	}
	if lib.MaterialType == "" {
		lib.MaterialType = UnknownMaterialType
	}
	if doc.Inventory != nil {
		inventory := *doc.Inventory
		lib.Inventory = &inventory
	}
	return lib
}
