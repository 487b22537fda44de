package catalog

import (
	"context"

	"github.com/mrlokans/catalog/internal/docstore"
	"github.com/mrlokans/catalog/internal/entities"
)

// UnknownName stands in for a stored creator without a name.
const UnknownName = "Unknown Name"

// Creator is the API view of a stored creator.
type Creator struct {
	Name  string             `json:"name"`
	Works []entities.WorkRef `json:"works"`
}

// CreatorInput describes a creator loaded by the seed command; creators
// have no write endpoint.
type CreatorInput struct {
	Name  string             `json:"name"`
	Works []entities.WorkRef `json:"works"`
}

func (in CreatorInput) Validate() error {
	var missing requiredFields
	missing.text("name", in.Name)
	return missing.err()
}

type CreatorRepository struct {
	coll docstore.Collection
}

func NewCreatorRepository(coll docstore.Collection) *CreatorRepository {
	return &CreatorRepository{coll: coll}
}

// List returns creators whose name contains query, or the first
// DefaultListLimit creators when query is empty.
func (r *CreatorRepository) List(ctx context.Context, query string) ([]Creator, error) {
	filter, limit := search("name", query)

	var docs []entities.Creator
	if err := r.coll.Find(ctx, filter, limit, &docs); err != nil {
		return nil, storeError("find", entities.CreatorsCollection, err)
	}

	creators := make([]Creator, 0, len(docs))
	for _, doc := range docs {
		creator := Creator{Name: doc.Name, Works: doc.Works}
		if creator.Name == "" {
			creator.Name = UnknownName
		}
		if creator.Works == nil {
			creator.Works = []entities.WorkRef{}
		}
		creators = append(creators, creator)
	}
	return creators, nil
}

// Insert stores a creator and returns its id.
func (r *CreatorRepository) Insert(ctx context.Context, in CreatorInput) (docstore.ID, error) {
	if err := in.Validate(); err != nil {
		return docstore.ID{}, err
	}

	id, err := r.coll.InsertOne(ctx, entities.Creator{Name: in.Name, Works: in.Works})
	if err != nil {
		return docstore.ID{}, storeError("insert", entities.CreatorsCollection, err)
	}
	return id, nil
}
