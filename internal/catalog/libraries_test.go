package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/catalog/internal/docstore"
	"github.com/mrlokans/catalog/internal/docstore/memstore"
	"github.com/mrlokans/catalog/internal/entities"
)

func atlas(inv *entities.Inventory) LibraryInput {
	return LibraryInput{Title: "World Atlas", MaterialType: "Book", Inventory: inv}
}

func TestLibraryRepository_InventoryRoundTrip(t *testing.T) {
	cat, _ := setupTestCatalog(t)
	ctx := context.Background()

	inventory := entities.Inventory{TotalCopies: 5, CopiesAvailable: 3, CopiesCheckedOut: 2, CopiesLost: 0}
	created, err := cat.Libraries.Create(ctx, atlas(&inventory))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	found, err := cat.Libraries.List(ctx, "World Atlas")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.NotNil(t, found[0].Inventory)
	assert.Equal(t, inventory, *found[0].Inventory)
	assert.Equal(t, created.ID, found[0].ID)
}

func TestLibraryRepository_DefaultsMissingCounters(t *testing.T) {
	cat, _ := setupTestCatalog(t)
	ctx := context.Background()

	created, err := cat.Libraries.Create(ctx, atlas(&entities.Inventory{TotalCopies: 5}))
	require.NoError(t, err)
	assert.Equal(t, &entities.Inventory{TotalCopies: 5}, created.Inventory)

	found, err := cat.Libraries.List(ctx, "atlas")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, entities.Inventory{TotalCopies: 5, CopiesAvailable: 0, CopiesCheckedOut: 0, CopiesLost: 0}, *found[0].Inventory)
}

func TestLibraryRepository_CreateDoesNotAliasInput(t *testing.T) {
	cat, _ := setupTestCatalog(t)

	inventory := &entities.Inventory{TotalCopies: 1}
	created, err := cat.Libraries.Create(context.Background(), atlas(inventory))
	require.NoError(t, err)

	inventory.TotalCopies = 99
	assert.Equal(t, int64(1), created.Inventory.TotalCopies)
}

func TestLibraryRepository_List(t *testing.T) {
	t.Run("matches the title", func(t *testing.T) {
		cat, _ := setupTestCatalog(t)
		ctx := context.Background()

		_, err := cat.Libraries.Create(ctx, LibraryInput{Title: "Sheet Music Anthology", MaterialType: "Score", Inventory: &entities.Inventory{}})
		require.NoError(t, err)
		_, err = cat.Libraries.Create(ctx, atlas(&entities.Inventory{}))
		require.NoError(t, err)

		found, err := cat.Libraries.List(ctx, "MUSIC")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Sheet Music Anthology", found[0].Title)

		// Material type is not searched.
		found, err = cat.Libraries.List(ctx, "score")
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("normalizes incomplete documents", func(t *testing.T) {
		cat, client := setupTestCatalog(t)
		ctx := context.Background()

		coll := client.Collection(DefaultDatabases().Library, entities.LibrariesCollection)
		bare, err := coll.InsertOne(ctx, map[string]any{})
		require.NoError(t, err)
		partial, err := coll.InsertOne(ctx, map[string]any{
			"title":     "Partial",
			"inventory": map[string]any{"copies_lost": 2},
		})
		require.NoError(t, err)

		found, err := cat.Libraries.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, found, 2)

		assert.Equal(t, Library{ID: bare.Hex(), Title: NoTitleAvailable, MaterialType: UnknownMaterialType}, found[0])
		assert.Nil(t, found[0].Inventory)

		assert.Equal(t, partial.Hex(), found[1].ID)
		assert.Equal(t, "Partial", found[1].Title)
		assert.Equal(t, UnknownMaterialType, found[1].MaterialType)
		assert.Equal(t, &entities.Inventory{CopiesLost: 2}, found[1].Inventory)
	})

	t.Run("store failure", func(t *testing.T) {
		repo := NewLibraryRepository(failingCollection{err: errors.New("boom")})

		_, err := repo.List(context.Background(), "x")
		var storeErr *StoreError
		assert.True(t, errors.As(err, &storeErr))
	})
}

func TestLibraryRepository_Create_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   LibraryInput
		missing []string
	}{
		{name: "empty body", input: LibraryInput{}, missing: []string{"title", "material_type", "inventory"}},
		{name: "no inventory", input: LibraryInput{Title: "T", MaterialType: "Book"}, missing: []string{"inventory"}},
		{name: "no material type", input: LibraryInput{Title: "T", Inventory: &entities.Inventory{}}, missing: []string{"material_type"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coll := &countingCollection{Collection: memstore.New().Collection("db", "libraries")}
			repo := NewLibraryRepository(coll)

			_, err := repo.Create(context.Background(), tt.input)

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.missing, validationErr.Fields)
			assert.Zero(t, coll.calls.Load())
		})
	}
}

func TestLibraryRepository_Update(t *testing.T) {
	t.Run("replaces the inventory wholesale", func(t *testing.T) {
		cat, _ := setupTestCatalog(t)
		ctx := context.Background()

		created, err := cat.Libraries.Create(ctx, atlas(&entities.Inventory{TotalCopies: 5, CopiesAvailable: 3, CopiesCheckedOut: 2}))
		require.NoError(t, err)

		update := LibraryInput{Title: "World Atlas 2nd ed.", MaterialType: "Reference", Inventory: &entities.Inventory{CopiesLost: 1}}
		require.NoError(t, cat.Libraries.Update(ctx, created.ID, update))

		found, err := cat.Libraries.List(ctx, "2nd ed")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Reference", found[0].MaterialType)
		assert.Equal(t, entities.Inventory{CopiesLost: 1}, *found[0].Inventory)
	})

	t.Run("malformed id never reaches the store", func(t *testing.T) {
		coll := &countingCollection{Collection: memstore.New().Collection("db", "libraries")}
		repo := NewLibraryRepository(coll)

		err := repo.Update(context.Background(), "not-an-id", atlas(&entities.Inventory{}))
		assert.True(t, errors.Is(err, ErrInvalidID))
		assert.Zero(t, coll.calls.Load())
	})

	t.Run("missing inventory", func(t *testing.T) {
		cat, _ := setupTestCatalog(t)

		err := cat.Libraries.Update(context.Background(), docstore.NewID().Hex(), atlas(nil))
		var validationErr *ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.Equal(t, []string{"inventory"}, validationErr.Fields)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		cat, _ := setupTestCatalog(t)

		err := cat.Libraries.Update(context.Background(), docstore.NewID().Hex(), atlas(&entities.Inventory{}))
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestLibraryRepository_Delete(t *testing.T) {
	cat, _ := setupTestCatalog(t)
	ctx := context.Background()

	created, err := cat.Libraries.Create(ctx, atlas(&entities.Inventory{}))
	require.NoError(t, err)

	require.NoError(t, cat.Libraries.Delete(ctx, created.ID))
	assert.True(t, errors.Is(cat.Libraries.Delete(ctx, created.ID), ErrNotFound))
	assert.True(t, errors.Is(cat.Libraries.Delete(ctx, "xyz"), ErrInvalidID))
}
