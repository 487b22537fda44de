package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/docstore/memstore"
)

const duneFixture = `{
  "books": [
    {"title": "Dune", "isbn": ["9780441013593"], "authors": ["Frank Herbert"]},
    {"title": "Children of Dune", "isbn": ["9780593098240"], "authors": ["Frank Herbert"]}
  ],
  "libraries": [
    {"title": "Dune", "material_type": "Book", "inventory": {"total_copies": 4, "copies_available": 3, "copies_checked_out": 1}}
  ],
  "creators": [
    {"name": "Frank Herbert", "works": ["Dune", "Children of Dune"]}
  ]
}`

func newCatalog() *catalog.Catalog {
	return catalog.New(memstore.New(), catalog.DefaultDatabases())
}

func TestLoad(t *testing.T) {
	t.Run("decodes every section", func(t *testing.T) {
		f, err := Load(strings.NewReader(duneFixture))
		require.NoError(t, err)

		assert.Len(t, f.Books, 2)
		assert.Len(t, f.Libraries, 1)
		assert.Len(t, f.Creators, 1)
		require.NotNil(t, f.Libraries[0].Inventory)
		assert.Equal(t, int64(4), f.Libraries[0].Inventory.TotalCopies)
	})

	t.Run("sections are optional", func(t *testing.T) {
		f, err := Load(strings.NewReader(`{"creators": [{"name": "Ursula K. Le Guin"}]}`))
		require.NoError(t, err)

		assert.Empty(t, f.Books)
		assert.Len(t, f.Creators, 1)
	})

	t.Run("unknown section is rejected", func(t *testing.T) {
		_, err := Load(strings.NewReader(`{"bookz": []}`))
		assert.Error(t, err)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		_, err := Load(strings.NewReader(`{"books": [`))
		assert.Error(t, err)
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(duneFixture), 0o600))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, f.Books, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	ctx := context.Background()

	t.Run("writes every record", func(t *testing.T) {
		cat := newCatalog()
		f, err := Load(strings.NewReader(duneFixture))
		require.NoError(t, err)

		result, err := Apply(ctx, cat, f)
		require.NoError(t, err)
		assert.Equal(t, Result{Books: 2, Libraries: 1, Creators: 1}, result)
		assert.Equal(t, "2 books, 1 libraries, 1 creators", result.String())

		books, err := cat.Books.List(ctx, "dune")
		require.NoError(t, err)
		assert.Len(t, books, 2)

		creators, err := cat.Creators.List(ctx, "herbert")
		require.NoError(t, err)
		require.Len(t, creators, 1)
		assert.Len(t, creators[0].Works, 2)
	})

	t.Run("invalid record writes nothing", func(t *testing.T) {
		cat := newCatalog()
		f := &Fixture{
			Books:    []catalog.BookInput{{Title: "Dune", ISBN: []string{"1"}, Authors: []string{"Frank Herbert"}}},
			Creators: []catalog.CreatorInput{{Name: ""}},
		}

		_, err := Apply(ctx, cat, f)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "creators[0]")

		var validationErr *catalog.ValidationError
		assert.True(t, errors.As(err, &validationErr))
		assert.Equal(t, []string{"name"}, validationErr.Fields)

		books, err := cat.Books.List(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, books)
	})

	t.Run("store failure stops the run", func(t *testing.T) {
		client := memstore.New()
		cat := catalog.New(client, catalog.DefaultDatabases())
		require.NoError(t, client.Close(ctx))

		f := &Fixture{Books: []catalog.BookInput{{Title: "Dune", ISBN: []string{"1"}, Authors: []string{"Frank Herbert"}}}}

		result, err := Apply(ctx, cat, f)
		require.Error(t, err)
		assert.Equal(t, 0, result.Books)
	})
}
