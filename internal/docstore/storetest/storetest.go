// Package storetest holds the behaviour every docstore backend must share.
// Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mrlokans/catalog/internal/docstore"
)

// Record is the document shape used by the suite.
type Record struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title string             `bson:"title,omitempty" json:"title,omitempty"`
	Tags  []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Stock *Stock             `bson:"stock,omitempty" json:"stock,omitempty"`
}

type Stock struct {
	Total     int64 `bson:"total" json:"total"`
	Available int64 `bson:"available" json:"available"`
}

// TitleUpdate is a partial document used with UpdateOne.
type TitleUpdate struct {
	Title string `bson:"title" json:"title"`
}

// NewClient returns a fresh, empty client for one subtest.
type NewClient func(t *testing.T) docstore.Client

// Run exercises the docstore contract against the client newClient builds.
func Run(t *testing.T, newClient NewClient) {
	t.Run("InsertAssignsID", func(t *testing.T) { testInsertAssignsID(t, newClient(t)) })
	t.Run("InsertKeepsID", func(t *testing.T) { testInsertKeepsID(t, newClient(t)) })
	t.Run("FindAllInInsertionOrder", func(t *testing.T) { testFindAllInOrder(t, newClient(t)) })
	t.Run("FindLimit", func(t *testing.T) { testFindLimit(t, newClient(t)) })
	t.Run("FindContainsIgnoresCase", func(t *testing.T) { testFindContains(t, newClient(t)) })
	t.Run("FindContainsFoldsUnicode", func(t *testing.T) { testFindContainsUnicode(t, newClient(t)) })
	t.Run("FindContainsIsLiteral", func(t *testing.T) { testFindContainsLiteral(t, newClient(t)) })
	t.Run("FindEmptyCollection", func(t *testing.T) { testFindEmpty(t, newClient(t)) })
	t.Run("UpdateOne", func(t *testing.T) { testUpdateOne(t, newClient(t)) })
	t.Run("UpdateOneMissing", func(t *testing.T) { testUpdateOneMissing(t, newClient(t)) })
	t.Run("UpdateReplacesNestedDocument", func(t *testing.T) { testUpdateReplacesNested(t, newClient(t)) })
	t.Run("DeleteOne", func(t *testing.T) { testDeleteOne(t, newClient(t)) })
	t.Run("NamespacesAreIsolated", func(t *testing.T) { testNamespaces(t, newClient(t)) })
	t.Run("Ping", func(t *testing.T) { testPing(t, newClient(t)) })
}

func insert(t *testing.T, coll docstore.Collection, rec Record) primitive.ObjectID {
	t.Helper()
	id, err := coll.InsertOne(context.Background(), rec)
	require.NoError(t, err)
	return id
}

func titles(recs []Record) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Title)
	}
	return out
}

func testInsertAssignsID(t *testing.T, client docstore.Client) {
	coll := client.Collection("db", "records")

	id := insert(t, coll, Record{Title: "Dune", Tags: []string{"sf"}, Stock: &Stock{Total: 5, Available: 3}})
	assert.False(t, id.IsZero())

	var got []Record
	require.NoError(t, coll.Find(context.Background(), docstore.Filter{}, 0, &got))
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
	assert.Equal(t, "Dune", got[0].Title)
	assert.Equal(t, []string{"sf"}, got[0].Tags)
	require.NotNil(t, got[0].Stock)
	assert.Equal(t, Stock{Total: 5, Available: 3}, *got[0].Stock)
}

func testInsertKeepsID(t *testing.T, client docstore.Client) {
	coll := client.Collection("db", "records")
	want := docstore.NewID()

	id := insert(t, coll, Record{ID: want, Title: "Emma"})
	assert.Equal(t, want, id)
}

func testFindAllInOrder(t *testing.T, client docstore.Client) {
	coll := client.Collection("db", "records")
	for _, title := range []string{"A", "B", "C"} {
		insert(t, coll, Record{Title: title})
	}

	var got []Record
	require.NoError(t, coll.Find(context.Background(), docstore.Filter{}, 0, &got))
	assert.Equal(t, []string{"A", "B", "C"}, titles(got))
}

func testFindLimit(t *testing.T, client docstore.Client) {
	coll := client.Collection("db", "records")
	for i := 0; i < 12; i++ {
		insert(t, coll, Record{Title: "Book"})
	}

	var got []Record
	require.NoError(t, coll.Find(context.Background(), docstore.Filter{}, 10, &got))
	assert.Len(t, got, 10)

	require.NoError(t, coll.Find(context.Background(), docstore.Filter{Field: "title", Contains: "book"}, 0, &got))
	assert.Len(t, got, 12)
}

func testFindContains(t *testing.T, client docstore.Client) {
	coll := client.Collection("db", "records")
	insert(t, coll, Record{Title: "The Great Gatsby"})
	insert(t, coll, Record{Title: "Great Expectations"})
	insert(t, coll, Record{Title: "Dune"})
	insert(t, coll, Record{})

	var got []Record
	require.NoError(t, coll.Find(context.Background(), docstore.Filter{Field: "title", Contains: "great"}, 0, &got))
	assert.Equal(t, []string{"The Great Gatsby", "Great Expectations"}, titles(got))

	require.NoError(t, coll.Find(context.Background(), docstore.Filter{Field: "title", Contains: "GATSBY"}, 0, &got))
	assert.Equal(t, []string{"The Great Gatsby"}, titles(got))

	require.NoError(t, coll.Find(context.Background(), docstore.Filter{Field: "title", Contains: "missing"}, 0, &got))
	assert.Empty(t, got)
}

func testFindContainsUnicode(t *testing.T, client docstore.Client) {
	coll := client.Collection("db", "records")
	insert(t, coll, Record{Title: "Über Élan"})
	insert(t, coll, Record{Title: "Война и мир"})
	insert(t, coll, Record{Title: "Uber Elan"})

	var got []Record
	require.NoError(t, coll.Find(context.Background(), docstore.Filter{Field: "title", Contains: "über élan"}, 0, &got))
	assert.Equal(t, []string{"Über Élan"}, titles(got))

	require.NoError(t, coll.Find(context.Background(), docstore.Filter{Field: "title", Contains: "ÉLAN"}, 0, &got))
	assert.Equal(t, []string{"Über Élan"}, titles(got))

	require.NoError(t, coll.Find(context.Background(), docstore.Filter{Field: "title", Contains: "ВОЙНА"}, 0, &got))
	assert.Equal(t, []string{"Война и мир"}, titles(got))
}

func testFindContainsLiteral(t *testing.T, client docstore.Client) {
	coll := client.Collection("db", "records")
	insert(t, coll, Record{Title: "C++ Primer"})
	insert(t, coll, Record{Title: "Cats"})
	insert(t, coll, Record{Title: "100% Go"})
	insert(t, coll, Record{Title: "1000 Go tips"})

	var got []Record
	require.NoError(t, coll.Find(context.Background(), docstore.Filter{Field: "title", Contains: "c++"}, 0, &got))
	assert.Equal(t, []string{"C++ Primer"}, titles(got))

	require.NoError(t, coll.Find(context.Background(), docstore.Filter{Field: "title", Contains: "0%"}, 0, &got))
	assert.Equal(t, []string{"100% Go"}, titles(got))

	require.NoError(t, coll.Find(context.Background(), docstore.Filter{Field: "title", Contains: "c.ts"}, 0, &got))
	assert.Empty(t, got)
}

func testFindEmpty(t *testing.T, client docstore.Client) {
	coll := client.Collection("db", "empty")

	var got []Record
	require.NoError(t, coll.Find(context.Background(), docstore.Filter{}, 10, &got))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func testUpdateOne(t *testing.T, client docstore.Client) {
	coll := client.Collection("db", "records")
	id := insert(t, coll, Record{Title: "Old", Tags: []string{"keep"}})

	matched, err := coll.UpdateOne(context.Background(), id, TitleUpdate{Title: "New"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	var got []Record
	require.NoError(t, coll.Find(context.Background(), docstore.Filter{}, 0, &got))
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
	assert.Equal(t, "New", got[0].Title)
	assert.Equal(t, []string{"keep"}, got[0].Tags)
}

func testUpdateOneMissing(t *testing.T, client docstore.Client) {
	coll := client.Collection("db", "records")
	insert(t, coll, Record{Title: "Only"})

	matched, err := coll.UpdateOne(context.Background(), docstore.NewID(), TitleUpdate{Title: "New"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), matched)
}

func testUpdateReplacesNested(t *testing.T, client docstore.Client) {
	coll := client.Collection("db", "records")
	id := insert(t, coll, Record{Title: "Stocked", Stock: &Stock{Total: 5, Available: 5}})

	update := struct {
		Stock Stock `bson:"stock" json:"stock"`
	}{Stock: Stock{Total: 2}}

	matched, err := coll.UpdateOne(context.Background(), id, update)
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	var got []Record
	require.NoError(t, coll.Find(context.Background(), docstore.Filter{}, 0, &got))
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Stock)
	assert.Equal(t, Stock{Total: 2, Available: 0}, *got[0].Stock)
	assert.Equal(t, "Stocked", got[0].Title)
}

func testDeleteOne(t *testing.T, client docstore.Client) {
	coll := client.Collection("db", "records")
	id := insert(t, coll, Record{Title: "Gone"})
	insert(t, coll, Record{Title: "Stays"})

	deleted, err := coll.DeleteOne(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	deleted, err = coll.DeleteOne(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	var got []Record
	require.NoError(t, coll.Find(context.Background(), docstore.Filter{}, 0, &got))
	assert.Equal(t, []string{"Stays"}, titles(got))
}

func testNamespaces(t *testing.T, client docstore.Client) {
	books := client.Collection("bookDatabase", "records")
	libraries := client.Collection("libraryDatabase", "records")

	id := insert(t, books, Record{Title: "Book"})
	insert(t, libraries, Record{Title: "Library"})

	var got []Record
	require.NoError(t, books.Find(context.Background(), docstore.Filter{}, 0, &got))
	assert.Equal(t, []string{"Book"}, titles(got))

	deleted, err := libraries.DeleteOne(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	again := client.Collection("bookDatabase", "records")
	require.NoError(t, again.Find(context.Background(), docstore.Filter{}, 0, &got))
	assert.Equal(t, []string{"Book"}, titles(got))
}

func testPing(t *testing.T, client docstore.Client) {
	assert.NoError(t, client.Ping(context.Background()))
}
