package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/catalog/internal/docstore"
	"github.com/mrlokans/catalog/internal/docstore/storetest"
)

func TestContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) docstore.Client {
		return New()
	})
}

func TestClose(t *testing.T) {
	client := New()
	coll := client.Collection("db", "records")

	require.NoError(t, client.Close(context.Background()))

	assert.True(t, errors.Is(client.Ping(context.Background()), docstore.ErrClosed))

	_, err := coll.InsertOne(context.Background(), storetest.Record{Title: "late"})
	assert.True(t, errors.Is(err, docstore.ErrClosed))

	var got []storetest.Record
	err = coll.Find(context.Background(), docstore.Filter{}, 0, &got)
	assert.True(t, errors.Is(err, docstore.ErrClosed))
}

func TestCancelledContext(t *testing.T) {
	client := New()
	coll := client.Collection("db", "records")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := coll.InsertOne(ctx, storetest.Record{Title: "never"})
	assert.True(t, errors.Is(err, context.Canceled))

	_, err = coll.DeleteOne(ctx, docstore.NewID())
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestInsertOne_DuplicateID(t *testing.T) {
	coll := New().Collection("db", "records")
	id := docstore.NewID()

	_, err := coll.InsertOne(context.Background(), storetest.Record{ID: id, Title: "first"})
	require.NoError(t, err)

	_, err = coll.InsertOne(context.Background(), storetest.Record{ID: id, Title: "second"})
	assert.Error(t, err)
}

func TestFind_NonStringFieldNeverMatches(t *testing.T) {
	coll := New().Collection("db", "records")
	_, err := coll.InsertOne(context.Background(), map[string]any{"title": 42})
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, coll.Find(context.Background(), docstore.Filter{Field: "title", Contains: "4"}, 0, &got))
	assert.Empty(t, got)
}

func TestConcurrentAccess(t *testing.T) {
	client := New()
	coll := client.Collection("db", "records")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := coll.InsertOne(context.Background(), storetest.Record{Title: "concurrent"})
			assert.NoError(t, err)

			var got []storetest.Record
			assert.NoError(t, coll.Find(context.Background(), docstore.Filter{Field: "title", Contains: "CONC"}, 0, &got))

			_, err = coll.UpdateOne(context.Background(), id, storetest.TitleUpdate{Title: "concurrent!"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var got []storetest.Record
	require.NoError(t, coll.Find(context.Background(), docstore.Filter{}, 0, &got))
	assert.Len(t, got, 20)
}
