// Package memstore is an in-process docstore.Client. Documents are kept as
// BSON in insertion order, so values round-trip exactly as they would
// through MongoDB.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mrlokans/catalog/internal/docstore"
)

var _ docstore.Client = (*Client)(nil)
var _ docstore.Collection = (*Collection)(nil)

// Client holds every collection in memory.
type Client struct {
	mu          sync.Mutex
	collections map[string]*Collection
	closed      bool
}

// New creates an empty store.
func New() *Client {
	return &Client{collections: make(map[string]*Collection)}
}

func (c *Client) Collection(database, name string) docstore.Collection {
	c.mu.Lock()
	defer c.mu.Unlock()

	ns := docstore.Namespace(database, name)
	coll, ok := c.collections[ns]
	if !ok {
		coll = &Collection{client: c}
		c.collections[ns] = coll
	}
	return coll
}

func (c *Client) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.checkOpen()
}

func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *Client) checkOpen() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return docstore.ErrClosed
	}
	return nil
}

type entry struct {
	id  primitive.ObjectID
	raw bson.Raw
}

// Collection is one namespace of documents.
type Collection struct {
	client *Client

	mu   sync.RWMutex
	docs []entry
}

func (c *Collection) Find(ctx context.Context, filter docstore.Filter, limit int64, results any) error {
	if err := c.ready(ctx); err != nil {
		return err
	}

	c.mu.RLock()
	var matched [][]byte
	for _, e := range c.docs {
		if limit > 0 && int64(len(matched)) >= limit {
			break
		}
		if !filter.IsZero() && !contains(e.raw, filter) {
			continue
		}
		matched = append(matched, e.raw)
	}
	c.mu.RUnlock()

	return docstore.DecodeAll(results, matched, bson.Unmarshal)
}

func (c *Collection) InsertOne(ctx context.Context, doc any) (docstore.ID, error) {
	if err := c.ready(ctx); err != nil {
		return primitive.NilObjectID, err
	}

	fields, err := toM(doc)
	if err != nil {
		return primitive.NilObjectID, err
	}

	id, ok := fields[docstore.IDField].(primitive.ObjectID)
	if !ok || id.IsZero() {
		if v, present := fields[docstore.IDField]; present && !ok {
			return primitive.NilObjectID, fmt.Errorf("memstore: unsupported %s type %T", docstore.IDField, v)
		}
		id = docstore.NewID()
		fields[docstore.IDField] = id
	}

	raw, err := bson.Marshal(fields)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("memstore: encode document: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.docs {
		if e.id == id {
			return primitive.NilObjectID, fmt.Errorf("memstore: duplicate key %s", id.Hex())
		}
	}
	c.docs = append(c.docs, entry{id: id, raw: raw})
	return id, nil
}

func (c *Collection) UpdateOne(ctx context.Context, id docstore.ID, set any) (int64, error) {
	if err := c.ready(ctx); err != nil {
		return 0, err
	}

	fields, err := toM(set)
	if err != nil {
		return 0, err
	}
	delete(fields, docstore.IDField)

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, e := range c.docs {
		if e.id != id {
			continue
		}
		var current bson.M
		if err := bson.Unmarshal(e.raw, &current); err != nil {
			return 0, fmt.Errorf("memstore: decode document: %w", err)
		}
		for k, v := range fields {
			current[k] = v
		}
		raw, err := bson.Marshal(current)
		if err != nil {
			return 0, fmt.Errorf("memstore: encode document: %w", err)
		}
		c.docs[i].raw = raw
		return 1, nil
	}
	return 0, nil
}

func (c *Collection) DeleteOne(ctx context.Context, id docstore.ID) (int64, error) {
	if err := c.ready(ctx); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, e := range c.docs {
		if e.id == id {
			c.docs = append(c.docs[:i], c.docs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (c *Collection) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.client.checkOpen()
}

func toM(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("memstore: encode %T: %w", v, err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("memstore: decode %T: %w", v, err)
	}
	return m, nil
}

// contains matches a string field case-insensitively. Missing and
// non-string fields never match.
func contains(doc bson.Raw, filter docstore.Filter) bool {
	val, err := doc.LookupErr(filter.Field)
	if err != nil {
		return false
	}
	s, ok := val.StringValueOK()
	if !ok {
		return false
	}
	return filter.Matches(s)
}
