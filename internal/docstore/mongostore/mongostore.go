// Package mongostore implements docstore on MongoDB.
package mongostore

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/mrlokans/catalog/internal/docstore"
)

var _ docstore.Client = (*Client)(nil)
var _ docstore.Collection = (*Collection)(nil)

type Client struct {
	client *mongo.Client
}

// Connect dials uri and pings the primary. The returned client is ready
// to serve; any failure is returned as is.
func Connect(ctx context.Context, uri string) (*Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Client{client: client}, nil
}

func (c *Client) Collection(database, name string) docstore.Collection {
	return &Collection{coll: c.client.Database(database).Collection(name)}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

type Collection struct {
	coll *mongo.Collection
}

// filterDocument translates a substring filter into a case-insensitive
// regex on the field. The needle is quoted so it matches literally.
func filterDocument(filter docstore.Filter) bson.M {
	if filter.IsZero() {
		return bson.M{}
	}
	return bson.M{
		filter.Field: bson.M{
			"$regex":   regexp.QuoteMeta(filter.Contains),
			"$options": "i",
		},
	}
}

func (c *Collection) Find(ctx context.Context, filter docstore.Filter, limit int64, results any) error {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := c.coll.Find(ctx, filterDocument(filter), opts)
	if err != nil {
		return err
	}
	return cursor.All(ctx, results)
}

func (c *Collection) InsertOne(ctx context.Context, doc any) (docstore.ID, error) {
	result, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("mongostore: unexpected inserted id type %T", result.InsertedID)
	}
	return id, nil
}

func (c *Collection) UpdateOne(ctx context.Context, id docstore.ID, set any) (int64, error) {
	fields, err := setDocument(set)
	if err != nil {
		return 0, err
	}

	result, err := c.coll.UpdateOne(ctx, bson.M{docstore.IDField: id}, bson.M{"$set": fields})
	if err != nil {
		return 0, err
	}
	return result.MatchedCount, nil
}

func (c *Collection) DeleteOne(ctx context.Context, id docstore.ID) (int64, error) {
	result, err := c.coll.DeleteOne(ctx, bson.M{docstore.IDField: id})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// setDocument flattens set to its top-level fields, dropping _id, which
// MongoDB refuses to modify.
func setDocument(set any) (bson.M, error) {
	raw, err := bson.Marshal(set)
	if err != nil {
		return nil, fmt.Errorf("mongostore: encode %T: %w", set, err)
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("mongostore: decode %T: %w", set, err)
	}
	delete(fields, docstore.IDField)
	return fields, nil
}
