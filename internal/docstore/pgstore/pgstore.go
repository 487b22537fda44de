// Package pgstore keeps documents in a PostgreSQL JSONB table.
package pgstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mrlokans/catalog/internal/docstore"
	"github.com/mrlokans/catalog/internal/docstore/jsondoc"
)

var _ docstore.Client = (*Client)(nil)
var _ docstore.Collection = (*Collection)(nil)

const createTable = `
CREATE TABLE IF NOT EXISTS documents (
	seq       BIGSERIAL PRIMARY KEY,
	namespace TEXT NOT NULL,
	doc_id    CHAR(24) NOT NULL,
	body      JSONB NOT NULL,
	UNIQUE (namespace, doc_id)
)`

const (
	findQuery = `
SELECT body FROM documents
WHERE namespace = $1
  AND ($2 = '' OR strpos(lower(body->>$3), lower($2)) > 0)
ORDER BY seq
LIMIT NULLIF($4::bigint, 0)`

	insertQuery = `INSERT INTO documents (namespace, doc_id, body) VALUES ($1, $2, $3::jsonb)`

	// jsonb || jsonb replaces top-level keys, which is $set.
	updateQuery = `UPDATE documents SET body = body || $3::jsonb WHERE namespace = $1 AND doc_id = $2`

	deleteQuery = `DELETE FROM documents WHERE namespace = $1 AND doc_id = $2`
)

type Client struct {
	pool *pgxpool.Pool
}

// Connect opens a pool on dsn, pings the server and makes sure the
// documents table exists.
func Connect(ctx context.Context, dsn string) (*Client, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, createTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to prepare documents table: %w", err)
	}

	return &Client{pool: pool}, nil
}

func (c *Client) Collection(database, name string) docstore.Collection {
	return &Collection{pool: c.pool, namespace: docstore.Namespace(database, name)}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *Client) Close(ctx context.Context) error {
	c.pool.Close()
	return nil
}

type Collection struct {
	pool      *pgxpool.Pool
	namespace string
}

func (c *Collection) Find(ctx context.Context, filter docstore.Filter, limit int64, results any) error {
	rows, err := c.pool.Query(ctx, findQuery, c.namespace, filter.Contains, filter.Field, limit)
	if err != nil {
		return err
	}
	defer rows.Close()

	var docs [][]byte
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return err
		}
		docs = append(docs, body)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	return docstore.DecodeAll(results, docs, jsondoc.Unmarshal)
}

func (c *Collection) InsertOne(ctx context.Context, doc any) (docstore.ID, error) {
	id, body, err := jsondoc.Encode(doc)
	if err != nil {
		return primitive.NilObjectID, err
	}

	if _, err := c.pool.Exec(ctx, insertQuery, c.namespace, id.Hex(), string(body)); err != nil {
		return primitive.NilObjectID, err
	}
	return id, nil
}

func (c *Collection) UpdateOne(ctx context.Context, id docstore.ID, set any) (int64, error) {
	fields, err := jsondoc.Fields(set)
	if err != nil {
		return 0, err
	}
	patch, err := jsondoc.Marshal(fields)
	if err != nil {
		return 0, err
	}

	tag, err := c.pool.Exec(ctx, updateQuery, c.namespace, id.Hex(), string(patch))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (c *Collection) DeleteOne(ctx context.Context, id docstore.ID) (int64, error) {
	tag, err := c.pool.Exec(ctx, deleteQuery, c.namespace, id.Hex())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
