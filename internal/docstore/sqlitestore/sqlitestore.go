// Package sqlitestore keeps documents in a single SQLite file through gorm.
//
// Every collection shares one table; rows are keyed by namespace
// ("database.collection") and document id, and the document itself is a
// JSON body.
package sqlitestore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/catalog/internal/docstore"
	"github.com/mrlokans/catalog/internal/docstore/jsondoc"
)

var _ docstore.Client = (*Client)(nil)
var _ docstore.Collection = (*Collection)(nil)

// Document is one stored row.
type Document struct {
	Seq       uint   `gorm:"primaryKey;autoIncrement"`
	Namespace string `gorm:"size:255;not null;uniqueIndex:idx_documents_namespace_doc"`
	DocID     string `gorm:"size:24;not null;uniqueIndex:idx_documents_namespace_doc"`
	Body      string `gorm:"type:text;not null"`
}

func (Document) TableName() string {
	return "documents"
}

type Client struct {
	DB *gorm.DB
}

// Open opens (creating if needed) the document file at path.
func Open(ctx context.Context, path string) (*Client, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&Document{}); err != nil {
		return nil, fmt.Errorf("failed to prepare documents table: %w", err)
	}

	client := &Client{DB: db}
	if err := client.Ping(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

func (c *Client) Collection(database, name string) docstore.Collection {
	return &Collection{db: c.DB, namespace: docstore.Namespace(database, name)}
}

func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *Client) Close(ctx context.Context) error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type Collection struct {
	db        *gorm.DB
	namespace string
}

func (c *Collection) scope(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx).Model(&Document{}).Where("namespace = ?", c.namespace)
}

// Find narrows rows by namespace in SQL and matches the filter in Go:
// SQLite's lower() folds ASCII only.
func (c *Collection) Find(ctx context.Context, filter docstore.Filter, limit int64, results any) error {
	query := c.scope(ctx).Order("seq")
	if filter.IsZero() && limit > 0 {
		query = query.Limit(int(limit))
	}

	var bodies []string
	if err := query.Pluck("body", &bodies).Error; err != nil {
		return err
	}

	docs := make([][]byte, 0, len(bodies))
	for _, body := range bodies {
		if limit > 0 && int64(len(docs)) >= limit {
			break
		}
		if !filter.IsZero() {
			value, ok := jsondoc.StringField([]byte(body), filter.Field)
			if !ok || !filter.Matches(value) {
				continue
			}
		}
		docs = append(docs, []byte(body))
	}
	return docstore.DecodeAll(results, docs, jsondoc.Unmarshal)
}

func (c *Collection) InsertOne(ctx context.Context, doc any) (docstore.ID, error) {
	id, body, err := jsondoc.Encode(doc)
	if err != nil {
		return primitive.NilObjectID, err
	}

	row := Document{Namespace: c.namespace, DocID: id.Hex(), Body: string(body)}
	if err := c.db.WithContext(ctx).Create(&row).Error; err != nil {
		return primitive.NilObjectID, err
	}
	return id, nil
}

func (c *Collection) UpdateOne(ctx context.Context, id docstore.ID, set any) (int64, error) {
	fields, err := jsondoc.Fields(set)
	if err != nil {
		return 0, err
	}

	var matched int64
	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row Document
		err := tx.Where("namespace = ? AND doc_id = ?", c.namespace, id.Hex()).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		body, err := jsondoc.Merge([]byte(row.Body), fields)
		if err != nil {
			return err
		}
		if err := tx.Model(&row).Update("body", string(body)).Error; err != nil {
			return err
		}
		matched = 1
		return nil
	})
	if err != nil {
		return 0, err
	}
	return matched, nil
}

func (c *Collection) DeleteOne(ctx context.Context, id docstore.ID) (int64, error) {
	result := c.db.WithContext(ctx).
		Where("namespace = ? AND doc_id = ?", c.namespace, id.Hex()).
		Delete(&Document{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
