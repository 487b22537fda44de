// Package jsondoc encodes documents as JSON bodies for the backends that
// store them in SQL tables.
package jsondoc

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mrlokans/catalog/internal/docstore"
)

// Encode marshals doc into a JSON object and makes sure it carries an
// identifier, generating one when doc has none.
func Encode(doc any) (docstore.ID, []byte, error) {
	fields, err := toMap(doc)
	if err != nil {
		return primitive.NilObjectID, nil, err
	}

	id, err := identifier(fields[docstore.IDField])
	if err != nil {
		return primitive.NilObjectID, nil, err
	}
	if id.IsZero() {
		id = docstore.NewID()
	}
	fields[docstore.IDField] = id.Hex()

	body, err := json.Marshal(fields)
	if err != nil {
		return primitive.NilObjectID, nil, fmt.Errorf("jsondoc: encode document: %w", err)
	}
	return id, body, nil
}

// Fields returns the top-level fields of set without the identifier.
func Fields(set any) (map[string]any, error) {
	fields, err := toMap(set)
	if err != nil {
		return nil, err
	}
	delete(fields, docstore.IDField)
	return fields, nil
}

// Merge overwrites the top-level keys of body with fields.
func Merge(body []byte, fields map[string]any) ([]byte, error) {
	doc, err := decodeMap(body)
	if err != nil {
		return nil, err
	}
	for k, v := range fields {
		doc[k] = v
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("jsondoc: encode document: %w", err)
	}
	return out, nil
}

// Marshal encodes set fields for stores that merge on the server side.
func Marshal(fields map[string]any) ([]byte, error) {
	return json.Marshal(fields)
}

// StringField returns the top-level string field of body. Missing and
// non-string fields report false.
func StringField(body []byte, field string) (string, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", false
	}
	raw, ok := fields[field]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Unmarshal decodes a stored body into v.
func Unmarshal(body []byte, v any) error {
	return json.Unmarshal(body, v)
}

func toMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("jsondoc: encode %T: %w", v, err)
	}
	return decodeMap(raw)
}

func decodeMap(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("jsondoc: document is not a JSON object: %w", err)
	}
	if fields == nil {
		return nil, fmt.Errorf("jsondoc: document is not a JSON object")
	}
	return fields, nil
}

// identifier reads an "_id" value. Missing, null, empty and all-zero
// identifiers come back as the zero ID.
func identifier(v any) (docstore.ID, error) {
	switch id := v.(type) {
	case nil:
		return primitive.NilObjectID, nil
	case string:
		if id == "" || id == primitive.NilObjectID.Hex() {
			return primitive.NilObjectID, nil
		}
		return docstore.ParseID(id)
	default:
		return primitive.NilObjectID, fmt.Errorf("jsondoc: unsupported %s type %T", docstore.IDField, v)
	}
}
