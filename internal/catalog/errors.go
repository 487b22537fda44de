package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mrlokans/catalog/internal/docstore"
)

var (
	// ErrInvalidID means a path identifier is not a well-formed document id.
	ErrInvalidID = docstore.ErrInvalidID

	// ErrNotFound means no document matched a well-formed id.
	ErrNotFound = errors.New("catalog: record not found")
)

// ValidationError lists every required field that was missing or empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// StoreError wraps a failure reported by the document store. Its message
// is the store's own, unchanged.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeError(op, collection string, err error) error {
	return &StoreError{Op: fmt.Sprintf("%s %s", op, collection), Err: err}
}

// requiredFields collects the names of missing fields in declaration order.
type requiredFields []string

func (r *requiredFields) text(name, value string) {
	if value == "" {
		*r = append(*r, name)
	}
}

func (r *requiredFields) list(name string, value []string) {
	if len(value) == 0 {
		*r = append(*r, name)
	}
}

func (r *requiredFields) present(name string, ok bool) {
	if !ok {
		*r = append(*r, name)
	}
}

func (r requiredFields) err() error {
	if len(r) == 0 {
		return nil
	}
	return &ValidationError{Fields: r}
}
