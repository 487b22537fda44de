// Package seed loads catalog fixtures into the document store.
package seed

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/logger"
)

// Fixture is the seed file layout. Every section is optional.
type Fixture struct {
	Books     []catalog.BookInput    `json:"books"`
	Libraries []catalog.LibraryInput `json:"libraries"`
	Creators  []catalog.CreatorInput `json:"creators"`
}

// Result counts the records written per collection.
type Result struct {
	Books     int
	Libraries int
	Creators  int
}

func (r Result) String() string {
	return fmt.Sprintf("%d books, %d libraries, %d creators", r.Books, r.Libraries, r.Creators)
}

// Load decodes a fixture. Unknown top-level keys are rejected so that a
// misspelled section does not silently seed nothing.
func Load(r io.Reader) (*Fixture, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var f Fixture
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, nil
}

// LoadFile opens and decodes a fixture file.
func LoadFile(path string) (*Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer file.Close()

	return Load(file)
}

// Apply validates every record and then writes them through the catalog
// repositories. Nothing is written when any record is invalid. A store
// failure stops the run; records written before it stay.
func Apply(ctx context.Context, cat *catalog.Catalog, f *Fixture) (Result, error) {
	if err := f.Validate(); err != nil {
		return Result{}, err
	}

	log := logger.Get()
	var result Result

	for _, in := range f.Books {
		if _, err := cat.Books.Create(ctx, in); err != nil {
			return result, fmt.Errorf("seed book %q: %w", in.Title, err)
		}
		result.Books++
	}
	for _, in := range f.Libraries {
		if _, err := cat.Libraries.Create(ctx, in); err != nil {
			return result, fmt.Errorf("seed library %q: %w", in.Title, err)
		}
		result.Libraries++
	}
	for _, in := range f.Creators {
		if _, err := cat.Creators.Insert(ctx, in); err != nil {
			return result, fmt.Errorf("seed creator %q: %w", in.Name, err)
		}
		result.Creators++
	}

	log.Info().
		Int("books", result.Books).
		Int("libraries", result.Libraries).
		Int("creators", result.Creators).
		Msg("Seed: fixture applied")
	return result, nil
}

// Validate checks every record, reporting the first invalid one by section
// and position.
func (f *Fixture) Validate() error {
	for i, in := range f.Books {
		if err := in.Validate(); err != nil {
			return fmt.Errorf("books[%d]: %w", i, err)
		}
	}
	for i, in := range f.Libraries {
		if err := in.Validate(); err != nil {
			return fmt.Errorf("libraries[%d]: %w", i, err)
		}
	}
	for i, in := range f.Creators {
		if err := in.Validate(); err != nil {
			return fmt.Errorf("creators[%d]: %w", i, err)
		}
	}
	return nil
}
