package eureka

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// CatalogueStore defines the interface for durable catalogue persistence.
// Save overwrites the full catalogue; there is no partial write. The
// knowledge store treats Load failure as "start from seed" and Save failure
// as non-fatal, so implementations only report errors, never recover them.
type CatalogueStore interface {
	// Load reads the full catalogue from durable storage.
	Load(ctx context.Context) (*Catalogue, error)

	// Save writes the full catalogue to durable storage, replacing any
	// previous contents.
	Save(ctx context.Context, catalogue *Catalogue) error
}

// FileCatalogue persists the catalogue as a single human-readable JSON
// document, the knowledge-file format of the original system. Writes go
// through a temp file in the same directory followed by a rename, which is
// atomic enough for the single-writer model this system runs under.
type FileCatalogue struct {
	path string
}

// NewFileCatalogue creates a file-backed catalogue store. An empty path
// uses DefaultKnowledgePath.
func NewFileCatalogue(path string) *FileCatalogue {
	if path == "" {
		path = DefaultKnowledgePath
	}
	return &FileCatalogue{path: path}
}

// Path returns the knowledge file location.
func (f *FileCatalogue) Path() string {
	return f.path
}

// Load implements CatalogueStore. A missing file is an error like any
// other; the knowledge store's seed fallback handles it.
func (f *FileCatalogue) Load(_ context.Context) (*Catalogue, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge file %s: %w", f.path, err)
	}

	var catalogue Catalogue
	if err := json.Unmarshal(data, &catalogue); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge file %s: %w", f.path, err)
	}
	return &catalogue, nil
}

// Save implements CatalogueStore.
func (f *FileCatalogue) Save(_ context.Context, catalogue *Catalogue) error {
	data, err := json.MarshalIndent(catalogue, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalogue: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp knowledge file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write knowledge file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close knowledge file: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace knowledge file: %w", err)
	}
	return nil
}

var _ CatalogueStore = (*FileCatalogue)(nil)
