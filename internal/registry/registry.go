// Package registry is the project's authoritative collection of
// imported media records, keyed by absolute path.
package registry

import (
	"context"
	"errors"

	"github.com/clipforge/media-import-pipeline/pkg/pipeline"
)

var (
	// ErrNotFound is returned when no record matches the given ID.
	ErrNotFound = errors.New("asset not found")

	// ErrDuplicatePath is returned by Insert when a record with the
	// same path already exists. The importer treats this as the
	// already-imported case, never as a fault.
	ErrDuplicatePath = errors.New("asset path already registered")
)

// Registry stores asset records. Implementations must enforce path
// uniqueness: no two records may share a path.
type Registry interface {
	// FindByPath returns the record with the given path, or (nil, nil)
	// when none exists.
	FindByPath(ctx context.Context, path string) (*pipeline.AssetRecord, error)

	// Insert adds a new record. Returns ErrDuplicatePath when the path
	// is already registered.
	Insert(ctx context.Context, rec *pipeline.AssetRecord) error

	// Get returns the record with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*pipeline.AssetRecord, error)

	// List returns all records whose display name, path, or tags
	// contain filter (case-insensitive); an empty filter matches all.
	// Records come back ordered by import time.
	List(ctx context.Context, filter string) ([]pipeline.AssetRecord, error)

	// UpdateName sets the friendly name of a record.
	UpdateName(ctx context.Context, id, name string) error

	// UpdateTags sets the tags of a record.
	UpdateTags(ctx context.Context, id, tags string) error

	// Delete removes a record. Returns ErrNotFound when absent.
	Delete(ctx context.Context, id string) error
}
