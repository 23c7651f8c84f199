package storage

import (
	"context"
	"io"
)

// DerivedStore persists derived media (thumbnails and the like) keyed
// by asset ID, derived type, and version.
type DerivedStore interface {
	// Has checks whether a derived output already exists.
	Has(ctx context.Context, assetID, derivedType string, version int) (bool, error)

	// Put writes a derived output and returns its storage path.
	Put(ctx context.Context, assetID, derivedType string, version int, r io.Reader) (string, error)

	// Path returns the storage path a derived output lives at,
	// whether or not it exists yet.
	Path(assetID, derivedType string, version int) string
}
