// Package storage holds the derived-media store: generated outputs
// live beside the project, not inside the asset registry.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FilesystemStore implements DerivedStore on a local directory.
type FilesystemStore struct {
	baseDir string
}

// NewFilesystemStore creates a filesystem store rooted at baseDir,
// creating the directory when absent.
func NewFilesystemStore(baseDir string) (*FilesystemStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create derived media directory: %w", err)
	}
	return &FilesystemStore{baseDir: baseDir}, nil
}

// Path returns baseDir/<assetID>_<derivedType>_v<version>.jpg.
func (fs *FilesystemStore) Path(assetID, derivedType string, version int) string {
	name := fmt.Sprintf("%s_%s_v%d.jpg", assetID, derivedType, version)
	return filepath.Join(fs.baseDir, name)
}

// Has checks whether a derived output exists on disk.
func (fs *FilesystemStore) Has(ctx context.Context, assetID, derivedType string, version int) (bool, error) {
	path, err := fs.safePath(assetID, derivedType, version)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat derived file: %w", err)
	}
	return true, nil
}

// Put writes a derived output atomically enough for single-writer use:
// temp file then rename.
func (fs *FilesystemStore) Put(ctx context.Context, assetID, derivedType string, version int, r io.Reader) (string, error) {
	path, err := fs.safePath(assetID, derivedType, version)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(fs.baseDir, ".derived-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write derived file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close derived file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to place derived file: %w", err)
	}
	return path, nil
}

// safePath builds the target path and rejects keys that would escape
// the base directory.
func (fs *FilesystemStore) safePath(assetID, derivedType string, version int) (string, error) {
	path := fs.Path(assetID, derivedType, version)
	if !filepath.HasPrefix(filepath.Clean(path), filepath.Clean(fs.baseDir)) {
		return "", fmt.Errorf("invalid derived key: path traversal detected")
	}
	return path, nil
}
