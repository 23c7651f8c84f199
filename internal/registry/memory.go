package registry

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/clipforge/media-import-pipeline/pkg/pipeline"
)

// Memory is a map-backed Registry for standalone mode and tests.
// A mutex guards every operation: the import pipeline itself is
// single-writer, but the HTTP handlers expose the registry to
// concurrent callers.
type Memory struct {
	mu     sync.RWMutex
	byID   map[string]*pipeline.AssetRecord
	byPath map[string]string
}

// NewMemory creates an empty in-memory registry.
func NewMemory() *Memory {
	return &Memory{
		byID:   make(map[string]*pipeline.AssetRecord),
		byPath: make(map[string]string),
	}
}

func (m *Memory) FindByPath(ctx context.Context, path string) (*pipeline.AssetRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byPath[path]
	if !ok {
		return nil, nil
	}
	rec := *m.byID[id]
	return &rec, nil
}

func (m *Memory) Insert(ctx context.Context, rec *pipeline.AssetRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byPath[rec.Path]; ok {
		return ErrDuplicatePath
	}
	stored := *rec
	m.byID[stored.ID] = &stored
	m.byPath[stored.Path] = stored.ID
	return nil
}

func (m *Memory) Get(ctx context.Context, id string) (*pipeline.AssetRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *rec
	return &out, nil
}

func (m *Memory) List(ctx context.Context, filter string) ([]pipeline.AssetRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	needle := strings.ToLower(filter)
	var out []pipeline.AssetRecord
	for _, rec := range m.byID {
		if needle != "" && !matches(rec, needle) {
			continue
		}
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ImportedAt.Equal(out[j].ImportedAt) {
			return out[i].Path < out[j].Path
		}
		return out[i].ImportedAt.Before(out[j].ImportedAt)
	})
	return out, nil
}

func matches(rec *pipeline.AssetRecord, needle string) bool {
	return strings.Contains(strings.ToLower(rec.DisplayName()), needle) ||
		strings.Contains(strings.ToLower(rec.Path), needle) ||
		strings.Contains(strings.ToLower(rec.Tags), needle)
}

func (m *Memory) UpdateName(ctx context.Context, id, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	rec.Name = name
	return nil
}

func (m *Memory) UpdateTags(ctx context.Context, id, tags string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	rec.Tags = tags
	return nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.byPath, rec.Path)
	delete(m.byID, id)
	return nil
}

// Len reports the number of stored records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}
