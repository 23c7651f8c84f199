package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/lib/pq"

	"github.com/clipforge/media-import-pipeline/pkg/pipeline"
)

// Postgres stores asset records in a Postgres table with a unique
// index on path, so dedup holds even with multiple service instances
// pointing at the same project database.
type Postgres struct {
	db *sql.DB
}

// NewPostgres creates a Postgres-backed registry and ensures the
// assets table exists.
func NewPostgres(db *sql.DB) (*Postgres, error) {
	p := &Postgres{db: db}
	if err := p.ensureTable(); err != nil {
		return nil, fmt.Errorf("failed to ensure assets table: %w", err)
	}
	return p, nil
}

// ensureTable creates the media_assets table if it doesn't exist
func (p *Postgres) ensureTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS media_assets (
			id TEXT PRIMARY KEY,
			path TEXT NOT NULL UNIQUE,
			media_type TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '',
			media JSONB NOT NULL DEFAULT '{}',
			imported_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`

	_, err := p.db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create media_assets table: %w", err)
	}

	log.Printf("media_assets table ready")
	return nil
}

func (p *Postgres) FindByPath(ctx context.Context, path string) (*pipeline.AssetRecord, error) {
	query := `
		SELECT id, path, media_type, name, tags, media, imported_at
		FROM media_assets
		WHERE path = $1
	`
	rec, err := p.scanOne(p.db.QueryRowContext(ctx, query, path))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find asset by path: %w", err)
	}
	return rec, nil
}

func (p *Postgres) Insert(ctx context.Context, rec *pipeline.AssetRecord) error {
	media, err := json.Marshal(rec.Media)
	if err != nil {
		return fmt.Errorf("failed to marshal media info: %w", err)
	}

	query := `
		INSERT INTO media_assets (id, path, media_type, name, tags, media, imported_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = p.db.ExecContext(ctx, query,
		rec.ID, rec.Path, string(rec.MediaType), rec.Name, rec.Tags, media, rec.ImportedAt)
	if err != nil {
		// Unique violation on path means a concurrent writer won the
		// race; report it as the duplicate it is.
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrDuplicatePath
		}
		return fmt.Errorf("failed to insert asset: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, id string) (*pipeline.AssetRecord, error) {
	query := `
		SELECT id, path, media_type, name, tags, media, imported_at
		FROM media_assets
		WHERE id = $1
	`
	rec, err := p.scanOne(p.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return rec, nil
}

func (p *Postgres) List(ctx context.Context, filter string) ([]pipeline.AssetRecord, error) {
	query := `
		SELECT id, path, media_type, name, tags, media, imported_at
		FROM media_assets
		WHERE $1 = ''
		   OR path ILIKE '%' || $1 || '%'
		   OR name ILIKE '%' || $1 || '%'
		   OR tags ILIKE '%' || $1 || '%'
		ORDER BY imported_at, path
	`
	rows, err := p.db.QueryContext(ctx, query, strings.TrimSpace(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	var out []pipeline.AssetRecord
	for rows.Next() {
		rec, err := p.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset row: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate asset rows: %w", err)
	}
	return out, nil
}

func (p *Postgres) UpdateName(ctx context.Context, id, name string) error {
	return p.updateColumn(ctx, "name", id, name)
}

func (p *Postgres) UpdateTags(ctx context.Context, id, tags string) error {
	return p.updateColumn(ctx, "tags", id, tags)
}

func (p *Postgres) updateColumn(ctx context.Context, column, id, value string) error {
	query := fmt.Sprintf(`UPDATE media_assets SET %s = $2 WHERE id = $1`, column)
	res, err := p.db.ExecContext(ctx, query, id, value)
	if err != nil {
		return fmt.Errorf("failed to update asset %s: %w", column, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM media_assets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func (p *Postgres) scanOne(row scanner) (*pipeline.AssetRecord, error) {
	var rec pipeline.AssetRecord
	var mediaType string
	var media []byte
	if err := row.Scan(&rec.ID, &rec.Path, &mediaType, &rec.Name, &rec.Tags, &media, &rec.ImportedAt); err != nil {
		return nil, err
	}
	rec.MediaType = pipeline.MediaType(mediaType)
	if len(media) > 0 {
		if err := json.Unmarshal(media, &rec.Media); err != nil {
			return nil, fmt.Errorf("failed to unmarshal media info: %w", err)
		}
	}
	return &rec, nil
}
