// Package runner is the embedding API for host applications (an
// editor process, a project daemon) that want the import pipeline and
// durable thumbnail jobs in-process instead of over HTTP.
package runner

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/clipforge/media-import-pipeline/internal/dbosruntime"
	"github.com/clipforge/media-import-pipeline/internal/importer"
	"github.com/clipforge/media-import-pipeline/internal/probe"
	"github.com/clipforge/media-import-pipeline/internal/registry"
	"github.com/clipforge/media-import-pipeline/internal/storage"
	"github.com/clipforge/media-import-pipeline/internal/workflows"
	"github.com/clipforge/media-import-pipeline/pkg/pipeline"
)

// Config holds the configuration for initializing the pipeline runner
type Config struct {
	DatabaseURL        string // Project registry PostgreSQL connection string
	DBOSDatabaseURL    string // DBOS PostgreSQL connection string (may equal DatabaseURL)
	AppName            string // Application name for DBOS
	QueueName          string // DBOS queue name
	Concurrency        int    // Number of concurrent workers
	ThumbnailDir       string // Directory derived thumbnails are written to
	FFProbeBin         string // Optional ffprobe binary override
	FFmpegBin          string // Optional ffmpeg binary override
	KeepUnclassified   bool   // Import files with neither audio nor video
	ApplicationVersion string // Optional: override binary hash for version matching
}

// Runner bundles an importer, a registry, and a DBOS-backed thumbnail
// queue behind one lifecycle.
type Runner struct {
	runtime  *dbosruntime.Runtime
	runner   *workflows.WorkflowRunner
	importer *importer.Importer
	registry registry.Registry
	db       *sql.DB
}

// New creates and initializes a new pipeline runner with DBOS integration
func New(cfg Config) (*Runner, error) {
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry database: %w", err)
	}

	reg, err := registry.NewPostgres(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize registry: %w", err)
	}

	store, err := storage.NewFilesystemStore(cfg.ThumbnailDir)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize thumbnail store: %w", err)
	}

	dbosURL := cfg.DBOSDatabaseURL
	if dbosURL == "" {
		dbosURL = cfg.DatabaseURL
	}
	dbosRuntime, err := dbosruntime.NewRuntime(context.Background(), dbosruntime.Config{
		DatabaseURL:        dbosURL,
		AppName:            cfg.AppName,
		QueueName:          cfg.QueueName,
		Concurrency:        cfg.Concurrency,
		ApplicationVersion: cfg.ApplicationVersion,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize DBOS: %w", err)
	}

	workflowRunner := workflows.NewWorkflowRunner(dbosRuntime)
	workflowRunner.Register(pipeline.JobThumbnail, workflows.NewThumbnailWorkflow(reg, store, cfg.FFmpegBin))

	// Launch DBOS (must be after workflow registration)
	if err := dbosRuntime.Launch(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to launch DBOS: %w", err)
	}

	var opts []importer.Option
	if cfg.KeepUnclassified {
		opts = append(opts, importer.WithKeepUnclassified())
	}

	return &Runner{
		runtime:  dbosRuntime,
		runner:   workflowRunner,
		importer: importer.New(reg, probe.NewFFProbe(cfg.FFProbeBin), opts...),
		registry: reg,
		db:       db,
	}, nil
}

// ImportFile imports a single path through the pipeline.
func (r *Runner) ImportFile(ctx context.Context, path string) pipeline.ImportResult {
	return r.importer.ImportFile(ctx, path)
}

// ImportBatch imports a sequence of file URIs or paths.
func (r *Runner) ImportBatch(ctx context.Context, uris []string) []pipeline.ImportResult {
	return r.importer.ImportBatch(ctx, uris)
}

// RunThumbnail enqueues a thumbnail generation job
func (r *Runner) RunThumbnail(ctx context.Context, assetID string, width, height int) (string, error) {
	return r.runner.RunAsync(ctx, pipeline.JobRequest{
		AssetID: assetID,
		Job:     pipeline.JobThumbnail,
		Versions: map[string]int{
			pipeline.DerivedTypeThumbnail: 1,
		},
		Metadata: map[string]string{
			"width":  fmt.Sprintf("%d", width),
			"height": fmt.Sprintf("%d", height),
		},
	})
}

// Registry exposes the project asset registry for listing and edits.
func (r *Runner) Registry() registry.Registry {
	return r.registry
}

// Shutdown gracefully shuts down the pipeline runner
func (r *Runner) Shutdown(timeoutSeconds int) {
	if r.runtime != nil {
		r.runtime.Shutdown(time.Duration(timeoutSeconds) * time.Second)
	}
	if r.db != nil {
		r.db.Close()
	}
}
