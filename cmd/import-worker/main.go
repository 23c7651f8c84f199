package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clipforge/media-import-pipeline/internal/dbosruntime"
	"github.com/clipforge/media-import-pipeline/internal/handlers"
	"github.com/clipforge/media-import-pipeline/internal/importer"
	"github.com/clipforge/media-import-pipeline/internal/probe"
	"github.com/clipforge/media-import-pipeline/internal/registry"
	"github.com/clipforge/media-import-pipeline/internal/storage"
	"github.com/clipforge/media-import-pipeline/internal/workflows"
	"github.com/clipforge/media-import-pipeline/pkg/pipeline"
)

// Worker mode: Postgres-backed registry shared between instances,
// thumbnail jobs enqueued durably via DBOS.
func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	httpAddr := os.Getenv("IMPORT_HTTP_ADDR")
	if httpAddr == "" {
		httpAddr = ":8081"
	}

	thumbnailDir := os.Getenv("THUMBNAIL_DIR")
	if thumbnailDir == "" {
		thumbnailDir = "./thumbnails"
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatalf("DATABASE_URL is required")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to open registry database: %v", err)
	}
	defer db.Close()

	reg, err := registry.NewPostgres(db)
	if err != nil {
		log.Fatalf("Failed to initialize registry: %v", err)
	}

	store, err := storage.NewFilesystemStore(thumbnailDir)
	if err != nil {
		log.Fatalf("Failed to initialize thumbnail store: %v", err)
	}

	// DBOS runtime (required in worker mode)
	dbosURL := os.Getenv("DBOS_SYSTEM_DATABASE_URL")
	if dbosURL == "" {
		log.Fatalf("DBOS_SYSTEM_DATABASE_URL is required")
	}

	queueName := os.Getenv("DBOS_QUEUE_NAME")
	if queueName == "" {
		queueName = "default"
	}

	concurrency := 4
	if v := os.Getenv("DBOS_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			concurrency = n
		}
	}

	dbosRuntime, err := dbosruntime.NewRuntime(context.Background(), dbosruntime.Config{
		DatabaseURL: dbosURL,
		AppName:     "import-worker",
		QueueName:   queueName,
		Concurrency: concurrency,
	})
	if err != nil {
		log.Fatalf("Failed to initialize DBOS: %v", err)
	}

	// Workflow runner with DBOS support (registers workflows with DBOS)
	workflowRunner := workflows.NewWorkflowRunner(dbosRuntime)
	thumbnailWorkflow := workflows.NewThumbnailWorkflow(reg, store, os.Getenv("FFMPEG_BIN"))
	workflowRunner.Register(pipeline.JobThumbnail, thumbnailWorkflow)
	log.Printf("Registered workflow: %s for job: %s", thumbnailWorkflow.Name(), pipeline.JobThumbnail)

	// Launch DBOS (must be done after workflow registration)
	if err := dbosRuntime.Launch(); err != nil {
		log.Fatalf("Failed to launch DBOS: %v", err)
	}
	defer dbosRuntime.Shutdown(10 * time.Second)

	log.Printf("DBOS runtime initialized")
	log.Printf("  Queue: %s", dbosRuntime.QueueName())
	log.Printf("  Concurrency: %d", dbosRuntime.Concurrency())

	var opts []importer.Option
	if os.Getenv("KEEP_UNCLASSIFIED") == "true" {
		opts = append(opts, importer.WithKeepUnclassified())
	}
	im := importer.New(reg, probe.NewFFProbe(os.Getenv("FFPROBE_BIN")), opts...)

	importHandler := handlers.NewImportHandler(im)
	assetsHandler := handlers.NewAssetsHandler(reg)
	jobsHandler := handlers.NewJobsHandler(workflowRunner, true)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/v1/import", importHandler.HandleImport)
	mux.HandleFunc("/v1/import/batch", importHandler.HandleImportBatch)
	mux.HandleFunc("/v1/assets", assetsHandler.HandleAssets)
	mux.HandleFunc("/v1/assets/", assetsHandler.HandleAssetByID)
	mux.HandleFunc("/v1/jobs", jobsHandler.HandleJob)

	server := &http.Server{
		Addr:    httpAddr,
		Handler: mux,
	}

	go func() {
		log.Printf("Import worker starting on %s", httpAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// handleHealth returns health status
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
		"mode":   "worker",
	})
}
