package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clipforge/media-import-pipeline/internal/handlers"
	"github.com/clipforge/media-import-pipeline/internal/importer"
	"github.com/clipforge/media-import-pipeline/internal/probe"
	"github.com/clipforge/media-import-pipeline/internal/registry"
	"github.com/clipforge/media-import-pipeline/internal/storage"
	"github.com/clipforge/media-import-pipeline/internal/workflows"
	"github.com/clipforge/media-import-pipeline/pkg/pipeline"
)

// Standalone import service for a single project session.
// Uses an in-memory registry + filesystem thumbnails (./dev-thumbnails).
// No Postgres or DBOS needed; thumbnail jobs run inline.
func main() {
	httpAddr := os.Getenv("IMPORT_HTTP_ADDR")
	if httpAddr == "" {
		httpAddr = ":8080"
	}

	thumbnailDir := os.Getenv("THUMBNAIL_DIR")
	if thumbnailDir == "" {
		thumbnailDir = "./dev-thumbnails"
	}

	log.Printf("Media Import Service (standalone)")
	log.Printf("  Mode: Embedded (in-memory registry + filesystem thumbnails)")
	log.Printf("  Thumbnail directory: %s", thumbnailDir)
	log.Printf("  HTTP address: %s", httpAddr)

	reg := registry.NewMemory()
	prober := probe.NewFFProbe(os.Getenv("FFPROBE_BIN"))

	var opts []importer.Option
	if os.Getenv("KEEP_UNCLASSIFIED") == "true" {
		opts = append(opts, importer.WithKeepUnclassified())
		log.Printf("  Keeping unclassified files (KEEP_UNCLASSIFIED=true)")
	}
	im := importer.New(reg, prober, opts...)

	store, err := storage.NewFilesystemStore(thumbnailDir)
	if err != nil {
		log.Fatalf("Failed to initialize thumbnail store: %v", err)
	}

	// Synchronous runner: no DBOS in standalone mode.
	workflowRunner := workflows.NewWorkflowRunner(nil)
	thumbnailWorkflow := workflows.NewThumbnailWorkflow(reg, store, os.Getenv("FFMPEG_BIN"))
	workflowRunner.Register(pipeline.JobThumbnail, thumbnailWorkflow)
	log.Printf("Registered workflow: %s for job: %s", thumbnailWorkflow.Name(), pipeline.JobThumbnail)

	importHandler := handlers.NewImportHandler(im)
	assetsHandler := handlers.NewAssetsHandler(reg)
	jobsHandler := handlers.NewJobsHandler(workflowRunner, false)

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
		log.Printf("Import service ready on %s", httpAddr)
		log.Printf("")
		log.Printf("Available endpoints:")
		log.Printf("  GET    /health            - Health check")
		log.Printf("  GET    /metrics           - Prometheus metrics")
		log.Printf("  POST   /v1/import         - Import one path")
		log.Printf("  POST   /v1/import/batch   - Import dropped URIs")
		log.Printf("  GET    /v1/assets         - List assets (?filter=)")
		log.Printf("  GET    /v1/assets/{id}    - Get one asset")
		log.Printf("  PATCH  /v1/assets/{id}    - Rename / retag")
		log.Printf("  DELETE /v1/assets/{id}    - Remove from project")
		log.Printf("  POST   /v1/jobs           - Generate a thumbnail (inline)")
		log.Printf("")

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
		"mode":   "standalone",
	})
}
