package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/clipforge/media-import-pipeline/internal/workflows"
	"github.com/clipforge/media-import-pipeline/pkg/pipeline"
)

// JobsHandler handles derived-media job requests
type JobsHandler struct {
	workflowRunner *workflows.WorkflowRunner

	// async enqueues jobs via DBOS; when false they run inline.
	async bool
}

// NewJobsHandler creates a jobs handler. async requires a runner built
// with a DBOS runtime.
func NewJobsHandler(runner *workflows.WorkflowRunner, async bool) *JobsHandler {
	return &JobsHandler{
		workflowRunner: runner,
		async:          async,
	}
}

// HandleJob handles POST /v1/jobs - runs or enqueues a derived-media job
func (h *JobsHandler) HandleJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req pipeline.JobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}
	if req.AssetID == "" {
		http.Error(w, "asset_id is required", http.StatusBadRequest)
		return
	}
	if req.Job == "" {
		http.Error(w, "job is required", http.StatusBadRequest)
		return
	}
	if req.Versions == nil {
		req.Versions = map[string]int{pipeline.DerivedTypeThumbnail: 1}
	}

	if h.async {
		log.Printf("Enqueueing job: asset_id=%s job=%s", req.AssetID, req.Job)
		runID, err := h.workflowRunner.RunAsync(r.Context(), req)
		if err != nil {
			log.Printf("Failed to enqueue job: %v", err)
			http.Error(w, fmt.Sprintf("Failed to enqueue job: %v", err), http.StatusInternalServerError)
			return
		}
		log.Printf("Job enqueued: run_id=%s", runID)
		writeJSON(w, http.StatusAccepted, pipeline.JobResponse{RunID: runID})
		return
	}

	runID := fmt.Sprintf("sync-%s-%s", req.Job, req.AssetID)
	wctx := &workflows.WorkflowContext{
		Ctx:     r.Context(),
		Request: req,
		RunID:   runID,
	}

	result, err := h.workflowRunner.Run(wctx)
	if err != nil {
		log.Printf("[%s] Job failed: %v", runID, err)
		http.Error(w, fmt.Sprintf("Job failed: %v", err), http.StatusInternalServerError)
		return
	}
	if !result.Success {
		log.Printf("[%s] Job completed with errors: %v", runID, result.Error)
		http.Error(w, fmt.Sprintf("Job failed: %v", result.Error), http.StatusInternalServerError)
		return
	}

	log.Printf("[%s] Job completed", runID)
	writeJSON(w, http.StatusOK, pipeline.JobResponse{RunID: runID})
}
