// Package handlers wires the import pipeline and the asset registry to
// the HTTP surface. Import outcomes are result values, so rejected
// files come back as 200 responses with a rejected status, never as
// HTTP errors.
package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/clipforge/media-import-pipeline/internal/importer"
	"github.com/clipforge/media-import-pipeline/pkg/pipeline"
)

// ImportHandler handles import requests
type ImportHandler struct {
	importer *importer.Importer
}

// NewImportHandler creates a new import handler
func NewImportHandler(im *importer.Importer) *ImportHandler {
	return &ImportHandler{importer: im}
}

// HandleImport handles POST /v1/import - imports a single path
func (h *ImportHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req pipeline.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}

	log.Printf("Import request: path=%s", req.Path)
	res := h.importer.ImportFile(r.Context(), req.Path)

	writeJSON(w, http.StatusOK, res)
}

// HandleImportBatch handles POST /v1/import/batch - imports a sequence
// of dropped URIs or paths, returning one result per input in order
func (h *ImportHandler) HandleImportBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req pipeline.BatchImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}
	if len(req.URIs) == 0 {
		http.Error(w, "uris is required", http.StatusBadRequest)
		return
	}

	log.Printf("Batch import request: %d items", len(req.URIs))
	results := h.importer.ImportBatch(r.Context(), req.URIs)

	writeJSON(w, http.StatusOK, pipeline.BatchImportResponse{Results: results})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
