package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/clipforge/media-import-pipeline/internal/registry"
	"github.com/clipforge/media-import-pipeline/pkg/pipeline"
)

// AssetsHandler serves the asset registry: listing with the filter-box
// predicate, rename/tag edits, and removal from the project.
type AssetsHandler struct {
	registry registry.Registry
}

// NewAssetsHandler creates a new assets handler
func NewAssetsHandler(reg registry.Registry) *AssetsHandler {
	return &AssetsHandler{registry: reg}
}

// HandleAssets handles GET /v1/assets?filter=...
func (h *AssetsHandler) HandleAssets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filter := r.URL.Query().Get("filter")
	assets, err := h.registry.List(r.Context(), filter)
	if err != nil {
		log.Printf("Failed to list assets: %v", err)
		http.Error(w, "Failed to list assets", http.StatusInternalServerError)
		return
	}
	if assets == nil {
		assets = []pipeline.AssetRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"assets": assets})
}

// HandleAssetByID handles GET/PATCH/DELETE /v1/assets/{id}
func (h *AssetsHandler) HandleAssetByID(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Path[len("/v1/assets/"):]
	if id == "" {
		http.Error(w, "asset id is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getAsset(w, r, id)
	case http.MethodPatch:
		h.updateAsset(w, r, id)
	case http.MethodDelete:
		h.deleteAsset(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AssetsHandler) getAsset(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := h.registry.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			http.Error(w, "Asset not found", http.StatusNotFound)
			return
		}
		log.Printf("Failed to get asset %s: %v", id, err)
		http.Error(w, "Failed to get asset", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *AssetsHandler) updateAsset(w http.ResponseWriter, r *http.Request, id string) {
	var req pipeline.UpdateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}
	if req.Name == nil && req.Tags == nil {
		http.Error(w, "nothing to update", http.StatusBadRequest)
		return
	}

	rec, err := h.registry.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			http.Error(w, "Asset not found", http.StatusNotFound)
			return
		}
		log.Printf("Failed to get asset %s: %v", id, err)
		http.Error(w, "Failed to get asset", http.StatusInternalServerError)
		return
	}

	if req.Name != nil {
		name := *req.Name
		// Renaming back to the path clears the friendly name.
		if name == rec.Path {
			name = ""
		}
		if err := h.registry.UpdateName(r.Context(), id, name); err != nil {
			log.Printf("Failed to rename asset %s: %v", id, err)
			http.Error(w, "Failed to rename asset", http.StatusInternalServerError)
			return
		}
	}
	if req.Tags != nil {
		if err := h.registry.UpdateTags(r.Context(), id, *req.Tags); err != nil {
			log.Printf("Failed to retag asset %s: %v", id, err)
			http.Error(w, "Failed to retag asset", http.StatusInternalServerError)
			return
		}
	}

	updated, err := h.registry.Get(r.Context(), id)
	if err != nil {
		log.Printf("Failed to reload asset %s: %v", id, err)
		http.Error(w, "Failed to reload asset", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *AssetsHandler) deleteAsset(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.registry.Delete(r.Context(), id); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			http.Error(w, "Asset not found", http.StatusNotFound)
			return
		}
		log.Printf("Failed to delete asset %s: %v", id, err)
		http.Error(w, "Failed to delete asset", http.StatusInternalServerError)
		return
	}
	log.Printf("Asset removed from project: id=%s", id)
	w.WriteHeader(http.StatusNoContent)
}
