package workflows

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"log"
	"os/exec"
	"strconv"

	"github.com/disintegration/imaging"

	"github.com/clipforge/media-import-pipeline/internal/registry"
	"github.com/clipforge/media-import-pipeline/internal/storage"
	"github.com/clipforge/media-import-pipeline/pkg/pipeline"
)

// ThumbnailWorkflow renders a preview thumbnail for an imported asset:
// image assets are decoded directly, video assets via an ffmpeg
// first-frame grab.
type ThumbnailWorkflow struct {
	registry  registry.Registry
	store     storage.DerivedStore
	ffmpegBin string
}

// NewThumbnailWorkflow creates a thumbnail workflow. ffmpegBin
// overrides the binary name used for video frame extraction; empty
// means "ffmpeg" on PATH.
func NewThumbnailWorkflow(reg registry.Registry, store storage.DerivedStore, ffmpegBin string) *ThumbnailWorkflow {
	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}
	return &ThumbnailWorkflow{
		registry:  reg,
		store:     store,
		ffmpegBin: ffmpegBin,
	}
}

// Name returns the workflow name
func (w *ThumbnailWorkflow) Name() string {
	return "ThumbnailWorkflow"
}

// Execute runs the thumbnail generation workflow
func (w *ThumbnailWorkflow) Execute(wctx *WorkflowContext) (*WorkflowResult, error) {
	log.Printf("[%s] Starting thumbnail workflow for asset_id=%s", wctx.RunID, wctx.Request.AssetID)

	derivedType := pipeline.DerivedTypeThumbnail
	derivedVersion := wctx.Request.Versions[derivedType]
	if derivedVersion < 1 {
		err := fmt.Errorf("invalid thumbnail version: %d", derivedVersion)
		return &WorkflowResult{Success: false, Error: err}, err
	}

	// Skip when the thumbnail already exists.
	has, err := w.store.Has(wctx.Ctx, wctx.Request.AssetID, derivedType, derivedVersion)
	if err != nil {
		log.Printf("[%s] Failed to check derived store: %v", wctx.RunID, err)
	} else if has {
		log.Printf("[%s] Thumbnail already exists (version=%d), skipping", wctx.RunID, derivedVersion)
		return &WorkflowResult{
			Success: true,
			Outputs: map[string]interface{}{
				"asset_id": wctx.Request.AssetID,
				"path":     w.store.Path(wctx.Request.AssetID, derivedType, derivedVersion),
				"skipped":  true,
			},
		}, nil
	}

	rec, err := w.registry.Get(wctx.Ctx, wctx.Request.AssetID)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			err = fmt.Errorf("%w: %s", ErrAssetNotFound, wctx.Request.AssetID)
		}
		log.Printf("[%s] Asset lookup failed: %v", wctx.RunID, err)
		return &WorkflowResult{Success: false, Error: err}, err
	}

	img, err := w.loadSource(wctx, rec)
	if err != nil {
		log.Printf("[%s] Failed to load source: %v", wctx.RunID, err)
		return &WorkflowResult{Success: false, Error: err}, err
	}

	width, height := dimensions(wctx.Request.Metadata)
	thumb := imaging.Fit(img, width, height, imaging.Lanczos)
	bounds := thumb.Bounds()
	log.Printf("[%s] Thumbnail rendered: %dx%d", wctx.RunID, bounds.Dx(), bounds.Dy())

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 80}); err != nil {
		err = fmt.Errorf("JPEG encode failed: %w", err)
		return &WorkflowResult{Success: false, Error: err}, err
	}

	path, err := w.store.Put(wctx.Ctx, wctx.Request.AssetID, derivedType, derivedVersion, &buf)
	if err != nil {
		err = fmt.Errorf("derived write failed: %w", err)
		log.Printf("[%s] %v", wctx.RunID, err)
		return &WorkflowResult{Success: false, Error: err}, err
	}

	log.Printf("[%s] Thumbnail written: %s", wctx.RunID, path)

	return &WorkflowResult{
		Success: true,
		Outputs: map[string]interface{}{
			"asset_id": wctx.Request.AssetID,
			"path":     path,
			"width":    bounds.Dx(),
			"height":   bounds.Dy(),
			"version":  derivedVersion,
		},
	}, nil
}

// loadSource returns the frame to thumbnail for the asset.
func (w *ThumbnailWorkflow) loadSource(wctx *WorkflowContext, rec *pipeline.AssetRecord) (image.Image, error) {
	switch rec.MediaType {
	case pipeline.MediaTypeImage:
		img, err := imaging.Open(rec.Path)
		if err != nil {
			return nil, fmt.Errorf("image decode failed: %w", err)
		}
		return img, nil
	case pipeline.MediaTypeVideo:
		return w.extractFrame(wctx, rec.Path)
	default:
		return nil, fmt.Errorf("%w: %s is %q", ErrNoVisualStream, rec.Path, rec.MediaType)
	}
}

// extractFrame grabs the first video frame as a PNG on stdout.
func (w *ThumbnailWorkflow) extractFrame(wctx *WorkflowContext, path string) (image.Image, error) {
	cmd := exec.CommandContext(wctx.Ctx, w.ffmpegBin,
		"-v", "quiet",
		"-i", path,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"pipe:1",
	)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg frame grab %q: %w", path, err)
	}
	img, err := imaging.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("frame decode failed: %w", err)
	}
	return img, nil
}

// dimensions parses target dimensions from job metadata (default 300x300).
func dimensions(meta map[string]string) (int, int) {
	width, height := 300, 300
	if meta != nil {
		if v, ok := meta["width"]; ok {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				width = n
			}
		}
		if v, ok := meta["height"]; ok {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				height = n
			}
		}
	}
	return width, height
}
