// Package importer is the media import pipeline: probe a candidate
// file, classify it, and insert it into the asset registry, reporting
// one result value per candidate. Nothing in this package returns an
// error to callers; every failure mode becomes an ImportResult.
package importer

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clipforge/media-import-pipeline/internal/classify"
	"github.com/clipforge/media-import-pipeline/internal/metrics"
	"github.com/clipforge/media-import-pipeline/internal/probe"
	"github.com/clipforge/media-import-pipeline/internal/registry"
	"github.com/clipforge/media-import-pipeline/pkg/pipeline"
)

// Importer runs import attempts against a registry using an injected
// prober. Calls are synchronous and processed one at a time: probing
// may share decoder resources and callers need deterministic,
// non-interleaved feedback per file.
type Importer struct {
	registry registry.Registry
	prober   probe.Prober

	// keepUnclassified imports files that report neither audio nor
	// video, storing them with an empty media type instead of
	// rejecting them.
	keepUnclassified bool
}

// Option configures an Importer.
type Option func(*Importer)

// WithKeepUnclassified accepts files with neither audio nor video
// capability rather than rejecting them as unclassifiable.
func WithKeepUnclassified() Option {
	return func(im *Importer) { im.keepUnclassified = true }
}

// New creates an Importer with the given registry and prober.
func New(reg registry.Registry, prober probe.Prober, opts ...Option) *Importer {
	im := &Importer{
		registry: reg,
		prober:   prober,
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// ImportFile attempts to import a single filesystem path. The call is
// idempotent: importing an already-registered path is a no-op reported
// as StatusAlreadyExists.
func (im *Importer) ImportFile(ctx context.Context, path string) pipeline.ImportResult {
	res := im.importFile(ctx, path)
	metrics.ObserveImport(res)
	return res
}

func (im *Importer) importFile(ctx context.Context, path string) pipeline.ImportResult {
	// Dedup against the registry before touching any decoder.
	existing, err := im.registry.FindByPath(ctx, path)
	if err != nil {
		log.Printf("Registry lookup failed: path=%s err=%v", path, err)
		return rejected(path, pipeline.ReasonUnreadable)
	}
	if existing != nil {
		return pipeline.ImportResult{
			Path:   path,
			Status: pipeline.StatusAlreadyExists,
			Asset:  existing,
		}
	}

	start := time.Now()
	info, err := im.prober.Probe(ctx, path)
	metrics.ObserveProbe(time.Since(start))
	if err != nil {
		log.Printf("Probe failed: path=%s err=%v", path, err)
		return rejected(path, pipeline.ReasonUnreadable)
	}

	mediaType, ok := classify.MediaTypeFor(info.HasVideo, info.HasAudio, classify.IsImageExtension(path))
	if !ok && !im.keepUnclassified {
		log.Printf("Unclassifiable file rejected: path=%s", path)
		return rejected(path, pipeline.ReasonUnclassifiable)
	}

	rec := &pipeline.AssetRecord{
		ID:         uuid.New().String(),
		Path:       path,
		MediaType:  mediaType,
		Media:      mediaInfo(info),
		ImportedAt: time.Now().UTC(),
	}

	if err := im.registry.Insert(ctx, rec); err != nil {
		if errors.Is(err, registry.ErrDuplicatePath) {
			// Lost a race with another writer; report the stored record.
			if existing, ferr := im.registry.FindByPath(ctx, path); ferr == nil && existing != nil {
				return pipeline.ImportResult{
					Path:   path,
					Status: pipeline.StatusAlreadyExists,
					Asset:  existing,
				}
			}
			return pipeline.ImportResult{Path: path, Status: pipeline.StatusAlreadyExists}
		}
		log.Printf("Registry insert failed: path=%s err=%v", path, err)
		return rejected(path, pipeline.ReasonUnreadable)
	}

	log.Printf("Imported asset: path=%s type=%s id=%s", path, rec.MediaType, rec.ID)
	return pipeline.ImportResult{
		Path:   path,
		Status: pipeline.StatusImported,
		Asset:  rec,
	}
}

// ImportBatch processes a sequence of candidates in input order and
// returns one result per input. Entries may be plain paths or file://
// URIs (as carried by a drop event). A bad entry never aborts the
// batch.
func (im *Importer) ImportBatch(ctx context.Context, entries []string) []pipeline.ImportResult {
	results := make([]pipeline.ImportResult, 0, len(entries))
	for _, entry := range entries {
		results = append(results, im.importEntry(ctx, entry))
	}
	return results
}

func (im *Importer) importEntry(ctx context.Context, entry string) pipeline.ImportResult {
	path := entry
	if strings.HasPrefix(entry, "file:") {
		resolved, err := ResolveFileURI(entry)
		if err != nil {
			log.Printf("Skipping undecodable URI: uri=%s err=%v", entry, err)
			res := rejected(entry, pipeline.ReasonNotFound)
			metrics.ObserveImport(res)
			return res
		}
		path = resolved
	}

	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		log.Printf("Skipping missing or non-regular file: path=%s", path)
		res := rejected(path, pipeline.ReasonNotFound)
		metrics.ObserveImport(res)
		return res
	}

	return im.ImportFile(ctx, path)
}

func rejected(path string, reason pipeline.RejectReason) pipeline.ImportResult {
	return pipeline.ImportResult{
		Path:   path,
		Status: pipeline.StatusRejected,
		Reason: reason,
	}
}

func mediaInfo(r *probe.Result) pipeline.MediaInfo {
	return pipeline.MediaInfo{
		HasVideo:   r.HasVideo,
		HasAudio:   r.HasAudio,
		Duration:   r.Duration,
		Width:      r.Width,
		Height:     r.Height,
		VideoCodec: r.VideoCodec,
		AudioCodec: r.AudioCodec,
		FrameRate:  r.FrameRate,
		Channels:   r.Channels,
		SampleRate: r.SampleRate,
		Format:     r.Format,
		FileSize:   r.FileSize,
		Extra:      r.Extra,
	}
}
