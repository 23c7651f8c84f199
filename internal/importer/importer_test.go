package importer

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/clipforge/media-import-pipeline/internal/probe"
	"github.com/clipforge/media-import-pipeline/internal/registry"
	"github.com/clipforge/media-import-pipeline/pkg/pipeline"
)

// stubProber returns canned results keyed by path; unknown paths fail
// like an unreadable file would.
type stubProber struct {
	results map[string]*probe.Result
	calls   int
}

func (s *stubProber) Probe(ctx context.Context, path string) (*probe.Result, error) {
	s.calls++
	if r, ok := s.results[path]; ok {
		return r, nil
	}
	return nil, errors.New("no decoder could open file")
}

func videoResult() *probe.Result {
	return &probe.Result{
		HasVideo:   true,
		HasAudio:   true,
		Duration:   12.5,
		Width:      1280,
		Height:     720,
		VideoCodec: "h264",
		AudioCodec: "aac",
	}
}

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestImportFile(t *testing.T) {
	ctx := context.Background()
	reg := registry.NewMemory()
	prober := &stubProber{results: map[string]*probe.Result{
		"/media/clip.mp4": videoResult(),
	}}
	im := New(reg, prober)

	res := im.ImportFile(ctx, "/media/clip.mp4")
	if res.Status != pipeline.StatusImported {
		t.Fatalf("status = %s, want imported", res.Status)
	}
	if res.Asset == nil || res.Asset.MediaType != pipeline.MediaTypeVideo {
		t.Fatalf("asset = %+v, want video record", res.Asset)
	}
	if res.Asset.ID == "" {
		t.Error("imported record has empty ID")
	}
	if !res.Asset.Media.HasVideo || res.Asset.Media.Width != 1280 {
		t.Errorf("probe metadata not carried into record: %+v", res.Asset.Media)
	}
}

func TestImportFileIdempotent(t *testing.T) {
	ctx := context.Background()
	reg := registry.NewMemory()
	prober := &stubProber{results: map[string]*probe.Result{
		"/media/clip.mp4": videoResult(),
	}}
	im := New(reg, prober)

	first := im.ImportFile(ctx, "/media/clip.mp4")
	if first.Status != pipeline.StatusImported {
		t.Fatalf("first import status = %s", first.Status)
	}

	second := im.ImportFile(ctx, "/media/clip.mp4")
	if second.Status != pipeline.StatusAlreadyExists {
		t.Errorf("second import status = %s, want already_exists", second.Status)
	}
	if second.Asset == nil || second.Asset.ID != first.Asset.ID {
		t.Errorf("second import returned a different record: %+v", second.Asset)
	}
	if reg.Len() != 1 {
		t.Errorf("registry size = %d after repeat import, want 1", reg.Len())
	}
	// Dedup short-circuits before the prober.
	if prober.calls != 1 {
		t.Errorf("prober called %d times, want 1", prober.calls)
	}
}

func TestImportFileProbeFailure(t *testing.T) {
	ctx := context.Background()
	reg := registry.NewMemory()
	im := New(reg, &stubProber{})

	res := im.ImportFile(ctx, "/media/corrupt.mp4")
	if res.Status != pipeline.StatusRejected || res.Reason != pipeline.ReasonUnreadable {
		t.Errorf("result = %s/%s, want rejected/unreadable", res.Status, res.Reason)
	}
	if reg.Len() != 0 {
		t.Errorf("registry size = %d after probe failure, want 0", reg.Len())
	}
}

func TestImportFileUnclassifiable(t *testing.T) {
	ctx := context.Background()
	reg := registry.NewMemory()
	prober := &stubProber{results: map[string]*probe.Result{
		"/media/data.bin": {},
	}}

	res := New(reg, prober).ImportFile(ctx, "/media/data.bin")
	if res.Status != pipeline.StatusRejected || res.Reason != pipeline.ReasonUnclassifiable {
		t.Errorf("result = %s/%s, want rejected/unclassifiable", res.Status, res.Reason)
	}
	if reg.Len() != 0 {
		t.Errorf("registry size = %d, want 0", reg.Len())
	}
}

func TestImportFileKeepUnclassified(t *testing.T) {
	ctx := context.Background()
	reg := registry.NewMemory()
	prober := &stubProber{results: map[string]*probe.Result{
		"/media/data.bin": {},
	}}

	res := New(reg, prober, WithKeepUnclassified()).ImportFile(ctx, "/media/data.bin")
	if res.Status != pipeline.StatusImported {
		t.Fatalf("status = %s, want imported", res.Status)
	}
	if res.Asset.MediaType != "" {
		t.Errorf("media type = %q, want empty for unclassified record", res.Asset.MediaType)
	}
	if reg.Len() != 1 {
		t.Errorf("registry size = %d, want 1", reg.Len())
	}
}

func TestImportFileClassifiesByExtension(t *testing.T) {
	ctx := context.Background()
	reg := registry.NewMemory()
	prober := &stubProber{results: map[string]*probe.Result{
		"/media/anim.gif": {HasVideo: true},
		"/media/song.mp3": {HasAudio: true},
	}}
	im := New(reg, prober)

	gif := im.ImportFile(ctx, "/media/anim.gif")
	if gif.Asset == nil || gif.Asset.MediaType != pipeline.MediaTypeImage {
		t.Errorf("animated gif classified as %v, want image", gif.Asset)
	}
	mp3 := im.ImportFile(ctx, "/media/song.mp3")
	if mp3.Asset == nil || mp3.Asset.MediaType != pipeline.MediaTypeAudio {
		t.Errorf("mp3 classified as %v, want audio", mp3.Asset)
	}
}

func TestImportBatchOrderAndIsolation(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	good := writeFile(t, dir, "clip.mp4")
	missing := filepath.Join(dir, "missing.mp4")

	reg := registry.NewMemory()
	prober := &stubProber{results: map[string]*probe.Result{
		good: videoResult(),
	}}
	im := New(reg, prober)

	results := im.ImportBatch(ctx, []string{good, missing})
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Status != pipeline.StatusImported {
		t.Errorf("results[0] = %s/%s, want imported", results[0].Status, results[0].Reason)
	}
	if results[1].Status != pipeline.StatusRejected || results[1].Reason != pipeline.ReasonNotFound {
		t.Errorf("results[1] = %s/%s, want rejected/not_found", results[1].Status, results[1].Reason)
	}
	if reg.Len() != 1 {
		t.Errorf("registry size = %d, want 1", reg.Len())
	}
}

func TestImportBatchBadItemDoesNotAbort(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	bad := writeFile(t, dir, "corrupt.avi")
	good := writeFile(t, dir, "clip.mp4")

	reg := registry.NewMemory()
	prober := &stubProber{results: map[string]*probe.Result{
		good: videoResult(),
	}}

	results := New(reg, prober).ImportBatch(ctx, []string{bad, good})
	if results[0].Status != pipeline.StatusRejected || results[0].Reason != pipeline.ReasonUnreadable {
		t.Errorf("results[0] = %s/%s, want rejected/unreadable", results[0].Status, results[0].Reason)
	}
	if results[1].Status != pipeline.StatusImported {
		t.Errorf("results[1] = %s, want imported despite earlier failure", results[1].Status)
	}
}

func TestImportBatchDirectoryRejected(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	reg := registry.NewMemory()
	results := New(reg, &stubProber{}).ImportBatch(ctx, []string{dir})
	if results[0].Status != pipeline.StatusRejected || results[0].Reason != pipeline.ReasonNotFound {
		t.Errorf("directory entry = %s/%s, want rejected/not_found", results[0].Status, results[0].Reason)
	}
}

func TestImportBatchFileURIs(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	good := writeFile(t, dir, "clip with space.mp4")

	reg := registry.NewMemory()
	prober := &stubProber{results: map[string]*probe.Result{
		good: videoResult(),
	}}

	uri := (&url.URL{Scheme: "file", Path: good}).String()
	results := New(reg, prober).ImportBatch(ctx, []string{
		uri,
		"file://",                   // undecodable
		"https://example.com/a.mp4", // not a file URI, treated as a path
	})
	if results[0].Status != pipeline.StatusImported {
		t.Errorf("results[0] = %s/%s, want imported", results[0].Status, results[0].Reason)
	}
	if results[0].Path != good {
		t.Errorf("results[0].Path = %q, want resolved path %q", results[0].Path, good)
	}
	if results[1].Status != pipeline.StatusRejected || results[1].Reason != pipeline.ReasonNotFound {
		t.Errorf("results[1] = %s/%s, want rejected/not_found", results[1].Status, results[1].Reason)
	}
	if results[2].Status != pipeline.StatusRejected || results[2].Reason != pipeline.ReasonNotFound {
		t.Errorf("results[2] = %s/%s, want rejected/not_found", results[2].Status, results[2].Reason)
	}
}

func TestImportBatchIdempotent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	a := writeFile(t, dir, "a.mp4")
	b := writeFile(t, dir, "b.mp4")

	reg := registry.NewMemory()
	prober := &stubProber{results: map[string]*probe.Result{
		a: videoResult(),
		b: videoResult(),
	}}
	im := New(reg, prober)

	paths := []string{a, b}
	first := im.ImportBatch(ctx, paths)
	for i, res := range first {
		if res.Status != pipeline.StatusImported {
			t.Fatalf("first run results[%d] = %s", i, res.Status)
		}
	}

	second := im.ImportBatch(ctx, paths)
	for i, res := range second {
		if res.Status != pipeline.StatusAlreadyExists {
			t.Errorf("second run results[%d] = %s, want already_exists", i, res.Status)
		}
	}
	if reg.Len() != 2 {
		t.Errorf("registry size = %d after repeat batch, want 2", reg.Len())
	}
}
