package pipeline

import "time"

// MediaType classifies an imported asset. It drives icon rendering and
// timeline placement downstream, so every stored asset carries exactly one.
type MediaType string

const (
	MediaTypeVideo MediaType = "video"
	MediaTypeAudio MediaType = "audio"
	MediaTypeImage MediaType = "image"
)

// ImportStatus is the outcome of one import attempt.
type ImportStatus string

const (
	StatusImported      ImportStatus = "imported"
	StatusAlreadyExists ImportStatus = "already_exists"
	StatusRejected      ImportStatus = "rejected"
)

// RejectReason explains a StatusRejected result.
type RejectReason string

const (
	// ReasonUnreadable means no probe backend could open the file.
	ReasonUnreadable RejectReason = "unreadable"
	// ReasonUnclassifiable means the file opened but reported neither
	// audio nor video capability.
	ReasonUnclassifiable RejectReason = "unclassifiable"
	// ReasonNotFound means the path did not resolve to a regular file.
	ReasonNotFound RejectReason = "not_found"
)

// MediaInfo carries the technical metadata reported by the prober.
// HasVideo and HasAudio are the fields classification depends on; the
// rest is informational and flows through to the stored record. Extra
// holds backend-specific fields with no dedicated column.
type MediaInfo struct {
	HasVideo   bool              `json:"has_video"`
	HasAudio   bool              `json:"has_audio"`
	Duration   float64           `json:"duration,omitempty"`
	Width      int               `json:"width,omitempty"`
	Height     int               `json:"height,omitempty"`
	VideoCodec string            `json:"video_codec,omitempty"`
	AudioCodec string            `json:"audio_codec,omitempty"`
	FrameRate  string            `json:"frame_rate,omitempty"`
	Channels   int               `json:"channels,omitempty"`
	SampleRate int               `json:"sample_rate,omitempty"`
	Format     string            `json:"format,omitempty"`
	FileSize   int64             `json:"file_size,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// AssetRecord is one imported media item. Path is the unique key; the
// pipeline never mutates a record after insertion (rename and tag edits
// go through the registry directly).
type AssetRecord struct {
	ID         string    `json:"id"`
	Path       string    `json:"path"`
	MediaType  MediaType `json:"media_type,omitempty"`
	Name       string    `json:"name,omitempty"`
	Tags       string    `json:"tags,omitempty"`
	Media      MediaInfo `json:"media"`
	ImportedAt time.Time `json:"imported_at"`
}

// DisplayName returns the friendly name when set, else the path.
func (a *AssetRecord) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Path
}

// ImportRequest asks for a single path to be imported.
type ImportRequest struct {
	Path string `json:"path"`
}

// BatchImportRequest carries the raw strings from a drop event: file://
// URIs or plain filesystem paths, in drop order.
type BatchImportRequest struct {
	URIs []string `json:"uris"`
}

// ImportResult is the per-item outcome of an import attempt. Every
// failure mode is a value here; the pipeline never surfaces an error.
type ImportResult struct {
	Path   string       `json:"path"`
	Status ImportStatus `json:"status"`
	Reason RejectReason `json:"reason,omitempty"`
	Asset  *AssetRecord `json:"asset,omitempty"`
}

// BatchImportResponse wraps the per-item results of a batch import.
type BatchImportResponse struct {
	Results []ImportResult `json:"results"`
}

// UpdateAssetRequest renames and/or retags an asset. Nil fields are
// left untouched.
type UpdateAssetRequest struct {
	Name *string `json:"name,omitempty"`
	Tags *string `json:"tags,omitempty"`
}

// JobRequest asks for a derived-media job against an imported asset.
type JobRequest struct {
	AssetID  string            `json:"asset_id"`
	Job      string            `json:"job"`
	Versions map[string]int    `json:"versions"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// JobResponse is returned when a job is accepted or completed.
type JobResponse struct {
	RunID string `json:"run_id"`
}

// Job type constants
const (
	JobThumbnail = "thumbnail"
)

// Derived type constants
const (
	DerivedTypeThumbnail = "thumbnail"
)
