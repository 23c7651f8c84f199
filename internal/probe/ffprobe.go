// Package probe extracts technical metadata from media files via
// ffprobe. One JSON call per file covers format and stream data.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// FFProbe is the ffprobe-backed Prober. Bin overrides the binary name
// when ffprobe is not on PATH.
type FFProbe struct {
	Bin string
}

// NewFFProbe returns an FFProbe using the given binary, or "ffprobe"
// when bin is empty.
func NewFFProbe(bin string) *FFProbe {
	if bin == "" {
		bin = "ffprobe"
	}
	return &FFProbe{Bin: bin}
}

// Probe runs a single ffprobe JSON call against path.
func (f *FFProbe) Probe(ctx context.Context, path string) (*Result, error) {
	cmd := exec.CommandContext(ctx, f.Bin,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return ParseJSON(out)
}

// ParseJSON converts raw ffprobe JSON output into a Result. Exported
// for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*Result, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildResult(&raw), nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	FormatName string            `json:"format_name"`
	Duration   string            `json:"duration"`
	Size       string            `json:"size"`
	BitRate    string            `json:"bit_rate"`
	Tags       map[string]string `json:"tags"`
}

type ffprobeStream struct {
	CodecName     string         `json:"codec_name"`
	CodecType     string         `json:"codec_type"`
	PixFmt        string         `json:"pix_fmt"`
	Width         int            `json:"width"`
	Height        int            `json:"height"`
	AvgFrameRate  string         `json:"avg_frame_rate"`
	Channels      int            `json:"channels"`
	ChannelLayout string         `json:"channel_layout"`
	SampleRate    string         `json:"sample_rate"`
	Disposition   map[string]int `json:"disposition"`
}

// --- Conversion from wire types to the Result ---

func buildResult(raw *ffprobeOutput) *Result {
	r := &Result{
		Duration: parseFloat(raw.Format.Duration),
		Format:   raw.Format.FormatName,
		FileSize: parseInt64(raw.Format.Size),
		Extra:    map[string]string{},
	}
	if raw.Format.BitRate != "" {
		r.Extra["bit_rate"] = raw.Format.BitRate
	}
	for k, v := range raw.Format.Tags {
		r.Extra["tag:"+strings.ToLower(k)] = v
	}

	for i := range raw.Streams {
		s := &raw.Streams[i]
		switch s.CodecType {
		case "video":
			// Attached pics are cover art, not a video track.
			if s.Disposition["attached_pic"] == 1 {
				continue
			}
			if !r.HasVideo {
				r.HasVideo = true
				r.VideoCodec = s.CodecName
				r.Width = s.Width
				r.Height = s.Height
				r.FrameRate = s.AvgFrameRate
				if s.PixFmt != "" {
					r.Extra["pix_fmt"] = s.PixFmt
				}
			}
		case "audio":
			if !r.HasAudio {
				r.HasAudio = true
				r.AudioCodec = s.CodecName
				r.Channels = s.Channels
				r.SampleRate = parseInt(s.SampleRate)
				if s.ChannelLayout != "" {
					r.Extra["channel_layout"] = s.ChannelLayout
				}
			}
		}
	}
	return r
}

// ffprobe reports numbers as strings in format-level fields.

func parseInt64(s string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func parseInt(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
