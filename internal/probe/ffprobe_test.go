package probe

import (
	"testing"
)

// Realistic ffprobe JSON for an MP4 with one H.264 video stream and one
// AAC stereo audio stream.
const sampleVideo = `{
  "streams": [
    {
      "codec_name": "h264",
      "codec_type": "video",
      "pix_fmt": "yuv420p",
      "width": 1920,
      "height": 1080,
      "avg_frame_rate": "30000/1001",
      "disposition": { "default": 1, "attached_pic": 0 }
    },
    {
      "codec_name": "aac",
      "codec_type": "audio",
      "channels": 2,
      "channel_layout": "stereo",
      "sample_rate": "48000",
      "disposition": { "default": 1, "attached_pic": 0 }
    }
  ],
  "format": {
    "format_name": "mov,mp4,m4a,3gp,3g2,mj2",
    "duration": "120.500000",
    "size": "104857600",
    "bit_rate": "6963200",
    "tags": { "major_brand": "isom" }
  }
}`

// MP3 with embedded cover art: the mjpeg stream is an attached pic and
// must not count as video.
const sampleAudioWithCover = `{
  "streams": [
    {
      "codec_name": "mp3",
      "codec_type": "audio",
      "channels": 2,
      "channel_layout": "stereo",
      "sample_rate": "44100",
      "disposition": { "default": 0, "attached_pic": 0 }
    },
    {
      "codec_name": "mjpeg",
      "codec_type": "video",
      "width": 600,
      "height": 600,
      "disposition": { "default": 0, "attached_pic": 1 }
    }
  ],
  "format": {
    "format_name": "mp3",
    "duration": "214.300000",
    "size": "5242880"
  }
}`

const sampleImage = `{
  "streams": [
    {
      "codec_name": "png",
      "codec_type": "video",
      "pix_fmt": "rgba",
      "width": 800,
      "height": 600,
      "avg_frame_rate": "25/1",
      "disposition": { "default": 0, "attached_pic": 0 }
    }
  ],
  "format": {
    "format_name": "png_pipe",
    "size": "30201"
  }
}`

const sampleNoStreams = `{
  "streams": [],
  "format": { "format_name": "data", "size": "12" }
}`

func TestParseJSONVideo(t *testing.T) {
	r, err := ParseJSON([]byte(sampleVideo))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}

	if !r.HasVideo || !r.HasAudio {
		t.Errorf("capabilities = (video=%v, audio=%v), want both true", r.HasVideo, r.HasAudio)
	}
	if r.VideoCodec != "h264" || r.Width != 1920 || r.Height != 1080 {
		t.Errorf("video stream = %s %dx%d, want h264 1920x1080", r.VideoCodec, r.Width, r.Height)
	}
	if r.AudioCodec != "aac" || r.Channels != 2 || r.SampleRate != 48000 {
		t.Errorf("audio stream = %s ch=%d sr=%d, want aac 2 48000", r.AudioCodec, r.Channels, r.SampleRate)
	}
	if r.Duration != 120.5 {
		t.Errorf("Duration = %v, want 120.5", r.Duration)
	}
	if r.FileSize != 104857600 {
		t.Errorf("FileSize = %d, want 104857600", r.FileSize)
	}
	if r.Extra["pix_fmt"] != "yuv420p" {
		t.Errorf("Extra[pix_fmt] = %q, want yuv420p", r.Extra["pix_fmt"])
	}
	if r.Extra["tag:major_brand"] != "isom" {
		t.Errorf("Extra[tag:major_brand] = %q, want isom", r.Extra["tag:major_brand"])
	}
}

func TestParseJSONCoverArtIsNotVideo(t *testing.T) {
	r, err := ParseJSON([]byte(sampleAudioWithCover))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}

	if r.HasVideo {
		t.Error("HasVideo = true for MP3 with cover art, want false")
	}
	if !r.HasAudio {
		t.Error("HasAudio = false, want true")
	}
	if r.AudioCodec != "mp3" || r.SampleRate != 44100 {
		t.Errorf("audio stream = %s sr=%d, want mp3 44100", r.AudioCodec, r.SampleRate)
	}
}

func TestParseJSONImage(t *testing.T) {
	r, err := ParseJSON([]byte(sampleImage))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}

	if !r.HasVideo || r.HasAudio {
		t.Errorf("capabilities = (video=%v, audio=%v), want (true, false)", r.HasVideo, r.HasAudio)
	}
	if r.Width != 800 || r.Height != 600 {
		t.Errorf("dimensions = %dx%d, want 800x600", r.Width, r.Height)
	}
}

func TestParseJSONNoStreams(t *testing.T) {
	r, err := ParseJSON([]byte(sampleNoStreams))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if r.HasVideo || r.HasAudio {
		t.Errorf("capabilities = (video=%v, audio=%v), want both false", r.HasVideo, r.HasAudio)
	}
}

func TestParseJSONInvalid(t *testing.T) {
	if _, err := ParseJSON([]byte("not json")); err == nil {
		t.Error("ParseJSON on garbage input returned nil error")
	}
}
