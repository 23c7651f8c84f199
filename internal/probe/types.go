package probe

import "context"

// Result is the structured outcome of probing one media file. HasVideo
// and HasAudio are the required classification inputs; the remaining
// fields describe the primary streams. Extra collects backend fields
// that have no dedicated slot.
//
// Cover art embedded in audio files (attached pictures) does not count
// as a video stream, otherwise tagged MP3s would classify as video.
type Result struct {
	HasVideo   bool
	HasAudio   bool
	Duration   float64
	Width      int
	Height     int
	VideoCodec string
	AudioCodec string
	FrameRate  string
	Channels   int
	SampleRate int
	Format     string
	FileSize   int64
	Extra      map[string]string
}

// Prober opens a media file through a decoding backend and extracts
// technical metadata without playback. Implementations return an error
// for any file they cannot open or parse; the importer maps every such
// error to a rejection.
type Prober interface {
	Probe(ctx context.Context, path string) (*Result, error)
}
