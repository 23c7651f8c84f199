// Package classify assigns a media type to a probed file. The decision
// is pure: it looks only at the prober's capability flags and the file
// extension, never at the filesystem.
package classify

import (
	"strings"

	"github.com/clipforge/media-import-pipeline/pkg/pipeline"
)

// Extensions treated as still or animated images. A file whose reader
// reports video but whose extension is in this set (a GIF, for example)
// is classified image, not video.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".svg":  true,
	".thm":  true,
	".gif":  true,
	".pgm":  true,
	".tif":  true,
	".tiff": true,
}

// IsImageExtension reports whether path has an image suffix,
// case-insensitively.
func IsImageExtension(path string) bool {
	lower := strings.ToLower(path)
	dot := strings.LastIndexByte(lower, '.')
	if dot < 0 {
		return false
	}
	return imageExtensions[lower[dot:]]
}

// MediaTypeFor resolves the media type from the prober's capability
// flags and the image-extension predicate. The chain is a deliberate
// precedence, evaluated strictly in order:
//
//	video stream, non-image extension  -> video
//	video stream, image extension      -> image
//	audio stream, no video stream      -> audio
//
// Anything else is unclassifiable and ok is false; there is no default
// type.
func MediaTypeFor(hasVideo, hasAudio, isImage bool) (pipeline.MediaType, bool) {
	switch {
	case hasVideo && !isImage:
		return pipeline.MediaTypeVideo, true
	case hasVideo && isImage:
		return pipeline.MediaTypeImage, true
	case hasAudio && !hasVideo:
		return pipeline.MediaTypeAudio, true
	default:
		return "", false
	}
}
