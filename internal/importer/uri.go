package importer

import (
	"fmt"
	"net/url"
	"strings"
)

// ResolveFileURI converts a file:// URI into a filesystem path.
// Percent-escapes are decoded once. When the path carries a
// drive-letter colon ("/C:/clips/a.mp4"), the leading separator left
// over from the URI form is stripped so the result is a usable
// Windows path.
func ResolveFileURI(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse URI %q: %w", raw, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported URI scheme %q", u.Scheme)
	}

	path := u.Path
	if path == "" {
		return "", fmt.Errorf("empty path in URI %q", raw)
	}
	if path[0] == '/' && strings.Contains(path, ":") {
		path = path[1:]
	}
	return path, nil
}
