package importer

import "testing"

func TestResolveFileURI(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		want    string
		wantErr bool
	}{
		{"plain unix path", "file:///media/clips/a.mp4", "/media/clips/a.mp4", false},
		{"percent escapes decoded once", "file:///media/my%20clips/a%25b.mp4", "/media/my clips/a%b.mp4", false},
		{"windows drive letter", "file:///C:/clips/a.mp4", "C:/clips/a.mp4", false},
		{"unix path with colon in name", "file:///media/12:30.mp4", "media/12:30.mp4", false},
		{"http scheme rejected", "http://example.com/a.mp4", "", true},
		{"empty path", "file://", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveFileURI(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveFileURI(%q) error = %v, wantErr %v", tt.uri, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveFileURI(%q) = %q, want %q", tt.uri, got, tt.want)
			}
		})
	}
}
