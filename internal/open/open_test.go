package open

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"https", "https://example.com/x", false},
		{"http", "http://example.com", false},
		{"padded", "  https://example.com  ", false},
		{"empty", "", true},
		{"scheme", "ftp://example.com", true},
		{"no host", "https://", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Validate(tc.url)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate(%q) err=%v, wantErr=%v", tc.url, err, tc.wantErr)
			}
		})
	}
}

func TestViewerFor(t *testing.T) {
	if v := ViewerFor("video/webm"); v[0] != "mpv" {
		t.Fatalf("video should use mpv, got %v", v)
	}
	if v := ViewerFor("image/png"); v[0] != "feh" {
		t.Fatalf("image should use feh, got %v", v)
	}
	if v := ViewerFor(""); strings.Contains(v[0], "mpv") || strings.Contains(v[0], "feh") {
		t.Fatalf("no content type should fall back to browser, got %v", v)
	}
	if v := ViewerFor("application/pdf"); strings.Contains(v[0], "mpv") {
		t.Fatalf("unhandled type should fall back to browser, got %v", v)
	}
}
