// Package open dispatches a resolved link to an external viewer chosen by
// content type.
package open

import (
	"bytes"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// ViewerFor returns the external program (and leading args) for a content
// type. An empty type, or one with no dedicated viewer, falls back to the
// system browser.
func ViewerFor(contentType string) []string {
	switch {
	case contentType == "":
		return browserCommand()
	case strings.HasPrefix(contentType, "video/"):
		return []string{"mpv", "--really-quiet"}
	case strings.HasPrefix(contentType, "image/"):
		return []string{"feh", "--auto-zoom"}
	default:
		return browserCommand()
	}
}

// Link validates and launches a URL in the viewer for its content type.
// The viewer runs detached; its exit status is not tracked.
func Link(rawURL, contentType string) error {
	u, err := Validate(rawURL)
	if err != nil {
		return err
	}
	viewer := ViewerFor(contentType)
	if len(viewer) == 0 {
		return fmt.Errorf("no viewer available")
	}
	if _, err := exec.LookPath(viewer[0]); err != nil {
		// Viewer not installed; fall back to the browser.
		viewer = browserCommand()
		if len(viewer) == 0 || viewer[0] == "" {
			return fmt.Errorf("no browser available")
		}
	}
	cmd := exec.Command(viewer[0], append(viewer[1:], u)...)
	return cmd.Start()
}

// Validate checks that a URL is a plausible http(s) link.
func Validate(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("empty URL")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid URL format")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("invalid URL host")
	}
	return trimmed, nil
}

func browserCommand() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler"}
	default:
		return []string{"xdg-open"}
	}
}

// CopyToClipboard puts a URL on the system clipboard using whichever
// clipboard tool is installed.
func CopyToClipboard(url string) error {
	commands := [][]string{
		{"pbcopy"},
		{"xclip", "-selection", "clipboard"},
		{"wl-copy"},
	}
	for _, c := range commands {
		if _, err := exec.LookPath(c[0]); err != nil {
			continue
		}
		cmd := exec.Command(c[0], c[1:]...)
		cmd.Stdin = bytes.NewBufferString(url)
		if err := cmd.Run(); err == nil {
			return nil
		}
	}
	return fmt.Errorf("no clipboard command available")
}
