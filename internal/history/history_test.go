package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingFileIsEmptySet(t *testing.T) {
	set, err := Load(filepath.Join(t.TempDir(), "nope.log"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(set) != 0 {
		t.Fatalf("expected empty set, got %d entries", len(set))
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.log")
	set := Set{}
	set.Add("t3_abc")
	set.Add("t3_def")

	if err := Save(path, set, 200); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.Contains("t3_abc") || !got.Contains("t3_def") {
		t.Fatalf("round trip lost entries: %v", got)
	}
}

func TestSave_TrimsToLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.log")
	set := Set{}
	for i := 0; i < 300; i++ {
		set.Add(fmt.Sprintf("t3_%05d", i))
	}
	if err := Save(path, set, 200); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) > 200 {
		t.Fatalf("expected at most 200 lines, got %d", len(lines))
	}
}

func TestLoad_SkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.log")
	if err := os.WriteFile(path, []byte("t3_a\n\n  \nt3_b\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	set, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(set) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(set))
	}
}
