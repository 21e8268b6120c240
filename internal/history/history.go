// Package history persists the set of opened item identifiers, one per
// line, at a per-user cache location.
package history

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Set holds visited item fullnames.
type Set map[string]struct{}

// Load reads a history file. A missing file yields an empty set.
func Load(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Set{}, nil
		}
		return nil, fmt.Errorf("opening history: %w", err)
	}
	defer f.Close()

	set := Set{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			set[line] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return set, nil
}

// Save writes the set back, at most limit entries. Which entries survive a
// trim is arbitrary (map order); the file is a recency hint, not a record.
func Save(path string, set Set, limit int) error {
	var sb strings.Builder
	n := 0
	for id := range set {
		if limit > 0 && n >= limit {
			break
		}
		sb.WriteString(id)
		sb.WriteByte('\n')
		n++
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	return nil
}

// Add marks an identifier as visited.
func (s Set) Add(id string) { s[id] = struct{}{} }

// Contains reports whether an identifier was visited.
func (s Set) Contains(id string) bool {
	_, ok := s[id]
	return ok
}
