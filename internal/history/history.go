// Package history manages saved tool outputs, the terminal equivalent of a
// download. Files live in one directory and encode their metadata in the
// name: YYYY-MM-DD_HH-MM-SS_<tool>_<name>.txt
package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/CaptShanks/arrayprism/internal/tool"
)

const (
	timestampLayout = "2006-01-02_15-04-05"
	maxNameLength   = 30
	defaultName     = "output"
)

// Entry represents a saved output file
type Entry struct {
	Path      string
	Timestamp time.Time
	Tool      tool.Kind
	Name      string
	Filename  string
}

// Store reads and writes saved outputs in a directory
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates a Store rooted at dir. The directory is created on the
// first Save.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the directory holding saved outputs
func (s *Store) Dir() string { return s.dir }

// Save writes content for a tool and returns the new file's path. name is
// usually the tool's download name; its extension is dropped.
func (s *Store) Save(kind tool.Kind, name, content string) (string, error) {
	if _, ok := tool.Lookup(kind); !ok {
		return "", fmt.Errorf("unknown tool: %s", kind)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create saved directory: %w", err)
	}

	base := fmt.Sprintf("%s_%s_%s", s.now().Format(timestampLayout), kind, sanitizeName(name))
	path := filepath.Join(s.dir, base+".txt")
	// Two saves within one second get a numeric suffix on the name
	for i := 2; fileExists(path); i++ {
		path = filepath.Join(s.dir, fmt.Sprintf("%s-%d.txt", base, i))
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write saved output: %w", err)
	}
	return path, nil
}

// GenerateFilename returns the file name Save would use at t, ignoring collisions
func GenerateFilename(t time.Time, kind tool.Kind, name string) string {
	return fmt.Sprintf("%s_%s_%s.txt", t.Format(timestampLayout), kind, sanitizeName(name))
}

// sanitizeName makes a name safe for filenames.
// Underscores MUST be replaced since they're used as filename delimiters.
func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	replacer := strings.NewReplacer(
		"_", "-",
		" ", "-",
		"/", "-",
		"\\", "-",
		":", "-",
		".", "-",
	)
	name = replacer.Replace(name)

	if len(name) > maxNameLength {
		name = name[:maxNameLength]
	}
	if name == "" {
		name = defaultName
	}
	return name
}

// List returns saved outputs sorted newest first, optionally limited to one tool
func (s *Store) List(filterTool tool.Kind) ([]Entry, error) {
	files, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read saved directory: %w", err)
	}

	entries := []Entry{}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".txt") {
			continue
		}

		entry, err := parseFilename(f.Name())
		if err != nil {
			continue // not one of ours
		}
		if filterTool != "" && entry.Tool != filterTool {
			continue
		}

		entry.Path = filepath.Join(s.dir, f.Name())
		entry.Filename = f.Name()
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].Filename > entries[j].Filename
		}
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	return entries, nil
}

// parseFilename parses YYYY-MM-DD_HH-MM-SS_<tool>_<name>.txt
func parseFilename(filename string) (Entry, error) {
	base := strings.TrimSuffix(filename, ".txt")
	parts := strings.Split(base, "_")
	if len(parts) != 4 {
		return Entry{}, fmt.Errorf("invalid filename format")
	}

	timestamp, err := time.ParseInLocation(timestampLayout, parts[0]+"_"+parts[1], time.Local)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid timestamp: %w", err)
	}

	kind := tool.Kind(parts[2])
	if _, ok := tool.Lookup(kind); !ok {
		return Entry{}, fmt.Errorf("unknown tool: %s", parts[2])
	}

	return Entry{
		Timestamp: timestamp,
		Tool:      kind,
		Name:      parts[3],
	}, nil
}

// Read returns the content of a saved output
func (s *Store) Read(e Entry) (string, error) {
	data, err := os.ReadFile(e.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read saved output: %w", err)
	}
	return string(data), nil
}

// Cleanup keeps the newest max entries and removes the rest. A max of zero
// or less keeps everything.
func (s *Store) Cleanup(max int) (int, error) {
	if max <= 0 {
		return 0, nil
	}
	entries, err := s.List("")
	if err != nil {
		return 0, err
	}
	if len(entries) <= max {
		return 0, nil
	}
	return removeAll(entries[max:])
}

// Clear removes every saved output and returns how many were deleted
func (s *Store) Clear() (int, error) {
	entries, err := s.List("")
	if err != nil {
		return 0, err
	}
	return removeAll(entries)
}

func removeAll(entries []Entry) (int, error) {
	removed := 0
	for _, e := range entries {
		if err := os.Remove(e.Path); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", e.Filename, err)
		}
		removed++
	}
	return removed, nil
}

// FormatEntry formats an entry for display, with its age relative to now
func FormatEntry(e Entry, now time.Time) string {
	name := e.Name
	// Truncate long names for display
	if len(name) > 24 {
		name = name[:21] + "..."
	}

	return fmt.Sprintf("%s  %-8s  %-24s  %s",
		e.Timestamp.Format("2006-01-02 15:04:05"),
		e.Tool,
		name,
		humanize.RelTime(e.Timestamp, now, "ago", "from now"),
	)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
