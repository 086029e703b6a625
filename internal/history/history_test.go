package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/CaptShanks/arrayprism/internal/tool"
)

func newTestStore(t *testing.T, now time.Time) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "saved"))
	s.now = func() time.Time { return now }
	return s
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"merged_array.txt", "merged-array"},
		{"my file", "my-file"},
		{"a/b\\c:d", "a-b-c-d"},
		{"", "output"},
		{".txt", "output"},
		{strings.Repeat("x", 40), strings.Repeat("x", 30)},
	}
	for _, tt := range tests {
		if got := sanitizeName(tt.in); got != tt.want {
			t.Errorf("sanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerateFilename(t *testing.T) {
	ts := time.Date(2024, 1, 9, 10, 30, 0, 0, time.Local)
	got := GenerateFilename(ts, tool.Merge, "merged_array.txt")
	want := "2024-01-09_10-30-00_merge_merged-array.txt"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSaveAndList(t *testing.T) {
	now := time.Date(2024, 1, 9, 10, 30, 0, 0, time.Local)
	s := newTestStore(t, now)

	path, err := s.Save(tool.Diff, "array_diff.txt", "[\n  1\n]")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Base(path) != "2024-01-09_10-30-00_diff_array-diff.txt" {
		t.Errorf("unexpected filename %q", filepath.Base(path))
	}

	s.now = func() time.Time { return now.Add(time.Minute) }
	if _, err := s.Save(tool.URLs, "url_processed.txt", "[]"); err != nil {
		t.Fatal(err)
	}

	entries, err := s.List("")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Tool != tool.URLs || entries[1].Tool != tool.Diff {
		t.Errorf("entries not newest first: %+v", entries)
	}

	content, err := s.Read(entries[1])
	if err != nil {
		t.Fatal(err)
	}
	if content != "[\n  1\n]" {
		t.Errorf("got %q", content)
	}

	diffs, err := s.List(tool.Diff)
	if err != nil {
		t.Fatal(err)
	}
	if len(diffs) != 1 || diffs[0].Name != "array-diff" {
		t.Errorf("filtered list = %+v", diffs)
	}
}

func TestSaveSameSecondDoesNotOverwrite(t *testing.T) {
	s := newTestStore(t, time.Date(2024, 1, 9, 10, 30, 0, 0, time.Local))
	first, err := s.Save(tool.Convert, "output.txt", "one")
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Save(tool.Convert, "output.txt", "two")
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatalf("second save reused %q", first)
	}
	entries, _ := s.List("")
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}
}

func TestSaveUnknownTool(t *testing.T) {
	s := newTestStore(t, time.Now())
	if _, err := s.Save(tool.Kind("shuffle"), "x", "y"); err == nil {
		t.Error("expected error for unknown tool")
	}
}

func TestListMissingDir(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nope"))
	entries, err := s.List("")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries", len(entries))
	}
}

func TestListSkipsForeignFiles(t *testing.T) {
	s := newTestStore(t, time.Now())
	if err := os.MkdirAll(s.Dir(), 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "2024-01-09_10-30-00_plan_x.txt", "2024-01-09_10-30-00_merge_x.log"} {
		if err := os.WriteFile(filepath.Join(s.Dir(), name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := s.List("")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected foreign files to be skipped, got %+v", entries)
	}
}

func TestCleanupAndClear(t *testing.T) {
	start := time.Date(2024, 1, 9, 10, 0, 0, 0, time.Local)
	s := newTestStore(t, start)
	for i := 0; i < 5; i++ {
		s.now = func() time.Time { return start.Add(time.Duration(i) * time.Hour) }
		if _, err := s.Save(tool.Merge, "merged_array.txt", "[]"); err != nil {
			t.Fatal(err)
		}
	}

	if removed, err := s.Cleanup(0); err != nil || removed != 0 {
		t.Errorf("Cleanup(0) = %d, %v", removed, err)
	}

	removed, err := s.Cleanup(2)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 3 {
		t.Errorf("removed %d, want 3", removed)
	}
	entries, _ := s.List("")
	if len(entries) != 2 || entries[0].Timestamp.Hour() != 14 {
		t.Errorf("expected the two newest to survive, got %+v", entries)
	}

	cleared, err := s.Clear()
	if err != nil || cleared != 2 {
		t.Errorf("Clear() = %d, %v", cleared, err)
	}
}

func TestFormatEntry(t *testing.T) {
	ts := time.Date(2024, 1, 9, 10, 30, 0, 0, time.Local)
	e := Entry{Timestamp: ts, Tool: tool.JWT, Name: "jwt-decoded"}
	got := FormatEntry(e, ts.Add(3*time.Hour))
	if !strings.HasPrefix(got, "2024-01-09 10:30:00  jwt") {
		t.Errorf("unexpected prefix: %q", got)
	}
	if !strings.HasSuffix(got, "3 hours ago") {
		t.Errorf("expected relative age, got %q", got)
	}
}
