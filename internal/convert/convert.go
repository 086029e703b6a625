// Package convert turns line-oriented text into a JSON string array.
package convert

import (
	"path/filepath"
	"strings"

	"github.com/CaptShanks/arrayprism/internal/formatter"
)

// DefaultDownloadName is used when no uploaded file name is known
const DefaultDownloadName = "output.txt"

// Lines returns the trimmed, non-empty lines of text
func Lines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// ToStringArray converts every non-empty line into an element of a JSON
// string array. Blank input produces an empty string rather than "[]".
func ToStringArray(text string) string {
	lines := Lines(text)
	if len(lines) == 0 {
		return ""
	}
	return formatter.StringArray(lines)
}

// DownloadName derives the output file name for an uploaded file:
// "ids.csv" becomes "ids_converted.txt".
func DownloadName(uploaded string) string {
	base := filepath.Base(strings.TrimSpace(uploaded))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return DefaultDownloadName
	}
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	if base == "" {
		return DefaultDownloadName
	}
	return base + "_converted.txt"
}
