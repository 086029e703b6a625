// Package formatter serializes token sequences back into JSON array text.
// Number arrays are assembled by hand so that integers of any length are
// emitted exactly as typed.
package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// OutputMode selects the array representation
type OutputMode string

const (
	OutputAuto   OutputMode = "auto"
	OutputString OutputMode = "string"
	OutputNumber OutputMode = "number"
)

// OutputModes is the ordered list of output modes, used by option pickers
var OutputModes = []OutputMode{OutputAuto, OutputString, OutputNumber}

// ErrUnknownOutputMode is returned by ParseOutputMode for unsupported names
var ErrUnknownOutputMode = errors.New("unknown output mode")

const indent = "  "

var numericPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// ParseOutputMode resolves an output mode name. Empty means auto.
func ParseOutputMode(s string) (OutputMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return OutputAuto, nil
	case "string", "strings", "forcestring":
		return OutputString, nil
	case "number", "numbers", "forcenumber":
		return OutputNumber, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOutputMode, s)
}

// Format renders tokens as a JSON array. An empty sequence is always "[]".
func Format(tokens []string, mode OutputMode) string {
	if len(tokens) == 0 {
		return "[]"
	}

	switch mode {
	case OutputString:
		return StringArray(tokens)
	case OutputNumber:
		return NumberArray(tokens)
	default:
		if AllNumeric(tokens) {
			return NumberArray(tokens)
		}
		return StringArray(tokens)
	}
}

// AllNumeric reports whether every token is an integer or plain decimal
func AllNumeric(tokens []string) bool {
	for _, t := range tokens {
		if !numericPattern.MatchString(t) {
			return false
		}
	}
	return true
}

// StringArray renders tokens as a JSON string array with a two-space indent
func StringArray(tokens []string) string {
	if len(tokens) == 0 {
		return "[]"
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(tokens); err != nil {
		// []string always encodes; keep the hand-built form as a last resort
		return handJoin(tokens, quote)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// NumberArray renders tokens verbatim and unquoted, one per line, without
// ever passing them through a numeric type.
func NumberArray(tokens []string) string {
	if len(tokens) == 0 {
		return "[]"
	}
	return handJoin(tokens, verbatim)
}

func handJoin(tokens []string, render func(string) string) string {
	var b strings.Builder
	b.WriteString("[\n")
	for i, t := range tokens {
		b.WriteString(indent)
		b.WriteString(render(t))
		if i < len(tokens)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("]")
	return b.String()
}

func quote(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}

func verbatim(s string) string { return s }
