package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// splitPattern separates fallback tokens on commas and newlines
var splitPattern = regexp.MustCompile(`[,\n]`)

var errNotArray = errors.New("input is not a JSON array")

// Parse converts array text into a token sequence. It never fails: when the
// text is not a valid JSON array it falls back to splitting on commas and
// newlines. Blank input yields an empty (non-nil) sequence.
func Parse(input string) []string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return []string{}
	}

	if tokens, err := parseJSON(QuoteIntegers(wrapArray(trimmed))); err == nil {
		return tokens
	}

	return Split(trimmed)
}

// Split is the terminal fallback strategy: split on commas and newlines,
// trim each piece and drop the empty ones.
func Split(input string) []string {
	tokens := []string{}
	for _, piece := range splitPattern.Split(input, -1) {
		piece = strings.TrimSpace(piece)
		if piece != "" {
			tokens = append(tokens, piece)
		}
	}
	return tokens
}

// wrapArray treats a lone scalar or bare list as a single array literal
func wrapArray(s string) string {
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		return s
	}
	return "[" + s + "]"
}

// QuoteIntegers rewrites every bare integer literal in array text into a
// quoted string literal so that JSON decoding keeps its exact digits. An
// integer qualifies when it follows '[', ',' or whitespace and is followed by
// optional whitespace and then ',' or ']'. Text inside string literals is
// copied untouched.
func QuoteIntegers(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)

	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}

		if (c == '-' || isDigit(c)) && i > 0 && isIntegerPrefix(s[i-1]) {
			if end, ok := integerEnd(s, i); ok {
				b.WriteByte('"')
				b.WriteString(s[i:end])
				b.WriteByte('"')
				i = end - 1
				continue
			}
		}

		b.WriteByte(c)
	}

	return b.String()
}

// integerEnd reports where the integer literal starting at i ends, provided
// it is terminated by optional whitespace and then ',' or ']'.
func integerEnd(s string, i int) (int, bool) {
	j := i
	if s[j] == '-' {
		j++
	}
	start := j
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	if j == start {
		return 0, false
	}

	k := j
	for k < len(s) && isSpace(s[k]) {
		k++
	}
	if k < len(s) && (s[k] == ',' || s[k] == ']') {
		return j, true
	}
	return 0, false
}

func isIntegerPrefix(c byte) bool {
	return c == '[' || c == ',' || isSpace(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// parseJSON decodes a JSON array and coerces every element to a string
func parseJSON(s string) ([]string, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var items []any
	if err := dec.Decode(&items); err != nil {
		return nil, err
	}
	if items == nil {
		return nil, errNotArray
	}
	// Reject trailing content after the array literal
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after array")
	}

	tokens := make([]string, 0, len(items))
	for _, item := range items {
		tokens = append(tokens, Stringify(item))
	}
	return tokens, nil
}

// Stringify renders a decoded JSON value the way a JavaScript String() call
// would for scalars. Nested values are rendered as compact JSON.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return val.String()
		}
		return FormatNumber(f)
	case float64:
		return FormatNumber(val)
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(val); err != nil {
			return ""
		}
		return strings.TrimSuffix(buf.String(), "\n")
	}
}

// FormatNumber formats a float with the shortest representation, switching to
// exponent notation only outside [1e-6, 1e21) in magnitude.
func FormatNumber(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 0) {
		if f > 0 {
			return "Infinity"
		}
		return "-Infinity"
	}
	if f == 0 {
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
