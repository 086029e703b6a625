// Package token decodes JSON Web Tokens for inspection. Signatures are never
// verified; the decoder only makes the header and payload readable.
package token

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/CaptShanks/arrayprism/internal/parser"
)

var (
	// ErrMalformed is returned when the token does not have three segments
	ErrMalformed = errors.New("invalid JWT format")
	// ErrSegment is returned when a header or payload segment cannot be decoded
	ErrSegment = errors.New("invalid JWT segment")
)

// timestampThreshold is the smallest number rendered as a date
const timestampThreshold = 1e9

// Token is a decoded JWT
type Token struct {
	Header  map[string]any `json:"header"`
	Payload map[string]any `json:"payload"`

	// segment JSON as sent, so output keeps the token's claim order
	rawHeader  json.RawMessage
	rawPayload json.RawMessage
}

// Row is one line of the explanation table
type Row struct {
	Field       string
	Value       string
	Explanation string
}

// Decode splits a compact JWT and decodes its header and payload. Blank input
// returns a nil token and no error.
func Decode(raw string) (*Token, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformed, len(parts))
	}

	header, rawHeader, err := decodeSegment(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrSegment, err)
	}
	payload, rawPayload, err := decodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrSegment, err)
	}

	return &Token{
		Header:     header,
		Payload:    payload,
		rawHeader:  rawHeader,
		rawPayload: rawPayload,
	}, nil
}

// JSON renders the decoded token as indented JSON. Claims of a decoded token
// appear in the order the token lists them.
func (t *Token) JSON() (string, error) {
	out := struct {
		Header  any `json:"header"`
		Payload any `json:"payload"`
	}{orderedOr(t.rawHeader, t.Header), orderedOr(t.rawPayload, t.Payload)}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return "", fmt.Errorf("encoding token: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// orderedOr prefers the raw segment JSON over the decoded map
func orderedOr(raw json.RawMessage, claims map[string]any) any {
	if len(raw) > 0 {
		return raw
	}
	return claims
}

func decodeSegment(seg string) (map[string]any, json.RawMessage, error) {
	data, ok := tryBase64Variants(stripWhitespace(seg))
	if !ok {
		return nil, nil, errors.New("not base64")
	}
	if !json.Valid(data) {
		return nil, nil, errors.New("not valid JSON")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, nil, err
	}
	if obj == nil {
		return nil, nil, errors.New("not a JSON object")
	}
	return obj, json.RawMessage(bytes.TrimSpace(data)), nil
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}

func tryBase64Variants(s string) ([]byte, bool) {
	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.RawURLEncoding,
	}

	for _, enc := range encodings {
		if decoded, err := enc.DecodeString(s); err == nil {
			return decoded, true
		}
	}
	return nil, false
}

type field struct {
	name        string
	explanation string
	// formatted fields render arrays and timestamps; the rest are plain strings
	formatted bool
}

var headerFields = []field{
	{name: "alg", explanation: "the algorithm used for signing the JWT"},
	{name: "typ", explanation: `always set to "JWT"`},
}

var payloadFields = []field{
	{name: "token_type"},
	{name: "exp", explanation: "the expiration time after which JWT must not be accepted", formatted: true},
	{name: "iat", explanation: "the time at which the JWT was issued", formatted: true},
	{name: "jti", explanation: "unique identifier of the token even among different issuers"},
	{name: "id"},
	{name: "email"},
	{name: "first_name"},
	{name: "last_name"},
	{name: "role", formatted: true},
}

// registered claims that are not part of the fixed table
var claimExplanations = map[string]string{
	"iss": "the issuer of the JWT",
	"sub": "the subject of the JWT",
	"aud": "the recipients the JWT is intended for",
	"nbf": "the time before which the JWT must not be accepted",
	"kid": "identifier of the key used to sign the JWT",
}

// Explain lists the header fields followed by the known payload claims with
// their meaning. Payload rows with empty values are dropped. Claims outside
// the fixed table are appended in name order.
func (t *Token) Explain() []Row {
	if t == nil {
		return nil
	}

	var rows []Row
	for _, f := range headerFields {
		rows = append(rows, Row{Field: f.name, Value: PlainValue(t.Header[f.name]), Explanation: f.explanation})
	}
	rows = append(rows, extraRows(t.Header, headerFields)...)

	for _, f := range payloadFields {
		var value string
		if f.formatted {
			value = FormatValue(t.Payload[f.name])
		} else {
			value = PlainValue(t.Payload[f.name])
		}
		if value == "" {
			continue
		}
		rows = append(rows, Row{Field: f.name, Value: value, Explanation: f.explanation})
	}
	rows = append(rows, extraRows(t.Payload, payloadFields)...)

	return rows
}

func extraRows(claims map[string]any, known []field) []Row {
	names := make([]string, 0, len(claims))
	for name := range claims {
		if !isKnown(name, known) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var rows []Row
	for _, name := range names {
		value := FormatValue(claims[name])
		if value == "" {
			continue
		}
		rows = append(rows, Row{Field: name, Value: value, Explanation: claimExplanations[name]})
	}
	return rows
}

func isKnown(name string, fields []field) bool {
	for _, f := range fields {
		if f.name == name {
			return true
		}
	}
	return false
}

// FormatValue renders a claim for display. Arrays become "[a, b]" and
// numbers above one billion are treated as Unix seconds and shown as an
// RFC 3339 UTC timestamp with milliseconds.
func FormatValue(v any) string {
	switch val := v.(type) {
	case []any:
		items := make([]string, len(val))
		for i, item := range val {
			if item != nil {
				items[i] = parser.Stringify(item)
			}
		}
		return "[" + strings.Join(items, ", ") + "]"
	case json.Number:
		if f, err := val.Float64(); err == nil && f > timestampThreshold {
			return formatTimestamp(f)
		}
	case float64:
		if val > timestampThreshold {
			return formatTimestamp(val)
		}
	}
	return PlainValue(v)
}

// PlainValue renders a claim as text. Missing and falsy values (null, false,
// zero, empty string) render as the empty string.
func PlainValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case bool:
		if !val {
			return ""
		}
	case string:
		return val
	case json.Number:
		if f, err := val.Float64(); err == nil && f == 0 {
			return ""
		}
	case float64:
		if val == 0 {
			return ""
		}
	}
	return parser.Stringify(v)
}

func formatTimestamp(seconds float64) string {
	return time.UnixMilli(int64(seconds * 1000)).UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
