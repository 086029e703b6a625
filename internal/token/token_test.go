package token

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func makeToken(enc *base64.Encoding, header, payload string) string {
	return enc.EncodeToString([]byte(header)) + "." + enc.EncodeToString([]byte(payload)) + ".signature"
}

func TestDecode_Blank(t *testing.T) {
	tok, err := Decode("   \n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok != nil {
		t.Errorf("got %+v, want nil", tok)
	}
}

func TestDecode_WrongSegmentCount(t *testing.T) {
	for _, raw := range []string{"abc", "a.b", "a.b.c.d"} {
		if _, err := Decode(raw); !errors.Is(err, ErrMalformed) {
			t.Errorf("Decode(%q) error = %v, want ErrMalformed", raw, err)
		}
	}
}

func TestDecode_BadSegments(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not base64", "!!!.e30.sig"},
		{"not json", base64.RawURLEncoding.EncodeToString([]byte("hello")) + ".e30.sig"},
		{"payload not object", "e30." + base64.RawURLEncoding.EncodeToString([]byte("[1]")) + ".sig"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.raw); !errors.Is(err, ErrSegment) {
				t.Errorf("Decode() error = %v, want ErrSegment", err)
			}
		})
	}
}

func TestDecode_Base64Variants(t *testing.T) {
	header := `{"alg":"HS256","typ":"JWT"}`
	payload := `{"sub":"subject?>>"}`
	for name, enc := range map[string]*base64.Encoding{
		"std":     base64.StdEncoding,
		"url":     base64.URLEncoding,
		"raw std": base64.RawStdEncoding,
		"raw url": base64.RawURLEncoding,
	} {
		t.Run(name, func(t *testing.T) {
			tok, err := Decode(makeToken(enc, header, payload))
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if got := tok.Payload["sub"]; got != "subject?>>" {
				t.Errorf("got %q, want %q", got, "subject?>>")
			}
		})
	}
}

func TestDecode_NumbersKeepPrecision(t *testing.T) {
	raw := makeToken(base64.RawURLEncoding, `{"alg":"none"}`, `{"id":12345678901234567890}`)
	tok, err := Decode(raw)
	if err != nil {
		t.Fatal(err)
	}
	if got, ok := tok.Payload["id"].(json.Number); !ok || got.String() != "12345678901234567890" {
		t.Errorf("got %#v, want json.Number 12345678901234567890", tok.Payload["id"])
	}
}

func TestExplain(t *testing.T) {
	raw := makeToken(base64.RawURLEncoding,
		`{"alg":"HS256","typ":"JWT"}`,
		`{"exp":1700000000,"iat":1600000000,"email":"a@b.c","role":["admin","user"],"id":0,"jti":"","sub":"42","custom":"x"}`)
	tok, err := Decode(raw)
	if err != nil {
		t.Fatal(err)
	}

	want := []Row{
		{Field: "alg", Value: "HS256", Explanation: "the algorithm used for signing the JWT"},
		{Field: "typ", Value: "JWT", Explanation: `always set to "JWT"`},
		{Field: "exp", Value: "2023-11-14T22:13:20.000Z", Explanation: "the expiration time after which JWT must not be accepted"},
		{Field: "iat", Value: "2020-09-13T12:26:40.000Z", Explanation: "the time at which the JWT was issued"},
		{Field: "email", Value: "a@b.c"},
		{Field: "role", Value: "[admin, user]"},
		{Field: "custom", Value: "x"},
		{Field: "sub", Value: "42", Explanation: "the subject of the JWT"},
	}
	if diff := cmp.Diff(want, tok.Explain()); diff != "" {
		t.Errorf("Explain() mismatch (-want +got):\n%s", diff)
	}
}

func TestExplain_HeaderRowsAlwaysPresent(t *testing.T) {
	tok := &Token{Header: map[string]any{}, Payload: map[string]any{}}
	rows := tok.Explain()
	if len(rows) != 2 || rows[0].Field != "alg" || rows[1].Field != "typ" {
		t.Errorf("got %+v, want alg and typ rows", rows)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"small number", json.Number("5"), "5"},
		{"zero", json.Number("0"), ""},
		{"timestamp", json.Number("1000000001"), "2001-09-09T01:46:41.000Z"},
		{"float timestamp", float64(1.5e9), "2017-07-14T02:40:00.000Z"},
		{"threshold is exclusive", json.Number("1000000000"), "1000000000"},
		{"array", []any{"a", json.Number("1"), nil}, "[a, 1, ]"},
		{"string", "hello", "hello"},
		{"false", false, ""},
		{"true", true, "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.in); got != tt.want {
				t.Errorf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestJSON(t *testing.T) {
	tok, err := Decode(makeToken(base64.RawURLEncoding, `{"alg":"HS256"}`, `{"n":1}`))
	if err != nil {
		t.Fatal(err)
	}
	out, err := tok.JSON()
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"header\": {\n    \"alg\": \"HS256\"\n  },\n  \"payload\": {\n    \"n\": 1\n  }\n}"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
	if strings.Contains(out, "\\u") {
		t.Errorf("unexpected escapes in %q", out)
	}
}

func TestJSONKeepsClaimOrder(t *testing.T) {
	tok, err := Decode(makeToken(base64.RawURLEncoding,
		`{"typ":"JWT","alg":"HS256"}`,
		`{"sub":"42", "exp":1700000000,"aud":["a","b"]}`))
	if err != nil {
		t.Fatal(err)
	}
	out, err := tok.JSON()
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"header\": {\n    \"typ\": \"JWT\",\n    \"alg\": \"HS256\"\n  },\n" +
		"  \"payload\": {\n    \"sub\": \"42\",\n    \"exp\": 1700000000,\n    \"aud\": [\n      \"a\",\n      \"b\"\n    ]\n  }\n}"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestDecode_TrailingGarbage(t *testing.T) {
	raw := makeToken(base64.RawURLEncoding, `{"alg":"none"}`, `{"a":1} trailing`)
	if _, err := Decode(raw); !errors.Is(err, ErrSegment) {
		t.Errorf("error = %v, want ErrSegment", err)
	}
}
