package formatter

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/CaptShanks/arrayprism/internal/parser"
	"github.com/CaptShanks/arrayprism/internal/reconcile"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		mode   OutputMode
		want   string
	}{
		{"empty auto", nil, OutputAuto, "[]"},
		{"empty number", []string{}, OutputNumber, "[]"},
		{"auto numeric", []string{"1", "-2", "3.5"}, OutputAuto, "[\n  1,\n  -2,\n  3.5\n]"},
		{"auto mixed", []string{"1", "a"}, OutputAuto, "[\n  \"1\",\n  \"a\"\n]"},
		{"force string", []string{"1", "2"}, OutputString, "[\n  \"1\",\n  \"2\"\n]"},
		{"force number", []string{"a", "b"}, OutputNumber, "[\n  a,\n  b\n]"},
		{"escapes", []string{`say "hi"`, `a\b`, "<tag>"}, OutputString, "[\n  \"say \\\"hi\\\"\",\n  \"a\\\\b\",\n  \"<tag>\"\n]"},
		{"huge integer", []string{"123456789012345678901234567890"}, OutputAuto, "[\n  123456789012345678901234567890\n]"},
		{"quoted token is not numeric", []string{`"12"`}, OutputAuto, "[\n  \"\\\"12\\\"\"\n]"},
		{"number mode is verbatim", []string{`"12"`}, OutputNumber, "[\n  \"12\"\n]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.tokens, tt.mode); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAllNumeric(t *testing.T) {
	tests := []struct {
		tokens []string
		want   bool
	}{
		{[]string{"1", "22", "-3"}, true},
		{[]string{"1.5", "0.25"}, true},
		{[]string{"1."}, false},
		{[]string{".5"}, false},
		{[]string{"1e5"}, false},
		{[]string{"1", "x"}, false},
		{[]string{""}, false},
		{[]string{`"1"`}, false},
	}
	for _, tt := range tests {
		if got := AllNumeric(tt.tokens); got != tt.want {
			t.Errorf("AllNumeric(%v) = %v, want %v", tt.tokens, got, tt.want)
		}
	}
}

func TestParseOutputMode(t *testing.T) {
	for in, want := range map[string]OutputMode{
		"":       OutputAuto,
		"auto":   OutputAuto,
		"String": OutputString,
		"number": OutputNumber,
	} {
		got, err := ParseOutputMode(in)
		if err != nil || got != want {
			t.Errorf("ParseOutputMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseOutputMode("hex"); !errors.Is(err, ErrUnknownOutputMode) {
		t.Errorf("expected ErrUnknownOutputMode, got %v", err)
	}
}

func TestRoundTripStringMode(t *testing.T) {
	inputs := []string{
		`["a", "b,c", "1", "say \"hi\""]`,
		"x, y\nz",
		"1,2,3",
		"[9223372036854775807, 9223372036854775808]",
		"[1.5, true, null]",
		"[1,2",
	}
	for _, in := range inputs {
		first := parser.Parse(in)
		again := parser.Parse(Format(first, OutputString))
		if diff := cmp.Diff(first, again); diff != "" {
			t.Errorf("string round trip of %q changed tokens (-first +again):\n%s", in, diff)
		}
	}
}

func TestRoundTripNumberMode(t *testing.T) {
	inputs := []string{
		"1,2,3",
		"[9223372036854775807, 9223372036854775808]",
		"-5\n10\n123456789012345678901234567890",
		"[1.5, 2.25]",
	}
	for _, in := range inputs {
		first := parser.Parse(in)
		again := parser.Parse(Format(first, OutputNumber))
		if diff := cmp.Diff(first, again); diff != "" {
			t.Errorf("number round trip of %q changed tokens (-first +again):\n%s", in, diff)
		}
	}
}

func TestRoundTripAutoMode(t *testing.T) {
	inputs := []string{
		`"1","2`,
		`"1", "2"x`,
		"'5', 6",
		`"x",1`,
		`"1"`,
		"1,2,3",
		"[1.5, -2]",
		"a, b\nb",
		"[1,2",
	}
	for _, in := range inputs {
		first := parser.Parse(in)
		again := parser.Parse(Format(first, OutputAuto))
		if diff := cmp.Diff(first, again); diff != "" {
			t.Errorf("auto round trip of %q changed tokens (-first +again):\n%s", in, diff)
		}
	}
}

func TestFallbackQuotedTokensStayStrings(t *testing.T) {
	tokens := parser.Parse(`"1","2`)
	if diff := cmp.Diff([]string{`"1"`, `"2`}, tokens); diff != "" {
		t.Fatalf("parse (-want +got):\n%s", diff)
	}
	if AllNumeric(tokens) {
		t.Error("tokens carrying quotes must not count as numeric")
	}
	want := "[\n  \"\\\"1\\\"\",\n  \"\\\"2\"\n]"
	if got := Format(tokens, OutputAuto); got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestLargeIntegerRoundTrip(t *testing.T) {
	tokens := parser.Parse("[9223372036854775807, 9223372036854775808]")
	got := Format(tokens, OutputNumber)
	want := "[\n  9223372036854775807,\n  9223372036854775808\n]"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestPipelineScenarios(t *testing.T) {
	t.Run("diff left only", func(t *testing.T) {
		left := parser.Parse("1,2,3")
		right := parser.Parse("[2,3,4]")
		if diff := cmp.Diff([]string{"1", "2", "3"}, left); diff != "" {
			t.Fatalf("left parse (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"2", "3", "4"}, right); diff != "" {
			t.Fatalf("right parse (-want +got):\n%s", diff)
		}
		result, err := reconcile.Reconcile(left, right, reconcile.ModeDiffLeftOnly)
		if err != nil {
			t.Fatal(err)
		}
		if got := Format(result, OutputAuto); got != "[\n  1\n]" {
			t.Errorf("Format() = %q, want %q", got, "[\n  1\n]")
		}
	})

	t.Run("merge dedup strings", func(t *testing.T) {
		result, err := reconcile.Reconcile(parser.Parse("a, b\nb"), parser.Parse(""), reconcile.ModeMergeDedup)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]string{"a", "b"}, result); diff != "" {
			t.Fatalf("reconcile (-want +got):\n%s", diff)
		}
		want := "[\n  \"a\",\n  \"b\"\n]"
		if got := Format(result, OutputAuto); got != want {
			t.Errorf("Format() = %q, want %q", got, want)
		}
	})
}
