package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"blank", "   \n\t ", []string{}},
		{"json strings", `["a", "b", "c"]`, []string{"a", "b", "c"}},
		{"json integers", `[1, 2, 3]`, []string{"1", "2", "3"}},
		{"comma separated", "1,2,3", []string{"1", "2", "3"}},
		{"bare words", "a, b, c", []string{"a", "b", "c"}},
		{"newline separated", "a\nb\n\nc\n", []string{"a", "b", "c"}},
		{"crlf lines", "a\r\nb\r\n", []string{"a", "b"}},
		{"lone scalar", "42", []string{"42"}},
		{"lone quoted scalar", `"x"`, []string{"x"}},
		{"empty array", "[]", []string{}},
		{"negative integers", "[-1, -9223372036854775809]", []string{"-1", "-9223372036854775809"}},
		{"decimals", "[1.5, 2.25, 3.0]", []string{"1.5", "2.25", "3"}},
		{"exponent", "[1e21, 1e-7, 2e3]", []string{"1e+21", "1e-7", "2000"}},
		{"mixed scalars", `[true, null, "x", 7]`, []string{"true", "null", "x", "7"}},
		{"digits inside strings untouched", `["[1, 2]", 3]`, []string{"[1, 2]", "3"}},
		{"escaped quote in string", `["a\"1,", 2]`, []string{`a"1,`, "2"}},
		{"unbalanced falls back", "[1,2", []string{"[1", "2"}},
		{"trailing garbage falls back", "[1] [2]", []string{"[1] [2]"}},
		{"whitespace only lines dropped", "a\n   \nb", []string{"a", "b"}},
		{"multiline json", "[\n  1,\n  2\n]", []string{"1", "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParseLargeIntegers(t *testing.T) {
	got := Parse("[9223372036854775807, 9223372036854775808]")
	want := []string{"9223372036854775807", "9223372036854775808"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("large integers lost precision (-want +got):\n%s", diff)
	}

	// Adjacent integers must each be quoted, not every other one
	got = Parse("[12345678901234567890,12345678901234567891,12345678901234567892]")
	want = []string{"12345678901234567890", "12345678901234567891", "12345678901234567892"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("adjacent integers lost precision (-want +got):\n%s", diff)
	}
}

func TestParseMalformedNeverPanics(t *testing.T) {
	inputs := []string{"[", "]", "[,]", `["unterminated`, "[[1],", "{}", `{"a":1}`, "\\", "[-]"}
	for _, in := range inputs {
		got := Parse(in)
		if got == nil {
			t.Errorf("Parse(%q) returned nil sequence", in)
		}
	}
}

func TestQuoteIntegers(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"[1,2,3]", `["1","2","3"]`},
		{"[ 1 , 2 ]", `[ "1" , "2" ]`},
		{"[1.5, 2]", `[1.5, "2"]`},
		{"[-7]", `["-7"]`},
		{`["1", 2]`, `["1", "2"]`},
		{"[1e5, 3]", `[1e5, "3"]`},
		{"[1 2]", `[1 "2"]`},
	}
	for _, tt := range tests {
		if got := QuoteIntegers(tt.input); got != tt.want {
			t.Errorf("QuoteIntegers(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSplit(t *testing.T) {
	got := Split(" a ,b\n, ,\nc ")
	want := []string{"a", "b", "c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Split mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1.5, "1.5"},
		{-0.25, "-0.25"},
		{100, "100"},
		{1e21, "1e+21"},
		{1.5e-7, "1.5e-7"},
		{0.000001, "0.000001"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
