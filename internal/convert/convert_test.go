package convert

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLines(t *testing.T) {
	got := Lines("  alpha \n\n beta\r\n   \ngamma")
	want := []string{"alpha", "beta", "gamma"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Lines mismatch (-want +got):\n%s", diff)
	}
}

func TestToStringArray(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"blank", " \n ", ""},
		{"single", "a", "[\n  \"a\"\n]"},
		{"multiple", "a\nb\n", "[\n  \"a\",\n  \"b\"\n]"},
		{"numbers stay strings", "1\n2", "[\n  \"1\",\n  \"2\"\n]"},
		{"quotes escaped", `say "hi"`, "[\n  \"say \\\"hi\\\"\"\n]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToStringArray(tt.input); got != tt.want {
				t.Errorf("ToStringArray(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDownloadName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ids.csv", "ids_converted.txt"},
		{"/tmp/data/list.tar.gz", "list_converted.txt"},
		{"noext", "noext_converted.txt"},
		{"", DefaultDownloadName},
		{".hidden", DefaultDownloadName},
	}
	for _, tt := range tests {
		if got := DownloadName(tt.in); got != tt.want {
			t.Errorf("DownloadName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
