package tui

import (
	"github.com/charmbracelet/glamour"

	"github.com/CaptShanks/arrayprism/internal/tool"
)

const generalHelp = `# Array Prism

Small tools for cleaning up arrays, URLs and tokens. Everything runs locally
and recomputes as you type.

## Menu

| Key | Action |
|-----|--------|
| ` + "`j` `k`" + ` | move |
| ` + "`1`-`5`" + ` | open a tool |
| ` + "`/`" + ` | filter tools |
| ` + "`q`" + ` | quit |

## Tool screens

| Key | Action |
|-----|--------|
| ` + "`tab`" + ` | next field |
| ` + "`ctrl+r`" + ` | cycle mode |
| ` + "`ctrl+o`" + ` | cycle output format |
| ` + "`ctrl+y`" + ` | copy output |
| ` + "`ctrl+s`" + ` | save output |
| ` + "`ctrl+l`" + ` | clear inputs |
| ` + "`ctrl+g`" + ` | help |
| ` + "`esc`" + ` | back to menu |

## Input formats

Arrays can be pasted as JSON (` + "`[1, \"a\", 2]`" + `), as comma separated
values (` + "`1, 2, 3`" + `) or one value per line. Integers keep every digit,
so IDs longer than 16 digits compare and print exactly.
`

var toolHelpDocs = map[tool.Kind]string{
	tool.Merge: `# Array Merger

Concatenates the first array and the second array.

* **remove duplicates** (` + "`ctrl+r`" + `) keeps only the first occurrence of each value.
* **output** (` + "`ctrl+o`" + `): *auto* prints numbers unquoted when every value is numeric,
  *string* always quotes, *number* never quotes.

Saved as ` + "`merged_array.txt`" + ` by default.
`,
	tool.Diff: `# Array Diff

Compares values by exact text.

* **only in first**: values of the first array missing from the second
* **only in second**: values of the second array missing from the first
* **in either, not both**: the two lists above, first then second

Duplicates are kept. ` + "`ctrl+r`" + ` cycles the mode, ` + "`ctrl+o`" + ` the output format.
`,
	tool.Convert: `# String Converter

Turns every non-empty line into an element of a JSON string array.
Surrounding whitespace is trimmed and quotes are escaped.
`,
	tool.URLs: `# URL Parameter Extractor

Collects the value of one query parameter (default ` + "`sku`" + `) from a list of URLs.

* Only the **first URL per endpoint** (scheme, host and path) counts, even when
  that URL does not carry the parameter.
* Values are percent-decoded and trimmed.
* Entries that are not absolute URLs are skipped.
`,
	tool.JWT: `# JWT Decoder

Decodes the header and payload of a JSON Web Token. The signature is **not**
verified.

Timestamps such as ` + "`exp`" + ` and ` + "`iat`" + ` are shown as UTC dates.
`,
}

// renderMarkdown renders help text for the terminal, falling back to the raw
// markdown when glamour fails.
func renderMarkdown(md string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(glamourStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// helpMarkdown returns the help for a tool, or the general help
func helpMarkdown(kind tool.Kind) string {
	if md, ok := toolHelpDocs[kind]; ok {
		return md + "\n---\n\n" + generalHelp
	}
	return generalHelp
}
