package tui

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"

	"github.com/CaptShanks/arrayprism/internal/token"
	"github.com/CaptShanks/arrayprism/internal/tool"
)

var (
	numberPattern = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)
	keyPattern    = regexp.MustCompile(`^("(?:[^"\\]|\\.)*")(:\s*)(.*)$`)
)

// EnableColor forces color output even when not a TTY (for piping)
func EnableColor() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

// PrintResult writes a tool result with colors (non-interactive mode)
func PrintResult(w io.Writer, info tool.Info, res tool.Result, width int) error {
	if !res.OK() {
		_, err := fmt.Fprintln(w, errorStyle.Render("Error: "+res.Err))
		return err
	}
	if res.Output == "" {
		return nil
	}

	var out string
	if res.Token != nil {
		out = RenderToken(res, width)
	} else {
		out = ColorizeJSON(res.Output)
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

// ColorizeJSON applies syntax highlighting to indented JSON output, one line
// at a time.
func ColorizeJSON(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = colorizeLine(line)
	}
	return strings.Join(lines, "\n")
}

func colorizeLine(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	indent := line[:len(line)-len(trimmed)]

	if match := keyPattern.FindStringSubmatch(trimmed); match != nil {
		return indent + fieldStyle.Render(match[1]) + match[2] + colorizeValue(match[3])
	}
	return indent + colorizeValue(trimmed)
}

// colorizeValue highlights one JSON value with an optional trailing comma
func colorizeValue(value string) string {
	comma := ""
	if strings.HasSuffix(value, ",") {
		value = strings.TrimSuffix(value, ",")
		comma = mutedColor.Render(",")
	}

	switch {
	case value == "":
		return comma
	case value == "[" || value == "]" || value == "{" || value == "}" ||
		value == "[]" || value == "{}" || strings.HasSuffix(value, "{") || strings.HasSuffix(value, "["):
		return mutedColor.Render(value) + comma
	case value == "null":
		return keywordStyle.Italic(true).Render(value) + comma
	case value == "true" || value == "false":
		return keywordStyle.Render(value) + comma
	case numberPattern.MatchString(value):
		return numberStyle.Render(value) + comma
	case len(value) > 1 && value[0] == '"':
		return stringStyle.Render(value) + comma
	default:
		// Number mode may emit bare non-numeric tokens
		return summaryStyle.Render(value) + comma
	}
}

// RenderToken renders a decoded JWT as highlighted JSON followed by the
// explanation table.
func RenderToken(res tool.Result, width int) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Decoded JWT"))
	b.WriteString("\n")
	b.WriteString(ColorizeJSON(res.Output))
	b.WriteString("\n\n")
	b.WriteString(headerStyle.Render("Explanation"))
	b.WriteString("\n")
	b.WriteString(RenderExplanation(res.Token.Explain(), width))
	return b.String()
}

// RenderExplanation lays out explanation rows as a two-column table. Values
// and explanations are word-wrapped to width.
func RenderExplanation(rows []token.Row, width int) string {
	fieldWidth := 0
	for _, r := range rows {
		if len(r.Field) > fieldWidth {
			fieldWidth = len(r.Field)
		}
	}
	pad := strings.Repeat(" ", fieldWidth+2)
	textWidth := width - fieldWidth - 2

	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fieldStyle.Render(fmt.Sprintf("%-*s", fieldWidth, r.Field)))
		b.WriteString("  ")

		value := r.Value
		if value == "" {
			value = "-"
		}
		for j, line := range strings.Split(wrapText(value, textWidth), "\n") {
			if j > 0 {
				b.WriteString("\n" + pad)
			}
			b.WriteString(numberStyle.Render(line))
		}
		if r.Explanation != "" {
			for _, line := range strings.Split(wrapText(r.Explanation, textWidth), "\n") {
				b.WriteString("\n" + pad)
				b.WriteString(mutedColor.Render(line))
			}
		}
	}
	return b.String()
}

func wrapText(s string, width int) string {
	if width <= 10 {
		return s
	}
	return wordwrap.String(s, width)
}
