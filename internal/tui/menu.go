package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CaptShanks/arrayprism/internal/tool"
)

// menuAction tells the root model what the menu wants
type menuAction int

const (
	menuNone menuAction = iota
	menuOpen
	menuQuit
	menuHelp
)

// menuModel lists the tools with an inline fuzzy filter
type menuModel struct {
	filtered  []tool.Info
	cursor    int
	searching bool
	query     string
}

func newMenu() menuModel {
	return menuModel{filtered: tool.All}
}

// fuzzyMatch reports whether the query's characters appear in order in text
func fuzzyMatch(text, query string) bool {
	text = strings.ToLower(text)
	query = strings.ToLower(query)
	if query == "" {
		return true
	}
	qi := 0
	for i := 0; i < len(text) && qi < len(query); i++ {
		if text[i] == query[qi] {
			qi++
		}
	}
	return qi == len(query)
}

func (m *menuModel) filter() {
	terms := strings.Fields(m.query)
	m.filtered = nil
	for _, info := range tool.All {
		searchable := info.Title + " " + string(info.Kind)
		matched := true
		for _, term := range terms {
			if !fuzzyMatch(searchable, term) {
				matched = false
				break
			}
		}
		if matched {
			m.filtered = append(m.filtered, info)
		}
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
}

// selected returns the tool under the cursor
func (m menuModel) selected() (tool.Info, bool) {
	if len(m.filtered) == 0 {
		return tool.Info{}, false
	}
	return m.filtered[m.cursor], true
}

func (m menuModel) update(msg tea.KeyMsg) (menuModel, menuAction) {
	if m.searching {
		m.searching, m.query = updateSearch(msg, m.searching, m.query)
		m.filter()
		return m, menuNone
	}

	switch {
	case key.Matches(msg, keys.Search):
		m.searching = true
	case key.Matches(msg, keys.Quit):
		return m, menuQuit
	case key.Matches(msg, keys.Back):
		if m.query == "" {
			return m, menuQuit
		}
		m.query = ""
		m.filter()
	case key.Matches(msg, keys.Help):
		return m, menuHelp
	case key.Matches(msg, keys.Select):
		if _, ok := m.selected(); ok {
			return m, menuOpen
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Top):
		m.cursor = 0
	case key.Matches(msg, keys.Bottom):
		m.cursor = max(0, len(m.filtered)-1)
	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '9':
		// Number keys jump straight to a tool
		if i := int(msg.Runes[0] - '1'); i < len(m.filtered) {
			m.cursor = i
			return m, menuOpen
		}
	}
	return m, menuNone
}

func (m menuModel) view() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("◆ Array Prism - Array & Token Toolkit"))
	b.WriteString("\n")

	if len(m.filtered) == 0 {
		b.WriteString(mutedColor.Italic(true).Render(fmt.Sprintf("  No tools match '%s'", m.query)))
		b.WriteString("\n")
	}

	for i, info := range m.filtered {
		line := fmt.Sprintf("%d. %-24s %s", i+1, info.Title, info.Description)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + summaryStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.searching || m.query != "" {
		b.WriteString(searchFooter(m.searching, m.query, len(m.filtered), len(tool.All)))
	} else {
		b.WriteString(mutedColor.Render("j/k: navigate  1-5/enter: open  /: search  ?: help  q: quit"))
	}
	return b.String()
}
