package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/CaptShanks/arrayprism/internal/history"
)

// PickerModel is a TUI for selecting a saved output
type PickerModel struct {
	allEntries []history.Entry // Original unfiltered list
	filtered   []history.Entry // Filtered list based on search
	cursor     int
	selected   string // Path of selected entry
	quitting   bool
	height     int
	width      int
	now        time.Time

	// Search state
	searching   bool
	searchQuery string
}

// NewPickerModel creates a new saved output picker
func NewPickerModel(entries []history.Entry) PickerModel {
	return PickerModel{
		allEntries: entries,
		filtered:   entries,
		now:        time.Now(),
	}
}

// SelectedPath returns the path of the selected entry (empty if cancelled)
func (m PickerModel) SelectedPath() string {
	return m.selected
}

func (m PickerModel) Init() tea.Cmd {
	return nil
}

// filterEntries filters entries based on search query
// Supports fzf-style multi-term matching: "diff jan" matches all terms (AND)
func (m *PickerModel) filterEntries() {
	terms := strings.Fields(strings.ToLower(m.searchQuery))
	if len(terms) == 0 {
		m.filtered = m.allEntries
		return
	}

	var results []history.Entry
	for _, entry := range m.allEntries {
		searchable := strings.ToLower(
			string(entry.Tool) + " " +
				entry.Name + " " +
				entry.Timestamp.Format("2006-01-02 15:04 Jan Mon"),
		)
		if matchesAll(searchable, terms) {
			results = append(results, entry)
		}
	}

	m.filtered = results
	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
}

// matchesAll reports whether every term occurs in text (AND logic, like fzf)
func matchesAll(text string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(text, term) {
			return false
		}
	}
	return true
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			m.searching, m.searchQuery = updateSearch(msg, m.searching, m.searchQuery)
			m.filterEntries()
			return m, nil
		}

		switch {
		case key.Matches(msg, keys.Search):
			m.searching = true

		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Back):
			if m.searchQuery != "" {
				m.searchQuery = ""
				m.filterEntries()
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Select):
			if len(m.filtered) > 0 {
				m.selected = m.filtered[m.cursor].Path
			}
			m.quitting = true
			return m, tea.Quit

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
		}
	}
	return m, nil
}

// updateSearch applies a key to an inline search query
func updateSearch(msg tea.KeyMsg, searching bool, query string) (bool, string) {
	switch msg.Type {
	case tea.KeyEsc:
		return false, ""
	case tea.KeyEnter:
		return false, query
	case tea.KeyBackspace:
		if len(query) > 0 {
			r := []rune(query)
			query = string(r[:len(r)-1])
		}
	case tea.KeyRunes:
		query += string(msg.Runes)
	case tea.KeySpace:
		query += " "
	}
	return searching, query
}

func (m PickerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Select a saved output to view"))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("     SAVED                TOOL      NAME                      AGE"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(strings.Repeat("─", 80)))
	b.WriteString("\n")

	if len(m.filtered) == 0 {
		if m.searchQuery != "" {
			b.WriteString(mutedColor.Italic(true).Render(fmt.Sprintf("  No results for '%s'", m.searchQuery)))
		} else {
			b.WriteString(mutedColor.Italic(true).Render("  No saved outputs"))
		}
		b.WriteString("\n")
	}

	for i, entry := range m.filtered {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		name := entry.Name
		if len(name) > 24 {
			name = name[:21] + "..."
		}

		line := fmt.Sprintf("%s%2d  %s  %-8s  %-24s  %s",
			cursor,
			i+1,
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.Tool,
			name,
			humanize.RelTime(entry.Timestamp, m.now, "ago", "from now"),
		)

		if i == m.cursor {
			// Pad the line for full-width highlight
			if len(line) < 80 {
				line += strings.Repeat(" ", 80-len(line))
			}
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(summaryStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(searchFooter(m.searching, m.searchQuery, len(m.filtered), len(m.allEntries)))

	return b.String()
}

// searchFooter renders the search bar or the key help
func searchFooter(searching bool, query string, shown, total int) string {
	if searching {
		return searchStyle.Render("/ ") + query + "█"
	}
	if query != "" {
		return searchStyle.Render(fmt.Sprintf("Filter: %s", query)) +
			mutedColor.Render(fmt.Sprintf("  (%d/%d)", shown, total)) + "\n" +
			mutedColor.Render("j/k: navigate  enter: select  esc: clear filter  q: cancel")
	}
	return mutedColor.Render("j/k: navigate  /: search  enter: select  q: cancel")
}

// RunPicker runs the interactive saved output picker and returns the selected path
func RunPicker(entries []history.Entry) (string, error) {
	m := NewPickerModel(entries)
	p := tea.NewProgram(m)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	return finalModel.(PickerModel).SelectedPath(), nil
}
