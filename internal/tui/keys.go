package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	// Lists
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Select key.Binding
	Search key.Binding
	Back   key.Binding
	Quit   key.Binding
	Help   key.Binding

	// Tool screen
	ForceQuit   key.Binding
	NextField   key.Binding
	PrevField   key.Binding
	CycleMode   key.Binding
	CycleOutput key.Binding
	Copy        key.Binding
	Save        key.Binding
	Clear       key.Binding
	ToolHelp    key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
	Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
	Top:    key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
	Bottom: key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
	Select: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
	Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),

	ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	NextField:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	PrevField:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
	CycleMode:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "mode")),
	CycleOutput: key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "output")),
	Copy:        key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy")),
	Save:        key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	Clear:       key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
	ToolHelp:    key.NewBinding(key.WithKeys("ctrl+g", "f1"), key.WithHelp("ctrl+g", "help")),
	ScrollUp:    key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
	ScrollDown:  key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
}

// toolKeyMap adapts the tool screen bindings to bubbles/help. Option keys
// only appear for tools that have options.
type toolKeyMap struct {
	hasMode   bool
	hasOutput bool
}

func (k toolKeyMap) ShortHelp() []key.Binding {
	bindings := []key.Binding{keys.NextField}
	if k.hasMode {
		bindings = append(bindings, keys.CycleMode)
	}
	if k.hasOutput {
		bindings = append(bindings, keys.CycleOutput)
	}
	return append(bindings, keys.Copy, keys.Save, keys.ToolHelp, keys.Back, keys.ForceQuit)
}

func (k toolKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.ShortHelp(),
		{keys.PrevField, keys.Clear, keys.ScrollUp, keys.ScrollDown},
	}
}
