package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/CaptShanks/arrayprism/internal/history"
	"github.com/CaptShanks/arrayprism/internal/tool"
	"github.com/CaptShanks/arrayprism/internal/updater"
)

type screen int

const (
	screenMenu screen = iota
	screenTool
	screenHelp
)

// Options configures the interactive app
type Options struct {
	Runner *tool.Runner
	// Store receives outputs saved with ctrl+s; nil disables saving
	Store    *history.Store
	MaxSaved int
	Logger   *zap.Logger
	// Checker drives the update nudge; nil disables it
	Checker *updater.Checker
	// Start opens a tool directly instead of the menu
	Start   tool.Kind
	Request tool.Request
}

// UpdateAvailableMsg is sent when an update check finds a newer version.
type UpdateAvailableMsg struct {
	Version string
}

// Model is the root bubbletea model: a tool menu, one tool screen at a time
// and a help page.
type Model struct {
	opts   Options
	logger *zap.Logger

	screen     screen
	helpReturn screen
	menu       menuModel
	tool       toolModel
	helpView   viewport.Model

	width  int
	height int
	ready  bool

	updateAvailable string
}

// NewModel creates the root model
func NewModel(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Runner == nil {
		opts.Runner = tool.NewRunner(opts.Logger)
	}
	m := Model{
		opts:     opts,
		logger:   opts.Logger,
		screen:   screenMenu,
		menu:     newMenu(),
		helpView: viewport.New(0, 0),
	}
	if info, ok := tool.Lookup(opts.Start); ok {
		m.openTool(info, opts.Request)
	}
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	if m.opts.Checker == nil {
		return nil
	}
	return checkUpdateCmd(m.opts.Checker)
}

// checkUpdateCmd runs an async update check and sends UpdateAvailableMsg if an update is available.
func checkUpdateCmd(c *updater.Checker) tea.Cmd {
	return func() tea.Msg {
		latest, hasUpdate, err := c.CheckLatestWithCache()
		if err != nil || !hasUpdate {
			return nil
		}
		return UpdateAvailableMsg{Version: latest}
	}
}

func (m *Model) openTool(info tool.Info, req tool.Request) {
	m.tool = newToolModel(info, m.opts.Runner, m.save, req)
	m.screen = screenTool
	if m.ready {
		m.tool.resize(m.width-4, m.contentHeight())
	}
	m.logger.Debug("tool opened", zap.String("tool", string(info.Kind)))
}

// save writes an output to the store and prunes the oldest saved outputs
func (m Model) save(kind tool.Kind, name, content string) (string, error) {
	if m.opts.Store == nil {
		return "", fmt.Errorf("saving is disabled")
	}
	path, err := m.opts.Store.Save(kind, name, content)
	if err != nil {
		return "", err
	}
	if removed, err := m.opts.Store.Cleanup(m.opts.MaxSaved); err != nil {
		m.logger.Warn("failed to prune saved outputs", zap.Error(err))
	} else if removed > 0 {
		m.logger.Debug("pruned saved outputs", zap.Int("removed", removed))
	}
	return path, nil
}

func (m *Model) openHelp() {
	kind := tool.Kind("")
	if m.screen == screenTool {
		kind = m.tool.info.Kind
	}
	m.helpReturn = m.screen
	m.screen = screenHelp
	m.helpView.SetContent(renderMarkdown(helpMarkdown(kind), m.helpView.Width))
	m.helpView.GotoTop()
}

// contentHeight is the space left below the update nudge
func (m Model) contentHeight() int {
	h := m.height - 2
	if m.updateAvailable != "" {
		h--
	}
	return h
}

func (m *Model) layout() {
	m.helpView.Width = m.width - 4
	m.helpView.Height = max(3, m.contentHeight()-2)
	if m.screen == screenTool || m.helpReturn == screenTool {
		m.tool.resize(m.width-4, m.contentHeight())
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case UpdateAvailableMsg:
		m.updateAvailable = msg.Version
		if m.ready {
			m.layout()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		if m.screen == screenHelp {
			m.openHelpAgain()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.screen == screenTool {
		var cmd tea.Cmd
		m.tool, cmd, _ = m.tool.update(msg)
		return m, cmd
	}
	if m.screen == screenHelp {
		var cmd tea.Cmd
		m.helpView, cmd = m.helpView.Update(msg)
		return m, cmd
	}
	return m, nil
}

// openHelpAgain re-renders the help page for a new width
func (m *Model) openHelpAgain() {
	ret := m.helpReturn
	m.screen = ret
	m.openHelp()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.ForceQuit) {
		return m, tea.Quit
	}

	switch m.screen {
	case screenHelp:
		switch {
		case key.Matches(msg, keys.Back), key.Matches(msg, keys.Quit),
			key.Matches(msg, keys.Help), key.Matches(msg, keys.ToolHelp):
			m.screen = m.helpReturn
			return m, nil
		}
		var cmd tea.Cmd
		m.helpView, cmd = m.helpView.Update(msg)
		return m, cmd

	case screenTool:
		var (
			cmd    tea.Cmd
			action toolAction
		)
		m.tool, cmd, action = m.tool.update(msg)
		switch action {
		case toolQuit:
			return m, tea.Quit
		case toolBack:
			m.screen = screenMenu
		case toolHelp:
			m.openHelp()
		}
		return m, cmd
	}

	var action menuAction
	m.menu, action = m.menu.update(msg)
	switch action {
	case menuQuit:
		return m, tea.Quit
	case menuHelp:
		m.openHelp()
	case menuOpen:
		if info, ok := m.menu.selected(); ok {
			m.openTool(info, tool.Request{Output: m.opts.Request.Output, Param: m.opts.Request.Param})
			cmd := m.tool.focusField(0)
			return m, cmd
		}
	}
	return m, nil
}

// viewUpdateNudge renders the update available nudge.
func (m Model) viewUpdateNudge() string {
	if m.updateAvailable == "" {
		return ""
	}
	return "\n" + nudgeStyle.Render(fmt.Sprintf("Update available: v%s. Run 'arrayprism upgrade' to update.", m.updateAvailable))
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	switch m.screen {
	case screenTool:
		b.WriteString(m.tool.view())
	case screenHelp:
		b.WriteString(headerStyle.Render("◆ Help"))
		b.WriteString("\n")
		b.WriteString(m.helpView.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓: scroll  esc: back"))
	default:
		b.WriteString(m.menu.view())
	}
	b.WriteString(m.viewUpdateNudge())
	return appStyle.Render(b.String())
}

// Run starts the interactive app in the alternate screen
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
