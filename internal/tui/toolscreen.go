package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CaptShanks/arrayprism/internal/formatter"
	"github.com/CaptShanks/arrayprism/internal/reconcile"
	"github.com/CaptShanks/arrayprism/internal/tool"
)

// field identifies an editable input on a tool screen
type field int

const (
	fieldLeft field = iota
	fieldRight
	fieldParam
	fieldFile
)

// toolAction tells the root model what the tool screen wants
type toolAction int

const (
	toolNone toolAction = iota
	toolBack
	toolQuit
	toolHelp
)

// clipboardMsg reports the outcome of an async clipboard write
type clipboardMsg struct{ err error }

// savedMsg reports the outcome of saving the output
type savedMsg struct {
	path string
	err  error
}

// saveFunc persists an output and returns where it was written
type saveFunc func(kind tool.Kind, name, content string) (string, error)

// toolModel is the interactive screen for one tool
type toolModel struct {
	info   tool.Info
	runner *tool.Runner
	save   saveFunc

	left  textarea.Model
	right textarea.Model
	param textinput.Model
	file  textinput.Model

	fields []field
	focus  int

	dedup  bool
	mode   reconcile.Mode
	output formatter.OutputMode

	result   tool.Result
	viewport viewport.Model
	help     help.Model

	status    string
	statusErr bool
	width     int
	height    int
}

func newTextarea(placeholder string) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.Prompt = ""
	return ta
}

func newToolModel(info tool.Info, runner *tool.Runner, save saveFunc, req tool.Request) toolModel {
	m := toolModel{
		info:   info,
		runner: runner,
		save:   save,
		dedup:  req.Dedup,
		mode:   req.Mode,
		output: req.Output,
		help:   help.New(),
	}
	if m.output == "" {
		m.output = formatter.OutputAuto
	}
	if info.Kind == tool.Diff && !isDiffMode(m.mode) {
		m.mode = reconcile.ModeDiffLeftOnly
	}

	m.right = newTextarea("Second array")
	switch info.Kind {
	case tool.Merge, tool.Diff:
		m.left = newTextarea("First array: [1, 2, 3] or one value per line")
		m.fields = []field{fieldLeft, fieldRight, fieldFile}
	case tool.Convert:
		m.left = newTextarea("One value per line")
		m.fields = []field{fieldLeft, fieldFile}
	case tool.URLs:
		m.left = newTextarea("URLs, one per line or as a JSON array")
		m.fields = []field{fieldLeft, fieldParam, fieldFile}
	case tool.JWT:
		m.left = newTextarea("Paste a JWT")
		m.fields = []field{fieldLeft, fieldFile}
	}
	m.left.SetValue(req.Left)
	if m.hasField(fieldRight) {
		m.right.SetValue(req.Right)
	}

	m.param = textinput.New()
	m.param.Prompt = ""
	m.param.Placeholder = "sku"
	m.param.CharLimit = 64
	m.param.SetValue(req.Param)

	m.file = textinput.New()
	m.file.Prompt = ""
	m.file.CharLimit = 128
	m.file.SetValue(info.DownloadName)

	m.viewport = viewport.New(0, 0)
	m.focusField(0)
	m.recompute()
	return m
}

func (m toolModel) hasField(f field) bool {
	for _, x := range m.fields {
		if x == f {
			return true
		}
	}
	return false
}

func (m toolModel) hasMode() bool   { return m.info.Kind == tool.Merge || m.info.Kind == tool.Diff }
func (m toolModel) hasOutput() bool { return m.hasMode() }

// request collects the current inputs
func (m toolModel) request() tool.Request {
	req := tool.Request{
		Left:   m.left.Value(),
		Dedup:  m.dedup,
		Mode:   m.mode,
		Output: m.output,
		Param:  strings.TrimSpace(m.param.Value()),
	}
	if m.hasField(fieldRight) {
		req.Right = m.right.Value()
	}
	return req
}

// recompute re-runs the tool with the current inputs
func (m *toolModel) recompute() {
	m.result = m.runner.Run(m.info.Kind, m.request())
	m.refreshOutput()
}

func (m *toolModel) refreshOutput() {
	var content string
	switch {
	case !m.result.OK():
		content = ""
	case m.result.Token != nil:
		content = RenderToken(m.result, m.viewport.Width)
	case m.result.Output != "":
		content = ColorizeJSON(m.result.Output)
	default:
		content = mutedColor.Italic(true).Render("Output appears here as you type")
	}
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
}

func (m *toolModel) focusField(i int) tea.Cmd {
	m.focus = (i + len(m.fields)) % len(m.fields)
	m.left.Blur()
	m.right.Blur()
	m.param.Blur()
	m.file.Blur()

	switch m.fields[m.focus] {
	case fieldLeft:
		return m.left.Focus()
	case fieldRight:
		return m.right.Focus()
	case fieldParam:
		return m.param.Focus()
	default:
		return m.file.Focus()
	}
}

func (m *toolModel) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	inner := max(20, width-4)
	inputHeight := max(3, (height-14)/3)

	if m.hasField(fieldRight) {
		half := inner/2 - 4
		m.left.SetWidth(half)
		m.right.SetWidth(half)
		m.right.SetHeight(inputHeight)
	} else {
		m.left.SetWidth(inner - 4)
	}
	m.left.SetHeight(inputHeight)
	m.param.Width = 24
	m.file.Width = 32

	// header, borders, options line, status line and footer
	m.viewport.Width = inner
	m.viewport.Height = max(3, height-inputHeight-14)
	m.refreshOutput()
}

func (m *toolModel) flash(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{err: clipboard.WriteAll(text)}
	}
}

func (m toolModel) saveCmd() tea.Cmd {
	save, kind, name, content := m.save, m.info.Kind, strings.TrimSpace(m.file.Value()), m.result.Output
	if name == "" {
		name = m.info.DownloadName
	}
	return func() tea.Msg {
		path, err := save(kind, name, content)
		return savedMsg{path: path, err: err}
	}
}

func (m toolModel) update(msg tea.Msg) (toolModel, tea.Cmd, toolAction) {
	switch msg := msg.(type) {
	case clipboardMsg:
		if msg.err != nil {
			m.flash("Failed to copy to clipboard", true)
		} else {
			m.flash("Copied to clipboard", false)
		}
		return m, nil, toolNone

	case savedMsg:
		if msg.err != nil {
			m.flash(fmt.Sprintf("Save failed: %v", msg.err), true)
		} else {
			m.flash("Saved to "+msg.path, false)
		}
		return m, nil, toolNone

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd, toolNone

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil, toolNone
}

func (m toolModel) handleKey(msg tea.KeyMsg) (toolModel, tea.Cmd, toolAction) {
	switch {
	case key.Matches(msg, keys.ForceQuit):
		return m, nil, toolQuit
	case key.Matches(msg, keys.Back):
		return m, nil, toolBack
	case key.Matches(msg, keys.ToolHelp):
		return m, nil, toolHelp
	case key.Matches(msg, keys.NextField):
		cmd := m.focusField(m.focus + 1)
		return m, cmd, toolNone
	case key.Matches(msg, keys.PrevField):
		cmd := m.focusField(m.focus - 1)
		return m, cmd, toolNone

	case key.Matches(msg, keys.CycleMode) && m.hasMode():
		m.cycleMode()
		m.recompute()
		return m, nil, toolNone

	case key.Matches(msg, keys.CycleOutput) && m.hasOutput():
		m.output = nextOutputMode(m.output)
		m.recompute()
		return m, nil, toolNone

	case key.Matches(msg, keys.Copy):
		if m.result.Output == "" {
			m.flash("Nothing to copy", true)
			return m, nil, toolNone
		}
		return m, copyCmd(m.result.Output), toolNone

	case key.Matches(msg, keys.Save):
		if m.result.Output == "" {
			m.flash("Nothing to save", true)
			return m, nil, toolNone
		}
		return m, m.saveCmd(), toolNone

	case key.Matches(msg, keys.Clear):
		m.left.Reset()
		m.right.Reset()
		m.flash("", false)
		m.recompute()
		return m, nil, toolNone

	case key.Matches(msg, keys.ScrollUp):
		m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height/2)
		return m, nil, toolNone
	case key.Matches(msg, keys.ScrollDown):
		m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height/2)
		return m, nil, toolNone
	}

	before := m.request()
	var cmd tea.Cmd
	switch m.fields[m.focus] {
	case fieldLeft:
		m.left, cmd = m.left.Update(msg)
	case fieldRight:
		m.right, cmd = m.right.Update(msg)
	case fieldParam:
		m.param, cmd = m.param.Update(msg)
	case fieldFile:
		m.file, cmd = m.file.Update(msg)
	}
	if m.request() != before {
		m.status = ""
		m.recompute()
	}
	return m, cmd, toolNone
}

// cycleMode toggles dedup for merge and steps through the diff modes
func (m *toolModel) cycleMode() {
	if m.info.Kind == tool.Merge {
		m.dedup = !m.dedup
		return
	}
	for i, mode := range reconcile.DiffModes {
		if mode == m.mode {
			m.mode = reconcile.DiffModes[(i+1)%len(reconcile.DiffModes)]
			return
		}
	}
	m.mode = reconcile.DiffModes[0]
}

func isDiffMode(mode reconcile.Mode) bool {
	for _, m := range reconcile.DiffModes {
		if m == mode {
			return true
		}
	}
	return false
}

func nextOutputMode(current formatter.OutputMode) formatter.OutputMode {
	for i, mode := range formatter.OutputModes {
		if mode == current {
			return formatter.OutputModes[(i+1)%len(formatter.OutputModes)]
		}
	}
	return formatter.OutputAuto
}

func (m toolModel) boxed(f field, title, body string) string {
	border, label := sectionBorderStyle, labelStyle
	if m.fields[m.focus] == f {
		border, label = focusedBorderStyle, focusedLabelStyle
	}
	return label.Render(title) + "\n" + border.Render(body)
}

func (m toolModel) viewOptions() string {
	var parts []string
	switch m.info.Kind {
	case tool.Merge:
		dedup := "off"
		if m.dedup {
			dedup = "on"
		}
		parts = append(parts, "remove duplicates: "+optionStyle.Render(dedup))
	case tool.Diff:
		parts = append(parts, "mode: "+optionStyle.Render(m.mode.Label()))
	}
	if m.hasOutput() {
		parts = append(parts, "output: "+optionStyle.Render(string(m.output)))
	}
	if m.hasField(fieldParam) {
		parts = append(parts, m.inlineField(fieldParam, "parameter", m.param.View()))
	}
	parts = append(parts, m.inlineField(fieldFile, "save as", m.file.View()))
	return strings.Join(parts, mutedColor.Render("  •  "))
}

func (m toolModel) inlineField(f field, title, view string) string {
	label := labelStyle
	if m.fields[m.focus] == f {
		label = focusedLabelStyle
	}
	return label.Render(title+": ") + view
}

func (m toolModel) view() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("◆ " + m.info.Title))
	b.WriteString("\n")

	if m.hasField(fieldRight) {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			m.boxed(fieldLeft, "First array", m.left.View()),
			"  ",
			m.boxed(fieldRight, "Second array", m.right.View()),
		))
	} else {
		b.WriteString(m.boxed(fieldLeft, "Input", m.left.View()))
	}
	b.WriteString("\n")
	b.WriteString(m.viewOptions())
	b.WriteString("\n")

	switch {
	case !m.result.OK():
		b.WriteString(errorStyle.Render("✗ " + m.result.Err))
	case m.status != "" && m.statusErr:
		b.WriteString(errorStyle.Render(m.status))
	case m.status != "":
		b.WriteString(successStyle.Render("✓ " + m.status))
	}
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Output"))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.help.View(toolKeyMap{hasMode: m.hasMode(), hasOutput: m.hasOutput()}))
	return b.String()
}
