package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"tasker/internal/config"
	"tasker/internal/storage"
	"tasker/internal/tasks"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	listShare     = 30
)

var (
	listStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("3")).
			Padding(0, 1)
	detailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("2")).
			Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	labelStyle    = lipgloss.NewStyle().Bold(true)
	focusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Faint(true)
)

type Model struct {
	session *tasks.Session
	logger  *log.Logger
	keys    keyMap
	help    help.Model
	width   int
	height  int
	status  string
	warn    bool
}

// New builds the model around an already loaded session.
func New(session *tasks.Session, keys config.Keymap, logger *log.Logger) Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return Model{
		session: session,
		logger:  logger,
		keys:    newKeyMap(keys),
		help:    help.New(),
		width:   defaultWidth,
		height:  defaultHeight,
		status:  "Press 'a' to add, space to toggle, 'd' to delete.",
	}
}

// Run takes over the terminal until the user quits.
func Run(session *tasks.Session, cfg config.Config, logger *log.Logger) error {
	program := tea.NewProgram(New(session, cfg.Keys, logger), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.session.InputActive() {
			return m.updateInputMode(msg)
		}
		return m.updateListMode(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m Model) updateListMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Clear):
		m.session.ClearSelection()
	case key.Matches(msg, m.keys.Next):
		m.session.Next()
	case key.Matches(msg, m.keys.Previous):
		m.session.Previous()
	case key.Matches(msg, m.keys.First):
		m.session.First()
	case key.Matches(msg, m.keys.Last):
		m.session.Last()
	case key.Matches(msg, m.keys.Toggle):
		if _, ok := m.session.Selected(); !ok {
			m.setStatus("No task selected")
			return m, nil
		}
		m.report(m.session.ToggleSelected(), "Toggled task")
	case key.Matches(msg, m.keys.Delete):
		t, ok := m.session.SelectedTask()
		if !ok {
			m.setStatus("No task selected")
			return m, nil
		}
		m.report(m.session.DeleteSelected(), fmt.Sprintf("Deleted %q", t.Title))
	case key.Matches(msg, m.keys.Add):
		m.session.OpenAdd()
		m.setStatus("New task: type a title, tab for description, enter to save, esc to cancel")
	case key.Matches(msg, m.keys.Edit):
		if !m.session.OpenEdit() {
			m.setStatus("No task selected")
			return m, nil
		}
		m.setStatus("Editing task: enter to save, esc to cancel")
	}
	return m, nil
}

func (m Model) updateInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.session.Cancel()
		m.setStatus("Cancelled")
	case key.Matches(msg, m.keys.Confirm):
		res, err := m.session.Confirm()
		switch res {
		case tasks.Cancelled:
			m.setStatus("Title cannot be empty")
		case tasks.Edited:
			m.report(err, "Saved task")
		default:
			m.report(err, "Added task")
		}
	case key.Matches(msg, m.keys.SwitchField):
		m.session.SwitchField()
	case key.Matches(msg, m.keys.Backspace):
		m.session.Backspace()
	case msg.Type == tea.KeyRunes:
		m.session.InsertText(string(msg.Runes))
	case msg.Type == tea.KeySpace:
		m.session.InsertText(" ")
	}
	return m, nil
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.warn = false
}

// report turns a mutation result into the status line. Save failures keep
// the program running with the in-memory list.
func (m *Model) report(err error, ok string) {
	if err == nil {
		m.setStatus(ok)
		return
	}
	var pe *storage.PersistError
	if errors.As(err, &pe) {
		m.status = fmt.Sprintf("Warning: not saved (%v); changes kept for this session", pe.Err)
	} else {
		m.status = fmt.Sprintf("Warning: %v", err)
	}
	m.warn = true
	m.logger.Warn("mutation not persisted", "err", err)
}

func (m Model) View() string {
	width, height := m.width, m.height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	keys := m.keys
	keys.modal = m.session.InputActive()
	footer := m.renderStatus() + "\n" + m.help.View(keys)
	bodyHeight := max(height-lipgloss.Height(footer), 3)

	leftWidth := max(width*listShare/100, 16)
	rightWidth := max(width-leftWidth, 16)

	left := listStyle.
		Width(leftWidth - listStyle.GetHorizontalBorderSize()).
		Height(bodyHeight - listStyle.GetVerticalBorderSize()).
		Render(m.renderTaskList(leftWidth - listStyle.GetHorizontalFrameSize()))

	var rightBody string
	if m.session.InputActive() {
		rightBody = m.renderInput()
	} else {
		rightBody = m.renderDetail()
	}
	right := detailStyle.
		Width(rightWidth - detailStyle.GetHorizontalBorderSize()).
		Height(bodyHeight - detailStyle.GetVerticalBorderSize()).
		Render(rightBody)

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		footer,
	)
}

func (m Model) renderStatus() string {
	if m.warn {
		return warnStyle.Render(m.status)
	}
	return dimStyle.Render(m.status)
}

func (m Model) renderTaskList(inner int) string {
	list := m.session.Tasks()
	if len(list) == 0 {
		return dimStyle.Render("No tasks yet. Press 'a' to add one.")
	}
	sel, hasSel := m.session.Selected()
	line := lipgloss.NewStyle().MaxWidth(max(inner, 1))

	var b strings.Builder
	for i, t := range list {
		cursor := " "
		if hasSel && sel == i && !m.session.InputActive() {
			cursor = ">"
		}
		checkbox := "[ ]"
		if t.Done {
			checkbox = "[x]"
		}
		title := t.Title
		if t.Done {
			title = doneStyle.Render(title)
		}
		row := fmt.Sprintf("%s %s %s", cursor, checkbox, title)
		if hasSel && sel == i {
			row = selectedStyle.Render(row)
		}
		b.WriteString(line.Render(row))
		if i < len(list)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderDetail() string {
	t, ok := m.session.SelectedTask()
	if !ok {
		return dimStyle.Render("No task selected")
	}
	var b strings.Builder
	b.WriteString(labelStyle.Render("Title") + "\n")
	b.WriteString(t.Title + "\n\n")
	b.WriteString(labelStyle.Render("Status") + "\n")
	b.WriteString(humanDone(t.Done) + "\n\n")
	b.WriteString(labelStyle.Render("Description") + "\n")
	b.WriteString(emptyPlaceholder(t.Description))
	return b.String()
}

func (m Model) renderInput() string {
	in := m.session.Input()
	heading := "New task"
	if in.Target >= 0 {
		heading = fmt.Sprintf("Edit task %d", in.Target+1)
	}
	field := func(label, value string, focused bool) string {
		if focused {
			return focusStyle.Render("> "+label) + "\n" + value + "█"
		}
		return labelStyle.Render("  "+label) + "\n" + value
	}
	return strings.Join([]string{
		labelStyle.Render(heading),
		"",
		field("Title", in.Title, in.State == tasks.EditingTitle),
		"",
		field("Description", in.Description, in.State == tasks.EditingDescription),
	}, "\n")
}

func emptyPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(empty)"
	}
	return v
}

func humanDone(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}
