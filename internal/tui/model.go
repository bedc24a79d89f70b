package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/spec-kit/helpdesk-request/internal/attachment"
	"github.com/spec-kit/helpdesk-request/internal/domain"
	"github.com/spec-kit/helpdesk-request/internal/form"
)

type focusField int

const (
	focusDescription focusField = iota
	focusPath
)

// Message types for async operations
type loadDoneMsg struct {
	err error
}

type submitDoneMsg struct {
	result domain.SubmissionResult
	err    error
}

type attachDoneMsg struct {
	result attachment.OfferResult
	err    error
}

// Model is the bubbletea model for one form session.
type Model struct {
	controller *form.Controller

	description textarea.Model
	path        textinput.Model
	spinner     spinner.Model
	help        help.Model
	keys        keyMap

	focus    focusField
	selected int

	// pending is the action started from this model; the controller's busy
	// flag is only raised once the command runs.
	pending form.Action
	status  string
	width   int
}

// NewModel creates a model driving controller.
func NewModel(controller *form.Controller) Model {
	ta := textarea.New()
	ta.Placeholder = "Please describe your request in detail..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(5)
	ta.SetWidth(60)
	ta.SetValue(controller.Description())
	ta.Focus()

	ti := textinput.New()
	ti.Placeholder = "path/to/file.pdf"
	ti.Width = 60

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return Model{
		controller:  controller,
		description: ta,
		path:        ti,
		spinner:     s,
		help:        help.New(),
		keys:        defaultKeyMap(),
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		width := min(max(msg.Width-6, 20), 100)
		m.description.SetWidth(width)
		m.path.Width = width
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if m.pending == form.ActionNone {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadDoneMsg:
		m.pending = form.ActionNone
		return m, nil

	case submitDoneMsg:
		m.pending = form.ActionNone
		if msg.err == nil {
			m.description.Reset()
			m.selected = 0
		}
		return m, nil

	case attachDoneMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.status = ""
		m.path.Reset()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Load):
		return m.startAction(form.ActionLoadUserInfo, loadCmd(m.controller))

	case key.Matches(msg, m.keys.Submit):
		return m.startAction(form.ActionSubmit, submitCmd(m.controller))

	case key.Matches(msg, m.keys.Focus):
		return m.toggleFocus()

	case key.Matches(msg, m.keys.Prev):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case key.Matches(msg, m.keys.Next):
		if m.selected < len(m.controller.Attachments())-1 {
			m.selected++
		}
		return m, nil

	case key.Matches(msg, m.keys.Remove):
		files, _, err := m.controller.RemoveAttachment(context.Background(), m.selected)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		if m.selected >= len(files) && m.selected > 0 {
			m.selected = len(files) - 1
		}
		return m, nil

	case key.Matches(msg, m.keys.Attach) && m.focus == focusPath:
		path := strings.TrimSpace(m.path.Value())
		if path == "" {
			return m, nil
		}
		return m, attachCmd(m.controller, path)
	}

	return m.updateFocused(msg)
}

// startAction ignores the trigger while any action is outstanding, matching
// the controller's single busy flag.
func (m Model) startAction(action form.Action, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if m.pending != form.ActionNone || m.controller.Busy() {
		return m, nil
	}
	m.pending = action
	m.status = ""
	return m, tea.Batch(m.spinner.Tick, cmd)
}

func (m Model) toggleFocus() (tea.Model, tea.Cmd) {
	if m.focus == focusDescription {
		m.focus = focusPath
		m.description.Blur()
		return m, m.path.Focus()
	}
	m.focus = focusDescription
	m.path.Blur()
	return m, m.description.Focus()
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == focusPath {
		m.path, cmd = m.path.Update(msg)
		return m, cmd
	}

	before := m.description.Value()
	m.description, cmd = m.description.Update(msg)
	if after := m.description.Value(); after != before {
		if err := m.controller.SetDescription(after); err != nil {
			m.status = err.Error()
		}
	}
	return m, cmd
}

func loadCmd(c *form.Controller) tea.Cmd {
	return func() tea.Msg {
		return loadDoneMsg{err: c.LoadUserInformation(context.Background())}
	}
}

func submitCmd(c *form.Controller) tea.Cmd {
	return func() tea.Msg {
		result, err := c.Submit(context.Background())
		return submitDoneMsg{result: result, err: err}
	}
}

func attachCmd(c *form.Controller, path string) tea.Cmd {
	return func() tea.Msg {
		candidate, err := attachment.CandidateFromFile(path)
		if err != nil {
			return attachDoneMsg{err: err}
		}
		_, result, err := c.OfferFiles(context.Background(), []domain.FileCandidate{candidate})
		return attachDoneMsg{result: result, err: err}
	}
}

// View renders the form from the controller snapshot.
func (m Model) View() string {
	snap := m.controller.Snapshot()

	var b strings.Builder
	b.WriteString(TitleStyle.Render(AppName))
	b.WriteString("\n")
	b.WriteString(SectionStyle.Render(m.renderUserInfo(snap)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Description of Request"))
	b.WriteString("\n")
	b.WriteString(m.description.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderAttachments(snap))
	b.WriteString("\n")
	b.WriteString(m.path.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderStatus(snap))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderUserInfo(snap form.Snapshot) string {
	header := lipgloss.NewStyle().Bold(true).Render("User Information")
	if m.pending == form.ActionLoadUserInfo {
		header += "  " + m.spinner.View() + " Loading..."
	}
	rows := []string{
		header,
		LabelStyle.Render("Ticket Number") + snap.UserInfo.TicketNumber,
		LabelStyle.Render("Phone Number") + snap.UserInfo.PhoneNumber,
		LabelStyle.Render("Name") + snap.UserInfo.Name,
		LabelStyle.Render("Email") + snap.UserInfo.Email,
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderAttachments(snap form.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n",
		lipgloss.NewStyle().Bold(true).Render("Attachments"),
		SubtleStyle.Render(fmt.Sprintf("%d/%d files", len(snap.Attachments), attachment.MaxFiles)))

	if len(snap.Attachments) == 0 {
		b.WriteString(SubtleStyle.Render(fmt.Sprintf("Accepted: %s, up to %s each",
			strings.Join(attachment.AcceptedExtensions(), " "),
			attachment.FormatSize(attachment.MaxFileBytes))))
		b.WriteString("\n")
		return b.String()
	}
	for i, f := range snap.Attachments {
		line := fmt.Sprintf("%s (%s)", f.Name, attachment.FormatSize(f.SizeBytes))
		if i == m.selected {
			b.WriteString(SelectedItemStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderStatus(snap form.Snapshot) string {
	var lines []string
	switch {
	case m.pending == form.ActionSubmit:
		lines = append(lines, m.spinner.View()+" Submitting...")
	case snap.CanSubmit:
		lines = append(lines, SuccessStyle.Render("Ready to submit"))
	default:
		lines = append(lines, SubtleStyle.Render("Submit Request"))
	}

	if n := len(snap.Notices); n > 0 {
		lines = append(lines, renderNotice(snap.Notices[n-1]))
	}
	if m.status != "" {
		lines = append(lines, ErrorStyle.Render(m.status))
	}
	return strings.Join(lines, "\n")
}

func renderNotice(n domain.Notice) string {
	switch n.Kind {
	case domain.NoticeSuccess:
		return SuccessStyle.Render(n.Message)
	case domain.NoticeRejected:
		return WarningStyle.Render(n.Message)
	default:
		return ErrorStyle.Render(n.Message)
	}
}
