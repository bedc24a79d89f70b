package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spec-kit/helpdesk-request/internal/collaborator"
	"github.com/spec-kit/helpdesk-request/internal/domain"
	"github.com/spec-kit/helpdesk-request/internal/form"
)

func newTestController(fetcher collaborator.UserInfoFetcher) *form.Controller {
	if fetcher == nil {
		fetcher = collaborator.NewSimulatedUserInfo(0, collaborator.DefaultUserInfo())
	}
	return form.NewController(form.Options{
		SessionID: "tui-test",
		Fetcher:   fetcher,
		Submitter: collaborator.NewSimulatedSubmitter(0),
	})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model, cmd
}

// run executes cmd, flattening batches, and feeds every produced message
// back into the model. Follow-up commands are dropped.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = run(t, m, c)
		}
		return m
	}
	m, _ = update(t, m, msg)
	return m
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func TestLoadAndSubmitFlow(t *testing.T) {
	c := newTestController(nil)
	m := NewModel(c)

	if view := m.View(); !strings.Contains(view, domain.TicketNumberUnassigned) {
		t.Fatalf("expected placeholder info in view:\n%s", view)
	}

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if m.pending != form.ActionLoadUserInfo {
		t.Fatalf("pending = %q", m.pending)
	}
	m = run(t, m, cmd)
	if m.pending != form.ActionNone {
		t.Fatalf("pending not cleared: %q", m.pending)
	}
	if view := m.View(); !strings.Contains(view, "John Doe") || !strings.Contains(view, "HD-2024-001234") {
		t.Fatalf("loaded info missing from view:\n%s", view)
	}

	m = typeText(t, m, "Printer broken")
	if got := c.Description(); got != "Printer broken" {
		t.Fatalf("controller description = %q", got)
	}
	if !c.CanSubmit() {
		t.Fatal("expected form to be submittable")
	}

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = run(t, m, cmd)
	if m.description.Value() != "" {
		t.Fatalf("description input not reset: %q", m.description.Value())
	}
	if !strings.Contains(m.View(), form.MessageSubmitted) {
		t.Fatalf("success notice missing:\n%s", m.View())
	}
}

func TestSubmitEmptyShowsValidation(t *testing.T) {
	m := NewModel(newTestController(nil))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = run(t, m, cmd)
	if m.pending != form.ActionNone {
		t.Fatalf("pending = %q", m.pending)
	}
	if !strings.Contains(m.View(), form.MessageDescriptionRequired) {
		t.Fatalf("validation notice missing:\n%s", m.View())
	}
}

func TestTriggersIgnoredWhilePending(t *testing.T) {
	release := make(chan struct{})
	fetcher := collaborator.UserInfoFetcherFunc(func(ctx context.Context) (domain.UserInfo, error) {
		<-release
		return collaborator.DefaultUserInfo(), nil
	})
	c := newTestController(fetcher)
	m := NewModel(c)
	m = typeText(t, m, "VPN down")

	m, loadCmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if loadCmd == nil {
		t.Fatal("expected load command")
	}

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Fatal("submit should be ignored while load is pending")
	}
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if cmd != nil {
		t.Fatal("second load should be ignored while load is pending")
	}

	close(release)
	m = run(t, m, loadCmd)

	if m.pending != form.ActionNone {
		t.Fatalf("pending = %q", m.pending)
	}
	if c.Busy() {
		t.Fatal("controller still busy")
	}
	if c.Description() != "VPN down" {
		t.Fatalf("description changed: %q", c.Description())
	}
}

func TestAttachAndRemove(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(dir, "report.pdf")
	if err := os.WriteFile(report, []byte("%PDF-1.4"), 0o600); err != nil {
		t.Fatal(err)
	}
	c := newTestController(nil)
	m := NewModel(c)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusPath {
		t.Fatal("tab should focus the path input")
	}
	m = typeText(t, m, report)
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = run(t, m, cmd)

	if got := c.Attachments(); len(got) != 1 || got[0].Name != "report.pdf" {
		t.Fatalf("unexpected attachments %+v", got)
	}
	if m.path.Value() != "" {
		t.Fatalf("path input not reset: %q", m.path.Value())
	}
	view := m.View()
	if !strings.Contains(view, "1/5 files") || !strings.Contains(view, "report.pdf (8.00 Bytes)") {
		t.Fatalf("attachment missing from view:\n%s", view)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	if len(c.Attachments()) != 0 {
		t.Fatal("attachment not removed")
	}
	if !strings.Contains(m.View(), "0/5 files") {
		t.Fatalf("count not updated:\n%s", m.View())
	}
}

func TestAttachMissingFile(t *testing.T) {
	m := NewModel(newTestController(nil))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, filepath.Join(t.TempDir(), "missing.pdf"))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = run(t, m, cmd)
	if m.status == "" {
		t.Fatal("expected an error status for a missing file")
	}
}

func TestAttachRejectedType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "setup.exe")
	if err := os.WriteFile(path, []byte("MZ"), 0o600); err != nil {
		t.Fatal(err)
	}
	c := newTestController(nil)
	m := NewModel(c)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, path)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = run(t, m, cmd)
	if len(c.Attachments()) != 0 {
		t.Fatal("executable should be rejected")
	}
	if !strings.Contains(m.View(), "not attached") {
		t.Fatalf("rejection notice missing:\n%s", m.View())
	}
}

func TestSpinnerTickIgnoredWhenIdle(t *testing.T) {
	m := NewModel(newTestController(nil))
	_, cmd := update(t, m, spinner.TickMsg{})
	if cmd != nil {
		t.Fatal("idle model should not keep the spinner ticking")
	}
}
