// Package archiveform is the submission form for archiving a piece of
// mail: direction, a photo, and optional metadata.
package archiveform

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/kwheeler/snailmail/internal/model"
	"github.com/kwheeler/snailmail/internal/theme"
)

// SubmittedMsg is dispatched when the user completes the form. The
// image is still only a path at this point; reading and validating the
// bytes happens in the submission flow, not in the form.
type SubmittedMsg struct {
	Direction model.Direction
	ImagePath string
	Title     string
	Notes     string
	MailDate  string
}

// CancelMsg is dispatched when the user abandons the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	direction string
	imagePath string
	title     string
	notes     string
	mailDate  string
}

// Model is the Bubble Tea model for the archive submission form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates a new archive form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{direction: string(model.DirectionReceived)},
		width:  width,
		height: height,
	}
}

// Start initializes a fresh form.
func (m *Model) Start() tea.Cmd {
	m.fb.direction = string(model.DirectionReceived)
	m.fb.imagePath = ""
	m.fb.title = ""
	m.fb.notes = ""
	m.fb.mailDate = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the archive form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the archive form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("Archive Mail") + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Direction").
				Options(
					huh.NewOption("Received", string(model.DirectionReceived)),
					huh.NewOption("Sent", string(model.DirectionSent)),
				).
				Value(&m.fb.direction),
			huh.NewInput().
				Title("Photo").
				Placeholder("Path to a JPEG or PNG").
				Value(&m.fb.imagePath).
				Validate(validateImagePath),
			huh.NewInput().
				Title("Title").
				Placeholder("Optional").
				Value(&m.fb.title),
			huh.NewText().
				Title("Notes").
				Placeholder("Optional").
				Value(&m.fb.notes),
			huh.NewInput().
				Title("Mail Date").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&m.fb.mailDate).
				Validate(validateOptionalDate),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	fb := *m.fb
	return func() tea.Msg {
		return SubmittedMsg{
			Direction: model.Direction(fb.direction),
			ImagePath: strings.TrimSpace(fb.imagePath),
			Title:     fb.title,
			Notes:     fb.notes,
			MailDate:  strings.TrimSpace(fb.mailDate),
		}
	}
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

// validateImagePath requires a path that exists and is a regular file.
// Format and size are validated against the bytes at submission time.
func validateImagePath(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("please select an image")
	}
	info, err := os.Stat(s)
	if err != nil {
		return fmt.Errorf("cannot read %s", s)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", s)
	}
	return nil
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	_, err := time.Parse(model.MailDateFormat, s)
	if err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
