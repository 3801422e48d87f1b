// Package signin is the authentication form, covering both signing in
// to an existing account and registering a new one.
package signin

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/kwheeler/snailmail/internal/theme"
)

// LoginSubmittedMsg is dispatched when the sign-in form completes.
type LoginSubmittedMsg struct {
	Identifier string
	Password   string
}

// RegisterSubmittedMsg is dispatched when the registration form completes.
type RegisterSubmittedMsg struct {
	Email    string
	Username string
	Password string
}

// CancelMsg is dispatched when the user abandons the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	identifier string
	email      string
	username   string
	password   string
}

// Model is the Bubble Tea model for the sign-in / register form.
type Model struct {
	form         *huh.Form
	fb           *formBindings
	registerMode bool
	width        int
	height       int
}

// New creates a new sign-in form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes the form in sign-in mode.
func (m *Model) Start() tea.Cmd {
	m.registerMode = false
	return m.reset()
}

// ToggleMode switches between sign-in and registration.
func (m *Model) ToggleMode() tea.Cmd {
	m.registerMode = !m.registerMode
	return m.reset()
}

func (m *Model) reset() tea.Cmd {
	m.fb.identifier = ""
	m.fb.email = ""
	m.fb.username = ""
	m.fb.password = ""
	if m.registerMode {
		m.form = m.buildRegisterForm()
	} else {
		m.form = m.buildLoginForm()
	}
	return m.form.Init()
}

// Update handles messages for the sign-in form. Ctrl+T flips between
// the sign-in and registration variants.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "ctrl+t" {
		cmd := m.ToggleMode()
		return m, cmd
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

// View renders the sign-in form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "Sign In"
	hint := "ctrl+t to create an account instead"
	if m.registerMode {
		titleText = "Create Account"
		hint = "ctrl+t to sign in instead"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" +
		m.form.View() + "\n" +
		theme.HelpStyle.Render(hint)

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildLoginForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email or Username").
				Value(&m.fb.identifier).
				Validate(validateRequired("Email or username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validateRequired("Password")),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) buildRegisterForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&m.fb.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Username").
				Placeholder("Optional").
				Value(&m.fb.username),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validatePassword),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	fb := *m.fb
	if m.registerMode {
		return func() tea.Msg {
			return RegisterSubmittedMsg{
				Email:    strings.TrimSpace(fb.email),
				Username: strings.TrimSpace(fb.username),
				Password: fb.password,
			}
		}
	}
	return func() tea.Msg {
		return LoginSubmittedMsg{
			Identifier: strings.TrimSpace(fb.identifier),
			Password:   fb.password,
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
	h := m.height - 6
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", strings.ToLower(fieldName))
		}
		return nil
	}
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("email is required")
	}
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

func validatePassword(s string) error {
	if len(s) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}
