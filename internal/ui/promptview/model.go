// Package promptview fetches and displays a writing or drawing prompt.
package promptview

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kwheeler/snailmail/internal/model"
	"github.com/kwheeler/snailmail/internal/theme"
)

// Fetcher retrieves a random prompt of the requested type.
type Fetcher interface {
	FetchPrompt(ctx context.Context, typ model.PromptType) (*model.Prompt, error)
}

// PromptLoadedMsg is sent when a fetch completes, successfully or not.
type PromptLoadedMsg struct {
	Prompt *model.Prompt
	Err    error
}

// Model is the prompt display component.
type Model struct {
	fetcher Fetcher
	typ     model.PromptType
	prompt  *model.Prompt
	errMsg  string
	loading bool
	spin    spinner.Model
	width   int
	height  int
}

// New creates a new prompt view using the given fetcher.
func New(f Fetcher, width, height int) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	return Model{
		fetcher: f,
		spin:    s,
		width:   width,
		height:  height,
	}
}

// Fetch requests a new prompt of the given type. The previous prompt
// stays on screen until the result arrives.
func (m *Model) Fetch(typ model.PromptType) tea.Cmd {
	m.typ = typ
	m.loading = true
	m.errMsg = ""
	f := m.fetcher
	return tea.Batch(
		m.spin.Tick,
		func() tea.Msg {
			prompt, err := f.FetchPrompt(context.Background(), typ)
			return PromptLoadedMsg{Prompt: prompt, Err: err}
		},
	)
}

// Loading reports whether a fetch is in flight.
func (m *Model) Loading() bool { return m.loading }

// Update handles messages for the prompt view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PromptLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
			return m, nil
		}
		m.prompt = msg.Prompt
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the prompt panel.
func (m Model) View() string {
	var body string
	switch {
	case m.loading:
		body = m.spin.View() + " Fetching inspiration..."
	case m.errMsg != "":
		body = theme.ErrorStyle.Render(m.errMsg)
	case m.prompt != nil:
		label := theme.HeaderStyle.Render(string(m.prompt.Type) + " prompt")
		body = label + "\n\n" + lipgloss.NewStyle().
			Width(m.panelWidth()-6).
			Render(m.prompt.Text)
	default:
		body = theme.DimmedStyle.Render(
			"Press w for a writing prompt or g for a drawing prompt.",
		)
	}

	return theme.PromptPanelStyle.
		Width(m.panelWidth()).
		Render(body)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) panelWidth() int {
	w := m.width - 4
	if w < 30 {
		w = 30
	}
	if w > 80 {
		w = 80
	}
	return w
}
