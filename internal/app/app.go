// Package app wires the views, the stores, and the session together
// into the root Bubble Tea model.
package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kwheeler/snailmail/internal/archive"
	"github.com/kwheeler/snailmail/internal/keys"
	"github.com/kwheeler/snailmail/internal/remote"
	"github.com/kwheeler/snailmail/internal/session"
	"github.com/kwheeler/snailmail/internal/theme"
	"github.com/kwheeler/snailmail/internal/ui"
	"github.com/kwheeler/snailmail/internal/ui/archiveform"
	helpview "github.com/kwheeler/snailmail/internal/ui/help"
	"github.com/kwheeler/snailmail/internal/ui/mailbox"
	"github.com/kwheeler/snailmail/internal/ui/promptview"
	"github.com/kwheeler/snailmail/internal/ui/signin"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewMailbox ViewState = iota
	ViewArchiveForm
	ViewSignIn
	ViewPrompt
	ViewHelp
)

// Model is the root Bubble Tea model that manages view routing, layout,
// and access to the local and remote archives. The session manager
// decides which archive a given operation goes to: signed out means the
// local store, signed in means the server.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap

	session *session.Manager
	local   *archive.Service
	client  *remote.Client

	mailboxView mailbox.Model
	formView    archiveform.Model
	signinView  signin.Model
	promptView  promptview.Model
	helpView    helpview.Model

	// image is the currently spooled photo, if any. It is released
	// exactly once, before another image replaces it or on quit.
	image *remote.ImageHandle

	ready     bool
	busy      bool
	statusMsg string
	errMsg    string
}

// New creates the root application model.
func New(sess *session.Manager, local *archive.Service, client *remote.Client) Model {
	k := keys.DefaultKeyMap()

	m := Model{
		currentView: ViewMailbox,
		keys:        k,
		session:     sess,
		local:       local,
		client:      client,
		formView:    archiveform.New(80, 24),
		signinView:  signin.New(80, 24),
		promptView:  promptview.New(client, 80, 24),
		helpView:    helpview.New(k, 80, 24),
	}
	m.mailboxView = mailbox.New(m.currentSource(), k, 80, 24)
	return m
}

// Init loads the mailbox for whichever archive is active.
func (m Model) Init() tea.Cmd {
	return m.mailboxView.Init()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.mailboxView.SetSize(contentWidth, contentHeight)
		m.formView.SetSize(contentWidth, contentHeight)
		m.signinView.SetSize(contentWidth, contentHeight)
		m.promptView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case mailbox.RecordsLoadedMsg:
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
		} else {
			m.errMsg = ""
		}
		var cmd tea.Cmd
		m.mailboxView, cmd = m.mailboxView.Update(msg)
		return m, cmd

	case mailbox.OpenRecordMsg:
		m.busy = true
		return m, m.openImage(msg.ID)

	case mailbox.DeleteRecordMsg:
		m.busy = true
		return m, m.deleteRecord(msg.ID)

	case archiveform.SubmittedMsg:
		m.busy = true
		return m, m.submitMail(msg)

	case archiveform.CancelMsg:
		m.currentView = ViewMailbox
		return m, nil

	case signin.LoginSubmittedMsg:
		m.busy = true
		return m, m.signIn(msg.Identifier, msg.Password)

	case signin.RegisterSubmittedMsg:
		m.busy = true
		return m, m.register(msg.Email, msg.Username, msg.Password)

	case signin.CancelMsg:
		m.currentView = ViewMailbox
		return m, nil

	case submitResultMsg:
		// Busy always clears, success or failure, so the UI can never
		// hang in a loading state.
		m.busy = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.statusMsg = "Mail archived."
		m.currentView = ViewMailbox
		// Displayed state is refreshed from the store, never mutated
		// optimistically alongside the write.
		cmd := m.mailboxView.LoadRecords()
		return m, cmd

	case deleteResultMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		} else {
			m.errMsg = ""
			m.statusMsg = "Deleted."
		}
		// Re-sync from the authoritative list either way.
		cmd := m.mailboxView.LoadRecords()
		return m, cmd

	case authResultMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		if err := m.session.StoreSession(msg.session.AccessToken, msg.session.User); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.statusMsg = "Signed in as " + msg.session.User.Email
		m.currentView = ViewMailbox
		m.mailboxView.SetSource(m.currentSource())
		cmd := m.mailboxView.LoadRecords()
		return m, cmd

	case signOutDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		} else {
			m.errMsg = ""
			m.statusMsg = "Signed out."
		}
		m.mailboxView.SetSource(m.currentSource())
		cmd := m.mailboxView.LoadRecords()
		return m, cmd

	case imageOpenedMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.releaseImage()
		m.image = msg.handle
		m.errMsg = ""
		m.statusMsg = "Photo saved to " + msg.handle.Path + " (esc to put it away)"
		return m, nil

	case promptview.PromptLoadedMsg:
		var cmd tea.Cmd
		m.promptView, cmd = m.promptView.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if model, cmd, handled := m.handleGlobalKey(msg); handled {
			return model, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that work regardless of the active
// view's own handling. Form views receive almost all keys themselves.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	// Forms own the keyboard while they are up.
	formActive := m.currentView == ViewArchiveForm || m.currentView == ViewSignIn

	switch msg.String() {
	case "ctrl+c":
		m.releaseImage()
		return m, tea.Quit, true

	case "q":
		if m.currentView == ViewMailbox {
			m.releaseImage()
			return m, tea.Quit, true
		}

	case "esc":
		if !formActive && m.currentView != ViewMailbox {
			m.currentView = ViewMailbox
			return m, nil, true
		}
		if m.currentView == ViewMailbox && m.image != nil {
			m.releaseImage()
			m.statusMsg = ""
			return m, nil, true
		}

	case "?":
		if formActive {
			break
		}
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case "n":
		if m.currentView == ViewMailbox {
			m.previousView = m.currentView
			m.currentView = ViewArchiveForm
			cmd := m.formView.Start()
			return m, cmd, true
		}

	case "r":
		if m.currentView == ViewMailbox {
			cmd := m.mailboxView.LoadRecords()
			return m, cmd, true
		}

	case "s":
		if m.currentView == ViewMailbox && !m.session.IsAuthenticated() {
			m.previousView = m.currentView
			m.currentView = ViewSignIn
			cmd := m.signinView.Start()
			return m, cmd, true
		}

	case "o":
		if m.currentView == ViewMailbox && m.session.IsAuthenticated() {
			m.busy = true
			return m, m.signOut(), true
		}

	case "w":
		if m.currentView == ViewMailbox || m.currentView == ViewPrompt {
			m.currentView = ViewPrompt
			cmd := m.promptView.Fetch("writing")
			return m, cmd, true
		}

	case "g":
		if m.currentView == ViewMailbox || m.currentView == ViewPrompt {
			m.currentView = ViewPrompt
			cmd := m.promptView.Fetch("drawing")
			return m, cmd, true
		}
	}

	return m, nil, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewMailbox:
		m.mailboxView, cmd = m.mailboxView.Update(msg)
	case ViewArchiveForm:
		m.formView, cmd = m.formView.Update(msg)
	case ViewSignIn:
		m.signinView, cmd = m.signinView.Update(msg)
	case ViewPrompt:
		m.promptView, cmd = m.promptView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Bring Back Snail Mail", m.accountLabel())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.statusLine())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewMailbox:
		return m.mailboxView.View()
	case ViewArchiveForm:
		return m.formView.View()
	case ViewSignIn:
		return m.signinView.View()
	case ViewPrompt:
		return m.promptView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// accountLabel describes which archive is in use for the header.
func (m Model) accountLabel() string {
	if m.session.IsAuthenticated() {
		if user := m.session.User(); user != nil {
			return user.Email
		}
		return "signed in"
	}
	return "offline archive"
}

// statusLine picks what to show in the status bar: an error wins over
// a transient status, which wins over key hints.
func (m Model) statusLine() string {
	if m.busy {
		return "Working..."
	}
	if m.errMsg != "" {
		return theme.ErrorStyle.Render(m.errMsg)
	}
	if m.statusMsg != "" {
		return m.statusMsg
	}
	return m.keyHints()
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewArchiveForm:
		return "enter submit | esc cancel"
	case ViewSignIn:
		return "enter submit | ctrl+t switch mode | esc cancel"
	case ViewPrompt:
		return "w writing | g drawing | esc back"
	default:
		hints := "q quit | ? help | n archive | enter open | d delete | r refresh | w/g prompts"
		if m.session.IsAuthenticated() {
			return hints + " | o sign out"
		}
		return hints + " | s sign in"
	}
}

// releaseImage releases the spooled photo, if any. Errors only get a
// status line; a leftover temp file is not worth interrupting the user.
func (m *Model) releaseImage() {
	if m.image == nil {
		return
	}
	if err := m.image.Release(); err != nil {
		m.statusMsg = fmt.Sprintf("could not remove %s: %v", m.image.Path, err)
	}
	m.image = nil
}
