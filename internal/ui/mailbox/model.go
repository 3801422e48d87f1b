// Package mailbox is the gallery view over the user's archived mail,
// whichever store it currently lives in.
package mailbox

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kwheeler/snailmail/internal/keys"
	"github.com/kwheeler/snailmail/internal/model"
	"github.com/kwheeler/snailmail/internal/theme"
)

// Source lists archived mail. The app layer provides an implementation
// that reads either the local store or the remote service, depending on
// the session state.
type Source interface {
	List(ctx context.Context) ([]model.MailRecord, error)
}

// RecordsLoadedMsg is sent when a listing completes, successfully or not.
type RecordsLoadedMsg struct {
	Records []model.MailRecord
	Err     error
}

// OpenRecordMsg is sent when the user selects a record to view its image.
type OpenRecordMsg struct {
	ID int64
}

// DeleteRecordMsg is sent when the user asks to delete the selected record.
type DeleteRecordMsg struct {
	ID int64
}

// Model is the mailbox list view component.
type Model struct {
	list    list.Model
	source  Source
	keys    *keys.KeyMap
	loading bool
	width   int
	height  int

	// pendingDelete holds the record awaiting confirmation after the
	// delete key; the DeleteRecordMsg only fires on an explicit "y".
	pendingDelete *RecordItem
}

// New creates a new mailbox model reading from the given source.
func New(src Source, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, RecordDelegate{}, width, height-2)
	l.Title = "My Mailbox"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		source: src,
		keys:   k,
		// The first listing starts with Init, so the view opens in the
		// loading state rather than claiming the mailbox is empty.
		loading: true,
		width:   width,
		height:  height,
	}
}

// Init returns a command that loads the initial set of records.
func (m *Model) Init() tea.Cmd {
	return m.LoadRecords()
}

// LoadRecords queries the source and reports the result as a
// RecordsLoadedMsg. Staleness after an add or delete is resolved by
// calling this again; nothing pushes updates into the view.
func (m *Model) LoadRecords() tea.Cmd {
	m.loading = true
	src := m.source
	return func() tea.Msg {
		records, err := src.List(context.Background())
		return RecordsLoadedMsg{Records: records, Err: err}
	}
}

// Loading reports whether a listing is in flight.
func (m *Model) Loading() bool { return m.loading }

// Update handles messages for the mailbox view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RecordsLoadedMsg:
		// The loading flag clears on every outcome so the view can
		// never be stuck in a loading state.
		m.loading = false
		if msg.Err != nil {
			return m, nil
		}
		items := make([]list.Item, len(msg.Records))
		for i, rec := range msg.Records {
			items[i] = RecordItem{Record: rec}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		if m.pendingDelete != nil {
			item := *m.pendingDelete
			m.pendingDelete = nil
			if msg.String() == "y" {
				return m, func() tea.Msg { return DeleteRecordMsg{ID: item.Record.ID} }
			}
			// Any other key cancels the pending delete.
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Select):
			if item, ok := m.selected(); ok {
				return m, func() tea.Msg { return OpenRecordMsg{ID: item.Record.ID} }
			}
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			if item, ok := m.selected(); ok {
				m.pendingDelete = &item
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the mailbox list.
func (m Model) View() string {
	if m.loading {
		return theme.DimmedStyle.Render("Loading your mailbox...")
	}
	if m.pendingDelete != nil {
		question := theme.ErrorStyle.Render(
			"Delete \"" + m.pendingDelete.title() + "\"? y to confirm, any other key to cancel",
		)
		return question + "\n" + m.list.View()
	}
	if len(m.list.Items()) == 0 {
		return theme.DimmedStyle.Render(
			"Your mailbox is empty. Press n to archive your first piece of mail.",
		)
	}
	return m.list.View()
}

// SetSource swaps the backing source, e.g. after signing in or out.
func (m *Model) SetSource(src Source) {
	m.source = src
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}

// selected returns the currently highlighted record, if any.
func (m Model) selected() (RecordItem, bool) {
	item, ok := m.list.SelectedItem().(RecordItem)
	return item, ok
}
