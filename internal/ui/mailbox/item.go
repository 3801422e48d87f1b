package mailbox

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kwheeler/snailmail/internal/model"
	"github.com/kwheeler/snailmail/internal/theme"
)

// RecordItem adapts a MailRecord for display in a bubbles list.
type RecordItem struct {
	Record model.MailRecord
}

// FilterValue returns the text used by list filtering.
func (i RecordItem) FilterValue() string {
	if i.Record.Title != nil {
		return *i.Record.Title
	}
	return string(i.Record.Direction)
}

// title returns the display title, falling back to a label derived
// from the direction when the user archived the item without one.
func (i RecordItem) title() string {
	if i.Record.Title != nil && *i.Record.Title != "" {
		return *i.Record.Title
	}
	if i.Record.Direction == model.DirectionSent {
		return "Sent mail"
	}
	return "Received mail"
}

// RecordDelegate renders RecordItems as two-line list entries.
type RecordDelegate struct{}

// Height returns the number of lines each item occupies.
func (d RecordDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d RecordDelegate) Spacing() int { return 1 }

// Update is a no-op; item state never changes in place.
func (d RecordDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

// Render writes a single record entry to w.
func (d RecordDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ri, ok := item.(RecordItem)
	if !ok {
		return
	}
	rec := ri.Record

	badge := theme.DirectionStyle(rec.Direction).Render(string(rec.Direction))
	line1 := fmt.Sprintf("%s %s", badge, ri.title())

	meta := "archived " + rec.CreatedAt.Local().Format("Jan 2, 2006")
	if rec.MailDate != nil {
		meta = fmt.Sprintf("mailed %s · %s", *rec.MailDate, meta)
	}
	if rec.Notes != nil && *rec.Notes != "" {
		meta += " · " + truncate(*rec.Notes, 40)
	}
	line2 := theme.DimmedStyle.Render(meta)

	style := theme.ListItemStyle
	if index == m.Index() {
		style = theme.SelectedItemStyle
	}

	fmt.Fprint(w, style.Render(line1)+"\n"+style.Render(line2))
}

// truncate shortens s to at most n runes, appending an ellipsis when
// anything was cut.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
