package app

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/kwheeler/snailmail/internal/archive"
	"github.com/kwheeler/snailmail/internal/model"
	"github.com/kwheeler/snailmail/internal/remote"
	"github.com/kwheeler/snailmail/internal/ui/archiveform"
	"github.com/kwheeler/snailmail/internal/ui/mailbox"
)

// Result messages for the asynchronous flows. Each flow completes with
// exactly one of these so the busy flag always clears.
type submitResultMsg struct {
	err error
}

type deleteResultMsg struct {
	err error
}

type authResultMsg struct {
	session *model.AuthSession
	err     error
}

type signOutDoneMsg struct {
	err error
}

type imageOpenedMsg struct {
	handle *remote.ImageHandle
	err    error
}

// localSource reads the offline archive.
type localSource struct {
	svc *archive.Service
}

func (s localSource) List(ctx context.Context) ([]model.MailRecord, error) {
	return s.svc.List(ctx)
}

// remoteSource reads the server-backed archive.
type remoteSource struct {
	client *remote.Client
}

func (s remoteSource) List(ctx context.Context) ([]model.MailRecord, error) {
	return s.client.List(ctx, "", remote.DefaultListLimit, 0)
}

// currentSource picks the archive the mailbox reads from: the server
// when signed in, the local store otherwise.
func (m Model) currentSource() mailbox.Source {
	if m.session.IsAuthenticated() {
		return remoteSource{client: m.client}
	}
	return localSource{svc: m.local}
}

// submitMail reads the image from disk, validates it, and writes the
// record to whichever archive is active. Validation failures never
// touch either store.
func (m Model) submitMail(msg archiveform.SubmittedMsg) tea.Cmd {
	local := m.local
	client := m.client
	authed := m.session.IsAuthenticated()

	return func() tea.Msg {
		img, err := readImageFile(msg.ImagePath)
		if err != nil {
			return submitResultMsg{err: err}
		}
		if err := archive.ValidateImage(img); err != nil {
			return submitResultMsg{err: err}
		}

		ctx := context.Background()
		if authed {
			_, err = client.Upload(ctx, msg.Direction, img, msg.Title, msg.Notes, msg.MailDate)
		} else {
			_, err = local.Submit(ctx, msg.Direction, img, msg.Title, msg.Notes, msg.MailDate)
		}
		return submitResultMsg{err: err}
	}
}

// readImageFile loads an image from disk and sniffs its content type
// from the leading bytes rather than trusting the file extension.
func readImageFile(path string) (*model.ImageFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &archive.ValidationError{Message: "Could not read the selected image."}
	}
	return &model.ImageFile{
		Data:        data,
		ContentType: http.DetectContentType(data),
	}, nil
}

// deleteRecord removes a record from the active archive.
func (m Model) deleteRecord(id int64) tea.Cmd {
	local := m.local
	client := m.client
	authed := m.session.IsAuthenticated()

	return func() tea.Msg {
		ctx := context.Background()
		var err error
		if authed {
			err = client.Remove(ctx, id)
		} else {
			err = local.Remove(ctx, id)
		}
		return deleteResultMsg{err: err}
	}
}

// signIn exchanges credentials for a session.
func (m Model) signIn(identifier, password string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		sess, err := client.Login(context.Background(), identifier, password)
		return authResultMsg{session: sess, err: err}
	}
}

// register creates a new account and signs in.
func (m Model) register(email, username, password string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		sess, err := client.Register(context.Background(), email, username, password)
		return authResultMsg{session: sess, err: err}
	}
}

// signOut notifies the server, then clears the local session. The
// notification is best-effort: local cleanup happens regardless.
func (m Model) signOut() tea.Cmd {
	client := m.client
	sess := m.session
	return func() tea.Msg {
		_ = client.Logout(context.Background())
		return signOutDoneMsg{err: sess.Clear()}
	}
}

// openImage spools the selected record's photo to a temporary file:
// from the server when signed in, from the local store otherwise.
func (m Model) openImage(id int64) tea.Cmd {
	local := m.local
	client := m.client
	authed := m.session.IsAuthenticated()

	return func() tea.Msg {
		ctx := context.Background()
		if authed {
			handle, err := client.FetchImage(ctx, id)
			return imageOpenedMsg{handle: handle, err: err}
		}

		rec, err := local.Get(ctx, id)
		if err != nil {
			return imageOpenedMsg{err: err}
		}
		handle, err := spoolImage(rec.Image, rec.ContentType)
		return imageOpenedMsg{handle: handle, err: err}
	}
}

// spoolImage writes an image payload from the local store to a uniquely
// named temporary file so external viewers can open it.
func spoolImage(data []byte, contentType string) (*remote.ImageHandle, error) {
	ext := ".png"
	if contentType == model.ContentTypeJPEG {
		ext = ".jpg"
	}

	path := filepath.Join(os.TempDir(), "snailmail-"+uuid.New().String()+ext)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, err
	}
	return &remote.ImageHandle{Path: path, ContentType: contentType}, nil
}
