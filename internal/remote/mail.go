package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"time"

	"github.com/kwheeler/snailmail/internal/model"
)

// DefaultListLimit is the page size used when the caller does not ask
// for a specific one.
const DefaultListLimit = 50

// mailItem is the wire shape of a record in API responses. Timestamps
// arrive as ISO 8601 strings and are parsed into the domain model.
type mailItem struct {
	ID        int64   `json:"id"`
	Direction string  `json:"direction"`
	Title     *string `json:"title"`
	Notes     *string `json:"notes"`
	MailDate  *string `json:"mail_date"`
	CreatedAt string  `json:"created_at"`
}

// toModel converts a wire item into a model.MailRecord. The image
// payload is not part of list/create responses; it is streamed
// separately via FetchImage.
func (it mailItem) toModel() model.MailRecord {
	return model.MailRecord{
		ID:        it.ID,
		Direction: model.Direction(it.Direction),
		Title:     it.Title,
		Notes:     it.Notes,
		MailDate:  it.MailDate,
		CreatedAt: parseServerTime(it.CreatedAt),
	}
}

// parseServerTime accepts the timestamp layouts the server is known to
// emit: RFC 3339 with or without a zone designator.
func parseServerTime(s string) time.Time {
	for _, layout := range []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Upload sends a new mail item as multipart form data and returns the
// created record. The bearer token is checked before any network I/O.
func (c *Client) Upload(
	ctx context.Context,
	direction model.Direction,
	image *model.ImageFile,
	title, notes, mailDate string,
) (*model.MailRecord, error) {
	token, err := c.requireToken()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("direction", string(direction)); err != nil {
		return nil, fmt.Errorf("encoding form field: %w", err)
	}
	for field, value := range map[string]string{
		"title":     title,
		"notes":     notes,
		"mail_date": mailDate,
	} {
		if value == "" {
			continue
		}
		if err := w.WriteField(field, value); err != nil {
			return nil, fmt.Errorf("encoding form field: %w", err)
		}
	}

	part, err := imagePart(w, image)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image.Data); err != nil {
		return nil, fmt.Errorf("encoding image part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing multipart body: %w", err)
	}

	var item mailItem
	err = c.do(ctx, http.MethodPost, "/mail", w.FormDataContentType(), &buf, token, &item)
	if err != nil {
		var te *TimeoutError
		if errors.As(err, &te) {
			return nil, err
		}
		status, msg := detailOrFallback(err, "Upload failed")
		return nil, &UploadError{Status: status, Message: msg}
	}

	rec := item.toModel()
	return &rec, nil
}

// imagePart creates the multipart section for the image payload with
// its real content type instead of application/octet-stream.
func imagePart(w *multipart.Writer, image *model.ImageFile) (io.Writer, error) {
	filename := "photo.png"
	if image.ContentType == model.ContentTypeJPEG {
		filename = "photo.jpg"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	header.Set("Content-Type", image.ContentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("creating image part: %w", err)
	}
	return part, nil
}

// List returns the caller's mail items with query-string pagination.
// direction is an optional filter; pass the empty value for both.
func (c *Client) List(
	ctx context.Context,
	direction model.Direction,
	limit, offset int,
) ([]model.MailRecord, error) {
	token, err := c.requireToken()
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultListLimit
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	if direction != "" {
		params.Set("direction", string(direction))
	}

	var items []mailItem
	err = c.do(ctx, http.MethodGet, "/mail?"+params.Encode(), "", nil, token, &items)
	if err != nil {
		var te *TimeoutError
		if errors.As(err, &te) {
			return nil, err
		}
		status, msg := detailOrFallback(err, "Failed to load mail items")
		return nil, &FetchError{Status: status, Message: msg}
	}

	records := make([]model.MailRecord, len(items))
	for i, it := range items {
		records[i] = it.toModel()
	}
	return records, nil
}

// Remove deletes a mail item on the server.
func (c *Client) Remove(ctx context.Context, id int64) error {
	token, err := c.requireToken()
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/mail/%d", id)
	err = c.do(ctx, http.MethodDelete, path, "", nil, token, nil)
	if err != nil {
		var te *TimeoutError
		if errors.As(err, &te) {
			return err
		}
		status, msg := detailOrFallback(err, "Failed to delete mail item")
		return &DeleteError{Status: status, Message: msg}
	}
	return nil
}

// ImageURL returns the path of a record's image. It is not an
// anonymously fetchable URL: the retrieval endpoint requires the same
// Authorization header as every other call, so callers either pair it
// with the token themselves or use FetchImage.
func (c *Client) ImageURL(id int64) string {
	return fmt.Sprintf("%s/images/%d", c.baseURL, id)
}
