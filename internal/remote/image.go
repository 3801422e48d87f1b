package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/kwheeler/snailmail/internal/model"
)

// ImageHandle is a locally spooled copy of a record's image. The file
// it points at is temporary: the owner must call Release when done
// displaying it, after which Path is no longer valid. Release is safe
// to call more than once; the file is removed exactly once.
type ImageHandle struct {
	Path        string
	ContentType string

	once sync.Once
	err  error
}

// Release removes the spooled file.
func (h *ImageHandle) Release() error {
	h.once.Do(func() {
		h.err = os.Remove(h.Path)
	})
	return h.err
}

// FetchImage downloads a record's image with the bearer token attached
// and spools it to a uniquely named temporary file. The image endpoint
// requires the same Authorization header as every other call, so a
// plain URL cannot be handed to an unauthenticated viewer.
func (c *Client) FetchImage(ctx context.Context, id int64) (*ImageHandle, error) {
	token, err := c.requireToken()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := c.ImageURL(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &TimeoutError{Op: "GET " + url}
		}
		return nil, fmt.Errorf("executing request GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{Message: "Image not found"}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		var detail errorDetail
		_ = json.Unmarshal(body, &detail)
		msg := detail.Detail
		if msg == "" {
			msg = "Failed to load image"
		}
		return nil, &FetchError{Status: resp.StatusCode, Message: msg}
	}

	contentType := resp.Header.Get("Content-Type")
	ext := ".png"
	if contentType == model.ContentTypeJPEG {
		ext = ".jpg"
	}

	path := filepath.Join(os.TempDir(), "snailmail-"+uuid.New().String()+ext)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating temp image file: %w", err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(path)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &TimeoutError{Op: "GET " + url}
		}
		return nil, fmt.Errorf("spooling image %d: %w", id, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("closing temp image file: %w", err)
	}

	return &ImageHandle{Path: path, ContentType: contentType}, nil
}
