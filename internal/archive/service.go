// Package archive provides the validation and normalization layer in
// front of the local record store. The submission form and the gallery
// view talk to this service, never to the store directly.
package archive

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kwheeler/snailmail/internal/model"
	"github.com/kwheeler/snailmail/internal/store"
)

// ValidationError reports bad input caught before any storage I/O.
// No partial writes occur when a submission fails validation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Service exposes create/list/get/delete over a RecordStore.
type Service struct {
	store store.RecordStore
}

// New creates an archive service backed by the given store.
func New(s store.RecordStore) *Service {
	return &Service{store: s}
}

// Submit validates a new mail submission and persists it. Validation
// failures return *ValidationError before the store is touched; only
// storage failures after that point return *store.StorageError.
func (s *Service) Submit(
	ctx context.Context,
	direction model.Direction,
	image *model.ImageFile,
	title, notes, mailDate string,
) (int64, error) {
	if !direction.Valid() {
		return 0, &ValidationError{Message: "Direction must be 'sent' or 'received'."}
	}

	if err := ValidateImage(image); err != nil {
		return 0, err
	}

	rec := model.MailRecord{
		Direction:   direction,
		Title:       normalizeOptional(title),
		Notes:       normalizeOptional(notes),
		Image:       image.Data,
		ContentType: image.ContentType,
	}

	if d := strings.TrimSpace(mailDate); d != "" {
		if _, err := time.Parse(model.MailDateFormat, d); err != nil {
			return 0, &ValidationError{Message: "Invalid date format. Use YYYY-MM-DD."}
		}
		rec.MailDate = &d
	}

	return s.store.Add(ctx, rec)
}

// List returns every archived record in creation order.
func (s *Service) List(ctx context.Context) ([]model.MailRecord, error) {
	return s.store.GetAll(ctx)
}

// Get returns a single record by id, or store.ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*model.MailRecord, error) {
	return s.store.GetByID(ctx, id)
}

// Remove deletes a record. Confirming destructive intent is the
// caller's job; storage failures are returned, never swallowed.
func (s *Service) Remove(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

// ValidateImage checks an image payload against the format allow-list
// and the size cap. It is shared by the local submission path and the
// upload form so both fail the same way before any I/O happens.
func ValidateImage(image *model.ImageFile) error {
	if image == nil || len(image.Data) == 0 {
		return &ValidationError{Message: "Please select an image."}
	}
	if !model.AllowedImageType(image.ContentType) {
		return &ValidationError{
			Message: "Image must be JPEG or PNG format. Please select a valid image file.",
		}
	}
	if len(image.Data) > model.MaxImageBytes {
		sizeMB := float64(len(image.Data)) / (1024 * 1024)
		return &ValidationError{
			Message: fmt.Sprintf(
				"Image size (%.1fMB) exceeds the maximum allowed size of 5MB. "+
					"Please compress or resize your image and try again.",
				sizeMB,
			),
		}
	}
	return nil
}

// normalizeOptional trims an optional form field and converts the
// empty string to nil so that absent and blank are stored identically.
func normalizeOptional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
