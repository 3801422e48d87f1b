package archive_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kwheeler/snailmail/internal/archive"
	"github.com/kwheeler/snailmail/internal/model"
	"github.com/kwheeler/snailmail/tests/testutil"
)

func newService(t *testing.T) *archive.Service {
	t.Helper()
	return archive.New(testutil.NewTestStore(t))
}

func jpegFile(size int) *model.ImageFile {
	return &model.ImageFile{
		Data:        bytes.Repeat([]byte{0xAB}, size),
		ContentType: model.ContentTypeJPEG,
	}
}

func TestSubmitValidRecord(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	id, err := svc.Submit(ctx, model.DirectionReceived, jpegFile(1024*1024), "Postcard", "From grandma", "2025-06-15")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if id <= 0 {
		t.Fatalf("got id %d, want positive", id)
	}

	rec, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Direction != model.DirectionReceived {
		t.Errorf("direction = %q, want received", rec.Direction)
	}
	if rec.Title == nil || *rec.Title != "Postcard" {
		t.Errorf("title = %v, want Postcard", rec.Title)
	}
	if rec.MailDate == nil || *rec.MailDate != "2025-06-15" {
		t.Errorf("mail_date = %v, want 2025-06-15", rec.MailDate)
	}
}

func TestSubmitRejectsInvalidDirection(t *testing.T) {
	svc := newService(t)

	_, err := svc.Submit(context.Background(), model.Direction("bogus"), jpegFile(100), "", "", "")
	var verr *archive.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
}

func TestSubmitRejectsMissingImage(t *testing.T) {
	svc := newService(t)

	for _, image := range []*model.ImageFile{nil, {ContentType: model.ContentTypeJPEG}} {
		_, err := svc.Submit(context.Background(), model.DirectionSent, image, "", "", "")
		var verr *archive.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("got %v, want ValidationError", err)
		}
		if verr.Message != "Please select an image." {
			t.Errorf("message = %q", verr.Message)
		}
	}
}

func TestSubmitRejectsDisallowedImageType(t *testing.T) {
	svc := newService(t)

	_, err := svc.Submit(context.Background(), model.DirectionSent, &model.ImageFile{
		Data:        []byte("GIF89a"),
		ContentType: "image/gif",
	}, "", "", "")

	var verr *archive.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if !strings.Contains(verr.Message, "JPEG or PNG") {
		t.Errorf("message = %q, want format hint", verr.Message)
	}
}

func TestSubmitRejectsOversizedImage(t *testing.T) {
	svc := newService(t)

	_, err := svc.Submit(context.Background(), model.DirectionSent, jpegFile(6*1024*1024), "", "", "")
	var verr *archive.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if !strings.Contains(verr.Message, "5MB") {
		t.Errorf("message = %q, want size limit named", verr.Message)
	}

	// Validation failure must leave the store untouched.
	records, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("got %d records after failed submit, want 0", len(records))
	}
}

func TestSubmitRejectsMalformedDate(t *testing.T) {
	svc := newService(t)

	for _, date := range []string{"15/06/2025", "2025-13-01", "yesterday"} {
		_, err := svc.Submit(context.Background(), model.DirectionSent, jpegFile(100), "", "", date)
		var verr *archive.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("date %q: got %v, want ValidationError", date, err)
		}
		if verr.Message != "Invalid date format. Use YYYY-MM-DD." {
			t.Errorf("date %q: message = %q", date, verr.Message)
		}
	}
}

func TestSubmitNormalizesOptionalFields(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	id, err := svc.Submit(ctx, model.DirectionSent, jpegFile(100), "  Trimmed  ", "   ", "")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	rec, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Title == nil || *rec.Title != "Trimmed" {
		t.Errorf("title = %v, want trimmed value", rec.Title)
	}
	if rec.Notes != nil {
		t.Errorf("notes = %v, want nil for blank input", rec.Notes)
	}
	if rec.MailDate != nil {
		t.Errorf("mail_date = %v, want nil when omitted", rec.MailDate)
	}
}

func TestListReflectsRemovals(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	id1, err := svc.Submit(ctx, model.DirectionSent, jpegFile(100), "one", "", "")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	id2, err := svc.Submit(ctx, model.DirectionReceived, jpegFile(100), "two", "", "")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if err := svc.Remove(ctx, id1); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	records, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 || records[0].ID != id2 {
		t.Fatalf("got %v, want only record %d", records, id2)
	}
}
