package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/kwheeler/snailmail/internal/model"
)

// ErrNotFound is returned by point lookups when no record exists with
// the requested id.
var ErrNotFound = errors.New("mail record not found")

// StorageError wraps a failure of the underlying durable storage engine
// (disk full, locked database, unwritable path). Callers display its
// message; the wrapped cause is available via errors.Unwrap.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// RecordStore defines the persistence contract for archived mail.
// Implementations assign monotonically increasing ids that are never
// reused, iterate in creation order, and treat deletion of a missing
// id as a no-op.
type RecordStore interface {
	// Add stamps the record's creation time, assigns a fresh id, and
	// persists the record including its image payload. The assigned id
	// is returned.
	Add(ctx context.Context, rec model.MailRecord) (int64, error)

	// GetAll returns every record ordered by creation time ascending.
	// An empty store yields an empty slice, not an error.
	GetAll(ctx context.Context) ([]model.MailRecord, error)

	// GetByID returns the record with the given id, or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*model.MailRecord, error)

	// Delete removes the record and its image payload. Deleting an id
	// that does not exist is not an error.
	Delete(ctx context.Context, id int64) error

	// Close releases the underlying storage handle.
	Close() error
}
