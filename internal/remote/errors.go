package remote

import "fmt"

// AuthError reports a missing or rejected credential. The client checks
// the token before any network I/O, so "not authenticated" fails fast
// without touching the wire.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// UploadError reports a failed mail upload, carrying the server's
// detail message when one was supplied.
type UploadError struct {
	Status  int
	Message string
}

func (e *UploadError) Error() string { return e.Message }

// FetchError reports a failed read operation (listing mail, fetching a
// prompt, or streaming an image).
type FetchError struct {
	Status  int
	Message string
}

func (e *FetchError) Error() string { return e.Message }

// DeleteError reports a failed mail deletion.
type DeleteError struct {
	Status  int
	Message string
}

func (e *DeleteError) Error() string { return e.Message }

// NotFoundError reports that the server has nothing matching the
// request, e.g. an empty prompt pool for the requested type.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// TimeoutError reports that a network call exceeded its deadline and
// was cancelled instead of blocking its caller indefinitely.
type TimeoutError struct {
	Op string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out; the server did not respond in time", e.Op)
}

// statusError is the internal result of a non-2xx response before it
// is mapped to an operation-specific error type.
type statusError struct {
	status int
	detail string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.status, e.detail)
}
