package model

import "time"

// Direction says whether a piece of mail was sent or received by the user.
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

// Valid reports whether d is one of the two accepted direction values.
func (d Direction) Valid() bool {
	return d == DirectionSent || d == DirectionReceived
}

// Image size and format limits enforced on every submission, matching
// what the archive server accepts.
const (
	MaxImageBytes = 5 * 1024 * 1024

	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
)

// AllowedImageType reports whether contentType is an accepted image format.
func AllowedImageType(contentType string) bool {
	return contentType == ContentTypeJPEG || contentType == ContentTypePNG
}

// MailRecord is a single archived letter or postcard: a photo plus
// user-supplied metadata. The same shape is used whether the record
// lives in the local store or on the server.
type MailRecord struct {
	// ID is assigned by the store on creation and is zero only on an
	// in-memory draft that has not been persisted yet.
	ID int64 `json:"id" db:"id"`

	// Direction is required and always one of sent/received.
	Direction Direction `json:"direction" db:"direction"`

	Title    *string `json:"title,omitempty" db:"title"`
	Notes    *string `json:"notes,omitempty" db:"notes"`

	// MailDate is the user-supplied real-world date of the mail in
	// YYYY-MM-DD form, distinct from CreatedAt.
	MailDate *string `json:"mail_date,omitempty" db:"mail_date"`

	// CreatedAt is stamped by the store at creation and never updated.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Image is the raw photo payload. It is never serialized into list
	// responses; the server streams it from a separate endpoint.
	Image       []byte `json:"-" db:"image"`
	ContentType string `json:"-" db:"content_type"`
}

// MailDateFormat is the layout for MailDate values.
const MailDateFormat = "2006-01-02"

// ImageFile is an image payload about to be archived or uploaded:
// raw bytes plus the content type reported by whatever produced them.
type ImageFile struct {
	Data        []byte
	ContentType string
}
