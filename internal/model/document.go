package model

import "time"

// ContentKind discriminates how a document's content was produced and how it
// is stored: authored text or an uploaded binary file.
type ContentKind string

const (
	KindText ContentKind = "TEXT"
	KindPDF  ContentKind = "PDF"
	KindHTML ContentKind = "HTML"
)

// Valid reports whether k is one of the supported content kinds.
func (k ContentKind) Valid() bool {
	switch k {
	case KindText, KindPDF, KindHTML:
		return true
	}
	return false
}

// Document represents a stored knowledge item: either authored text or an
// uploaded file, plus its metadata. This is a pure domain model with no
// database-specific dependencies or tags; it is shared across layers.
//
// Payload carries the raw content bytes. It is never serialized to JSON and
// is excluded from list projections; repositories load it only when the
// caller explicitly asks for content. StorageKey is set instead of Payload
// when the object storage strategy is active.
type Document struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Region      string      `json:"region"`
	Folder      string      `json:"folder,omitempty"`
	ContentKind ContentKind `json:"content_kind"`
	TextBody    string      `json:"text_body,omitempty"`
	Filename    string      `json:"filename"`
	ContentType string      `json:"content_type"`
	Size        int64       `json:"size"`
	UploadedBy  string      `json:"uploaded_by"`
	Payload     []byte      `json:"-"`
	StorageKey  string      `json:"-"`
	CreatedAt   time.Time   `json:"created_at"`
}
