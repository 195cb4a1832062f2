package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no document exists with the requested ID.
	ErrNotFound = errors.New("document not found")
	// ErrNoContent means a document row exists but carries no payload bytes.
	// The download path checks for it even though ingest never stores an
	// empty payload.
	ErrNoContent = errors.New("document has no binary content")
	// ErrInvalidCredentials covers both unknown logins and wrong passwords.
	// The two cases are never distinguished, to avoid user enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden means the caller is authenticated but not on the
	// allow-list for the requested capability.
	ErrForbidden = errors.New("access to this resource is restricted")
	// ErrStorageUnavailable means a document's payload lives in object
	// storage but no storage client is configured. Happens when the storage
	// strategy is switched to "database" after rows were written under
	// "object".
	ErrStorageUnavailable = errors.New("object storage is not configured")
)

// Validation error codes surfaced to HTTP clients.
const (
	CodeMissingField         = "MISSING_FIELD"
	CodeInvalidRegion        = "INVALID_REGION"
	CodeInvalidContentKind   = "INVALID_CONTENT_KIND"
	CodeMissingTextContent   = "MISSING_TEXT_CONTENT"
	CodeMissingFile          = "MISSING_FILE"
	CodeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
	CodeInvalidCollection    = "INVALID_COLLECTION"
)

// ValidationError reports a rejected input field. All validation happens
// before any persistence attempt, so a ValidationError implies nothing was
// written.
type ValidationError struct {
	Code    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func missingField(field string) *ValidationError {
	return &ValidationError{
		Code:    CodeMissingField,
		Field:   field,
		Message: fmt.Sprintf("field %q is required", field),
	}
}

func invalidRegion(region string) *ValidationError {
	return &ValidationError{
		Code:    CodeInvalidRegion,
		Field:   "region",
		Message: fmt.Sprintf("region %q is not in the allowed set", region),
	}
}

func invalidContentKind(kind string) *ValidationError {
	return &ValidationError{
		Code:    CodeInvalidContentKind,
		Field:   "content_kind",
		Message: fmt.Sprintf("content kind %q is not one of TEXT, PDF, HTML", kind),
	}
}

func missingTextContent() *ValidationError {
	return &ValidationError{
		Code:    CodeMissingTextContent,
		Field:   "text_body",
		Message: "text content is required for TEXT documents",
	}
}

func missingFile() *ValidationError {
	return &ValidationError{
		Code:    CodeMissingFile,
		Field:   "file",
		Message: "an uploaded file is required for PDF and HTML documents",
	}
}

func unsupportedMediaType(got, want string) *ValidationError {
	return &ValidationError{
		Code:    CodeUnsupportedMediaType,
		Field:   "file",
		Message: fmt.Sprintf("uploaded media type %q does not match expected %q", got, want),
	}
}

func invalidCollection(name string) *ValidationError {
	return &ValidationError{
		Code:    CodeInvalidCollection,
		Field:   "collection",
		Message: fmt.Sprintf("unknown record collection %q", name),
	}
}

// PayloadTooLargeError is returned when an ingest exceeds the upload or
// record size cap. The message always names the limit that was exceeded.
type PayloadTooLargeError struct {
	Limit int64
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("payload exceeds the maximum allowed size of %d bytes", e.Limit)
}
