// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g. postgres); no business logic
// belongs here, strictly persistence operations.
package repository

import (
	"context"

	"kbapi/internal/model"
)

// DocumentRepository defines data access for documents.
//
// The payload column is deliberately absent from Create's RETURNING set and
// from the List projection; only FindByIDWithPayload loads it. Listing is
// unpaginated, which is acceptable only at back-office scale.
type DocumentRepository interface {
	// Create inserts a new document row, payload included, and returns the
	// stored record without the payload.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByIDWithPayload returns a document including its payload bytes.
	FindByIDWithPayload(ctx context.Context, id string) (*model.Document, error)

	// List returns all documents newest first, without payloads.
	List(ctx context.Context) ([]model.Document, error)

	// Count returns the total number of documents.
	Count(ctx context.Context) (int, error)
}

// AccountRepository defines read access to stored logins.
type AccountRepository interface {
	// FindByLogin returns the account for a login, or sql.ErrNoRows.
	FindByLogin(ctx context.Context, login string) (*model.Account, error)
}

// RecordRepository defines data access for flat records grouped by
// collection name.
type RecordRepository interface {
	// Insert stores a new record and returns it as persisted.
	Insert(ctx context.Context, rec *model.Record) (*model.Record, error)

	// ListAll returns every record of a collection, newest first.
	ListAll(ctx context.Context, collection string) ([]model.Record, error)

	// Delete removes a record by collection and ID. Returns sql.ErrNoRows
	// when no matching row exists.
	Delete(ctx context.Context, collection, id string) error

	// Count returns the number of records in a collection.
	Count(ctx context.Context, collection string) (int, error)
}
