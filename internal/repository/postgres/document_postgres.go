package postgres

import (
	"context"
	"database/sql"
	"errors"

	"kbapi/internal/model"
	"kbapi/internal/repository"
)

// metaColumns is the payload-free projection shared by every read that feeds
// a list or metadata view.
const metaColumns = `id, title, region, COALESCE(folder, ''), content_kind, COALESCE(text_body, ''), filename, content_type, size, uploaded_by, COALESCE(storage_key, ''), created_at`

// DocumentPostgres is a PostgreSQL implementation of
// repository.DocumentRepository using database/sql with parameterized
// queries.
type DocumentPostgres struct {
	db *sql.DB
}

func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// Create inserts a new document row. The payload goes in but does not come
// back; the caller already holds it and responses never carry it.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, title, region, folder, content_kind, text_body, filename, content_type, size, uploaded_by, payload, storage_key, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), $7, $8, $9, $10, $11, NULLIF($12, ''), $13)
		RETURNING ` + metaColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.Title,
		doc.Region,
		doc.Folder,
		string(doc.ContentKind),
		doc.TextBody,
		doc.Filename,
		doc.ContentType,
		doc.Size,
		doc.UploadedBy,
		doc.Payload,
		doc.StorageKey,
		doc.CreatedAt,
	)
	return scanMeta(row)
}

// FindByIDWithPayload fetches a document including its payload bytes.
func (r *DocumentPostgres) FindByIDWithPayload(ctx context.Context, id string) (*model.Document, error) {
	const q = `SELECT ` + metaColumns + `, COALESCE(payload, ''::bytea) FROM documents WHERE id = $1`
	row := r.db.QueryRowContext(ctx, q, id)

	var d model.Document
	var kind string
	if err := row.Scan(
		&d.ID, &d.Title, &d.Region, &d.Folder, &kind, &d.TextBody,
		&d.Filename, &d.ContentType, &d.Size, &d.UploadedBy, &d.StorageKey,
		&d.CreatedAt, &d.Payload,
	); err != nil {
		return nil, err
	}
	d.ContentKind = model.ContentKind(kind)
	return &d, nil
}

// List returns all documents newest first, payload excluded.
func (r *DocumentPostgres) List(ctx context.Context) ([]model.Document, error) {
	const q = `SELECT ` + metaColumns + ` FROM documents ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		var d model.Document
		var kind string
		if err := rows.Scan(
			&d.ID, &d.Title, &d.Region, &d.Folder, &kind, &d.TextBody,
			&d.Filename, &d.ContentType, &d.Size, &d.UploadedBy, &d.StorageKey,
			&d.CreatedAt,
		); err != nil {
			return nil, err
		}
		d.ContentKind = model.ContentKind(kind)
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Count returns the total number of documents.
func (r *DocumentPostgres) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&total)
	return total, err
}

func scanMeta(row *sql.Row) (*model.Document, error) {
	var d model.Document
	var kind string
	if err := row.Scan(
		&d.ID, &d.Title, &d.Region, &d.Folder, &kind, &d.TextBody,
		&d.Filename, &d.ContentType, &d.Size, &d.UploadedBy, &d.StorageKey,
		&d.CreatedAt,
	); err != nil {
		return nil, err
	}
	d.ContentKind = model.ContentKind(kind)
	return &d, nil
}

// IsNoRowsError reports whether err means the query matched no rows.
func IsNoRowsError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
