package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"kbapi/internal/model"
	"kbapi/internal/repository"
)

// RecordPostgres is a PostgreSQL implementation of
// repository.RecordRepository. Record fields are stored as a JSONB column,
// matching the schemaless shape the back-office clients submit.
type RecordPostgres struct {
	db *sql.DB
}

func NewRecordPostgres(db *sql.DB) *RecordPostgres {
	return &RecordPostgres{db: db}
}

var _ repository.RecordRepository = (*RecordPostgres)(nil)

// Insert stores a new record row and returns it as persisted.
func (r *RecordPostgres) Insert(ctx context.Context, rec *model.Record) (*model.Record, error) {
	fields, err := json.Marshal(rec.Fields)
	if err != nil {
		return nil, fmt.Errorf("marshal record fields: %w", err)
	}

	const q = `
		INSERT INTO records (id, collection, fields, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, collection, fields, created_at
	`
	row := r.db.QueryRowContext(ctx, q, rec.ID, rec.Collection, fields, rec.CreatedAt)
	return scanRecord(row.Scan)
}

// ListAll returns every record of a collection, newest first.
func (r *RecordPostgres) ListAll(ctx context.Context, collection string) ([]model.Record, error) {
	const q = `
		SELECT id, collection, fields, created_at
		FROM records
		WHERE collection = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes a record by collection and ID; sql.ErrNoRows when absent.
func (r *RecordPostgres) Delete(ctx context.Context, collection, id string) error {
	const q = `DELETE FROM records WHERE collection = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, q, collection, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Count returns the number of records in a collection.
func (r *RecordPostgres) Count(ctx context.Context, collection string) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records WHERE collection = $1`, collection).Scan(&total)
	return total, err
}

func scanRecord(scan func(dest ...any) error) (*model.Record, error) {
	var rec model.Record
	var raw []byte
	if err := scan(&rec.ID, &rec.Collection, &raw, &rec.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &rec.Fields); err != nil {
		return nil, fmt.Errorf("unmarshal record fields: %w", err)
	}
	return &rec, nil
}
