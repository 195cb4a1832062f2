package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"kbapi/internal/model"
	"kbapi/internal/repository"
)

// RecordService wraps the generic flat-record store consumed identically by
// the simple CRUD entities (class logs, incidents, memory, time-clock).
type RecordService interface {
	// Insert stores a record in a known collection.
	Insert(ctx context.Context, collection string, fields map[string]any) (*model.Record, error)

	// List returns a collection's records, newest first.
	List(ctx context.Context, collection string) ([]model.Record, error)

	// Delete removes a record; ErrNotFound when no row matches.
	Delete(ctx context.Context, collection, id string) error

	// Overview returns per-collection record counts for the management
	// panel.
	Overview(ctx context.Context) (map[string]int, error)
}

var collections = []string{
	model.CollectionClasses,
	model.CollectionIncidents,
	model.CollectionMemory,
	model.CollectionTimeclock,
}

type recordService struct {
	repo repository.RecordRepository
}

func NewRecordService(repo repository.RecordRepository) RecordService {
	return &recordService{repo: repo}
}

func (s *recordService) Insert(ctx context.Context, collection string, fields map[string]any) (*model.Record, error) {
	if !model.ValidCollection(collection) {
		return nil, invalidCollection(collection)
	}
	if len(fields) == 0 {
		return nil, missingField("fields")
	}
	rec := &model.Record{
		ID:         uuid.NewString(),
		Collection: collection,
		Fields:     fields,
		CreatedAt:  time.Now().UTC(),
	}
	return s.repo.Insert(ctx, rec)
}

func (s *recordService) List(ctx context.Context, collection string) ([]model.Record, error) {
	if !model.ValidCollection(collection) {
		return nil, invalidCollection(collection)
	}
	return s.repo.ListAll(ctx, collection)
}

func (s *recordService) Delete(ctx context.Context, collection, id string) error {
	if !model.ValidCollection(collection) {
		return invalidCollection(collection)
	}
	if err := s.repo.Delete(ctx, collection, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *recordService) Overview(ctx context.Context) (map[string]int, error) {
	out := make(map[string]int, len(collections))
	for _, c := range collections {
		n, err := s.repo.Count(ctx, c)
		if err != nil {
			return nil, err
		}
		out[c] = n
	}
	return out, nil
}
