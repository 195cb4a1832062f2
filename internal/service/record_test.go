package service

import (
	"context"
	"database/sql"
	"testing"

	"kbapi/internal/model"
	repoMocks "kbapi/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecordService_Insert(t *testing.T) {
	ctx := context.Background()

	t.Run("valid collection", func(t *testing.T) {
		mRepo := new(repoMocks.MockRecordRepository)
		svc := NewRecordService(mRepo)

		fields := map[string]any{"agent": "wesley", "status": "done"}
		mRepo.On("Insert", ctx, mock.MatchedBy(func(rec *model.Record) bool {
			return rec.Collection == model.CollectionClasses && rec.ID != ""
		})).Return(&model.Record{ID: "r1", Collection: model.CollectionClasses, Fields: fields}, nil)

		rec, err := svc.Insert(ctx, model.CollectionClasses, fields)

		require.NoError(t, err)
		assert.Equal(t, "r1", rec.ID)
	})

	t.Run("unknown collection", func(t *testing.T) {
		mRepo := new(repoMocks.MockRecordRepository)
		svc := NewRecordService(mRepo)

		rec, err := svc.Insert(ctx, "unknown", map[string]any{"x": 1})

		assert.Nil(t, rec)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, CodeInvalidCollection, verr.Code)
		mRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("empty fields", func(t *testing.T) {
		mRepo := new(repoMocks.MockRecordRepository)
		svc := NewRecordService(mRepo)

		_, err := svc.Insert(ctx, model.CollectionMemory, nil)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, CodeMissingField, verr.Code)
	})
}

func TestRecordService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("missing row maps to not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockRecordRepository)
		svc := NewRecordService(mRepo)

		mRepo.On("Delete", ctx, model.CollectionIncidents, "nope").Return(sql.ErrNoRows)

		err := svc.Delete(ctx, model.CollectionIncidents, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("deleted", func(t *testing.T) {
		mRepo := new(repoMocks.MockRecordRepository)
		svc := NewRecordService(mRepo)

		mRepo.On("Delete", ctx, model.CollectionIncidents, "r1").Return(nil)

		assert.NoError(t, svc.Delete(ctx, model.CollectionIncidents, "r1"))
	})
}

func TestRecordService_Overview(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockRecordRepository)
	svc := NewRecordService(mRepo)

	mRepo.On("Count", ctx, model.CollectionClasses).Return(3, nil)
	mRepo.On("Count", ctx, model.CollectionIncidents).Return(1, nil)
	mRepo.On("Count", ctx, model.CollectionMemory).Return(0, nil)
	mRepo.On("Count", ctx, model.CollectionTimeclock).Return(7, nil)

	counts, err := svc.Overview(ctx)

	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"classes":   3,
		"incidents": 1,
		"memory":    0,
		"timeclock": 7,
	}, counts)
}
