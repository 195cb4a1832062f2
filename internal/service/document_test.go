package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"io"
	"testing"

	"kbapi/internal/config"
	"kbapi/internal/model"
	repoMocks "kbapi/internal/repository/mocks"
	"kbapi/internal/storage"
	storeMocks "kbapi/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testDocConfig() config.DocumentConfig {
	return config.DocumentConfig{
		MaxUploadBytes: 10 << 20,
		MaxRecordBytes: 16 << 20,
		Strategy:       config.StrategyDatabase,
		AllowedRegions: []string{"RN", "SP", "EXAM-RN"},
	}
}

func TestDocumentService_IngestText(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockDocumentRepository)
	svc := NewDocumentService(mRepo, nil, testDocConfig())

	mRepo.On("Create", ctx, mock.MatchedBy(func(doc *model.Document) bool {
		return doc.Filename == "Policy_A.txt" &&
			doc.ContentType == "text/plain" &&
			doc.Size == 5 &&
			string(doc.Payload) == "hello" &&
			doc.ID != ""
	})).Return(&model.Document{
		ID:          "gen-id",
		Title:       "Policy A",
		Filename:    "Policy_A.txt",
		ContentType: "text/plain",
		Size:        5,
	}, nil)

	doc, err := svc.Ingest(ctx, IngestInput{
		Title:       "Policy A",
		Region:      "RN",
		ContentKind: "TEXT",
		TextBody:    "hello",
		UploadedBy:  "wesley",
	})

	require.NoError(t, err)
	assert.Equal(t, "Policy_A.txt", doc.Filename)
	assert.Equal(t, int64(5), doc.Size)
	assert.Nil(t, doc.Payload, "ingest response must not carry the payload")
	mRepo.AssertExpectations(t)
}

func TestDocumentService_IngestValidation(t *testing.T) {
	ctx := context.Background()

	pdfUpload := &Upload{Filename: "a.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")}

	tests := []struct {
		name      string
		in        IngestInput
		wantCode  string
		wantField string
	}{
		{
			name:      "missing title",
			in:        IngestInput{Region: "RN", ContentKind: "TEXT", TextBody: "x"},
			wantCode:  CodeMissingField,
			wantField: "title",
		},
		{
			name:      "missing region",
			in:        IngestInput{Title: "T", ContentKind: "TEXT", TextBody: "x"},
			wantCode:  CodeMissingField,
			wantField: "region",
		},
		{
			name:      "missing content kind",
			in:        IngestInput{Title: "T", Region: "RN", TextBody: "x"},
			wantCode:  CodeMissingField,
			wantField: "content_kind",
		},
		{
			name:     "region outside the allowed set",
			in:       IngestInput{Title: "T", Region: "XX", ContentKind: "TEXT", TextBody: "x"},
			wantCode: CodeInvalidRegion,
		},
		{
			name:     "unknown content kind",
			in:       IngestInput{Title: "T", Region: "RN", ContentKind: "DOCX", TextBody: "x"},
			wantCode: CodeInvalidContentKind,
		},
		{
			name:     "text without body",
			in:       IngestInput{Title: "T", Region: "RN", ContentKind: "TEXT"},
			wantCode: CodeMissingTextContent,
		},
		{
			name:     "pdf without file",
			in:       IngestInput{Title: "T", Region: "RN", ContentKind: "PDF"},
			wantCode: CodeMissingFile,
		},
		{
			name: "pdf with mismatched media type",
			in: IngestInput{
				Title: "T", Region: "RN", ContentKind: "PDF",
				File: &Upload{Filename: "a.png", ContentType: "image/png", Data: []byte("x")},
			},
			wantCode: CodeUnsupportedMediaType,
		},
		{
			name: "html with pdf upload",
			in: IngestInput{
				Title: "T", Region: "RN", ContentKind: "HTML",
				File: pdfUpload,
			},
			wantCode: CodeUnsupportedMediaType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockDocumentRepository)
			svc := NewDocumentService(mRepo, nil, testDocConfig())

			doc, err := svc.Ingest(ctx, tt.in)

			assert.Nil(t, doc)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantCode, verr.Code)
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, verr.Field)
			}
			// Fail fast: nothing may be persisted on validation failure.
			mRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestDocumentService_IngestAcceptsMediaTypeParams(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockDocumentRepository)
	svc := NewDocumentService(mRepo, nil, testDocConfig())

	mRepo.On("Create", ctx, mock.Anything).Return(&model.Document{ID: "id"}, nil)

	_, err := svc.Ingest(ctx, IngestInput{
		Title: "T", Region: "EXAM-RN", ContentKind: "HTML",
		File: &Upload{Filename: "p.html", ContentType: "text/html; charset=utf-8", Data: []byte("<html></html>")},
	})

	assert.NoError(t, err)
}

func TestDocumentService_IngestPayloadTooLarge(t *testing.T) {
	ctx := context.Background()
	cfg := testDocConfig()
	cfg.MaxUploadBytes = 8
	mRepo := new(repoMocks.MockDocumentRepository)
	svc := NewDocumentService(mRepo, nil, cfg)

	doc, err := svc.Ingest(ctx, IngestInput{
		Title: "T", Region: "RN", ContentKind: "TEXT", TextBody: "way too long",
	})

	assert.Nil(t, doc)
	var tooLarge *PayloadTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, int64(8), tooLarge.Limit)
	assert.Contains(t, err.Error(), "8 bytes")
	mRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDocumentService_IngestObjectStrategy(t *testing.T) {
	ctx := context.Background()
	cfg := testDocConfig()
	cfg.Strategy = config.StrategyObject

	t.Run("payload goes to blob storage", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mStore := new(storeMocks.MockStorage)
		svc := NewDocumentService(mRepo, mStore, cfg)

		mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return len(key) > 0
		}), mock.Anything, mock.Anything).Return(storage.BlobInfo{Size: 5}, nil)

		mRepo.On("Create", ctx, mock.MatchedBy(func(doc *model.Document) bool {
			return doc.Payload == nil && doc.StorageKey != "" && doc.Size == 5
		})).Return(&model.Document{ID: "id"}, nil)

		_, err := svc.Ingest(ctx, IngestInput{
			Title: "T", Region: "RN", ContentKind: "TEXT", TextBody: "hello",
		})

		assert.NoError(t, err)
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("db failure rolls back the blob", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mStore := new(storeMocks.MockStorage)
		svc := NewDocumentService(mRepo, mStore, cfg)

		mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.BlobInfo{}, nil)
		mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
		mStore.On("Delete", ctx, mock.Anything).Return(nil)

		_, err := svc.Ingest(ctx, IngestInput{
			Title: "T", Region: "RN", ContentKind: "TEXT", TextBody: "hello",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "db save failed")
		mStore.AssertCalled(t, "Delete", ctx, mock.Anything)
	})
}

func TestDocumentService_Content(t *testing.T) {
	ctx := context.Background()

	t.Run("text document returns literal text", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(mRepo, nil, testDocConfig())

		mRepo.On("FindByIDWithPayload", ctx, "id-1").Return(&model.Document{
			ID: "id-1", Title: "Policy A", Region: "RN",
			ContentKind: model.KindText, ContentType: "text/plain",
			Filename: "Policy_A.txt", TextBody: "hello", Payload: []byte("hello"), Size: 5,
		}, nil)

		res, err := svc.Content(ctx, "id-1")

		require.NoError(t, err)
		assert.Equal(t, "hello", res.Payload)
		assert.Equal(t, model.KindText, res.ContentKind)
	})

	t.Run("pdf document returns base64", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(mRepo, nil, testDocConfig())

		raw := []byte{0x25, 0x50, 0x44, 0x46, 0x00, 0xff}
		mRepo.On("FindByIDWithPayload", ctx, "id-2").Return(&model.Document{
			ID: "id-2", ContentKind: model.KindPDF, ContentType: "application/pdf",
			Filename: "a.pdf", Payload: raw, Size: int64(len(raw)),
		}, nil)

		res, err := svc.Content(ctx, "id-2")

		require.NoError(t, err)
		decoded, decErr := base64.StdEncoding.DecodeString(res.Payload)
		require.NoError(t, decErr)
		assert.Equal(t, raw, decoded)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(mRepo, nil, testDocConfig())

		mRepo.On("FindByIDWithPayload", ctx, "missing").Return(nil, sql.ErrNoRows)

		res, err := svc.Content(ctx, "missing")

		assert.Nil(t, res)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDocumentService_Download(t *testing.T) {
	ctx := context.Background()

	t.Run("returns bytes and attachment metadata", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(mRepo, nil, testDocConfig())

		mRepo.On("FindByIDWithPayload", ctx, "id-1").Return(&model.Document{
			ID: "id-1", ContentKind: model.KindText, ContentType: "text/plain",
			Filename: "Policy_A.txt", Payload: []byte("hello"), Size: 5,
		}, nil)

		res, err := svc.Download(ctx, "id-1")

		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), res.Payload)
		assert.Equal(t, "Policy_A.txt", res.Filename)
		assert.Equal(t, "text/plain", res.ContentType)
		assert.Equal(t, int64(5), res.Size)
	})

	t.Run("empty payload", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(mRepo, nil, testDocConfig())

		mRepo.On("FindByIDWithPayload", ctx, "id-2").Return(&model.Document{
			ID: "id-2", Filename: "x.pdf",
		}, nil)

		res, err := svc.Download(ctx, "id-2")

		assert.Nil(t, res)
		assert.ErrorIs(t, err, ErrNoContent)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(mRepo, nil, testDocConfig())

		mRepo.On("FindByIDWithPayload", ctx, "missing").Return(nil, sql.ErrNoRows)

		_, err := svc.Download(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDocumentService_DownloadResolvesStorageKey(t *testing.T) {
	ctx := context.Background()
	cfg := testDocConfig()
	cfg.Strategy = config.StrategyObject
	mRepo := new(repoMocks.MockDocumentRepository)
	mStore := new(storeMocks.MockStorage)
	svc := NewDocumentService(mRepo, mStore, cfg)

	mRepo.On("FindByIDWithPayload", ctx, "id-1").Return(&model.Document{
		ID: "id-1", Filename: "a.pdf", ContentType: "application/pdf",
		Size: 4, StorageKey: "documents/id-1/a.pdf",
	}, nil)
	mStore.On("Get", ctx, "documents/id-1/a.pdf").
		Return(io.NopCloser(bytes.NewReader([]byte("%PDF"))), storage.BlobInfo{Size: 4}, nil)

	res, err := svc.Download(ctx, "id-1")

	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), res.Payload)
	mStore.AssertExpectations(t)
}

func TestDocumentService_DownloadStorageKeyWithoutStore(t *testing.T) {
	// Rows written under the object strategy survive a switch back to the
	// database strategy; resolving them without a storage client must fail
	// cleanly, not panic.
	ctx := context.Background()
	mRepo := new(repoMocks.MockDocumentRepository)
	svc := NewDocumentService(mRepo, nil, testDocConfig())

	mRepo.On("FindByIDWithPayload", ctx, "id-1").Return(&model.Document{
		ID: "id-1", Filename: "a.pdf", ContentType: "application/pdf",
		Size: 4, StorageKey: "documents/id-1/a.pdf",
	}, nil)

	res, err := svc.Download(ctx, "id-1")

	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}
