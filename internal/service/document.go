package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"kbapi/internal/config"
	"kbapi/internal/model"
	"kbapi/internal/repository"
	"kbapi/internal/storage"
)

// Expected declared media types per uploaded content kind.
var uploadMediaTypes = map[model.ContentKind]string{
	model.KindPDF:  "application/pdf",
	model.KindHTML: "text/html",
}

// Upload carries a fully-buffered multipart file. Uploads are bounded by the
// transport body limit, so buffering in memory is acceptable at this scale.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// IngestInput is the raw ingest request before validation.
type IngestInput struct {
	Title       string
	Region      string
	Folder      string
	ContentKind string
	TextBody    string
	UploadedBy  string
	File        *Upload
}

// ContentResult is the inline-preview projection of a document. Payload is
// the literal text for TEXT documents and base64 of the stored bytes
// otherwise, so it is always safe to embed in a JSON response.
type ContentResult struct {
	Title       string            `json:"title"`
	ContentKind model.ContentKind `json:"content_kind"`
	ContentType string            `json:"content_type"`
	Filename    string            `json:"filename"`
	Region      string            `json:"region"`
	Folder      string            `json:"folder,omitempty"`
	Payload     string            `json:"payload"`
}

// DownloadResult carries everything the transport needs to serve the
// document as a file attachment.
type DownloadResult struct {
	Payload     []byte
	Filename    string
	ContentType string
	Size        int64
}

// DocumentService defines the use cases for the document store.
type DocumentService interface {
	// Ingest validates and persists a new document. The returned document
	// never carries the payload. All validation happens before any write.
	Ingest(ctx context.Context, in IngestInput) (*model.Document, error)

	// List returns all documents newest first, payloads excluded.
	// Unpaginated; acceptable only at back-office scale.
	List(ctx context.Context) ([]model.Document, error)

	// Content returns the inline-preview projection of a document.
	Content(ctx context.Context, id string) (*ContentResult, error)

	// Download returns the raw bytes plus attachment metadata.
	Download(ctx context.Context, id string) (*DownloadResult, error)

	// Count returns the total number of stored documents.
	Count(ctx context.Context) (int, error)
}

type documentService struct {
	repo     repository.DocumentRepository
	store    storage.Storage
	strategy string
	regions  []any
	cfg      config.DocumentConfig
}

// NewDocumentService constructs a DocumentService. store may be nil when the
// strategy is "database"; it must be non-nil for "object".
func NewDocumentService(repo repository.DocumentRepository, store storage.Storage, cfg config.DocumentConfig) DocumentService {
	regions := make([]any, len(cfg.AllowedRegions))
	for i, r := range cfg.AllowedRegions {
		regions[i] = r
	}
	return &documentService{
		repo:     repo,
		store:    store,
		strategy: cfg.Strategy,
		regions:  regions,
		cfg:      cfg,
	}
}

func (s *documentService) Ingest(ctx context.Context, in IngestInput) (*model.Document, error) {
	doc, err := s.buildDocument(in)
	if err != nil {
		return nil, err
	}

	if s.strategy == config.StrategyObject {
		key := fmt.Sprintf("documents/%s/%s", doc.ID, doc.Filename)
		_, err := s.store.Put(ctx, key, bytes.NewReader(doc.Payload), storage.PutOptions{
			Size:        doc.Size,
			ContentType: doc.ContentType,
			Metadata:    map[string]string{"uploaded-by": doc.UploadedBy},
		})
		if err != nil {
			return nil, fmt.Errorf("upload to storage: %w", err)
		}
		doc.StorageKey = key
		doc.Payload = nil
	}

	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		if doc.StorageKey != "" {
			if delErr := s.store.Delete(ctx, doc.StorageKey); delErr != nil {
				return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
			}
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

// buildDocument validates the input and assembles the document, including
// the kind-specific filename, media type, and payload. It performs no I/O.
func (s *documentService) buildDocument(in IngestInput) (*model.Document, error) {
	required := []struct {
		field string
		value string
	}{
		{"title", in.Title},
		{"region", in.Region},
		{"content_kind", in.ContentKind},
	}
	for _, f := range required {
		if err := validation.Validate(f.value, validation.Required); err != nil {
			return nil, missingField(f.field)
		}
	}
	if err := validation.Validate(in.Region, validation.In(s.regions...)); err != nil {
		return nil, invalidRegion(in.Region)
	}
	kind := model.ContentKind(in.ContentKind)
	if !kind.Valid() {
		return nil, invalidContentKind(in.ContentKind)
	}

	doc := &model.Document{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Region:      in.Region,
		Folder:      in.Folder,
		ContentKind: kind,
		UploadedBy:  in.UploadedBy,
		CreatedAt:   time.Now().UTC(),
	}

	switch kind {
	case model.KindText:
		if in.TextBody == "" {
			return nil, missingTextContent()
		}
		doc.TextBody = in.TextBody
		doc.Filename = slugFilename(in.Title)
		doc.ContentType = "text/plain"
		doc.Payload = []byte(in.TextBody)
	default:
		if in.File == nil || len(in.File.Data) == 0 {
			return nil, missingFile()
		}
		want := uploadMediaTypes[kind]
		if mediaType(in.File.ContentType) != want {
			return nil, unsupportedMediaType(in.File.ContentType, want)
		}
		doc.Filename = in.File.Filename
		doc.ContentType = in.File.ContentType
		doc.Payload = in.File.Data
	}
	doc.Size = int64(len(doc.Payload))

	if doc.Size > s.cfg.MaxUploadBytes {
		return nil, &PayloadTooLargeError{Limit: s.cfg.MaxUploadBytes}
	}
	if doc.Size+int64(len(doc.TextBody)) > s.cfg.MaxRecordBytes {
		return nil, &PayloadTooLargeError{Limit: s.cfg.MaxRecordBytes}
	}
	return doc, nil
}

func (s *documentService) List(ctx context.Context) ([]model.Document, error) {
	return s.repo.List(ctx)
}

func (s *documentService) Content(ctx context.Context, id string) (*ContentResult, error) {
	doc, err := s.loadWithPayload(ctx, id)
	if err != nil {
		return nil, err
	}

	res := &ContentResult{
		Title:       doc.Title,
		ContentKind: doc.ContentKind,
		ContentType: doc.ContentType,
		Filename:    doc.Filename,
		Region:      doc.Region,
		Folder:      doc.Folder,
	}
	if doc.ContentKind == model.KindText {
		res.Payload = string(doc.Payload)
	} else {
		res.Payload = base64.StdEncoding.EncodeToString(doc.Payload)
	}
	return res, nil
}

func (s *documentService) Download(ctx context.Context, id string) (*DownloadResult, error) {
	doc, err := s.loadWithPayload(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(doc.Payload) == 0 {
		return nil, ErrNoContent
	}
	return &DownloadResult{
		Payload:     doc.Payload,
		Filename:    doc.Filename,
		ContentType: doc.ContentType,
		Size:        doc.Size,
	}, nil
}

func (s *documentService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// loadWithPayload fetches a document and resolves its payload bytes,
// reading from blob storage when the row only holds a storage key.
func (s *documentService) loadWithPayload(ctx context.Context, id string) (*model.Document, error) {
	doc, err := s.repo.FindByIDWithPayload(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if len(doc.Payload) == 0 && doc.StorageKey != "" {
		if s.store == nil {
			return nil, fmt.Errorf("document %s: %w", id, ErrStorageUnavailable)
		}
		rc, _, err := s.store.Get(ctx, doc.StorageKey)
		if err != nil {
			return nil, fmt.Errorf("fetch from storage: %w", err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read from storage: %w", err)
		}
		doc.Payload = data
	}
	return doc, nil
}

// mediaType strips any parameters (e.g. "; charset=utf-8") from a declared
// Content-Type value.
func mediaType(v string) string {
	if i := strings.IndexByte(v, ';'); i >= 0 {
		v = v[:i]
	}
	return strings.ToLower(strings.TrimSpace(v))
}
