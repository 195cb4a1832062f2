package handler

import (
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"kbapi/internal/http/middleware"
	"kbapi/internal/service"
)

// IngestDocument handles POST /api/documents (multipart/form-data).
//
// @Summary Ingest a document
// @Accept mpfd
// @Produce json
// @Success 201
// @Router /api/documents [post]
func IngestDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in := service.IngestInput{
			Title:       c.FormValue("title"),
			Region:      c.FormValue("region"),
			Folder:      c.FormValue("folder"),
			ContentKind: c.FormValue("content_kind"),
			TextBody:    c.FormValue("text_body"),
		}
		if claims := middleware.ClaimsFromCtx(c); claims != nil {
			in.UploadedBy = claims.Subject
		}

		if fh, err := c.FormFile("file"); err == nil {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_READ_ERROR", "cannot read uploaded file")
			}
			in.File = &service.Upload{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get(fiber.HeaderContentType),
				Data:        data,
			}
		}

		doc, err := docSvc.Ingest(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// ListDocuments handles GET /api/documents. The full set is returned newest
// first with payloads excluded; acceptable only at back-office scale.
//
// @Summary List documents
// @Produce json
// @Success 200
// @Router /api/documents [get]
func ListDocuments(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := docSvc.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(docs)
	}
}

// DocumentContent handles GET /api/documents/:id/content, the inline
// preview: literal text for TEXT documents, base64 otherwise.
//
// @Summary Preview document content
// @Produce json
// @Success 200
// @Router /api/documents/{id}/content [get]
func DocumentContent(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		res, err := docSvc.Content(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// DownloadDocument handles GET /api/documents/:id/download. The response
// carries the disposition, media type, and exact byte length so clients
// treat it as a file attachment.
//
// @Summary Download document as attachment
// @Produce octet-stream
// @Success 200
// @Router /api/documents/{id}/download [get]
func DownloadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		res, err := docSvc.Download(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+res.Filename+`"`)
		c.Set(fiber.HeaderContentType, res.ContentType)
		c.Set(fiber.HeaderContentLength, strconv.FormatInt(res.Size, 10))
		return c.Send(res.Payload)
	}
}
