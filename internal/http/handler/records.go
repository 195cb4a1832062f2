package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"kbapi/internal/service"
)

// CreateRecord handles POST /api/records/:collection with a flat JSON body.
//
// @Summary Store a flat record
// @Accept json
// @Produce json
// @Success 201
// @Router /api/records/{collection} [post]
func CreateRecord(recSvc service.RecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var fields map[string]any
		if err := c.BodyParser(&fields); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be a JSON object")
		}

		rec, err := recSvc.Insert(c.UserContext(), c.Params("collection"), fields)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	}
}

// ListRecords handles GET /api/records/:collection.
//
// @Summary List a collection's records
// @Produce json
// @Success 200
// @Router /api/records/{collection} [get]
func ListRecords(recSvc service.RecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		recs, err := recSvc.List(c.UserContext(), c.Params("collection"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(recs)
	}
}

// DeleteRecord handles DELETE /api/records/:collection/:id.
//
// @Summary Delete a record
// @Success 204
// @Router /api/records/{collection}/{id} [delete]
func DeleteRecord(recSvc service.RecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := recSvc.Delete(c.UserContext(), c.Params("collection"), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
