package handler

import (
	"github.com/gofiber/fiber/v2"

	"kbapi/internal/service"
)

// AdminOverview handles GET /api/admin/overview: per-collection record
// counts plus the document total, for the restricted management panel.
//
// @Summary Management overview counts
// @Produce json
// @Success 200
// @Router /api/admin/overview [get]
func AdminOverview(docSvc service.DocumentService, recSvc service.RecordService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		counts, err := recSvc.Overview(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		docs, err := docSvc.Count(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"documents": docs,
			"records":   counts,
		})
	}
}
