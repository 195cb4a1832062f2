package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kbapi/internal/http/middleware"
	"kbapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers
// stay free of business logic; everything flows through the services.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService, authSvc service.AuthService, recSvc service.RecordService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	api.Post("/auth/login", Login(authSvc))

	authed := api.Group("", middleware.RequireAuth(authSvc))

	authed.Post("/documents", IngestDocument(docSvc))
	authed.Get("/documents", ListDocuments(docSvc))
	authed.Get("/documents/:id/content", DocumentContent(docSvc))
	authed.Get("/documents/:id/download", DownloadDocument(docSvc))

	authed.Post("/records/:collection", CreateRecord(recSvc))
	authed.Get("/records/:collection", ListRecords(recSvc))
	authed.Delete("/records/:collection/:id", DeleteRecord(recSvc))

	authed.Get("/admin/overview",
		middleware.RequireCapability(authSvc, service.CapabilityAdmin),
		AdminOverview(docSvc, recSvc),
	)
}
