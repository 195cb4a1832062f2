package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"

	"kbapi/docs"
	"kbapi/internal/config"
	"kbapi/internal/database"
	"kbapi/internal/database/migration"
	handlers "kbapi/internal/http/handler"
	"kbapi/internal/http/middleware"
	tracing "kbapi/internal/otel"
	"kbapi/internal/repository/postgres"
	"kbapi/internal/service"
	"kbapi/internal/storage"
)

// @title Knowledge Base API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	shutdownTracing, err := tracing.Setup(ctx)
	if err != nil {
		log.Fatalf("failed to configure tracing: %v", err)
	}
	defer func() {
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutCtx); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Object storage is only needed when payloads live outside the database.
	var objStore storage.Storage
	if cfg.Document.Strategy == config.StrategyObject {
		objStore, err = storage.NewMinIO(cfg.MinIO)
		if err != nil {
			log.Fatalf("failed to initialize object storage: %v", err)
		}
	}

	docRepo := postgres.NewDocumentPostgres(db)
	accountRepo := postgres.NewAccountPostgres(db)
	recordRepo := postgres.NewRecordPostgres(db)

	docSvc := service.NewDocumentService(docRepo, objStore, cfg.Document)
	authSvc := service.NewAuthService(accountRepo, cfg.Auth)
	recSvc := service.NewRecordService(recordRepo)

	app := fiber.New(fiber.Config{
		BodyLimit:    int(cfg.Document.MaxUploadBytes),
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	promMW, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMW.Handler())

	handlers.RegisterRoutes(app, db, docSvc, authSvc, recSvc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
