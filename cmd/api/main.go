package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"formsapi/internal/config"
	"formsapi/internal/database"
	"formsapi/internal/database/migration"
	handlers "formsapi/internal/http/handler"
	"formsapi/internal/http/middleware"
	"formsapi/internal/otel"
	"formsapi/internal/repository/postgres"
	"formsapi/internal/service"
	"formsapi/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.UTC

	ctx := context.Background()

	// Tracing degrades to a no-op provider when the exporter is unavailable
	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	// Create schema, audit trigger and indexes on first start
	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Initialize repositories and services
	formRepo := postgres.NewFormPostgres(db)
	logRepo := postgres.NewFormsLogPostgres(db)
	userRepo := postgres.NewUserPostgres(db)

	secret := []byte(cfg.Auth.Secret)
	tokenTTL := time.Duration(cfg.Auth.TokenTTLMin) * time.Minute

	formSvc := service.NewFormService(objStore, formRepo)
	logSvc := service.NewFormsLogService(logRepo)
	authSvc := service.NewAuthService(userRepo, secret, tokenTTL)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// Above the 5MB attachment cap so oversized uploads reach the
		// handler's own validation instead of a bare 413
		BodyLimit: 10 << 20,
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	// Distributed tracing spans per request
	app.Use(otelfiber.Middleware())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected services; the guard protects
	// mutations and the audit trail
	handlers.RegisterRoutes(app, db, formSvc, logSvc, authSvc, middleware.RequireAuth(secret))

	addr := ":" + cfg.Port
	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
