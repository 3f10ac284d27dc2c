// Package server exposes the operational HTTP surface: health, metrics,
// and counter reconciliation. The application API proper lives with the
// collaborating services, not here.
package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"trove/internal/config"
	"trove/internal/observability"
	"trove/internal/storage"
)

// Server holds the ops HTTP app and its storage dependency.
type Server struct {
	cfg   *config.Config
	store storage.Storage
	app   *fiber.App
}

// New builds the fiber app and registers all routes.
func New(cfg *config.Config, store storage.Storage) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "Trove API",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())

	prom := fiberprometheus.New("trove")
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	s := &Server{cfg: cfg, store: store, app: app}
	app.Get("/healthz", s.handleHealth)
	app.Post("/admin/reconcile", s.handleReconcile)
	return s
}

// App returns the underlying fiber app. Used by tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving on the configured port.
func (s *Server) Listen() error {
	observability.GlobalLogger.Info("ops server listening", slog.String("port", s.cfg.Port))
	return s.app.Listen(":" + s.cfg.Port)
}

// Shutdown drains in-flight requests and closes the storage backend.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.app.ShutdownWithContext(ctx); err != nil {
		return err
	}
	return s.store.Close()
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
			"error":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleReconcile(c *fiber.Ctx) error {
	fixes, err := s.store.ReconcileAllCounters(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"corrections": fixes})
}
