// Package api serves the fee audit over HTTP.
package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cleared-dev/feeaudit/internal/detect"
	"github.com/cleared-dev/feeaudit/internal/ingest"
	"github.com/cleared-dev/feeaudit/internal/report"
)

// Config controls the HTTP server.
type Config struct {
	BodyLimitMB int
	Parallel    bool
}

// Server holds the fiber app and what the handlers need to run an audit.
type Server struct {
	app        *fiber.App
	detectors  *detect.Registry
	extractors *ingest.Registry
	opts       report.Options
	log        zerolog.Logger
}

// New creates a server with routes registered.
func New(cfg Config, detectors *detect.Registry, extractors *ingest.Registry, log zerolog.Logger) *Server {
	limit := cfg.BodyLimitMB
	if limit <= 0 {
		limit = 32
	}
	s := &Server{
		detectors:  detectors,
		extractors: extractors,
		opts:       report.Options{Parallel: cfg.Parallel},
		log:        log,
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "feeaudit",
		BodyLimit:             limit << 20,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(recover.New())
	s.app.Use(s.requestLogger)

	s.app.Get("/api/health", s.handleHealth)
	s.app.Post("/api/audit", s.handleAudit)
	return s
}

// App exposes the fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.log.Info().Str("addr", addr).Msg("listening")
	return s.app.Listen(addr)
}

// Shutdown stops the server, waiting for in-flight requests.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// requestLogger assigns a request ID and logs every request.
func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	id := c.Get(fiber.HeaderXRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(fiber.HeaderXRequestID, id)
	c.Locals("request_id", id)

	err := c.Next()
	if err != nil {
		// Let the error handler set the status before it is logged.
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	s.log.Info().
		Str("request_id", id).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", c.Response().StatusCode()).
		Dur("duration", time.Since(start)).
		Str("remote_addr", c.IP()).
		Msg("HTTP request")
	return nil
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		code = ferr.Code
	}
	return c.Status(code).JSON(AuditResponse{Error: err.Error()})
}
