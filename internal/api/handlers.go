package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/cleared-dev/feeaudit/internal/buildinfo"
	"github.com/cleared-dev/feeaudit/internal/ingest"
	"github.com/cleared-dev/feeaudit/internal/logger"
	"github.com/cleared-dev/feeaudit/internal/model"
	"github.com/cleared-dev/feeaudit/internal/report"
)

// AuditResponse is the JSON response from /api/audit.
type AuditResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	ID      string `json:"id,omitempty"`
	*report.Document
}

// AuditRequest is the JSON body accepted by /api/audit.
type AuditRequest struct {
	Source     string   `json:"source"`
	Text       string   `json:"text"`
	Categories []string `json:"categories"`
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleAudit(c *fiber.Ctx) error {
	req, stmt, err := s.readStatement(c)
	if err != nil {
		return writeError(c, statusFor(err), err)
	}

	var cats []model.Category
	for _, name := range req.Categories {
		if name = strings.TrimSpace(name); name != "" {
			cats = append(cats, model.Category(name))
		}
	}
	reg, err := s.detectors.Select(cats...)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err)
	}

	id := uuid.NewString()
	log := s.log.With().Str("audit_id", id).Str("source", stmt.Source).Logger()
	ctx := logger.WithContext(c.UserContext(), log)

	rep, err := report.Assemble(ctx, stmt, reg, s.opts)
	if err != nil {
		log.Error().Err(err).Msg("audit failed")
		return writeError(c, fiber.StatusInternalServerError, err)
	}

	doc := report.NewDocument(rep)
	return c.JSON(AuditResponse{Success: true, ID: id, Document: &doc})
}

// readStatement accepts a JSON body, a multipart upload in field "file", or
// a form field "text".
func (s *Server) readStatement(c *fiber.Ctx) (AuditRequest, *model.Statement, error) {
	var req AuditRequest

	if c.Is("json") {
		if err := c.BodyParser(&req); err != nil {
			return req, nil, fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
		}
		stmt, err := textStatement(req)
		return req, stmt, err
	}

	if cat := c.FormValue("category"); cat != "" {
		req.Categories = strings.Split(cat, ",")
	}

	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return req, nil, fmt.Errorf("%w: opening upload: %v", errBadRequest, err)
		}
		defer f.Close()

		stmt, err := s.extractors.Read(fh.Filename, f)
		return req, stmt, err
	}

	req.Source = c.FormValue("source")
	req.Text = c.FormValue("text")
	stmt, err := textStatement(req)
	return req, stmt, err
}

var (
	errBadRequest  = errors.New("bad request")
	errNoStatement = errors.New("no statement provided: upload a file in field 'file' or send field 'text'")
)

func textStatement(req AuditRequest) (*model.Statement, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, errNoStatement
	}
	source := req.Source
	if source == "" {
		source = "text"
	}
	return &model.Statement{Source: source, Text: req.Text}, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, errNoStatement):
		return fiber.StatusBadRequest
	case errors.Is(err, ingest.ErrUnsupported):
		return fiber.StatusUnsupportedMediaType
	default:
		return fiber.StatusUnprocessableEntity
	}
}

func writeError(c *fiber.Ctx, code int, err error) error {
	return c.Status(code).JSON(AuditResponse{Error: err.Error()})
}
