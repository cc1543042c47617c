package crmsim

import (
	"errors"

	"lead-reconciler/core/logger"
	"lead-reconciler/feature/leads"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the sample CRM backend.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler backed by the given store.
func NewHandler(store Store, l *zap.Logger) *Handler {
	if l == nil {
		l = zap.NewNop()
	}
	return &Handler{store: store, logger: l}
}

// RegisterRoutes registers the lead routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/leads/lookup", h.HandleLookup)
	app.Post("/leads", h.HandleCreate)
	app.Put("/leads/:email", h.HandleUpdate)
}

// HandleLookup returns the lead stored under the email query parameter.
// An absent lead is a normal answer, reported with found=false.
func (h *Handler) HandleLookup(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing email",
		})
	}
	l := logger.WithRayID(h.logger, c)

	rec, err := h.store.FindByEmail(c.Context(), email)
	if errors.Is(err, ErrNotFound) {
		return c.JSON(fiber.Map{"found": false})
	}
	if err != nil {
		l.Error("Lead lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"found": true, "lead": rec})
}

// HandleCreate stores a new lead. A taken email is a conflict.
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	lead, err := parseLead(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	rec, err := h.store.Insert(c.Context(), toRecord(*lead))
	if errors.Is(err, ErrExists) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": ErrExists.Error(),
		})
	}
	if err != nil {
		l.Error("Lead create failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	l.Info("Lead created", zap.String("email", rec.Email))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"lead": rec})
}

// HandleUpdate replaces the lead stored under the path email. Moving the
// lead onto an email another record already owns is a conflict.
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	email := c.Params("email")
	l := logger.WithRayID(h.logger, c)

	lead, err := parseLead(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	rec, err := h.store.Update(c.Context(), email, toRecord(*lead))
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": ErrNotFound.Error(),
		})
	case errors.Is(err, ErrExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": ErrExists.Error(),
		})
	case err != nil:
		l.Error("Lead update failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	l.Info("Lead updated", zap.String("email", rec.Email))
	return c.JSON(fiber.Map{"lead": rec})
}

func parseLead(c *fiber.Ctx) (*leads.Lead, error) {
	var lead leads.Lead
	if err := c.BodyParser(&lead); err != nil {
		return nil, errors.New("invalid request body")
	}
	if lead.Email == "" {
		return nil, errors.New("missing email")
	}
	if lead.Name == "" {
		return nil, errors.New("missing name")
	}
	return &lead, nil
}

func toRecord(lead leads.Lead) Record {
	n := lead.Normalized()
	return Record{
		Name:    n.Name,
		Email:   n.Email,
		Company: n.Company,
		Source:  n.Source,
	}
}
