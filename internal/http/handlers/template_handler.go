package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/http/dto"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/services"
	"go.uber.org/zap"
)

type TemplateHandler struct {
	templates *services.TemplateService
	log       *zap.Logger
}

func NewTemplateHandler(templates *services.TemplateService, log *zap.Logger) *TemplateHandler {
	return &TemplateHandler{templates: templates, log: log}
}

func (h *TemplateHandler) ListTemplates(c *fiber.Ctx) error {
	list, err := h.templates.ListAvailable(c.Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, list)
}

// GetTemplate accepts either the template UUID or its slug.
func (h *TemplateHandler) GetTemplate(c *fiber.Ctx) error {
	tpl, err := h.templates.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, tpl)
}

// ValidateParameters checks the query string against the template's required
// parameters.
func (h *TemplateHandler) ValidateParameters(c *fiber.Ctx) error {
	params := make(map[string]any)
	for k, v := range c.Queries() {
		params[k] = v
	}

	check, err := h.templates.ValidateParameters(c.Context(), c.Params("id"), params)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if !check.Valid {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Envelope{
			Status: dto.StatusError,
			Data:   dto.ParameterCheckResponse{Valid: false},
			Errors: []string{check.Message},
		})
	}
	return ok(c, dto.ParameterCheckResponse{Valid: true})
}
