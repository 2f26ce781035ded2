package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/models"
)

// MetaHandler serves the fixed choice lists the clients render in forms.
type MetaHandler struct{}

func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

func (h *MetaHandler) GetCategories(c *fiber.Ctx) error {
	return ok(c, models.CategoryChoices())
}

func (h *MetaHandler) GetContentTypes(c *fiber.Ctx) error {
	return ok(c, models.ContentTypeChoices())
}

func (h *MetaHandler) GetVisibilities(c *fiber.Ctx) error {
	return ok(c, models.VisibilityChoices())
}

func (h *MetaHandler) GetApplicationStatuses(c *fiber.Ctx) error {
	return ok(c, models.ApplicationStatusChoices())
}
