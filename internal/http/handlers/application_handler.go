package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/events"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/http/dto"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/middleware"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/models"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/repositories"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/services"
	"go.uber.org/zap"
)

// EventPublisher hands events off without blocking the request.
type EventPublisher interface {
	Publish(channel string, event events.Event)
}

type ApplicationHandler struct {
	applications *services.ApplicationService
	events       EventPublisher
	log          *zap.Logger
}

func NewApplicationHandler(applications *services.ApplicationService, pub EventPublisher, log *zap.Logger) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, events: pub, log: log}
}

func (h *ApplicationHandler) CreateApplication(c *fiber.Ctx) error {
	var req dto.CreateApplicationRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	a := &models.Application{
		Name:            req.Name,
		Description:     req.Description,
		Owner:           req.Owner,
		Visibility:      req.Visibility,
		Parameters:      req.Parameters,
		GitIntegration:  req.GitIntegration,
		OIDCIntegration: req.OIDCIntegration,
	}
	app, event, err := h.applications.Create(c.Context(), middleware.GetActor(c), a, req.TemplateID)
	if err != nil {
		return respondError(c, h.log, err)
	}

	h.log.Info("application provisioned",
		zap.String("application_id", app.ApplicationID),
		zap.String("creator_email", app.CreatorEmail),
		zap.String("template_id", event.TemplateID),
	)
	h.events.Publish(events.ChannelApplications, event.Event())
	return created(c, app)
}

func (h *ApplicationHandler) ListApplications(c *fiber.Ctx) error {
	filter := repositories.ApplicationFilter{}
	filter.Limit, filter.Offset = queryPage(c)

	list, err := h.applications.List(c.Context(), middleware.GetActor(c), filter)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, list)
}

func (h *ApplicationHandler) GetApplication(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	app, err := h.applications.Get(c.Context(), middleware.GetActor(c), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, app)
}

// CatalogView shows any non-private application to an authenticated user.
func (h *ApplicationHandler) CatalogView(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	app, err := h.applications.CatalogView(c.Context(), middleware.GetActor(c), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, app)
}

func (h *ApplicationHandler) UpdateApplication(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	var req dto.UpdateApplicationRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	app, err := h.applications.Update(c.Context(), middleware.GetActor(c), id, models.ApplicationPatch{
		Name:            req.Name,
		Description:     req.Description,
		Owner:           req.Owner,
		Visibility:      req.Visibility,
		Template:        req.Template,
		Parameters:      req.Parameters,
		GitIntegration:  req.GitIntegration,
		OIDCIntegration: req.OIDCIntegration,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, app)
}

func (h *ApplicationHandler) DeleteApplication(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.applications.Delete(c.Context(), middleware.GetActor(c), id); err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, dto.MessageResponse{Message: "Application deleted successfully."})
}
