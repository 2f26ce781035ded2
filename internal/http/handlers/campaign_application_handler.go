package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/http/dto"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/middleware"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/models"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/repositories"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/services"
	"go.uber.org/zap"
)

type CampaignApplicationHandler struct {
	applications *services.CampaignApplicationService
	log          *zap.Logger
}

func NewCampaignApplicationHandler(applications *services.CampaignApplicationService, log *zap.Logger) *CampaignApplicationHandler {
	return &CampaignApplicationHandler{applications: applications, log: log}
}

func (h *CampaignApplicationHandler) Apply(c *fiber.Ctx) error {
	var req dto.CreateCampaignApplicationRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	a := &models.CampaignApplication{
		Pitch:         req.Pitch,
		PortfolioLink: req.PortfolioLink,
		ProposedPrice: req.ProposedPrice.StringPtr(),
	}
	if ref := strings.TrimSpace(req.Campaign); ref != "" {
		id, err := uuid.Parse(ref)
		if err != nil {
			errs := models.FieldErrors{}
			errs.Add("campaign", "Must be a valid UUID.")
			return respondError(c, h.log, fieldErrors(errs))
		}
		a.CampaignID = id
	}

	view, err := h.applications.Apply(c.Context(), middleware.GetActor(c), a)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return created(c, view)
}

func (h *CampaignApplicationHandler) ListApplications(c *fiber.Ctx) error {
	filter := repositories.CampaignApplicationFilter{}
	filter.Limit, filter.Offset = queryPage(c)
	if v := strings.ToUpper(c.Query("status")); models.IsApplicationStatus(v) {
		filter.Status = &v
	}
	if v := c.Query("campaign"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filter.CampaignID = &id
		}
	}

	list, err := h.applications.List(c.Context(), middleware.GetActor(c), filter)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, list)
}

func (h *CampaignApplicationHandler) GetApplication(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	view, err := h.applications.Get(c.Context(), middleware.GetActor(c), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, view)
}

func (h *CampaignApplicationHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	var req dto.StatusRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	view, err := h.applications.TransitionStatus(c.Context(), middleware.GetActor(c), id, req.Status)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, view)
}
