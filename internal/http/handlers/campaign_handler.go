package handlers

import (
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/http/dto"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/middleware"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/models"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/repositories"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/services"
	"go.uber.org/zap"
)

const msgRequired = "This field is required."

type CampaignHandler struct {
	campaigns *services.CampaignService
	log       *zap.Logger
}

func NewCampaignHandler(campaigns *services.CampaignService, log *zap.Logger) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns, log: log}
}

// CreateCampaign accepts JSON, or multipart with reference_files attached.
func (h *CampaignHandler) CreateCampaign(c *fiber.Ctx) error {
	var (
		req     dto.CampaignRequest
		uploads []services.Upload
	)
	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return respondError(c, h.log, err)
		}
		req = campaignRequestFromForm(form)
		files, err := openUploads(form.File["reference_files"])
		defer closeUploads(files)
		if err != nil {
			return respondError(c, h.log, err)
		}
		uploads = files
	} else if err := bind(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	errs := models.FieldErrors{}
	required := map[string]bool{
		"title":        req.Title == nil,
		"description":  req.Description == nil,
		"content_type": req.ContentType == nil,
		"deliverables": req.Deliverables == nil,
		"budget":       req.Budget == nil,
		"deadline":     req.Deadline == nil,
	}
	for field, missing := range required {
		if missing {
			errs.Add(field, msgRequired)
		}
	}
	campaign := &models.Campaign{}
	patch, perrs := campaignPatch(req)
	errs.Merge(perrs)
	if err := fieldErrors(errs); err != nil {
		return respondError(c, h.log, err)
	}
	patch.Apply(campaign)

	campaign, err := h.campaigns.Create(c.Context(), middleware.GetActor(c), campaign, uploads)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return created(c, campaign)
}

func (h *CampaignHandler) GetCampaign(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	campaign, err := h.campaigns.Get(c.Context(), middleware.GetActor(c), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, campaign)
}

// ListCampaigns ignores malformed filter values instead of rejecting them.
func (h *CampaignHandler) ListCampaigns(c *fiber.Ctx) error {
	filter := repositories.CampaignFilter{}
	filter.Limit, filter.Offset = queryPage(c)

	if v := c.Query("budget_min"); v != "" {
		if _, err := decimal.NewFromString(v); err == nil {
			filter.BudgetMin = &v
		}
	}
	if v := c.Query("budget_max"); v != "" {
		if _, err := decimal.NewFromString(v); err == nil {
			filter.BudgetMax = &v
		}
	}
	if v := strings.ToUpper(c.Query("category")); models.IsCategory(v) {
		filter.Category = &v
	}
	if v := strings.ToUpper(c.Query("content_type")); models.IsContentType(v) {
		filter.ContentType = &v
	}
	if v := c.Query("deadline_before"); v != "" {
		if d, err := models.ParseDate(v); err == nil {
			filter.DeadlineBefore = &d
		}
	}

	campaigns, err := h.campaigns.List(c.Context(), middleware.GetActor(c), filter)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, campaigns)
}

func (h *CampaignHandler) UpdateCampaign(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	var req dto.CampaignRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.log, err)
	}
	patch, errs := campaignPatch(req)
	if err := fieldErrors(errs); err != nil {
		return respondError(c, h.log, err)
	}

	updated, err := h.campaigns.Update(c.Context(), middleware.GetActor(c), id, patch)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, updated)
}

func (h *CampaignHandler) DeleteCampaign(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.campaigns.Delete(c.Context(), middleware.GetActor(c), id); err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, dto.MessageResponse{Message: "Campaign deleted successfully."})
}

// UploadFile attaches one reference file sent as multipart field "file".
func (h *CampaignHandler) UploadFile(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		errs := models.FieldErrors{}
		errs.Add("file", "No file was submitted.")
		return respondError(c, h.log, fieldErrors(errs))
	}
	uploads, err := openUploads([]*multipart.FileHeader{fh})
	defer closeUploads(uploads)
	if err != nil {
		return respondError(c, h.log, err)
	}

	file, err := h.campaigns.UploadFile(c.Context(), middleware.GetActor(c), id, uploads[0])
	if err != nil {
		return respondError(c, h.log, err)
	}
	return created(c, file)
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

func campaignRequestFromForm(form *multipart.Form) dto.CampaignRequest {
	value := func(key string) *string {
		if vs, ok := form.Value[key]; ok && len(vs) > 0 {
			return &vs[0]
		}
		return nil
	}
	req := dto.CampaignRequest{
		Title:        value("title"),
		Description:  value("description"),
		ContentType:  value("content_type"),
		Category:     value("category"),
		Deliverables: value("deliverables"),
		Deadline:     value("deadline"),
		Status:       value("status"),
	}
	if b := value("budget"); b != nil {
		amount := dto.Amount(*b)
		req.Budget = &amount
	}
	return req
}

// campaignPatch converts the request, reporting a malformed deadline on its
// field.
func campaignPatch(req dto.CampaignRequest) (models.CampaignPatch, models.FieldErrors) {
	errs := models.FieldErrors{}
	patch := models.CampaignPatch{
		Title:        req.Title,
		Description:  req.Description,
		ContentType:  upper(req.ContentType),
		Category:     upper(req.Category),
		Deliverables: req.Deliverables,
		Budget:       req.Budget.StringPtr(),
		Status:       upper(req.Status),
	}
	if req.Deadline != nil {
		d, err := models.ParseDate(strings.TrimSpace(*req.Deadline))
		if err != nil {
			errs.Add("deadline", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
		} else {
			patch.Deadline = &d
		}
	}
	return patch, errs
}

func openUploads(headers []*multipart.FileHeader) ([]services.Upload, error) {
	uploads := make([]services.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return uploads, err
		}
		uploads = append(uploads, services.Upload{Filename: fh.Filename, Size: fh.Size, Content: f})
	}
	return uploads, nil
}

func closeUploads(uploads []services.Upload) {
	for _, u := range uploads {
		if f, ok := u.Content.(multipart.File); ok {
			_ = f.Close()
		}
	}
}

func upper(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToUpper(strings.TrimSpace(*s))
	return &v
}
