package services

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/metrics"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/models"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/rbac"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/repositories"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/storage"
	"go.uber.org/zap"
)

const msgCampaignNotFound = "Campaign not found."

// Upload is one reference file received from the client.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

type CampaignService struct {
	campaigns CampaignStore
	files     BlobStore
	audit     AuditLogger
	metrics   *metrics.Registry
	log       *zap.Logger
	now       func() time.Time
}

func NewCampaignService(
	campaigns CampaignStore,
	files BlobStore,
	audit AuditLogger,
	m *metrics.Registry,
	log *zap.Logger,
) *CampaignService {
	return &CampaignService{
		campaigns: campaigns,
		files:     files,
		audit:     audit,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

func (s *CampaignService) Create(ctx context.Context, actor rbac.Actor, c *models.Campaign, uploads []Upload) (*models.Campaign, error) {
	if !rbac.Can(actor, rbac.ActionCreate, rbac.ResourceCampaign, uuid.Nil) {
		return nil, forbidden("Only brands can create campaigns.")
	}

	c.BrandID = actor.ID
	if c.Status == "" {
		c.Status = models.CampaignStatusDraft
	}
	errs := models.ValidateCampaign(c, nil, today(s.now))
	for _, u := range uploads {
		for _, msg := range models.ValidateCampaignFile(u.Filename, u.Size)["file"] {
			errs.Add("reference_files", msg)
		}
	}
	if err := invalid(errs); err != nil {
		return nil, err
	}

	if err := s.campaigns.Create(ctx, c); err != nil {
		return nil, err
	}
	for _, u := range uploads {
		f, err := s.attach(ctx, c.ID, u)
		if err != nil {
			s.discard(ctx, c)
			return nil, err
		}
		c.ReferenceFiles = append(c.ReferenceFiles, *f)
	}
	s.metrics.CampaignsCreatedTotal.Inc()
	_ = s.audit.Log(ctx, models.UserAudit(actor.ID, models.AuditCampaignCreated, "campaign", c.ID,
		map[string]any{"status": c.Status}))

	created, err := s.campaigns.GetByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	created.ReferenceFiles = c.ReferenceFiles
	created.Decorate()
	return created, nil
}

func (s *CampaignService) Get(ctx context.Context, actor rbac.Actor, id uuid.UUID) (*models.Campaign, error) {
	c, err := s.campaigns.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFound(msgCampaignNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !rbac.CampaignVisible(actor, c) {
		return nil, notFound(msgCampaignNotFound)
	}
	list := []models.Campaign{*c}
	if err := s.withFiles(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// List applies the actor's visibility scope. Budget, category, content type
// and deadline filters only narrow the influencer view.
func (s *CampaignService) List(ctx context.Context, actor rbac.Actor, f repositories.CampaignFilter) ([]models.Campaign, error) {
	scope := rbac.CampaignListScope(actor)
	if scope.None {
		return []models.Campaign{}, nil
	}
	f.BrandID = scope.BrandID
	f.Status = scope.Status
	if actor.Role != models.RoleInfluencer {
		f.BudgetMin, f.BudgetMax, f.Category, f.ContentType, f.DeadlineBefore = nil, nil, nil, nil, nil
	}

	campaigns, err := s.campaigns.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if campaigns == nil {
		campaigns = []models.Campaign{}
	}
	if err := s.withFiles(ctx, campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}

// owned loads a campaign for a write action. A wrong role is 403, a campaign
// owned by someone else is indistinguishable from a missing one.
func (s *CampaignService) owned(ctx context.Context, actor rbac.Actor, action string, id uuid.UUID) (*models.Campaign, error) {
	if !rbac.RoleAllows(actor, action, rbac.ResourceCampaign) {
		return nil, forbidden("Only brands can modify campaigns.")
	}
	c, err := s.campaigns.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFound(msgCampaignNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !rbac.Can(actor, action, rbac.ResourceCampaign, c.BrandID) {
		return nil, notFound(msgCampaignNotFound)
	}
	return c, nil
}

func (s *CampaignService) Update(ctx context.Context, actor rbac.Actor, id uuid.UUID, patch models.CampaignPatch) (*models.Campaign, error) {
	existing, err := s.owned(ctx, actor, rbac.ActionUpdate, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	patch.Apply(&updated)
	if err := invalid(models.ValidateCampaign(&updated, existing, today(s.now))); err != nil {
		return nil, err
	}
	if err := s.campaigns.Update(ctx, &updated); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound(msgCampaignNotFound)
		}
		return nil, err
	}

	if existing.Status != updated.Status {
		_ = s.audit.Log(ctx, models.UserAudit(actor.ID, models.AuditCampaignStatus, "campaign", id,
			map[string]any{"old_status": existing.Status, "new_status": updated.Status}))
		s.log.Info("campaign status changed",
			zap.String("campaign_id", id.String()),
			zap.String("from", existing.Status),
			zap.String("to", updated.Status),
		)
	}

	list := []models.Campaign{updated}
	if err := s.withFiles(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// Delete removes the campaign with its files and applications. Stored
// objects are removed best-effort after the rows are gone.
func (s *CampaignService) Delete(ctx context.Context, actor rbac.Actor, id uuid.UUID) error {
	if _, err := s.owned(ctx, actor, rbac.ActionDelete, id); err != nil {
		return err
	}
	files, err := s.campaigns.ListFiles(ctx, []uuid.UUID{id})
	if err != nil {
		return err
	}
	if err := s.campaigns.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(msgCampaignNotFound)
		}
		return err
	}
	for _, f := range files[id] {
		if err := s.files.Remove(ctx, f.StorageKey); err != nil {
			s.log.Warn("failed to remove campaign file", zap.String("key", f.StorageKey), zap.Error(err))
		}
	}

	_ = s.audit.Log(ctx, models.UserAudit(actor.ID, models.AuditCampaignDeleted, "campaign", id,
		map[string]any{"files": len(files[id])}))
	return nil
}

func (s *CampaignService) UploadFile(ctx context.Context, actor rbac.Actor, id uuid.UUID, u Upload) (*models.CampaignFile, error) {
	c, err := s.owned(ctx, actor, rbac.ActionUpload, id)
	if err != nil {
		return nil, err
	}
	if err := invalid(models.ValidateCampaignFile(u.Filename, u.Size)); err != nil {
		return nil, err
	}
	f, err := s.attach(ctx, c.ID, u)
	if err != nil {
		return nil, err
	}
	_ = s.audit.Log(ctx, models.UserAudit(actor.ID, models.AuditCampaignFileAdded, "campaign", c.ID,
		map[string]any{"file_id": f.ID, "filename": f.OriginalName}))
	return f, nil
}

// attach stores the blob and records it. The declared size was validated by
// the caller; the stored size is checked again since clients can lie.
// discard rolls back a half-created campaign. Deleting the row cascades to
// the attached file rows; the stored objects are removed here.
func (s *CampaignService) discard(ctx context.Context, c *models.Campaign) {
	ctx = context.WithoutCancel(ctx)
	for _, f := range c.ReferenceFiles {
		_ = s.files.Remove(ctx, f.StorageKey)
	}
	if err := s.campaigns.Delete(ctx, c.ID); err != nil {
		s.log.Error("failed to roll back campaign", zap.String("campaign_id", c.ID.String()), zap.Error(err))
	}
}

func (s *CampaignService) attach(ctx context.Context, campaignID uuid.UUID, u Upload) (*models.CampaignFile, error) {
	key := storage.CampaignFileKey(campaignID, u.Filename)
	obj, err := s.files.Save(ctx, key, io.LimitReader(u.Content, models.MaxCampaignFileSize+1))
	if err != nil {
		return nil, err
	}
	if obj.Size > models.MaxCampaignFileSize {
		_ = s.files.Remove(ctx, key)
		return nil, invalid(models.ValidateCampaignFile(u.Filename, obj.Size))
	}

	f := &models.CampaignFile{
		CampaignID:   campaignID,
		StorageKey:   key,
		OriginalName: u.Filename,
		Size:         obj.Size,
		ContentType:  obj.ContentType,
	}
	if err := s.campaigns.AddFile(ctx, f); err != nil {
		_ = s.files.Remove(ctx, key)
		return nil, err
	}
	f.URL = s.files.URL(key)
	return f, nil
}

// withFiles loads reference files for the campaigns in place and fills the
// display fields.
func (s *CampaignService) withFiles(ctx context.Context, campaigns []models.Campaign) error {
	ids := make([]uuid.UUID, len(campaigns))
	for i := range campaigns {
		ids[i] = campaigns[i].ID
	}
	files, err := s.campaigns.ListFiles(ctx, ids)
	if err != nil {
		return err
	}
	for i := range campaigns {
		fs := files[campaigns[i].ID]
		for j := range fs {
			fs[j].URL = s.files.URL(fs[j].StorageKey)
		}
		campaigns[i].ReferenceFiles = fs
		campaigns[i].Decorate()
	}
	return nil
}
