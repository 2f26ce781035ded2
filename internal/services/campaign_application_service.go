package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/events"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/metrics"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/models"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/rbac"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/repositories"
	"go.uber.org/zap"
)

const msgCampaignApplicationNotFound = "Application not found."

type CampaignApplicationService struct {
	applications CampaignApplicationStore
	campaigns    CampaignStore
	notifier     Notifier
	audit        AuditLogger
	metrics      *metrics.Registry
	log          *zap.Logger
	now          func() time.Time
}

func NewCampaignApplicationService(
	applications CampaignApplicationStore,
	campaigns CampaignStore,
	notifier Notifier,
	audit AuditLogger,
	m *metrics.Registry,
	log *zap.Logger,
) *CampaignApplicationService {
	return &CampaignApplicationService{
		applications: applications,
		campaigns:    campaigns,
		notifier:     notifier,
		audit:        audit,
		metrics:      m,
		log:          log,
		now:          time.Now,
	}
}

// Apply submits an influencer's application. Eligibility is checked in
// order: role, campaign live, deadline not passed, not applied before.
func (s *CampaignApplicationService) Apply(ctx context.Context, actor rbac.Actor, a *models.CampaignApplication) (*models.CampaignApplicationView, error) {
	if !rbac.Can(actor, rbac.ActionCreate, rbac.ResourceCampaignApplication, uuid.Nil) {
		return nil, forbidden("Only influencers can apply to campaigns.")
	}

	errs := models.ValidateCampaignApplication(a)
	var campaign *models.Campaign
	if a.CampaignID == uuid.Nil {
		errs.Add("campaign", "This field is required.")
	} else {
		c, err := s.campaigns.GetByID(ctx, a.CampaignID)
		switch {
		case err == nil:
			campaign = c
		case !errors.Is(err, repositories.ErrNotFound):
			return nil, err
		}
		applied := false
		if campaign != nil {
			if applied, err = s.applications.Exists(ctx, a.CampaignID, actor.ID); err != nil {
				return nil, err
			}
		}
		errs.Merge(models.CheckApplyEligibility(campaign, applied, today(s.now)))
	}
	if err := invalid(errs); err != nil {
		return nil, err
	}

	a.InfluencerID = actor.ID
	a.Status = models.ApplicationStatusPending
	if err := s.applications.Create(ctx, a); err != nil {
		if repositories.IsConflict(err, repositories.ConstraintCampaignInfluencer) {
			return nil, fieldError("campaign", models.MsgAlreadyApplied)
		}
		return nil, err
	}

	view, err := s.applications.GetByID(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	view.Decorate()

	s.metrics.CampaignApplicationsTotal.WithLabelValues(a.Status).Inc()
	_ = s.audit.Log(ctx, models.UserAudit(actor.ID, models.AuditApplicationSubmitted, "campaign_application", a.ID,
		map[string]any{"campaign_id": a.CampaignID}))

	s.notifier.ApplicationReceived(view.InfluencerEmail, influencerName(view), campaign.Title, view.ProposedPrice)
	s.notifier.Publish(events.ChannelNotifications, events.UserNotification(
		campaign.BrandID.String(), "application_received",
		"New application to "+campaign.Title,
		map[string]any{"application_id": a.ID.String(), "campaign_id": campaign.ID.String()},
		s.now(),
	))
	return view, nil
}

func (s *CampaignApplicationService) Get(ctx context.Context, actor rbac.Actor, id uuid.UUID) (*models.CampaignApplicationView, error) {
	v, err := s.applications.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFound(msgCampaignApplicationNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !rbac.CampaignApplicationVisible(actor, v) {
		return nil, notFound(msgCampaignApplicationNotFound)
	}
	v.Decorate()
	return v, nil
}

// List returns the influencer's own applications, or for a brand the
// applications to its campaigns.
func (s *CampaignApplicationService) List(ctx context.Context, actor rbac.Actor, f repositories.CampaignApplicationFilter) ([]models.CampaignApplicationView, error) {
	scope := rbac.CampaignApplicationListScope(actor)
	if scope.None {
		return []models.CampaignApplicationView{}, nil
	}
	f.InfluencerID = scope.InfluencerID
	f.BrandID = scope.BrandID

	list, err := s.applications.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.CampaignApplicationView{}
	}
	for i := range list {
		list[i].Decorate()
	}
	return list, nil
}

// TransitionStatus records the brand's review decision. Setting the current
// status again is a no-op.
func (s *CampaignApplicationService) TransitionStatus(ctx context.Context, actor rbac.Actor, id uuid.UUID, status string) (*models.CampaignApplicationView, error) {
	v, err := s.applications.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFound(msgCampaignApplicationNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !rbac.Can(actor, rbac.ActionTransition, rbac.ResourceCampaignApplication, v.CampaignBrandID) {
		if rbac.CampaignApplicationVisible(actor, v) {
			return nil, forbidden("Only the campaign owner can change the application status.")
		}
		return nil, notFound(msgCampaignApplicationNotFound)
	}

	status = strings.ToUpper(strings.TrimSpace(status))
	if status == v.Status {
		v.Decorate()
		return v, nil
	}

	campaign, err := s.campaigns.GetByID(ctx, v.CampaignID)
	if err != nil {
		return nil, err
	}
	if err := invalid(models.ValidateApplicationTransition(v.Status, status, campaign)); err != nil {
		return nil, err
	}

	from := v.Status
	if err := s.applications.UpdateStatus(ctx, id, from, status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fieldError("status", "The application was updated concurrently, reload and try again.")
		}
		return nil, err
	}
	updated, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated.Decorate()

	s.metrics.CampaignApplicationsTotal.WithLabelValues(status).Inc()
	_ = s.audit.Log(ctx, models.UserAudit(actor.ID, models.AuditApplicationStatus, "campaign_application", id,
		map[string]any{"old_status": from, "new_status": status}))
	s.log.Info("campaign application status changed",
		zap.String("application_id", id.String()),
		zap.String("from", from),
		zap.String("to", status),
	)

	if models.IsDecision(status) {
		s.notifier.ApplicationDecision(updated.InfluencerEmail, influencerName(updated), campaign.Title, status)
	}
	s.notifier.Publish(events.ChannelNotifications, events.UserNotification(
		updated.InfluencerID.String(), "application_status",
		"Your application to "+campaign.Title+" is now "+updated.StatusDisplay,
		map[string]any{"application_id": id.String(), "status": status},
		s.now(),
	))
	return updated, nil
}

func influencerName(v *models.CampaignApplicationView) string {
	if name := strings.TrimSpace(v.InfluencerName); name != "" {
		return name
	}
	return v.InfluencerEmail
}
