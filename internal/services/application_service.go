package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/events"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/metrics"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/models"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/rbac"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/repositories"
	"go.uber.org/zap"
)

const (
	msgApplicationNotFound  = "Application not found."
	msgApplicationNameTaken = "An application with this name already exists."

	// attempts at a fresh application_id after a unique violation
	applicationIDAttempts = 3
)

type ApplicationService struct {
	applications ApplicationStore
	templates    *TemplateService
	audit        AuditLogger
	metrics      *metrics.Registry
	log          *zap.Logger
	now          func() time.Time
}

func NewApplicationService(
	applications ApplicationStore,
	templates *TemplateService,
	audit AuditLogger,
	m *metrics.Registry,
	log *zap.Logger,
) *ApplicationService {
	return &ApplicationService{
		applications: applications,
		templates:    templates,
		audit:        audit,
		metrics:      m,
		log:          log,
		now:          time.Now,
	}
}

// resolveTemplate looks up an available template by slug or UUID and
// reports a failure under field.
func (s *ApplicationService) resolveTemplate(ctx context.Context, ref, field string, errs models.FieldErrors) (*models.Template, error) {
	t, err := s.templates.Get(ctx, ref)
	if errors.Is(err, ErrNotFound) {
		errs.Add(field, templateGone(ref))
		return nil, nil
	}
	return t, err
}

// Create provisions an application. The returned event is for the caller
// to publish; nothing is emitted here.
func (s *ApplicationService) Create(ctx context.Context, actor rbac.Actor, a *models.Application, templateRef string) (*models.Application, events.ApplicationCreated, error) {
	var none events.ApplicationCreated
	if !rbac.Can(actor, rbac.ActionCreate, rbac.ResourceApplication, uuid.Nil) {
		return nil, none, forbidden("Only creators can create applications.")
	}

	errs := models.FieldErrors{}
	var tpl *models.Template
	if templateRef != "" {
		t, err := s.resolveTemplate(ctx, templateRef, "template_id", errs)
		if err != nil {
			return nil, none, err
		}
		tpl = t
	}
	errs.Merge(models.ValidateApplication(a, tpl))
	if _, bad := errs["name"]; !bad {
		taken, err := s.applications.ExistsByName(ctx, a.Name, nil)
		if err != nil {
			return nil, none, err
		}
		if taken {
			errs.Add("name", msgApplicationNameTaken)
		}
	}
	if err := invalid(errs); err != nil {
		return nil, none, err
	}

	a.CreatorID = actor.ID
	a.TemplateRef = nil
	if tpl != nil {
		a.TemplateRef = &tpl.ID
	}
	if err := s.insert(ctx, a, templateRef); err != nil {
		return nil, none, err
	}

	created, err := s.applications.GetByID(ctx, a.ID)
	if err != nil {
		return nil, none, err
	}
	created.Decorate()

	s.metrics.ApplicationsProvisionedTotal.Inc()
	_ = s.audit.Log(ctx, models.UserAudit(actor.ID, models.AuditAppProvisioned, "application", created.ID,
		map[string]any{"application_id": created.ApplicationID}))

	event := events.ApplicationCreated{
		Timestamp:       s.now(),
		ApplicationID:   created.ApplicationID,
		ApplicationName: created.Name,
		CreatorEmail:    created.CreatorEmail,
		Owner:           created.Owner,
		Visibility:      created.Visibility,
		CreatedAt:       created.CreatedAt,
	}
	if created.TemplateID != nil {
		event.TemplateID = *created.TemplateID
	}
	return created, event, nil
}

// insert assigns a fresh application_id and retries on collision.
func (s *ApplicationService) insert(ctx context.Context, a *models.Application, templateRef string) error {
	var err error
	for attempt := 0; attempt < applicationIDAttempts; attempt++ {
		if a.ApplicationID, err = models.GenerateApplicationID(); err != nil {
			return err
		}
		err = s.applications.Create(ctx, a)
		if !repositories.IsConflict(err, repositories.ConstraintApplicationID) {
			break
		}
		s.log.Warn("application_id collision", zap.String("application_id", a.ApplicationID), zap.Int("attempt", attempt+1))
	}
	switch {
	case repositories.IsConflict(err, repositories.ConstraintApplicationName):
		return fieldError("name", msgApplicationNameTaken)
	case repositories.IsInUse(err, repositories.ConstraintApplicationTemplateFK):
		return fieldError("template_id", templateGone(templateRef))
	}
	return err
}

// templateGone is the message for a missing or unavailable template.
func templateGone(ref string) string {
	return fmt.Sprintf("Template '%s' not found or not available.", ref)
}

func (s *ApplicationService) Get(ctx context.Context, actor rbac.Actor, id uuid.UUID) (*models.Application, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rbac.ApplicationVisible(actor, a) {
		return nil, notFound(msgApplicationNotFound)
	}
	return a, nil
}

// CatalogView is the catalog detail page: any authenticated user may see
// an application unless it is private to another creator.
func (s *ApplicationService) CatalogView(ctx context.Context, actor rbac.Actor, id uuid.UUID) (*models.Application, error) {
	if !rbac.Can(actor, rbac.ActionRead, rbac.ResourceApplication, uuid.Nil) {
		return nil, unauthorized("Authentication credentials were not provided.")
	}
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.VisibleTo(actor.ID) {
		return nil, notFound(msgApplicationNotFound)
	}
	return a, nil
}

func (s *ApplicationService) List(ctx context.Context, actor rbac.Actor, f repositories.ApplicationFilter) ([]models.Application, error) {
	scope := rbac.ApplicationListScope(actor)
	if scope.None {
		return []models.Application{}, nil
	}
	f.CreatorID = scope.CreatorID
	f.Visibility = scope.Visibility

	list, err := s.applications.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Application{}
	}
	for i := range list {
		list[i].Decorate()
	}
	return list, nil
}

func (s *ApplicationService) owned(ctx context.Context, actor rbac.Actor, action string, id uuid.UUID) (*models.Application, error) {
	if !rbac.RoleAllows(actor, action, rbac.ResourceApplication) {
		return nil, forbidden("Only creators can modify applications.")
	}
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rbac.Can(actor, action, rbac.ResourceApplication, a.CreatorID) {
		return nil, notFound(msgApplicationNotFound)
	}
	return a, nil
}

func (s *ApplicationService) Update(ctx context.Context, actor rbac.Actor, id uuid.UUID, p models.ApplicationPatch) (*models.Application, error) {
	existing, err := s.owned(ctx, actor, rbac.ActionUpdate, id)
	if err != nil {
		return nil, err
	}

	a := *existing
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Owner != nil {
		a.Owner = *p.Owner
	}
	if p.Visibility != nil {
		a.Visibility = *p.Visibility
	}
	if p.Parameters != nil {
		a.Parameters = p.Parameters
	}
	if p.GitIntegration != nil {
		a.GitIntegration = p.GitIntegration
	}
	if p.OIDCIntegration != nil {
		a.OIDCIntegration = p.OIDCIntegration
	}

	errs := models.FieldErrors{}
	var tpl *models.Template
	switch {
	case p.Template != nil && *p.Template == "":
		a.TemplateRef = nil
	case p.Template != nil:
		if tpl, err = s.resolveTemplate(ctx, *p.Template, "template", errs); err != nil {
			return nil, err
		}
		if tpl != nil {
			a.TemplateRef = &tpl.ID
		}
	case a.TemplateRef != nil:
		if tpl, err = s.templates.byID(ctx, *a.TemplateRef); err != nil {
			return nil, err
		}
	}

	errs.Merge(models.ValidateApplication(&a, tpl))
	if _, bad := errs["name"]; !bad && a.Name != existing.Name {
		taken, err := s.applications.ExistsByName(ctx, a.Name, &a.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("name", msgApplicationNameTaken)
		}
	}
	if err := invalid(errs); err != nil {
		return nil, err
	}

	if err := s.applications.Update(ctx, &a); err != nil {
		switch {
		case repositories.IsConflict(err, repositories.ConstraintApplicationName):
			return nil, fieldError("name", msgApplicationNameTaken)
		case repositories.IsInUse(err, repositories.ConstraintApplicationTemplateFK):
			return nil, fieldError("template", templateGone(patchTemplateRef(p, existing)))
		case errors.Is(err, repositories.ErrNotFound):
			return nil, notFound(msgApplicationNotFound)
		}
		return nil, err
	}

	_ = s.audit.Log(ctx, models.UserAudit(actor.ID, models.AuditAppUpdated, "application", id, nil))
	return s.load(ctx, id)
}

// patchTemplateRef names the template an update points at, for messages.
func patchTemplateRef(p models.ApplicationPatch, existing *models.Application) string {
	switch {
	case p.Template != nil:
		return *p.Template
	case existing.TemplateID != nil:
		return *existing.TemplateID
	case existing.TemplateRef != nil:
		return existing.TemplateRef.String()
	}
	return ""
}

func (s *ApplicationService) Delete(ctx context.Context, actor rbac.Actor, id uuid.UUID) error {
	a, err := s.owned(ctx, actor, rbac.ActionDelete, id)
	if err != nil {
		return err
	}
	if err := s.applications.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(msgApplicationNotFound)
		}
		return err
	}
	_ = s.audit.Log(ctx, models.UserAudit(actor.ID, models.AuditAppDeleted, "application", id,
		map[string]any{"application_id": a.ApplicationID}))
	return nil
}

func (s *ApplicationService) load(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	a, err := s.applications.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFound(msgApplicationNotFound)
	}
	if err != nil {
		return nil, err
	}
	a.Decorate()
	return a, nil
}
