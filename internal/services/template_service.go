package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/events"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/metrics"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/models"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/repositories"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	availableTemplatesKey = "templates:available"
	msgTemplateNotFound   = "Template not found."
)

var ErrTemplateInUse = errors.New("template is referenced by applications")

// ParameterCheck is the result of validating parameters against a template.
type ParameterCheck struct {
	Valid   bool     `json:"valid"`
	Missing []string `json:"missing,omitempty"`
	Message string   `json:"-"`
}

// TemplateService serves the read-mostly catalog from a short-lived cache.
// Concurrent misses share one query.
type TemplateService struct {
	templates TemplateStore
	cache     *cache.Cache
	group     singleflight.Group
	metrics   *metrics.Registry
	log       *zap.Logger
}

// NewTemplateService caches the available catalog for ttl. Writes made
// through this service clear the cache at once. Writes from another process
// are picked up when Invalidate is called, or after ttl at the latest.
func NewTemplateService(templates TemplateStore, ttl time.Duration, m *metrics.Registry, log *zap.Logger) *TemplateService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &TemplateService{
		templates: templates,
		cache:     cache.New(ttl, 2*ttl),
		metrics:   m,
		log:       log,
	}
}

// Invalidate drops the cached catalog.
func (s *TemplateService) Invalidate() {
	s.cache.Delete(availableTemplatesKey)
	s.group.Forget(availableTemplatesKey)
}

// WatchInvalidations clears the cache whenever another process announces a
// catalog change, until ctx is done.
func (s *TemplateService) WatchInvalidations(ctx context.Context, sub events.Subscriber) error {
	return sub.Subscribe(ctx, events.ChannelTemplates, func(e events.Event) {
		if e.Type != events.EventTemplatesChanged {
			return
		}
		s.Invalidate()
		s.log.Info("template cache invalidated", zap.Any("payload", e.Payload))
	})
}

func (s *TemplateService) ListAvailable(ctx context.Context) ([]models.Template, error) {
	if v, ok := s.cache.Get(availableTemplatesKey); ok {
		s.metrics.CacheHitsTotal.Inc()
		return v.([]models.Template), nil
	}
	s.metrics.CacheMissesTotal.Inc()

	v, err, _ := s.group.Do(availableTemplatesKey, func() (any, error) {
		list, err := s.templates.ListAvailable(ctx)
		if err != nil {
			return nil, err
		}
		if list == nil {
			list = []models.Template{}
		}
		s.cache.SetDefault(availableTemplatesKey, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Template), nil
}

// Get finds an available template by its UUID or its template_id slug.
func (s *TemplateService) Get(ctx context.Context, ref string) (*models.Template, error) {
	list, err := s.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	id, idErr := uuid.Parse(ref)
	for i := range list {
		if list[i].TemplateID == ref || (idErr == nil && list[i].ID == id) {
			t := list[i]
			return &t, nil
		}
	}
	return nil, notFound(msgTemplateNotFound)
}

// byID loads a template regardless of availability, for re-validating
// applications that already reference it.
func (s *TemplateService) byID(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	t, err := s.templates.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFound(msgTemplateNotFound)
	}
	return t, err
}

func (s *TemplateService) ValidateParameters(ctx context.Context, ref string, params map[string]any) (*ParameterCheck, error) {
	t, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	missing := t.MissingParameters(params)
	return &ParameterCheck{
		Valid:   len(missing) == 0,
		Missing: missing,
		Message: t.ValidateParameters(params),
	}, nil
}

// ListAll includes unavailable templates; operator use only.
func (s *TemplateService) ListAll(ctx context.Context) ([]models.Template, error) {
	return s.templates.ListAll(ctx)
}

// Import validates and upserts catalog entries, stopping at the first
// invalid one.
func (s *TemplateService) Import(ctx context.Context, list []models.Template) (int, error) {
	defer s.cache.Delete(availableTemplatesKey)
	for i := range list {
		t := &list[i]
		if errs := models.ValidateTemplate(t); !errs.Empty() {
			return i, fmt.Errorf("template %d (%q): %s", i, t.TemplateID, errs)
		}
		if err := s.templates.Upsert(ctx, t); err != nil {
			return i, fmt.Errorf("upsert %s: %w", t.TemplateID, err)
		}
		s.log.Info("template imported", zap.String("template_id", t.TemplateID))
	}
	return len(list), nil
}

// Delete removes a template unless applications still reference it.
func (s *TemplateService) Delete(ctx context.Context, templateID string) error {
	defer s.cache.Delete(availableTemplatesKey)

	t, err := s.templates.GetByTemplateID(ctx, templateID)
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound(msgTemplateNotFound)
	}
	if err != nil {
		return err
	}
	n, err := s.templates.CountApplications(ctx, t.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w (%d)", ErrTemplateInUse, n)
	}

	err = s.templates.Delete(ctx, templateID)
	var inUse *repositories.InUseError
	switch {
	case errors.As(err, &inUse):
		// an application was attached after the count
		return ErrTemplateInUse
	case errors.Is(err, repositories.ErrNotFound):
		return notFound(msgTemplateNotFound)
	}
	return err
}
