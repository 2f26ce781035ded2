package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sk4ndal-commits/UGCMarketPlace/internal/metrics"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/models"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/rbac"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type fixture struct {
	db       *testutil.DB
	users    *testutil.UserStore
	blobs    *testutil.BlobStore
	notifier *testutil.Notifier
	metrics  *metrics.Registry
	log      *zap.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB()
	return &fixture{
		db:       db,
		users:    db.Users(),
		blobs:    testutil.NewBlobStore(),
		notifier: &testutil.Notifier{},
		metrics:  metrics.New(),
		log:      zap.NewNop(),
	}
}

// actor creates a user with the given role and returns it as an actor.
func (f *fixture) actor(t *testing.T, email string, role models.Role) rbac.Actor {
	t.Helper()
	u := &models.User{Email: email, FirstName: "Test", LastName: "User"}
	require.NoError(t, f.users.Create(context.Background(), u))
	f.users.SetRole(u.ID, role)
	return rbac.Actor{ID: u.ID, Role: role}
}

func (f *fixture) campaigns() *CampaignService {
	s := NewCampaignService(f.db.Campaigns(), f.blobs, f.db.AuditLog(), f.metrics, f.log)
	s.now = clock
	return s
}

func (f *fixture) campaignApplications() *CampaignApplicationService {
	s := NewCampaignApplicationService(f.db.CampaignApplications(), f.db.Campaigns(), f.notifier, f.db.AuditLog(), f.metrics, f.log)
	s.now = clock
	return s
}

func (f *fixture) templates() *TemplateService {
	return NewTemplateService(f.db.Templates(), time.Minute, f.metrics, f.log)
}

func (f *fixture) applications(templates *TemplateService) (*ApplicationService, *testutil.ApplicationStore) {
	store := f.db.Applications()
	s := NewApplicationService(store, templates, f.db.AuditLog(), f.metrics, f.log)
	s.now = clock
	return s, store
}

func validCampaign() *models.Campaign {
	return &models.Campaign{
		Title:        "Summer launch",
		Description:  "Short-form videos for the summer collection",
		ContentType:  models.ContentTikTokVideo,
		Deliverables: "3 videos",
		Budget:       "500",
		Deadline:     models.NewDate(2025, time.July, 1),
	}
}

// liveCampaign creates a campaign owned by brand and moves it to LIVE.
func (f *fixture) liveCampaign(t *testing.T, brand rbac.Actor) *models.Campaign {
	t.Helper()
	svc := f.campaigns()
	c, err := svc.Create(context.Background(), brand, validCampaign(), nil)
	require.NoError(t, err)
	live := models.CampaignStatusLive
	c, err = svc.Update(context.Background(), brand, c.ID, models.CampaignPatch{Status: &live})
	require.NoError(t, err)
	return c
}

func requireFieldError(t *testing.T, err error, field string) []string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	msgs := verr.Fields[field]
	require.NotEmpty(t, msgs, "no error for %q in %v", field, verr.Fields)
	return msgs
}

func actorOf(u *models.User, role models.Role) rbac.Actor {
	return rbac.Actor{ID: u.ID, Role: role}
}
