package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sk4ndal-commits/UGCMarketPlace/internal/models"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/repositories"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/storage"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaignCreateDefaults(t *testing.T) {
	f := newFixture(t)
	brand := f.actor(t, "brand@example.com", models.RoleBrand)
	ctx := context.Background()

	c, err := f.campaigns().Create(ctx, brand, validCampaign(), nil)
	require.NoError(t, err)

	assert.Equal(t, brand.ID, c.BrandID)
	assert.Equal(t, "brand@example.com", c.BrandEmail)
	assert.Equal(t, models.CampaignStatusDraft, c.Status)
	assert.Equal(t, "Draft", c.StatusDisplay)
	assert.Equal(t, models.CategoryOther, c.Category)
	assert.Equal(t, "500.00", c.Budget)
	assert.Equal(t, "TikTok Video", c.ContentTypeDisplay)
	assert.NotNil(t, c.ReferenceFiles)
	assert.Equal(t, []string{models.AuditCampaignCreated}, f.db.Actions())
}

func TestCampaignCreateRequiresBrand(t *testing.T) {
	f := newFixture(t)
	influencer := f.actor(t, "inf@example.com", models.RoleInfluencer)

	_, err := f.campaigns().Create(context.Background(), influencer, validCampaign(), nil)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCampaignCreateValidation(t *testing.T) {
	f := newFixture(t)
	brand := f.actor(t, "brand@example.com", models.RoleBrand)

	c := validCampaign()
	c.Deadline = models.NewDate(2025, time.June, 1)
	c.Budget = "0"
	c.Status = models.CampaignStatusClosed
	_, err := f.campaigns().Create(context.Background(), brand, c, nil)

	assert.Equal(t, []string{"Deadline must be a future date."}, requireFieldError(t, err, "deadline"))
	assert.Equal(t, []string{"Budget must be greater than 0."}, requireFieldError(t, err, "budget"))
	requireFieldError(t, err, "status")
	assert.Empty(t, f.db.Actions())
}

func TestCampaignCreateWithReferenceFiles(t *testing.T) {
	f := newFixture(t)
	brand := f.actor(t, "brand@example.com", models.RoleBrand)
	ctx := context.Background()

	uploads := []Upload{
		{Filename: "brief.pdf", Size: 128, Content: testutil.Upload(128)},
		{Filename: "moodboard.PNG", Size: 64, Content: testutil.Upload(64)},
	}
	c, err := f.campaigns().Create(ctx, brand, validCampaign(), uploads)
	require.NoError(t, err)

	require.Len(t, c.ReferenceFiles, 2)
	assert.Equal(t, 2, f.blobs.Len())
	for _, file := range c.ReferenceFiles {
		assert.True(t, strings.HasPrefix(file.URL, "/media/campaign_files/"+c.ID.String()+"/"), file.URL)
	}

	got, err := f.campaigns().Get(ctx, brand, c.ID)
	require.NoError(t, err)
	assert.Len(t, got.ReferenceFiles, 2)
}

// flakyBlobs fails every save after the first ok ones.
type flakyBlobs struct {
	*testutil.BlobStore
	ok int
}

func (b *flakyBlobs) Save(ctx context.Context, key string, r io.Reader) (storage.Object, error) {
	if b.ok == 0 {
		return storage.Object{}, errors.New("disk full")
	}
	b.ok--
	return b.BlobStore.Save(ctx, key, r)
}

func TestCampaignCreateRollsBackOnAttachFailure(t *testing.T) {
	f := newFixture(t)
	brand := f.actor(t, "brand@example.com", models.RoleBrand)
	ctx := context.Background()
	blobs := &flakyBlobs{BlobStore: testutil.NewBlobStore(), ok: 1}
	svc := NewCampaignService(f.db.Campaigns(), blobs, f.db.AuditLog(), f.metrics, f.log)
	svc.now = clock

	campaign := validCampaign()
	uploads := []Upload{
		{Filename: "brief.pdf", Size: 128, Content: testutil.Upload(128)},
		{Filename: "moodboard.png", Size: 64, Content: testutil.Upload(64)},
	}
	_, err := svc.Create(ctx, brand, campaign, uploads)
	require.EqualError(t, err, "disk full")

	_, err = svc.Get(ctx, brand, campaign.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, blobs.Len())
}

func TestCampaignCreateRejectsBadFiles(t *testing.T) {
	f := newFixture(t)
	brand := f.actor(t, "brand@example.com", models.RoleBrand)

	uploads := []Upload{
		{Filename: "payload.exe", Size: 10, Content: testutil.Upload(10)},
		{Filename: "huge.mp4", Size: models.MaxCampaignFileSize + 1, Content: testutil.Upload(1)},
	}
	_, err := f.campaigns().Create(context.Background(), brand, validCampaign(), uploads)

	msgs := requireFieldError(t, err, "reference_files")
	assert.Len(t, msgs, 2)
	assert.Equal(t, 0, f.blobs.Len())
}

func TestCampaignUploadRechecksStoredSize(t *testing.T) {
	f := newFixture(t)
	brand := f.actor(t, "brand@example.com", models.RoleBrand)
	ctx := context.Background()
	svc := f.campaigns()

	c, err := svc.Create(ctx, brand, validCampaign(), nil)
	require.NoError(t, err)

	// declared size lies about the body
	_, err = svc.UploadFile(ctx, brand, c.ID, Upload{
		Filename: "brief.pdf",
		Size:     10,
		Content:  testutil.Upload(models.MaxCampaignFileSize + 100),
	})
	requireFieldError(t, err, "file")
	assert.Equal(t, 0, f.blobs.Len())

	file, err := svc.UploadFile(ctx, brand, c.ID, Upload{Filename: "brief.pdf", Size: 10, Content: testutil.Upload(10)})
	require.NoError(t, err)
	assert.Equal(t, int64(10), file.Size)
	assert.Equal(t, "brief.pdf", file.OriginalName)
}

func TestCampaignVisibility(t *testing.T) {
	f := newFixture(t)
	brand := f.actor(t, "brand@example.com", models.RoleBrand)
	other := f.actor(t, "other@example.com", models.RoleBrand)
	influencer := f.actor(t, "inf@example.com", models.RoleInfluencer)
	creator := f.actor(t, "creator@example.com", models.RoleCreator)
	ctx := context.Background()
	svc := f.campaigns()

	draft, err := svc.Create(ctx, brand, validCampaign(), nil)
	require.NoError(t, err)
	live := f.liveCampaign(t, brand)

	_, err = svc.Get(ctx, influencer, draft.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Get(ctx, other, draft.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	got, err := svc.Get(ctx, influencer, live.ID)
	require.NoError(t, err)
	assert.Equal(t, live.ID, got.ID)

	mine, err := svc.List(ctx, brand, repositories.CampaignFilter{})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := svc.List(ctx, other, repositories.CampaignFilter{})
	require.NoError(t, err)
	assert.Empty(t, theirs)

	open, err := svc.List(ctx, influencer, repositories.CampaignFilter{})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, live.ID, open[0].ID)

	none, err := svc.List(ctx, creator, repositories.CampaignFilter{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCampaignListFiltersApplyToInfluencers(t *testing.T) {
	f := newFixture(t)
	brand := f.actor(t, "brand@example.com", models.RoleBrand)
	influencer := f.actor(t, "inf@example.com", models.RoleInfluencer)
	ctx := context.Background()
	f.liveCampaign(t, brand)

	floor := "1000"
	list, err := f.campaigns().List(ctx, influencer, repositories.CampaignFilter{BudgetMin: &floor})
	require.NoError(t, err)
	assert.Empty(t, list)

	// brands are scoped to their own campaigns and the filter is dropped
	list, err = f.campaigns().List(ctx, brand, repositories.CampaignFilter{BudgetMin: &floor})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCampaignUpdate(t *testing.T) {
	f := newFixture(t)
	brand := f.actor(t, "brand@example.com", models.RoleBrand)
	other := f.actor(t, "other@example.com", models.RoleBrand)
	influencer := f.actor(t, "inf@example.com", models.RoleInfluencer)
	ctx := context.Background()
	svc := f.campaigns()

	c := f.liveCampaign(t, brand)

	title := "Renamed"
	_, err := svc.Update(ctx, other, c.ID, models.CampaignPatch{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Update(ctx, influencer, c.ID, models.CampaignPatch{Title: &title})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.Update(ctx, brand, c.ID, models.CampaignPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, models.CampaignStatusLive, updated.Status)

	draft := models.CampaignStatusDraft
	_, err = svc.Update(ctx, brand, c.ID, models.CampaignPatch{Status: &draft})
	assert.Equal(t, []string{"Cannot change status from LIVE to DRAFT."}, requireFieldError(t, err, "status"))

	closed := models.CampaignStatusClosed
	updated, err = svc.Update(ctx, brand, c.ID, models.CampaignPatch{Status: &closed})
	require.NoError(t, err)
	assert.Equal(t, "Closed", updated.StatusDisplay)

	assert.Equal(t, []string{
		models.AuditCampaignCreated,
		models.AuditCampaignStatus,
		models.AuditCampaignStatus,
	}, f.db.Actions())
}

func TestCampaignCloseAfterDeadline(t *testing.T) {
	f := newFixture(t)
	brand := f.actor(t, "brand@example.com", models.RoleBrand)
	ctx := context.Background()
	svc := f.campaigns()
	c := f.liveCampaign(t, brand)

	svc.now = func() time.Time { return fixedNow.AddDate(0, 2, 0) }
	closed := models.CampaignStatusClosed
	_, err := svc.Update(ctx, brand, c.ID, models.CampaignPatch{Status: &closed})
	require.NoError(t, err)
}

func TestCampaignDeleteRemovesFiles(t *testing.T) {
	f := newFixture(t)
	brand := f.actor(t, "brand@example.com", models.RoleBrand)
	other := f.actor(t, "other@example.com", models.RoleBrand)
	ctx := context.Background()
	svc := f.campaigns()

	c, err := svc.Create(ctx, brand, validCampaign(), []Upload{
		{Filename: "brief.pdf", Size: 4, Content: testutil.Upload(4)},
	})
	require.NoError(t, err)
	require.Equal(t, 1, f.blobs.Len())

	assert.ErrorIs(t, svc.Delete(ctx, other, c.ID), ErrNotFound)
	require.NoError(t, svc.Delete(ctx, brand, c.ID))
	assert.Equal(t, 0, f.blobs.Len())

	_, err = svc.Get(ctx, brand, c.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}
