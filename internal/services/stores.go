package services

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/events"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/models"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/repositories"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/storage"
)

// The interfaces below are satisfied by the Postgres repositories and by the
// in-memory stores in internal/testutil.

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, p models.ProfileUpdate) (*models.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, from, to models.Role) (*models.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListOwnedFileKeys(ctx context.Context, id uuid.UUID) ([]string, error)
}

type CampaignStore interface {
	Create(ctx context.Context, c *models.Campaign) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
	Update(ctx context.Context, c *models.Campaign) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f repositories.CampaignFilter) ([]models.Campaign, error)
	AddFile(ctx context.Context, f *models.CampaignFile) error
	ListFiles(ctx context.Context, campaignIDs []uuid.UUID) (map[uuid.UUID][]models.CampaignFile, error)
}

type CampaignApplicationStore interface {
	Create(ctx context.Context, a *models.CampaignApplication) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.CampaignApplicationView, error)
	Exists(ctx context.Context, campaignID, influencerID uuid.UUID) (bool, error)
	List(ctx context.Context, f repositories.CampaignApplicationFilter) ([]models.CampaignApplicationView, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) error
}

type TemplateStore interface {
	ListAvailable(ctx context.Context) ([]models.Template, error)
	ListAll(ctx context.Context) ([]models.Template, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Template, error)
	GetByTemplateID(ctx context.Context, templateID string) (*models.Template, error)
	Upsert(ctx context.Context, t *models.Template) error
	Delete(ctx context.Context, templateID string) error
	CountApplications(ctx context.Context, id uuid.UUID) (int, error)
}

type ApplicationStore interface {
	Create(ctx context.Context, a *models.Application) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	ExistsByName(ctx context.Context, name string, exclude *uuid.UUID) (bool, error)
	List(ctx context.Context, f repositories.ApplicationFilter) ([]models.Application, error)
	Update(ctx context.Context, a *models.Application) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type AuditLogger interface {
	Log(ctx context.Context, entry models.AuditLog) error
}

type BlobStore interface {
	Save(ctx context.Context, key string, r io.Reader) (storage.Object, error)
	Remove(ctx context.Context, key string) error
	URL(key string) string
}

// Notifier is the asynchronous side channel. Implementations must not block
// the caller and never report failures.
type Notifier interface {
	ApplicationReceived(to, name, campaignTitle string, proposedPrice *string)
	ApplicationDecision(to, name, campaignTitle, status string)
	PasswordReset(to, name, link string)
	Publish(channel string, event events.Event)
}

// today is the current UTC calendar date.
func today(now func() time.Time) models.Date {
	return models.DateOf(now().UTC())
}
