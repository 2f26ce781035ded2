package rbac

import (
	"github.com/google/uuid"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/models"
)

// CampaignScope is the list-time predicate for campaigns.
type CampaignScope struct {
	None    bool
	BrandID *uuid.UUID
	Status  *string
}

// CampaignListScope: brands see their own campaigns at any status,
// influencers see live campaigns, everyone else sees nothing.
func CampaignListScope(a Actor) CampaignScope {
	switch {
	case !a.Authenticated():
		return CampaignScope{None: true}
	case a.Role == models.RoleBrand:
		id := a.ID
		return CampaignScope{BrandID: &id}
	case a.Role == models.RoleInfluencer:
		live := models.CampaignStatusLive
		return CampaignScope{Status: &live}
	}
	return CampaignScope{None: true}
}

// CampaignVisible applies CampaignListScope to a single campaign.
func CampaignVisible(a Actor, c *models.Campaign) bool {
	s := CampaignListScope(a)
	switch {
	case s.None:
		return false
	case s.BrandID != nil:
		return c.BrandID == *s.BrandID
	case s.Status != nil:
		return c.Status == *s.Status
	}
	return true
}

// CampaignApplicationScope is the list-time predicate for campaign applications.
type CampaignApplicationScope struct {
	None         bool
	InfluencerID *uuid.UUID
	BrandID      *uuid.UUID
}

func CampaignApplicationListScope(a Actor) CampaignApplicationScope {
	if !a.Authenticated() {
		return CampaignApplicationScope{None: true}
	}
	id := a.ID
	switch a.Role {
	case models.RoleInfluencer:
		return CampaignApplicationScope{InfluencerID: &id}
	case models.RoleBrand:
		return CampaignApplicationScope{BrandID: &id}
	}
	return CampaignApplicationScope{None: true}
}

func CampaignApplicationVisible(a Actor, v *models.CampaignApplicationView) bool {
	s := CampaignApplicationListScope(a)
	switch {
	case s.None:
		return false
	case s.InfluencerID != nil:
		return v.InfluencerID == *s.InfluencerID
	case s.BrandID != nil:
		return v.CampaignBrandID == *s.BrandID
	}
	return false
}

// ApplicationScope is the list-time predicate for provisioned applications.
type ApplicationScope struct {
	None       bool
	CreatorID  *uuid.UUID
	Visibility []string
}

// ApplicationListScope: creators see their own applications, other
// authenticated users see public and internal ones.
func ApplicationListScope(a Actor) ApplicationScope {
	if !a.Authenticated() {
		return ApplicationScope{None: true}
	}
	if a.Role == models.RoleCreator {
		id := a.ID
		return ApplicationScope{CreatorID: &id}
	}
	return ApplicationScope{Visibility: []string{models.VisibilityPublic, models.VisibilityInternal}}
}

func ApplicationVisible(a Actor, app *models.Application) bool {
	s := ApplicationListScope(a)
	switch {
	case s.None:
		return false
	case s.CreatorID != nil:
		return app.CreatorID == *s.CreatorID
	}
	for _, v := range s.Visibility {
		if app.Visibility == v {
			return true
		}
	}
	return false
}
