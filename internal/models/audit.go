package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions
const (
	AuditUserRegistered       = "user.registered"
	AuditUserRoleAssigned     = "user.role_assigned"
	AuditUserPasswordChanged  = "user.password_changed"
	AuditUserDeleted          = "user.deleted"
	AuditCampaignCreated      = "campaign.created"
	AuditCampaignStatus       = "campaign.status_changed"
	AuditCampaignDeleted      = "campaign.deleted"
	AuditCampaignFileAdded    = "campaign.file_added"
	AuditApplicationSubmitted = "campaign_application.submitted"
	AuditApplicationStatus    = "campaign_application.status_changed"
	AuditAppProvisioned       = "application.created"
	AuditAppUpdated           = "application.updated"
	AuditAppDeleted           = "application.deleted"
)

type AuditLog struct {
	ID          uuid.UUID  `json:"id"`
	ActorUserID *uuid.UUID `json:"actor_user_id,omitempty"`
	ActorType   string     `json:"actor_type"` // user/system
	Action      string     `json:"action"`
	EntityType  string     `json:"entity_type"`
	EntityID    *uuid.UUID `json:"entity_id,omitempty"`
	Meta        any        `json:"meta,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// UserAudit builds an entry attributed to an end user.
func UserAudit(actor uuid.UUID, action, entityType string, entityID uuid.UUID, meta any) AuditLog {
	return AuditLog{
		ActorUserID: &actor,
		ActorType:   "user",
		Action:      action,
		EntityType:  entityType,
		EntityID:    &entityID,
		Meta:        meta,
	}
}
