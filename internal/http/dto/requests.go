package dto

import (
	"bytes"
	"encoding/json"

	"github.com/sk4ndal-commits/UGCMarketPlace/internal/models"
)

// Amount accepts a decimal sent either as a JSON number or as a string.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = Amount(n.String())
	return nil
}

func (a *Amount) StringPtr() *string {
	if a == nil {
		return nil
	}
	s := string(*a)
	return &s
}

// Auth

type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email,max=254"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
	FirstName       string `json:"first_name" validate:"max=150"`
	LastName        string `json:"last_name" validate:"max=150"`
	GDPRConsent     bool   `json:"gdpr_consent"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

type UpdateProfileRequest struct {
	FirstName      *string `json:"first_name" validate:"omitempty,max=150"`
	LastName       *string `json:"last_name" validate:"omitempty,max=150"`
	// null clears these
	Followers      models.Nullable[int]    `json:"followers"`
	EngagementRate models.Nullable[Amount] `json:"engagement_rate"`
	Platform       models.Nullable[string] `json:"platform"`
}

type RoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetConfirmRequest struct {
	UID                string `json:"uid" validate:"required"`
	Token              string `json:"token" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required"`
}

type PasswordChangeRequest struct {
	OldPassword        string `json:"old_password" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required"`
}

// Campaigns

// CampaignRequest is used for create and partial update. Deadline is kept as
// a string so format errors are reported on the field.
type CampaignRequest struct {
	Title        *string `json:"title" form:"title"`
	Description  *string `json:"description" form:"description"`
	ContentType  *string `json:"content_type" form:"content_type"`
	Category     *string `json:"category" form:"category"`
	Deliverables *string `json:"deliverables" form:"deliverables"`
	Budget       *Amount `json:"budget" form:"budget"`
	Deadline     *string `json:"deadline" form:"deadline"`
	Status       *string `json:"status" form:"status"`
}

type CreateCampaignApplicationRequest struct {
	Campaign      string  `json:"campaign"`
	Pitch         string  `json:"pitch"`
	PortfolioLink *string `json:"portfolio_link"`
	ProposedPrice *Amount `json:"proposed_price"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Applications

type CreateApplicationRequest struct {
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Owner           string         `json:"owner"`
	Visibility      string         `json:"visibility"`
	TemplateID      string         `json:"template_id"`
	Parameters      map[string]any `json:"parameters"`
	GitIntegration  map[string]any `json:"git_integration"`
	OIDCIntegration map[string]any `json:"oidc_integration"`
}

type UpdateApplicationRequest struct {
	Name            *string        `json:"name"`
	Description     *string        `json:"description"`
	Owner           *string        `json:"owner"`
	Visibility      *string        `json:"visibility"`
	Template        *string        `json:"template"`
	Parameters      map[string]any `json:"parameters"`
	GitIntegration  map[string]any `json:"git_integration"`
	OIDCIntegration map[string]any `json:"oidc_integration"`
}
