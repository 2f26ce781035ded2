package models

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Visibility levels of a provisioned application
const (
	VisibilityPublic   = "PUBLIC"
	VisibilityInternal = "INTERNAL"
	VisibilityPrivate  = "PRIVATE"
)

var visibilityLabels = map[string]string{
	VisibilityPublic:   "Public",
	VisibilityInternal: "Internal",
	VisibilityPrivate:  "Private",
}

func IsVisibility(s string) bool { _, ok := visibilityLabels[s]; return ok }

// Application is a creator-owned instance provisioned from a Template.
type Application struct {
	ID                uuid.UUID      `json:"id"`
	ApplicationID     string         `json:"application_id"`
	Name              string         `json:"name"`
	Description       string         `json:"description"`
	Owner             string         `json:"owner"`
	Visibility        string         `json:"visibility"`
	VisibilityDisplay string         `json:"visibility_display"`
	TemplateRef       *uuid.UUID     `json:"template"`
	TemplateID        *string        `json:"template_id"`
	TemplateName      *string        `json:"template_name"`
	Parameters        map[string]any `json:"parameters"`
	GitIntegration    map[string]any `json:"git_integration"`
	OIDCIntegration   map[string]any `json:"oidc_integration"`
	CreatorID         uuid.UUID      `json:"creator"`
	CreatorEmail      string         `json:"creator_email"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

func (a *Application) Decorate() {
	a.VisibilityDisplay = visibilityLabels[a.Visibility]
	if a.Parameters == nil {
		a.Parameters = map[string]any{}
	}
	if a.GitIntegration == nil {
		a.GitIntegration = map[string]any{}
	}
	if a.OIDCIntegration == nil {
		a.OIDCIntegration = map[string]any{}
	}
}

// ApplicationPatch is a partial update. A non-nil Template with an empty
// value detaches the template.
type ApplicationPatch struct {
	Name            *string
	Description     *string
	Owner           *string
	Visibility      *string
	Template        *string
	Parameters      map[string]any
	GitIntegration  map[string]any
	OIDCIntegration map[string]any
}

const (
	applicationIDPrefix   = "app_"
	applicationIDLen      = 6
	applicationIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// GenerateApplicationID returns "app_" followed by six random characters
// from [a-z0-9].
func GenerateApplicationID() (string, error) {
	var sb strings.Builder
	sb.Grow(len(applicationIDPrefix) + applicationIDLen)
	sb.WriteString(applicationIDPrefix)
	alphabetLen := big.NewInt(int64(len(applicationIDAlphabet)))
	for i := 0; i < applicationIDLen; i++ {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("generate application id: %w", err)
		}
		sb.WriteByte(applicationIDAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

var (
	gitRequiredFields  = []string{"repository_url"}
	oidcRequiredFields = []string{"provider", "client_id"}
)

const maxApplicationName = 200

// ValidateApplication runs the structural rules for a provisioned
// application. tpl is the resolved template or nil when none is attached.
func ValidateApplication(a *Application, tpl *Template) FieldErrors {
	errs := FieldErrors{}

	switch {
	case isBlank(a.Name):
		errs.Add("name", "This field is required.")
	case len([]rune(a.Name)) > maxApplicationName:
		errs.Add("name", "Ensure this field has no more than 200 characters.")
	}
	if isBlank(a.Description) {
		errs.Add("description", "This field is required.")
	}
	if isBlank(a.Owner) {
		errs.Add("owner", "This field is required.")
	}
	if a.Visibility == "" {
		a.Visibility = VisibilityInternal
	} else if !IsVisibility(a.Visibility) {
		errs.Add("visibility", fmt.Sprintf("%q is not a valid choice.", a.Visibility))
	}

	if a.Parameters == nil {
		a.Parameters = map[string]any{}
	}
	if tpl != nil {
		if msg := tpl.ValidateParameters(a.Parameters); msg != "" {
			errs.Add("parameters", msg)
		}
	}
	if len(a.GitIntegration) > 0 {
		if missing := missingKeys(gitRequiredFields, a.GitIntegration); len(missing) > 0 {
			errs.Add("git_integration", "Missing required fields: "+strings.Join(missing, ", "))
		}
	}
	if len(a.OIDCIntegration) > 0 {
		if missing := missingKeys(oidcRequiredFields, a.OIDCIntegration); len(missing) > 0 {
			errs.Add("oidc_integration", "Missing required fields: "+strings.Join(missing, ", "))
		}
	}
	return errs
}

// VisibleTo reports whether a catalog reader may see the application.
func (a *Application) VisibleTo(userID uuid.UUID) bool {
	return a.Visibility != VisibilityPrivate || a.CreatorID == userID
}

func VisibilityChoices() []Choice {
	return choices([]string{VisibilityPublic, VisibilityInternal, VisibilityPrivate}, visibilityLabels)
}
