package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Role is unset until the user picks one on first login.
type Role string

const (
	RoleUnset      Role = ""
	RoleBrand      Role = "BRAND"
	RoleInfluencer Role = "INFLUENCER"
	RoleCreator    Role = "CREATOR"
)

// RoleTransitions lists the roles a user may move to by self-service.
// Creator is granted by operators only.
var RoleTransitions = map[Role][]Role{
	RoleUnset:      {RoleBrand, RoleInfluencer},
	RoleBrand:      {},
	RoleInfluencer: {},
	RoleCreator:    {},
}

func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleBrand, RoleInfluencer, RoleCreator:
		return r, true
	}
	return RoleUnset, false
}

func CanAssignRole(from, to Role) bool {
	for _, r := range RoleTransitions[from] {
		if r == to {
			return true
		}
	}
	return false
}

func (r Role) IsSet() bool { return r != RoleUnset }

func (r Role) MarshalJSON() ([]byte, error) {
	if r == RoleUnset {
		return []byte("null"), nil
	}
	return json.Marshal(string(r))
}

type User struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Role            Role       `json:"role"`
	IsActive        bool       `json:"-"`
	IsEmailVerified bool       `json:"is_email_verified"`
	GDPRConsent     bool       `json:"gdpr_consent"`
	GDPRConsentDate *time.Time `json:"gdpr_consent_date,omitempty"`
	Followers       *int       `json:"followers"`
	EngagementRate  *string    `json:"engagement_rate"` // numeric(5,2) as string
	Platform        *string    `json:"platform"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Nullable is a patch value that can clear a column. Set reports whether
// the field was sent at all; a sent null leaves Value nil.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// NewNullable is a patch that stores v.
func NewNullable[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(bytes.TrimSpace(b)) == "null" {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// ProfileUpdate carries the fields a user may change on their own profile.
// Nil names and unset Nullables are left untouched.
type ProfileUpdate struct {
	FirstName      *string
	LastName       *string
	Followers      Nullable[int]
	EngagementRate Nullable[string]
	Platform       Nullable[string]
}

const maxPlatformLen = 50

// ValidateProfile checks and normalizes a profile update in place.
func ValidateProfile(p *ProfileUpdate) FieldErrors {
	errs := FieldErrors{}
	if p.FirstName != nil && len(*p.FirstName) > 150 {
		errs.Add("first_name", "Ensure this field has no more than 150 characters.")
	}
	if p.LastName != nil && len(*p.LastName) > 150 {
		errs.Add("last_name", "Ensure this field has no more than 150 characters.")
	}
	if v := p.Followers.Value; v != nil && *v < 0 {
		errs.Add("followers", "Ensure this value is greater than or equal to 0.")
	}
	if v := p.EngagementRate.Value; v != nil {
		normalized, d, err := ParseMoney(*v)
		switch {
		case err != nil:
			errs.Add("engagement_rate", err.Error())
		case d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)):
			errs.Add("engagement_rate", "Ensure this value is between 0 and 100.")
		default:
			p.EngagementRate.Value = &normalized
		}
	}
	if v := p.Platform.Value; v != nil && len(*v) > maxPlatformLen {
		errs.Add("platform", "Ensure this field has no more than 50 characters.")
	}
	return errs
}
