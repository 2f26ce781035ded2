package rbac

import (
	"github.com/google/uuid"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/models"
)

// Actions
const (
	ActionRead       = "read"
	ActionCreate     = "create"
	ActionUpdate     = "update"
	ActionDelete     = "delete"
	ActionUpload     = "upload"
	ActionTransition = "transition"
)

// Resource kinds
const (
	ResourceCampaign            = "campaign"
	ResourceCampaignApplication = "campaign_application"
	ResourceApplication         = "application"
	ResourceTemplate            = "template"
)

// Actor is the authenticated caller. A zero ID means anonymous.
type Actor struct {
	ID   uuid.UUID
	Role models.Role
}

func (a Actor) Authenticated() bool { return a.ID != uuid.Nil }

// Rule decides a single capability. owner is the user that owns the target
// resource, or uuid.Nil when the action has no target yet.
type Rule func(a Actor, owner uuid.UUID) bool

func Authenticated() Rule {
	return func(a Actor, _ uuid.UUID) bool { return a.Authenticated() }
}

func HasRole(roles ...models.Role) Rule {
	return func(a Actor, _ uuid.UUID) bool {
		for _, r := range roles {
			if a.Role == r {
				return true
			}
		}
		return false
	}
}

func IsOwner() Rule {
	return func(a Actor, owner uuid.UUID) bool { return owner != uuid.Nil && a.ID == owner }
}

// All passes when every rule passes.
func All(rules ...Rule) Rule {
	return func(a Actor, owner uuid.UUID) bool {
		for _, r := range rules {
			if !r(a, owner) {
				return false
			}
		}
		return true
	}
}

type capability struct {
	action   string
	resource string
}

// Capabilities maps (action, resource) to the rule guarding it. Anything not
// listed is denied.
var Capabilities = map[capability]Rule{
	{ActionRead, ResourceCampaign}:            Authenticated(),
	{ActionRead, ResourceCampaignApplication}: Authenticated(),
	{ActionRead, ResourceApplication}:         Authenticated(),
	{ActionRead, ResourceTemplate}:            Authenticated(),

	{ActionCreate, ResourceCampaign}: All(Authenticated(), HasRole(models.RoleBrand)),
	{ActionUpdate, ResourceCampaign}: All(Authenticated(), HasRole(models.RoleBrand), IsOwner()),
	{ActionDelete, ResourceCampaign}: All(Authenticated(), HasRole(models.RoleBrand), IsOwner()),
	{ActionUpload, ResourceCampaign}: All(Authenticated(), HasRole(models.RoleBrand), IsOwner()),

	{ActionCreate, ResourceCampaignApplication}: All(Authenticated(), HasRole(models.RoleInfluencer)),
	// owner is the brand owning the application's campaign
	{ActionTransition, ResourceCampaignApplication}: All(Authenticated(), IsOwner()),

	{ActionCreate, ResourceApplication}: All(Authenticated(), HasRole(models.RoleCreator)),
	{ActionUpdate, ResourceApplication}: All(Authenticated(), HasRole(models.RoleCreator), IsOwner()),
	{ActionDelete, ResourceApplication}: All(Authenticated(), HasRole(models.RoleCreator), IsOwner()),
}

// Can checks if actor may perform action on a resource of the given kind.
func Can(a Actor, action, resource string, owner uuid.UUID) bool {
	rule, ok := Capabilities[capability{action, resource}]
	if !ok {
		return false
	}
	return rule(a, owner)
}

// RoleAllows reports whether the role gate of a capability passes, ignoring
// ownership. Services use it to tell a 403 (wrong role) from a 404 (not
// yours).
func RoleAllows(a Actor, action, resource string) bool {
	rule, ok := Capabilities[capability{action, resource}]
	if !ok {
		return false
	}
	// Evaluate with the actor as owner so IsOwner rules pass.
	return a.Authenticated() && rule(a, a.ID)
}
