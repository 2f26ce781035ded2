package services

import (
	"context"
	"regexp"
	"testing"

	"github.com/sk4ndal-commits/UGCMarketPlace/internal/models"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var applicationIDPattern = regexp.MustCompile(`^app_[a-z0-9]{6}$`)

func newApp(name string) *models.Application {
	return &models.Application{
		Name:        name,
		Description: "storefront",
		Owner:       "team-a",
		Parameters:  map[string]any{"app_name": name, "region": "eu"},
	}
}

func TestApplicationCreate(t *testing.T) {
	f := newFixture(t)
	templates := f.templates()
	seedTemplates(t, templates)
	svc, _ := f.applications(templates)
	creator := f.actor(t, "creator@example.com", models.RoleCreator)

	a, event, err := svc.Create(context.Background(), creator, newApp("shop"), "react-spa")
	require.NoError(t, err)

	assert.Regexp(t, applicationIDPattern, a.ApplicationID)
	assert.Equal(t, models.VisibilityInternal, a.Visibility)
	assert.Equal(t, "Internal", a.VisibilityDisplay)
	require.NotNil(t, a.TemplateID)
	assert.Equal(t, "react-spa", *a.TemplateID)
	assert.Equal(t, "creator@example.com", a.CreatorEmail)
	assert.NotNil(t, a.GitIntegration)

	e := event.Event()
	assert.Equal(t, "creator.application.created", e.Type)
	assert.Equal(t, a.ApplicationID, e.Payload["application_id"])
	assert.Equal(t, "react-spa", e.Payload["template_id"])
	assert.Equal(t, "2025-06-01T12:00:00Z", e.Timestamp)
}

func TestApplicationCreateWithoutTemplate(t *testing.T) {
	f := newFixture(t)
	svc, _ := f.applications(f.templates())
	creator := f.actor(t, "creator@example.com", models.RoleCreator)

	a, event, err := svc.Create(context.Background(), creator, newApp("bare"), "")
	require.NoError(t, err)
	assert.Nil(t, a.TemplateID)
	assert.Nil(t, event.Event().Payload["template_id"])
}

func TestApplicationCreateValidation(t *testing.T) {
	f := newFixture(t)
	templates := f.templates()
	seedTemplates(t, templates)
	svc, _ := f.applications(templates)
	creator := f.actor(t, "creator@example.com", models.RoleCreator)
	brand := f.actor(t, "brand@example.com", models.RoleBrand)
	ctx := context.Background()

	_, _, err := svc.Create(ctx, brand, newApp("shop"), "")
	assert.ErrorIs(t, err, ErrForbidden)

	_, _, err = svc.Create(ctx, creator, newApp("shop"), "legacy-php")
	assert.Equal(t, []string{"Template 'legacy-php' not found or not available."}, requireFieldError(t, err, "template_id"))

	a := newApp("shop")
	a.Parameters = map[string]any{}
	a.GitIntegration = map[string]any{"branch": "main"}
	a.Visibility = "SECRET"
	_, _, err = svc.Create(ctx, creator, a, "react-spa")
	assert.Equal(t, []string{"Missing required parameters: app_name, region"}, requireFieldError(t, err, "parameters"))
	assert.Equal(t, []string{"Missing required fields: repository_url"}, requireFieldError(t, err, "git_integration"))
	requireFieldError(t, err, "visibility")

	_, _, err = svc.Create(ctx, creator, newApp("shop"), "")
	require.NoError(t, err)
	_, _, err = svc.Create(ctx, creator, newApp("shop"), "")
	assert.Equal(t, []string{"An application with this name already exists."}, requireFieldError(t, err, "name"))
}

func TestApplicationIDCollisionRetries(t *testing.T) {
	f := newFixture(t)
	svc, store := f.applications(f.templates())
	creator := f.actor(t, "creator@example.com", models.RoleCreator)
	ctx := context.Background()

	store.ForcedIDCollisions = 2
	_, _, err := svc.Create(ctx, creator, newApp("lucky"), "")
	require.NoError(t, err)

	store.ForcedIDCollisions = 3
	_, _, err = svc.Create(ctx, creator, newApp("unlucky"), "")
	require.Error(t, err)
	assert.True(t, repositories.IsConflict(err, repositories.ConstraintApplicationID))
}

func TestApplicationVisibility(t *testing.T) {
	f := newFixture(t)
	svc, _ := f.applications(f.templates())
	creator := f.actor(t, "creator@example.com", models.RoleCreator)
	otherCreator := f.actor(t, "creator2@example.com", models.RoleCreator)
	brand := f.actor(t, "brand@example.com", models.RoleBrand)
	ctx := context.Background()

	public := newApp("public")
	public.Visibility = models.VisibilityPublic
	pub, _, err := svc.Create(ctx, creator, public, "")
	require.NoError(t, err)
	private := newApp("private")
	private.Visibility = models.VisibilityPrivate
	priv, _, err := svc.Create(ctx, creator, private, "")
	require.NoError(t, err)

	list, err := svc.List(ctx, brand, repositories.ApplicationFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, pub.ID, list[0].ID)

	list, err = svc.List(ctx, creator, repositories.ApplicationFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = svc.List(ctx, otherCreator, repositories.ApplicationFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.Get(ctx, brand, priv.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// the catalog shows public applications to every user
	got, err := svc.CatalogView(ctx, otherCreator, pub.ID)
	require.NoError(t, err)
	assert.Equal(t, pub.ID, got.ID)
	_, err = svc.CatalogView(ctx, otherCreator, priv.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.CatalogView(ctx, creator, priv.ID)
	require.NoError(t, err)
}

func TestApplicationUpdate(t *testing.T) {
	f := newFixture(t)
	templates := f.templates()
	seedTemplates(t, templates)
	svc, _ := f.applications(templates)
	creator := f.actor(t, "creator@example.com", models.RoleCreator)
	otherCreator := f.actor(t, "creator2@example.com", models.RoleCreator)
	brand := f.actor(t, "brand@example.com", models.RoleBrand)
	ctx := context.Background()

	a, _, err := svc.Create(ctx, creator, newApp("shop"), "react-spa")
	require.NoError(t, err)
	_, _, err = svc.Create(ctx, creator, newApp("blog"), "")
	require.NoError(t, err)

	desc := "new description"
	_, err = svc.Update(ctx, otherCreator, a.ID, models.ApplicationPatch{Description: &desc})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Update(ctx, brand, a.ID, models.ApplicationPatch{Description: &desc})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.Update(ctx, creator, a.ID, models.ApplicationPatch{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "new description", updated.Description)
	assert.Equal(t, a.ApplicationID, updated.ApplicationID)

	// parameters are re-checked against the attached template
	_, err = svc.Update(ctx, creator, a.ID, models.ApplicationPatch{Parameters: map[string]any{"app_name": "x"}})
	requireFieldError(t, err, "parameters")

	name := "blog"
	_, err = svc.Update(ctx, creator, a.ID, models.ApplicationPatch{Name: &name})
	requireFieldError(t, err, "name")

	detach := ""
	updated, err = svc.Update(ctx, creator, a.ID, models.ApplicationPatch{Template: &detach, Parameters: map[string]any{}})
	require.NoError(t, err)
	assert.Nil(t, updated.TemplateID)

	missing := "nope"
	_, err = svc.Update(ctx, creator, a.ID, models.ApplicationPatch{Template: &missing})
	requireFieldError(t, err, "template")
}

func TestApplicationTemplateDeletedWhileCached(t *testing.T) {
	f := newFixture(t)
	templates := f.templates()
	seedTemplates(t, templates)
	svc, _ := f.applications(templates)
	creator := f.actor(t, "creator@example.com", models.RoleCreator)
	ctx := context.Background()

	bare, _, err := svc.Create(ctx, creator, newApp("blog"), "")
	require.NoError(t, err)

	// warm the cache, then delete through a separate service as the
	// catalog tool would
	_, err = templates.Get(ctx, "react-spa")
	require.NoError(t, err)
	require.NoError(t, f.templates().Delete(ctx, "react-spa"))
	_, err = templates.Get(ctx, "react-spa")
	require.NoError(t, err, "cached catalog still lists the template")

	_, _, err = svc.Create(ctx, creator, newApp("shop"), "react-spa")
	assert.Equal(t, []string{"Template 'react-spa' not found or not available."}, requireFieldError(t, err, "template_id"))

	ref := "react-spa"
	_, err = svc.Update(ctx, creator, bare.ID, models.ApplicationPatch{Template: &ref})
	assert.Equal(t, []string{"Template 'react-spa' not found or not available."}, requireFieldError(t, err, "template"))
}

func TestApplicationDelete(t *testing.T) {
	f := newFixture(t)
	svc, _ := f.applications(f.templates())
	creator := f.actor(t, "creator@example.com", models.RoleCreator)
	otherCreator := f.actor(t, "creator2@example.com", models.RoleCreator)
	ctx := context.Background()

	a, _, err := svc.Create(ctx, creator, newApp("shop"), "")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, otherCreator, a.ID), ErrNotFound)
	require.NoError(t, svc.Delete(ctx, creator, a.ID))
	_, err = svc.Get(ctx, creator, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, f.db.Actions(), models.AuditAppDeleted)
}
