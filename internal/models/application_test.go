package models

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
)

var applicationIDPattern = regexp.MustCompile(`^app_[a-z0-9]{6}$`)

func TestGenerateApplicationID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		id, err := GenerateApplicationID()
		if err != nil {
			t.Fatalf("GenerateApplicationID: %v", err)
		}
		if !applicationIDPattern.MatchString(id) {
			t.Fatalf("id %q does not match %s", id, applicationIDPattern)
		}
		seen[id] = true
	}
	if len(seen) < 490 {
		t.Errorf("only %d distinct ids out of 500", len(seen))
	}
}

func TestTemplateValidateParameters(t *testing.T) {
	tpl := Template{RequiredParameters: []string{"api_key", "region", "plan"}}

	tests := []struct {
		name   string
		params map[string]any
		want   string
	}{
		{"complete", map[string]any{"api_key": "x", "region": "eu", "plan": "pro"}, ""},
		{"nil params", nil, "Missing required parameters: api_key, region, plan"},
		{"empty params", map[string]any{}, "Missing required parameters: api_key, region, plan"},
		{"one missing", map[string]any{"api_key": "x", "plan": "pro"}, "Missing required parameters: region"},
		{"null value counts as present", map[string]any{"api_key": nil, "region": "eu", "plan": "pro"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tpl.ValidateParameters(tt.params); got != tt.want {
				t.Errorf("ValidateParameters() = %q, want %q", got, tt.want)
			}
		})
	}
}

func validApplication() *Application {
	return &Application{
		Name:        "storefront",
		Description: "Shop frontend",
		Owner:       "team-web",
	}
}

func TestValidateApplication(t *testing.T) {
	tpl := &Template{TemplateID: "tpl-react-spa-01", RequiredParameters: []string{"api_key"}}

	tests := []struct {
		name    string
		mutate  func(a *Application)
		tpl     *Template
		field   string
		message string
	}{
		{"no template", func(a *Application) {}, nil, "", ""},
		{"template satisfied", func(a *Application) { a.Parameters = map[string]any{"api_key": "k"} }, tpl, "", ""},
		{"template missing parameter", func(a *Application) { a.Parameters = map[string]any{} }, tpl, "parameters", "Missing required parameters: api_key"},
		{"empty git block is fine", func(a *Application) { a.GitIntegration = map[string]any{} }, nil, "", ""},
		{"git block without url", func(a *Application) { a.GitIntegration = map[string]any{"branch": "main"} }, nil, "git_integration", "Missing required fields: repository_url"},
		{"oidc block partial", func(a *Application) { a.OIDCIntegration = map[string]any{"provider": "okta"} }, nil, "oidc_integration", "Missing required fields: client_id"},
		{"oidc block empty keys", func(a *Application) { a.OIDCIntegration = map[string]any{"issuer": "x"} }, nil, "oidc_integration", "Missing required fields: provider, client_id"},
		{"bad visibility", func(a *Application) { a.Visibility = "SECRET" }, nil, "visibility", `"SECRET" is not a valid choice.`},
		{"blank name", func(a *Application) { a.Name = "" }, nil, "name", "This field is required."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validApplication()
			tt.mutate(a)
			errs := ValidateApplication(a, tt.tpl)
			if tt.field == "" {
				if !errs.Empty() {
					t.Fatalf("unexpected errors: %s", errs)
				}
				return
			}
			msgs := errs[tt.field]
			if len(msgs) != 1 || msgs[0] != tt.message {
				t.Errorf("errors[%q] = %v, want [%q]", tt.field, msgs, tt.message)
			}
		})
	}
}

func TestValidateApplication_DefaultsVisibility(t *testing.T) {
	a := validApplication()
	if errs := ValidateApplication(a, nil); !errs.Empty() {
		t.Fatalf("unexpected errors: %s", errs)
	}
	if a.Visibility != VisibilityInternal {
		t.Errorf("visibility = %q, want %q", a.Visibility, VisibilityInternal)
	}
}

func TestApplicationVisibleTo(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	for _, tt := range []struct {
		visibility string
		reader     uuid.UUID
		want       bool
	}{
		{VisibilityPublic, other, true},
		{VisibilityInternal, other, true},
		{VisibilityPrivate, other, false},
		{VisibilityPrivate, owner, true},
	} {
		a := Application{Visibility: tt.visibility, CreatorID: owner}
		if got := a.VisibleTo(tt.reader); got != tt.want {
			t.Errorf("VisibleTo(%s, owner=%v) = %v, want %v", tt.visibility, tt.reader == owner, got, tt.want)
		}
	}
}
