package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Template is an operator-managed blueprint for provisioned applications.
type Template struct {
	ID                 uuid.UUID      `json:"id" yaml:"-"`
	TemplateID         string         `json:"template_id" yaml:"template_id"`
	Name               string         `json:"name" yaml:"name"`
	Description        string         `json:"description" yaml:"description"`
	IsAvailable        bool           `json:"is_available" yaml:"is_available"`
	DefaultParameters  map[string]any `json:"default_parameters" yaml:"default_parameters"`
	RequiredParameters []string       `json:"required_parameters" yaml:"required_parameters"`
	CreatedAt          time.Time      `json:"created_at" yaml:"-"`
	UpdatedAt          time.Time      `json:"updated_at" yaml:"-"`
}

// MissingParameters lists the required keys absent from params, in the
// template's declared order.
func (t *Template) MissingParameters(params map[string]any) []string {
	return missingKeys(t.RequiredParameters, params)
}

// ValidateParameters returns a single message naming every missing key, or
// the empty string when params is complete.
func (t *Template) ValidateParameters(params map[string]any) string {
	missing := t.MissingParameters(params)
	if len(missing) == 0 {
		return ""
	}
	return "Missing required parameters: " + strings.Join(missing, ", ")
}

const maxTemplateIDLen = 50

// ValidateTemplate checks a catalog entry before it is imported.
func ValidateTemplate(t *Template) FieldErrors {
	errs := FieldErrors{}
	switch {
	case isBlank(t.TemplateID):
		errs.Add("template_id", "This field is required.")
	case len(t.TemplateID) > maxTemplateIDLen:
		errs.Add("template_id", "Ensure this field has no more than 50 characters.")
	}
	if isBlank(t.Name) {
		errs.Add("name", "This field is required.")
	}
	if t.DefaultParameters == nil {
		t.DefaultParameters = map[string]any{}
	}
	if t.RequiredParameters == nil {
		t.RequiredParameters = []string{}
	}
	seen := make(map[string]bool, len(t.RequiredParameters))
	for _, p := range t.RequiredParameters {
		if isBlank(p) {
			errs.Add("required_parameters", "Parameter names may not be blank.")
			continue
		}
		if seen[p] {
			errs.Add("required_parameters", "Duplicate parameter "+p+".")
		}
		seen[p] = true
	}
	return errs
}
