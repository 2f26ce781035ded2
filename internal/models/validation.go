package models

import (
	"sort"
	"strings"
)

// NonFieldErrors is the key for errors that do not belong to a single field.
const NonFieldErrors = "non_field_errors"

// FieldErrors maps a request field to its validation messages.
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

func (fe FieldErrors) Merge(other FieldErrors) {
	for field, msgs := range other {
		fe[field] = append(fe[field], msgs...)
	}
}

func (fe FieldErrors) Empty() bool {
	return len(fe) == 0
}

// Fields returns the failing field names in stable order.
func (fe FieldErrors) Fields() []string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func (fe FieldErrors) String() string {
	parts := make([]string, 0, len(fe))
	for _, f := range fe.Fields() {
		parts = append(parts, f+": "+strings.Join(fe[f], " "))
	}
	return strings.Join(parts, "; ")
}

// missingKeys returns the keys of required that are absent from m, keeping
// the order of required.
func missingKeys(required []string, m map[string]any) []string {
	var missing []string
	for _, key := range required {
		if _, ok := m[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
