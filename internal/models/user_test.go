package models

import (
	"encoding/json"
	"testing"
)

func TestCanAssignRole(t *testing.T) {
	tests := []struct {
		from     Role
		to       Role
		expected bool
	}{
		{RoleUnset, RoleBrand, true},
		{RoleUnset, RoleInfluencer, true},

		{RoleUnset, RoleCreator, false},
		{RoleUnset, RoleUnset, false},
		{RoleBrand, RoleInfluencer, false},
		{RoleBrand, RoleBrand, false},
		{RoleInfluencer, RoleBrand, false},
		{RoleCreator, RoleBrand, false},
		{Role("ADMIN"), RoleBrand, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := CanAssignRole(tt.from, tt.to); got != tt.expected {
				t.Errorf("CanAssignRole(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

func TestRoleJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Role Role `json:"role"`
	}{})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"role":null}` {
		t.Errorf("unset role = %s, want null", b)
	}

	b, _ = json.Marshal(RoleInfluencer)
	if string(b) != `"INFLUENCER"` {
		t.Errorf("influencer role = %s", b)
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole("BRAND"); !ok || r != RoleBrand {
		t.Errorf("ParseRole(BRAND) = %q, %v", r, ok)
	}
	if _, ok := ParseRole("brand"); ok {
		t.Error("role codes are case sensitive")
	}
	if _, ok := ParseRole(""); ok {
		t.Error("empty role should not parse")
	}
}

func TestValidateProfile(t *testing.T) {
	neg := -1
	long := make([]byte, 51)
	for i := range long {
		long[i] = 'x'
	}

	tests := []struct {
		name  string
		p     ProfileUpdate
		field string
	}{
		{"empty update", ProfileUpdate{}, ""},
		{"rate in range", ProfileUpdate{EngagementRate: NewNullable("4.75")}, ""},
		{"rate above 100", ProfileUpdate{EngagementRate: NewNullable("100.01")}, "engagement_rate"},
		{"rate three decimals", ProfileUpdate{EngagementRate: NewNullable("4.755")}, "engagement_rate"},
		{"negative followers", ProfileUpdate{Followers: NewNullable(neg)}, "followers"},
		{"long platform", ProfileUpdate{Platform: NewNullable(string(long))}, "platform"},
		{"cleared fields", ProfileUpdate{Followers: Nullable[int]{Set: true}, Platform: Nullable[string]{Set: true}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.p
			errs := ValidateProfile(&p)
			if tt.field == "" {
				if !errs.Empty() {
					t.Fatalf("unexpected errors: %s", errs)
				}
				return
			}
			if _, ok := errs[tt.field]; !ok {
				t.Errorf("expected error on %q, got %s", tt.field, errs)
			}
		})
	}
}

func TestDateJSON(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2025-04-01"`), &d); err != nil {
		t.Fatal(err)
	}
	if d.String() != "2025-04-01" {
		t.Errorf("date = %s", d)
	}
	if err := json.Unmarshal([]byte(`"01/04/2025"`), &d); err == nil {
		t.Error("expected error for non ISO date")
	}
	b, _ := json.Marshal(Date{})
	if string(b) != "null" {
		t.Errorf("zero date = %s, want null", b)
	}
}

func TestNullableJSON(t *testing.T) {
	var req struct {
		Followers Nullable[int]    `json:"followers"`
		Platform  Nullable[string] `json:"platform"`
		Rate      Nullable[string] `json:"rate"`
	}
	if err := json.Unmarshal([]byte(`{"followers": null, "platform": "tiktok"}`), &req); err != nil {
		t.Fatal(err)
	}
	if !req.Followers.Set || req.Followers.Value != nil {
		t.Errorf("explicit null: %+v", req.Followers)
	}
	if !req.Platform.Set || req.Platform.Value == nil || *req.Platform.Value != "tiktok" {
		t.Errorf("value: %+v", req.Platform)
	}
	if req.Rate.Set {
		t.Errorf("absent field marked as set")
	}
}
