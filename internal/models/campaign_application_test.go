package models

import "testing"

func TestIsValidApplicationTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		{ApplicationStatusPending, ApplicationStatusShortlisted, true},
		{ApplicationStatusPending, ApplicationStatusRejected, true},
		{ApplicationStatusPending, ApplicationStatusAccepted, true},
		{ApplicationStatusShortlisted, ApplicationStatusAccepted, true},
		{ApplicationStatusShortlisted, ApplicationStatusRejected, true},

		{ApplicationStatusShortlisted, ApplicationStatusPending, false},
		{ApplicationStatusAccepted, ApplicationStatusPending, false},
		{ApplicationStatusAccepted, ApplicationStatusRejected, false},
		{ApplicationStatusRejected, ApplicationStatusAccepted, false},
		{ApplicationStatusRejected, ApplicationStatusShortlisted, false},
		{ApplicationStatusPending, ApplicationStatusPending, false},
		{"nonexistent", ApplicationStatusAccepted, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			if got := IsValidApplicationTransition(tt.from, tt.to); got != tt.expected {
				t.Errorf("IsValidApplicationTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

func TestTerminalApplicationStatusesHaveNoTransitions(t *testing.T) {
	for _, status := range []string{ApplicationStatusAccepted, ApplicationStatusRejected} {
		if transitions, ok := ValidApplicationTransitions[status]; !ok || len(transitions) != 0 {
			t.Errorf("terminal status %q should have an empty entry, got %v", status, transitions)
		}
	}
}

func TestCheckApplyEligibility(t *testing.T) {
	live := &Campaign{Status: CampaignStatusLive, Deadline: today.AddDays(3)}

	tests := []struct {
		name           string
		campaign       *Campaign
		alreadyApplied bool
		want           string
	}{
		{"eligible", live, false, ""},
		{"deadline today is still open", &Campaign{Status: CampaignStatusLive, Deadline: today}, false, ""},
		{"unknown campaign", nil, false, MsgCampaignNotFound},
		{"draft", &Campaign{Status: CampaignStatusDraft, Deadline: today.AddDays(3)}, false, MsgCampaignNotAccepting},
		{"closed", &Campaign{Status: CampaignStatusClosed, Deadline: today.AddDays(3)}, false, MsgCampaignNotAccepting},
		{"expired", &Campaign{Status: CampaignStatusLive, Deadline: today.AddDays(-1)}, false, MsgCampaignDeadline},
		{"duplicate", live, true, MsgAlreadyApplied},
		// status is checked before the deadline and the duplicate
		{"closed and expired and duplicate", &Campaign{Status: CampaignStatusClosed, Deadline: today.AddDays(-1)}, true, MsgCampaignNotAccepting},
		{"expired and duplicate", &Campaign{Status: CampaignStatusLive, Deadline: today.AddDays(-1)}, true, MsgCampaignDeadline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := CheckApplyEligibility(tt.campaign, tt.alreadyApplied, today)
			if tt.want == "" {
				if !errs.Empty() {
					t.Fatalf("unexpected errors: %s", errs)
				}
				return
			}
			msgs := errs["campaign"]
			if len(msgs) != 1 || msgs[0] != tt.want {
				t.Errorf("errors[campaign] = %v, want [%q]", msgs, tt.want)
			}
		})
	}
}

func TestValidateCampaignApplication(t *testing.T) {
	tests := []struct {
		name      string
		app       CampaignApplication
		wantField string
	}{
		{"minimal", CampaignApplication{Pitch: "I love this brand"}, ""},
		{"full", CampaignApplication{Pitch: "hi", PortfolioLink: strPtr("https://example.com/me"), ProposedPrice: strPtr("250")}, ""},
		{"blank pitch", CampaignApplication{Pitch: " "}, "pitch"},
		{"bad link", CampaignApplication{Pitch: "hi", PortfolioLink: strPtr("not a url")}, "portfolio_link"},
		{"ftp link", CampaignApplication{Pitch: "hi", PortfolioLink: strPtr("ftp://example.com")}, "portfolio_link"},
		{"zero price", CampaignApplication{Pitch: "hi", ProposedPrice: strPtr("0")}, "proposed_price"},
		{"bad price", CampaignApplication{Pitch: "hi", ProposedPrice: strPtr("abc")}, "proposed_price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := tt.app
			errs := ValidateCampaignApplication(&app)
			if tt.wantField == "" {
				if !errs.Empty() {
					t.Fatalf("unexpected errors: %s", errs)
				}
				return
			}
			if _, ok := errs[tt.wantField]; !ok {
				t.Errorf("expected error on %q, got %s", tt.wantField, errs)
			}
		})
	}
}

func TestValidateCampaignApplication_Normalizes(t *testing.T) {
	app := CampaignApplication{Pitch: "hi", PortfolioLink: strPtr("  "), ProposedPrice: strPtr("99.5")}
	if errs := ValidateCampaignApplication(&app); !errs.Empty() {
		t.Fatalf("unexpected errors: %s", errs)
	}
	if app.PortfolioLink != nil {
		t.Errorf("blank portfolio link should be dropped, got %q", *app.PortfolioLink)
	}
	if *app.ProposedPrice != "99.50" {
		t.Errorf("proposed price = %q, want 99.50", *app.ProposedPrice)
	}
}

func TestValidateApplicationTransition(t *testing.T) {
	live := &Campaign{Status: CampaignStatusLive}
	closed := &Campaign{Status: CampaignStatusClosed}

	tests := []struct {
		name     string
		from, to string
		campaign *Campaign
		valid    bool
	}{
		{"shortlist", ApplicationStatusPending, ApplicationStatusShortlisted, live, true},
		{"accept while live", ApplicationStatusShortlisted, ApplicationStatusAccepted, live, true},
		{"reject after close", ApplicationStatusPending, ApplicationStatusRejected, closed, true},
		{"accept after close", ApplicationStatusPending, ApplicationStatusAccepted, closed, false},
		{"reopen rejected", ApplicationStatusRejected, ApplicationStatusPending, live, false},
		{"unknown status", ApplicationStatusPending, "MAYBE", live, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateApplicationTransition(tt.from, tt.to, tt.campaign)
			if errs.Empty() != tt.valid {
				t.Errorf("valid = %v, want %v (%s)", errs.Empty(), tt.valid, errs)
			}
		})
	}
}
