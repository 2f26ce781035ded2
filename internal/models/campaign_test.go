package models

import (
	"strings"
	"testing"
	"time"
)

var today = NewDate(2025, time.March, 10)

func validCampaign() *Campaign {
	return &Campaign{
		Title:        "Spring launch",
		Description:  "Show our new serum",
		ContentType:  ContentInstagramReel,
		Category:     CategoryBeauty,
		Deliverables: "1 reel, 3 stories",
		Budget:       "500",
		Deadline:     today.AddDays(14),
		Status:       CampaignStatusDraft,
	}
}

func TestIsValidCampaignTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		{CampaignStatusDraft, CampaignStatusLive, true},
		{CampaignStatusDraft, CampaignStatusClosed, true},
		{CampaignStatusLive, CampaignStatusClosed, true},

		{CampaignStatusLive, CampaignStatusDraft, false},
		{CampaignStatusClosed, CampaignStatusLive, false},
		{CampaignStatusClosed, CampaignStatusDraft, false},
		{"nonexistent", CampaignStatusLive, false},
		{CampaignStatusDraft, "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			if got := IsValidCampaignTransition(tt.from, tt.to); got != tt.expected {
				t.Errorf("IsValidCampaignTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

func TestAllCampaignStatusesHaveTransitionEntry(t *testing.T) {
	for _, status := range []string{CampaignStatusDraft, CampaignStatusLive, CampaignStatusClosed} {
		if _, ok := ValidCampaignTransitions[status]; !ok {
			t.Errorf("status %q missing from ValidCampaignTransitions map", status)
		}
	}
}

func TestValidateCampaign_Create(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Campaign)
		wantField string
		wantMsg   string
	}{
		{"valid", func(c *Campaign) {}, "", ""},
		{"zero budget", func(c *Campaign) { c.Budget = "0.00" }, "budget", "Budget must be greater than 0."},
		{"negative budget", func(c *Campaign) { c.Budget = "-5" }, "budget", "Budget must be greater than 0."},
		{"garbage budget", func(c *Campaign) { c.Budget = "lots" }, "budget", "A valid number is required."},
		{"three decimals", func(c *Campaign) { c.Budget = "1.005" }, "budget", "no more than 2 decimal places"},
		{"deadline today", func(c *Campaign) { c.Deadline = today }, "deadline", "Deadline must be a future date."},
		{"deadline past", func(c *Campaign) { c.Deadline = today.AddDays(-1) }, "deadline", "Deadline must be a future date."},
		{"missing deadline", func(c *Campaign) { c.Deadline = Date{} }, "deadline", "This field is required."},
		{"blank title", func(c *Campaign) { c.Title = "  " }, "title", "This field is required."},
		{"long title", func(c *Campaign) { c.Title = strings.Repeat("x", 201) }, "title", "no more than 200 characters"},
		{"no description", func(c *Campaign) { c.Description = "" }, "description", "This field is required."},
		{"no deliverables", func(c *Campaign) { c.Deliverables = "" }, "deliverables", "This field is required."},
		{"bad content type", func(c *Campaign) { c.ContentType = "FAX" }, "content_type", "not a valid choice"},
		{"bad category", func(c *Campaign) { c.Category = "CARS" }, "category", "not a valid choice"},
		{"created closed", func(c *Campaign) { c.Status = CampaignStatusClosed }, "status", "cannot be created closed"},
		{"created live", func(c *Campaign) { c.Status = CampaignStatusLive }, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCampaign()
			tt.mutate(c)
			errs := ValidateCampaign(c, nil, today)
			if tt.wantField == "" {
				if !errs.Empty() {
					t.Fatalf("unexpected errors: %s", errs)
				}
				return
			}
			msgs := errs[tt.wantField]
			if len(msgs) == 0 {
				t.Fatalf("expected error on %q, got %s", tt.wantField, errs)
			}
			if !strings.Contains(strings.Join(msgs, " "), tt.wantMsg) {
				t.Errorf("errors[%q] = %v, want message containing %q", tt.wantField, msgs, tt.wantMsg)
			}
		})
	}
}

func TestValidateCampaign_NormalizesBudgetAndCategory(t *testing.T) {
	c := validCampaign()
	c.Category = ""
	if errs := ValidateCampaign(c, nil, today); !errs.Empty() {
		t.Fatalf("unexpected errors: %s", errs)
	}
	if c.Budget != "500.00" {
		t.Errorf("budget = %q, want 500.00", c.Budget)
	}
	if c.Category != CategoryOther {
		t.Errorf("category = %q, want %q", c.Category, CategoryOther)
	}
}

func TestValidateCampaign_Update(t *testing.T) {
	expired := today.AddDays(-3)

	tests := []struct {
		name     string
		prev     Campaign
		patch    CampaignPatch
		wantErrs []string
	}{
		{
			name:  "close expired live campaign",
			prev:  Campaign{Status: CampaignStatusLive, Deadline: expired},
			patch: CampaignPatch{Status: strPtr(CampaignStatusClosed)},
		},
		{
			name:  "edit title of expired live campaign",
			prev:  Campaign{Status: CampaignStatusLive, Deadline: expired},
			patch: CampaignPatch{Title: strPtr("New title")},
		},
		{
			name:     "publish expired draft",
			prev:     Campaign{Status: CampaignStatusDraft, Deadline: expired},
			patch:    CampaignPatch{Status: strPtr(CampaignStatusLive)},
			wantErrs: []string{"deadline"},
		},
		{
			name:     "move live deadline into the past",
			prev:     Campaign{Status: CampaignStatusLive, Deadline: today.AddDays(5)},
			patch:    CampaignPatch{Deadline: datePtr(expired)},
			wantErrs: []string{"deadline"},
		},
		{
			name:     "reopen closed campaign",
			prev:     Campaign{Status: CampaignStatusClosed, Deadline: today.AddDays(5)},
			patch:    CampaignPatch{Status: strPtr(CampaignStatusLive)},
			wantErrs: []string{"status"},
		},
		{
			name:     "back to draft",
			prev:     Campaign{Status: CampaignStatusLive, Deadline: today.AddDays(5)},
			patch:    CampaignPatch{Status: strPtr(CampaignStatusDraft)},
			wantErrs: []string{"status"},
		},
		{
			name:  "same status is a no-op",
			prev:  Campaign{Status: CampaignStatusLive, Deadline: today.AddDays(5)},
			patch: CampaignPatch{Status: strPtr(CampaignStatusLive)},
		},
		{
			name:     "zero budget on update",
			prev:     Campaign{Status: CampaignStatusLive, Deadline: today.AddDays(5)},
			patch:    CampaignPatch{Budget: strPtr("0")},
			wantErrs: []string{"budget"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := validCampaign()
			prev.Status = tt.prev.Status
			prev.Deadline = tt.prev.Deadline
			next := *prev
			tt.patch.Apply(&next)

			errs := ValidateCampaign(&next, prev, today)
			got := errs.Fields()
			if len(got) != len(tt.wantErrs) {
				t.Fatalf("error fields = %v, want %v (%s)", got, tt.wantErrs, errs)
			}
			for i := range got {
				if got[i] != tt.wantErrs[i] {
					t.Errorf("error fields = %v, want %v", got, tt.wantErrs)
				}
			}
		})
	}
}

func TestValidateCampaignFile(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		size  int64
		valid bool
	}{
		{"pdf", "brief.pdf", 1024, true},
		{"upper case jpg", "MOOD.JPG", 2048, true},
		{"docx", "notes.docx", 10, true},
		{"mov at limit", "clip.mov", MaxCampaignFileSize, true},
		{"exe", "setup.exe", 100, false},
		{"no extension", "README", 100, false},
		{"too large", "clip.mp4", MaxCampaignFileSize + 1, false},
		{"empty", "brief.pdf", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateCampaignFile(tt.file, tt.size)
			if errs.Empty() != tt.valid {
				t.Errorf("ValidateCampaignFile(%q, %d) valid = %v, want %v (%s)", tt.file, tt.size, errs.Empty(), tt.valid, errs)
			}
		})
	}
}

func TestCampaignDecorate(t *testing.T) {
	c := Campaign{Status: CampaignStatusLive, ContentType: ContentTikTokVideo}
	c.Decorate()
	if c.StatusDisplay != "Live" || c.ContentTypeDisplay != "TikTok Video" {
		t.Errorf("labels = %q / %q", c.StatusDisplay, c.ContentTypeDisplay)
	}
	if c.ReferenceFiles == nil {
		t.Error("reference files should render as an empty list")
	}
}

func strPtr(s string) *string { return &s }
func datePtr(d Date) *Date    { return &d }
