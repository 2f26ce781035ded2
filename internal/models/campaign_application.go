package models

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Campaign application statuses
const (
	ApplicationStatusPending     = "PENDING"
	ApplicationStatusShortlisted = "SHORTLISTED"
	ApplicationStatusRejected    = "REJECTED"
	ApplicationStatusAccepted    = "ACCEPTED"
)

// Accepted and rejected are terminal.
var ValidApplicationTransitions = map[string][]string{
	ApplicationStatusPending:     {ApplicationStatusShortlisted, ApplicationStatusRejected, ApplicationStatusAccepted},
	ApplicationStatusShortlisted: {ApplicationStatusRejected, ApplicationStatusAccepted},
	ApplicationStatusRejected:    {},
	ApplicationStatusAccepted:    {},
}

func IsValidApplicationTransition(from, to string) bool {
	return containsStatus(ValidApplicationTransitions, from, to)
}

var applicationStatusLabels = map[string]string{
	ApplicationStatusPending:     "Pending",
	ApplicationStatusShortlisted: "Shortlisted",
	ApplicationStatusRejected:    "Rejected",
	ApplicationStatusAccepted:    "Accepted",
}

func IsApplicationStatus(s string) bool { _, ok := applicationStatusLabels[s]; return ok }

// IsDecision reports whether a status closes the review for the influencer.
func IsDecision(status string) bool {
	return status == ApplicationStatusAccepted || status == ApplicationStatusRejected
}

type CampaignApplication struct {
	ID            uuid.UUID `json:"id"`
	CampaignID    uuid.UUID `json:"campaign"`
	InfluencerID  uuid.UUID `json:"influencer"`
	Pitch         string    `json:"pitch"`
	PortfolioLink *string   `json:"portfolio_link"`
	ProposedPrice *string   `json:"proposed_price"` // numeric as string
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CampaignApplicationView embeds CampaignApplication with the campaign and
// influencer columns the review screens need.
type CampaignApplicationView struct {
	CampaignApplication
	StatusDisplay            string    `json:"status_display"`
	CampaignTitle            string    `json:"campaign_title"`
	CampaignBrandID          uuid.UUID `json:"-"`
	InfluencerEmail          string    `json:"influencer_email"`
	InfluencerName           string    `json:"influencer_name"`
	InfluencerFollowers      *int      `json:"influencer_followers"`
	InfluencerEngagementRate *string   `json:"influencer_engagement_rate"`
	InfluencerPlatform       *string   `json:"influencer_platform"`
}

func (v *CampaignApplicationView) Decorate() {
	v.StatusDisplay = applicationStatusLabels[v.Status]
}

// Eligibility messages, keyed under "campaign".
const (
	MsgCampaignNotAccepting = "This campaign is not accepting applications."
	MsgCampaignDeadline     = "The application deadline for this campaign has passed."
	MsgAlreadyApplied       = "You have already applied to this campaign."
	MsgCampaignNotFound     = "Campaign not found."
)

// CheckApplyEligibility evaluates the campaign-side checks in order and
// returns the first failure. The caller has already verified the role.
func CheckApplyEligibility(c *Campaign, alreadyApplied bool, today Date) FieldErrors {
	errs := FieldErrors{}
	switch {
	case c == nil:
		errs.Add("campaign", MsgCampaignNotFound)
	case c.Status != CampaignStatusLive:
		errs.Add("campaign", MsgCampaignNotAccepting)
	case c.Deadline.Before(today):
		errs.Add("campaign", MsgCampaignDeadline)
	case alreadyApplied:
		errs.Add("campaign", MsgAlreadyApplied)
	}
	return errs
}

// ValidateCampaignApplication checks the influencer-supplied fields and
// normalizes proposed_price.
func ValidateCampaignApplication(a *CampaignApplication) FieldErrors {
	errs := FieldErrors{}
	if isBlank(a.Pitch) {
		errs.Add("pitch", "This field is required.")
	}
	if a.PortfolioLink != nil {
		link := strings.TrimSpace(*a.PortfolioLink)
		if link == "" {
			a.PortfolioLink = nil
		} else if !isHTTPURL(link) {
			errs.Add("portfolio_link", "Enter a valid URL.")
		} else {
			a.PortfolioLink = &link
		}
	}
	if a.ProposedPrice != nil {
		normalized, d, err := ParseMoney(*a.ProposedPrice)
		switch {
		case err != nil:
			errs.Add("proposed_price", err.Error())
		case !d.IsPositive():
			errs.Add("proposed_price", "Proposed price must be greater than 0.")
		default:
			a.ProposedPrice = &normalized
		}
	}
	return errs
}

// ValidateApplicationTransition checks a review decision against the
// application's current status and its campaign.
func ValidateApplicationTransition(from, to string, c *Campaign) FieldErrors {
	errs := FieldErrors{}
	switch {
	case !IsApplicationStatus(to):
		errs.Add("status", "\""+to+"\" is not a valid choice.")
	case !IsValidApplicationTransition(from, to):
		errs.Add("status", "Cannot change status from "+from+" to "+to+".")
	case to == ApplicationStatusAccepted && c.Status != CampaignStatusLive:
		errs.Add("status", "Applications can only be accepted while the campaign is live.")
	}
	return errs
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func ApplicationStatusChoices() []Choice {
	return choices([]string{
		ApplicationStatusPending, ApplicationStatusShortlisted, ApplicationStatusAccepted, ApplicationStatusRejected,
	}, applicationStatusLabels)
}
