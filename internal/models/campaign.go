package models

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Campaign statuses
const (
	CampaignStatusDraft  = "DRAFT"
	CampaignStatusLive   = "LIVE"
	CampaignStatusClosed = "CLOSED"
)

// Forward only: from -> []to
var ValidCampaignTransitions = map[string][]string{
	CampaignStatusDraft:  {CampaignStatusLive, CampaignStatusClosed},
	CampaignStatusLive:   {CampaignStatusClosed},
	CampaignStatusClosed: {},
}

func IsValidCampaignTransition(from, to string) bool {
	return containsStatus(ValidCampaignTransitions, from, to)
}

var campaignStatusLabels = map[string]string{
	CampaignStatusDraft:  "Draft",
	CampaignStatusLive:   "Live",
	CampaignStatusClosed: "Closed",
}

// Content types
const (
	ContentInstagramReel  = "INSTAGRAM_REEL"
	ContentInstagramPost  = "INSTAGRAM_POST"
	ContentInstagramStory = "INSTAGRAM_STORY"
	ContentTikTokVideo    = "TIKTOK_VIDEO"
	ContentYouTubeVideo   = "YOUTUBE_VIDEO"
	ContentYouTubeShort   = "YOUTUBE_SHORT"
)

var contentTypeLabels = map[string]string{
	ContentInstagramReel:  "Instagram Reel",
	ContentInstagramPost:  "Instagram Post",
	ContentInstagramStory: "Instagram Story",
	ContentTikTokVideo:    "TikTok Video",
	ContentYouTubeVideo:   "YouTube Video",
	ContentYouTubeShort:   "YouTube Short",
}

// Categories
const (
	CategoryBeauty    = "BEAUTY"
	CategoryFashion   = "FASHION"
	CategoryTech      = "TECH"
	CategoryLifestyle = "LIFESTYLE"
	CategoryFood      = "FOOD"
	CategoryFitness   = "FITNESS"
	CategoryTravel    = "TRAVEL"
	CategoryGaming    = "GAMING"
	CategoryOther     = "OTHER"
)

var categoryLabels = map[string]string{
	CategoryBeauty:    "Beauty",
	CategoryFashion:   "Fashion",
	CategoryTech:      "Tech",
	CategoryLifestyle: "Lifestyle",
	CategoryFood:      "Food",
	CategoryFitness:   "Fitness",
	CategoryTravel:    "Travel",
	CategoryGaming:    "Gaming",
	CategoryOther:     "Other",
}

func IsCampaignStatus(s string) bool { _, ok := campaignStatusLabels[s]; return ok }
func IsContentType(s string) bool    { _, ok := contentTypeLabels[s]; return ok }
func IsCategory(s string) bool       { _, ok := categoryLabels[s]; return ok }

type Campaign struct {
	ID                 uuid.UUID      `json:"id"`
	BrandID            uuid.UUID      `json:"brand"`
	BrandEmail         string         `json:"brand_email"`
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	ContentType        string         `json:"content_type"`
	ContentTypeDisplay string         `json:"content_type_display"`
	Category           string         `json:"category"`
	Deliverables       string         `json:"deliverables"`
	Budget             string         `json:"budget"` // numeric as string
	Deadline           Date           `json:"deadline"`
	Status             string         `json:"status"`
	StatusDisplay      string         `json:"status_display"`
	ReferenceFiles     []CampaignFile `json:"reference_files"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// Decorate fills the display labels from the stored codes.
func (c *Campaign) Decorate() {
	c.StatusDisplay = campaignStatusLabels[c.Status]
	c.ContentTypeDisplay = contentTypeLabels[c.ContentType]
	if c.ReferenceFiles == nil {
		c.ReferenceFiles = []CampaignFile{}
	}
}

type CampaignFile struct {
	ID           uuid.UUID `json:"id"`
	CampaignID   uuid.UUID `json:"campaign"`
	StorageKey   string    `json:"-"`
	URL          string    `json:"file"`
	OriginalName string    `json:"filename"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// CampaignPatch is a partial update; nil fields keep their value.
type CampaignPatch struct {
	Title        *string
	Description  *string
	ContentType  *string
	Category     *string
	Deliverables *string
	Budget       *string
	Deadline     *Date
	Status       *string
}

// Apply copies the set fields onto c.
func (p CampaignPatch) Apply(c *Campaign) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.ContentType != nil {
		c.ContentType = *p.ContentType
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.Deliverables != nil {
		c.Deliverables = *p.Deliverables
	}
	if p.Budget != nil {
		c.Budget = *p.Budget
	}
	if p.Deadline != nil {
		c.Deadline = *p.Deadline
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
}

const maxCampaignTitle = 200

// ValidateCampaign runs the full rule set against c before it is persisted.
// prev is the stored version for updates and nil on create. The deadline must
// lie after today for drafts, for a draft going live, and whenever the deadline
// changes; an untouched deadline is not re-checked once the campaign is live,
// so expired campaigns can still be closed.
func ValidateCampaign(c *Campaign, prev *Campaign, today Date) FieldErrors {
	errs := FieldErrors{}

	if isBlank(c.Title) {
		errs.Add("title", "This field is required.")
	} else if utf8.RuneCountInString(c.Title) > maxCampaignTitle {
		errs.Add("title", fmt.Sprintf("Ensure this field has no more than %d characters.", maxCampaignTitle))
	}
	if isBlank(c.Description) {
		errs.Add("description", "This field is required.")
	}
	if isBlank(c.Deliverables) {
		errs.Add("deliverables", "This field is required.")
	}
	if !IsContentType(c.ContentType) {
		errs.Add("content_type", fmt.Sprintf("%q is not a valid choice.", c.ContentType))
	}
	if c.Category == "" {
		c.Category = CategoryOther
	} else if !IsCategory(c.Category) {
		errs.Add("category", fmt.Sprintf("%q is not a valid choice.", c.Category))
	}

	if normalized, d, err := ParseMoney(c.Budget); err != nil {
		errs.Add("budget", err.Error())
	} else if !d.IsPositive() {
		errs.Add("budget", "Budget must be greater than 0.")
	} else {
		c.Budget = normalized
	}

	if !IsCampaignStatus(c.Status) {
		errs.Add("status", fmt.Sprintf("%q is not a valid choice.", c.Status))
	} else if prev == nil && c.Status == CampaignStatusClosed {
		errs.Add("status", "A campaign cannot be created closed.")
	} else if prev != nil && prev.Status != c.Status && !IsValidCampaignTransition(prev.Status, c.Status) {
		errs.Add("status", fmt.Sprintf("Cannot change status from %s to %s.", prev.Status, c.Status))
	}

	checkDeadline := prev == nil ||
		c.Status == CampaignStatusDraft ||
		(prev.Status == CampaignStatusDraft && c.Status == CampaignStatusLive) ||
		!prev.Deadline.Equal(c.Deadline)
	switch {
	case c.Deadline.IsZero():
		errs.Add("deadline", "This field is required.")
	case checkDeadline && !c.Deadline.After(today):
		errs.Add("deadline", "Deadline must be a future date.")
	}

	return errs
}

// Reference file limits
const (
	MaxCampaignFileSize = 10 * 1024 * 1024
)

var allowedFileExtensions = []string{"pdf", "jpg", "jpeg", "png", "doc", "docx", "mp4", "mov"}

// ValidateCampaignFile checks a single reference file by name and size.
func ValidateCampaignFile(name string, size int64) FieldErrors {
	errs := FieldErrors{}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	allowed := false
	for _, e := range allowedFileExtensions {
		if e == ext {
			allowed = true
			break
		}
	}
	if !allowed {
		errs.Add("file", fmt.Sprintf("File extension %q is not allowed. Allowed extensions are: %s.",
			ext, strings.Join(allowedFileExtensions, ", ")))
	}
	if size > MaxCampaignFileSize {
		errs.Add("file", fmt.Sprintf("File %s exceeds maximum size of 10 MB.", name))
	}
	if size == 0 {
		errs.Add("file", "The submitted file is empty.")
	}
	return errs
}

func containsStatus(table map[string][]string, from, to string) bool {
	allowed, ok := table[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Choice is a stored code with its display label.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var (
	categoryOrder = []string{
		CategoryBeauty, CategoryFashion, CategoryTech, CategoryLifestyle, CategoryFood,
		CategoryFitness, CategoryTravel, CategoryGaming, CategoryOther,
	}
	contentTypeOrder = []string{
		ContentInstagramReel, ContentInstagramPost, ContentInstagramStory,
		ContentTikTokVideo, ContentYouTubeVideo, ContentYouTubeShort,
	}
)

func CategoryChoices() []Choice    { return choices(categoryOrder, categoryLabels) }
func ContentTypeChoices() []Choice { return choices(contentTypeOrder, contentTypeLabels) }

func choices(order []string, labels map[string]string) []Choice {
	out := make([]Choice, len(order))
	for i, v := range order {
		out[i] = Choice{Value: v, Label: labels[v]}
	}
	return out
}
