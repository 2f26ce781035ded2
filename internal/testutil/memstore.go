// Package testutil provides in-memory implementations of the storage
// interfaces used by the services, for service and HTTP tests.
package testutil

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/auth"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/events"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/models"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/repositories"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/storage"
)

// DB is a single in-memory database shared by all stores, so joins such as
// the campaign application view can be computed.
type DB struct {
	mu           sync.Mutex
	clock        time.Time
	users        map[uuid.UUID]*models.User
	campaigns    map[uuid.UUID]*models.Campaign
	files        map[uuid.UUID]*models.CampaignFile
	applications map[uuid.UUID]*models.CampaignApplication
	templates    map[uuid.UUID]*models.Template
	apps         map[uuid.UUID]*models.Application
	Audit        []models.AuditLog
}

func NewDB() *DB {
	return &DB{
		clock:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		users:        map[uuid.UUID]*models.User{},
		campaigns:    map[uuid.UUID]*models.Campaign{},
		files:        map[uuid.UUID]*models.CampaignFile{},
		applications: map[uuid.UUID]*models.CampaignApplication{},
		templates:    map[uuid.UUID]*models.Template{},
		apps:         map[uuid.UUID]*models.Application{},
	}
}

// tick returns strictly increasing timestamps so ordering by created_at is
// deterministic.
func (db *DB) tick() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

// Users

type UserStore struct{ db *DB }

func (db *DB) Users() *UserStore { return &UserStore{db} }

func (s *UserStore) Create(_ context.Context, u *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u.Email = strings.ToLower(u.Email)
	for _, other := range s.db.users {
		if other.Email == u.Email {
			return &repositories.ConflictError{Constraint: repositories.ConstraintUserEmail}
		}
	}
	u.ID = uuid.New()
	u.IsActive = true
	u.CreatedAt = s.db.tick()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	s.db.users[u.ID] = &cp
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *UserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	return err == nil, nil
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

func (s *UserStore) UpdateProfile(_ context.Context, id uuid.UUID, p models.ProfileUpdate) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Followers.Set {
		u.Followers = clonePtr(p.Followers.Value)
	}
	if p.EngagementRate.Set {
		u.EngagementRate = clonePtr(p.EngagementRate.Value)
	}
	if p.Platform.Set {
		u.Platform = clonePtr(p.Platform.Value)
	}
	u.UpdatedAt = s.db.tick()
	cp := *u
	return &cp, nil
}

func (s *UserStore) UpdateRole(_ context.Context, id uuid.UUID, from, to models.Role) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[id]
	if !ok || u.Role != from {
		return nil, repositories.ErrNotFound
	}
	u.Role = to
	cp := *u
	return &cp, nil
}

func (s *UserStore) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

// Delete cascades like the foreign keys in the schema.
func (s *UserStore) Delete(_ context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.db.users, id)
	for cid, c := range s.db.campaigns {
		if c.BrandID == id {
			s.db.deleteCampaign(cid)
		}
	}
	for aid, a := range s.db.applications {
		if a.InfluencerID == id {
			delete(s.db.applications, aid)
		}
	}
	for aid, a := range s.db.apps {
		if a.CreatorID == id {
			delete(s.db.apps, aid)
		}
	}
	return nil
}

func (s *UserStore) ListOwnedFileKeys(_ context.Context, id uuid.UUID) ([]string, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var keys []string
	for _, f := range s.db.files {
		if c, ok := s.db.campaigns[f.CampaignID]; ok && c.BrandID == id {
			keys = append(keys, f.StorageKey)
		}
	}
	return keys, nil
}

// SetRole bypasses the self-service rules, e.g. to create creators.
func (s *UserStore) SetRole(id uuid.UUID, r models.Role) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if u, ok := s.db.users[id]; ok {
		u.Role = r
	}
}

// Campaigns

type CampaignStore struct{ db *DB }

func (db *DB) Campaigns() *CampaignStore { return &CampaignStore{db} }

func (s *CampaignStore) Create(_ context.Context, c *models.Campaign) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	c.ID = uuid.New()
	c.CreatedAt = s.db.tick()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	cp.ReferenceFiles = nil
	s.db.campaigns[c.ID] = &cp
	return nil
}

func (s *CampaignStore) get(id uuid.UUID) (*models.Campaign, bool) {
	c, ok := s.db.campaigns[id]
	if !ok {
		return nil, false
	}
	cp := *c
	if u, ok := s.db.users[c.BrandID]; ok {
		cp.BrandEmail = u.Email
	}
	return &cp, true
}

func (s *CampaignStore) GetByID(_ context.Context, id uuid.UUID) (*models.Campaign, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	c, ok := s.get(id)
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return c, nil
}

func (s *CampaignStore) Update(_ context.Context, c *models.Campaign) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.campaigns[c.ID]; !ok {
		return repositories.ErrNotFound
	}
	c.UpdatedAt = s.db.tick()
	cp := *c
	cp.ReferenceFiles = nil
	s.db.campaigns[c.ID] = &cp
	return nil
}

func (s *CampaignStore) Delete(_ context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.campaigns[id]; !ok {
		return repositories.ErrNotFound
	}
	s.db.deleteCampaign(id)
	return nil
}

func (db *DB) deleteCampaign(id uuid.UUID) {
	delete(db.campaigns, id)
	for fid, f := range db.files {
		if f.CampaignID == id {
			delete(db.files, fid)
		}
	}
	for aid, a := range db.applications {
		if a.CampaignID == id {
			delete(db.applications, aid)
		}
	}
}

func (s *CampaignStore) List(_ context.Context, f repositories.CampaignFilter) ([]models.Campaign, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []models.Campaign
	for id := range s.db.campaigns {
		c, _ := s.get(id)
		if !matchCampaign(c, f) {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Limit, f.Offset), nil
}

func matchCampaign(c *models.Campaign, f repositories.CampaignFilter) bool {
	budget, _ := decimal.NewFromString(c.Budget)
	switch {
	case f.BrandID != nil && c.BrandID != *f.BrandID,
		f.Status != nil && c.Status != *f.Status,
		f.Category != nil && c.Category != *f.Category,
		f.ContentType != nil && c.ContentType != *f.ContentType,
		f.DeadlineBefore != nil && c.Deadline.After(*f.DeadlineBefore):
		return false
	}
	if f.BudgetMin != nil {
		if lo, err := decimal.NewFromString(*f.BudgetMin); err == nil && budget.LessThan(lo) {
			return false
		}
	}
	if f.BudgetMax != nil {
		if hi, err := decimal.NewFromString(*f.BudgetMax); err == nil && budget.GreaterThan(hi) {
			return false
		}
	}
	return true
}

func (s *CampaignStore) AddFile(_ context.Context, f *models.CampaignFile) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.campaigns[f.CampaignID]; !ok {
		return &repositories.InUseError{Constraint: "campaign_files_campaign_id_fkey"}
	}
	f.ID = uuid.New()
	f.UploadedAt = s.db.tick()
	cp := *f
	s.db.files[f.ID] = &cp
	return nil
}

func (s *CampaignStore) ListFiles(_ context.Context, ids []uuid.UUID) (map[uuid.UUID][]models.CampaignFile, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	want := map[uuid.UUID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	out := map[uuid.UUID][]models.CampaignFile{}
	for _, f := range s.db.files {
		if want[f.CampaignID] {
			out[f.CampaignID] = append(out[f.CampaignID], *f)
		}
	}
	for id := range out {
		fs := out[id]
		sort.Slice(fs, func(i, j int) bool { return fs[i].UploadedAt.After(fs[j].UploadedAt) })
	}
	return out, nil
}

// Campaign applications

type CampaignApplicationStore struct{ db *DB }

func (db *DB) CampaignApplications() *CampaignApplicationStore { return &CampaignApplicationStore{db} }

func (s *CampaignApplicationStore) Create(_ context.Context, a *models.CampaignApplication) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, other := range s.db.applications {
		if other.CampaignID == a.CampaignID && other.InfluencerID == a.InfluencerID {
			return &repositories.ConflictError{Constraint: repositories.ConstraintCampaignInfluencer}
		}
	}
	a.ID = uuid.New()
	a.CreatedAt = s.db.tick()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	s.db.applications[a.ID] = &cp
	return nil
}

func (s *CampaignApplicationStore) view(a *models.CampaignApplication) models.CampaignApplicationView {
	v := models.CampaignApplicationView{CampaignApplication: *a}
	if c, ok := s.db.campaigns[a.CampaignID]; ok {
		v.CampaignTitle = c.Title
		v.CampaignBrandID = c.BrandID
	}
	if u, ok := s.db.users[a.InfluencerID]; ok {
		v.InfluencerEmail = u.Email
		v.InfluencerName = strings.TrimSpace(u.FirstName + " " + u.LastName)
		v.InfluencerFollowers = u.Followers
		v.InfluencerEngagementRate = u.EngagementRate
		v.InfluencerPlatform = u.Platform
	}
	return v
}

func (s *CampaignApplicationStore) GetByID(_ context.Context, id uuid.UUID) (*models.CampaignApplicationView, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.applications[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	v := s.view(a)
	return &v, nil
}

func (s *CampaignApplicationStore) Exists(_ context.Context, campaignID, influencerID uuid.UUID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, a := range s.db.applications {
		if a.CampaignID == campaignID && a.InfluencerID == influencerID {
			return true, nil
		}
	}
	return false, nil
}

func (s *CampaignApplicationStore) List(_ context.Context, f repositories.CampaignApplicationFilter) ([]models.CampaignApplicationView, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []models.CampaignApplicationView
	for _, a := range s.db.applications {
		v := s.view(a)
		switch {
		case f.InfluencerID != nil && v.InfluencerID != *f.InfluencerID,
			f.BrandID != nil && v.CampaignBrandID != *f.BrandID,
			f.CampaignID != nil && v.CampaignID != *f.CampaignID,
			f.Status != nil && v.Status != *f.Status:
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Limit, f.Offset), nil
}

func (s *CampaignApplicationStore) UpdateStatus(_ context.Context, id uuid.UUID, from, to string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.applications[id]
	if !ok || a.Status != from {
		return repositories.ErrNotFound
	}
	a.Status = to
	a.UpdatedAt = s.db.tick()
	return nil
}

// Templates

type TemplateStore struct{ db *DB }

func (db *DB) Templates() *TemplateStore { return &TemplateStore{db} }

func (s *TemplateStore) list(available bool) []models.Template {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []models.Template
	for _, t := range s.db.templates {
		if available && !t.IsAvailable {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *TemplateStore) ListAvailable(context.Context) ([]models.Template, error) {
	return s.list(true), nil
}

func (s *TemplateStore) ListAll(context.Context) ([]models.Template, error) {
	return s.list(false), nil
}

func (s *TemplateStore) GetByID(_ context.Context, id uuid.UUID) (*models.Template, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	t, ok := s.db.templates[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *TemplateStore) GetByTemplateID(_ context.Context, templateID string) (*models.Template, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, t := range s.db.templates {
		if t.TemplateID == templateID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *TemplateStore) Upsert(_ context.Context, t *models.Template) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for id, existing := range s.db.templates {
		if existing.TemplateID == t.TemplateID {
			t.ID = id
			t.CreatedAt = existing.CreatedAt
			t.UpdatedAt = s.db.tick()
			cp := *t
			s.db.templates[id] = &cp
			return nil
		}
	}
	t.ID = uuid.New()
	t.CreatedAt = s.db.tick()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	s.db.templates[t.ID] = &cp
	return nil
}

func (s *TemplateStore) Delete(_ context.Context, templateID string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for id, t := range s.db.templates {
		if t.TemplateID != templateID {
			continue
		}
		for _, a := range s.db.apps {
			if a.TemplateRef != nil && *a.TemplateRef == id {
				return &repositories.InUseError{Constraint: repositories.ConstraintApplicationTemplateFK}
			}
		}
		delete(s.db.templates, id)
		return nil
	}
	return repositories.ErrNotFound
}

func (s *TemplateStore) CountApplications(_ context.Context, id uuid.UUID) (int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	n := 0
	for _, a := range s.db.apps {
		if a.TemplateRef != nil && *a.TemplateRef == id {
			n++
		}
	}
	return n, nil
}

// Provisioned applications

type ApplicationStore struct {
	db *DB
	// ForcedIDCollisions makes the next n inserts fail on application_id.
	ForcedIDCollisions int
}

func (db *DB) Applications() *ApplicationStore { return &ApplicationStore{db: db} }

func (s *ApplicationStore) Create(_ context.Context, a *models.Application) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.ForcedIDCollisions > 0 {
		s.ForcedIDCollisions--
		return &repositories.ConflictError{Constraint: repositories.ConstraintApplicationID}
	}
	for _, other := range s.db.apps {
		if other.ApplicationID == a.ApplicationID {
			return &repositories.ConflictError{Constraint: repositories.ConstraintApplicationID}
		}
		if other.Name == a.Name {
			return &repositories.ConflictError{Constraint: repositories.ConstraintApplicationName}
		}
	}
	if err := s.checkTemplate(a); err != nil {
		return err
	}
	a.ID = uuid.New()
	a.CreatedAt = s.db.tick()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	s.db.apps[a.ID] = &cp
	return nil
}

// checkTemplate mirrors applications_template_ref_fkey.
func (s *ApplicationStore) checkTemplate(a *models.Application) error {
	if a.TemplateRef == nil {
		return nil
	}
	if _, ok := s.db.templates[*a.TemplateRef]; !ok {
		return &repositories.InUseError{Constraint: repositories.ConstraintApplicationTemplateFK}
	}
	return nil
}

func (s *ApplicationStore) get(a *models.Application) models.Application {
	cp := *a
	cp.TemplateID, cp.TemplateName = nil, nil
	if a.TemplateRef != nil {
		if t, ok := s.db.templates[*a.TemplateRef]; ok {
			id, name := t.TemplateID, t.Name
			cp.TemplateID, cp.TemplateName = &id, &name
		}
	}
	if u, ok := s.db.users[a.CreatorID]; ok {
		cp.CreatorEmail = u.Email
	}
	return cp
}

func (s *ApplicationStore) GetByID(_ context.Context, id uuid.UUID) (*models.Application, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.apps[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := s.get(a)
	return &out, nil
}

func (s *ApplicationStore) ExistsByName(_ context.Context, name string, exclude *uuid.UUID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for id, a := range s.db.apps {
		if a.Name == name && (exclude == nil || id != *exclude) {
			return true, nil
		}
	}
	return false, nil
}

func (s *ApplicationStore) List(_ context.Context, f repositories.ApplicationFilter) ([]models.Application, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []models.Application
	for _, a := range s.db.apps {
		if f.CreatorID != nil && a.CreatorID != *f.CreatorID {
			continue
		}
		if len(f.Visibility) > 0 && !contains(f.Visibility, a.Visibility) {
			continue
		}
		out = append(out, s.get(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Limit, f.Offset), nil
}

func (s *ApplicationStore) Update(_ context.Context, a *models.Application) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.apps[a.ID]; !ok {
		return repositories.ErrNotFound
	}
	for id, other := range s.db.apps {
		if id != a.ID && other.Name == a.Name {
			return &repositories.ConflictError{Constraint: repositories.ConstraintApplicationName}
		}
	}
	if err := s.checkTemplate(a); err != nil {
		return err
	}
	a.UpdatedAt = s.db.tick()
	cp := *a
	s.db.apps[a.ID] = &cp
	return nil
}

func (s *ApplicationStore) Delete(_ context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.apps[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.db.apps, id)
	return nil
}

// Audit

type AuditStore struct{ db *DB }

func (db *DB) AuditLog() *AuditStore { return &AuditStore{db} }

func (s *AuditStore) Log(_ context.Context, e models.AuditLog) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	e.ID = uuid.New()
	e.CreatedAt = s.db.tick()
	s.db.Audit = append(s.db.Audit, e)
	return nil
}

// Actions returns the recorded audit actions in order.
func (db *DB) Actions() []string {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]string, len(db.Audit))
	for i, e := range db.Audit {
		out[i] = e.Action
	}
	return out
}

// Blobs

type BlobStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
}

func NewBlobStore() *BlobStore { return &BlobStore{Objects: map[string][]byte{}} }

func (s *BlobStore) Save(_ context.Context, key string, r io.Reader) (storage.Object, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return storage.Object{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Objects[key] = data
	return storage.Object{Key: key, Size: int64(len(data)), ContentType: "application/octet-stream"}, nil
}

func (s *BlobStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Objects, key)
	return nil
}

func (s *BlobStore) URL(key string) string { return "/media/" + key }

func (s *BlobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Objects)
}

// Token stores

type RevocationStore struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func NewRevocationStore() *RevocationStore { return &RevocationStore{revoked: map[string]bool{}} }

func (s *RevocationStore) Revoke(_ context.Context, jti string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = true
	return nil
}

func (s *RevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revoked[jti], nil
}

type ResetTokenStore struct {
	mu     sync.Mutex
	tokens map[string]uuid.UUID
}

func NewResetTokenStore() *ResetTokenStore { return &ResetTokenStore{tokens: map[string]uuid.UUID{}} }

func (s *ResetTokenStore) Put(_ context.Context, userID uuid.UUID, hash string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[hash] = userID
	return nil
}

func (s *ResetTokenStore) Consume(_ context.Context, hash string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.tokens[hash]
	if !ok {
		return uuid.Nil, auth.ErrResetTokenInvalid
	}
	delete(s.tokens, hash)
	return id, nil
}

// Notifier records notifications synchronously.

type Email struct {
	Kind, To, Name, CampaignTitle, Status, Link string
}

type Notifier struct {
	mu     sync.Mutex
	Emails []Email
	Events []events.Event
}

func (n *Notifier) ApplicationReceived(to, name, title string, _ *string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Emails = append(n.Emails, Email{Kind: "application_received", To: to, Name: name, CampaignTitle: title})
}

func (n *Notifier) ApplicationDecision(to, name, title, status string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Emails = append(n.Emails, Email{Kind: "application_decision", To: to, Name: name, CampaignTitle: title, Status: status})
}

func (n *Notifier) PasswordReset(to, name, link string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Emails = append(n.Emails, Email{Kind: "password_reset", To: to, Name: name, Link: link})
}

func (n *Notifier) Publish(_ string, e events.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Events = append(n.Events, e)
}

// Upload builds a multipart-free file body for service tests.
func Upload(size int) io.Reader {
	return bytes.NewReader(bytes.Repeat([]byte("a"), size))
}

func page[T any](items []T, limit, offset int) []T {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
