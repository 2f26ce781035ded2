package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/auth"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/models"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/repositories"
	"go.uber.org/zap"
)

const (
	msgInvalidCredentials = "Invalid email or password."
	msgAccountDisabled    = "User account is disabled."
	msgTokenInvalid       = "Token is invalid or expired."
	msgResetLinkInvalid   = "Invalid or expired reset link."
	msgPasswordsMismatch  = "Password fields didn't match."
)

type RegisterInput struct {
	Email           string
	Password        string
	PasswordConfirm string
	FirstName       string
	LastName        string
	GDPRConsent     bool
}

type PasswordResetConfig struct {
	TTL     time.Duration
	LinkURL string // frontend page receiving uid and token
}

type AuthService struct {
	users    UserStore
	tokens   *auth.TokenManager
	revoked  auth.RevocationStore
	resets   auth.ResetTokenStore
	files    BlobStore
	notifier Notifier
	audit    AuditLogger
	reset    PasswordResetConfig
	log      *zap.Logger
	now      func() time.Time
}

func NewAuthService(
	users UserStore,
	tokens *auth.TokenManager,
	revoked auth.RevocationStore,
	resets auth.ResetTokenStore,
	files BlobStore,
	notifier Notifier,
	audit AuditLogger,
	reset PasswordResetConfig,
	log *zap.Logger,
) *AuthService {
	if reset.TTL <= 0 {
		reset.TTL = time.Hour
	}
	return &AuthService{
		users:    users,
		tokens:   tokens,
		revoked:  revoked,
		resets:   resets,
		files:    files,
		notifier: notifier,
		audit:    audit,
		reset:    reset,
		log:      log,
		now:      time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, auth.TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	errs := models.FieldErrors{}

	if email == "" {
		errs.Add("email", "This field is required.")
	}
	if in.Password != in.PasswordConfirm {
		errs.Add("password", msgPasswordsMismatch)
	}
	for _, p := range auth.ValidatePassword(in.Password) {
		errs.Add("password", p)
	}
	if !in.GDPRConsent {
		errs.Add("gdpr_consent", "You must accept the GDPR terms to register.")
	}
	if email != "" {
		exists, err := s.users.ExistsByEmail(ctx, email)
		if err != nil {
			return nil, auth.TokenPair{}, err
		}
		if exists {
			errs.Add("email", "A user with this email already exists.")
		}
	}
	if err := invalid(errs); err != nil {
		return nil, auth.TokenPair{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	consentAt := s.now().UTC()
	u := &models.User{
		Email:           email,
		PasswordHash:    hash,
		FirstName:       strings.TrimSpace(in.FirstName),
		LastName:        strings.TrimSpace(in.LastName),
		GDPRConsent:     true,
		GDPRConsentDate: &consentAt,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if repositories.IsConflict(err, repositories.ConstraintUserEmail) {
			return nil, auth.TokenPair{}, fieldError("email", "A user with this email already exists.")
		}
		return nil, auth.TokenPair{}, err
	}

	tokens, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}

	_ = s.audit.Log(ctx, models.UserAudit(u.ID, models.AuditUserRegistered, "user", u.ID, nil))
	s.log.Info("user registered", zap.String("user_id", u.ID.String()))
	return u, tokens, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, auth.TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, auth.TokenPair{}, unauthorized(msgInvalidCredentials)
	}
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, auth.TokenPair{}, unauthorized(msgInvalidCredentials)
	}
	if !u.IsActive {
		return nil, auth.TokenPair{}, unauthorized(msgAccountDisabled)
	}

	tokens, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	return u, tokens, nil
}

// Refresh exchanges a refresh token for a new pair. The old refresh token
// is revoked.
func (s *AuthService) Refresh(ctx context.Context, refresh string) (auth.TokenPair, error) {
	claims, err := s.tokens.Parse(refresh, auth.TokenTypeRefresh)
	if err != nil {
		return auth.TokenPair{}, unauthorized(msgTokenInvalid)
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return auth.TokenPair{}, err
	}
	if revoked {
		return auth.TokenPair{}, unauthorized(msgTokenInvalid)
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, repositories.ErrNotFound) {
		return auth.TokenPair{}, unauthorized(msgTokenInvalid)
	}
	if err != nil {
		return auth.TokenPair{}, err
	}
	if !u.IsActive {
		return auth.TokenPair{}, unauthorized(msgAccountDisabled)
	}

	s.revoke(ctx, claims)
	return s.tokens.Issue(u.ID)
}

// Logout revokes the refresh token when it is a valid one. It never fails:
// missing, malformed or already revoked tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, refresh string) {
	if refresh == "" {
		return
	}
	claims, err := s.tokens.Parse(refresh, auth.TokenTypeRefresh)
	if err != nil {
		s.log.Debug("logout with unusable refresh token", zap.Error(err))
		return
	}
	s.revoke(ctx, claims)
}

func (s *AuthService) revoke(ctx context.Context, claims *auth.Claims) {
	ttl := s.tokens.RefreshTTL()
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Time.Sub(s.now())
	}
	if ttl <= 0 {
		return
	}
	if err := s.revoked.Revoke(ctx, claims.ID, ttl); err != nil {
		s.log.Warn("refresh token revocation failed", zap.Error(err))
	}
}

// Authenticate resolves the user behind an access token.
func (s *AuthService) Authenticate(ctx context.Context, access string) (*models.User, error) {
	claims, err := s.tokens.Parse(access, auth.TokenTypeAccess)
	if err != nil {
		return nil, unauthorized("Given token not valid for any token type")
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, unauthorized("User not found")
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, unauthorized(msgAccountDisabled)
	}
	return u, nil
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFound("User not found.")
	}
	return u, err
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, p models.ProfileUpdate) (*models.User, error) {
	if err := invalid(models.ValidateProfile(&p)); err != nil {
		return nil, err
	}
	u, err := s.users.UpdateProfile(ctx, userID, p)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFound("User not found.")
	}
	return u, err
}

// AssignRole performs the one-time role selection.
func (s *AuthService) AssignRole(ctx context.Context, userID uuid.UUID, value string) (*models.User, error) {
	u, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	role, ok := models.ParseRole(value)
	if !ok {
		return nil, fieldError("role", "\""+value+"\" is not a valid choice.")
	}
	if u.Role.IsSet() {
		return nil, fieldError("role", "Role has already been set and cannot be changed.")
	}
	if !models.CanAssignRole(u.Role, role) {
		return nil, fieldError("role", "This role cannot be selected.")
	}

	updated, err := s.users.UpdateRole(ctx, userID, u.Role, role)
	if errors.Is(err, repositories.ErrNotFound) {
		// lost a race against a concurrent selection
		return nil, fieldError("role", "Role has already been set and cannot be changed.")
	}
	if err != nil {
		return nil, err
	}

	_ = s.audit.Log(ctx, models.UserAudit(userID, models.AuditUserRoleAssigned, "user", userID, map[string]any{"role": role}))
	return updated, nil
}

// RequestPasswordReset emails a single-use reset link when the account
// exists. Unknown addresses succeed silently.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	token, hash, err := auth.NewResetToken()
	if err != nil {
		return err
	}
	if err := s.resets.Put(ctx, u.ID, hash, s.reset.TTL); err != nil {
		return err
	}

	q := url.Values{}
	q.Set("uid", auth.EncodeUID(u.ID))
	q.Set("token", token)
	s.notifier.PasswordReset(u.Email, displayName(u), s.reset.LinkURL+"?"+q.Encode())
	return nil
}

func (s *AuthService) ConfirmPasswordReset(ctx context.Context, uid, token, password, confirm string) error {
	errs := models.FieldErrors{}
	if password != confirm {
		errs.Add("new_password", msgPasswordsMismatch)
	}
	for _, p := range auth.ValidatePassword(password) {
		errs.Add("new_password", p)
	}
	if err := invalid(errs); err != nil {
		return err
	}

	userID, err := auth.DecodeUID(uid)
	if err != nil {
		return fieldError("token", msgResetLinkInvalid)
	}
	owner, err := s.resets.Consume(ctx, auth.HashToken(token))
	if errors.Is(err, auth.ErrResetTokenInvalid) || (err == nil && owner != userID) {
		return fieldError("token", msgResetLinkInvalid)
	}
	if err != nil {
		return err
	}
	return s.setPassword(ctx, userID, password)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, old, password, confirm string) error {
	u, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}
	errs := models.FieldErrors{}
	if !auth.CheckPassword(u.PasswordHash, old) {
		errs.Add("old_password", "Old password is incorrect.")
	}
	if password != confirm {
		errs.Add("new_password", msgPasswordsMismatch)
	}
	for _, p := range auth.ValidatePassword(password) {
		errs.Add("new_password", p)
	}
	if err := invalid(errs); err != nil {
		return err
	}
	return s.setPassword(ctx, userID, password)
}

func (s *AuthService) setPassword(ctx context.Context, userID uuid.UUID, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fieldError("token", msgResetLinkInvalid)
		}
		return err
	}
	_ = s.audit.Log(ctx, models.UserAudit(userID, models.AuditUserPasswordChanged, "user", userID, nil))
	return nil
}

// DeleteAccount erases the user and everything they own. Stored reference
// files are removed after the rows are gone.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	keys, err := s.users.ListOwnedFileKeys(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound("User not found.")
		}
		return err
	}
	for _, key := range keys {
		if err := s.files.Remove(ctx, key); err != nil {
			s.log.Warn("failed to remove file of deleted user", zap.String("key", key), zap.Error(err))
		}
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorType:  "system",
		Action:     models.AuditUserDeleted,
		EntityType: "user",
		EntityID:   &userID,
		Meta:       map[string]any{"files_removed": len(keys)},
	})
	return nil
}

func displayName(u *models.User) string {
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Email
}
