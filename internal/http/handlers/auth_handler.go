package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/http/dto"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/middleware"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/models"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/services"
	"go.uber.org/zap"
)

type AuthHandler struct {
	auth *services.AuthService
	log  *zap.Logger
}

func NewAuthHandler(auth *services.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	user, tokens, err := h.auth.Register(c.Context(), services.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		GDPRConsent:     req.GDPRConsent,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return created(c, dto.AuthResponse{User: user, Tokens: tokens})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	user, tokens, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, dto.AuthResponse{User: user, Tokens: tokens})
}

// Logout succeeds whatever the state of the supplied refresh token.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	_ = c.BodyParser(&req)
	h.auth.Logout(c.Context(), req.Refresh)
	return ok(c, dto.MessageResponse{Message: "Successfully logged out."})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	tokens, err := h.auth.Refresh(c.Context(), req.Refresh)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, tokens)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.auth.Me(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, user)
}

func (h *AuthHandler) UpdateMe(c *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	user, err := h.auth.UpdateProfile(c.Context(), middleware.GetUserID(c), models.ProfileUpdate{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Followers:      req.Followers,
		EngagementRate: models.Nullable[string]{Set: req.EngagementRate.Set, Value: req.EngagementRate.Value.StringPtr()},
		Platform:       req.Platform,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, user)
}

func (h *AuthHandler) AssignRole(c *fiber.Ctx) error {
	var req dto.RoleRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	user, err := h.auth.AssignRole(c.Context(), middleware.GetUserID(c), req.Role)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, user)
}

// PasswordReset answers the same way for known and unknown addresses.
func (h *AuthHandler) PasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.auth.RequestPasswordReset(c.Context(), req.Email); err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, dto.MessageResponse{Message: "If an account exists for this email, a reset link has been sent."})
}

func (h *AuthHandler) PasswordResetConfirm(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.auth.ConfirmPasswordReset(c.Context(), req.UID, req.Token, req.NewPassword, req.NewPasswordConfirm); err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, dto.MessageResponse{Message: "Password has been reset successfully."})
}

func (h *AuthHandler) PasswordChange(c *fiber.Ctx) error {
	var req dto.PasswordChangeRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.log, err)
	}
	err := h.auth.ChangePassword(c.Context(), middleware.GetUserID(c), req.OldPassword, req.NewPassword, req.NewPasswordConfirm)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, dto.MessageResponse{Message: "Password changed successfully."})
}

func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	if err := h.auth.DeleteAccount(c.Context(), middleware.GetUserID(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return ok(c, dto.MessageResponse{Message: "Account deleted successfully."})
}
