package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/http/dto"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/models"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/rbac"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/services"
	"go.uber.org/zap"
)

const (
	CtxUserID = "user_id"
	CtxUser   = "user"
)

// Authenticator resolves a bearer access token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, access string) (*models.User, error)
}

func AuthMiddleware(authn Authenticator, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Failure("Authentication credentials were not provided."))
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader || tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Failure("Authorization header must contain a Bearer token."))
		}

		user, err := authn.Authenticate(c.Context(), tokenStr)
		if err != nil {
			var access *services.AccessError
			if errors.As(err, &access) {
				log.Debug("authentication rejected", zap.Error(err))
				return c.Status(fiber.StatusUnauthorized).JSON(dto.Failure(access.Message))
			}
			log.Error("authentication failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(dto.Failure("A server error occurred."))
		}

		c.Locals(CtxUserID, user.ID)
		c.Locals(CtxUser, user)

		return c.Next()
	}
}

func GetUserID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(CtxUserID).(uuid.UUID)
	return id
}

func GetUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(CtxUser).(*models.User)
	return u
}

// GetActor is the authorization view of the authenticated user. It is the
// zero Actor on public routes.
func GetActor(c *fiber.Ctx) rbac.Actor {
	u := GetUser(c)
	if u == nil {
		return rbac.Actor{}
	}
	return rbac.Actor{ID: u.ID, Role: u.Role}
}
