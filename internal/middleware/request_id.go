package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	CtxRequestID = "request_id"

	maxRequestIDLen = 128
)

// RequestIDMiddleware propagates X-Request-ID, generating one when the client
// sent none or an oversized value.
func RequestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqID := c.Get(fiber.HeaderXRequestID)
		if reqID == "" || len(reqID) > maxRequestIDLen {
			reqID = uuid.New().String()
		}
		c.Locals(CtxRequestID, reqID)
		c.Set(fiber.HeaderXRequestID, reqID)
		return c.Next()
	}
}
