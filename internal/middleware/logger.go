package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func LoggerMiddleware(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		level := zapcore.InfoLevel
		if status >= fiber.StatusInternalServerError {
			level = zapcore.WarnLevel
		}

		reqID, _ := c.Locals(CtxRequestID).(string)
		fields := []zap.Field{
			zap.String("request_id", reqID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
		}
		if id := GetUserID(c); id != uuid.Nil {
			fields = append(fields, zap.String("user_id", id.String()))
		}
		log.Log(level, "request", fields...)

		return err
	}
}
