package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/http/dto"
)

// RateLimitMiddleware is a fixed window counter per path and client IP.
// It is disabled without Redis or with a non-positive limit and fails open
// when Redis errors.
func RateLimitMiddleware(rdb *redis.Client, limit int, window time.Duration) fiber.Handler {
	if rdb == nil || limit <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return func(c *fiber.Ctx) error {
		key := fmt.Sprintf("rl:%s:%s", c.Path(), c.IP())

		ctx := c.Context()
		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			return c.Next() // fail open
		}

		if count == 1 {
			rdb.Expire(ctx, key, window)
		}

		if count > int64(limit) {
			c.Set(fiber.HeaderRetryAfter, fmt.Sprint(int(window.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.Failure("Request was throttled."))
		}

		return c.Next()
	}
}
