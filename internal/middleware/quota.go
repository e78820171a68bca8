package middleware

import (
	"math"
	"strconv"
	"time"

	"github.com/bilgisen/finsmart/internal/cache"
	"github.com/bilgisen/finsmart/internal/logger"
	"github.com/gofiber/fiber/v2"
)

// Quota limits each client IP to limit requests per window. If the counter
// is unavailable requests are let through.
func Quota(counter cache.Counter, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		count, ttl, err := counter.Incr(c.UserContext(), c.IP(), window)
		if err != nil {
			logger.Get().Warn().Err(err).Str("ip", c.IP()).Msg("Quota counter unavailable")
			return c.Next()
		}

		remaining := int64(limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Set("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(limit) {
			retry := int(math.Ceil(ttl.Seconds()))
			if retry < 1 {
				retry = 1
			}
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retry))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "AI request quota exceeded, try again later",
			})
		}
		return c.Next()
	}
}
