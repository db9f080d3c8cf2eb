package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen allows the request to proceed if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed rejects the request if Redis is unavailable.
	FailClosed
)

// RateLimit returns a fixed-window rate limiter backed by Redis, keyed by
// client IP and the given scope. A nil client disables limiting (fail open).
func RateLimit(client *redis.Client, max int, window time.Duration, scope string) fiber.Handler {
	return RateLimitWithPolicy(client, max, window, scope, FailOpen)
}

// RateLimitWithPolicy is RateLimit with an explicit fail policy.
func RateLimitWithPolicy(client *redis.Client, max int, window time.Duration, scope string, policy FailPolicy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if client == nil {
			if policy == FailClosed {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "Rate limit store unavailable",
				})
			}
			return c.Next()
		}

		ctx := c.UserContext()
		key := fmt.Sprintf("ratelimit:%s:%s", scope, c.IP())

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			Logger.WarnContext(ctx, "rate limit store error",
				"scope", scope, "error", err.Error())
			if policy == FailClosed {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "Rate limit store unavailable",
				})
			}
			return c.Next()
		}

		// First hit in the window owns the expiry.
		if count == 1 {
			client.Expire(ctx, key, window)
		}

		if count > int64(max) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		}

		return c.Next()
	}
}
