package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	fiberredis "github.com/gofiber/storage/redis/v3"
	"github.com/redis/go-redis/v9"

	"github.com/Alijeyrad/telecare_backend/config"
)

func NewLimiterWithRedis(rdb *redis.Client, cfg config.RateLimitConfig) fiber.Handler {
	storage := fiberredis.NewFromConnection(rdb)

	maxReqs := cfg.Max
	if maxReqs <= 0 {
		maxReqs = 20
	}
	exp := time.Duration(cfg.ExpirationSeconds) * time.Second
	if exp <= 0 {
		exp = 30 * time.Second
	}

	return limiter.New(limiter.Config{
		Storage: storage,

		// sliding window
		Max:               maxReqs,
		Expiration:        exp,
		LimiterMiddleware: limiter.SlidingWindow{},
	})
}
