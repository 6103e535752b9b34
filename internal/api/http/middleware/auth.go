package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Alijeyrad/telecare_backend/pkg/constants"
	pasetotoken "github.com/Alijeyrad/telecare_backend/pkg/paseto"
	"github.com/Alijeyrad/telecare_backend/pkg/reqctx"
)

const LocalsClaims = "claims"

// SessionChecker reports whether an auth session is still alive.
type SessionChecker interface {
	Alive(ctx context.Context, sessionID uuid.UUID) (bool, error)
}

type redisSessions struct {
	rdb redis.Cmdable
}

// RedisSessions checks "session:<id>" keys written at login.
func RedisSessions(rdb redis.Cmdable) SessionChecker {
	return &redisSessions{rdb: rdb}
}

func (s *redisSessions) Alive(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	n, err := s.rdb.Exists(ctx, constants.RedisAuthSessionPrefix+sessionID.String()).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// AuthRequired validates a Bearer PASETO access token and checks its session.
// Claims end up both in Locals and in the request context.
func AuthRequired(mgr *pasetotoken.Manager, sessions SessionChecker) fiber.Handler {
	return func(c fiber.Ctx) error {
		h := c.Get("Authorization")
		if h == "" {
			return fiber.ErrUnauthorized
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.ErrUnauthorized
		}

		claims, err := mgr.VerifyAccess(strings.TrimSpace(parts[1]))
		if err != nil {
			return fiber.ErrUnauthorized
		}

		if sid := claims.GetSessionID(); sid != nil {
			alive, err := sessions.Alive(c.Context(), *sid)
			if err != nil || !alive {
				return fiber.ErrUnauthorized
			}
		}

		c.Locals(LocalsClaims, claims)
		c.SetContext(reqctx.WithClaims(c.Context(), claims))
		return c.Next()
	}
}

// ClaimsFromFiber returns the claims stored by AuthRequired.
func ClaimsFromFiber(c fiber.Ctx) (reqctx.AuthClaims, bool) {
	if claims := reqctx.ClaimsFromContext(c.Context()); claims != nil {
		return claims, true
	}
	claims, ok := c.Locals(LocalsClaims).(reqctx.AuthClaims)
	return claims, ok && claims != nil
}
