package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const sessionLocal = "session"

// SessionMiddleware attaches a per-request SessionStore to the context.
// Missing or invalid bearer tokens yield an Anonymous store: reads stay open
// and writes are refused later by RequireAuthenticated. A valid token whose
// session cannot be loaded keeps the restore error, so writes report
// Unavailable rather than asking for a login.
func SessionMiddleware(svc *Service, sessions PersisterFactory, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerFromHeader(c.Get("Authorization"))
		if token == "" {
			c.Locals(sessionLocal, NewSessionStore(svc, nil))
			return c.Next()
		}

		claims, err := svc.ParseToken(token)
		if err != nil {
			logger.Debug("ignoring bearer token", zap.Error(err))
			c.Locals(sessionLocal, NewSessionStore(svc, nil))
			return c.Next()
		}

		store := NewSessionStore(svc, sessions(claims.SessionID))
		if err := store.Init(c.UserContext()); err != nil {
			logger.Warn("session restore failed", zap.String("session_id", claims.SessionID), zap.Error(err))
		}
		if id, ok := store.Current(); ok && id.UserID != claims.UserID {
			logger.Warn("session user mismatch", zap.String("session_id", claims.SessionID))
			store = NewSessionStore(svc, nil)
		}
		c.Locals(sessionLocal, store)
		return c.Next()
	}
}

// SessionFrom returns the request's SessionStore, Anonymous when the
// middleware did not run.
func SessionFrom(c *fiber.Ctx) *SessionStore {
	if store, ok := c.Locals(sessionLocal).(*SessionStore); ok {
		return store
	}
	return NewSessionStore(nil, nil)
}

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
