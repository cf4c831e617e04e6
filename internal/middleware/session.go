package middleware

import (
	"strings"
	"time"

	"TumorDetector/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	SessionIDKey     = "session_id"
	SessionCookie    = "session_id"
	sessionIDMaxSize = 64
)

// newSessionMiddleware makes sure every request carries a session ID cookie.
// The cookie lifetime is refreshed on each request.
func newSessionMiddleware(log *logrus.Logger, utilsInstance utils.IUtils, ttl time.Duration, secure bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(SessionCookie)

		if !validSessionID(sessionID) {
			id, err := utilsInstance.NewSessionID()
			if err != nil {
				log.WithFields(logrus.Fields{
					"error": err.Error(),
					"path":  c.Path(),
				}).Error("Failed to generate session ID")
				return fiber.ErrInternalServerError
			}
			sessionID = id
		}

		c.Cookie(&fiber.Cookie{
			Name:     SessionCookie,
			Value:    sessionID,
			Path:     "/",
			Expires:  time.Now().Add(ttl),
			HTTPOnly: true,
			Secure:   secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		c.Locals(SessionIDKey, sessionID)

		return c.Next()
	}
}

func validSessionID(id string) bool {
	if !strings.HasPrefix(id, "s_") || len(id) > sessionIDMaxSize {
		return false
	}
	for _, r := range id[2:] {
		if !(r >= '0' && r <= '9' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return len(id) > 2
}
