package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/eventlyhq/evently/internal/pkg/identity"
	"github.com/eventlyhq/evently/internal/pkg/session"
	"github.com/eventlyhq/evently/internal/pkg/usercontext"
)

// UserContextMiddleware resolves the acting Clerk identity for every request.
// The session token comes from the Clerk __session cookie or a bearer header.
// A verified token's subject is cached in the server session so repeat
// requests with the same token skip JWKS verification.
func UserContextMiddleware(c *fiber.Ctx) error {
	token := extractSessionToken(c)
	if token == "" {
		return c.Next()
	}

	if cachedTok := session.GetSessionValue(c, usercontext.KeySessionTok); cachedTok == token {
		if clerkID := session.GetSessionValue(c, usercontext.KeyClerkID); clerkID != "" {
			setUserContext(c, clerkID)
			return c.Next()
		}
	}

	clerkID, err := identity.VerifyToken(c.UserContext(), token)
	if err != nil {
		log.Debugf("session token rejected: %v", err)
		return c.Next()
	}

	_ = session.SetSessionValue(c, usercontext.KeySessionTok, token)
	_ = session.SetSessionValue(c, usercontext.KeyClerkID, clerkID)
	setUserContext(c, clerkID)
	return c.Next()
}

func setUserContext(c *fiber.Ctx, clerkID string) {
	c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
		ClerkID:    clerkID,
		IsLoggedIn: true,
	})
}

func extractSessionToken(c *fiber.Ctx) string {
	if tok := strings.TrimSpace(c.Cookies("__session")); tok != "" {
		return tok
	}
	auth := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
