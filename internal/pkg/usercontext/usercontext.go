package usercontext

import "github.com/gofiber/fiber/v2"

// UserContext represents the acting identity for a request. ClerkID is the
// identity provider's id; the database record is resolved where needed.
type UserContext struct {
	ClerkID    string `json:"clerk_id"`
	IsLoggedIn bool   `json:"is_logged_in"`
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx := c.Locals(KeyUserContext); ctx != nil {
		return ctx.(UserContext)
	}
	return UserContext{IsLoggedIn: false}
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// GetClerkID returns the current user's Clerk id, or empty string if anonymous
func GetClerkID(c *fiber.Ctx) string {
	return GetUserContext(c).ClerkID
}
