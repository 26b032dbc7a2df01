package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/eventlyhq/evently/internal/pkg/usercontext"
)

// RequireAuth guards routes that need a signed-in user. Web requests bounce
// back to the home page with a flash message; API requests get a 401.
func RequireAuth(c *fiber.Ctx) error {
	if usercontext.IsLoggedIn(c) {
		return c.Next()
	}

	if c.Accepts("text/html", "application/json") == "application/json" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "Sign in required",
		})
	}

	return flash.WithError(c, fiber.Map{
		"type":    "error",
		"message": "Please sign in first",
	}).Redirect("/", fiber.StatusSeeOther)
}
