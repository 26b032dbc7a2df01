package controllers

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventlyhq/evently/internal/pkg/usercontext"
)

func newPageCacheApp() *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if c.Get("X-Signed-In") == "1" {
			c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
				ClerkID:    "user_1",
				IsLoggedIn: true,
			})
		}
		return c.Next()
	})
	app.Get("/*", func(c *fiber.Ctx) error {
		if pageCacheable(c) {
			return c.SendString("cacheable")
		}
		return c.SendString("fresh")
	})
	return app
}

func TestPageCacheable(t *testing.T) {
	app := newPageCacheApp()

	fetch := func(t *testing.T, target, signedIn string) string {
		t.Helper()
		req := httptest.NewRequest("GET", target, nil)
		if signedIn != "" {
			req.Header.Set("X-Signed-In", signedIn)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		return string(body)
	}

	t.Run("anonymous bare path", func(t *testing.T) {
		assert.Equal(t, "cacheable", fetch(t, "/", ""))
		assert.Equal(t, "cacheable", fetch(t, "/events/abc123", ""))
	})

	t.Run("query parameters bypass the cache", func(t *testing.T) {
		assert.Equal(t, "fresh", fetch(t, "/?query=go", ""))
		assert.Equal(t, "fresh", fetch(t, "/?page=2", ""))
	})

	t.Run("signed-in requests bypass the cache", func(t *testing.T) {
		assert.Equal(t, "fresh", fetch(t, "/", "1"))
	})
}
