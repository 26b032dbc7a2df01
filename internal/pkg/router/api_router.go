package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/eventlyhq/evently/app/controllers"
	"github.com/eventlyhq/evently/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	// Provider webhooks are registered outside the limiter so redeliveries
	// are never throttled; both handlers verify signatures themselves.
	webhooks := app.Group("/api/webhook")
	webhooks.Post("/clerk", controllers.HandleClerkWebhook)
	webhooks.Post("/stripe", controllers.HandleStripeWebhook)

	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1")
	v1.Post("/upload", middleware.RequireAuth, controllers.HandleImageUpload)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
