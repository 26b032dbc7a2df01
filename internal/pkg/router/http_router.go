package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eventlyhq/evently/app/controllers"
	"github.com/eventlyhq/evently/internal/pkg/identity"
	"github.com/eventlyhq/evently/internal/pkg/middleware"
	"github.com/eventlyhq/evently/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// init Clerk SDK
	identity.Setup()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// public pages
	app.Get("/", controllers.HandleHome)

	// organizer pages; the static /events/create route must be registered
	// before the /events/:id wildcard
	app.Get("/events/create", middleware.RequireAuth, controllers.HandleEventCreate)
	app.Post("/events/store", middleware.RequireAuth, controllers.HandleEventStore)
	app.Get("/events/:id", controllers.HandleEventDetail)
	app.Get("/events/:id/update", middleware.RequireAuth, controllers.HandleEventEdit)
	app.Post("/events/:id/update", middleware.RequireAuth, controllers.HandleEventUpdate)
	app.Post("/events/:id/delete", middleware.RequireAuth, controllers.HandleEventDelete)
	app.Get("/events/:id/orders", middleware.RequireAuth, controllers.HandleEventOrders)

	// buyer pages
	app.Get("/profile", middleware.RequireAuth, controllers.HandleProfile)
	app.Post("/checkout/:id", middleware.RequireAuth, controllers.HandleCheckout)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
