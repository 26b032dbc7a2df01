package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/eventlyhq/evently/app/repository"
	"github.com/eventlyhq/evently/internal/pkg/usercontext"
)

// HandleProfile renders the signed-in user's tickets and organized events.
func HandleProfile(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	repos := repository.GetGlobalRepositories()

	ordersPage := int64(c.QueryInt("ordersPage", 1))
	eventsPage := int64(c.QueryInt("eventsPage", 1))
	if ordersPage < 1 {
		ordersPage = 1
	}
	if eventsPage < 1 {
		eventsPage = 1
	}

	orders := &repository.PagedOrders{Data: []repository.OrderItem{}}
	events := &repository.PagedEvents{Data: []repository.EventItem{}}

	user, err := resolveUser(ctx, usercontext.GetClerkID(c))
	switch {
	case err == nil:
		if o, err := repos.Order.ListByBuyer(ctx, user.ID, ordersPage, orderPageSize); err == nil {
			orders = o
		} else {
			log.Errorf("order listing failed for user %s: %v", user.ID.Hex(), err)
		}
		if e, err := repos.Event.ListByOrganizer(ctx, user.ID, eventsPage, eventPageSize); err == nil {
			events = e
		} else {
			log.Errorf("event listing failed for user %s: %v", user.ID.Hex(), err)
		}
	case errors.Is(err, repository.ErrNotFound):
		// Webhook hasn't mirrored this user yet; show an empty profile.
	default:
		log.Errorf("user resolution failed: %v", err)
	}

	return c.Render("profile", fiber.Map{
		"Title":            "My Profile",
		"Orders":           orders.Data,
		"OrdersTotalPages": orders.TotalPages,
		"OrdersPage":       ordersPage,
		"Events":           events.Data,
		"EventsTotalPages": events.TotalPages,
		"EventsPage":       eventsPage,
		"IsLoggedIn":       true,
	}, "layouts/main")
}
