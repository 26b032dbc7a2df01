package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/eventlyhq/evently/app/repository"
	"github.com/eventlyhq/evently/internal/pkg/usercontext"
)

// HandleHome renders the public event listing with search, category filter
// and pagination.
func HandleHome(c *fiber.Ctx) error {
	if html, ok := pageFromCache(c); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(html)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	repos := repository.GetGlobalRepositories()

	params := repository.ListEventsParams{
		Query:    c.Query("query"),
		Category: c.Query("category"),
		Page:     pageParam(c),
		Limit:    eventPageSize,
	}

	events, err := repos.Event.List(ctx, params)
	if err != nil {
		log.Errorf("event listing failed: %v", err)
		events = &repository.PagedEvents{Data: []repository.EventItem{}}
	}

	categories, err := repos.Category.List(ctx)
	if err != nil {
		log.Errorf("category listing failed: %v", err)
	}

	if err := c.Render("home", fiber.Map{
		"Title":      "Evently - Host, Connect, Celebrate",
		"Events":     events.Data,
		"TotalPages": events.TotalPages,
		"Page":       params.Page,
		"Query":      params.Query,
		"Category":   params.Category,
		"Categories": categories,
		"IsLoggedIn": usercontext.IsLoggedIn(c),
	}, "layouts/main"); err != nil {
		return err
	}
	storeRenderedPage(c)
	return nil
}

// HandleEventDetail renders one event with related events from the same
// category.
func HandleEventDetail(c *fiber.Ctx) error {
	if html, ok := pageFromCache(c); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(html)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("not_found", fiber.Map{
			"Title": "Event not found",
		}, "layouts/main")
	}

	repos := repository.GetGlobalRepositories()

	event, err := repos.Event.GetByID(ctx, id)
	if err != nil {
		log.Errorf("event lookup failed for %s: %v", id.Hex(), err)
	}
	if event == nil {
		return c.Status(fiber.StatusNotFound).Render("not_found", fiber.Map{
			"Title": "Event not found",
		}, "layouts/main")
	}

	related, err := repos.Event.ListRelatedByCategory(ctx, event.Category.ID, event.Event.ID, pageParam(c), relatedPageSize)
	if err != nil {
		log.Errorf("related events lookup failed: %v", err)
		related = &repository.PagedEvents{Data: []repository.EventItem{}}
	}

	userCtx := usercontext.GetUserContext(c)
	isOwner := false
	if userCtx.IsLoggedIn {
		if user, err := resolveUser(ctx, userCtx.ClerkID); err == nil {
			isOwner = user.ID == event.Event.Organizer
		}
	}

	if err := c.Render("event_detail", fiber.Map{
		"Title":      event.Event.Title,
		"Event":      event,
		"Related":    related.Data,
		"TotalPages": related.TotalPages,
		"IsOwner":    isOwner,
		"IsLoggedIn": userCtx.IsLoggedIn,
	}, "layouts/main"); err != nil {
		return err
	}
	storeRenderedPage(c)
	return nil
}
