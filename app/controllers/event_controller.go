package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/eventlyhq/evently/app/models"
	"github.com/eventlyhq/evently/app/repository"
	"github.com/eventlyhq/evently/internal/pkg/cache"
	"github.com/eventlyhq/evently/internal/pkg/usercontext"
)

// EventForm carries the user-supplied event fields from the create/update
// forms.
type EventForm struct {
	Title         string `form:"title"`
	Description   string `form:"description"`
	Location      string `form:"location"`
	ImageURL      string `form:"image_url"`
	StartDateTime string `form:"start_date_time"`
	EndDateTime   string `form:"end_date_time"`
	CategoryID    string `form:"category_id"`
	Price         string `form:"price"`
	IsFree        bool   `form:"is_free"`
	URL           string `form:"url"`
}

// formTimeLayouts are the datetime formats the event forms may submit.
var formTimeLayouts = []string{time.RFC3339, "2006-01-02T15:04"}

func parseFormTime(value string) time.Time {
	for _, layout := range formTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// toEvent maps the form onto an event model. Start/end ordering is left to
// the organizer.
func (f *EventForm) toEvent() (*models.Event, error) {
	categoryID, err := primitive.ObjectIDFromHex(f.CategoryID)
	if err != nil {
		return nil, errors.New("invalid category")
	}

	event := &models.Event{
		Title:         f.Title,
		Description:   f.Description,
		Location:      f.Location,
		ImageURL:      f.ImageURL,
		StartDateTime: parseFormTime(f.StartDateTime),
		EndDateTime:   parseFormTime(f.EndDateTime),
		Price:         f.Price,
		IsFree:        f.IsFree,
		URL:           f.URL,
		Category:      categoryID,
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	return event, nil
}

// HandleEventCreate renders the event creation form.
func HandleEventCreate(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	categories, err := repository.GetGlobalRepositories().Category.List(ctx)
	if err != nil {
		log.Errorf("category listing failed: %v", err)
	}

	return c.Render("event_form", fiber.Map{
		"Title":      "Create Event",
		"Action":     "/events/store",
		"Categories": categories,
		"IsLoggedIn": true,
	}, "layouts/main")
}

// HandleEventStore creates an event for the signed-in organizer. An organizer
// without a mirrored local record gets one created from the Clerk profile.
func HandleEventStore(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	var form EventForm
	if err := c.BodyParser(&form); err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Could not read the form"}).Redirect("/events/create", fiber.StatusSeeOther)
	}

	event, err := form.toEvent()
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": err.Error()}).Redirect("/events/create", fiber.StatusSeeOther)
	}

	organizer, err := resolveOrCreateUser(ctx, usercontext.GetClerkID(c))
	if err != nil {
		log.Errorf("organizer resolution failed: %v", err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Could not resolve your account"}).Redirect("/events/create", fiber.StatusSeeOther)
	}
	event.Organizer = organizer.ID

	if err := repository.GetGlobalRepositories().Event.Create(ctx, event); err != nil {
		log.Errorf("event create failed: %v", err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Could not create the event"}).Redirect("/events/create", fiber.StatusSeeOther)
	}

	cache.RevalidatePath("/")
	return c.Redirect("/events/"+event.ID.Hex(), fiber.StatusSeeOther)
}

// HandleEventEdit renders the update form for an event the user organizes.
func HandleEventEdit(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("not_found", fiber.Map{"Title": "Event not found"}, "layouts/main")
	}

	repos := repository.GetGlobalRepositories()
	event, err := repos.Event.GetByID(ctx, id)
	if err != nil {
		log.Errorf("event lookup failed: %v", err)
	}
	if event == nil {
		return c.Status(fiber.StatusNotFound).Render("not_found", fiber.Map{"Title": "Event not found"}, "layouts/main")
	}

	if err := requireOwnership(ctx, c, &event.Event); err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "You can only edit your own events"}).Redirect("/", fiber.StatusSeeOther)
	}

	categories, err := repos.Category.List(ctx)
	if err != nil {
		log.Errorf("category listing failed: %v", err)
	}

	return c.Render("event_form", fiber.Map{
		"Title":      "Update Event",
		"Action":     "/events/" + id.Hex() + "/update",
		"Event":      event,
		"Categories": categories,
		"IsLoggedIn": true,
	}, "layouts/main")
}

// HandleEventUpdate updates an event after verifying the acting user owns it.
func HandleEventUpdate(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	var form EventForm
	if err := c.BodyParser(&form); err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Could not read the form"}).Redirect("/events/"+id.Hex()+"/update", fiber.StatusSeeOther)
	}

	updated, err := form.toEvent()
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": err.Error()}).Redirect("/events/"+id.Hex()+"/update", fiber.StatusSeeOther)
	}

	repos := repository.GetGlobalRepositories()

	stored, err := repos.Event.GetRaw(ctx, id)
	if err != nil {
		// Missing event and foreign event fail the same way on purpose.
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Unauthorized or event not found"}).Redirect("/", fiber.StatusSeeOther)
	}
	if err := requireOwnership(ctx, c, stored); err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Unauthorized or event not found"}).Redirect("/", fiber.StatusSeeOther)
	}

	updated.ID = id
	if err := repos.Event.Update(ctx, updated); err != nil {
		log.Errorf("event update failed: %v", err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Could not update the event"}).Redirect("/events/"+id.Hex()+"/update", fiber.StatusSeeOther)
	}

	cache.RevalidatePath("/events/" + id.Hex())
	return c.Redirect("/events/"+id.Hex(), fiber.StatusSeeOther)
}

// HandleEventDelete removes an event. Deleting an already absent event is a
// quiet no-op.
func HandleEventDelete(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	repos := repository.GetGlobalRepositories()

	stored, err := repos.Event.GetRaw(ctx, id)
	switch {
	case err == nil:
		if err := requireOwnership(ctx, c, stored); err != nil {
			return flash.WithError(c, fiber.Map{"type": "error", "message": "You can only delete your own events"}).Redirect("/", fiber.StatusSeeOther)
		}
	case confirmedAbsent(err):
		// already gone; the delete below is a no-op
	default:
		log.Errorf("event lookup failed: %v", err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Could not delete the event"}).Redirect("/", fiber.StatusSeeOther)
	}

	deleted, err := repos.Event.Delete(ctx, id)
	if err != nil {
		log.Errorf("event delete failed: %v", err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Could not delete the event"}).Redirect("/", fiber.StatusSeeOther)
	}

	if deleted {
		cache.RevalidatePath("/")
		cache.RevalidatePath("/events/" + id.Hex())
	}
	return flash.WithSuccess(c, fiber.Map{"type": "success", "message": "Event deleted"}).Redirect("/", fiber.StatusSeeOther)
}

// HandleEventOrders renders the ticket sales for an event the user organizes,
// with an optional buyer-name search.
func HandleEventOrders(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("not_found", fiber.Map{"Title": "Event not found"}, "layouts/main")
	}

	repos := repository.GetGlobalRepositories()

	stored, err := repos.Event.GetRaw(ctx, id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("not_found", fiber.Map{"Title": "Event not found"}, "layouts/main")
	}
	if err := requireOwnership(ctx, c, stored); err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "You can only view orders for your own events"}).Redirect("/", fiber.StatusSeeOther)
	}

	search := c.Query("query")
	orders, err := repos.Order.ListByEvent(ctx, id, search)
	if err != nil {
		log.Errorf("order listing failed for event %s: %v", id.Hex(), err)
		orders = []repository.OrderRow{}
	}

	return c.Render("orders", fiber.Map{
		"Title":      "Orders - " + stored.Title,
		"Event":      stored,
		"Orders":     orders,
		"Query":      search,
		"IsLoggedIn": true,
	}, "layouts/main")
}

// confirmedAbsent distinguishes a definite missing event from a transient
// lookup failure. Only confirmed absence may fall through to the idempotent
// delete; a store error must not bypass the ownership check.
func confirmedAbsent(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

// requireOwnership resolves the acting user and checks it against the stored
// organizer reference.
func requireOwnership(ctx context.Context, c *fiber.Ctx, event *models.Event) error {
	user, err := resolveUser(ctx, usercontext.GetClerkID(c))
	if err != nil {
		return repository.ErrNotAuthorized
	}
	if user.ID != event.Organizer {
		return repository.ErrNotAuthorized
	}
	return nil
}
