package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/eventlyhq/evently/app/repository"
	"github.com/eventlyhq/evently/internal/pkg/billing"
	"github.com/eventlyhq/evently/internal/pkg/usercontext"
)

// HandleCheckout builds a Stripe checkout session for one ticket and sends
// the buyer to the hosted payment page. The order itself is only written when
// the checkout.session.completed webhook comes back.
func HandleCheckout(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	event, err := repository.GetGlobalRepositories().Event.GetRaw(ctx, id)
	if err != nil {
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Event not found"}).Redirect("/", fiber.StatusSeeOther)
	}

	url, err := billing.CreateCheckoutSession(billing.CheckoutParams{
		EventID:    event.ID.Hex(),
		EventTitle: event.Title,
		Price:      event.Price,
		IsFree:     event.IsFree,
		BuyerID:    usercontext.GetClerkID(c),
	})
	if err != nil {
		log.Errorf("checkout session creation failed for event %s: %v", id.Hex(), err)
		return flash.WithError(c, fiber.Map{"type": "error", "message": "Could not start checkout"}).Redirect("/events/"+id.Hex(), fiber.StatusSeeOther)
	}

	return c.Redirect(url, fiber.StatusSeeOther)
}
