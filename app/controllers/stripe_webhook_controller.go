package controllers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/webhook"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/eventlyhq/evently/app/models"
	"github.com/eventlyhq/evently/app/repository"
	"github.com/eventlyhq/evently/internal/pkg/billing"
	"github.com/eventlyhq/evently/internal/pkg/env"
)

// HandleStripeWebhook turns completed checkout sessions into orders. Status
// codes drive Stripe's redelivery: 400 for a bad signature, 500 when
// persistence fails (retry wanted), 200 everywhere else - including
// permanently malformed events, which a retry can never fix.
func HandleStripeWebhook(c *fiber.Ctx) error {
	payload := append([]byte(nil), c.BodyRaw()...)
	signature := c.Get("stripe-signature")

	event, err := webhook.ConstructEvent(payload, signature, env.GetEnv("STRIPE_WEBHOOK_SECRET", ""))
	if err != nil {
		log.Warnf("stripe webhook verification failed: %v", err)
		return c.Status(fiber.StatusBadRequest).SendString("Webhook Error: " + err.Error())
	}

	if event.Type != "checkout.session.completed" {
		return c.Status(fiber.StatusOK).SendString("Webhook received")
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		log.Errorf("could not decode checkout session: %v", err)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"error": "Malformed session"})
	}

	eventID := session.Metadata["eventId"]
	buyerID := session.Metadata["buyerId"]
	if eventID == "" || buyerID == "" {
		// Deliberately acked: failing here would make Stripe redeliver an
		// event that will never become valid.
		log.Errorf("stripe session %s missing eventId or buyerId metadata", session.ID)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"error": "Missing metadata"})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	repos := repository.GetGlobalRepositories()

	buyer, err := repos.User.GetByClerkID(ctx, buyerID)
	if err != nil {
		// No lazy creation on the order path; 500 makes Stripe retry after
		// the user.created webhook has had a chance to land.
		log.Errorf("buyer %s not resolvable for session %s: %v", buyerID, session.ID, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Database Error")
	}

	eventOID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		log.Errorf("stripe session %s carries malformed eventId %q", session.ID, eventID)
		return c.Status(fiber.StatusInternalServerError).SendString("Database Error")
	}

	order := &models.Order{
		StripeID:    session.ID,
		TotalAmount: billing.MajorUnits(session.AmountTotal),
		CreatedAt:   time.Now().UTC(),
		Event:       eventOID,
		Buyer:       buyer.ID,
	}

	if err := repos.Order.Create(ctx, order); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Redelivery of an already recorded session; ack it.
			return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Webhook received", "duplicate": true})
		}
		log.Errorf("order create failed for session %s: %v", session.ID, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Database Error")
	}

	log.Infof("order %s created for session %s", order.ID.Hex(), session.ID)
	return c.Status(fiber.StatusOK).SendString("Webhook received")
}
