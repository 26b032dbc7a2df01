package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	svix "github.com/svix/svix-webhooks/go"

	"github.com/eventlyhq/evently/app/models"
	"github.com/eventlyhq/evently/app/repository"
	"github.com/eventlyhq/evently/internal/pkg/env"
	"github.com/eventlyhq/evently/internal/pkg/identity"
)

// clerkWebhookEvent is the signed envelope Clerk delivers through Svix.
type clerkWebhookEvent struct {
	Type string        `json:"type"`
	Data clerkUserData `json:"data"`
}

type clerkUserData struct {
	ID             string  `json:"id"`
	Username       *string `json:"username"`
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	ImageURL       *string `json:"image_url"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

// HandleClerkWebhook mirrors Clerk user lifecycle events into the users
// collection. Requests missing any svix header or failing verification are
// rejected with 400 so Clerk redelivers; recognized events that need no
// action still ack with 200 so it does not.
func HandleClerkWebhook(c *fiber.Ctx) error {
	svixID := c.Get("svix-id")
	svixTimestamp := c.Get("svix-timestamp")
	svixSignature := c.Get("svix-signature")
	if svixID == "" || svixTimestamp == "" || svixSignature == "" {
		return c.Status(fiber.StatusBadRequest).SendString("Error occurred -- no svix headers")
	}

	wh, err := svix.NewWebhook(env.GetEnv("CLERK_WEBHOOK_SECRET", ""))
	if err != nil {
		log.Errorf("clerk webhook secret misconfigured: %v", err)
		return c.Status(fiber.StatusBadRequest).SendString("Error occurred")
	}

	payload := append([]byte(nil), c.BodyRaw()...)
	headers := http.Header{}
	headers.Set("svix-id", svixID)
	headers.Set("svix-timestamp", svixTimestamp)
	headers.Set("svix-signature", svixSignature)

	if err := wh.Verify(payload, headers); err != nil {
		log.Warnf("clerk webhook verification failed: %v", err)
		return c.Status(fiber.StatusBadRequest).SendString("Error occurred")
	}

	var evt clerkWebhookEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Error occurred")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	repos := repository.GetGlobalRepositories()

	switch evt.Type {
	case "user.created":
		user := &models.User{
			ClerkID:   evt.Data.ID,
			Email:     firstEmail(evt.Data),
			Username:  blankIfNil(evt.Data.Username),
			FirstName: blankIfNil(evt.Data.FirstName),
			LastName:  blankIfNil(evt.Data.LastName),
			Photo:     blankIfNil(evt.Data.ImageURL),
		}

		if err := repos.User.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				// Redelivered event; the mirror already exists.
				return c.JSON(fiber.Map{"message": "OK"})
			}
			log.Errorf("user mirror create failed: %v", err)
			return c.SendStatus(fiber.StatusInternalServerError)
		}

		// Push the local id into Clerk's public metadata so the frontend
		// session carries it. Best effort: the mirror is already written.
		if err := identity.SetPublicUserID(ctx, evt.Data.ID, user.ID.Hex()); err != nil {
			log.Warnf("metadata writeback failed for clerk user %s: %v", evt.Data.ID, err)
		}

		return c.JSON(fiber.Map{"message": "OK", "user": user})

	case "user.updated":
		user, err := repos.User.UpdateByClerkID(ctx, evt.Data.ID, repository.UserProfileUpdate{
			Username:  blankIfNil(evt.Data.Username),
			FirstName: blankIfNil(evt.Data.FirstName),
			LastName:  blankIfNil(evt.Data.LastName),
			Photo:     blankIfNil(evt.Data.ImageURL),
		})
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// No mirror to update; retrying will not help.
				return c.JSON(fiber.Map{"message": "OK", "ignored": true})
			}
			log.Errorf("user mirror update failed: %v", err)
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"message": "OK", "user": user})

	case "user.deleted":
		if err := repos.User.DeleteByClerkID(ctx, evt.Data.ID); err != nil {
			log.Errorf("user mirror delete failed: %v", err)
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"message": "OK"})
	}

	// Valid but unhandled event types must still ack with 200.
	return c.SendStatus(fiber.StatusOK)
}

func firstEmail(data clerkUserData) string {
	if len(data.EmailAddresses) > 0 {
		return data.EmailAddresses[0].EmailAddress
	}
	return ""
}

func blankIfNil(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
