package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/webhook"

	"github.com/eventlyhq/evently/internal/pkg/env"
)

const stripeTestSecret = "whsec_test_secret"

func newStripeWebhookApp() *fiber.App {
	app := fiber.New()
	app.Post("/api/webhook/stripe", HandleStripeWebhook)
	return app
}

func stripeSignatureHeader(payload []byte, at time.Time) string {
	sig := webhook.ComputeSignature(at, payload, stripeTestSecret)
	return fmt.Sprintf("t=%d,v1=%x", at.Unix(), sig)
}

func stripeEventPayload(eventType string, sessionJSON string) []byte {
	return []byte(fmt.Sprintf(
		`{"id":"evt_test","api_version":%q,"type":%q,"data":{"object":%s}}`,
		stripe.APIVersion, eventType, sessionJSON,
	))
}

func TestStripeWebhookRejectsBadSignature(t *testing.T) {
	env.Env = map[string]string{"STRIPE_WEBHOOK_SECRET": stripeTestSecret}
	defer func() { env.Env = nil }()

	app := newStripeWebhookApp()

	req := httptest.NewRequest("POST", "/api/webhook/stripe", strings.NewReader(`{"type":"checkout.session.completed"}`))
	req.Header.Set("stripe-signature", "t=1614265330,v1=deadbeef")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestStripeWebhookRejectsMissingSignature(t *testing.T) {
	env.Env = map[string]string{"STRIPE_WEBHOOK_SECRET": stripeTestSecret}
	defer func() { env.Env = nil }()

	app := newStripeWebhookApp()

	req := httptest.NewRequest("POST", "/api/webhook/stripe", strings.NewReader(`{}`))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestStripeWebhookIgnoresOtherEventTypes(t *testing.T) {
	env.Env = map[string]string{"STRIPE_WEBHOOK_SECRET": stripeTestSecret}
	defer func() { env.Env = nil }()

	app := newStripeWebhookApp()

	payload := stripeEventPayload("payment_intent.succeeded", `{"id":"pi_test"}`)
	req := httptest.NewRequest("POST", "/api/webhook/stripe", strings.NewReader(string(payload)))
	req.Header.Set("stripe-signature", stripeSignatureHeader(payload, time.Now()))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "Webhook received", string(body))
}

func TestStripeWebhookAcksMissingMetadata(t *testing.T) {
	env.Env = map[string]string{"STRIPE_WEBHOOK_SECRET": stripeTestSecret}
	defer func() { env.Env = nil }()

	app := newStripeWebhookApp()

	// a completed session without the eventId/buyerId metadata can never be
	// reconciled; the handler must ack it instead of inviting redelivery
	payload := stripeEventPayload("checkout.session.completed",
		`{"id":"cs_test","amount_total":2000,"metadata":{}}`)
	req := httptest.NewRequest("POST", "/api/webhook/stripe", strings.NewReader(string(payload)))
	req.Header.Set("stripe-signature", stripeSignatureHeader(payload, time.Now()))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Missing metadata", body["error"])
}
