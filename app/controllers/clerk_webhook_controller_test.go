package controllers

import (
	"encoding/base64"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	svix "github.com/svix/svix-webhooks/go"

	"github.com/eventlyhq/evently/internal/pkg/env"
)

func newClerkWebhookApp() *fiber.App {
	app := fiber.New()
	app.Post("/api/webhook/clerk", HandleClerkWebhook)
	return app
}

func TestClerkWebhookMissingHeaders(t *testing.T) {
	app := newClerkWebhookApp()

	// every permutation with at least one svix header missing must be
	// rejected before any verification happens
	headers := []string{"svix-id", "svix-timestamp", "svix-signature"}
	for mask := 0; mask < 7; mask++ {
		req := httptest.NewRequest("POST", "/api/webhook/clerk", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		for i, h := range headers {
			if mask&(1<<i) != 0 {
				req.Header.Set(h, "value")
			}
		}

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "mask %03b should be rejected", mask)
	}
}

func TestClerkWebhookBadSignature(t *testing.T) {
	env.Env = map[string]string{"CLERK_WEBHOOK_SECRET": testSvixSecret()}
	defer func() { env.Env = nil }()

	app := newClerkWebhookApp()

	req := httptest.NewRequest("POST", "/api/webhook/clerk", strings.NewReader(`{"type":"user.created"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("svix-id", "msg_123")
	req.Header.Set("svix-timestamp", "1614265330")
	req.Header.Set("svix-signature", "v1,bm90LXRoZS1yaWdodC1zaWduYXR1cmU=")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestClerkWebhookIgnoresUnhandledEventTypes(t *testing.T) {
	secret := testSvixSecret()
	env.Env = map[string]string{"CLERK_WEBHOOK_SECRET": secret}
	defer func() { env.Env = nil }()

	app := newClerkWebhookApp()

	payload := []byte(`{"type":"session.created","data":{"id":"sess_123"}}`)
	msgID := "msg_456"
	now := time.Now()

	wh, err := svix.NewWebhook(secret)
	require.NoError(t, err)
	signature, err := wh.Sign(msgID, now, payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/webhook/clerk", strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("svix-id", msgID)
	req.Header.Set("svix-timestamp", strconv.FormatInt(now.Unix(), 10))
	req.Header.Set("svix-signature", signature)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestBlankIfNil(t *testing.T) {
	name := "Jane"
	assert.Equal(t, "Jane", blankIfNil(&name))
	assert.Equal(t, "", blankIfNil(nil))
}

func TestFirstEmail(t *testing.T) {
	data := clerkUserData{}
	assert.Equal(t, "", firstEmail(data))

	data.EmailAddresses = []struct {
		EmailAddress string `json:"email_address"`
	}{{EmailAddress: "jane@example.com"}}
	assert.Equal(t, "jane@example.com", firstEmail(data))
}

func testSvixSecret() string {
	return "whsec_" + base64.StdEncoding.EncodeToString([]byte("a-test-signing-secret-32-bytes!!"))
}
