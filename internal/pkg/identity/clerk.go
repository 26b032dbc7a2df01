package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkjwt "github.com/clerk/clerk-sdk-go/v2/jwt"
	clerkuser "github.com/clerk/clerk-sdk-go/v2/user"
	"github.com/gofiber/fiber/v2/log"

	"github.com/eventlyhq/evently/app/models"
	"github.com/eventlyhq/evently/internal/pkg/env"
)

const (
	defaultFirstName = "User"
	defaultLastName  = "Unknown"
	defaultEmail     = "noemail@clerk.dev"
	defaultPhoto     = "https://cdn-icons-png.flaticon.com/512/149/149071.png"
)

// Setup configures the Clerk SDK with the backend API key.
func Setup() {
	clerk.SetKey(env.GetEnv("CLERK_SECRET_KEY", ""))
}

// VerifyToken validates a Clerk session token and returns the Clerk user id.
func VerifyToken(ctx context.Context, token string) (string, error) {
	claims, err := clerkjwt.Verify(ctx, &clerkjwt.VerifyParams{Token: token})
	if err != nil {
		return "", fmt.Errorf("verify session token: %w", err)
	}
	return claims.RegisteredClaims.Subject, nil
}

// FetchUser pulls a profile from the Clerk backend API and maps it onto a
// local User record. Used when an action needs an organizer record that the
// user.created webhook has not mirrored yet. Missing profile fields get the
// same defaults the webhook path uses.
func FetchUser(ctx context.Context, clerkID string) (*models.User, error) {
	cu, err := clerkuser.Get(ctx, clerkID)
	if err != nil {
		return nil, fmt.Errorf("fetch clerk user %s: %w", clerkID, err)
	}

	firstName := stringOr(cu.FirstName, defaultFirstName)
	lastName := stringOr(cu.LastName, defaultLastName)
	username := stringOr(cu.Username, "")
	if username == "" {
		username = fmt.Sprintf("%s_%d", strings.ToLower(firstName), rand.Intn(1000))
	}

	email := defaultEmail
	if len(cu.EmailAddresses) > 0 {
		email = cu.EmailAddresses[0].EmailAddress
	}

	return &models.User{
		ClerkID:   cu.ID,
		Email:     email,
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
		Photo:     stringOr(cu.ImageURL, defaultPhoto),
	}, nil
}

// SetPublicUserID writes the local database id back into the Clerk user's
// public metadata so the frontend session carries it.
func SetPublicUserID(ctx context.Context, clerkID, userID string) error {
	raw, err := json.Marshal(map[string]string{"userId": userID})
	if err != nil {
		return err
	}
	meta := json.RawMessage(raw)

	if _, err := clerkuser.UpdateMetadata(ctx, clerkID, &clerkuser.UpdateMetadataParams{
		PublicMetadata: &meta,
	}); err != nil {
		log.Warnf("could not write userId metadata for clerk user %s: %v", clerkID, err)
		return err
	}
	return nil
}

func stringOr(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}
