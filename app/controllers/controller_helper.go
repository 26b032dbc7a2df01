package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/eventlyhq/evently/app/models"
	"github.com/eventlyhq/evently/app/repository"
	"github.com/eventlyhq/evently/internal/pkg/cache"
	"github.com/eventlyhq/evently/internal/pkg/identity"
	"github.com/eventlyhq/evently/internal/pkg/usercontext"
)

const (
	eventPageSize   = 6
	relatedPageSize = 3
	orderPageSize   = 3

	requestTimeout = 15 * time.Second
	pageCacheTTL   = time.Hour
)

// requestContext bounds all store and provider calls made by one handler.
func requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), requestTimeout)
}

// pageParam reads a 1-based page number from the query string.
func pageParam(c *fiber.Ctx) int64 {
	page := int64(c.QueryInt("page", 1))
	if page < 1 {
		page = 1
	}
	return page
}

// pageCacheable reports whether a request may be served from the page cache.
// Only anonymous requests without query parameters qualify, so per-user
// markup and filtered listings never leak between visitors.
func pageCacheable(c *fiber.Ctx) bool {
	return len(c.Request().URI().QueryString()) == 0 && !usercontext.IsLoggedIn(c)
}

// pageFromCache returns the cached rendering of the requested page, if any.
func pageFromCache(c *fiber.Ctx) (string, bool) {
	if !pageCacheable(c) {
		return "", false
	}
	html, err := cache.Get(cache.PageKey(c.Path()))
	if err != nil || html == "" {
		return "", false
	}
	return html, true
}

// storeRenderedPage writes the response body of a successful render into the
// page cache so the next anonymous request skips the database. Mutations
// drop the entry again through cache.RevalidatePath.
func storeRenderedPage(c *fiber.Ctx) {
	if !pageCacheable(c) || c.Response().StatusCode() != fiber.StatusOK {
		return
	}
	body := append([]byte(nil), c.Response().Body()...)
	if err := cache.Set(cache.PageKey(c.Path()), body, pageCacheTTL); err != nil {
		log.Warnf("could not cache page %s: %v", c.Path(), err)
	}
}

// resolveUser maps a Clerk id to its local record, without creating one.
func resolveUser(ctx context.Context, clerkID string) (*models.User, error) {
	return repository.GetGlobalRepositories().User.GetByClerkID(ctx, clerkID)
}

// resolveOrCreateUser maps a Clerk id to its local record, lazily mirroring
// the profile from the Clerk backend API when the user.created webhook has
// not landed yet.
func resolveOrCreateUser(ctx context.Context, clerkID string) (*models.User, error) {
	repos := repository.GetGlobalRepositories()

	user, err := repos.User.GetByClerkID(ctx, clerkID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	log.Infof("no local record for clerk user %s, fetching from Clerk", clerkID)
	fetched, err := identity.FetchUser(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	if err := repos.User.Create(ctx, fetched); err != nil {
		// The webhook may have raced us; fall back to the record it wrote.
		if errors.Is(err, repository.ErrDuplicate) {
			return repos.User.GetByClerkID(ctx, clerkID)
		}
		return nil, err
	}
	return fetched, nil
}
