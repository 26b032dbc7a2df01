package controllers

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/eventlyhq/evently/app/repository"
)

func TestParseFormTime(t *testing.T) {
	rfc := parseFormTime("2026-09-12T18:00:00Z")
	assert.Equal(t, time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC), rfc)

	local := parseFormTime("2026-09-12T18:00")
	assert.Equal(t, 2026, local.Year())
	assert.Equal(t, 18, local.Hour())

	assert.True(t, parseFormTime("not a time").IsZero())
}

func TestEventFormToEvent(t *testing.T) {
	categoryID := primitive.NewObjectID()

	form := EventForm{
		Title:         "Go Conference",
		Description:   "Two days of talks",
		Location:      "Berlin",
		StartDateTime: "2026-09-12T09:00:00Z",
		EndDateTime:   "2026-09-13T18:00:00Z",
		CategoryID:    categoryID.Hex(),
		Price:         "20",
	}

	event, err := form.toEvent()
	require.NoError(t, err)
	assert.Equal(t, "Go Conference", event.Title)
	assert.Equal(t, categoryID, event.Category)
	assert.Equal(t, "20", event.Price)
	assert.False(t, event.IsFree)
}

func TestEventFormToEventInvalidCategory(t *testing.T) {
	form := EventForm{Title: "Go Conference", CategoryID: "not-an-object-id"}

	_, err := form.toEvent()
	assert.EqualError(t, err, "invalid category")
}

func TestEventFormToEventMalformedPrice(t *testing.T) {
	form := EventForm{
		Title:      "Go Conference",
		CategoryID: primitive.NewObjectID().Hex(),
		Price:      "$20",
	}

	_, err := form.toEvent()
	assert.Error(t, err)
}

func TestConfirmedAbsent(t *testing.T) {
	assert.True(t, confirmedAbsent(repository.ErrNotFound))
	assert.True(t, confirmedAbsent(fmt.Errorf("lookup: %w", repository.ErrNotFound)))

	// a transient store error must keep the ownership check in place
	assert.False(t, confirmedAbsent(errors.New("connection reset")))
	assert.False(t, confirmedAbsent(nil))
}

func TestEventFormToEventValidation(t *testing.T) {
	form := EventForm{
		Title:      "ab", // below the minimum length
		CategoryID: primitive.NewObjectID().Hex(),
	}

	_, err := form.toEvent()
	assert.Error(t, err)
}
