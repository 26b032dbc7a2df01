package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEventListFilter(t *testing.T) {
	catID := primitive.NewObjectID()

	t.Run("empty", func(t *testing.T) {
		filter := eventListFilter("", nil)
		assert.Empty(t, filter)
	})

	t.Run("title only", func(t *testing.T) {
		filter := eventListFilter("conference", nil)
		re, ok := filter["title"].(primitive.Regex)
		assert.True(t, ok)
		assert.Equal(t, "conference", re.Pattern)
		assert.Equal(t, "i", re.Options)
		assert.NotContains(t, filter, "category")
	})

	t.Run("category only", func(t *testing.T) {
		filter := eventListFilter("", &catID)
		assert.Equal(t, catID, filter["category"])
		assert.NotContains(t, filter, "title")
	})

	t.Run("title and category", func(t *testing.T) {
		filter := eventListFilter("go meetup", &catID)
		assert.Len(t, filter, 2)
	})

	t.Run("regex metacharacters are escaped", func(t *testing.T) {
		filter := eventListFilter("50% off (early)", nil)
		re := filter["title"].(primitive.Regex)
		assert.Equal(t, `50% off \(early\)`, re.Pattern)
	})
}

func TestOrderSearchMatch(t *testing.T) {
	eventID := primitive.NewObjectID()

	t.Run("no search", func(t *testing.T) {
		match := orderSearchMatch(eventID, "")
		assert.Equal(t, eventID, match["event_id"])
		assert.NotContains(t, match, "buyer")
	})

	t.Run("search filters on projected buyer name", func(t *testing.T) {
		match := orderSearchMatch(eventID, "Jane")
		re, ok := match["buyer"].(primitive.Regex)
		assert.True(t, ok)
		assert.Equal(t, "Jane", re.Pattern)
		assert.Equal(t, "i", re.Options)
	})
}
