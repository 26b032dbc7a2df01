package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageKey(t *testing.T) {
	assert.Equal(t, "page:/", PageKey("/"))
	assert.Equal(t, "page:/events/66a1b2c3", PageKey("/events/66a1b2c3"))
}
