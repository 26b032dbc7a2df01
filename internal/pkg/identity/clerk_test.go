package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringOr(t *testing.T) {
	val := "jane"
	empty := ""

	assert.Equal(t, "jane", stringOr(&val, "def"))
	assert.Equal(t, "def", stringOr(&empty, "def"))
	assert.Equal(t, "def", stringOr(nil, "def"))
}
