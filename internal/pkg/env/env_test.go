package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	Env = map[string]string{"APP_PORT": "4000"}
	defer func() { Env = nil }()

	assert.Equal(t, "4000", GetEnv("APP_PORT", "3000"))
	assert.Equal(t, "fallback", GetEnv("DOES_NOT_EXIST", "fallback"))

	t.Setenv("ONLY_IN_OS", "from-os")
	assert.Equal(t, "from-os", GetEnv("ONLY_IN_OS", "def"))
}

func TestIsDev(t *testing.T) {
	Env = map[string]string{"APP_ENV": "dev"}
	defer func() { Env = nil }()
	assert.True(t, IsDev())

	Env["APP_ENV"] = "prod"
	assert.False(t, IsDev())
}
