package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventlyhq/evently/internal/pkg/env"
)

func TestSetupDatabaseFailureIsFatal(t *testing.T) {
	env.Env = map[string]string{"MONGODB_URI": "not-a-mongodb-uri"}
	defer func() { env.Env = nil }()

	err := SetupDatabase()
	require.Error(t, err)

	// a failed init must stay failed: no handle is ever handed out
	assert.Panics(t, func() { GetDB() })
	assert.Panics(t, func() { GetClient() })
}
