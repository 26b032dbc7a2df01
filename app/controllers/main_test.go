package controllers

import (
	"os"
	"testing"

	"github.com/eventlyhq/evently/app/repository"
)

func TestMain(m *testing.M) {
	// Handlers fetch the global repository factory before dispatching on the
	// request, so the factory must exist even for paths that never run a
	// query. Repositories only dereference the db when a method is called,
	// so a nil database is safe for tests that stay off the query paths.
	repository.InitializeFactory(nil)
	os.Exit(m.Run())
}
