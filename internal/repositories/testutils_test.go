package repositories_test

import (
	"context"
	"io"
	"testing"

	"github.com/myrjola/gaslight/internal/sqlite"
	"github.com/myrjola/gaslight/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

// newTestDB creates a new in-memory database for testing purposes.
func newTestDB(t *testing.T) *sqlite.Database {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	dbs, err := sqlite.NewDatabase(ctx, ":memory:", testhelpers.NewLogger(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() {
		cancel()
		require.NoError(t, dbs.Close())
	})
	return dbs
}
