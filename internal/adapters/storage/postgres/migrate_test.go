package postgres

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationSource_Embedded(t *testing.T) {
	src, err := migrationSource()
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	up, _, err := src.ReadUp(first)
	require.NoError(t, err)
	defer up.Close()

	body, err := io.ReadAll(up)
	require.NoError(t, err)
	assert.Contains(t, string(body), "adoption_requests_one_pending")
}

// Requiere una base real: TEST_POSTGRES_DSN=postgres://... go test ./...
func TestMigrate_Integration(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	opts := Options{Driver: DriverPGX, DSN: dsn}
	require.NoError(t, Migrate(opts))
	require.NoError(t, Migrate(opts))

	db, err := Open(context.Background(), opts)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM information_schema.tables WHERE table_name = 'adoption_requests'`).Scan(&n))
	assert.Equal(t, 1, n)
}
