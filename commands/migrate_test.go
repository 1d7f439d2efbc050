package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationURL(t *testing.T) {
	got, err := migrationURL("mongodb://localhost:27017", "shop")
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017/shop", got)

	got, err = migrationURL("mongodb+srv://u:p@cluster.example.net/?retryWrites=true", "shop")
	require.NoError(t, err)
	assert.Equal(t, "mongodb+srv://u:p@cluster.example.net/shop?retryWrites=true", got)

	got, err = migrationURL("mongodb://localhost:27017/existing", "shop")
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017/existing", got)

	_, err = migrationURL("postgres://localhost/shop", "shop")
	assert.Error(t, err)
}

func TestCreateMigration(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "migrations")
	now := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

	up, down, err := createMigration(dir, "order indexes", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20260301123000_order_indexes.up.json"), up)
	assert.Equal(t, filepath.Join(dir, "20260301123000_order_indexes.down.json"), down)

	raw, err := os.ReadFile(up)
	require.NoError(t, err)
	assert.Equal(t, emptyMigration, string(raw))

	_, _, err = createMigration(dir, "  ", now)
	assert.Error(t, err)
}

func TestShippedMigrationsArePaired(t *testing.T) {
	ups, err := filepath.Glob(filepath.Join("..", defaultMigrationDir, "*.up.json"))
	require.NoError(t, err)
	require.NotEmpty(t, ups)

	for _, up := range ups {
		down := up[:len(up)-len(".up.json")] + ".down.json"
		_, err := os.Stat(down)
		assert.NoError(t, err, "missing down migration for %s", up)
	}
}
