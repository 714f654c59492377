package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/pawhaven-api/internal/platform/postgres/pgtest"
)

func TestRun_CreatesEveryTable(t *testing.T) {
	db := pgtest.SQLite(t)
	require.NoError(t, Run(db))
	require.NoError(t, Run(db), "migrations must be re-runnable")

	for _, table := range []string{"pets", "users", "adoptions", "adoption_notifications", "orders", "products"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.NoError(t, Run(nil))
}
