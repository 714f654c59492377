// Package pgtest opens throwaway databases for adapter tests.
package pgtest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	platformpostgres "github.com/Apurer/pawhaven-api/internal/platform/postgres"
)

// SQLite opens a file-backed sqlite database in the test temp dir and applies migrate.
// A single connection keeps transactional tests deterministic.
func SQLite(t *testing.T, migrate ...func(*gorm.DB) error) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), platformpostgres.Config(nil))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	for _, m := range migrate {
		require.NoError(t, m(db))
	}
	return db
}
