// Package testutil provides sqlite-backed fixtures for package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/Aidin1998/usertodos/internal/config"
	"github.com/Aidin1998/usertodos/internal/database"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// MemoryDSN is a private in-memory sqlite database with foreign keys enforced.
const MemoryDSN = "file::memory:?_foreign_keys=on"

// NewTestDB opens a bootstrapped in-memory database that lives for the test.
// The pool is pinned to one connection because each sqlite memory connection
// is its own database.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		DSN:          MemoryDSN,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, database.Bootstrap(context.Background(), db, zaptest.NewLogger(t)))
	return db
}

// NewTestGateway returns a gateway over NewTestDB.
func NewTestGateway(t testing.TB) *database.GormGateway {
	t.Helper()
	return database.NewGateway(NewTestDB(t), database.WithLogger(zaptest.NewLogger(t)))
}
