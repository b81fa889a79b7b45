// Package storetest opens migrated throwaway stores for tests.
package storetest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/medmod/internal/dbx"
	"github.com/dmitrijs2005/medmod/internal/server/migrations"
	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// SQLiteDSN returns a DSN for a private in-memory database with foreign keys on.
func SQLiteDSN() string {
	return "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"
}

// OpenSQLite opens a fresh in-memory database with the schema applied.
// A single connection serializes writers, so constraint failures surface
// as such instead of as lock errors.
func OpenSQLite(t testing.TB) *sql.DB {
	t.Helper()

	ctx := context.Background()
	db, err := dbx.Open(ctx, "sqlite", SQLiteDSN())
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = migrations.Up(ctx, db, goose.DialectSQLite3)
	require.NoError(t, err)
	return db
}
