package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/medmod/internal/dbx"
	"github.com/dmitrijs2005/medmod/internal/server/migrations"
	"github.com/dmitrijs2005/medmod/internal/server/repositories/meshes"
	"github.com/dmitrijs2005/medmod/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLRepositoryManager vends Postgres or SQLite adapters over one *sql.DB.
type SQLRepositoryManager struct {
	db      *sql.DB
	dialect goose.Dialect
}

// migrateUp is a seam for testing migrations.Up.
var migrateUp = migrations.Up

// OpenPostgres connects through the pgx database/sql driver.
func OpenPostgres(ctx context.Context, dsn string) (*SQLRepositoryManager, error) {
	db, err := dbx.Open(ctx, "pgx", dsn)
	if err != nil {
		return nil, err
	}
	return NewSQLRepositoryManager(db, goose.DialectPostgres), nil
}

// OpenSQLite connects through modernc.org/sqlite with foreign keys enforced.
// Writers are serialized on a single connection.
func OpenSQLite(ctx context.Context, dsn string) (*SQLRepositoryManager, error) {
	db, err := dbx.Open(ctx, "sqlite", withForeignKeys(dsn))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	var enabled int
	if err := db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled); err != nil {
		_ = db.Close()
		return nil, err
	}
	if enabled != 1 {
		_ = db.Close()
		return nil, errors.New("sqlite foreign keys are disabled by the dsn")
	}
	return NewSQLRepositoryManager(db, goose.DialectSQLite3), nil
}

// withForeignKeys adds the foreign_keys pragma to dsn unless it sets one.
// SQLite starts every connection with foreign keys off.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

func NewSQLRepositoryManager(db *sql.DB, dialect goose.Dialect) *SQLRepositoryManager {
	return &SQLRepositoryManager{db: db, dialect: dialect}
}

// RunMigrations applies the embedded migrations for the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context) error {
	if _, err := migrateUp(ctx, m.db, m.dialect); err != nil {
		return err
	}
	return nil
}

func (m *SQLRepositoryManager) EnsureSchema(ctx context.Context) error {
	return m.RunMigrations(ctx)
}

func (m *SQLRepositoryManager) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *SQLRepositoryManager) Users() users.Store {
	if m.dialect == goose.DialectSQLite3 {
		return users.NewSQLiteStore(m.db)
	}
	return users.NewPostgresStore(m.db)
}

func (m *SQLRepositoryManager) Meshes() meshes.Store {
	if m.dialect == goose.DialectSQLite3 {
		return meshes.NewSQLiteStore(m.db)
	}
	return meshes.NewPostgresStore(m.db)
}

func (m *SQLRepositoryManager) Close(context.Context) error {
	return m.db.Close()
}
