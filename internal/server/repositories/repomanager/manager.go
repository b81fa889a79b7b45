// Package repomanager opens the configured store and vends the storage
// adapters bound to it.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/medmod/internal/server/repositories/meshes"
	"github.com/dmitrijs2005/medmod/internal/server/repositories/users"
)

// Supported store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

type RepositoryManager interface {
	// EnsureSchema applies migrations or registers indexes, including the
	// unique email constraint.
	EnsureSchema(ctx context.Context) error
	Ping(ctx context.Context) error
	Users() users.Store
	Meshes() meshes.Store
	Close(ctx context.Context) error
}

// Options selects the store.
type Options struct {
	Driver        string
	DSN           string
	MongoDatabase string
}

// Open connects to the store named by opts.Driver.
func Open(ctx context.Context, opts Options) (RepositoryManager, error) {
	switch opts.Driver {
	case DriverPostgres:
		return OpenPostgres(ctx, opts.DSN)
	case DriverSQLite:
		return OpenSQLite(ctx, opts.DSN)
	case DriverMongo:
		return OpenMongo(ctx, opts.DSN, opts.MongoDatabase)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
