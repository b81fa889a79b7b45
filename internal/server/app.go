// Package server initializes and runs the medmod server process.
// It opens the configured store, builds the identity verifier, blob store
// and services, serves the HTTP API and the gRPC ops endpoint, and shuts
// everything down on SIGINT/SIGTERM.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/medmod/internal/logging"
	"github.com/dmitrijs2005/medmod/internal/server/blobstore"
	"github.com/dmitrijs2005/medmod/internal/server/config"
	"github.com/dmitrijs2005/medmod/internal/server/httpserver"
	"github.com/dmitrijs2005/medmod/internal/server/identity"
	"github.com/dmitrijs2005/medmod/internal/server/repositories/meshes"
	"github.com/dmitrijs2005/medmod/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/medmod/internal/server/repositories/users"
	"github.com/dmitrijs2005/medmod/internal/server/services"
	"github.com/dmitrijs2005/medmod/internal/telemetry"

	gs "github.com/dmitrijs2005/medmod/internal/server/grpc"
)

const serviceName = "medmod"

type App struct {
	config            *config.Config
	logger            logging.Logger
	store             repomanager.RepositoryManager
	httpServer        *httpserver.HTTPServer
	grpcServer        *gs.GRPCServer
	shutdownTelemetry func(context.Context) error
}

// NewApp builds every component from c. Resources opened before a failure
// are released again.
func NewApp(ctx context.Context, c *config.Config) (app *App, err error) {
	logger := logging.NewJSON(os.Stdout, slog.LevelInfo)
	return newApp(ctx, c, logger)
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (app *App, err error) {
	shutdownTelemetry, err := telemetry.Setup(ctx, c.OTLPEndpoint, serviceName)
	if err != nil {
		return nil, fmt.Errorf("telemetry init error: %w", err)
	}
	defer func() {
		if err != nil {
			_ = shutdownTelemetry(context.WithoutCancel(ctx))
		}
	}()

	store, err := repomanager.Open(ctx, repomanager.Options{
		Driver:        c.StoreDriver,
		DSN:           c.DatabaseDSN,
		MongoDatabase: c.MongoDatabase,
	})
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	defer func() {
		if err != nil {
			_ = store.Close(context.WithoutCancel(ctx))
		}
	}()

	if err := store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("schema init error: %w", err)
	}

	blobs, blobDir, err := newBlobStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	verifier, err := identity.New(ctx, identity.Options{
		Mode:           c.IdentityMode,
		GoogleClientID: c.GoogleClientID,
		SignedSecret:   []byte(c.SignedSecret),
		SignedIssuer:   c.SignedIssuer,
	})
	if err != nil {
		return nil, fmt.Errorf("identity init error: %w", err)
	}

	userRepo := users.NewRepository(store.Users(), logger)
	meshRepo := meshes.NewRepository(store.Meshes(), logger)

	router := httpserver.NewRouter(httpserver.Deps{
		Users:          services.NewUserService(verifier, userRepo, c.PrivilegedSet()),
		Meshes:         services.NewMeshService(userRepo, meshRepo, blobs, logger),
		Store:          store,
		Logger:         logger,
		MaxUploadBytes: c.MaxUploadBytes,
		BlobDir:        blobDir,
	})

	return &App{
		config:            c,
		logger:            logger,
		store:             store,
		httpServer:        httpserver.NewHTTPServer(c.HTTPAddr, logger, router, c.ShutdownTimeout),
		grpcServer:        gs.NewGRPCServer(c.GRPCAddr, logger, store, 0),
		shutdownTelemetry: shutdownTelemetry,
	}, nil
}

// newBlobStore returns the configured blob store and, for the local disk
// driver, the directory the HTTP server should serve it from.
func newBlobStore(ctx context.Context, c *config.Config) (blobstore.Store, string, error) {
	switch c.BlobDriver {
	case config.BlobS3:
		s, err := blobstore.NewS3Store(ctx, blobstore.S3Options{
			Region:        c.S3Region,
			AccessKey:     c.S3RootUser,
			SecretKey:     c.S3RootPassword,
			Bucket:        c.S3Bucket,
			BaseEndpoint:  c.S3BaseEndpoint,
			PresignExpiry: c.PresignExpiry,
		})
		if err != nil {
			return nil, "", err
		}
		return s, "", nil
	case config.BlobFS:
		s, err := blobstore.NewFSStore(c.BlobDir)
		if err != nil {
			return nil, "", err
		}
		return s, s.Root(), nil
	default:
		return nil, "", fmt.Errorf("unknown blob driver %q", c.BlobDriver)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// serve runs fn and cancels the whole app when it fails.
func (app *App) serve(ctx context.Context, cancelFunc context.CancelFunc, name string, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		app.logger.Error(ctx, "server failed", "server", name, "error", err)
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a signal arrives or a server fails,
// then releases the store and flushes telemetry.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.serve(ctx, cancelFunc, "http", app.httpServer.Run)
	}()
	go func() {
		defer wg.Done()
		app.serve(ctx, cancelFunc, "grpc", app.grpcServer.Run)
	}()

	wg.Wait()

	closeCtx := context.WithoutCancel(ctx)
	if err := app.store.Close(closeCtx); err != nil {
		app.logger.Error(closeCtx, "closing store", "error", err)
	}
	if err := app.shutdownTelemetry(closeCtx); err != nil {
		app.logger.Error(closeCtx, "flushing telemetry", "error", err)
	}
	app.logger.Info(closeCtx, "App stopped")
}
