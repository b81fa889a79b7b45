package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/medmod/internal/logging"
	"github.com/dmitrijs2005/medmod/internal/server/blobstore"
	"github.com/dmitrijs2005/medmod/internal/server/models"
	"github.com/dmitrijs2005/medmod/internal/server/services"
)

type UserService interface {
	Create(ctx context.Context, rawToken string) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Remove(ctx context.Context, id string) (*models.User, error)
	IsPrivileged(u *models.User) bool
}

type MeshService interface {
	Create(ctx context.Context, ownerID string, in services.CreateMeshInput) (*models.Mesh, error)
	Get(ctx context.Context, id string) (*models.Mesh, error)
	FileURL(ctx context.Context, meshID, fileID string) (string, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the router dispatches to.
type Deps struct {
	Users          UserService
	Meshes         MeshService
	Store          Pinger
	Logger         logging.Logger
	MaxUploadBytes int64
	// BlobDir, when set, is served under blobstore.DefaultURLPrefix.
	BlobDir string
}

func NewRouter(d Deps) *gin.Engine {
	logger := d.Logger.With("module", "http")

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))
	if d.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = d.MaxUploadBytes
	}

	router.GET("/health", healthHandler(d.Store))

	if d.BlobDir != "" {
		router.Static(strings.TrimSuffix(blobstore.DefaultURLPrefix, "/"), d.BlobDir)
	}

	uh := &userHandler{svc: d.Users, logger: logger}
	mh := &meshHandler{svc: d.Meshes, logger: logger, maxBytes: d.MaxUploadBytes}

	api := router.Group("/api")
	api.POST("/users", uh.create)
	api.GET("/users/:userId", uh.loadUser, uh.get)
	api.DELETE("/users/:userId", uh.remove)
	api.POST("/users/:userId/meshes", mh.create)
	api.GET("/meshes/:meshId", mh.get)
	api.GET("/meshes/:meshId/files/:fileId", mh.fileURL)

	return router
}

func healthHandler(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if store != nil {
			if err := store.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
