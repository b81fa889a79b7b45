// Package meshes persists mesh metadata; file content lives in blob storage.
package meshes

import (
	"context"
	"time"

	"github.com/dmitrijs2005/medmod/internal/common"
	"github.com/dmitrijs2005/medmod/internal/dbx"
	"github.com/dmitrijs2005/medmod/internal/logging"
	"github.com/dmitrijs2005/medmod/internal/server/models"
)

// Store is implemented by each storage adapter. A mesh and its files are
// written atomically.
type Store interface {
	// Insert persists m with its files and sets m.ID and every file ID.
	Insert(ctx context.Context, m *models.Mesh) error
	// FindByID returns the mesh with files in upload order.
	FindByID(ctx context.Context, id string) (*models.Mesh, error)
}

type Repository struct {
	store  Store
	logger logging.Logger
	now    func() time.Time
}

func NewRepository(store Store, logger logging.Logger) *Repository {
	return &Repository{
		store:  store,
		logger: logger.With("module", "meshes.repository"),
		now:    time.Now,
	}
}

// Create stamps m with the creation time and persists it.
func (r *Repository) Create(ctx context.Context, m *models.Mesh) (*models.Mesh, error) {
	m.CreatedAt = r.now().UTC().Truncate(time.Millisecond)

	if err := r.store.Insert(ctx, m); err != nil {
		r.logger.Error(ctx, "unable to create mesh", "name", m.Name, "owner", m.OwnerID, "error", err)
		return nil, common.Internal(err, "Unable to create mesh '%s'", m.Name)
	}

	r.logger.Info(ctx, "created mesh", "id", m.ID, "owner", m.OwnerID, "files", len(m.Files))
	return m, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*models.Mesh, error) {
	m, err := r.store.FindByID(ctx, id)
	if err != nil {
		if dbx.Classify(err) == dbx.KindNotFound {
			return nil, common.NotFound("mesh with id %s does not exist", id)
		}
		r.logger.Error(ctx, "unable to get mesh", "id", id, "error", err)
		return nil, common.Internal(err, "Unable to get mesh with id %s", id)
	}
	return m, nil
}
