// Package users persists user records and translates storage failures into
// the common error taxonomy.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/medmod/internal/common"
	"github.com/dmitrijs2005/medmod/internal/dbx"
	"github.com/dmitrijs2005/medmod/internal/logging"
	"github.com/dmitrijs2005/medmod/internal/server/models"
)

// Store is implemented by each storage adapter. Failures must be classified
// with dbx (DuplicateKey on a taken email, NotFound on a missing id).
type Store interface {
	// Insert persists u and sets u.ID.
	Insert(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	// DeleteByID removes the user and returns the row as it was stored.
	DeleteByID(ctx context.Context, id string) (*models.User, error)
}

// Repository is the only writer of persisted users.
type Repository struct {
	store  Store
	logger logging.Logger
	now    func() time.Time
}

func NewRepository(store Store, logger logging.Logger) *Repository {
	return &Repository{
		store:  store,
		logger: logger.With("module", "users.repository"),
		now:    time.Now,
	}
}

func (r *Repository) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := r.store.FindByID(ctx, id)
	if err != nil {
		if dbx.Classify(err) == dbx.KindNotFound {
			return nil, common.NotFound("user with id %s does not exist", id)
		}
		r.logger.Error(ctx, "unable to get user", "id", id, "error", err)
		return nil, common.Internal(err, "Unable to get user with id %s", id)
	}
	return u, nil
}

// Create persists a new user. Email uniqueness is enforced by the store.
func (r *Repository) Create(ctx context.Context, providerID, name, email string) (*models.User, error) {
	u := &models.User{
		Profile: models.IdentityProfile{
			ProviderID: providerID,
			Name:       name,
			Email:      email,
		},
		// every store keeps at least millisecond precision
		CreatedAt: r.now().UTC().Truncate(time.Millisecond),
	}

	if err := r.store.Insert(ctx, u); err != nil {
		if dbx.Classify(err) == dbx.KindDuplicateKey {
			r.logger.Warn(ctx, "user already exists", "email", email)
			return nil, common.Conflict(err, "A user with email '%s' already exists", email)
		}
		r.logger.Error(ctx, "unable to create user", "email", email, "error", err)
		return nil, common.Internal(err, "Unable to create user with email '%s'", email)
	}

	r.logger.Info(ctx, "created user", "id", u.ID, "email", email)
	return u, nil
}

// Remove deletes user by id and returns the deleted record.
// A row that is already gone is an internal failure.
func (r *Repository) Remove(ctx context.Context, user *models.User) (*models.User, error) {
	deleted, err := r.store.DeleteByID(ctx, user.ID)
	if err != nil {
		r.logger.Error(ctx, "unable to remove user", "id", user.ID, "error", err)
		return nil, common.Internal(err, "Unable to remove user with id %s", user.ID)
	}

	r.logger.Info(ctx, "removed user", "id", deleted.ID, "email", deleted.Email())
	return deleted, nil
}
