// Package services holds the use cases the transports call.
package services

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dmitrijs2005/medmod/internal/server/identity"
	"github.com/dmitrijs2005/medmod/internal/server/models"
	"github.com/dmitrijs2005/medmod/internal/server/repositories/users"
)

type UserService struct {
	verifier   identity.Verifier
	repo       *users.Repository
	privileged map[string]struct{}
}

// NewUserService wires the service. privileged holds lowercased emails.
func NewUserService(verifier identity.Verifier, repo *users.Repository, privileged map[string]struct{}) *UserService {
	if privileged == nil {
		privileged = map[string]struct{}{}
	}
	return &UserService{verifier: verifier, repo: repo, privileged: privileged}
}

// Create verifies rawToken and persists a user from the verified profile.
// The repository is not touched when verification fails.
func (s *UserService) Create(ctx context.Context, rawToken string) (u *models.User, err error) {
	ctx, span := tracer.Start(ctx, "UserService.Create")
	defer func() { finish(span, err) }()

	profile, err := s.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	u, err = s.repo.Create(ctx, profile.ProviderID, profile.Name, profile.Email)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("user.id", u.ID))
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id string) (u *models.User, err error) {
	ctx, span := tracer.Start(ctx, "UserService.Get")
	span.SetAttributes(attribute.String("user.id", id))
	defer func() { finish(span, err) }()

	return s.repo.GetByID(ctx, id)
}

// Remove loads the user and deletes it, returning the deleted record.
func (s *UserService) Remove(ctx context.Context, id string) (u *models.User, err error) {
	ctx, span := tracer.Start(ctx, "UserService.Remove")
	span.SetAttributes(attribute.String("user.id", id))
	defer func() { finish(span, err) }()

	u, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.repo.Remove(ctx, u)
}

func (s *UserService) IsPrivileged(u *models.User) bool {
	return u.IsPrivileged(s.privileged)
}
