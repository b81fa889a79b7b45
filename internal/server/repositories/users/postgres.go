package users

import (
	"context"

	"github.com/dmitrijs2005/medmod/internal/dbx"
	"github.com/dmitrijs2005/medmod/internal/server/models"
)

type PostgresStore struct {
	db dbx.DBTX
}

func NewPostgresStore(db dbx.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, u *models.User) error {
	query :=
		`INSERT INTO users (google_id, google_name, google_email, created)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err := s.db.QueryRowContext(ctx, query,
		u.Profile.ProviderID, u.Profile.Name, u.Profile.Email, u.CreatedAt).Scan(&u.ID)

	return dbx.ClassifyPostgres("users.insert", err)
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, google_id, google_name, google_email, created FROM users
		 WHERE id = $1
		 `

	u, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, dbx.ClassifyPostgres("users.find", err)
	}
	return u, nil
}

func (s *PostgresStore) DeleteByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`DELETE FROM users
		 WHERE id = $1
		 RETURNING id, google_id, google_name, google_email, created
		 `

	u, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, dbx.ClassifyPostgres("users.delete", err)
	}
	return u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.ID, &u.Profile.ProviderID, &u.Profile.Name, &u.Profile.Email, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}
