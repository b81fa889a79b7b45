package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/medmod/internal/dbx"
	"github.com/dmitrijs2005/medmod/internal/server/models"
	"github.com/google/uuid"
)

// SQLiteStore keeps users in SQLite. Ids are generated here; created is
// stored as unix milliseconds.
type SQLiteStore struct {
	db dbx.DBTX
}

func NewSQLiteStore(db dbx.DBTX) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Insert(ctx context.Context, u *models.User) error {
	id := uuid.NewString()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, google_id, google_name, google_email, created) VALUES (?, ?, ?, ?, ?)`,
		id, u.Profile.ProviderID, u.Profile.Name, u.Profile.Email, u.CreatedAt.UnixMilli())
	if err != nil {
		return dbx.ClassifySQLite("users.insert", err)
	}

	u.ID = id
	return nil
}

func (s *SQLiteStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, err := scanSQLiteUser(s.db.QueryRowContext(ctx,
		`SELECT id, google_id, google_name, google_email, created FROM users WHERE id = ?`, id))
	if err != nil {
		return nil, dbx.ClassifySQLite("users.find", err)
	}
	return u, nil
}

func (s *SQLiteStore) DeleteByID(ctx context.Context, id string) (*models.User, error) {
	u, err := scanSQLiteUser(s.db.QueryRowContext(ctx,
		`DELETE FROM users WHERE id = ? RETURNING id, google_id, google_name, google_email, created`, id))
	if err != nil {
		return nil, dbx.ClassifySQLite("users.delete", err)
	}
	return u, nil
}

func scanSQLiteUser(row rowScanner) (*models.User, error) {
	var (
		u       models.User
		created int64
	)
	if err := row.Scan(&u.ID, &u.Profile.ProviderID, &u.Profile.Name, &u.Profile.Email, &created); err != nil {
		return nil, err
	}
	u.CreatedAt = time.UnixMilli(created).UTC()
	return &u, nil
}
