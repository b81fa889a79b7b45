package meshes

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/medmod/internal/dbx"
	"github.com/dmitrijs2005/medmod/internal/server/models"
	"github.com/google/uuid"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Insert(ctx context.Context, m *models.Mesh) error {
	id := uuid.NewString()
	fileIDs := make([]string, len(m.Files))

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO meshes (id, owner_id, name, short_desc, long_desc, created) VALUES (?, ?, ?, ?, ?, ?)`,
			id, m.OwnerID, m.Name, m.ShortDesc, m.LongDesc, m.CreatedAt.UnixMilli())
		if err != nil {
			return err
		}

		for i, f := range m.Files {
			fileIDs[i] = uuid.NewString()
			_, err := tx.ExecContext(ctx,
				`INSERT INTO mesh_files (id, mesh_id, position, original_name, mime_type, size, storage_key) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				fileIDs[i], id, i, f.OriginalName, f.MimeType, f.Size, f.StorageKey)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return dbx.ClassifySQLite("meshes.insert", err)
	}

	m.ID = id
	for i := range m.Files {
		m.Files[i].ID = fileIDs[i]
	}
	return nil
}

func (s *SQLiteStore) FindByID(ctx context.Context, id string) (*models.Mesh, error) {
	var (
		m       models.Mesh
		created int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, short_desc, long_desc, created FROM meshes WHERE id = ?`, id).
		Scan(&m.ID, &m.OwnerID, &m.Name, &m.ShortDesc, &m.LongDesc, &created)
	if err != nil {
		return nil, dbx.ClassifySQLite("meshes.find", err)
	}
	m.CreatedAt = time.UnixMilli(created).UTC()

	files, err := selectFiles(ctx, s.db,
		`SELECT id, original_name, mime_type, size, storage_key FROM mesh_files WHERE mesh_id = ? ORDER BY position`, m.ID)
	if err != nil {
		return nil, dbx.ClassifySQLite("meshes.find_files", err)
	}
	m.Files = files
	return &m, nil
}
