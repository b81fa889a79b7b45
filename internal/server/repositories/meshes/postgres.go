package meshes

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/medmod/internal/dbx"
	"github.com/dmitrijs2005/medmod/internal/server/models"
)

// PostgresStore writes a mesh and its file rows in one transaction.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, m *models.Mesh) error {
	var id string
	fileIDs := make([]string, len(m.Files))

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query :=
			`INSERT INTO meshes (owner_id, name, short_desc, long_desc, created)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id
			 `
		if err := tx.QueryRowContext(ctx, query, m.OwnerID, m.Name, m.ShortDesc, m.LongDesc, m.CreatedAt).Scan(&id); err != nil {
			return err
		}

		for i, f := range m.Files {
			query :=
				`INSERT INTO mesh_files (mesh_id, position, original_name, mime_type, size, storage_key)
				 VALUES ($1, $2, $3, $4, $5, $6)
				 RETURNING id
				 `
			if err := tx.QueryRowContext(ctx, query, id, i, f.OriginalName, f.MimeType, f.Size, f.StorageKey).Scan(&fileIDs[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return dbx.ClassifyPostgres("meshes.insert", err)
	}

	m.ID = id
	for i := range m.Files {
		m.Files[i].ID = fileIDs[i]
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*models.Mesh, error) {
	query :=
		`SELECT id, owner_id, name, short_desc, long_desc, created FROM meshes
		 WHERE id = $1
		 `

	m := &models.Mesh{}
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&m.ID, &m.OwnerID, &m.Name, &m.ShortDesc, &m.LongDesc, &m.CreatedAt)
	if err != nil {
		return nil, dbx.ClassifyPostgres("meshes.find", err)
	}
	m.CreatedAt = m.CreatedAt.UTC()

	files, err := selectFiles(ctx, s.db,
		`SELECT id, original_name, mime_type, size, storage_key FROM mesh_files
		 WHERE mesh_id = $1
		 ORDER BY position
		 `, m.ID)
	if err != nil {
		return nil, dbx.ClassifyPostgres("meshes.find_files", err)
	}
	m.Files = files
	return m, nil
}

func selectFiles(ctx context.Context, db dbx.DBTX, query string, meshID string) ([]models.MeshFile, error) {
	rows, err := db.QueryContext(ctx, query, meshID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []models.MeshFile
	for rows.Next() {
		var f models.MeshFile
		if err := rows.Scan(&f.ID, &f.OriginalName, &f.MimeType, &f.Size, &f.StorageKey); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
