package meshes

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/medmod/internal/dbx"
	"github.com/dmitrijs2005/medmod/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertMeshRe = `(?s)^INSERT\s+INTO\s+meshes\s*\(owner_id,\s*name,\s*short_desc,\s*long_desc,\s*created\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+id\s*$`
	insertFileRe = `(?s)^INSERT\s+INTO\s+mesh_files\s*\(mesh_id,\s*position,\s*original_name,\s*mime_type,\s*size,\s*storage_key\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6\)\s*RETURNING\s+id\s*$`
	selectMeshRe = `(?s)^SELECT\s+id,\s*owner_id,\s*name,\s*short_desc,\s*long_desc,\s*created\s+FROM\s+meshes\s+WHERE\s+id\s*=\s*\$1\s*$`
	selectFileRe = `(?s)^SELECT\s+id,\s*original_name,\s*mime_type,\s*size,\s*storage_key\s+FROM\s+mesh_files\s+WHERE\s+mesh_id\s*=\s*\$1\s+ORDER\s+BY\s+position\s*$`
)

func newStoreWithMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresStore(db), mock
}

func sampleMesh() *models.Mesh {
	return &models.Mesh{
		OwnerID:   "u-1",
		Name:      "Skull",
		ShortDesc: "short",
		LongDesc:  "long",
		CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Files: []models.MeshFile{
			{OriginalName: "skull.obj", MimeType: "model/obj", Size: 10, StorageKey: "meshes/2024/3/1/a"},
			{OriginalName: "skull.mtl", MimeType: "model/mtl", Size: 4, StorageKey: "meshes/2024/3/1/b"},
		},
	}
}

func TestPostgresStore_Insert_CommitsMeshAndFiles(t *testing.T) {
	s, mock := newStoreWithMock(t)
	m := sampleMesh()

	mock.ExpectBegin()
	mock.ExpectQuery(insertMeshRe).
		WithArgs("u-1", "Skull", "short", "long", m.CreatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("m-1"))
	mock.ExpectQuery(insertFileRe).
		WithArgs("m-1", 0, "skull.obj", "model/obj", int64(10), "meshes/2024/3/1/a").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("f-1"))
	mock.ExpectQuery(insertFileRe).
		WithArgs("m-1", 1, "skull.mtl", "model/mtl", int64(4), "meshes/2024/3/1/b").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("f-2"))
	mock.ExpectCommit()

	require.NoError(t, s.Insert(context.Background(), m))
	assert.Equal(t, "m-1", m.ID)
	assert.Equal(t, "f-1", m.Files[0].ID)
	assert.Equal(t, "f-2", m.Files[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Insert_RollsBackOnFileError(t *testing.T) {
	s, mock := newStoreWithMock(t)
	m := sampleMesh()

	mock.ExpectBegin()
	mock.ExpectQuery(insertMeshRe).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("m-1"))
	mock.ExpectQuery(insertFileRe).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := s.Insert(context.Background(), m)
	require.Error(t, err)
	assert.Equal(t, dbx.KindOther, dbx.Classify(err))
	assert.Empty(t, m.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FindByID(t *testing.T) {
	s, mock := newStoreWithMock(t)
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(selectMeshRe).
		WithArgs("m-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name", "short_desc", "long_desc", "created"}).
			AddRow("m-1", "u-1", "Skull", "short", "long", created))
	mock.ExpectQuery(selectFileRe).
		WithArgs("m-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "original_name", "mime_type", "size", "storage_key"}).
			AddRow("f-1", "skull.obj", "model/obj", int64(10), "k1").
			AddRow("f-2", "skull.mtl", "model/mtl", int64(4), "k2"))

	m, err := s.FindByID(context.Background(), "m-1")
	require.NoError(t, err)
	assert.Equal(t, "Skull", m.Name)
	require.Len(t, m.Files, 2)
	assert.Equal(t, "skull.mtl", m.Files[1].OriginalName)
	assert.Equal(t, int64(4), m.Files[1].Size)
}

func TestPostgresStore_FindByID_NotFound(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectQuery(selectMeshRe).WithArgs("m-x").WillReturnError(sql.ErrNoRows)

	_, err := s.FindByID(context.Background(), "m-x")
	assert.Equal(t, dbx.KindNotFound, dbx.Classify(err))
}
