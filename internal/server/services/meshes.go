package services

import (
	"context"
	"io"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dmitrijs2005/medmod/internal/common"
	"github.com/dmitrijs2005/medmod/internal/logging"
	"github.com/dmitrijs2005/medmod/internal/server/blobstore"
	"github.com/dmitrijs2005/medmod/internal/server/models"
	"github.com/dmitrijs2005/medmod/internal/server/repositories/meshes"
	"github.com/dmitrijs2005/medmod/internal/server/repositories/users"
)

// FileUpload is one file of a mesh upload. Content is read once.
type FileUpload struct {
	OriginalName string
	MimeType     string
	Size         int64
	Content      io.Reader
}

type CreateMeshInput struct {
	Name      string
	ShortDesc string
	LongDesc  string
	Files     []FileUpload
}

type MeshService struct {
	users  *users.Repository
	meshes *meshes.Repository
	blobs  blobstore.Store
	logger logging.Logger
	now    func() time.Time
}

func NewMeshService(users *users.Repository, meshes *meshes.Repository, blobs blobstore.Store, logger logging.Logger) *MeshService {
	return &MeshService{
		users:  users,
		meshes: meshes,
		blobs:  blobs,
		logger: logger.With("module", "meshes.service"),
		now:    time.Now,
	}
}

// Create uploads the files and persists the mesh. Uploaded blobs are removed
// again when anything after the first upload fails.
func (s *MeshService) Create(ctx context.Context, ownerID string, in CreateMeshInput) (m *models.Mesh, err error) {
	ctx, span := tracer.Start(ctx, "MeshService.Create")
	span.SetAttributes(attribute.String("user.id", ownerID), attribute.Int("mesh.files", len(in.Files)))
	defer func() { finish(span, err) }()

	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, common.Invalid("mesh name is required")
	}
	if len(in.Files) == 0 {
		return nil, common.Invalid("at least one file is required in field '%s'", common.MeshFilesField)
	}

	m = &models.Mesh{
		OwnerID:   owner.ID,
		Name:      name,
		ShortDesc: in.ShortDesc,
		LongDesc:  in.LongDesc,
		Files:     make([]models.MeshFile, 0, len(in.Files)),
	}

	for _, f := range in.Files {
		key := blobstore.NewKey(s.now())
		if err := s.blobs.Put(ctx, key, f.Content, f.Size, f.MimeType); err != nil {
			s.logger.Error(ctx, "unable to store mesh file", "name", name, "file", f.OriginalName, "error", err)
			s.discard(ctx, m.Files)
			return nil, common.Internal(err, "Unable to create mesh '%s'", name)
		}
		m.Files = append(m.Files, models.MeshFile{
			OriginalName: f.OriginalName,
			MimeType:     f.MimeType,
			Size:         f.Size,
			StorageKey:   key,
		})
	}

	created, err := s.meshes.Create(ctx, m)
	if err != nil {
		s.discard(ctx, m.Files)
		return nil, err
	}
	span.SetAttributes(attribute.String("mesh.id", created.ID))
	return created, nil
}

// discard deletes already uploaded blobs even if ctx is cancelled.
func (s *MeshService) discard(ctx context.Context, files []models.MeshFile) {
	ctx = context.WithoutCancel(ctx)
	for _, f := range files {
		if err := s.blobs.Delete(ctx, f.StorageKey); err != nil {
			s.logger.Warn(ctx, "orphaned mesh file", "key", f.StorageKey, "error", err)
		}
	}
}

func (s *MeshService) Get(ctx context.Context, id string) (m *models.Mesh, err error) {
	ctx, span := tracer.Start(ctx, "MeshService.Get")
	span.SetAttributes(attribute.String("mesh.id", id))
	defer func() { finish(span, err) }()

	return s.meshes.GetByID(ctx, id)
}

// FileURL returns a download link for one file of a mesh.
func (s *MeshService) FileURL(ctx context.Context, meshID, fileID string) (url string, err error) {
	ctx, span := tracer.Start(ctx, "MeshService.FileURL")
	span.SetAttributes(attribute.String("mesh.id", meshID), attribute.String("file.id", fileID))
	defer func() { finish(span, err) }()

	m, err := s.meshes.GetByID(ctx, meshID)
	if err != nil {
		return "", err
	}
	f, ok := m.File(fileID)
	if !ok {
		return "", common.NotFound("file with id %s does not exist in mesh %s", fileID, meshID)
	}

	url, err = s.blobs.URL(ctx, f.StorageKey)
	if err != nil {
		s.logger.Error(ctx, "unable to sign mesh file url", "mesh", meshID, "file", fileID, "error", err)
		return "", common.Internal(err, "Unable to get file %s of mesh %s", fileID, meshID)
	}
	return url, nil
}
