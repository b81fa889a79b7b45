package meshes

import (
	"context"
	"time"

	"github.com/dmitrijs2005/medmod/internal/dbx"
	"github.com/dmitrijs2005/medmod/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const Collection = "meshes"

type fileDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	OriginalName string             `bson:"originalName"`
	MimeType     string             `bson:"mimeType"`
	Size         int64              `bson:"size"`
	StorageKey   string             `bson:"storageKey"`
}

type meshDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Owner     string             `bson:"owner"`
	Name      string             `bson:"name"`
	ShortDesc string             `bson:"shortDesc"`
	LongDesc  string             `bson:"longDesc"`
	Files     []fileDocument     `bson:"files"`
	Created   time.Time          `bson:"created"`
}

func (d *meshDocument) model() *models.Mesh {
	m := &models.Mesh{
		ID:        d.ID.Hex(),
		OwnerID:   d.Owner,
		Name:      d.Name,
		ShortDesc: d.ShortDesc,
		LongDesc:  d.LongDesc,
		CreatedAt: d.Created.UTC(),
		Files:     make([]models.MeshFile, 0, len(d.Files)),
	}
	for _, f := range d.Files {
		m.Files = append(m.Files, models.MeshFile{
			ID:           f.ID.Hex(),
			OriginalName: f.OriginalName,
			MimeType:     f.MimeType,
			Size:         f.Size,
			StorageKey:   f.StorageKey,
		})
	}
	return m
}

// MongoStore embeds the files in the mesh document, so one insert is atomic.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(Collection)}
}

func (s *MongoStore) Insert(ctx context.Context, m *models.Mesh) error {
	doc := meshDocument{
		ID:        primitive.NewObjectID(),
		Owner:     m.OwnerID,
		Name:      m.Name,
		ShortDesc: m.ShortDesc,
		LongDesc:  m.LongDesc,
		Created:   m.CreatedAt,
		Files:     make([]fileDocument, len(m.Files)),
	}
	for i, f := range m.Files {
		doc.Files[i] = fileDocument{
			ID:           primitive.NewObjectID(),
			OriginalName: f.OriginalName,
			MimeType:     f.MimeType,
			Size:         f.Size,
			StorageKey:   f.StorageKey,
		}
	}

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return dbx.ClassifyMongo("meshes.insert", err)
	}

	m.ID = doc.ID.Hex()
	for i := range m.Files {
		m.Files[i].ID = doc.Files[i].ID.Hex()
	}
	return nil
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*models.Mesh, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, dbx.NotFound("meshes.find")
	}

	var doc meshDocument
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, dbx.ClassifyMongo("meshes.find", err)
	}
	return doc.model(), nil
}
