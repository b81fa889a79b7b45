package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/medmod/internal/server/repositories/meshes"
	"github.com/dmitrijs2005/medmod/internal/server/repositories/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoRepositoryManager vends document-store adapters over one database.
type MongoRepositoryManager struct {
	client *mongo.Client
	db     *mongo.Database
}

var mongoConnect = func(ctx context.Context, uri string) (*mongo.Client, error) {
	return mongo.Connect(ctx, options.Client().ApplyURI(uri))
}

// OpenMongo connects to uri and verifies the primary is reachable.
func OpenMongo(ctx context.Context, uri, database string) (*MongoRepositoryManager, error) {
	client, err := mongoConnect(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	m := NewMongoRepositoryManager(client, database)
	if err := m.Ping(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return m, nil
}

func NewMongoRepositoryManager(client *mongo.Client, database string) *MongoRepositoryManager {
	return &MongoRepositoryManager{client: client, db: client.Database(database)}
}

func (m *MongoRepositoryManager) EnsureSchema(ctx context.Context) error {
	return users.NewMongoStore(m.db).EnsureIndexes(ctx)
}

func (m *MongoRepositoryManager) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoRepositoryManager) Users() users.Store {
	return users.NewMongoStore(m.db)
}

func (m *MongoRepositoryManager) Meshes() meshes.Store {
	return meshes.NewMongoStore(m.db)
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
