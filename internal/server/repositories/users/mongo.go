package users

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/medmod/internal/dbx"
	"github.com/dmitrijs2005/medmod/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the Mongo collection holding users.
const Collection = "users"

type googleDocument struct {
	ID    string `bson:"id"`
	Name  string `bson:"name"`
	Email string `bson:"email"`
}

type userDocument struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Google  googleDocument     `bson:"google"`
	Created time.Time          `bson:"created"`
}

func (d *userDocument) model() *models.User {
	return &models.User{
		ID: d.ID.Hex(),
		Profile: models.IdentityProfile{
			ProviderID: d.Google.ID,
			Name:       d.Google.Name,
			Email:      d.Google.Email,
		},
		CreatedAt: d.Created.UTC(),
	}
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(Collection)}
}

// EnsureIndexes registers the unique email index. Safe to call on every start.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "google.email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("google_email_unique"),
	})
	if err != nil {
		return fmt.Errorf("users: ensure indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Insert(ctx context.Context, u *models.User) error {
	doc := userDocument{
		Google: googleDocument{
			ID:    u.Profile.ProviderID,
			Name:  u.Profile.Name,
			Email: u.Profile.Email,
		},
		Created: u.CreatedAt,
	}

	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return dbx.ClassifyMongo("users.insert", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return dbx.Wrap("users.insert", dbx.KindOther, fmt.Errorf("unexpected inserted id %T", res.InsertedID))
	}

	u.ID = oid.Hex()
	return nil
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, dbx.NotFound("users.find")
	}

	var doc userDocument
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, dbx.ClassifyMongo("users.find", err)
	}
	return doc.model(), nil
}

func (s *MongoStore) DeleteByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, dbx.NotFound("users.delete")
	}

	var doc userDocument
	if err := s.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, dbx.ClassifyMongo("users.delete", err)
	}
	return doc.model(), nil
}
