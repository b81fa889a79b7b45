package dbx

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// ClassifyMongo wraps a mongo-driver error for op.
func ClassifyMongo(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Wrap(op, KindNotFound, err)
	}
	if mongo.IsDuplicateKeyError(err) {
		return Wrap(op, KindDuplicateKey, err)
	}
	return Wrap(op, KindOther, err)
}
