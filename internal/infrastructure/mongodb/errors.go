package mongodb

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mayakatsir/web-development-assignments/internal/domain/repository"
)

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repository.ErrDuplicate
	}
	return err
}

func requireMatch(res *mongo.UpdateResult, err error, missing error) error {
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return missing
	}
	return nil
}
