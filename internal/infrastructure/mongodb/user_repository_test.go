package mongodb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/mayakatsir/web-development-assignments/internal/domain/repository"
)

func TestRotateRefreshToken(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("matched", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))
		err := NewUserRepository(mt.DB).RotateRefreshToken(context.Background(), "u1", "old", "new")
		assert.NoError(mt, err)
	})

	mt.Run("token no longer active", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))
		err := NewUserRepository(mt.DB).RotateRefreshToken(context.Background(), "u1", "old", "new")
		assert.ErrorIs(mt, err, repository.ErrRefreshTokenNotActive)
	})
}

func TestAddRefreshTokenUnknownUser(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("no match", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		err := NewUserRepository(mt.DB).AddRefreshToken(context.Background(), "u1", "tok")
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})
}
