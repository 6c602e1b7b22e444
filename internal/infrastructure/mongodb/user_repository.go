package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mayakatsir/web-development-assignments/internal/domain/entity"
	"github.com/mayakatsir/web-development-assignments/internal/domain/repository"
)

type UserRepository struct {
	db    *mongo.Database
	users *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{db: db, users: db.Collection(usersCollection)}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	if u.RefreshTokens == nil {
		u.RefreshTokens = []string{}
	}
	_, err := r.users.InsertOne(ctx, u)
	return mapErr(err)
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var u entity.User
	if err := r.users.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	n, err := r.users.CountDocuments(ctx, bson.M{"username": username}, options.Count().SetLimit(1))
	return n > 0, err
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	cur, err := r.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	users := []*entity.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Save(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now().UTC()
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": u.ID}, bson.M{"$set": bson.M{
		"username":  u.Username,
		"email":     u.Email,
		"password":  u.Password,
		"updatedAt": u.UpdatedAt,
	}})
	return requireMatch(res, err, repository.ErrNotFound)
}

// Delete removes the user's comments, the comments on the user's posts, the
// posts and finally the user document.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	posts := r.db.Collection(postsCollection)
	postIDs, err := posts.Distinct(ctx, "_id", bson.M{"sender": id})
	if err != nil {
		return err
	}
	if _, err := r.db.Collection(commentsCollection).DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"sender": id},
		bson.M{"postID": bson.M{"$in": postIDs}},
	}}); err != nil {
		return err
	}
	if _, err := posts.DeleteMany(ctx, bson.M{"sender": id}); err != nil {
		return err
	}
	res, err := r.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) AddRefreshToken(ctx context.Context, userID, token string) error {
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$push": bson.M{"refreshTokens": token},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	return requireMatch(res, err, repository.ErrNotFound)
}

// RotateRefreshToken matches only while oldToken is still in the array, so
// two concurrent rotations of the same token cannot both succeed.
func (r *UserRepository) RotateRefreshToken(ctx context.Context, userID, oldToken, newToken string) error {
	filter := bson.M{"_id": userID, "refreshTokens": oldToken}
	update := mongo.Pipeline{{{Key: "$set", Value: bson.M{
		"refreshTokens": bson.M{"$concatArrays": bson.A{
			bson.M{"$filter": bson.M{
				"input": "$refreshTokens",
				"cond":  bson.M{"$ne": bson.A{"$$this", oldToken}},
			}},
			bson.A{newToken},
		}},
		"updatedAt": time.Now().UTC(),
	}}}}
	res, err := r.users.UpdateOne(ctx, filter, update)
	return requireMatch(res, err, repository.ErrRefreshTokenNotActive)
}

func (r *UserRepository) RemoveRefreshToken(ctx context.Context, userID, token string) error {
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$pull": bson.M{"refreshTokens": token},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	return requireMatch(res, err, repository.ErrNotFound)
}

func (r *UserRepository) ClearRefreshTokens(ctx context.Context, userID string) error {
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{"refreshTokens": bson.A{}, "updatedAt": time.Now().UTC()},
	})
	return requireMatch(res, err, repository.ErrNotFound)
}

var _ repository.UserRepository = (*UserRepository)(nil)
