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

type CommentRepository struct {
	comments *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{comments: db.Collection(commentsCollection)}
}

func (r *CommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	_, err := r.comments.InsertOne(ctx, c)
	return mapErr(err)
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (*entity.Comment, error) {
	var c entity.Comment
	if err := r.comments.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (r *CommentRepository) List(ctx context.Context) ([]*entity.Comment, error) {
	return r.find(ctx, bson.M{})
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]*entity.Comment, error) {
	return r.find(ctx, bson.M{"postID": postID})
}

func (r *CommentRepository) find(ctx context.Context, filter bson.M) ([]*entity.Comment, error) {
	cur, err := r.comments.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	comments := []*entity.Comment{}
	if err := cur.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *CommentRepository) Update(ctx context.Context, c *entity.Comment) error {
	c.UpdatedAt = time.Now().UTC()
	res, err := r.comments.UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{"$set": bson.M{
		"content":   c.Content,
		"updatedAt": c.UpdatedAt,
	}})
	return requireMatch(res, err, repository.ErrNotFound)
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.comments.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.CommentRepository = (*CommentRepository)(nil)
