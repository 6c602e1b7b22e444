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

type PostRepository struct {
	posts    *mongo.Collection
	comments *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{
		posts:    db.Collection(postsCollection),
		comments: db.Collection(commentsCollection),
	}
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	_, err := r.posts.InsertOne(ctx, p)
	return mapErr(err)
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*entity.Post, error) {
	var p entity.Post
	if err := r.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (r *PostRepository) List(ctx context.Context, f repository.PostFilter) ([]*entity.Post, error) {
	filter := bson.M{}
	if f.Sender != "" {
		filter["sender"] = f.Sender
	}
	cur, err := r.posts.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	posts := []*entity.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostRepository) Update(ctx context.Context, p *entity.Post) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := r.posts.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": bson.M{
		"title":     p.Title,
		"content":   p.Content,
		"sender":    p.Sender,
		"imageUrl":  p.ImageURL,
		"updatedAt": p.UpdatedAt,
	}})
	return requireMatch(res, err, repository.ErrNotFound)
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	res, err := r.posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	_, err = r.comments.DeleteMany(ctx, bson.M{"postID": id})
	return err
}

var _ repository.PostRepository = (*PostRepository)(nil)
