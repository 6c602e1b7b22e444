package repository

import (
	"context"

	"github.com/mayakatsir/web-development-assignments/internal/domain/entity"
)

type CommentRepository interface {
	Create(ctx context.Context, c *entity.Comment) error
	FindByID(ctx context.Context, id string) (*entity.Comment, error)
	List(ctx context.Context) ([]*entity.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]*entity.Comment, error)
	Update(ctx context.Context, c *entity.Comment) error
	Delete(ctx context.Context, id string) error
}
