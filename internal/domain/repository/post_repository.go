package repository

import (
	"context"

	"github.com/mayakatsir/web-development-assignments/internal/domain/entity"
)

// PostFilter narrows List results. Zero values match everything.
type PostFilter struct {
	Sender string
}

type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	FindByID(ctx context.Context, id string) (*entity.Post, error)
	List(ctx context.Context, f PostFilter) ([]*entity.Post, error)
	Update(ctx context.Context, p *entity.Post) error
	// Delete removes the post and its comments.
	Delete(ctx context.Context, id string) error
}
