package memory

import (
	"context"
	"time"

	"github.com/mayakatsir/web-development-assignments/internal/domain/entity"
	"github.com/mayakatsir/web-development-assignments/internal/domain/repository"
)

type CommentRepository struct {
	s *Store
}

func (r *CommentRepository) Create(_ context.Context, c *entity.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[c.ID]; ok {
		return repository.ErrDuplicate
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	r.s.comments[c.ID] = cloneComment(c)
	return nil
}

func (r *CommentRepository) FindByID(_ context.Context, id string) (*entity.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneComment(c), nil
}

func (r *CommentRepository) List(_ context.Context) ([]*entity.Comment, error) {
	return r.filter(func(*entity.Comment) bool { return true }), nil
}

func (r *CommentRepository) ListByPost(_ context.Context, postID string) ([]*entity.Comment, error) {
	return r.filter(func(c *entity.Comment) bool { return c.PostID == postID }), nil
}

func (r *CommentRepository) filter(match func(*entity.Comment) bool) []*entity.Comment {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.Comment{}
	for _, c := range r.s.comments {
		if match(c) {
			out = append(out, cloneComment(c))
		}
	}
	sortByCreated(out, func(c *entity.Comment) int64 { return c.CreatedAt.UnixNano() })
	return out
}

func (r *CommentRepository) Update(_ context.Context, c *entity.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.comments[c.ID]
	if !ok {
		return repository.ErrNotFound
	}
	c.CreatedAt = cur.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	r.s.comments[c.ID] = cloneComment(c)
	return nil
}

func (r *CommentRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.comments, id)
	return nil
}

var _ repository.CommentRepository = (*CommentRepository)(nil)
