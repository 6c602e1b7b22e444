package memory

import (
	"context"
	"time"

	"github.com/mayakatsir/web-development-assignments/internal/domain/entity"
	"github.com/mayakatsir/web-development-assignments/internal/domain/repository"
)

type PostRepository struct {
	s *Store
}

func (r *PostRepository) Create(_ context.Context, p *entity.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[p.ID]; ok {
		return repository.ErrDuplicate
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.posts[p.ID] = clonePost(p)
	return nil
}

func (r *PostRepository) FindByID(_ context.Context, id string) (*entity.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clonePost(p), nil
}

func (r *PostRepository) List(_ context.Context, f repository.PostFilter) ([]*entity.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.Post{}
	for _, p := range r.s.posts {
		if f.Sender != "" && p.Sender != f.Sender {
			continue
		}
		out = append(out, clonePost(p))
	}
	sortByCreated(out, func(p *entity.Post) int64 { return p.CreatedAt.UnixNano() })
	return out, nil
}

func (r *PostRepository) Update(_ context.Context, p *entity.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.posts[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	p.CreatedAt = cur.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	r.s.posts[p.ID] = clonePost(p)
	return nil
}

func (r *PostRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.posts, id)
	r.s.deleteCommentsWhere(func(c *entity.Comment) bool { return c.PostID == id })
	return nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
