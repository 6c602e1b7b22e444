package memory

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/mayakatsir/web-development-assignments/internal/domain/entity"
	"github.com/mayakatsir/web-development-assignments/internal/domain/repository"
)

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; ok {
		return repository.ErrDuplicate
	}
	for _, existing := range r.s.users {
		if existing.Username == u.Username {
			return repository.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	if u.RefreshTokens == nil {
		u.RefreshTokens = []string{}
	}
	r.s.users[u.ID] = cloneUser(u)
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *UserRepository) List(_ context.Context) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, cloneUser(u))
	}
	sortByCreated(out, func(u *entity.User) int64 { return u.CreatedAt.UnixNano() })
	return out, nil
}

func (r *UserRepository) Save(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for id, other := range r.s.users {
		if id != u.ID && other.Username == u.Username {
			return repository.ErrDuplicate
		}
	}
	cur.Username = u.Username
	cur.Email = u.Email
	cur.Password = u.Password
	cur.UpdatedAt = time.Now().UTC()
	u.UpdatedAt = cur.UpdatedAt
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	owned := map[string]bool{}
	for pid, p := range r.s.posts {
		if p.Sender == id {
			owned[pid] = true
			delete(r.s.posts, pid)
		}
	}
	r.s.deleteCommentsWhere(func(c *entity.Comment) bool { return c.Sender == id || owned[c.PostID] })
	delete(r.s.users, id)
	return nil
}

func (r *UserRepository) AddRefreshToken(_ context.Context, userID, token string) error {
	return r.mutateTokens(userID, func(tokens []string) ([]string, error) {
		return append(tokens, token), nil
	})
}

func (r *UserRepository) RotateRefreshToken(_ context.Context, userID, oldToken, newToken string) error {
	return r.mutateTokens(userID, func(tokens []string) ([]string, error) {
		if !slices.Contains(tokens, oldToken) {
			return nil, repository.ErrRefreshTokenNotActive
		}
		return append(without(tokens, oldToken), newToken), nil
	})
}

func (r *UserRepository) RemoveRefreshToken(_ context.Context, userID, token string) error {
	return r.mutateTokens(userID, func(tokens []string) ([]string, error) {
		return without(tokens, token), nil
	})
}

func (r *UserRepository) ClearRefreshTokens(_ context.Context, userID string) error {
	return r.mutateTokens(userID, func([]string) ([]string, error) {
		return []string{}, nil
	})
}

func (r *UserRepository) mutateTokens(userID string, fn func([]string) ([]string, error)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	next, err := fn(append([]string(nil), u.RefreshTokens...))
	if err != nil {
		return err
	}
	u.RefreshTokens = next
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func without(tokens []string, token string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t != token {
			out = append(out, t)
		}
	}
	return out
}

var _ repository.UserRepository = (*UserRepository)(nil)
