// Package memory keeps users, posts and comments in process memory. It backs
// STORE_DRIVER=memory for local runs and serves as the store in tests.
package memory

import (
	"sort"
	"sync"

	"github.com/mayakatsir/web-development-assignments/internal/domain/entity"
)

// Store is shared by the three repositories so cascading deletes stay
// consistent under one lock.
type Store struct {
	mu       sync.RWMutex
	users    map[string]*entity.User
	posts    map[string]*entity.Post
	comments map[string]*entity.Comment
}

func NewStore() *Store {
	return &Store{
		users:    map[string]*entity.User{},
		posts:    map[string]*entity.Post{},
		comments: map[string]*entity.Comment{},
	}
}

func (s *Store) Users() *UserRepository       { return &UserRepository{s: s} }
func (s *Store) Posts() *PostRepository       { return &PostRepository{s: s} }
func (s *Store) Comments() *CommentRepository { return &CommentRepository{s: s} }

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.RefreshTokens = append([]string(nil), u.RefreshTokens...)
	return &c
}

func clonePost(p *entity.Post) *entity.Post {
	c := *p
	return &c
}

func cloneComment(cm *entity.Comment) *entity.Comment {
	c := *cm
	return &c
}

// deleteCommentsWhere must be called with s.mu held for writing.
func (s *Store) deleteCommentsWhere(match func(*entity.Comment) bool) {
	for id, c := range s.comments {
		if match(c) {
			delete(s.comments, id)
		}
	}
}

func sortByCreated[T any](items []T, created func(T) int64) {
	sort.SliceStable(items, func(i, j int) bool { return created(items[i]) < created(items[j]) })
}
