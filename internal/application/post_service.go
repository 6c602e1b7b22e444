package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mayakatsir/web-development-assignments/internal/domain/entity"
	repo "github.com/mayakatsir/web-development-assignments/internal/domain/repository"
)

const MsgPostMissing = "body param is missing (sender or title)"

func MsgPostNotFound(id string) string { return "Post with id: " + id + " not found" }

// SearchIndex is the full-text index of posts. helpers.ESIndex implements it.
type SearchIndex interface {
	Put(ctx context.Context, id string, doc any) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, q string, size int) ([]string, error)
}

// ImageStore keeps uploaded post images. helpers.GCSUploader implements it.
type ImageStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

var ErrImagesDisabled = errors.New("image upload is not configured")

// PostService owns posts. Search and Images are optional.
type PostService struct {
	Repo   repo.PostRepository
	Search SearchIndex
	Images ImageStore
	Logger *logrus.Logger
}

func NewPostService(r repo.PostRepository, logger *logrus.Logger) *PostService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &PostService{Repo: r, Logger: logger}
}

type postDocument struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Sender    string `json:"sender"`
	CreatedAt string `json:"created_at"`
}

type CreatePostInput struct {
	Title   string
	Content string
	Sender  string
}

func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*entity.Post, error) {
	if in.Title == "" || in.Sender == "" {
		return nil, newError(KindValidation, MsgPostMissing, nil)
	}
	p := &entity.Post{ID: uuid.NewString(), Title: in.Title, Content: in.Content, Sender: in.Sender}
	if err := s.Repo.Create(ctx, p); err != nil {
		s.Logger.WithError(err).Error("create post failed")
		return nil, newError(KindInternal, MsgInternal, err)
	}
	s.index(ctx, p)
	return p, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*entity.Post, error) {
	p, err := s.Repo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, newError(KindNotFound, MsgPostNotFound(id), err)
	}
	if err != nil {
		s.Logger.WithError(err).WithField("post_id", id).Error("get post failed")
		return nil, newError(KindInternal, MsgInternal, err)
	}
	return p, nil
}

// List returns all posts, or only those of sender when it is non-empty.
func (s *PostService) List(ctx context.Context, sender string) ([]*entity.Post, error) {
	posts, err := s.Repo.List(ctx, repo.PostFilter{Sender: sender})
	if err != nil {
		s.Logger.WithError(err).Error("list posts failed")
		return nil, newError(KindInternal, MsgInternal, err)
	}
	return posts, nil
}

// UpdatePostInput holds optional fields; nil leaves the value unchanged.
type UpdatePostInput struct {
	Title   *string
	Content *string
	Sender  *string
}

func (s *PostService) Update(ctx context.Context, id string, in UpdatePostInput) (*entity.Post, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Content != nil {
		p.Content = *in.Content
	}
	if in.Sender != nil {
		p.Sender = *in.Sender
	}
	if p.Title == "" || p.Sender == "" {
		return nil, newError(KindValidation, MsgPostMissing, nil)
	}
	return p, s.save(ctx, p)
}

func (s *PostService) save(ctx context.Context, p *entity.Post) error {
	if err := s.Repo.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return newError(KindNotFound, MsgPostNotFound(p.ID), err)
		}
		s.Logger.WithError(err).WithField("post_id", p.ID).Error("update post failed")
		return newError(KindInternal, MsgInternal, err)
	}
	s.index(ctx, p)
	return nil
}

// Delete removes the post and its comments.
func (s *PostService) Delete(ctx context.Context, id string) error {
	err := s.Repo.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return newError(KindNotFound, MsgPostNotFound(id), err)
	}
	if err != nil {
		s.Logger.WithError(err).WithField("post_id", id).Error("delete post failed")
		return newError(KindInternal, MsgInternal, err)
	}
	if s.Search != nil {
		if err := s.Search.Remove(ctx, id); err != nil {
			s.Logger.WithError(err).WithField("post_id", id).Warn("es delete failed")
		}
	}
	return nil
}

// SearchPosts returns the posts matching q, best match first. Without a
// search index it returns an empty list.
func (s *PostService) SearchPosts(ctx context.Context, q string, size int) ([]*entity.Post, error) {
	out := []*entity.Post{}
	if s.Search == nil || strings.TrimSpace(q) == "" {
		return out, nil
	}
	ids, err := s.Search.Search(ctx, q, size)
	if err != nil {
		s.Logger.WithError(err).Error("search posts failed")
		return nil, newError(KindInternal, MsgInternal, err)
	}
	for _, id := range ids {
		p, err := s.Repo.FindByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			// index lags behind deletes
			continue
		}
		if err != nil {
			return nil, newError(KindInternal, MsgInternal, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// AttachImage uploads an image for the post and stores its URL on it.
func (s *PostService) AttachImage(ctx context.Context, id string, r io.Reader, filename, contentType string) (*entity.Post, error) {
	if s.Images == nil {
		return nil, newError(KindInternal, MsgInternal, ErrImagesDisabled)
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("posts", id, uuid.NewString()+ext))
	url, err := s.Images.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		s.Logger.WithError(err).WithField("post_id", id).Error("upload image failed")
		return nil, newError(KindInternal, MsgInternal, err)
	}
	p.ImageURL = url
	return p, s.save(ctx, p)
}

func (s *PostService) index(ctx context.Context, p *entity.Post) {
	if s.Search == nil {
		return
	}
	doc := postDocument{Title: p.Title, Content: p.Content, Sender: p.Sender, CreatedAt: p.CreatedAt.Format(time.RFC3339Nano)}
	if err := s.Search.Put(ctx, p.ID, doc); err != nil {
		s.Logger.WithError(err).WithField("post_id", p.ID).Warn("es index failed")
	}
}
