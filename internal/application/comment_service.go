package application

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mayakatsir/web-development-assignments/internal/domain/entity"
	repo "github.com/mayakatsir/web-development-assignments/internal/domain/repository"
)

const MsgCommentMissing = "Sender or postID is missing from body params"

func MsgUnknownPost(id string) string    { return "Non existent post with id: " + id }
func MsgCommentNotFound(id string) string { return "Comment with id: " + id + " not found" }

type CommentService struct {
	Repo   repo.CommentRepository
	Posts  repo.PostRepository
	Logger *logrus.Logger
}

func NewCommentService(r repo.CommentRepository, posts repo.PostRepository, logger *logrus.Logger) *CommentService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CommentService{Repo: r, Posts: posts, Logger: logger}
}

type CreateCommentInput struct {
	PostID  string
	Sender  string
	Content string
}

// Create adds a comment to an existing post.
func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*entity.Comment, error) {
	if in.Sender == "" || in.PostID == "" {
		return nil, newError(KindValidation, MsgCommentMissing, nil)
	}
	_, err := s.Posts.FindByID(ctx, in.PostID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, newError(KindValidation, MsgUnknownPost(in.PostID), err)
	}
	if err != nil {
		s.Logger.WithError(err).WithField("post_id", in.PostID).Error("lookup post failed")
		return nil, newError(KindInternal, MsgInternal, err)
	}
	c := &entity.Comment{ID: uuid.NewString(), PostID: in.PostID, Sender: in.Sender, Content: in.Content}
	if err := s.Repo.Create(ctx, c); err != nil {
		s.Logger.WithError(err).Error("create comment failed")
		return nil, newError(KindInternal, MsgInternal, err)
	}
	return c, nil
}

func (s *CommentService) Get(ctx context.Context, id string) (*entity.Comment, error) {
	c, err := s.Repo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, newError(KindNotFound, MsgCommentNotFound(id), err)
	}
	if err != nil {
		s.Logger.WithError(err).WithField("comment_id", id).Error("get comment failed")
		return nil, newError(KindInternal, MsgInternal, err)
	}
	return c, nil
}

func (s *CommentService) List(ctx context.Context) ([]*entity.Comment, error) {
	comments, err := s.Repo.List(ctx)
	if err != nil {
		s.Logger.WithError(err).Error("list comments failed")
		return nil, newError(KindInternal, MsgInternal, err)
	}
	return comments, nil
}

func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]*entity.Comment, error) {
	comments, err := s.Repo.ListByPost(ctx, postID)
	if err != nil {
		s.Logger.WithError(err).WithField("post_id", postID).Error("list comments failed")
		return nil, newError(KindInternal, MsgInternal, err)
	}
	return comments, nil
}

func (s *CommentService) Update(ctx context.Context, id, content string) (*entity.Comment, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Content = content
	if err := s.Repo.Update(ctx, c); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, newError(KindNotFound, MsgCommentNotFound(id), err)
		}
		s.Logger.WithError(err).WithField("comment_id", id).Error("update comment failed")
		return nil, newError(KindInternal, MsgInternal, err)
	}
	return c, nil
}

func (s *CommentService) Delete(ctx context.Context, id string) error {
	err := s.Repo.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return newError(KindNotFound, MsgCommentNotFound(id), err)
	}
	if err != nil {
		s.Logger.WithError(err).WithField("comment_id", id).Error("delete comment failed")
		return newError(KindInternal, MsgInternal, err)
	}
	return nil
}
