package application

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mayakatsir/web-development-assignments/internal/domain/entity"
	repo "github.com/mayakatsir/web-development-assignments/internal/domain/repository"
)

const MsgInternal = "Internal server error"

func MsgUserNotFound(id string) string { return "didn't find user with id: " + id }

// UserService is the admin-facing CRUD over user accounts.
type UserService struct {
	Repo   repo.UserRepository
	Hasher PasswordHasher
	Logger *logrus.Logger
}

func NewUserService(r repo.UserRepository, hasher PasswordHasher, logger *logrus.Logger) *UserService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &UserService{Repo: r, Hasher: hasher, Logger: logger}
}

type CreateUserInput struct {
	Username string
	Email    string
	Password string
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, newError(KindValidation, MsgRegisterMissing, nil)
	}
	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		s.Logger.WithError(err).Error("hash password failed")
		return nil, newError(KindInternal, MsgInternal, err)
	}
	u := &entity.User{ID: uuid.NewString(), Username: in.Username, Email: in.Email, Password: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, newError(KindConflict, msgUsernameTaken(in.Username), err)
		}
		s.Logger.WithError(err).Error("create user failed")
		return nil, newError(KindInternal, MsgInternal, err)
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Repo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, newError(KindNotFound, MsgUserNotFound(id), err)
	}
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", id).Error("get user failed")
		return nil, newError(KindInternal, MsgInternal, err)
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]*entity.User, error) {
	users, err := s.Repo.List(ctx)
	if err != nil {
		s.Logger.WithError(err).Error("list users failed")
		return nil, newError(KindInternal, MsgInternal, err)
	}
	return users, nil
}

// UpdateUserInput holds optional fields; nil leaves the value unchanged.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
}

func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (*entity.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Username != nil && *in.Username != "" {
		u.Username = *in.Username
	}
	if in.Email != nil && *in.Email != "" {
		u.Email = *in.Email
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := s.Hasher.Hash(*in.Password)
		if err != nil {
			s.Logger.WithError(err).WithField("user_id", id).Error("hash password failed")
			return nil, newError(KindInternal, MsgInternal, err)
		}
		u.Password = hash
	}
	if err := s.Repo.Save(ctx, u); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			return nil, newError(KindConflict, msgUsernameTaken(u.Username), err)
		case errors.Is(err, repo.ErrNotFound):
			return nil, newError(KindNotFound, MsgUserNotFound(id), err)
		}
		s.Logger.WithError(err).WithField("user_id", id).Error("update user failed")
		return nil, newError(KindInternal, MsgInternal, err)
	}
	return u, nil
}

// Delete removes the user with their posts and comments.
func (s *UserService) Delete(ctx context.Context, id string) error {
	err := s.Repo.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return newError(KindNotFound, MsgUserNotFound(id), err)
	}
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", id).Error("delete user failed")
		return newError(KindInternal, MsgInternal, err)
	}
	s.Logger.WithField("user_id", id).Info("user deleted")
	return nil
}
