package repository

import (
	"context"

	"github.com/mayakatsir/web-development-assignments/internal/domain/entity"
)

// UserRepository defines the persistence operations for users and their
// refresh-token sets. Every refresh-token method is a single atomic update of
// one user record.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	List(ctx context.Context) ([]*entity.User, error)
	// Save writes username, email and password of u. The refresh-token set is
	// left untouched; use the dedicated methods for it.
	Save(ctx context.Context, u *entity.User) error
	// Delete removes the user together with their posts and comments.
	Delete(ctx context.Context, id string) error

	AddRefreshToken(ctx context.Context, userID, token string) error
	// RotateRefreshToken replaces oldToken with newToken only if oldToken is
	// currently in the set; otherwise it returns ErrRefreshTokenNotActive.
	RotateRefreshToken(ctx context.Context, userID, oldToken, newToken string) error
	RemoveRefreshToken(ctx context.Context, userID, token string) error
	ClearRefreshTokens(ctx context.Context, userID string) error
}
