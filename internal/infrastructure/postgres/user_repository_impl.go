package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mayakatsir/web-development-assignments/internal/domain/entity"
	"github.com/mayakatsir/web-development-assignments/internal/domain/repository"
)

const userColumns = `id::text, username, email, password_hash, refresh_tokens, created_at, updated_at`

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.RefreshTokens,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	tokens := u.RefreshTokens
	if tokens == nil {
		tokens = []string{}
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (id, username, email, password_hash, refresh_tokens)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, u.ID, u.Username, u.Email, u.Password, tokens)

	return mapErr(row.Scan(&u.CreatedAt, &u.UpdatedAt))
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	return exists, err
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*entity.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Save(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		UPDATE users
		SET username = $1, email = $2, password_hash = $3, updated_at = now()
		WHERE id = $4
		RETURNING updated_at
	`, u.Username, u.Email, u.Password, u.ID)

	return mapErr(row.Scan(&u.UpdatedAt))
}

// Delete removes the user, their posts, their comments and every comment on
// their posts in one transaction.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE sender = $1`, id); err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}
	// comments on the user's posts go with them through ON DELETE CASCADE
	if _, err := tx.Exec(ctx, `DELETE FROM posts WHERE sender = $1`, id); err != nil {
		return fmt.Errorf("delete posts: %w", err)
	}
	res, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return tx.Commit(ctx)
}

func (r *UserRepository) AddRefreshToken(ctx context.Context, userID, token string) error {
	return r.execOne(ctx, `
		UPDATE users SET refresh_tokens = array_append(refresh_tokens, $2), updated_at = now()
		WHERE id = $1
	`, repository.ErrNotFound, userID, token)
}

func (r *UserRepository) RotateRefreshToken(ctx context.Context, userID, oldToken, newToken string) error {
	return r.execOne(ctx, `
		UPDATE users
		SET refresh_tokens = array_append(array_remove(refresh_tokens, $2), $3), updated_at = now()
		WHERE id = $1 AND $2 = ANY (refresh_tokens)
	`, repository.ErrRefreshTokenNotActive, userID, oldToken, newToken)
}

func (r *UserRepository) RemoveRefreshToken(ctx context.Context, userID, token string) error {
	return r.execOne(ctx, `
		UPDATE users SET refresh_tokens = array_remove(refresh_tokens, $2), updated_at = now()
		WHERE id = $1
	`, repository.ErrNotFound, userID, token)
}

func (r *UserRepository) ClearRefreshTokens(ctx context.Context, userID string) error {
	return r.execOne(ctx, `
		UPDATE users SET refresh_tokens = '{}', updated_at = now()
		WHERE id = $1
	`, repository.ErrNotFound, userID)
}

// execOne runs a single-row update and returns missing when no row matched.
func (r *UserRepository) execOne(ctx context.Context, sql string, missing error, args ...any) error {
	res, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return missing
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
