package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayakatsir/web-development-assignments/internal/domain/entity"
	"github.com/mayakatsir/web-development-assignments/internal/domain/repository"
)

func newUsersWithMock(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return NewUserRepository(mock), mock
}

var rotateSQL = regexp.QuoteMeta(`WHERE id = $1 AND $2 = ANY (refresh_tokens)`)

func TestRotateRefreshToken(t *testing.T) {
	repo, mock := newUsersWithMock(t)
	mock.ExpectExec(rotateSQL).
		WithArgs("u1", "old", "new").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, repo.RotateRefreshToken(context.Background(), "u1", "old", "new"))
}

func TestRotateRefreshTokenNoLongerActive(t *testing.T) {
	repo, mock := newUsersWithMock(t)
	mock.ExpectExec(rotateSQL).
		WithArgs("u1", "old", "new").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.RotateRefreshToken(context.Background(), "u1", "old", "new")
	assert.ErrorIs(t, err, repository.ErrRefreshTokenNotActive)
}

func TestAddRefreshTokenUnknownUser(t *testing.T) {
	repo, mock := newUsersWithMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`array_append(refresh_tokens, $2)`)).
		WithArgs("u1", "tok").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.ErrorIs(t, repo.AddRefreshToken(context.Background(), "u1", "tok"), repository.ErrNotFound)
}

func TestCreateDuplicateUsername(t *testing.T) {
	repo, mock := newUsersWithMock(t)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("u1", "bob", "bob@x.com", "hash", []string{}).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	err := repo.Create(context.Background(), &entity.User{ID: "u1", Username: "bob", Email: "bob@x.com", Password: "hash"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestDeleteUnknownUserRollsBack(t *testing.T) {
	repo, mock := newUsersWithMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM comments WHERE sender`).WithArgs("u1").WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM posts WHERE sender`).WithArgs("u1").WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM users WHERE id`).WithArgs("u1").WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.Delete(context.Background(), "u1"), repository.ErrNotFound)
}
