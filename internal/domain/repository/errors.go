package repository

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
	// ErrRefreshTokenNotActive is returned by RotateRefreshToken when the
	// token to replace is no longer in the user's set.
	ErrRefreshTokenNotActive = errors.New("refresh token not active")
)
