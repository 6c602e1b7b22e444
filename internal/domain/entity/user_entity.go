package entity

import (
	"slices"
	"time"
)

// User is the aggregate root for the identity domain.
// Password holds the bcrypt hash, never the raw password.
//
// RefreshTokens is the ordered set of refresh tokens that are still valid for
// this user, most recent last.
type User struct {
	ID            string    `json:"id" bson:"_id"`
	Username      string    `json:"username" bson:"username"`
	Email         string    `json:"email" bson:"email"`
	Password      string    `json:"-" bson:"password"`
	RefreshTokens []string  `json:"-" bson:"refreshTokens"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

// HasRefreshToken reports whether token is in the user's active set.
func (u *User) HasRefreshToken(token string) bool {
	return slices.Contains(u.RefreshTokens, token)
}
