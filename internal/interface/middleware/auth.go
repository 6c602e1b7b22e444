package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mayakatsir/web-development-assignments/pkg/helpers"
	"github.com/mayakatsir/web-development-assignments/pkg/response"
)

// CtxUserIDKey is the gin context key holding the authenticated user id.
const CtxUserIDKey = "userID"

type userIDKey struct{}

// AccessVerifier checks access tokens. helpers.JWTManager implements it.
type AccessVerifier interface {
	ParseAccessToken(token string) (*helpers.Claims, error)
}

// Auth requires "Authorization: Bearer <access token>". The user id from the
// token is stored in the gin context and in the request context.
func Auth(tokens AccessVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || scheme != "Bearer" || strings.TrimSpace(token) == "" {
			response.Unauthorized(c)
			return
		}
		claims, err := tokens.ParseAccessToken(strings.TrimSpace(token))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Request = c.Request.WithContext(WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext returns the user id set by Auth.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey{}).(string)
	return id, ok && id != ""
}
