package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/mayakatsir/web-development-assignments/internal/interface/http"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/auth")
	g.POST("/register", m.Handler.Register)
	g.POST("/login", m.Handler.Login)
	g.POST("/refresh-token", m.Handler.RefreshToken)
	g.POST("/logout", m.Handler.Logout)
}
