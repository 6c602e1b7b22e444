package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/mayakatsir/web-development-assignments/internal/interface/http"
	"github.com/mayakatsir/web-development-assignments/internal/interface/middleware"
)

type UserModule struct {
	Handler *handlers.UserHandler
	JWT     middleware.AccessVerifier
}

func NewUserModule(h *handlers.UserHandler, jwt middleware.AccessVerifier) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/user")
	g.GET("", m.Handler.List)
	g.GET("/:id", m.Handler.Get)

	auth := g.Group("")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.POST("", m.Handler.Create)
		auth.PUT("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
	}
}
