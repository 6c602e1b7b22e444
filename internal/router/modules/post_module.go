package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/mayakatsir/web-development-assignments/internal/interface/http"
	"github.com/mayakatsir/web-development-assignments/internal/interface/middleware"
)

type PostModule struct {
	Handler *handlers.PostHandler
	JWT     middleware.AccessVerifier
}

func NewPostModule(h *handlers.PostHandler, jwt middleware.AccessVerifier) *PostModule {
	return &PostModule{Handler: h, JWT: jwt}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/post")
	g.GET("", m.Handler.List)
	g.GET("/search", m.Handler.Search)
	g.GET("/:id", m.Handler.Get)

	auth := g.Group("")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.POST("", m.Handler.Create)
		auth.PUT("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
		auth.POST("/:id/image", m.Handler.UploadImage)
	}
}
