package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/mayakatsir/web-development-assignments/internal/interface/http"
	"github.com/mayakatsir/web-development-assignments/internal/interface/middleware"
)

type CommentModule struct {
	Handler *handlers.CommentHandler
	JWT     middleware.AccessVerifier
}

func NewCommentModule(h *handlers.CommentHandler, jwt middleware.AccessVerifier) *CommentModule {
	return &CommentModule{Handler: h, JWT: jwt}
}

func (m *CommentModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/comment")
	g.GET("", m.Handler.List)
	g.GET("/:id", m.Handler.Get)
	g.GET("/post/:postId", m.Handler.ListByPost)

	auth := g.Group("")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.POST("", m.Handler.Create)
		auth.PUT("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
	}
}
