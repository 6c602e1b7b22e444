package router

import (
	"github.com/mayakatsir/web-development-assignments/internal/container"
	handlers "github.com/mayakatsir/web-development-assignments/internal/interface/http"
	"github.com/mayakatsir/web-development-assignments/internal/router/modules"
)

// InitModules builds the handlers from c and registers every route module.
func InitModules(r *Registry, c *container.Container) {
	r.Add(modules.NewHealthModule(handlers.NewHealthHandler(c.Checks)))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(c.Auth)))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(c.Users), c.JWT))
	r.Add(modules.NewPostModule(handlers.NewPostHandler(c.Posts), c.JWT))
	r.Add(modules.NewCommentModule(handlers.NewCommentHandler(c.Comments), c.JWT))
	if c.Config.MetricsEnabled {
		r.Add(modules.NewMetricsModule())
	}
}
