package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mayakatsir/web-development-assignments/internal/container"
	"github.com/mayakatsir/web-development-assignments/internal/interface/middleware"
	"github.com/mayakatsir/web-development-assignments/pkg/validation"
)

// NewEngine returns a gin engine with the global middleware and every module
// mounted.
func NewEngine(c *container.Container) *gin.Engine {
	validation.Init()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	r.Use(cors.New(corsConfig(c.Config.CORSOrigins())))

	reg := NewRegistry(r)
	if c.Config.MetricsEnabled {
		reg.Use(middleware.HTTPMetrics())
	}
	if c.Config.HTTPLogEnabled || c.Config.Env == "development" {
		reg.Use(middleware.RequestLogger(c.Logger))
	}
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}

// corsConfig allows the listed origins with credentials. With no list every
// origin is allowed and credentials are not.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
