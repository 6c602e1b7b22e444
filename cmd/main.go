package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/mayakatsir/web-development-assignments/config"
	"github.com/mayakatsir/web-development-assignments/internal/container"
	"github.com/mayakatsir/web-development-assignments/internal/router"
	"github.com/mayakatsir/web-development-assignments/pkg/helpers"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)

	if cfg.AccessOutlivesRefresh() {
		logger.WithFields(logrus.Fields{
			"access_ttl":  cfg.AccessTTL.String(),
			"refresh_ttl": cfg.RefreshTTL.String(),
		}).Warn("access token lifetime is not shorter than refresh token lifetime")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := helpers.InitTracing(ctx, logger, cfg.OTLPEndpoint, cfg.AppName, cfg.Env)
	if err != nil {
		logger.WithError(err).Fatal("failed to init tracing")
	}

	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to build dependencies")
	}
	defer c.Close()

	var handler http.Handler = router.NewEngine(c)
	if cfg.OTLPEndpoint != "" {
		handler = otelhttp.NewHandler(handler, cfg.AppName)
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.WithFields(logrus.Fields{"port": cfg.Port, "store": cfg.StoreDriver}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("listen")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}
	if err := shutdownTracing(ctxShutdown); err != nil {
		logger.WithError(err).Warn("tracing shutdown")
	}
	logger.Info("server exited properly")
}
