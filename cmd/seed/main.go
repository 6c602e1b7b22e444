package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/mayakatsir/web-development-assignments/config"
	"github.com/mayakatsir/web-development-assignments/internal/application"
	"github.com/mayakatsir/web-development-assignments/internal/container"
	"github.com/mayakatsir/web-development-assignments/pkg/helpers"
)

const (
	demoUsername = "demoUser"
	demoEmail    = "demo@example.com"
	demoPassword = "password123"
)

// Seeds one demo user and a welcome post in the configured store.
func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to build dependencies")
	}
	defer c.Close()

	u, err := c.Repos.Users.FindByUsername(ctx, demoUsername)
	if err != nil {
		u, err = c.Users.Create(ctx, application.CreateUserInput{
			Username: demoUsername,
			Email:    demoEmail,
			Password: demoPassword,
		})
		if err != nil {
			logger.WithError(err).Fatal("failed to seed user")
		}
	}

	p, err := c.Posts.Create(ctx, application.CreatePostInput{
		Title:   "Hello from " + cfg.AppName,
		Content: "This post was created by the seeder.",
		Sender:  u.ID,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to seed post")
	}
	fmt.Printf("seeded user: id=%s username=%s password=%s\nseeded post: id=%s\n", u.ID, u.Username, demoPassword, p.ID)
}
