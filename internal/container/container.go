// Package container builds every long-lived dependency from one Config and
// hands them to the router. There are no package-level singletons.
package container

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/mayakatsir/web-development-assignments/config"
	"github.com/mayakatsir/web-development-assignments/internal/application"
	repo "github.com/mayakatsir/web-development-assignments/internal/domain/repository"
	"github.com/mayakatsir/web-development-assignments/internal/infrastructure/memory"
	"github.com/mayakatsir/web-development-assignments/internal/infrastructure/mongodb"
	pginfra "github.com/mayakatsir/web-development-assignments/internal/infrastructure/postgres"
	handlers "github.com/mayakatsir/web-development-assignments/internal/interface/http"
	"github.com/mayakatsir/web-development-assignments/pkg/helpers"
	"github.com/mayakatsir/web-development-assignments/pkg/mailer"
	"github.com/mayakatsir/web-development-assignments/pkg/mailer/templates"
)

type Repositories struct {
	Users    repo.UserRepository
	Posts    repo.PostRepository
	Comments repo.CommentRepository
}

type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	JWT    *helpers.JWTManager

	Repos Repositories

	Auth     *application.AuthService
	Users    *application.UserService
	Posts    *application.PostService
	Comments *application.CommentService

	// Checks feed GET /healthz.
	Checks map[string]handlers.Check

	closers []func()
}

// New connects the configured store and the optional Redis, RabbitMQ,
// Elasticsearch and GCS integrations, then builds the services.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
		JWT:    helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL),
		Checks: map[string]handlers.Check{},
	}
	if err := c.openStore(ctx); err != nil {
		c.Close()
		return nil, err
	}
	c.buildServices()
	if err := c.attachIntegrations(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// NewWithRepositories builds services over the given repositories with no
// external integrations.
func NewWithRepositories(cfg *config.Config, logger *logrus.Logger, repos Repositories) *Container {
	c := &Container{
		Config: cfg,
		Logger: logger,
		JWT:    helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL),
		Repos:  repos,
		Checks: map[string]handlers.Check{},
	}
	c.buildServices()
	return c
}

func (c *Container) openStore(ctx context.Context) error {
	switch c.Config.StoreDriver {
	case config.DriverMemory:
		store := memory.NewStore()
		c.Repos = Repositories{Users: store.Users(), Posts: store.Posts(), Comments: store.Comments()}
		c.Logger.Warn("using in-memory store; data is lost on restart")
		return nil

	case config.DriverMongo:
		client, db, err := mongodb.Connect(ctx, c.Config.MongoURI, c.Config.MongoDatabase)
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		c.onClose(func() { _ = client.Disconnect(context.Background()) })
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			return fmt.Errorf("mongo indexes: %w", err)
		}
		c.Repos = Repositories{
			Users:    mongodb.NewUserRepository(db),
			Posts:    mongodb.NewPostRepository(db),
			Comments: mongodb.NewCommentRepository(db),
		}
		c.Checks["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		return nil

	default:
		pool, err := pginfra.NewPool(ctx, c.Config)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		c.onClose(pool.Close)
		if err := pginfra.RunMigrations(c.Config.PostgresDSN(), c.Config.MigrationsDir, c.Logger); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		c.usePostgres(pool)
		return nil
	}
}

func (c *Container) usePostgres(pool *pgxpool.Pool) {
	c.Repos = Repositories{
		Users:    pginfra.NewUserRepository(pool),
		Posts:    pginfra.NewPostRepository(pool),
		Comments: pginfra.NewCommentRepository(pool),
	}
	c.Checks["postgres"] = pool.Ping
}

func (c *Container) buildServices() {
	hasher := helpers.BcryptHasher{}
	c.Auth = application.NewAuthService(c.Repos.Users, hasher, c.JWT, c.Logger)
	c.Users = application.NewUserService(c.Repos.Users, hasher, c.Logger)
	c.Posts = application.NewPostService(c.Repos.Posts, c.Logger)
	c.Comments = application.NewCommentService(c.Repos.Comments, c.Repos.Posts, c.Logger)
}

func (c *Container) attachIntegrations(ctx context.Context) error {
	cfg := c.Config

	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		c.onClose(func() { _ = rdb.Close() })
		c.useRedis(rdb)
	}

	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue, cfg.AppName)
		if err != nil {
			return fmt.Errorf("connect rabbitmq: %w", err)
		}
		c.onClose(pub.Close)
		c.Auth.Notifier = mailer.NewNotifier(pub, templates.NewBranding(cfg))
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			return fmt.Errorf("elasticsearch: %w", err)
		}
		c.Posts.Search = helpers.NewESIndex(es, cfg.ESPostsIndex, "title^2", "content", "sender")
	}

	if cfg.GCSBucket != "" {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return fmt.Errorf("gcs: %w", err)
		}
		c.onClose(func() { _ = gcs.Close() })
		c.useImages(gcs)
	}
	return nil
}

func (c *Container) useRedis(rdb *redis.Client) {
	c.Auth.Locker = helpers.NewRedisLocker(rdb, "blog:lock:", c.Config.LockTTL, c.Config.LockWait)
	c.Checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
}

func (c *Container) useImages(gcs *storage.Client) {
	c.Posts.Images = helpers.NewGCSUploader(gcs, c.Config.GCSBucket)
}

func (c *Container) onClose(fn func()) { c.closers = append(c.closers, fn) }

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
