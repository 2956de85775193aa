package app

import (
	"context"
	"fmt"

	"github.com/MARYAMM27/portfolio-bot-go/internal/adapter"
	"github.com/MARYAMM27/portfolio-bot-go/internal/bot"
	"github.com/MARYAMM27/portfolio-bot-go/internal/command"
	"github.com/MARYAMM27/portfolio-bot-go/internal/config"
	"github.com/MARYAMM27/portfolio-bot-go/internal/constants"
	"github.com/MARYAMM27/portfolio-bot-go/internal/metrics"
	"github.com/MARYAMM27/portfolio-bot-go/internal/nlu"
	"github.com/MARYAMM27/portfolio-bot-go/internal/server"
	"github.com/MARYAMM27/portfolio-bot-go/internal/service/cache"
	"github.com/MARYAMM27/portfolio-bot-go/internal/service/database"
	"github.com/MARYAMM27/portfolio-bot-go/internal/service/profile"
	"github.com/MARYAMM27/portfolio-bot-go/internal/service/project"
	"go.uber.org/zap"
)

// Container bundles the assembled services.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Metrics    *metrics.Metrics
	Database   *database.Service
	Cache      *cache.CacheService
	Repository *profile.Repository
	Projects   *project.Store
	Snapshots  *profile.SnapshotStore
	Feed       *profile.Feed
	Assistant  *bot.Assistant
	Server     *server.Server

	closers []func()
}

// Build assembles all infrastructure services. Redis is optional: without it
// there is no snapshot cache and no stored project list.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c := &Container{Config: cfg, Logger: logger, Metrics: metrics.New()}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	if cfg.Redis.Enabled {
		cacheSvc, cacheErr := OpenCache(cfg, logger)
		if cacheErr != nil {
			return nil, fmt.Errorf("failed to create cache service: %w", cacheErr)
		}
		c.Cache = cacheSvc
		c.closers = append(c.closers, func() { _ = cacheSvc.Close() })
		c.Projects = project.NewStore(cacheSvc, logger)
	}

	dbSvc, err := OpenDatabase(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create database service: %w", err)
	}
	c.Database = dbSvc
	c.closers = append(c.closers, func() { _ = dbSvc.Close() })

	c.Repository = NewRepository(dbSvc, cfg, logger)
	if err := c.Repository.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	c.Snapshots = profile.NewSnapshotStore()

	feedDeps := profile.FeedDependencies{
		Loader:  c.Repository,
		Store:   c.Snapshots,
		Cache:   c.Cache,
		Metrics: c.Metrics,
		Logger:  logger,
	}
	if c.Projects != nil {
		feedDeps.Projects = c.Projects
	}
	feedCfg := profile.FeedConfig{
		Interval:   cfg.Profile.RefreshInterval,
		CacheTTL:   cfg.Profile.CacheTTL,
		DocumentID: cfg.Profile.DocumentID,
	}
	if dbSvc.Driver() == database.DriverPostgres {
		feedCfg.ListenerDSN = dbSvc.DSN()
		feedCfg.NotifyChannel = cfg.Profile.NotifyChannel
	}
	c.Feed = profile.NewFeed(feedDeps, feedCfg)

	if c.Projects != nil {
		feed := c.Feed
		c.Projects.OnChange(func() {
			refreshCtx, cancel := context.WithTimeout(context.Background(), constants.RefreshConfig.LoadTimeout)
			defer cancel()
			_ = feed.Refresh(refreshCtx)
		})
	}

	formatter := adapter.NewResponseFormatter()
	c.Assistant = bot.NewAssistant(bot.Dependencies{
		Normalizer: nlu.NewNormalizer(nlu.DefaultSynonymTable(), cfg.Bot.MatchMode),
		Registry:   command.NewDefaultRegistry(formatter, cfg.Bot.MatchMode),
		Formatter:  formatter,
		Profiles:   c.Snapshots,
		Projects:   c.Snapshots,
		Logger:     logger,
		OnAnswer:   c.Metrics.ObserveAnswer,
	})

	checks := map[string]server.HealthCheck{
		"database": dbSvc.Ping,
	}
	if c.Cache != nil {
		cacheSvc := c.Cache
		checks["redis"] = func(ctx context.Context) error {
			if !cacheSvc.IsConnected(ctx) {
				return fmt.Errorf("redis unreachable")
			}
			return nil
		}
	}

	c.Server = server.New(server.Dependencies{
		Assistant: c.Assistant,
		Adapter:   adapter.NewMessageAdapter(constants.InputLimits.MaxQueryLength),
		Metrics:   c.Metrics,
		Checks:    checks,
		Logger:    logger,
	}, server.Options{
		Addr:              cfg.Server.Addr,
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		ResponseDelay:     cfg.Bot.ResponseDelay,
		MinQueryLength:    cfg.Bot.MinQueryLength,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	})

	logger.Info("Application services assembled",
		zap.String("db_driver", dbSvc.Driver()),
		zap.Bool("redis", c.Cache != nil),
		zap.String("match_mode", cfg.Bot.MatchMode.String()),
	)
	return c, nil
}

// Close releases infrastructure in reverse order of acquisition.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

func OpenCache(cfg *config.Config, logger *zap.Logger) (*cache.CacheService, error) {
	return cache.NewCacheService(cache.CacheConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
}

func OpenDatabase(cfg *config.Config, logger *zap.Logger) (*database.Service, error) {
	switch cfg.Database.Driver {
	case database.DriverPostgres:
		return database.NewPostgresService(database.PostgresConfig{
			Host:     cfg.Database.Postgres.Host,
			Port:     cfg.Database.Postgres.Port,
			User:     cfg.Database.Postgres.User,
			Password: cfg.Database.Postgres.Password,
			Database: cfg.Database.Postgres.Database,
			SSLMode:  cfg.Database.Postgres.SSLMode,
		}, logger)
	case database.DriverSQLite:
		return database.NewSQLiteService(cfg.Database.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func NewRepository(dbSvc *database.Service, cfg *config.Config, logger *zap.Logger) *profile.Repository {
	return profile.NewRepository(dbSvc, profile.RepositoryConfig{
		DocumentID:    cfg.Profile.DocumentID,
		NotifyChannel: cfg.Profile.NotifyChannel,
	}, logger)
}
