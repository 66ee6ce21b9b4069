package container

import (
	"havenrp-web/internal/config"
	"havenrp-web/internal/service"
	"havenrp-web/internal/service/auth"
	"havenrp-web/internal/service/council"
	"havenrp-web/internal/service/discord"
	"havenrp-web/internal/service/fivem"
	"havenrp-web/internal/service/store"
	"havenrp-web/pkg/logger"
	"havenrp-web/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	RedisClient *redis.Client

	Auth       service.AuthService
	Council    *service.CouncilService
	Admin      *service.CouncilAdminService
	Directory  *service.DirectoryService
	Storefront *service.StorefrontService
	Fivem      service.FivemAPI
}

// New creates a new dependency injection container
func New(cfg *config.Config, log *logger.Logger) (*Container, error) {
	// Redis is optional; without it every read goes straight to the remote APIs
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Redis client, proceeding without caching")
		} else {
			redisClient = client
			log.Info("Redis client initialized successfully")
		}
	} else {
		log.Info("Redis URL not configured, proceeding without caching")
	}

	var cache *service.CacheService
	if redisClient != nil {
		cache = service.NewCacheService(redisClient, log.Logger)
	}

	councilClient := council.NewClient(cfg, log)
	directoryClient := discord.NewService(cfg, log)
	storeClient := store.NewService(cfg, log)
	fivemClient := fivem.NewService(cfg, log)

	return &Container{
		Config:      cfg,
		Logger:      log,
		RedisClient: redisClient,
		Auth:        auth.NewService(cfg.SupabaseJWTSecret, log),
		Council:     service.NewCouncilService(councilClient, cache, log.Logger),
		Admin:       service.NewCouncilAdminService(councilClient, cache, log.Logger),
		Directory:   service.NewDirectoryService(directoryClient, cache, log.Logger),
		Storefront:  service.NewStorefrontService(storeClient, cache, log.Logger),
		Fivem:       fivemClient,
	}, nil
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// HasRedis returns true if the Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}

// Close releases held resources
func (c *Container) Close() error {
	if c.RedisClient != nil {
		return c.RedisClient.Close()
	}
	return nil
}
