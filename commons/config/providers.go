package config

import (
	"context"
	"fmt"
	"strings"

	"libraryapi/commons/handler"
	"libraryapi/commons/routes"
	"libraryapi/commons/server"
	"libraryapi/internal/auth"
	cache "libraryapi/internal/cache/iface"
	"libraryapi/internal/cache/invalidation"
	memoryCache "libraryapi/internal/cache/memory"
	"libraryapi/internal/cache/output"
	redisCache "libraryapi/internal/cache/redis"
	appconfig "libraryapi/internal/config"
	coordinator "libraryapi/internal/coordinator/iface"
	natsCoordinator "libraryapi/internal/coordinator/nats"
	zkCoordinator "libraryapi/internal/coordinator/zk"
	"libraryapi/internal/hateoas"
	"libraryapi/internal/logger"
	"libraryapi/internal/repository/sqldb"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// ProvideConfig loads the application configuration from the environment
func ProvideConfig() (*appconfig.Config, error) {
	return appconfig.Load()
}

// ProvideLogger creates and configures the logger for the application
func ProvideLogger(cfg *appconfig.Config) (logger.Logger, error) {
	if cfg.Log.Format == "dev" {
		return logger.NewZapLoggerForDev()
	}
	return logger.NewZapLogger(cfg.Log.Level)
}

// ProvideFxLogger creates the FX event logger using the application logger
func ProvideFxLogger(log logger.Logger) fxevent.Logger {
	return &fxevent.ZapLogger{
		Logger: log.(*logger.ZapLogger).Logger(),
	}
}

// ProvideRouteDependencies creates route dependencies
func ProvideRouteDependencies(
	log logger.Logger,
	authz auth.Authorizer,
	tokens *auth.TokenIssuer,
	outputCache *output.Policy,
	recorder handler.ErrorRecorder,
) routes.RouteDependencies {
	return routes.RouteDependencies{
		Logger:      log,
		Authorizer:  authz,
		Tokens:      tokens,
		OutputCache: outputCache,
		Recorder:    recorder,
	}
}

// ProvideRouter creates and configures the Gin router with all routes
func ProvideRouter(
	config routes.RouterConfig,
	deps routes.RouteDependencies,
	routeInitializer func(*gin.Engine, routes.RouteDependencies),
) *gin.Engine {
	router := routes.NewRouter(config, deps)
	routeInitializer(router, deps)
	return router
}

func ProvideServerConfig(cfg *appconfig.Config) server.ServerConfig {
	return server.ServerConfig{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}
}

// ProvideSQLDatabase opens the catalog database and bootstraps its schema
func ProvideSQLDatabase(lc fx.Lifecycle, cfg *appconfig.Config, log logger.Logger) (*sqldb.DB, error) {
	db, err := sqldb.Open(context.Background(), sqldb.Dialect(cfg.Database.Driver), cfg.Database.DSN(), sqldb.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, log)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(context.Background()); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("closing database")
			return db.Close()
		},
	})

	return db, nil
}

// ProvideDynamoDBClient provides DynamoDB client
func ProvideDynamoDBClient(cfg *appconfig.Config) (*awsdynamodb.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.DynamoDB.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.DynamoDB.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDB.Endpoint)
		}
	}), nil
}

// ProvideCache provides the output cache store
func ProvideCache(lc fx.Lifecycle, cfg *appconfig.Config, log logger.Logger) (cache.Cache, error) {
	var (
		c   cache.Cache
		err error
	)

	switch cfg.Cache.Backend {
	case "memory":
		c = memoryCache.NewMemoryCache(memoryCache.Config{
			Capacity:           cfg.Cache.Capacity,
			NumShards:          cfg.Cache.Shards,
			TTL:                cfg.Cache.TTL,
			EvictionPercentage: cfg.Cache.EvictionPct,
		}, log)
	default:
		c, err = redisCache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			return nil, err
		}
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return c.Close()
		},
	})

	return c, nil
}

// ProvideBroadcaster connects the eviction fan-out between instances. It
// returns nil when broadcasting is disabled.
func ProvideBroadcaster(lc fx.Lifecycle, cfg *appconfig.Config, log logger.Logger) (coordinator.Broadcaster, error) {
	nodeID := uuid.New().String()

	var (
		b   coordinator.Broadcaster
		err error
	)

	switch strings.ToLower(cfg.Cache.Broadcast) {
	case "nats":
		b, err = natsCoordinator.NewNATSBroadcaster(cfg.Cache.NATSURL, cfg.Cache.NATSSubject, nodeID, log)
	case "zookeeper":
		b, err = zkCoordinator.NewZKCoordinator(cfg.Cache.ZKServers, cfg.Cache.ZKSessionTime, cfg.Cache.ZKRoot, nodeID, log)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return b.Close()
		},
	})

	return b, nil
}

func ProvideCacheCoordinator(c cache.Cache, b coordinator.Broadcaster, log logger.Logger) *invalidation.CacheCoordinator {
	return invalidation.NewCoordinator(c, b, log)
}

func ProvideInvalidationCoordinator(c *invalidation.CacheCoordinator) invalidation.Coordinator {
	return c
}

func ProvideOutputCachePolicy(c cache.Cache, cfg *appconfig.Config, log logger.Logger) *output.Policy {
	return &output.Policy{
		Store:  c,
		TTL:    cfg.Cache.TTL,
		Logger: log,
	}
}

func ProvideTokenIssuer(cfg *appconfig.Config) *auth.TokenIssuer {
	return auth.NewTokenIssuer(cfg.Auth.JWTKey, cfg.Auth.Issuer, cfg.Auth.TokenLifetime)
}

func ProvideAuthorizer(cfg *appconfig.Config, log logger.Logger) (auth.Authorizer, error) {
	return auth.NewPolicyEvaluator(cfg.Auth.Policies, log)
}

func ProvideLinkGenerator(authz auth.Authorizer, log logger.Logger) *hateoas.Generator {
	return hateoas.NewGenerator(authz, log)
}

// ManageCacheCoordinatorLifecycle subscribes to peer evictions once the app starts
func ManageCacheCoordinatorLifecycle(lc fx.Lifecycle, coord *invalidation.CacheCoordinator, log logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("listening for remote cache evictions")
			return coord.Listen(invalidation.AllTags)
		},
	})
}
