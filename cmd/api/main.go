package main

import (
	"libraryapi/commons/config"
	"libraryapi/commons/server"
	internalConfig "libraryapi/internal/config"
	"libraryapi/internal/logger"

	"go.uber.org/fx"
)

func main() {
	fx.New(
		fx.WithLogger(config.ProvideFxLogger),
		fx.Provide(
			config.ProvideConfig,
			config.ProvideLogger,
			config.ProvideSQLDatabase,
			config.ProvideDynamoDBClient,
			config.ProvideCache,
			config.ProvideBroadcaster,
			config.ProvideCacheCoordinator,
			config.ProvideInvalidationCoordinator,
			config.ProvideOutputCachePolicy,
			config.ProvideTokenIssuer,
			config.ProvideAuthorizer,
			config.ProvideLinkGenerator,
			config.ProvideRouteDependencies,
			config.ProvideServerConfig,
			config.ProvideRouter,
			server.NewHTTPServer,
		),
		internalConfig.Module(),
		fx.Invoke(
			config.ManageCacheCoordinatorLifecycle,
			internalConfig.ManageDynamoDBTables,
			func(srv *server.HTTPServer, log logger.Logger) {
				log.Info("library api configured", logger.String("addr", srv.Addr()))
			},
		),
	).Run()
}
