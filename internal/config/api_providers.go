package config

import (
	"context"

	"libraryapi/commons/handler"
	"libraryapi/commons/routes"
	internalHandler "libraryapi/internal/handler"
	"libraryapi/internal/hateoas"
	"libraryapi/internal/logger"
	"libraryapi/internal/query"
	"libraryapi/internal/repository/dynamodb"
	repository "libraryapi/internal/repository/iface"
	"libraryapi/internal/repository/sqldb"
	internalRoutes "libraryapi/internal/routes"
	"libraryapi/internal/service"
	"libraryapi/internal/validation"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

const serviceName = "library-api"

// Repository Providers

func ProvideAuthorRepository(db *sqldb.DB, log logger.Logger) repository.AuthorRepository {
	return sqldb.NewAuthorRepository(db, log)
}

func ProvideBookRepository(db *sqldb.DB, log logger.Logger) repository.BookRepository {
	return sqldb.NewBookRepository(db, log)
}

func ProvideUserRepository(db *sqldb.DB, log logger.Logger) repository.UserRepository {
	return sqldb.NewUserRepository(db, log)
}

func ProvideCommentRepository(client *awsdynamodb.Client, cfg *Config, log logger.Logger) repository.CommentRepository {
	return dynamodb.NewCommentRepository(client, cfg.DynamoDB.CommentsTable, log)
}

func ProvideErrorLogRepository(client *awsdynamodb.Client, cfg *Config, log logger.Logger) repository.ErrorLogRepository {
	return dynamodb.NewErrorLogRepository(client, cfg.DynamoDB.ErrorsTable, log)
}

// Service Providers

func ProvideFilterBuilder(log logger.Logger) *query.FilterBuilder {
	return query.NewFilterBuilder(log)
}

func ProvideErrorRecorder(errorLog *service.ErrorLog) handler.ErrorRecorder {
	return errorLog
}

// HTTP Providers

func ProvideHealthHandler(
	log logger.Logger,
	db *sqldb.DB,
	client *awsdynamodb.Client,
	cfg *Config,
) *internalHandler.HealthHandler {
	return internalHandler.NewHealthHandler(log, serviceName, map[string]internalHandler.HealthCheck{
		"database": db.Ping,
		"dynamodb": func(ctx context.Context) error {
			_, err := client.DescribeTable(ctx, &awsdynamodb.DescribeTableInput{
				TableName: aws.String(cfg.DynamoDB.CommentsTable),
			})
			return err
		},
	})
}

func ProvideRouterConfig(cfg *Config) routes.RouterConfig {
	return routes.RouterConfig{
		ServiceName:    serviceName,
		Version:        "v1",
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}
}

func ProvideRouteInitializer(
	healthHandler *internalHandler.HealthHandler,
	rootHandler *internalHandler.RootHandler,
	authorHandler *internalHandler.AuthorHandler,
	collectionHandler *internalHandler.AuthorCollectionHandler,
	bookHandler *internalHandler.BookHandler,
	commentHandler *internalHandler.CommentHandler,
	userHandler *internalHandler.UserHandler,
	generator *hateoas.Generator,
) func(*gin.Engine, routes.RouteDependencies) {
	return func(router *gin.Engine, deps routes.RouteDependencies) {
		internalRoutes.InitHealthRoutes(router, healthHandler, deps)
		internalRoutes.InitRootRoutes(router, rootHandler, deps)
		internalRoutes.InitAuthorRoutes(router, authorHandler, generator, deps)
		internalRoutes.InitAuthorV2Routes(router, authorHandler, deps)
		internalRoutes.InitAuthorCollectionRoutes(router, collectionHandler, deps)
		internalRoutes.InitBookRoutes(router, bookHandler, deps)
		internalRoutes.InitCommentRoutes(router, commentHandler, deps)
		internalRoutes.InitUserRoutes(router, userHandler, deps)
	}
}

// Module wires repositories, services and handlers of the API.
func Module() fx.Option {
	return fx.Module("library",
		fx.Provide(
			ProvideAuthorRepository,
			ProvideBookRepository,
			ProvideUserRepository,
			ProvideCommentRepository,
			ProvideErrorLogRepository,
			ProvideFilterBuilder,
			service.NewAuthorService,
			service.NewBookService,
			service.NewCommentService,
			service.NewUserService,
			service.NewErrorLog,
			ProvideErrorRecorder,
			ProvideHealthHandler,
			internalHandler.NewRootHandler,
			internalHandler.NewAuthorHandler,
			internalHandler.NewAuthorCollectionHandler,
			internalHandler.NewBookHandler,
			internalHandler.NewCommentHandler,
			internalHandler.NewUserHandler,
			ProvideRouterConfig,
			ProvideRouteInitializer,
		),
		fx.Invoke(validation.RegisterGin),
	)
}

// Lifecycle Management

// ManageDynamoDBTables creates the comment and error tables when missing.
func ManageDynamoDBTables(lc fx.Lifecycle, client *awsdynamodb.Client, cfg *Config, log logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return dynamodb.EnsureTables(ctx, client, cfg.DynamoDB.CommentsTable, cfg.DynamoDB.ErrorsTable, log)
		},
	})
}
