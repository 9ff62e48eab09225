package routes

import (
	"net/http"

	"libraryapi/commons/handler"
	"libraryapi/internal/auth"
	"libraryapi/internal/cache/output"
	"libraryapi/internal/logger"
	"libraryapi/internal/query"

	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
}

type RouteDependencies struct {
	Logger     logger.Logger
	Authorizer auth.Authorizer
	Tokens     *auth.TokenIssuer
	// OutputCache is nil when responses are not cached.
	OutputCache *output.Policy
	Recorder    handler.ErrorRecorder
}

type RouteOptions[InputDto any, OutputDto any] struct {
	Path        string
	Method      string
	ServiceFunc handler.ServiceFunc[InputDto, OutputDto]
	RequireAuth bool
	// Policy names the authorization policy the caller must satisfy.
	Policy string
	// CacheTag stores anonymous GET responses in the output cache under this tag.
	CacheTag  string
	Decorator handler.ResponseDecorator
	// Headers are added to every response of the route.
	Headers map[string]string
}

// NewRouter builds the engine with the global middleware chain, in order:
// recovery, request id, CORS, request logging, static header, authentication.
func NewRouter(config RouterConfig, deps RouteDependencies) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(handler.ErrorHandlingMiddleware(deps.Logger, deps.Recorder))
	r.Use(handler.RequestIDMiddleware())
	r.Use(handler.CORSMiddleware(config.AllowedOrigins, query.TotalRecordsHeader))
	r.Use(handler.LoggingMiddleware(deps.Logger))
	r.Use(handler.HeaderMiddleware("my-header", "value"))
	if deps.Tokens != nil {
		r.Use(auth.Authenticate(deps.Tokens, deps.Logger))
	}

	// Set custom handlers for routing errors
	r.HandleMethodNotAllowed = true
	r.NoRoute(handler.NoRouteHandler())
	r.NoMethod(handler.NoMethodHandler())

	return r
}

func headersMiddleware(headers map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for k, v := range headers {
			c.Header(k, v)
		}
		c.Next()
	}
}

func RegisterRoute[InputDto any, OutputDto any](
	group gin.IRouter,
	deps RouteDependencies,
	options RouteOptions[InputDto, OutputDto],
) {
	handlerDeps := handler.HandlerDependencies{
		Logger: deps.Logger,
	}

	var chain []gin.HandlerFunc
	switch {
	case options.Policy != "":
		chain = append(chain, handler.PolicyMiddleware(deps.Authorizer, options.Policy, deps.Logger))
	case options.RequireAuth:
		chain = append(chain, handler.RequireAuthMiddleware())
	}
	if len(options.Headers) > 0 {
		chain = append(chain, headersMiddleware(options.Headers))
	}
	if options.CacheTag != "" && deps.OutputCache != nil && options.Method == http.MethodGet {
		chain = append(chain, deps.OutputCache.Middleware(options.CacheTag))
	}
	chain = append(chain, handler.HandleFunc(handlerDeps, options.ServiceFunc, options.Decorator))

	switch options.Method {
	case http.MethodGet:
		group.GET(options.Path, chain...)
	case http.MethodPost:
		group.POST(options.Path, chain...)
	case http.MethodPut:
		group.PUT(options.Path, chain...)
	case http.MethodDelete:
		group.DELETE(options.Path, chain...)
	case http.MethodPatch:
		group.PATCH(options.Path, chain...)
	default:
		deps.Logger.Error("unsupported HTTP method",
			logger.String("method", options.Method),
			logger.String("path", options.Path))
	}
}

func CreateAPIGroup(router *gin.Engine, version string) *gin.RouterGroup {
	return router.Group("/api/" + version)
}
