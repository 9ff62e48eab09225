package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"libraryapi/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

type HTTPServer struct {
	server *http.Server
	logger logger.Logger
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

func NewHTTPServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	config ServerConfig,
	log logger.Logger,
) *HTTPServer {
	srv := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           router,
		ReadTimeout:       config.ReadTimeout,
		ReadHeaderTimeout: config.ReadTimeout,
		WriteTimeout:      config.WriteTimeout,
	}

	httpServer := &HTTPServer{
		server: srv,
		logger: log.With(logger.String("component", "http_server")),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			httpServer.logger.Info("starting HTTP server", logger.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					httpServer.logger.Fatal("failed to start HTTP server", logger.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			httpServer.logger.Info("shutting down HTTP server",
				logger.Duration("grace", config.ShutdownTimeout))
			if config.ShutdownTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, config.ShutdownTimeout)
				defer cancel()
			}
			if err := srv.Shutdown(ctx); err != nil {
				httpServer.logger.Warn("in-flight requests cut off at shutdown", logger.Error(err))
				return err
			}
			return nil
		},
	})

	return httpServer
}

// Addr is the listen address of the catalog API.
func (s *HTTPServer) Addr() string {
	return s.server.Addr
}
