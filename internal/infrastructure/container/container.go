// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"net/http"

	"github.com/bunnybakes/v1/internal/infrastructure/ai/gemini"
	"github.com/bunnybakes/v1/internal/infrastructure/config"
	"github.com/bunnybakes/v1/internal/infrastructure/http/webserver"
	"github.com/bunnybakes/v1/internal/ports/outbound"
	"github.com/bunnybakes/v1/pkg/logger"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	AIModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: !cfg.IsProduction(),
		})
	},
	func(log *zap.Logger) *zap.SugaredLogger {
		return log.Sugar()
	},
)

// AIModule provides the Gemini-backed AI service
var AIModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) outbound.AIService {
		return gemini.NewClient(cfg.AI, log)
	},
)

// HTTPModule provides the web server and its session store
var HTTPModule = fx.Provide(
	webserver.NewSessionStore,
	webserver.NewServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	server *webserver.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting Bunny Bakes",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			go func() {
				if err := server.Start(); err != nil && err != http.ErrServerClosed {
					log.Fatal("Failed to start HTTP server", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down Bunny Bakes")

			if err := server.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			_ = log.Sync()
			return nil
		},
	})
}
