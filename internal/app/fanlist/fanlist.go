// Package fanlist собирает основное приложение: хранилище, кэш, брокер,
// сервисы и HTTP-сервер.
package fanlist

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/fanlist/internal/cache"
	"github.com/magabrotheeeer/fanlist/internal/config"
	"github.com/magabrotheeeer/fanlist/internal/lib/jwt"
	"github.com/magabrotheeeer/fanlist/internal/lib/sl"
	"github.com/magabrotheeeer/fanlist/internal/migrations"
	"github.com/magabrotheeeer/fanlist/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/fanlist/internal/services/auth"
	ideaservice "github.com/magabrotheeeer/fanlist/internal/services/idea"
	leaderboardservice "github.com/magabrotheeeer/fanlist/internal/services/leaderboard"
	pointsservice "github.com/magabrotheeeer/fanlist/internal/services/points"
	publiclinkservice "github.com/magabrotheeeer/fanlist/internal/services/publiclink"
	storeservice "github.com/magabrotheeeer/fanlist/internal/services/store"
	"github.com/magabrotheeeer/fanlist/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и внешние соединения приложения.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	amqpConn *amqp.Connection
}

// New инициализирует все зависимости и собирает приложение.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	// Брокер не критичен для запуска: без него приложение работает,
	// но события уведомлений не публикуются.
	var amqpConn *amqp.Connection
	var channel *amqp.Channel
	if cfg.AmqpConnectionString != "" {
		amqpConn, err = rabbitmq.Connect(cfg.AmqpConnectionString, cfg.ConnectRetries, cfg.ConnectDelay)
		if err != nil {
			logger.Warn("rabbitmq unavailable, notifications disabled", sl.Err(err))
		} else {
			channel, err = rabbitmq.SetupChannel(amqpConn, rabbitmq.GetNotificationQueues())
			if err != nil {
				logger.Warn("rabbitmq channel setup failed, notifications disabled", sl.Err(err))
			}
		}
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, jwtMaker)
	ideaService := ideaservice.NewIdeaService(db, db, db, db, cacheRedis, channel, logger)
	pointsService := pointsservice.NewPointsService(db)
	storeService := storeservice.NewStoreService(db, db, channel, logger)
	leaderboardService := leaderboardservice.NewLeaderboardService(db, cacheRedis, logger)
	publicLinkService := publiclinkservice.NewPublicLinkService(db)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, authService, ideaService, pointsService,
		storeService, leaderboardService, publicLinkService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		amqpConn: amqpConn,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		if a.amqpConn != nil {
			_ = a.amqpConn.Close()
		}
		return err
	}
}
