package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/crud-games/backend/internal/config"
	"github.com/zhouzirui/crud-games/backend/internal/handler"
	"github.com/zhouzirui/crud-games/backend/internal/logger"
	"github.com/zhouzirui/crud-games/backend/internal/model/game"
	"github.com/zhouzirui/crud-games/backend/internal/service/events"
	"github.com/zhouzirui/crud-games/backend/internal/service/games"
)

const serviceName = "crud-games"

var shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger, err := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: serviceName,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build logger")
	}
	log.Logger = appLogger
	zerolog.DefaultContextLogger = &appLogger

	if envErr != nil {
		appLogger.Debug().Err(envErr).Msg("no .env file loaded, using process environment only")
	}

	// Initialize game store, change feed hub and game service
	store := game.NewMemoryStore()
	hub := events.NewHub(cfg.Events.Buffer)
	go hub.Run(ctx)
	gameService := games.NewService(store, hub)

	router := handler.NewRouter(handler.Options{
		Logger:             appLogger,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
	}, gameService, hub)

	if err := startServer(ctx, cfg.Server, router, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("server error")
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger zerolog.Logger) error {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info().Str("addr", serverCfg.Addr).Msg("Listening")
	if err := runServer(ctx, srv); err != nil {
		return err
	}
	logger.Info().Msg("shutdown complete")
	return nil
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
