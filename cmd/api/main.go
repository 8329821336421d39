package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/iamasit07/connect4-ai/internal/config"
	"github.com/iamasit07/connect4-ai/internal/repository/redis"
	"github.com/iamasit07/connect4-ai/internal/service/bot"
	"github.com/iamasit07/connect4-ai/internal/service/cleanup"
	"github.com/iamasit07/connect4-ai/internal/service/game"
	"github.com/iamasit07/connect4-ai/internal/service/relay"
	transportHttp "github.com/iamasit07/connect4-ai/internal/transport/http"
	"github.com/iamasit07/connect4-ai/internal/transport/websocket"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Info().Msg("No .env file found")
		}
	}

	cfg := config.LoadConfig()
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	} else {
		log.Warn().Str("level", cfg.LogLevel).Msg("Unknown LOG_LEVEL, keeping info")
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Shared move cache, optional
	var moveCache game.MoveCache
	redisClient := redis.InitRedis(ctx, cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	if redisClient != nil {
		defer redisClient.Close()
		moveCache = redis.NewMoveCache(redisClient, cfg.MoveCacheTTL)
	}

	// 2. Services
	sessionManager := game.NewSessionManager(moveCache,
		bot.WithDepth(cfg.SearchDepth),
		bot.WithMaxCacheEntries(cfg.MaxCacheEntries),
	)
	hub := relay.NewHub()
	cleanupWorker := cleanup.NewWorker(sessionManager, hub, cfg.CleanupInterval, cfg.SessionIdleTimeout)

	// 3. Transport
	moveHandler := transportHttp.NewMoveHandler(sessionManager, hub)
	wsHandler := websocket.NewHandler(hub, cfg.OriginAllowed, cfg.RelayReadTimeout, cfg.RelayPingInterval)
	router := transportHttp.NewRouter(moveHandler, wsHandler.HandleRelay, cfg.OriginAllowed)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Int("depth", cfg.SearchDepth).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return cleanupWorker.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Server is shutting down...")

		hub.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("Server exited with error")
	}
	log.Info().Msg("Server exited gracefully")
}
