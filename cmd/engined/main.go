package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tenuki/engine/internal/ai"
	"github.com/tenuki/engine/internal/config"
	"github.com/tenuki/engine/internal/logger"
	"github.com/tenuki/engine/internal/oracle"
	"github.com/tenuki/engine/internal/server"
)

const evalCacheTTL = 15 * time.Minute

func main() {
	logger.Init()
	cfg := config.Load()
	log.Info().Str("port", cfg.Port).Msg("Config loaded")

	// Redis evaluation cache is optional: without it every evaluate request
	// just computes from scratch.
	var cache *server.EvalCache
	if cfg.RedisURL != "" {
		var err error
		cache, err = server.NewEvalCache(cfg.RedisURL, evalCacheTTL)
		if err != nil {
			log.Warn().Err(err).Msg("Redis connection failed, evaluation cache disabled")
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	opts := ai.DefaultOptions()
	opts.Oracle = oracle.LoadOrNil(cfg.ModelPath)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server.New(opts, cache).Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
