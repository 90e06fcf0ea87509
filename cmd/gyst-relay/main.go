package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dshills/gyst/internal/config"
	"github.com/dshills/gyst/internal/logx"
	"github.com/dshills/gyst/internal/provider"
	"github.com/dshills/gyst/internal/relay"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gyst-relay: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; env vars may come from the environment.
	_ = godotenv.Load()

	log, err := logx.Server()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync()

	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	model := os.Getenv("GYST_MODEL")
	if model == "" {
		model = config.Default().Model
	}

	upstream, err := provider.NewAnthropic(apiKey, model)
	if err != nil {
		return err
	}

	host := os.Getenv("HOST")
	if host == "" {
		host = "127.0.0.1"
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := host + ":" + port

	srv := &http.Server{
		Addr:         addr,
		Handler:      relay.New(upstream, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting relay server", zap.String("addr", addr), zap.String("model", model))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
