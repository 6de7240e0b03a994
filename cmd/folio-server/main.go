package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rgeddes/folio/internal/app"
	"github.com/rgeddes/folio/internal/common"
	"github.com/rgeddes/folio/internal/server"
)

func main() {
	// Load .env if present so GOOGLE_CLIENT_ID etc. can live outside the config file
	_ = godotenv.Load()

	// Resolve config path: first arg wins, then FOLIO_CONFIG, then defaults
	configPath := os.Getenv("FOLIO_CONFIG")
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	a, err := app.NewApp(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}

	common.PrintBanner(a.Config, a.Logger)

	srv := server.NewServer(a)
	shutdownChan := make(chan struct{}, 1)
	srv.SetShutdownChannel(shutdownChan)

	go func() {
		a.Logger.Info().Int("port", a.Config.Server.Port).Msg("Starting HTTP server")
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			a.Logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	a.Logger.Info().
		Str("url", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)).
		Msg("Server ready")

	// Wait for interrupt signal or an /api/shutdown request
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		a.Logger.Info().Msg("Shutdown signal received")
	case <-shutdownChan:
		a.Logger.Info().Msg("Shutdown requested via API")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		a.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	a.Close()
	common.PrintShutdownBanner(a.Logger)
}
