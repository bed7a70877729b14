package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/ericogr/escape-the-danger/internal/api"
	"github.com/ericogr/escape-the-danger/internal/config"
	"github.com/ericogr/escape-the-danger/internal/constants"
	"github.com/ericogr/escape-the-danger/internal/feed"
	"github.com/ericogr/escape-the-danger/internal/logging"
	"github.com/ericogr/escape-the-danger/internal/service"
	"github.com/ericogr/escape-the-danger/internal/version"
)

func main() {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.Warn("failed to load .env", logging.Fields{"err": err.Error()})
	}
	env, err := config.ParseEnv()
	if err != nil {
		logging.Fatal("Invalid environment", err, nil)
	}
	if !logging.SetLevel(env.LogLevel) {
		logging.Warn("unknown log level, keeping info", logging.Fields{"level": env.LogLevel})
	}

	cfg := loadConfigOrExit(env.ConfigPath)
	deck := loadDeckOrExit(cfg.DeckPath)
	store := createStoreOrExit(env.DatabaseDSN, deck.Items)

	hub := feed.NewHub()
	svc := service.New(store, service.Options{
		Rules:        cfg.Rules,
		Cards:        deck.Cards,
		DonationMode: cfg.DonationMode,
		Publisher:    hub,
	})

	if env.OperatorKey == "" {
		logging.Warn("operator authentication disabled; set "+constants.EnvOperatorKey+" to protect commands", nil)
	}
	handler := api.NewGameHandler(svc, hub, api.AuthConfig{
		OperatorKey:   env.OperatorKey,
		SessionSecret: env.SessionSecret,
		TokenTTL:      env.TokenTTL,
	})

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              env.Address(cfg.ServerAddress, constants.DefaultAddress),
		Handler:           api.SetupRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TurnInterval > 0 {
		go runTurnClock(ctx, svc, cfg.TurnInterval)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Error("graceful shutdown failed", err, nil)
		}
	}()

	v := version.Get()
	logging.Info("Server started", logging.Fields{
		constants.LogFieldAddr: srv.Addr,
		"version":              v.Version,
		"commit":               v.Commit,
		"cards":                len(deck.Cards),
		"items":                len(deck.Items),
	})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Fatal("Failed to start server", err, nil)
	}
	logging.Info("Server stopped", nil)
}
