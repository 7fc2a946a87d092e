package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jupiterclapton/orbite/config"
	"github.com/jupiterclapton/orbite/internal/adapters/primary/cli"
	"github.com/jupiterclapton/orbite/internal/adapters/secondary/eventbus"
	"github.com/jupiterclapton/orbite/internal/adapters/secondary/repository"
	"github.com/jupiterclapton/orbite/internal/adapters/secondary/security"
	"github.com/jupiterclapton/orbite/internal/core/services"
)

func main() {
	// 1. Charger la config
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. Initialiser le logger (slog JSON pour la prod, Text pour le dev)
	initLogger(cfg)
	slog.Debug("starting orbite", "env", cfg.Env, "data", cfg.DataPath)

	// Ctrl-C propre (utile pour `orbite watch`)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Infrastructure : store local (Fail Fast)
	if err := os.MkdirAll(filepath.Dir(cfg.DataPath), 0o700); err != nil {
		slog.Error("unable to create data directory", "error", err)
		os.Exit(1)
	}
	store, err := repository.Open(cfg.DataPath)
	if err != nil {
		slog.Error("unable to open local store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// 4. Câblage hexagonal : adapters -> services
	users := repository.NewUserRepo(store)
	posts := repository.NewPostRepo(store)
	notifRepo := repository.NewNotificationRepo(store)
	sessions := repository.NewSessionRepo(store)

	hasher := security.NewArgon2Hasher(nil)
	tokens := security.NewJWTProvider(cfg.TokenSecret, cfg.SessionTTL)

	notifications := services.NewNotificationService(notifRepo)
	broker := eventbus.New(notifications)

	identity := services.NewIdentityService(users, posts, sessions, hasher, tokens, broker)
	postSvc := services.NewPostService(posts, users, broker)

	app := cli.New(identity, postSvc, notifications, store.Clear, os.Stdin, os.Stdout)

	// 5. Dispatch
	if err := app.Run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initLogger(cfg *config.Config) {
	var handler slog.Handler
	if cfg.Env == "prod" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
	}
	slog.SetDefault(slog.New(handler))
}
