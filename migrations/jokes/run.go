package main

import (
	"context"
	"embed"
	"log/slog"
	"os"

	"github.com/jokebox/jokebox/pkg/cache"
	"github.com/jokebox/jokebox/pkg/config"
	"github.com/jokebox/jokebox/pkg/migrator"
)

//go:embed *.sql
var MigrationsFS embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The connection string may live in Redis rather than the environment;
	// resolve it the same way the api process does.
	var remote config.KeyLookup
	if redisClient, err := cache.NewRedisClient(cfg); err == nil {
		defer redisClient.Close() //nolint:errcheck
		remote = redisClient
	}

	databaseURL, err := config.ResolveDatabaseURL(context.Background(), cfg, remote)
	if err != nil {
		slog.Error("failed to resolve database url", "error", err)
		os.Exit(1)
	}

	if err := migrator.RunMigrations(databaseURL, MigrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("migrations applied")
}
