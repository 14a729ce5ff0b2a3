package main

import (
	"context"
	"flag"
	"log/slog"

	"customer-reviews-backend/api"
	"customer-reviews-backend/config"
	"customer-reviews-backend/store"
)

func main() {
	seed := flag.Bool("seed", false, "insert demo customers, items and reviews before serving")
	migrateOnly := flag.Bool("migrate-only", false, "migrate the schema and exit")
	flag.Parse()

	ctx := context.Background()

	// Getting the config
	config, err := config.New()
	if err != nil {
		slog.Error("Config initialization failed", "error", err)
		panic(err)
	}

	// Database initialization, migrations included
	store, err := store.Open(ctx, config)
	if err != nil {
		slog.Error("Database initialization failed", "error", err)
		panic(err)
	}
	defer store.Close()

	if *migrateOnly {
		slog.Info("Schema migrated", "driver", config.Driver)
		return
	}

	if *seed {
		if err := store.Seed(); err != nil {
			slog.Error("Seeding failed", "error", err)
			panic(err)
		}
		slog.Info("Demo data seeded")
	}

	// Running the server
	api, err := api.New(store)
	if err != nil {
		slog.Error("Api initialization failed", "error", err)
		panic(err)
	}
	slog.Info("Listening", "port", config.ServerPort())
	if err := api.Run(config.ServerPort()); err != nil {
		slog.Error("Server stopped", "error", err)
	}
}
