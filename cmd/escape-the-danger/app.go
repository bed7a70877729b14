package main

import (
	"github.com/ericogr/escape-the-danger/internal/config"
	"github.com/ericogr/escape-the-danger/internal/game"
	"github.com/ericogr/escape-the-danger/internal/logging"
	"github.com/ericogr/escape-the-danger/internal/storage"
)

func loadConfigOrExit(path string) *config.LoadedConfig {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logging.Fatal("Missing or invalid configuration", err, logging.Fields{"config_path": path, "hint": "create an escape_config.json with optional keys: server.address, rules, deck_path, donation_mode, turn_interval"})
	}
	return cfg
}

func loadDeckOrExit(path string) *config.Deck {
	deck, err := config.ParseDeckFile(path)
	if err != nil {
		logging.Fatal("Missing or invalid deck", err, logging.Fields{"deck_path": path})
	}
	return deck
}

func createStoreOrExit(dsn string, items []game.Item) storage.Store {
	db, err := storage.OpenAndMigrate(dsn, items)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, logging.Fields{"db": dsn})
	}
	return storage.NewSQLiteRepository(db)
}
