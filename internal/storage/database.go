package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/ericogr/escape-the-danger/internal/game"
	"github.com/ericogr/escape-the-danger/internal/logging"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// defaultBusyTimeout is appended to DSNs that do not set one, in ms.
const defaultBusyTimeout = 5000

func OpenAndMigrate(dataSourceName string, itemsFromConfig []game.Item) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(withBusyTimeout(dataSourceName)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// SQLite allows a single writer. One pooled connection serializes every
	// transaction in-process instead of surfacing SQLITE_BUSY to callers.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&game.Game{},
		&game.Player{},
		&game.ChanceCard{},
		&game.Item{},
		&game.InventoryEntry{},
		&game.Donation{},
		&game.Event{},
	)
	if err != nil {
		return nil, err
	}

	// At most one active game system-wide. Paused and finished games are
	// outside the index.
	if execErr := db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_games_single_active ON games(status) WHERE status = 'active' AND deleted_at IS NULL;").Error; execErr != nil {
		return nil, execErr
	}

	if err := seedItems(db, itemsFromConfig); err != nil {
		return nil, err
	}
	return db, nil
}

// seedItems upserts the configured catalog so edits to the deck file are
// picked up on restart.
func seedItems(db *gorm.DB, items []game.Item) error {
	if len(items) == 0 {
		return nil
	}
	repo := &sqliteRepository{db: db}
	if err := repo.UpsertItems(context.Background(), items); err != nil {
		return fmt.Errorf("seed items: %w", err)
	}
	logging.Info("item catalog synced", logging.Fields{"items": len(items)})
	return nil
}

func withBusyTimeout(dsn string) string {
	if strings.Contains(dsn, "_busy_timeout") || strings.Contains(dsn, "_timeout") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_busy_timeout=%d", dsn, sep, defaultBusyTimeout)
}
