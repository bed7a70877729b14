package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ericogr/escape-the-danger/internal/game"
	"github.com/ericogr/escape-the-danger/internal/keys"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// cardDrawAttempts bounds how often a draw retries after losing the
// consume race to a concurrent draw.
const cardDrawAttempts = 3

var (
	gameColumns   = []string{"status", "turn", "streamer_id", "danger_id", "winner", "message"}
	playerColumns = []string{"position", "health", "max_health", "immune", "immune_rounds", "voided", "voided_rounds", "delayed_effects"}
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Store {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&sqliteRepository{db: tx})
	})
}

func (r *sqliteRepository) conn(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func notFound(err error, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (r *sqliteRepository) GetActiveGame(ctx context.Context) (*game.Game, error) {
	var g game.Game
	err := r.conn(ctx).Preload("Players").Where("status = ?", game.StatusActive).Order("id desc").First(&g).Error
	if err != nil {
		return nil, notFound(err, game.ErrNoActiveGame)
	}
	return &g, nil
}

func (r *sqliteRepository) GetLiveGame(ctx context.Context) (*game.Game, error) {
	var g game.Game
	err := r.conn(ctx).Preload("Players").
		Where("status IN ?", []game.GameStatus{game.StatusActive, game.StatusPaused}).
		Order("id desc").First(&g).Error
	if err != nil {
		return nil, notFound(err, game.ErrNoActiveGame)
	}
	return &g, nil
}

func (r *sqliteRepository) GetGame(ctx context.Context, id uint) (*game.Game, error) {
	var g game.Game
	if err := r.conn(ctx).Preload("Players").First(&g, id).Error; err != nil {
		return nil, notFound(err, game.ErrGameNotFound)
	}
	return &g, nil
}

func (r *sqliteRepository) CreateGame(ctx context.Context, g *game.Game) error {
	db := r.conn(ctx)
	if err := db.Create(g).Error; err != nil {
		if isUniqueViolation(err) {
			return game.ErrGameAlreadyLive
		}
		return fmt.Errorf("create game: %w", err)
	}
	if s := g.Player(game.RoleStreamer); s != nil {
		g.StreamerID = s.ID
	}
	if d := g.Player(game.RoleDanger); d != nil {
		g.DangerID = d.ID
	}
	return db.Model(g).Select("streamer_id", "danger_id").Updates(g).Error
}

func (r *sqliteRepository) SetGameStatus(ctx context.Context, id uint, status game.GameStatus) error {
	res := r.conn(ctx).Model(&game.Game{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return game.ErrGameAlreadyLive
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return game.ErrGameNotFound
	}
	return nil
}

func (r *sqliteRepository) SaveGame(ctx context.Context, g *game.Game) error {
	db := r.conn(ctx)
	if err := db.Model(g).Select(gameColumns).Updates(g).Error; err != nil {
		if isUniqueViolation(err) {
			return game.ErrGameAlreadyLive
		}
		return fmt.Errorf("save game %d: %w", g.ID, err)
	}
	for i := range g.Players {
		if err := r.UpdatePlayer(ctx, &g.Players[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *sqliteRepository) GetPlayer(ctx context.Context, gameID uint, role game.Role) (*game.Player, error) {
	var p game.Player
	if err := r.conn(ctx).Where("game_id = ? AND role = ?", gameID, role).First(&p).Error; err != nil {
		return nil, notFound(err, game.ErrPlayerNotFound)
	}
	return &p, nil
}

func (r *sqliteRepository) UpdatePlayer(ctx context.Context, p *game.Player) error {
	if p.ID == 0 {
		return game.ErrPlayerNotFound
	}
	if err := r.conn(ctx).Model(p).Select(playerColumns).Updates(p).Error; err != nil {
		return fmt.Errorf("update player %d: %w", p.ID, err)
	}
	return nil
}

func (r *sqliteRepository) SeedCards(ctx context.Context, gameID uint, cards []game.ChanceCard) error {
	if len(cards) == 0 {
		return nil
	}
	rows := make([]game.ChanceCard, 0, len(cards))
	for _, c := range cards {
		rows = append(rows, game.ChanceCard{
			GameID:      gameID,
			Owner:       c.Owner,
			Title:       c.Title,
			Description: c.Description,
			Effects:     c.Effects,
		})
	}
	return r.conn(ctx).CreateInBatches(&rows, 100).Error
}

func (r *sqliteRepository) DrawUnplayedCard(ctx context.Context, gameID uint, owner game.Role) (*game.ChanceCard, error) {
	for attempt := 0; attempt < cardDrawAttempts; attempt++ {
		var c game.ChanceCard
		err := r.conn(ctx).
			Where("game_id = ? AND owner = ? AND consumed = ?", gameID, owner, false).
			Order("RANDOM()").
			Take(&c).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("select card: %w", err)
		}
		won, err := r.MarkCardConsumed(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		if won {
			c.Consumed = true
			return &c, nil
		}
	}
	return nil, game.ErrCardRace
}

func (r *sqliteRepository) MarkCardConsumed(ctx context.Context, id uint) (bool, error) {
	res := r.conn(ctx).Model(&game.ChanceCard{}).
		Where("id = ? AND consumed = ?", id, false).
		Update("consumed", true)
	if res.Error != nil {
		return false, fmt.Errorf("consume card %d: %w", id, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *sqliteRepository) CountUnplayedCards(ctx context.Context, gameID uint, owner game.Role) (int64, error) {
	var n int64
	err := r.conn(ctx).Model(&game.ChanceCard{}).
		Where("game_id = ? AND owner = ? AND consumed = ?", gameID, owner, false).
		Count(&n).Error
	return n, err
}

func (r *sqliteRepository) GetItem(ctx context.Context, key string) (*game.Item, error) {
	k := keys.ItemKey(key)
	if k == "" {
		return nil, fmt.Errorf("%w: %q", game.ErrItemNotFound, key)
	}
	var it game.Item
	if err := r.conn(ctx).Where("key = ?", k).First(&it).Error; err != nil {
		return nil, notFound(err, fmt.Errorf("%w: %q", game.ErrItemNotFound, key))
	}
	return &it, nil
}

func (r *sqliteRepository) ListItems(ctx context.Context) ([]game.Item, error) {
	var items []game.Item
	if err := r.conn(ctx).Order("cost asc").Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *sqliteRepository) ListAffordableItems(ctx context.Context, bits int) ([]game.Item, error) {
	var items []game.Item
	err := r.conn(ctx).
		Where("cost > 0 AND cost <= ?", bits).
		Order("cost desc").Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// UpsertItems keeps the catalog in sync with the deck file, keyed by the
// canonical item key.
func (r *sqliteRepository) UpsertItems(ctx context.Context, items []game.Item) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]game.Item, 0, len(items))
	for _, it := range items {
		it.Key = keys.ItemKey(it.Key)
		rows = append(rows, it)
	}
	return r.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "description", "cost", "available", "effects", "updated_at"}),
	}).Create(&rows).Error
}

func (r *sqliteRepository) GetInventory(ctx context.Context, playerID uint) ([]game.InventoryEntry, error) {
	var entries []game.InventoryEntry
	err := r.conn(ctx).Preload("Item").
		Where("player_id = ?", playerID).
		Order("item_id asc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ensureEntry returns the inventory row for (playerID, item), creating an
// empty one when missing.
func (r *sqliteRepository) ensureEntry(ctx context.Context, playerID uint, item *game.Item) error {
	row := game.InventoryEntry{PlayerID: playerID, ItemID: item.ID}
	return r.conn(ctx).Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
}

func (r *sqliteRepository) loadEntry(ctx context.Context, playerID uint, item *game.Item) (*game.InventoryEntry, error) {
	var e game.InventoryEntry
	if err := r.conn(ctx).Where("player_id = ? AND item_id = ?", playerID, item.ID).First(&e).Error; err != nil {
		return nil, notFound(err, game.ErrItemUnavailable)
	}
	e.Item = *item
	return &e, nil
}

func (r *sqliteRepository) AdjustItemQuantity(ctx context.Context, playerID uint, itemKey string, delta int) (*game.InventoryEntry, error) {
	item, err := r.GetItem(ctx, itemKey)
	if err != nil {
		return nil, err
	}
	if err := r.ensureEntry(ctx, playerID, item); err != nil {
		return nil, fmt.Errorf("inventory row: %w", err)
	}
	err = r.conn(ctx).Model(&game.InventoryEntry{}).
		Where("player_id = ? AND item_id = ?", playerID, item.ID).
		Update("quantity", gorm.Expr("MAX(0, MIN(?, quantity + ?))", item.Available, delta)).Error
	if err != nil {
		return nil, fmt.Errorf("adjust %s: %w", item.Key, err)
	}
	return r.loadEntry(ctx, playerID, item)
}

func (r *sqliteRepository) SetItemQuantity(ctx context.Context, playerID uint, itemKey string, quantity int) (*game.InventoryEntry, error) {
	item, err := r.GetItem(ctx, itemKey)
	if err != nil {
		return nil, err
	}
	if err := r.ensureEntry(ctx, playerID, item); err != nil {
		return nil, fmt.Errorf("inventory row: %w", err)
	}
	err = r.conn(ctx).Model(&game.InventoryEntry{}).
		Where("player_id = ? AND item_id = ?", playerID, item.ID).
		Update("quantity", gorm.Expr("MAX(0, MIN(?, ?))", item.Available, quantity)).Error
	if err != nil {
		return nil, fmt.Errorf("set %s: %w", item.Key, err)
	}
	return r.loadEntry(ctx, playerID, item)
}

func (r *sqliteRepository) ConsumeItem(ctx context.Context, playerID uint, itemKey string) (*game.InventoryEntry, error) {
	item, err := r.GetItem(ctx, itemKey)
	if err != nil {
		return nil, err
	}
	res := r.conn(ctx).Model(&game.InventoryEntry{}).
		Where("player_id = ? AND item_id = ? AND quantity >= 1", playerID, item.ID).
		Update("quantity", gorm.Expr("quantity - 1"))
	if res.Error != nil {
		return nil, fmt.Errorf("consume %s: %w", item.Key, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: %s", game.ErrItemUnavailable, item.Key)
	}
	return r.loadEntry(ctx, playerID, item)
}

func (r *sqliteRepository) AppendEvents(ctx context.Context, events []game.Event) error {
	if len(events) == 0 {
		return nil
	}
	if err := r.conn(ctx).Create(&events).Error; err != nil {
		return fmt.Errorf("append events: %w", err)
	}
	return nil
}

func (r *sqliteRepository) ListEvents(ctx context.Context, gameID uint, afterID uint, limit int) ([]game.Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var events []game.Event
	err := r.conn(ctx).
		Where("game_id = ? AND id > ?", gameID, afterID).
		Order("id asc").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *sqliteRepository) RecordDonation(ctx context.Context, d *game.Donation) error {
	return r.conn(ctx).Create(d).Error
}
