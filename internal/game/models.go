package game

import (
	"time"

	"gorm.io/gorm"
)

// GameStatus is the lifecycle state of a match.
type GameStatus string

const (
	StatusActive   GameStatus = "active"
	StatusPaused   GameStatus = "paused"
	StatusFinished GameStatus = "finished"
)

// Live reports whether the game can still change (active or paused).
func (s GameStatus) Live() bool {
	return s == StatusActive || s == StatusPaused
}

type Game struct {
	gorm.Model
	// UUID is the public identity shown to spectators and stamped on logs.
	UUID       string     `json:"uuid" gorm:"size:36;uniqueIndex"`
	Status     GameStatus `json:"status" gorm:"size:16;index"`
	Turn       int        `json:"turn"`
	StreamerID uint       `json:"streamer_id"`
	DangerID   uint       `json:"danger_id"`
	Winner     Role       `json:"winner" gorm:"size:16"`
	Message    string     `json:"message"`
	Players    []Player   `json:"players"`
}

// Player returns the game's player for role, or nil when not loaded.
func (g *Game) Player(role Role) *Player {
	for i := range g.Players {
		if g.Players[i].Role == role {
			return &g.Players[i]
		}
	}
	return nil
}

type Player struct {
	gorm.Model
	GameID    uint `json:"game_id" gorm:"uniqueIndex:idx_players_game_role"`
	Role      Role `json:"role" gorm:"size:16;uniqueIndex:idx_players_game_role"`
	Position  int  `json:"position"`
	Health    int  `json:"health"`
	MaxHealth int  `json:"max_health"`

	Immune       bool `json:"immune"`
	ImmuneRounds int  `json:"immune_rounds"`
	Voided       bool `json:"voided"`
	VoidedRounds int  `json:"voided_rounds"`

	// DelayedEffects is kept in scheduling order; the first entry was queued first.
	DelayedEffects []PendingEffect `json:"delayed_effects" gorm:"serializer:json"`
}

// ChanceCard is a single-use card belonging to one game's deck.
type ChanceCard struct {
	gorm.Model
	GameID      uint    `json:"game_id" gorm:"index:idx_cards_pool"`
	Owner       Role    `json:"owner" gorm:"size:16;index:idx_cards_pool"`
	Consumed    bool    `json:"consumed" gorm:"index:idx_cards_pool"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Effects     Effects `json:"effects" gorm:"serializer:json"`
}

// Item is a catalog entry players can hold in their inventory.
type Item struct {
	gorm.Model
	Key         string `json:"key" gorm:"size:64;uniqueIndex"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// Cost is the donation price in bits.
	Cost int `json:"cost"`
	// Available caps how many of this item a single player may hold.
	Available int     `json:"available"`
	Effects   Effects `json:"effects" gorm:"serializer:json"`
}

type InventoryEntry struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PlayerID  uint      `json:"player_id" gorm:"uniqueIndex:idx_inventory_player_item"`
	ItemID    uint      `json:"item_id" gorm:"uniqueIndex:idx_inventory_player_item"`
	Item      Item      `json:"item"`
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store inventories in a table named after the original schema
func (InventoryEntry) TableName() string { return "inventory" }

type Donation struct {
	gorm.Model
	GameID   uint     `json:"game_id" gorm:"index"`
	Username string   `json:"username"`
	Bits     int      `json:"bits"`
	Granted  []string `json:"granted" gorm:"serializer:json"`
}

// EventType enumerates the entries of the spectator feed.
type EventType string

const (
	EventMove               EventType = "move"
	EventDrawCard           EventType = "draw_card"
	EventChanceCard         EventType = "chance_card"
	EventChanceCardExecuted EventType = "chance_card_executed"
	EventHealthChange       EventType = "health_change"
	EventVoid               EventType = "void"
	EventImmune             EventType = "immune"
	EventBounceBack         EventType = "bounce_back"
	EventInventoryGain      EventType = "inventory_gain"
	EventInventoryUsed      EventType = "inventory_used"
	EventTurnEnd            EventType = "turn_end"
	EventGameFinished       EventType = "game_finished"
	EventGameStarted        EventType = "game_started"
	EventGamePaused         EventType = "game_paused"
	EventGameResumed        EventType = "game_resumed"
	EventDonation           EventType = "donation"
)

// Event is an append-only audit record. Rows are written once and never
// updated or deleted, so the model carries no UpdatedAt/DeletedAt.
type Event struct {
	ID        uint                   `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time              `json:"created_at"`
	GameID    uint                   `json:"game_id" gorm:"index"`
	PlayerID  *uint                  `json:"player_id,omitempty"`
	Type      EventType              `json:"event_type" gorm:"size:32;index"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details" gorm:"serializer:json"`
	// Batch groups the events committed by a single command.
	Batch string `json:"batch" gorm:"size:36;index"`
}

func (Event) TableName() string { return "game_events" }
