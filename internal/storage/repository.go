package storage

import (
	"context"

	"github.com/ericogr/escape-the-danger/internal/game"
)

// Repository is the persistence surface used by the service layer. Every
// quantity-changing method performs a bounded update in a single statement.
type Repository interface {
	GetActiveGame(ctx context.Context) (*game.Game, error)
	// GetLiveGame returns the most recent active or paused game.
	GetLiveGame(ctx context.Context) (*game.Game, error)
	GetGame(ctx context.Context, id uint) (*game.Game, error)
	// CreateGame inserts g with its players. It fails with
	// game.ErrGameAlreadyLive when another game is active.
	CreateGame(ctx context.Context, g *game.Game) error
	SetGameStatus(ctx context.Context, id uint, status game.GameStatus) error
	// SaveGame writes the mutable columns of g and of its loaded players.
	SaveGame(ctx context.Context, g *game.Game) error

	GetPlayer(ctx context.Context, gameID uint, role game.Role) (*game.Player, error)
	UpdatePlayer(ctx context.Context, p *game.Player) error

	SeedCards(ctx context.Context, gameID uint, cards []game.ChanceCard) error
	// DrawUnplayedCard picks a random unconsumed card of owner and consumes
	// it. An exhausted pool returns (nil, nil).
	DrawUnplayedCard(ctx context.Context, gameID uint, owner game.Role) (*game.ChanceCard, error)
	// MarkCardConsumed flips consumed from false to true and reports whether
	// this call won the flip.
	MarkCardConsumed(ctx context.Context, id uint) (bool, error)
	CountUnplayedCards(ctx context.Context, gameID uint, owner game.Role) (int64, error)

	GetItem(ctx context.Context, key string) (*game.Item, error)
	ListItems(ctx context.Context) ([]game.Item, error)
	// ListAffordableItems returns priced items costing at most bits, most
	// expensive first.
	ListAffordableItems(ctx context.Context, bits int) ([]game.Item, error)
	UpsertItems(ctx context.Context, items []game.Item) error

	GetInventory(ctx context.Context, playerID uint) ([]game.InventoryEntry, error)
	AdjustItemQuantity(ctx context.Context, playerID uint, itemKey string, delta int) (*game.InventoryEntry, error)
	SetItemQuantity(ctx context.Context, playerID uint, itemKey string, quantity int) (*game.InventoryEntry, error)
	// ConsumeItem decrements the quantity by one, failing with
	// game.ErrItemUnavailable when none is held.
	ConsumeItem(ctx context.Context, playerID uint, itemKey string) (*game.InventoryEntry, error)

	AppendEvents(ctx context.Context, events []game.Event) error
	ListEvents(ctx context.Context, gameID uint, afterID uint, limit int) ([]game.Event, error)

	RecordDonation(ctx context.Context, d *game.Donation) error
}

// Store is a Repository that can run a function inside one transaction.
// The Repository handed to fn is bound to that transaction; fn must not
// use the outer Store.
type Store interface {
	Repository
	Transaction(ctx context.Context, fn func(tx Repository) error) error
}
