package engine

import (
	"context"

	"github.com/ericogr/escape-the-danger/internal/game"
)

type fakeDeck struct {
	cards map[game.Role][]*game.ChanceCard
}

func (d *fakeDeck) DrawUnplayedCard(_ context.Context, _ uint, owner game.Role) (*game.ChanceCard, error) {
	pool := d.cards[owner]
	if len(pool) == 0 {
		return nil, nil
	}
	c := pool[0]
	d.cards[owner] = pool[1:]
	c.Consumed = true
	return c, nil
}

type fakeInventory struct {
	items map[string]*game.Item
	qty   map[uint]map[string]int
}

func newFakeInventory(items ...game.Item) *fakeInventory {
	inv := &fakeInventory{items: map[string]*game.Item{}, qty: map[uint]map[string]int{}}
	for i := range items {
		it := items[i]
		inv.items[it.Key] = &it
	}
	return inv
}

func (f *fakeInventory) AdjustItemQuantity(_ context.Context, playerID uint, key string, delta int) (*game.InventoryEntry, error) {
	it, ok := f.items[key]
	if !ok {
		return nil, game.ErrItemNotFound
	}
	if f.qty[playerID] == nil {
		f.qty[playerID] = map[string]int{}
	}
	q := f.qty[playerID][key] + delta
	if q < 0 {
		q = 0
	}
	if q > it.Available {
		q = it.Available
	}
	f.qty[playerID][key] = q
	return &game.InventoryEntry{PlayerID: playerID, ItemID: it.ID, Item: *it, Quantity: q}, nil
}

func (f *fakeInventory) ConsumeItem(_ context.Context, playerID uint, key string) (*game.InventoryEntry, error) {
	it, ok := f.items[key]
	if !ok {
		return nil, game.ErrItemNotFound
	}
	if f.qty[playerID][key] < 1 {
		return nil, game.ErrItemUnavailable
	}
	f.qty[playerID][key]--
	return &game.InventoryEntry{PlayerID: playerID, ItemID: it.ID, Item: *it, Quantity: f.qty[playerID][key]}, nil
}

// newTestGame starts a game with persisted-looking ids so events carry
// player references.
func newTestGame(e *Engine) *game.Game {
	g := &game.Game{}
	g.ID = 1
	if _, err := e.Start(context.Background(), g); err != nil {
		panic(err)
	}
	g.Players[0].ID = 1
	g.Players[1].ID = 2
	return g
}

func eventTypes(out *Outcome) []game.EventType {
	types := make([]game.EventType, 0, len(out.Events))
	for _, ev := range out.Events {
		types = append(types, ev.Type)
	}
	return types
}

func noDrawRules() game.Rules {
	r := game.DefaultRules()
	r.StreamerDrawTurns = nil
	r.DangerDrawTurns = nil
	return r
}
