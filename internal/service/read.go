package service

import (
	"context"

	"github.com/ericogr/escape-the-danger/internal/dedupe"
	"github.com/ericogr/escape-the-danger/internal/game"
	"github.com/ericogr/escape-the-danger/internal/keys"
)

// Snapshot is the full read model of a game for spectators.
type Snapshot struct {
	Game      *game.Game                          `json:"game"`
	Inventory map[game.Role][]game.InventoryEntry `json:"inventory"`
	CardsLeft map[game.Role]int64                 `json:"cards_left"`
}

// GameState loads a snapshot of gameID. Concurrent callers for the same
// game share one load and must treat the result as read-only.
func (s *Service) GameState(ctx context.Context, gameID uint) (*Snapshot, error) {
	v, err, _ := dedupe.StateGroup.Do(keys.StateKey(gameID), func() (interface{}, error) {
		return s.snapshot(ctx, gameID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

func (s *Service) snapshot(ctx context.Context, gameID uint) (*Snapshot, error) {
	g, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{
		Game:      g,
		Inventory: make(map[game.Role][]game.InventoryEntry, len(game.Roles)),
		CardsLeft: make(map[game.Role]int64, len(game.Roles)),
	}
	for _, role := range game.Roles {
		if p := g.Player(role); p != nil {
			inv, err := s.store.GetInventory(ctx, p.ID)
			if err != nil {
				return nil, err
			}
			snap.Inventory[role] = inv
		}
		n, err := s.store.CountUnplayedCards(ctx, gameID, role)
		if err != nil {
			return nil, err
		}
		snap.CardsLeft[role] = n
	}
	return snap, nil
}

// ListEvents pages through the journal of gameID after the given event id.
func (s *Service) ListEvents(ctx context.Context, gameID, afterID uint, limit int) ([]game.Event, error) {
	if _, err := s.store.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	return s.store.ListEvents(ctx, gameID, afterID, limit)
}
