package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ericogr/escape-the-danger/internal/config"
	"github.com/ericogr/escape-the-danger/internal/dedupe"
	"github.com/ericogr/escape-the-danger/internal/engine"
	"github.com/ericogr/escape-the-danger/internal/game"
	"github.com/ericogr/escape-the-danger/internal/storage"
)

const anonymousDonor = "Anonymous"

// UseItem consumes one itemKey from role's inventory and applies its effects.
func (s *Service) UseItem(ctx context.Context, gameID uint, role game.Role, itemKey string) (*Result, error) {
	return s.run(ctx, gameID, "use_item", func(ctx context.Context, _ storage.Repository, eng *engine.Engine, g *game.Game) (*engine.Outcome, error) {
		return eng.UseItem(ctx, g, role, itemKey)
	})
}

// AddInventory changes role's holding of itemKey by amount; negative
// amounts remove items without applying them.
func (s *Service) AddInventory(ctx context.Context, gameID uint, role game.Role, itemKey string, amount int) (*Result, error) {
	return s.run(ctx, gameID, "add_item", func(ctx context.Context, _ storage.Repository, eng *engine.Engine, g *game.Game) (*engine.Outcome, error) {
		return eng.GrantItem(ctx, g, role, itemKey, amount)
	})
}

// Donate converts a viewer donation into items for the streamer. In best
// mode only the most expensive affordable item is granted; in all mode
// every affordable item is.
func (s *Service) Donate(ctx context.Context, gameID uint, username string, bits int) (*Result, error) {
	if bits <= 0 {
		return nil, fmt.Errorf("%w: bits must be positive", game.ErrInvalidAmount)
	}
	username = strings.TrimSpace(username)
	if username == "" {
		username = anonymousDonor
	}
	return s.run(ctx, gameID, "donate", func(ctx context.Context, tx storage.Repository, eng *engine.Engine, g *game.Game) (*engine.Outcome, error) {
		items, err := tx.ListAffordableItems(ctx, bits)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, game.ErrNoAffordable
		}
		if s.opts.DonationMode != config.DonationAll {
			items = items[:1]
		}

		keys := make([]string, 0, len(items))
		titles := make([]string, 0, len(items))
		for _, it := range items {
			keys = append(keys, it.Key)
			titles = append(titles, "a "+it.Title)
		}
		streamer := g.Player(game.RoleStreamer)
		if streamer == nil {
			return nil, game.ErrPlayerNotFound
		}
		donation := game.Event{
			PlayerID: &streamer.ID,
			Type:     game.EventDonation,
			Message:  fmt.Sprintf("%s donated %d bits and gifted %s!", username, bits, strings.Join(titles, ", ")),
			Details:  map[string]interface{}{"username": username, "bits": bits, "items": keys},
		}
		out := &engine.Outcome{Events: []game.Event{donation}}

		for _, key := range keys {
			granted, err := eng.GrantItem(ctx, g, game.RoleStreamer, key, 1)
			if err != nil {
				return nil, err
			}
			out.Events = append(out.Events, granted.Events...)
		}
		g.Message = donation.Message

		if err := tx.RecordDonation(ctx, &game.Donation{GameID: g.ID, Username: username, Bits: bits, Granted: keys}); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// Inventory lists what role currently holds in gameID.
func (s *Service) Inventory(ctx context.Context, gameID uint, role game.Role) ([]game.InventoryEntry, error) {
	if !role.Valid() {
		return nil, game.ErrUnknownRole
	}
	p, err := s.store.GetPlayer(ctx, gameID, role)
	if err != nil {
		return nil, err
	}
	return s.store.GetInventory(ctx, p.ID)
}

// ListItems returns the item catalog. Concurrent callers share one query.
func (s *Service) ListItems(ctx context.Context) ([]game.Item, error) {
	v, err, _ := dedupe.ItemsGroup.Do("items", func() (interface{}, error) {
		return s.store.ListItems(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]game.Item), nil
}
