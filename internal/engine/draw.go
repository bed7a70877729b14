package engine

import (
	"context"
	"fmt"

	"github.com/ericogr/escape-the-danger/internal/game"
)

// Deck hands out chance cards. DrawUnplayedCard must pick uniformly among the
// unconsumed cards of owner and consume the pick atomically. An exhausted
// pool returns (nil, nil).
type Deck interface {
	DrawUnplayedCard(ctx context.Context, gameID uint, owner game.Role) (*game.ChanceCard, error)
}

// Inventory performs bounded quantity updates. Returned entries carry their
// catalog Item.
type Inventory interface {
	AdjustItemQuantity(ctx context.Context, playerID uint, itemKey string, delta int) (*game.InventoryEntry, error)
	ConsumeItem(ctx context.Context, playerID uint, itemKey string) (*game.InventoryEntry, error)
}

// draw takes one card for role and either applies it or queues it.
func (tc *turnContext) draw(role game.Role) error {
	card, err := tc.e.deck.DrawUnplayedCard(tc.ctx, tc.g.ID, role)
	if err != nil {
		return fmt.Errorf("draw %s card: %w", role, err)
	}
	if card == nil {
		return nil
	}
	tc.out.Cards = append(tc.out.Cards, card)
	owner := tc.player(role)

	msg := card.Title
	if card.Description != "" {
		msg = card.Title + ": " + card.Description
	}
	tc.record(owner, game.EventDrawCard, fmt.Sprintf("%s drew %q.", displayName(role), card.Title),
		map[string]interface{}{"card_id": card.ID, "title": card.Title, "owner": role, "delay": card.Effects.Delay})

	if card.Effects.Delay > 0 {
		pe := Schedule(owner, card.Effects, card.Title)
		tc.summary = append(tc.summary, fmt.Sprintf("%q will take effect in %s.", card.Title, plural(pe.RoundsRemaining, "turn")))
		return nil
	}
	return tc.applyBundle(role, card.Effects, SourceCard, game.EventChanceCard, msg,
		map[string]interface{}{"card_id": card.ID, "title": card.Title})
}

// Draw draws a chance card for role outside the turn schedule. An empty
// pool yields an outcome with no card.
func (e *Engine) Draw(ctx context.Context, g *game.Game, role game.Role) (*Outcome, error) {
	if !role.Valid() {
		return nil, game.ErrUnknownRole
	}
	tc, err := e.begin(ctx, g)
	if err != nil {
		return nil, err
	}
	if err := tc.requireActive(); err != nil {
		return nil, err
	}
	if err := tc.draw(role); err != nil {
		return nil, err
	}
	tc.enforceCollision()
	tc.checkTermination()
	return tc.finish(), nil
}

// UseItem consumes one itemKey from role's inventory and applies its effects
// immediately.
func (e *Engine) UseItem(ctx context.Context, g *game.Game, role game.Role, itemKey string) (*Outcome, error) {
	if !role.Valid() {
		return nil, game.ErrUnknownRole
	}
	tc, err := e.begin(ctx, g)
	if err != nil {
		return nil, err
	}
	if err := tc.requireActive(); err != nil {
		return nil, err
	}
	if e.inv == nil {
		return nil, fmt.Errorf("use %s: no inventory configured", itemKey)
	}
	user := tc.player(role)
	entry, err := e.inv.ConsumeItem(ctx, user.ID, itemKey)
	if err != nil {
		return nil, err
	}
	item := entry.Item
	msg := fmt.Sprintf("%s used %s.", displayName(role), item.Title)
	if err := tc.applyBundle(role, item.Effects.Resolved(), SourceItem, game.EventInventoryUsed, msg,
		map[string]interface{}{"item": item.Key, "remaining": entry.Quantity}); err != nil {
		return nil, err
	}
	tc.enforceCollision()
	tc.checkTermination()
	return tc.finish(), nil
}
