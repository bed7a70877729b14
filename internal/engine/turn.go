package engine

import (
	"context"
	"fmt"

	"github.com/ericogr/escape-the-danger/internal/game"
)

// Engine mutates a loaded game in memory. It never persists anything
// itself; callers save the game, its players and Outcome.Events together.
type Engine struct {
	rules game.Rules
	deck  Deck
	inv   Inventory
}

func New(rules game.Rules, deck Deck, inv Inventory) *Engine {
	return &Engine{rules: rules, deck: deck, inv: inv}
}

func (e *Engine) Rules() game.Rules { return e.rules }

// Outcome is the journal of one command.
type Outcome struct {
	Events   []game.Event       `json:"events"`
	Cards    []*game.ChanceCard `json:"cards,omitempty"`
	Applied  []AppliedResult    `json:"applied,omitempty"`
	Finished bool               `json:"finished"`
	Winner   game.Role          `json:"winner,omitempty"`
}

// Start initializes g as a fresh active game with both players on their
// starting squares.
func (e *Engine) Start(ctx context.Context, g *game.Game) (*Outcome, error) {
	g.Status = game.StatusActive
	g.Turn = 0
	g.Winner = ""
	g.Players = []game.Player{
		{Role: game.RoleStreamer, Position: e.rules.StreamerStart, Health: e.rules.MaxHealth, MaxHealth: e.rules.MaxHealth},
		{Role: game.RoleDanger, Position: e.rules.DangerStart, Health: e.rules.MaxHealth, MaxHealth: e.rules.MaxHealth},
	}
	tc, err := e.begin(ctx, g)
	if err != nil {
		return nil, err
	}
	tc.record(nil, game.EventGameStarted, "A new game has started! "+positionsMessage(tc.streamer, tc.danger),
		map[string]interface{}{
			"streamer_position": tc.streamer.Position,
			"danger_position":   tc.danger.Position,
			"max_health":        e.rules.MaxHealth,
		})
	return tc.finish(), nil
}

// AdvanceTurn resolves one full turn of an active game.
func (e *Engine) AdvanceTurn(ctx context.Context, g *game.Game) (*Outcome, error) {
	tc, err := e.begin(ctx, g)
	if err != nil {
		return nil, err
	}
	if err := tc.requireActive(); err != nil {
		return nil, err
	}
	turn := g.Turn

	tc.tick(tc.streamer)
	tc.tick(tc.danger)

	for _, p := range []*game.Player{tc.streamer, tc.danger} {
		if err := tc.flushDelayed(p); err != nil {
			return nil, err
		}
	}

	if contains(e.rules.StreamerDrawTurns, turn) {
		if err := tc.draw(game.RoleStreamer); err != nil {
			return nil, err
		}
	}
	if contains(e.rules.DangerDrawTurns, turn) {
		if err := tc.draw(game.RoleDanger); err != nil {
			return nil, err
		}
	}

	tc.enforceCollision()
	if tc.checkTermination() {
		return tc.finish(), nil
	}

	g.Turn++
	tc.record(nil, game.EventTurnEnd, fmt.Sprintf("Turn %d ended. %s", turn, positionsMessage(tc.streamer, tc.danger)),
		map[string]interface{}{
			"turn":              turn,
			"next_turn":         g.Turn,
			"streamer_position": tc.streamer.Position,
			"danger_position":   tc.danger.Position,
			"streamer_health":   tc.streamer.Health,
			"danger_health":     tc.danger.Health,
		})
	return tc.finish(), nil
}

// Move shifts role by distance and then applies the collision rule.
func (e *Engine) Move(ctx context.Context, g *game.Game, role game.Role, distance int) (*Outcome, error) {
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
	p := tc.player(role)
	from := p.Position
	p.Position += distance
	tc.record(p, game.EventMove, fmt.Sprintf("%s moved %s to %d.", displayName(role), signed(distance), p.Position),
		map[string]interface{}{"role": role, "from": from, "distance": distance, "position": p.Position})

	tc.enforceCollision()
	tc.checkTermination()
	return tc.finish(), nil
}

// AdjustHealth is an operator override. It ignores void and immunity but
// still respects the health bounds.
func (e *Engine) AdjustHealth(ctx context.Context, g *game.Game, role game.Role, amount int) (*Outcome, error) {
	if !role.Valid() {
		return nil, game.ErrUnknownRole
	}
	if amount == 0 {
		return nil, fmt.Errorf("%w: must not be zero", game.ErrInvalidAmount)
	}
	tc, err := e.begin(ctx, g)
	if err != nil {
		return nil, err
	}
	if err := tc.requireLive(); err != nil {
		return nil, err
	}
	p := tc.player(role)
	res := Apply(p, game.Effects{Health: amount}, SourceOperator, e.rules)
	tc.out.Applied = append(tc.out.Applied, res)
	tc.record(p, game.EventHealthChange, res.Summary,
		map[string]interface{}{"role": role, "amount": amount, "delta": res.HealthDelta, "health": p.Health})
	tc.checkTermination()
	return tc.finish(), nil
}

// GrantStatus sets immune or void on role for rounds turns.
func (e *Engine) GrantStatus(ctx context.Context, g *game.Game, role game.Role, status string, rounds int) (*Outcome, error) {
	if !role.Valid() {
		return nil, game.ErrUnknownRole
	}
	if rounds < 0 {
		return nil, fmt.Errorf("%w: rounds must not be negative", game.ErrInvalidAmount)
	}
	tc, err := e.begin(ctx, g)
	if err != nil {
		return nil, err
	}
	if err := tc.requireLive(); err != nil {
		return nil, err
	}
	p := tc.player(role)
	if err := grantStatus(p, status, rounds, e.rules); err != nil {
		return nil, err
	}
	t, n := game.EventImmune, p.ImmuneRounds
	msg := fmt.Sprintf("%s is immune for %s.", displayName(role), plural(n, "turn"))
	if status == "void" {
		t, n = game.EventVoid, p.VoidedRounds
		msg = fmt.Sprintf("%s is voided for %s.", displayName(role), plural(n, "turn"))
	}
	tc.record(p, t, msg, map[string]interface{}{"role": role, "rounds": n})
	return tc.finish(), nil
}

// GrantItem adds amount of itemKey to role's inventory outside of cards.
func (e *Engine) GrantItem(ctx context.Context, g *game.Game, role game.Role, itemKey string, amount int) (*Outcome, error) {
	if !role.Valid() {
		return nil, game.ErrUnknownRole
	}
	if amount == 0 {
		return nil, fmt.Errorf("%w: must not be zero", game.ErrInvalidAmount)
	}
	tc, err := e.begin(ctx, g)
	if err != nil {
		return nil, err
	}
	if err := tc.requireLive(); err != nil {
		return nil, err
	}
	if e.inv == nil {
		return nil, fmt.Errorf("grant %s: no inventory configured", itemKey)
	}
	if amount > 0 {
		if err := tc.grantItem(tc.player(role), itemKey, amount); err != nil {
			return nil, err
		}
		return tc.finish(), nil
	}
	p := tc.player(role)
	entry, err := e.inv.AdjustItemQuantity(ctx, p.ID, itemKey, amount)
	if err != nil {
		return nil, err
	}
	tc.record(p, game.EventInventoryUsed,
		fmt.Sprintf("%s lost %s.", displayName(role), entry.Item.Title),
		map[string]interface{}{"role": role, "item": itemKey, "amount": amount, "quantity": entry.Quantity, "removed": true})
	return tc.finish(), nil
}

// Pause moves an active game to paused.
func (e *Engine) Pause(ctx context.Context, g *game.Game) (*Outcome, error) {
	tc, err := e.begin(ctx, g)
	if err != nil {
		return nil, err
	}
	if err := tc.requireActive(); err != nil {
		return nil, err
	}
	g.Status = game.StatusPaused
	tc.record(nil, game.EventGamePaused, "The game is paused.", map[string]interface{}{"turn": g.Turn})
	return tc.finish(), nil
}

// Resume moves a paused game back to active.
func (e *Engine) Resume(ctx context.Context, g *game.Game) (*Outcome, error) {
	tc, err := e.begin(ctx, g)
	if err != nil {
		return nil, err
	}
	switch g.Status {
	case game.StatusPaused:
	case game.StatusFinished:
		return nil, game.ErrGameFinished
	default:
		return nil, game.ErrGameNotPaused
	}
	g.Status = game.StatusActive
	tc.record(nil, game.EventGameResumed, "The game is back on!", map[string]interface{}{"turn": g.Turn})
	return tc.finish(), nil
}

// End finishes a live game without a winner.
func (e *Engine) End(ctx context.Context, g *game.Game) (*Outcome, error) {
	tc, err := e.begin(ctx, g)
	if err != nil {
		return nil, err
	}
	if err := tc.requireLive(); err != nil {
		return nil, err
	}
	g.Status = game.StatusFinished
	g.Winner = ""
	g.Message = "Game manually ended."
	tc.record(nil, game.EventGameFinished, g.Message, map[string]interface{}{"reason": "manual", "turn": g.Turn})
	return tc.finish(), nil
}
