package engine

import (
	"fmt"
	"strings"

	"github.com/ericogr/escape-the-danger/internal/game"
)

// Source tells the applier where an effect bundle came from. Void and
// immunity only shield a player from card effects.
type Source string

const (
	SourceCard     Source = "card"
	SourceDelayed  Source = "delayed"
	SourceItem     Source = "item"
	SourceOperator Source = "operator"
)

func (s Source) fromCard() bool {
	return s == SourceCard || s == SourceDelayed
}

// AppliedResult describes what a single Apply call changed.
type AppliedResult struct {
	Role    game.Role    `json:"role"`
	Source  Source       `json:"source"`
	Effects game.Effects `json:"effects"`

	PositionDelta int `json:"position_delta"`
	HealthDelta   int `json:"health_delta"`
	// Suppressed is set when void cancelled the movement and health deltas.
	Suppressed bool `json:"suppressed,omitempty"`
	// Blocked is set when immunity ignored a negative health delta.
	Blocked bool `json:"blocked,omitempty"`

	ImmuneGranted bool `json:"immune_granted,omitempty"`
	VoidGranted   bool `json:"void_granted,omitempty"`

	// ItemKey and ItemAmount describe an inventory grant the caller still
	// has to perform against the inventory store.
	ItemKey    string `json:"item_key,omitempty"`
	ItemAmount int    `json:"item_amount,omitempty"`

	Summary string `json:"summary"`
}

// Apply applies e to p in a fixed order: void check, position, health,
// immunity grant, void grant, item grant. The bundle's delay is ignored; the
// caller must route delayed bundles through Schedule instead.
func Apply(p *game.Player, e game.Effects, src Source, rules game.Rules) AppliedResult {
	res := AppliedResult{Role: p.Role, Source: src, Effects: e}
	move, health := e.Move, e.Health

	if p.Voided && src.fromCard() && (move != 0 || health != 0) {
		move, health = 0, 0
		res.Suppressed = true
	}
	if p.Immune && src.fromCard() && health < 0 {
		health = 0
		res.Blocked = true
	}

	p.Position += move
	res.PositionDelta = move

	before := p.Health
	p.Health = clampHealth(p.Health+health, maxHealth(p, rules))
	res.HealthDelta = p.Health - before

	if e.Immune {
		p.Immune = true
		p.ImmuneRounds = statusDuration(e.ImmuneDuration, rules)
		res.ImmuneGranted = true
	}
	if e.Void {
		p.Voided = true
		p.VoidedRounds = statusDuration(e.VoidDuration, rules)
		res.VoidGranted = true
	}
	if e.InventoryItem != "" {
		res.ItemKey = e.InventoryItem
		res.ItemAmount = e.InventoryItemAmount
		if res.ItemAmount < 1 {
			res.ItemAmount = 1
		}
	}

	res.Summary = summarize(p, res)
	return res
}

func summarize(p *game.Player, res AppliedResult) string {
	parts := make([]string, 0, 5)
	if res.Suppressed {
		parts = append(parts, "void cancelled the effect")
	}
	if res.PositionDelta != 0 {
		parts = append(parts, fmt.Sprintf("moved %s to %d", signed(res.PositionDelta), p.Position))
	}
	if res.HealthDelta != 0 {
		parts = append(parts, fmt.Sprintf("health %s (now %d)", signed(res.HealthDelta), p.Health))
	}
	if res.Blocked {
		parts = append(parts, "immunity blocked the damage")
	}
	if res.ImmuneGranted {
		parts = append(parts, "immune for "+plural(p.ImmuneRounds, "turn"))
	}
	if res.VoidGranted {
		parts = append(parts, "voided for "+plural(p.VoidedRounds, "turn"))
	}
	if res.ItemKey != "" {
		parts = append(parts, fmt.Sprintf("receives %dx %s", res.ItemAmount, res.ItemKey))
	}
	if len(parts) == 0 {
		return displayName(p.Role) + ": nothing happens"
	}
	return displayName(p.Role) + ": " + strings.Join(parts, ", ")
}

// applyBundle runs Apply on the role targeted by e and records the
// resulting events. owner is the card owner or item user.
func (tc *turnContext) applyBundle(owner game.Role, e game.Effects, src Source, t game.EventType, msg string, extra map[string]interface{}) error {
	target := tc.player(e.Target.Resolve(owner))
	res := Apply(target, e, src, tc.e.rules)
	tc.out.Applied = append(tc.out.Applied, res)

	details := map[string]interface{}{
		"owner":    owner,
		"target":   target.Role,
		"effects":  e,
		"summary":  res.Summary,
		"position": target.Position,
		"health":   target.Health,
	}
	for k, v := range extra {
		details[k] = v
	}
	tc.record(target, t, msg, details)

	if res.ImmuneGranted {
		tc.record(target, game.EventImmune,
			fmt.Sprintf("%s is immune for %s.", displayName(target.Role), plural(target.ImmuneRounds, "turn")),
			map[string]interface{}{"role": target.Role, "rounds": target.ImmuneRounds})
	}
	if res.VoidGranted {
		tc.record(target, game.EventVoid,
			fmt.Sprintf("%s is voided for %s.", displayName(target.Role), plural(target.VoidedRounds, "turn")),
			map[string]interface{}{"role": target.Role, "rounds": target.VoidedRounds})
	}
	if res.ItemKey != "" {
		return tc.grantItem(target, res.ItemKey, res.ItemAmount)
	}
	return nil
}

// grantItem adds amount of itemKey to p's inventory, bounded by the item's
// configured maximum.
func (tc *turnContext) grantItem(p *game.Player, itemKey string, amount int) error {
	if tc.e.inv == nil {
		return fmt.Errorf("grant %s: no inventory configured", itemKey)
	}
	entry, err := tc.e.inv.AdjustItemQuantity(tc.ctx, p.ID, itemKey, amount)
	if err != nil {
		return err
	}
	tc.record(p, game.EventInventoryGain,
		fmt.Sprintf("%s received %s.", displayName(p.Role), entry.Item.Title),
		map[string]interface{}{"role": p.Role, "item": itemKey, "amount": amount, "quantity": entry.Quantity})
	return nil
}
