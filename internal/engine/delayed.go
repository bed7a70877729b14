package engine

import (
	"fmt"

	"github.com/ericogr/escape-the-danger/internal/game"
)

// Schedule queues e on p to fire after e.Delay turn advances. A bundle with
// no positive delay fires on the next advance.
func Schedule(p *game.Player, e game.Effects, source string) game.PendingEffect {
	rounds := e.Delay
	if rounds < 1 {
		rounds = 1
	}
	pe := game.PendingEffect{Effects: e.Resolved(), RoundsRemaining: rounds, Source: source}
	p.DelayedEffects = append(p.DelayedEffects, pe)
	return pe
}

// Advance counts every queued entry down by one and returns the entries that
// reached zero, in scheduling order.
func Advance(p *game.Player) []game.PendingEffect {
	if len(p.DelayedEffects) == 0 {
		return nil
	}
	var ready []game.PendingEffect
	kept := p.DelayedEffects[:0:0]
	for _, pe := range p.DelayedEffects {
		pe.RoundsRemaining--
		if pe.RoundsRemaining <= 0 {
			pe.RoundsRemaining = 0
			ready = append(ready, pe)
			continue
		}
		kept = append(kept, pe)
	}
	p.DelayedEffects = kept
	return ready
}

// flushDelayed applies every bundle of p that became due this turn.
func (tc *turnContext) flushDelayed(p *game.Player) error {
	for _, pe := range Advance(p) {
		msg := fmt.Sprintf("Delayed effect of %q takes hold.", pe.Source)
		if pe.Source == "" {
			msg = "A delayed effect takes hold."
		}
		if err := tc.applyBundle(p.Role, pe.Effects, SourceDelayed, game.EventChanceCardExecuted, msg,
			map[string]interface{}{"source": pe.Source}); err != nil {
			return err
		}
	}
	return nil
}
