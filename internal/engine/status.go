package engine

import "github.com/ericogr/escape-the-danger/internal/game"

// TickResult reports which statuses ran out during a Tick.
type TickResult struct {
	ImmuneExpired bool
	VoidExpired   bool
}

// Tick counts down p's timed statuses by one turn. A flag is cleared on the
// same tick its counter reaches zero.
func Tick(p *game.Player) TickResult {
	var res TickResult
	if p.ImmuneRounds > 0 {
		p.ImmuneRounds--
		res.ImmuneExpired = p.ImmuneRounds == 0 && p.Immune
	}
	if p.ImmuneRounds <= 0 {
		p.ImmuneRounds = 0
		p.Immune = false
	}
	if p.VoidedRounds > 0 {
		p.VoidedRounds--
		res.VoidExpired = p.VoidedRounds == 0 && p.Voided
	}
	if p.VoidedRounds <= 0 {
		p.VoidedRounds = 0
		p.Voided = false
	}
	return res
}

func (tc *turnContext) tick(p *game.Player) {
	res := Tick(p)
	if res.ImmuneExpired {
		tc.record(p, game.EventImmune, displayName(p.Role)+" is no longer immune.",
			map[string]interface{}{"role": p.Role, "rounds": 0, "expired": true})
	}
	if res.VoidExpired {
		tc.record(p, game.EventVoid, displayName(p.Role)+" is no longer voided.",
			map[string]interface{}{"role": p.Role, "rounds": 0, "expired": true})
	}
}

// grantStatus sets a timed status directly, bypassing card rules.
func grantStatus(p *game.Player, status string, rounds int, rules game.Rules) error {
	rounds = statusDuration(rounds, rules)
	switch status {
	case "immune":
		p.Immune, p.ImmuneRounds = true, rounds
	case "void":
		p.Voided, p.VoidedRounds = true, rounds
	default:
		return game.ErrUnknownStatus
	}
	return nil
}
