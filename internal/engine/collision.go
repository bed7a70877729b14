package engine

import (
	"fmt"

	"github.com/ericogr/escape-the-danger/internal/game"
)

// enforceCollision keeps the Danger strictly behind the Streamer. Manual
// moves and turn advances both go through here.
func (tc *turnContext) enforceCollision() {
	s, d := tc.streamer, tc.danger
	if d.Position < s.Position {
		return
	}
	from := d.Position
	d.Position = s.Position - 1

	penalty := tc.e.rules.CollisionPenalty
	blocked := s.Immune && penalty > 0
	before := s.Health
	if !blocked {
		s.Health = clampHealth(s.Health-penalty, maxHealth(s, tc.e.rules))
	}

	msg := "The Danger reached the Streamer and bounced back!"
	if blocked {
		msg = "The Danger reached the Streamer and bounced back, but immunity absorbed the hit!"
	}
	tc.record(d, game.EventBounceBack, msg, map[string]interface{}{
		"from":              from,
		"position":          d.Position,
		"streamer_position": s.Position,
		"streamer_health":   s.Health,
		"damage":            before - s.Health,
		"blocked":           blocked,
	})
}

// checkTermination finishes the game when a player has no health left.
// The streamer is checked first, so a double knockout goes to the Danger.
func (tc *turnContext) checkTermination() bool {
	var loser *game.Player
	switch {
	case tc.streamer.Health <= 0:
		loser = tc.streamer
	case tc.danger.Health <= 0:
		loser = tc.danger
	default:
		return false
	}
	winner := loser.Role.Opponent()
	tc.g.Status = game.StatusFinished
	tc.g.Winner = winner
	tc.g.Message = victoryMessage(winner)
	tc.record(nil, game.EventGameFinished, tc.g.Message, map[string]interface{}{
		"winner": winner,
		"loser":  loser.Role,
		"turn":   tc.g.Turn,
	})
	return true
}

func victoryMessage(winner game.Role) string {
	if winner == game.RoleDanger {
		return "The Danger won! The Streamer has fallen!"
	}
	return "The Streamer won! The Danger is defeated!"
}

func positionsMessage(s, d *game.Player) string {
	return fmt.Sprintf("Streamer at %d (%d HP), Danger at %d (%d HP).", s.Position, s.Health, d.Position, d.Health)
}
