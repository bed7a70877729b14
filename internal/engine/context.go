package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/ericogr/escape-the-danger/internal/game"
)

// --- Turn context and helpers -----------------------------------------
type turnContext struct {
	ctx      context.Context
	e        *Engine
	g        *game.Game
	streamer *game.Player
	danger   *game.Player
	out      *Outcome
	summary  []string
}

func (e *Engine) begin(ctx context.Context, g *game.Game) (*turnContext, error) {
	if g == nil {
		return nil, game.ErrGameNotFound
	}
	s, d := g.Player(game.RoleStreamer), g.Player(game.RoleDanger)
	if s == nil || d == nil {
		return nil, fmt.Errorf("game %d: %w", g.ID, game.ErrPlayerNotFound)
	}
	for _, p := range []*game.Player{s, d} {
		if p.MaxHealth <= 0 {
			p.MaxHealth = e.rules.MaxHealth
		}
	}
	return &turnContext{
		ctx:      ctx,
		e:        e,
		g:        g,
		streamer: s,
		danger:   d,
		out:      &Outcome{},
		summary:  make([]string, 0, 8),
	}, nil
}

func (tc *turnContext) player(role game.Role) *game.Player {
	if role == game.RoleDanger {
		return tc.danger
	}
	return tc.streamer
}

// record appends an event to the outcome journal. p may be nil for
// game-level events.
func (tc *turnContext) record(p *game.Player, t game.EventType, msg string, details map[string]interface{}) {
	ev := game.Event{GameID: tc.g.ID, Type: t, Message: msg, Details: details}
	if p != nil && p.ID != 0 {
		id := p.ID
		ev.PlayerID = &id
	}
	tc.out.Events = append(tc.out.Events, ev)
	tc.summary = append(tc.summary, msg)
}

// finish seals the outcome and copies the summary onto the game.
func (tc *turnContext) finish() *Outcome {
	if len(tc.summary) > 0 && tc.g.Status != game.StatusFinished {
		tc.g.Message = strings.Join(tc.summary, "\n")
	}
	tc.out.Finished = tc.g.Status == game.StatusFinished
	tc.out.Winner = tc.g.Winner
	return tc.out
}

func (tc *turnContext) requireActive() error {
	switch tc.g.Status {
	case game.StatusActive:
		return nil
	case game.StatusFinished:
		return game.ErrGameFinished
	default:
		return game.ErrGameNotActive
	}
}

func (tc *turnContext) requireLive() error {
	if tc.g.Status == game.StatusFinished {
		return game.ErrGameFinished
	}
	if !tc.g.Status.Live() {
		return game.ErrGameNotActive
	}
	return nil
}
