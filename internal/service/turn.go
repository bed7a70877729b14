package service

import (
	"context"

	"github.com/ericogr/escape-the-danger/internal/engine"
	"github.com/ericogr/escape-the-danger/internal/game"
	"github.com/ericogr/escape-the-danger/internal/storage"
)

// AdvanceTurn resolves one turn of gameID atomically.
func (s *Service) AdvanceTurn(ctx context.Context, gameID uint) (*Result, error) {
	return s.run(ctx, gameID, "turn", func(ctx context.Context, _ storage.Repository, eng *engine.Engine, g *game.Game) (*engine.Outcome, error) {
		return eng.AdvanceTurn(ctx, g)
	})
}

func (s *Service) Move(ctx context.Context, gameID uint, role game.Role, distance int) (*Result, error) {
	return s.run(ctx, gameID, "move", func(ctx context.Context, _ storage.Repository, eng *engine.Engine, g *game.Game) (*engine.Outcome, error) {
		return eng.Move(ctx, g, role, distance)
	})
}

// DrawCard draws outside the turn schedule.
func (s *Service) DrawCard(ctx context.Context, gameID uint, role game.Role) (*Result, error) {
	return s.run(ctx, gameID, "draw", func(ctx context.Context, _ storage.Repository, eng *engine.Engine, g *game.Game) (*engine.Outcome, error) {
		return eng.Draw(ctx, g, role)
	})
}

func (s *Service) AdjustHealth(ctx context.Context, gameID uint, role game.Role, amount int) (*Result, error) {
	return s.run(ctx, gameID, "health", func(ctx context.Context, _ storage.Repository, eng *engine.Engine, g *game.Game) (*engine.Outcome, error) {
		return eng.AdjustHealth(ctx, g, role, amount)
	})
}

// GrantStatus sets "immune" or "void" on role for rounds turns.
func (s *Service) GrantStatus(ctx context.Context, gameID uint, role game.Role, status string, rounds int) (*Result, error) {
	return s.run(ctx, gameID, "status", func(ctx context.Context, _ storage.Repository, eng *engine.Engine, g *game.Game) (*engine.Outcome, error) {
		return eng.GrantStatus(ctx, g, role, status, rounds)
	})
}
