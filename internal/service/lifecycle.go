package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ericogr/escape-the-danger/internal/engine"
	"github.com/ericogr/escape-the-danger/internal/game"
	"github.com/ericogr/escape-the-danger/internal/storage"
)

// StartGame creates a new active game with both players and a fresh copy
// of the deck. It fails with game.ErrGameAlreadyLive while another game is
// active or paused.
func (s *Service) StartGame(ctx context.Context) (*Result, error) {
	s.createMu.Lock()
	defer s.createMu.Unlock()

	var res *Result
	err := s.store.Transaction(ctx, func(tx storage.Repository) error {
		live, err := tx.GetLiveGame(ctx)
		if err == nil {
			return fmt.Errorf("%w (game %d)", game.ErrGameAlreadyLive, live.ID)
		}
		if !errors.Is(err, game.ErrNotFound) {
			return err
		}

		g := &game.Game{UUID: uuid.NewString()}
		out, err := engine.New(s.opts.Rules, tx, tx).Start(ctx, g)
		if err != nil {
			return err
		}
		if err := tx.CreateGame(ctx, g); err != nil {
			return err
		}
		if err := tx.SeedCards(ctx, g.ID, s.opts.Cards); err != nil {
			return fmt.Errorf("seed cards: %w", err)
		}
		batch := stamp(out.Events, g.ID)
		if err := tx.AppendEvents(ctx, out.Events); err != nil {
			return err
		}
		res = &Result{Game: g, Outcome: out, Batch: batch}
		return nil
	})
	if err != nil {
		s.logFailure("start", 0, err)
		return nil, err
	}
	s.committed("start", res)
	return res, nil
}

// ActiveGame returns the current active or paused game.
func (s *Service) ActiveGame(ctx context.Context) (*game.Game, error) {
	return s.store.GetLiveGame(ctx)
}

func (s *Service) PauseGame(ctx context.Context, gameID uint) (*Result, error) {
	return s.run(ctx, gameID, "pause", func(ctx context.Context, _ storage.Repository, eng *engine.Engine, g *game.Game) (*engine.Outcome, error) {
		return eng.Pause(ctx, g)
	})
}

func (s *Service) ResumeGame(ctx context.Context, gameID uint) (*Result, error) {
	return s.run(ctx, gameID, "resume", func(ctx context.Context, _ storage.Repository, eng *engine.Engine, g *game.Game) (*engine.Outcome, error) {
		return eng.Resume(ctx, g)
	})
}

// EndGame finishes a live game without a winner.
func (s *Service) EndGame(ctx context.Context, gameID uint) (*Result, error) {
	return s.run(ctx, gameID, "end", func(ctx context.Context, _ storage.Repository, eng *engine.Engine, g *game.Game) (*engine.Outcome, error) {
		return eng.End(ctx, g)
	})
}
