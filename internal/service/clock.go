package service

import (
	"context"
	"errors"

	"github.com/ericogr/escape-the-danger/internal/constants"
	"github.com/ericogr/escape-the-danger/internal/game"
	"github.com/ericogr/escape-the-danger/internal/logging"
)

// TickActiveGame advances the active game by one turn on behalf of the
// turn clock. Paused, finished or missing games are skipped and reported
// as (nil, nil).
func (s *Service) TickActiveGame(ctx context.Context) (*Result, error) {
	g, err := s.store.GetActiveGame(ctx)
	if errors.Is(err, game.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	res, err := s.AdvanceTurn(ctx, g.ID)
	if errors.Is(err, game.ErrInvalidState) {
		// paused or finished between the lookup and the lock
		logging.Debug("turn clock skipped game", logging.Fields{constants.LogFieldGameID: g.ID})
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if res.Game.Status == game.StatusFinished {
		logging.Info("game finished by turn clock", logging.Fields{
			constants.LogFieldGameID: res.Game.ID,
			constants.LogFieldTurn:   res.Game.Turn,
			constants.LogFieldRole:   res.Game.Winner,
		})
	}
	return res, nil
}
