package main

import (
	"context"
	"time"

	"github.com/ericogr/escape-the-danger/internal/constants"
	"github.com/ericogr/escape-the-danger/internal/logging"
	"github.com/ericogr/escape-the-danger/internal/service"
)

// runTurnClock advances the active game every interval until ctx is done.
func runTurnClock(ctx context.Context, svc *service.Service, interval time.Duration) {
	logging.Info("turn clock started", logging.Fields{"interval": interval.String()})
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res, err := svc.TickActiveGame(ctx)
			if err != nil {
				logging.Error("turn clock failed", err, nil)
				continue
			}
			if res != nil {
				logging.Debug("turn clock advanced game", logging.Fields{
					constants.LogFieldGameID: res.Game.ID,
					constants.LogFieldTurn:   res.Game.Turn,
				})
			}
		}
	}
}
