package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/ericogr/escape-the-danger/internal/config"
	"github.com/ericogr/escape-the-danger/internal/constants"
	"github.com/ericogr/escape-the-danger/internal/engine"
	"github.com/ericogr/escape-the-danger/internal/feed"
	"github.com/ericogr/escape-the-danger/internal/game"
	"github.com/ericogr/escape-the-danger/internal/logging"
	"github.com/ericogr/escape-the-danger/internal/storage"
)

// Publisher receives the events of every committed command.
type Publisher interface {
	Publish(msg feed.Message)
}

type Options struct {
	Rules game.Rules
	// Cards are the deck templates dealt into every new game.
	Cards        []game.ChanceCard
	DonationMode config.DonationMode
	Publisher    Publisher
}

// Service is the command surface of the game. Each command runs under a
// per-game lock inside one store transaction; events are published only
// after the transaction commits.
type Service struct {
	store storage.Store
	opts  Options

	createMu sync.Mutex
	locks    gameLocks
}

func New(store storage.Store, opts Options) *Service {
	if opts.DonationMode == "" {
		opts.DonationMode = config.DonationBest
	}
	return &Service{store: store, opts: opts, locks: gameLocks{m: make(map[uint]*sync.Mutex)}}
}

// Result is what a committed command produced.
type Result struct {
	Game    *game.Game      `json:"game"`
	Outcome *engine.Outcome `json:"outcome"`
	Batch   string          `json:"batch"`
}

type gameLocks struct {
	mu sync.Mutex
	m  map[uint]*sync.Mutex
}

func (l *gameLocks) lock(id uint) func() {
	l.mu.Lock()
	m, ok := l.m[id]
	if !ok {
		m = &sync.Mutex{}
		l.m[id] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock
}

type commandFunc func(ctx context.Context, tx storage.Repository, eng *engine.Engine, g *game.Game) (*engine.Outcome, error)

// run loads gameID inside a transaction, lets fn mutate it through the
// engine and persists the game, its players and the journal together.
func (s *Service) run(ctx context.Context, gameID uint, command string, fn commandFunc) (*Result, error) {
	unlock := s.locks.lock(gameID)
	defer unlock()

	var res *Result
	err := s.store.Transaction(ctx, func(tx storage.Repository) error {
		g, err := tx.GetGame(ctx, gameID)
		if err != nil {
			return err
		}
		eng := engine.New(s.opts.Rules, tx, tx)
		out, err := fn(ctx, tx, eng, g)
		if err != nil {
			return err
		}
		batch := stamp(out.Events, g.ID)
		if err := tx.SaveGame(ctx, g); err != nil {
			return err
		}
		if err := tx.AppendEvents(ctx, out.Events); err != nil {
			return err
		}
		res = &Result{Game: g, Outcome: out, Batch: batch}
		return nil
	})
	if err != nil {
		s.logFailure(command, gameID, err)
		return nil, err
	}
	s.committed(command, res)
	return res, nil
}

// stamp assigns the game and a fresh batch id to every event.
func stamp(events []game.Event, gameID uint) string {
	batch := uuid.NewString()
	for i := range events {
		events[i].GameID = gameID
		events[i].Batch = batch
	}
	return batch
}

func (s *Service) committed(command string, res *Result) {
	logging.Info("command committed", logging.Fields{
		constants.LogFieldCommand:  command,
		constants.LogFieldGameID:   res.Game.ID,
		constants.LogFieldGameUUID: res.Game.UUID,
		constants.LogFieldTurn:     res.Game.Turn,
		constants.LogFieldBatch:    res.Batch,
		constants.LogFieldEvents:   len(res.Outcome.Events),
	})
	if s.opts.Publisher != nil {
		s.opts.Publisher.Publish(feed.Message{GameID: res.Game.ID, Batch: res.Batch, Events: res.Outcome.Events})
	}
}

func (s *Service) logFailure(command string, gameID uint, err error) {
	fields := logging.Fields{constants.LogFieldCommand: command, constants.LogFieldGameID: gameID}
	if IsDomainError(err) {
		logging.Debug("command rejected: "+err.Error(), fields)
		return
	}
	logging.Error("command failed", err, fields)
}

// IsDomainError reports whether err belongs to the game error taxonomy,
// as opposed to an infrastructure failure.
func IsDomainError(err error) bool {
	for _, kind := range []error{
		game.ErrNotFound,
		game.ErrInvalidState,
		game.ErrInvalidInput,
		game.ErrResourceExhausted,
		game.ErrConflict,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
