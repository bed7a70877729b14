package game

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the engine, the store or the service
// wraps exactly one of these so callers can classify failures with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidState      = errors.New("invalid state")
	ErrInvalidInput      = errors.New("invalid input")
	ErrResourceExhausted = errors.New("resource exhausted")
	ErrConflict          = errors.New("conflict")
)

var (
	ErrNoActiveGame   = fmt.Errorf("%w: no active game", ErrNotFound)
	ErrGameNotFound   = fmt.Errorf("%w: game", ErrNotFound)
	ErrPlayerNotFound = fmt.Errorf("%w: player", ErrNotFound)
	ErrItemNotFound   = fmt.Errorf("%w: item", ErrNotFound)
	ErrCardNotFound   = fmt.Errorf("%w: card", ErrNotFound)

	ErrGameAlreadyLive = fmt.Errorf("%w: a game is already in progress", ErrInvalidState)
	ErrGameNotActive   = fmt.Errorf("%w: game is not active", ErrInvalidState)
	ErrGameNotPaused   = fmt.Errorf("%w: game is not paused", ErrInvalidState)
	ErrGameFinished    = fmt.Errorf("%w: game is finished", ErrInvalidState)

	ErrUnknownRole     = fmt.Errorf("%w: unknown role", ErrInvalidInput)
	ErrInvalidDistance = fmt.Errorf("%w: distance must be an integer", ErrInvalidInput)
	ErrInvalidAmount   = fmt.Errorf("%w: amount", ErrInvalidInput)
	ErrUnknownStatus   = fmt.Errorf("%w: unknown status effect", ErrInvalidInput)
	ErrNoAffordable    = fmt.Errorf("%w: no item matches the donation amount", ErrInvalidInput)

	ErrItemUnavailable = fmt.Errorf("%w: item unavailable", ErrResourceExhausted)

	ErrCardRace = fmt.Errorf("%w: card consumed by a concurrent draw", ErrConflict)
)

// IsRetryable reports whether err is a lost race the caller may retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}
