package errors

import "errors"

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrSessionNotFound = errors.New("session not found")

	// Betting and round flow.
	ErrInvalidBet        = errors.New("invalid bet amount")
	ErrInvalidAction     = errors.New("action not allowed in current phase")
	ErrRoundInProgress   = errors.New("round in progress")
	ErrDoubleNotAllowed  = errors.New("double down not allowed")
	ErrDeckExhausted     = errors.New("deck exhausted")
	ErrUnknownGame       = errors.New("unknown game")
	ErrNoGameSelected    = errors.New("no game selected")
	ErrResetNotConfirmed = errors.New("reset must be confirmed")

	// Storage.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
	ErrInvalidSnapshot        = errors.New("invalid session snapshot")
)
