package model

import "errors"

// Common errors used across the application
var (
	// Session / directory errors
	ErrSessionNotFound = errors.New("session not found")
	ErrCodeCollision   = errors.New("room code already in use")

	// Lifecycle errors
	ErrGameAlreadyStarted = errors.New("game has already started")
	ErrGameNotStarted     = errors.New("game has not started")
	ErrSessionFinished    = errors.New("session is finished")

	// Player errors
	ErrDuplicatePlayer     = errors.New("player name already taken in this session")
	ErrInvalidPlayerName   = errors.New("player name is empty")
	ErrInsufficientPlayers = errors.New("insufficient players to start game")
	ErrUnknownParty        = errors.New("unknown transfer party")

	// Money errors
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrInsufficientBankFunds = errors.New("insufficient bank funds")

	// Authorization errors
	ErrNotHost = errors.New("only the host can perform this action")

	// Concurrency errors. ErrVersionConflict is internal to the
	// read-modify-write loop; callers see ErrContention once retries
	// are exhausted.
	ErrVersionConflict = errors.New("session modified concurrently")
	ErrContention      = errors.New("session under contention, retry later")
)
