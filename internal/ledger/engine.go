// Package ledger contains the pure transition functions for session
// state. Every operation takes the current session and returns a fresh
// copy with the command applied, or a typed error with the input left
// untouched. Nothing here performs I/O; persistence and concurrency
// control live in the storage and service layers.
package ledger

import (
	"github.com/bancoimob/gamebank/internal/model"
)

// MinPlayers is the minimum number of players required to start a game
const MinPlayers = 2

// Join adds a player to the session. While waiting the new player's
// balance is zero; a late join during play receives the full initial
// balance, mirroring a straggler joining after the deal.
func Join(s *model.Session, name string) (*model.Session, error) {
	if s.Status == model.StatusFinished {
		return nil, model.ErrSessionFinished
	}

	id := model.NormalizePlayerName(name)
	if id == "" {
		return nil, model.ErrInvalidPlayerName
	}
	if id == model.BankParty {
		return nil, model.ErrInvalidPlayerName
	}
	if s.Player(id) != nil {
		return nil, model.ErrDuplicatePlayer
	}

	var balance int64
	if s.Status == model.StatusPlaying {
		balance = s.InitialBalance
	}

	next := s.Clone()
	next.Players = append(next.Players, model.Player{
		ID:      id,
		Name:    name,
		Balance: balance,
	})
	return next, nil
}

// Start transitions the session from waiting to playing, assigning the
// initial balance to every current player. The distribution is a full
// overwrite and deliberately not idempotent; the waiting-only
// precondition is what guards against a double start.
//
// Starting mints the distributed funds rather than drawing them from
// the bank, matching the physical game where the bank's reserve is
// effectively unlimited. Together with the endowment at creation these
// are the only two operations that change total supply.
func Start(s *model.Session) (*model.Session, error) {
	switch s.Status {
	case model.StatusPlaying:
		return nil, model.ErrGameAlreadyStarted
	case model.StatusFinished:
		return nil, model.ErrSessionFinished
	}

	if len(s.Players) < MinPlayers {
		return nil, model.ErrInsufficientPlayers
	}

	next := s.Clone()
	next.Status = model.StatusPlaying
	for i := range next.Players {
		next.Players[i].Balance = s.InitialBalance
	}
	return next, nil
}

// Transfer moves amount from a player to another player or, when to is
// BankParty, to the bank. A self-transfer passes the full validation
// path and then leaves the session unchanged; it is treated as a valid
// idempotent action rather than an error.
func Transfer(s *model.Session, from, to model.PlayerID, amount int64) (*model.Session, error) {
	if err := checkPlaying(s); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, model.ErrInvalidAmount
	}

	sender := s.Player(from)
	if sender == nil {
		return nil, model.ErrUnknownParty
	}
	if to != model.BankParty && s.Player(to) == nil {
		return nil, model.ErrUnknownParty
	}
	if sender.Balance < amount {
		return nil, model.ErrInsufficientFunds
	}

	next := s.Clone()
	if from == to {
		return next, nil
	}

	next.Player(from).Balance -= amount
	if to == model.BankParty {
		next.BankBalance += amount
	} else {
		next.Player(to).Balance += amount
	}
	return next, nil
}

// Disburse moves amount from the bank to a player. Whether the caller
// is entitled to act as the bank is an authorization concern checked by
// the service; the engine only enforces the business rules.
func Disburse(s *model.Session, to model.PlayerID, amount int64) (*model.Session, error) {
	if err := checkPlaying(s); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, model.ErrInvalidAmount
	}
	if s.Player(to) == nil {
		return nil, model.ErrUnknownParty
	}
	if s.BankBalance < amount {
		return nil, model.ErrInsufficientBankFunds
	}

	next := s.Clone()
	next.BankBalance -= amount
	next.Player(to).Balance += amount
	return next, nil
}

func checkPlaying(s *model.Session) error {
	switch s.Status {
	case model.StatusWaiting:
		return model.ErrGameNotStarted
	case model.StatusFinished:
		return model.ErrSessionFinished
	}
	return nil
}
