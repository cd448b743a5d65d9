package model

import (
	"strings"
	"time"
)

// SessionID uniquely identifies a game session across the system
type SessionID string

// RoomCode is the short human-readable identifier players use to find a session.
// Codes are compared uppercase; NormalizeRoomCode must be applied before lookup.
type RoomCode string

// PlayerID identifies a player within a session. It is derived
// deterministically from the display name, so two players whose names
// normalize to the same id cannot coexist in one session.
type PlayerID string

// BankParty is the sentinel party id for the bank side of a transfer
const BankParty PlayerID = "bank"

// SessionStatus represents the lifecycle state of a session
type SessionStatus string

const (
	StatusWaiting  SessionStatus = "waiting"  // Players joining, game not started
	StatusPlaying  SessionStatus = "playing"  // Funds distributed, transfers allowed
	StatusFinished SessionStatus = "finished" // Terminal, no operation is valid
)

// Player is a named participant holding a balance
type Player struct {
	ID      PlayerID `json:"id"`
	Name    string   `json:"name"`
	Balance int64    `json:"balance"`
}

// Session is one game room's complete ledger state.
//
// Version is the optimistic-concurrency counter used by the storage
// layer's conditional write; it is persisted but never exposed over the
// API. Every committed mutation increments it by exactly one.
type Session struct {
	ID             SessionID     `json:"id"`
	RoomCode       RoomCode      `json:"room_code"`
	Status         SessionStatus `json:"status"`
	InitialBalance int64         `json:"initial_balance"`
	BankBalance    int64         `json:"bank_balance"`
	Players        []Player      `json:"players"`
	Version        int64         `json:"version"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Player returns the player with the given id, or nil if not present
func (s *Session) Player(id PlayerID) *Player {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// TotalSupply returns the bank balance plus the sum of all player
// balances. Transfers and disbursements must leave it unchanged.
func (s *Session) TotalSupply() int64 {
	total := s.BankBalance
	for i := range s.Players {
		total += s.Players[i].Balance
	}
	return total
}

// Clone returns a deep copy of the session. The ledger engine operates
// on copies so that a rejected command never leaves partial mutation
// visible to the caller.
func (s *Session) Clone() *Session {
	next := *s
	next.Players = make([]Player, len(s.Players))
	copy(next.Players, s.Players)
	return &next
}

// NormalizePlayerName derives the player id from a display name:
// lowercased, with runs of whitespace collapsed to single hyphens.
// Returns the empty id for names that are blank after normalization.
func NormalizePlayerName(name string) PlayerID {
	fields := strings.Fields(strings.ToLower(name))
	return PlayerID(strings.Join(fields, "-"))
}

// NormalizeRoomCode uppercases and trims a room code for lookup
func NormalizeRoomCode(code string) RoomCode {
	return RoomCode(strings.ToUpper(strings.TrimSpace(code)))
}
