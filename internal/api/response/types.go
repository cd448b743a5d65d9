package response

import (
	"github.com/bancoimob/gamebank/internal/model"
)

// Player represents a player in API responses
type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p model.Player) Player {
	return Player{
		ID:      string(p.ID),
		Name:    p.Name,
		Balance: p.Balance,
	}
}

// Session represents a session in API responses. The storage version
// counter is deliberately not part of the wire shape.
type Session struct {
	ID             string   `json:"id"`
	RoomCode       string   `json:"roomCode"`
	Status         string   `json:"status"`
	InitialBalance int64    `json:"initialBalance"`
	BankBalance    int64    `json:"bankBalance"`
	Players        []Player `json:"players"`
}

// SessionFromModel converts model.Session
func SessionFromModel(s *model.Session) Session {
	players := make([]Player, len(s.Players))
	for i, p := range s.Players {
		players[i] = PlayerFromModel(p)
	}

	return Session{
		ID:             string(s.ID),
		RoomCode:       string(s.RoomCode),
		Status:         string(s.Status),
		InitialBalance: s.InitialBalance,
		BankBalance:    s.BankBalance,
		Players:        players,
	}
}

// ResolveResponse is the response for room-code resolution
type ResolveResponse struct {
	SessionID string `json:"session_id"`
}
