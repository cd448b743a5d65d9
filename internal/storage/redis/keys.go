package redis

import (
	"fmt"

	"github.com/bancoimob/gamebank/internal/model"
)

// Key prefix for all ledger data
const keyPrefix = "gamebank"

// sessionKey returns the Redis key for a Session
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// roomCodeKey returns the Redis key for the room-code -> session-id directory entry
func roomCodeKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:code:%s", keyPrefix, code)
}
