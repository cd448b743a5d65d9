package middleware

import (
	"context"
	"net/http"

	"github.com/bancoimob/gamebank/internal/model"
	"github.com/bancoimob/gamebank/internal/services/session"
)

type contextKey string

const (
	playerContextKey contextKey = "player_id"
	roleContextKey   contextKey = "acting_role"
)

// Headers carrying the caller's claimed identity. There is no account
// system; clients self-report who they are and which role they act as.
const (
	PlayerIDHeader   = "X-Player-Id"
	ActingRoleHeader = "X-Acting-Role"
)

// Identity extracts the claimed player id and acting role from request
// headers and stores them on the context. Absent headers leave an empty
// player id and the default player role.
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if playerID := r.Header.Get(PlayerIDHeader); playerID != "" {
				ctx = context.WithValue(ctx, playerContextKey, model.PlayerID(playerID))
			}

			role := session.RolePlayer
			if r.Header.Get(ActingRoleHeader) == string(session.RoleHost) {
				role = session.RoleHost
			}
			ctx = context.WithValue(ctx, roleContextKey, role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPlayerID returns the claimed player id, or "" if none was provided
func GetPlayerID(ctx context.Context) model.PlayerID {
	playerID, _ := ctx.Value(playerContextKey).(model.PlayerID)
	return playerID
}

// GetActingRole returns the claimed role, defaulting to player
func GetActingRole(ctx context.Context) session.Role {
	role, ok := ctx.Value(roleContextKey).(session.Role)
	if !ok {
		return session.RolePlayer
	}
	return role
}
