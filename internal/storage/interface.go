package storage

import (
	"context"

	"github.com/bancoimob/gamebank/internal/model"
)

// Storage defines the interface for session persistence.
//
// Sessions are the only contended resource in the system, so the
// interface is built around a conditional write: CompareAndSwapSession
// commits only if the stored version still matches what the caller
// read. The room-code directory is part of the same contract so that
// backends can bind a code atomically with session creation.
type Storage interface {
	// CreateSession stores a fresh session and binds its room code.
	// Fails with model.ErrCodeCollision if an active session already
	// uses the code; the session is not stored in that case.
	CreateSession(ctx context.Context, session *model.Session) error

	// GetSession returns the current state of a session.
	// Fails with model.ErrSessionNotFound if absent.
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)

	// ResolveRoomCode maps a normalized room code to a session id.
	// Fails with model.ErrSessionNotFound if no active session has the code.
	ResolveRoomCode(ctx context.Context, code model.RoomCode) (model.SessionID, error)

	// CompareAndSwapSession commits session if the stored version still
	// equals expectedVersion, setting session.Version to
	// expectedVersion+1. Fails with model.ErrVersionConflict otherwise;
	// the caller must re-read, recompute and retry.
	CompareAndSwapSession(ctx context.Context, session *model.Session, expectedVersion int64) error
}
