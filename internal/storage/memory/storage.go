package memory

import (
	"context"
	"sync"

	"github.com/bancoimob/gamebank/internal/model"
	"github.com/bancoimob/gamebank/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Sessions are deep-copied on the way in and out so callers can never
// mutate stored state except through CompareAndSwapSession.
type Storage struct {
	mu sync.RWMutex

	sessions map[model.SessionID]*model.Session
	codes    map[model.RoomCode]model.SessionID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		sessions: make(map[model.SessionID]*model.Session),
		codes:    make(map[model.RoomCode]model.SessionID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) CreateSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.codes[session.RoomCode]; ok {
		return model.ErrCodeCollision
	}
	if _, ok := s.sessions[session.ID]; ok {
		return model.ErrCodeCollision
	}

	s.sessions[session.ID] = session.Clone()
	s.codes[session.RoomCode] = session.ID
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (s *Storage) ResolveRoomCode(ctx context.Context, code model.RoomCode) (model.SessionID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.codes[code]
	if !ok {
		return "", model.ErrSessionNotFound
	}
	return id, nil
}

func (s *Storage) CompareAndSwapSession(ctx context.Context, session *model.Session, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.sessions[session.ID]
	if !ok {
		return model.ErrSessionNotFound
	}
	if current.Version != expectedVersion {
		return model.ErrVersionConflict
	}

	session.Version = expectedVersion + 1
	s.sessions[session.ID] = session.Clone()
	return nil
}
