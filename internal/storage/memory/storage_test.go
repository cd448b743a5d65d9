package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/bancoimob/gamebank/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) session() *model.Session {
	return &model.Session{
		ID:             "session-1",
		RoomCode:       "AB12C",
		Status:         model.StatusWaiting,
		InitialBalance: 1500,
		BankBalance:    100_000_000,
		Players:        []model.Player{},
		Version:        1,
	}
}

func (s *StorageSuite) TestCreateAndGetSession() {
	err := s.storage.CreateSession(s.ctx, s.session())
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSession(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Equal(model.RoomCode("AB12C"), retrieved.RoomCode)
	s.Equal(int64(1), retrieved.Version)
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestCreateSessionCodeCollision() {
	err := s.storage.CreateSession(s.ctx, s.session())
	s.Require().NoError(err)

	other := s.session()
	other.ID = "session-2"
	err = s.storage.CreateSession(s.ctx, other)
	s.ErrorIs(err, model.ErrCodeCollision)

	// The colliding session must not have been stored
	_, err = s.storage.GetSession(s.ctx, "session-2")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestResolveRoomCode() {
	_ = s.storage.CreateSession(s.ctx, s.session())

	id, err := s.storage.ResolveRoomCode(s.ctx, "AB12C")
	s.Require().NoError(err)
	s.Equal(model.SessionID("session-1"), id)
}

func (s *StorageSuite) TestResolveRoomCodeNotFound() {
	_, err := s.storage.ResolveRoomCode(s.ctx, "ZZZZZ")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestCompareAndSwapBumpsVersion() {
	_ = s.storage.CreateSession(s.ctx, s.session())

	next := s.session()
	next.Status = model.StatusPlaying
	err := s.storage.CompareAndSwapSession(s.ctx, next, 1)
	s.Require().NoError(err)
	s.Equal(int64(2), next.Version)

	retrieved, _ := s.storage.GetSession(s.ctx, "session-1")
	s.Equal(model.StatusPlaying, retrieved.Status)
	s.Equal(int64(2), retrieved.Version)
}

func (s *StorageSuite) TestCompareAndSwapStaleVersionConflicts() {
	_ = s.storage.CreateSession(s.ctx, s.session())

	first := s.session()
	s.Require().NoError(s.storage.CompareAndSwapSession(s.ctx, first, 1))

	// A writer still holding version 1 must lose
	stale := s.session()
	err := s.storage.CompareAndSwapSession(s.ctx, stale, 1)
	s.ErrorIs(err, model.ErrVersionConflict)
}

func (s *StorageSuite) TestCompareAndSwapMissingSession() {
	err := s.storage.CompareAndSwapSession(s.ctx, s.session(), 1)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestStoredStateIsIsolatedFromCaller() {
	sess := s.session()
	sess.Players = []model.Player{{ID: "ana", Name: "Ana", Balance: 0}}
	_ = s.storage.CreateSession(s.ctx, sess)

	// Mutating the caller's copy must not affect stored state
	sess.Players[0].Balance = 9999

	retrieved, _ := s.storage.GetSession(s.ctx, "session-1")
	s.Equal(int64(0), retrieved.Players[0].Balance)
}
