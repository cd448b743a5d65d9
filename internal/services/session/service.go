// Package session orchestrates the session store, the ledger engine
// and the change bus behind the operations the presentation layer
// calls. Every mutation runs as a read-modify-conditional-write loop:
// the new state is computed against a freshly read session and
// committed only if nothing else changed it first, so concurrent
// commands are serialized by effect without any client blocking on
// another.
package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bancoimob/gamebank/internal/bus"
	"github.com/bancoimob/gamebank/internal/dependencies/clock"
	"github.com/bancoimob/gamebank/internal/dependencies/random"
	"github.com/bancoimob/gamebank/internal/ledger"
	"github.com/bancoimob/gamebank/internal/model"
	"github.com/bancoimob/gamebank/internal/storage"
)

const (
	// RoomCodeLength is the length of generated room codes
	RoomCodeLength = 5
	// RoomCodeAlphabet is the characters used in room codes
	RoomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Role is the capability a caller claims when issuing a command. The
// claim is trusted as-is: real authentication is out of scope, and the
// check exists so the authorization point is explicit in the service
// rather than buried client-side.
type Role string

const (
	RoleHost   Role = "host"
	RolePlayer Role = "player"
)

// Config holds the ledger parameters for new sessions
type Config struct {
	// InitialBalance is handed to every player when the game starts
	InitialBalance int64
	// BankEndowment seeds the bank at session creation
	BankEndowment int64
	// MaxAttempts bounds the conditional-write retry loop before a
	// mutation is surfaced as contention
	MaxAttempts int
}

// DefaultConfig returns the classic board-game parameters
func DefaultConfig() Config {
	return Config{
		InitialBalance: 1500,
		BankEndowment:  100_000_000,
		MaxAttempts:    5,
	}
}

// Service exposes the session operations to the presentation layer
type Service struct {
	storage storage.Storage
	bus     *bus.Bus
	clock   clock.Clock
	random  random.Random
	cfg     Config
	logger  *slog.Logger
}

// NewService creates a new session service
func NewService(
	store storage.Storage,
	changeBus *bus.Bus,
	clk clock.Clock,
	rnd random.Random,
	cfg Config,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage: store,
		bus:     changeBus,
		clock:   clk,
		random:  rnd,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "session")),
	}
}

// Create registers a fresh session in the waiting state with an empty
// player list, a newly drawn room code and the bank endowment. Codes
// are drawn from a space large enough that collisions are rare, but a
// collision is still detected and redrawn rather than overwriting.
func (s *Service) Create(ctx context.Context) (*model.Session, error) {
	now := s.clock.Now()

	for attempt := 0; attempt < s.cfg.MaxAttempts; attempt++ {
		sess := &model.Session{
			ID:             model.SessionID(s.random.UUID()),
			RoomCode:       model.RoomCode(s.random.String(RoomCodeLength, RoomCodeAlphabet)),
			Status:         model.StatusWaiting,
			InitialBalance: s.cfg.InitialBalance,
			BankBalance:    s.cfg.BankEndowment,
			Players:        []model.Player{},
			Version:        1,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		err := s.storage.CreateSession(ctx, sess)
		if errors.Is(err, model.ErrCodeCollision) {
			continue
		}
		if err != nil {
			return nil, err
		}

		s.logger.Info("session created",
			slog.String("session_id", string(sess.ID)),
			slog.String("room_code", string(sess.RoomCode)))
		return sess, nil
	}

	return nil, model.ErrCodeCollision
}

// Get returns the current state of a session
func (s *Service) Get(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return s.storage.GetSession(ctx, id)
}

// Resolve maps a room code to a session id. Lookup is case-normalized.
func (s *Service) Resolve(ctx context.Context, code string) (model.SessionID, error) {
	return s.storage.ResolveRoomCode(ctx, model.NormalizeRoomCode(code))
}

// Join adds a player to the session
func (s *Service) Join(ctx context.Context, id model.SessionID, name string) (*model.Session, error) {
	return s.mutate(ctx, id, func(cur *model.Session) (*model.Session, error) {
		return ledger.Join(cur, name)
	})
}

// Start distributes the initial balance and begins play. Only the
// session host may start the game.
func (s *Service) Start(ctx context.Context, id model.SessionID, as Role) (*model.Session, error) {
	if as != RoleHost {
		return nil, model.ErrNotHost
	}
	return s.mutate(ctx, id, ledger.Start)
}

// Transfer moves funds from a player to another player or the bank
func (s *Service) Transfer(ctx context.Context, id model.SessionID, from, to model.PlayerID, amount int64) (*model.Session, error) {
	return s.mutate(ctx, id, func(cur *model.Session) (*model.Session, error) {
		return ledger.Transfer(cur, from, to, amount)
	})
}

// Disburse moves funds from the bank to a player. Only the host (who
// runs the bank) may disburse.
func (s *Service) Disburse(ctx context.Context, id model.SessionID, as Role, to model.PlayerID, amount int64) (*model.Session, error) {
	if as != RoleHost {
		return nil, model.ErrNotHost
	}
	return s.mutate(ctx, id, func(cur *model.Session) (*model.Session, error) {
		return ledger.Disburse(cur, to, amount)
	})
}

// Watch returns a channel delivering the current session state and
// then the latest snapshot after every accepted mutation. The channel
// is closed when ctx is cancelled; cancellation releases the
// subscription immediately.
func (s *Service) Watch(ctx context.Context, id model.SessionID) (<-chan *model.Session, error) {
	current, err := s.storage.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	sub := s.bus.Subscribe(id)

	out := make(chan *model.Session, 1)
	out <- current

	go func() {
		defer close(out)
		defer sub.Close()
		// The initial snapshot is read before the bus sees this
		// subscription, so the topic's own ordering guard cannot cover
		// it: a publish delayed from before the subscription could
		// still deliver a state older than what the watcher was primed
		// with. Track the last delivered version here and drop anything
		// at or below it.
		lastDelivered := current.Version
		for {
			select {
			case <-ctx.Done():
				return
			case snap, ok := <-sub.Updates():
				if !ok {
					return
				}
				if snap.Version <= lastDelivered {
					continue
				}
				lastDelivered = snap.Version
				// Same coalescing discipline as the bus: replace the
				// pending snapshot rather than queueing behind a slow
				// consumer.
				select {
				case out <- snap:
				default:
					select {
					case <-out:
					default:
					}
					select {
					case out <- snap:
					default:
					}
				}
			}
		}
	}()

	return out, nil
}

// mutate runs one command through the conditional-write retry loop and
// publishes the committed state on success. A bounded number of
// version conflicts is retried transparently; beyond that the command
// fails with ErrContention and the caller may retry with fresh input.
func (s *Service) mutate(ctx context.Context, id model.SessionID, fn func(*model.Session) (*model.Session, error)) (*model.Session, error) {
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		current, err := s.storage.GetSession(ctx, id)
		if err != nil {
			return nil, err
		}

		next, err := fn(current)
		if err != nil {
			return nil, err
		}
		next.UpdatedAt = s.clock.Now()

		err = s.storage.CompareAndSwapSession(ctx, next, current.Version)
		if errors.Is(err, model.ErrVersionConflict) {
			s.logger.Debug("conditional write conflicted, retrying",
				slog.String("session_id", string(id)),
				slog.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, err
		}

		s.bus.Publish(id, next)
		return next, nil
	}

	s.logger.Warn("mutation retries exhausted",
		slog.String("session_id", string(id)))
	return nil, model.ErrContention
}
