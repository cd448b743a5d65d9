package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bancoimob/gamebank/internal/model"
	"github.com/bancoimob/gamebank/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Conditional writes are implemented with WATCH/MULTI: the session key
// is watched while the stored version is checked, so a concurrent
// commit aborts the transaction and surfaces as a version conflict.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) CreateSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	// Bind the room code first with SETNX so two creators drawing the
	// same code cannot both win; only the winner stores the session.
	bound, err := s.client.SetNX(ctx, roomCodeKey(session.RoomCode), string(session.ID), s.cfg.SessionTTL).Result()
	if err != nil {
		return err
	}
	if !bound {
		return model.ErrCodeCollision
	}

	if err := s.client.Set(ctx, sessionKey(session.ID), data, s.cfg.SessionTTL).Err(); err != nil {
		// Release the code so a failed create does not hold the binding
		// for a session that was never stored
		s.client.Del(ctx, roomCodeKey(session.RoomCode))
		return err
	}
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) ResolveRoomCode(ctx context.Context, code model.RoomCode) (model.SessionID, error) {
	id, err := s.client.Get(ctx, roomCodeKey(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", model.ErrSessionNotFound
		}
		return "", err
	}
	return model.SessionID(id), nil
}

func (s *Storage) CompareAndSwapSession(ctx context.Context, session *model.Session, expectedVersion int64) error {
	key := sessionKey(session.ID)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrSessionNotFound
			}
			return err
		}

		var current model.Session
		if err := json.Unmarshal(data, &current); err != nil {
			return err
		}
		if current.Version != expectedVersion {
			return model.ErrVersionConflict
		}

		session.Version = expectedVersion + 1
		payload, err := json.Marshal(session)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.cfg.SessionTTL)
			// The room-code binding must live exactly as long as the
			// session: without the refresh an active session would
			// eventually lose its code, and the expired code could be
			// rebound to a different session.
			pipe.Set(ctx, roomCodeKey(session.RoomCode), string(session.ID), s.cfg.SessionTTL)
			return nil
		})
		return err
	}, key)

	// The EXEC aborts when another writer touched the key between our
	// read and the commit; that is exactly a version conflict.
	if errors.Is(err, redis.TxFailedErr) {
		return model.ErrVersionConflict
	}
	return err
}
