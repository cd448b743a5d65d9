// Package bus fans out committed session snapshots to live watchers.
// Each session id is a topic; subscribers receive the latest full
// snapshot after every accepted mutation. Delivery is coalescing: a
// slow subscriber skips intermediate states and only ever sees the
// newest snapshot, never an older one after a newer one, and a stalled
// subscriber can never block a publisher.
package bus

import (
	"log/slog"
	"sync"

	"github.com/bancoimob/gamebank/internal/model"
)

// Bus routes published session snapshots to per-session subscribers
type Bus struct {
	mu     sync.Mutex
	topics map[model.SessionID]*topic
	logger *slog.Logger
}

type topic struct {
	subscribers map[*Subscription]struct{}
	// lastVersion guards against out-of-order publication when two
	// commits race to announce themselves
	lastVersion int64
}

// Subscription is one watcher's handle on a session topic
type Subscription struct {
	bus  *Bus
	id   model.SessionID
	ch   chan *model.Session
	once sync.Once
}

// New creates a new Bus
func New(logger *slog.Logger) *Bus {
	return &Bus{
		topics: make(map[model.SessionID]*topic),
		logger: logger.With(slog.String("component", "bus")),
	}
}

// Subscribe registers a new watcher for a session. The returned
// subscription must be closed when the watcher goes away.
func (b *Bus) Subscribe(id model.SessionID) *Subscription {
	sub := &Subscription{
		bus: b,
		id:  id,
		// Buffer of one: Publish replaces the pending snapshot instead
		// of queueing, which is what makes delivery coalescing.
		ch: make(chan *model.Session, 1),
	}

	b.mu.Lock()
	t, ok := b.topics[id]
	if !ok {
		t = &topic{subscribers: make(map[*Subscription]struct{})}
		b.topics[id] = t
	}
	t.subscribers[sub] = struct{}{}
	count := len(t.subscribers)
	b.mu.Unlock()

	b.logger.Debug("subscriber added",
		slog.String("session_id", string(id)),
		slog.Int("subscribers", count))
	return sub
}

// Updates returns the channel snapshots are delivered on. The channel
// is closed when the subscription is closed.
func (s *Subscription) Updates() <-chan *model.Session {
	return s.ch
}

// Close unsubscribes and releases resources. Safe to call more than
// once; no deliveries happen after it returns.
func (s *Subscription) Close() {
	s.once.Do(func() {
		b := s.bus
		b.mu.Lock()
		if t, ok := b.topics[s.id]; ok {
			delete(t.subscribers, s)
			if len(t.subscribers) == 0 {
				delete(b.topics, s.id)
			}
		}
		close(s.ch)
		b.mu.Unlock()
	})
}

// Publish delivers a committed snapshot to every current subscriber of
// the session. Publication never blocks: if a subscriber has not
// consumed the previous snapshot it is replaced with this one.
// Snapshots older than the newest already published are dropped.
func (b *Bus) Publish(id model.SessionID, session *model.Session) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.topics[id]
	if !ok {
		return
	}
	if session.Version <= t.lastVersion {
		b.logger.Debug("stale snapshot dropped",
			slog.String("session_id", string(id)),
			slog.Int64("version", session.Version))
		return
	}
	t.lastVersion = session.Version

	for sub := range t.subscribers {
		// Each subscriber gets its own copy; watchers must never be
		// able to alias each other's state.
		snap := session.Clone()
		select {
		case sub.ch <- snap:
		default:
			// Slow subscriber: drop the pending snapshot and replace
			// it with the latest.
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- snap:
			default:
			}
		}
	}
}

// SubscriberCount returns the number of active subscribers for a session
func (b *Bus) SubscriberCount(id model.SessionID) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t, ok := b.topics[id]; ok {
		return len(t.subscribers)
	}
	return 0
}
