package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bancoimob/gamebank/internal/bus"
	"github.com/bancoimob/gamebank/internal/dependencies/clock"
	"github.com/bancoimob/gamebank/internal/dependencies/random"
	"github.com/bancoimob/gamebank/internal/model"
	"github.com/bancoimob/gamebank/internal/storage/memory"
	"github.com/bancoimob/gamebank/internal/testutil"
)

// newConcurrencyService builds a service with real clock/random and a
// generous retry budget so contention under stress resolves instead of
// surfacing.
func newConcurrencyService() *Service {
	cfg := DefaultConfig()
	cfg.MaxAttempts = 200
	return NewService(memory.New(), bus.New(testutil.NopLogger()), clock.New(), random.New(), cfg, testutil.NopLogger())
}

func startPlayingSession(t *testing.T, svc *Service, names ...string) *model.Session {
	t.Helper()
	ctx := context.Background()
	sess, err := svc.Create(ctx)
	require.NoError(t, err)
	for _, name := range names {
		_, err = svc.Join(ctx, sess.ID, name)
		require.NoError(t, err)
	}
	started, err := svc.Start(ctx, sess.ID, RoleHost)
	require.NoError(t, err)
	return started
}

// Two concurrent transfers that individually fit but jointly exceed
// the balance: exactly one must succeed, the other must fail with
// insufficient funds. A lost update would let both through.
func TestConcurrentTransfersJointlyExceedingBalance(t *testing.T) {
	svc := newConcurrencyService()
	ctx := context.Background()
	sess := startPlayingSession(t, svc, "Ana", "Bob", "Carla")

	// Ana has 1500; two transfers of 1000 each cannot both fit
	results := make(chan error, 2)
	var wg sync.WaitGroup
	for _, to := range []model.PlayerID{"bob", "carla"} {
		wg.Add(1)
		go func(to model.PlayerID) {
			defer wg.Done()
			_, err := svc.Transfer(ctx, sess.ID, "ana", to, 1000)
			results <- err
		}(to)
	}
	wg.Wait()
	close(results)

	var successes, rejections int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, model.ErrInsufficientFunds):
			rejections++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, rejections)

	final, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), final.Player("ana").Balance)
}

// N concurrent transfers from the same player must produce a final
// state matching sequential semantics for some interleaving: with
// enough funds for all of them, the final balance is exact.
func TestConcurrentTransferStressMatchesSequentialSemantics(t *testing.T) {
	svc := newConcurrencyService()
	ctx := context.Background()
	sess := startPlayingSession(t, svc, "Ana", "Bob")

	const (
		workers = 30
		amount  = int64(10)
	)

	supplyBefore := sess.TotalSupply()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Transfer(ctx, sess.ID, "ana", "bob", amount)
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	final, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1500-workers*10), final.Player("ana").Balance)
	assert.Equal(t, int64(1500+workers*10), final.Player("bob").Balance)
	assert.Equal(t, supplyBefore, final.TotalSupply())
}

// Mixed concurrent transfers and disbursements must conserve total
// supply and never drive any balance negative.
func TestConcurrentMixedOperationsConserveSupply(t *testing.T) {
	svc := newConcurrencyService()
	ctx := context.Background()
	sess := startPlayingSession(t, svc, "Ana", "Bob", "Carla")

	supplyBefore := sess.TotalSupply()

	ops := []func() error{
		func() error { _, err := svc.Transfer(ctx, sess.ID, "ana", "bob", 100); return err },
		func() error { _, err := svc.Transfer(ctx, sess.ID, "bob", model.BankParty, 50); return err },
		func() error { _, err := svc.Transfer(ctx, sess.ID, "carla", "ana", 75); return err },
		func() error { _, err := svc.Disburse(ctx, sess.ID, RoleHost, "carla", 200); return err },
	}

	var wg sync.WaitGroup
	for round := 0; round < 10; round++ {
		for _, op := range ops {
			wg.Add(1)
			go func(op func() error) {
				defer wg.Done()
				// Business rejections are fine here; lost updates are not
				_ = op()
			}(op)
		}
	}
	wg.Wait()

	final, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, supplyBefore, final.TotalSupply())
	assert.GreaterOrEqual(t, final.BankBalance, int64(0))
	for _, p := range final.Players {
		assert.GreaterOrEqual(t, p.Balance, int64(0), "player %s went negative", p.ID)
	}
}

// Watchers observing a burst of concurrent mutations must converge on
// the final committed state.
func TestWatchersConvergeOnFinalState(t *testing.T) {
	svc := newConcurrencyService()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sess := startPlayingSession(t, svc, "Ana", "Bob")

	updates, err := svc.Watch(ctx, sess.ID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Transfer(ctx, sess.ID, "ana", "bob", 1)
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	final, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1480), final.Player("ana").Balance)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-updates:
			if snap.Player("ana").Balance == 1480 {
				return
			}
		case <-deadline:
			t.Fatal("watcher never observed the final state")
		}
	}
}
