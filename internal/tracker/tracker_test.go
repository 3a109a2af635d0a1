package tracker

import (
	"context"
	"sync"
	"testing"
	"time"

	"cloudscale_back_end/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTracker() (*Tracker, *database.MemoryStore, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)}
	store := database.NewMemoryStore()
	store.SetClock(clock.Now)
	tr := New(store)
	tr.SetClock(clock.Now)
	return tr, store, clock
}

func uid(id int64) *int64 { return &id }

func TestAnonymousVisitsAreSeenButNotCounted(t *testing.T) {
	tr, _, _ := newTracker()
	ctx := context.Background()

	require.NoError(t, tr.Touch(ctx, Visit{SessionID: "a"}))
	require.NoError(t, tr.Touch(ctx, Visit{SessionID: "a"}))
	require.NoError(t, tr.Touch(ctx, Visit{SessionID: "b"}))
	require.NoError(t, tr.Touch(ctx, Visit{}))

	assert.Equal(t, 2, tr.Seen())
	count, err := tr.ActiveCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestAuthenticatedTouchCreatesThenRefreshes(t *testing.T) {
	tr, store, clock := newTracker()
	ctx := context.Background()

	v := Visit{SessionID: "s1", UserID: uid(1), IPAddress: "10.0.0.1", UserAgent: "curl"}
	require.NoError(t, tr.Touch(ctx, v))

	row, err := store.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, row.IsActive)
	assert.Equal(t, "10.0.0.1", row.IPAddress)
	created := row.LastActivity

	clock.Advance(5 * time.Minute)
	require.NoError(t, tr.Touch(ctx, v))
	row, err = store.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, created.Add(5*time.Minute), row.LastActivity)
}

func TestActivityWindowExcludesIdleSessions(t *testing.T) {
	tr, _, clock := newTracker()
	ctx := context.Background()

	require.NoError(t, tr.Bind(ctx, Visit{SessionID: "idle", UserID: uid(1)}))
	clock.Advance(20 * time.Minute)
	require.NoError(t, tr.Bind(ctx, Visit{SessionID: "busy", UserID: uid(2)}))

	count, err := tr.ActiveCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	clock.Advance(11 * time.Minute)
	count, err = tr.ActiveCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "31 minutes sans activité: exclue")

	// une nouvelle requête ramène la session dans la fenêtre
	require.NoError(t, tr.Touch(ctx, Visit{SessionID: "idle", UserID: uid(1)}))
	count, err = tr.ActiveCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestForgetDeactivates(t *testing.T) {
	tr, store, _ := newTracker()
	ctx := context.Background()

	require.NoError(t, tr.Bind(ctx, Visit{SessionID: "s", UserID: uid(1)}))
	require.NoError(t, tr.Forget(ctx, "s"))

	assert.Equal(t, 0, tr.Seen())
	row, err := store.GetSession(ctx, "s")
	require.NoError(t, err)
	assert.False(t, row.IsActive)

	count, err := tr.ActiveCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, tr.Forget(ctx, "unknown"))
}

func TestBindTwiceIsIdempotent(t *testing.T) {
	tr, _, _ := newTracker()
	ctx := context.Background()

	require.NoError(t, tr.Bind(ctx, Visit{SessionID: "s", UserID: uid(1)}))
	require.NoError(t, tr.Bind(ctx, Visit{SessionID: "s", UserID: uid(1)}))

	count, err := tr.ActiveCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestConcurrentTouches(t *testing.T) {
	tr, _, _ := newTracker()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, tr.Touch(ctx, Visit{SessionID: "shared", UserID: uid(1)}))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, tr.Seen())
	count, err := tr.ActiveCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
