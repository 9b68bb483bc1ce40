package breaker

import (
	"context"
	"os"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(store Store) (*Breaker, *clock) {
	c := &clock{t: time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)}
	b := New(store, 30*time.Second, 2*time.Minute)
	b.now = c.now
	if ms, ok := store.(*MemoryStore); ok {
		ms.now = c.now
	}
	return b, c
}

func TestBreaker_Cycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b, clk := newTestBreaker(NewMemoryStore())

	open, _ := b.IsOpen(ctx, "gateway", "m")
	assert.False(t, open)

	assert.Equal(t, 30*time.Second, b.Open(ctx, "gateway", "m", "rate_limited"))
	open, reason := b.IsOpen(ctx, "gateway", "m")
	assert.True(t, open)
	assert.Equal(t, "rate_limited", reason)

	// other models are unaffected
	open, _ = b.IsOpen(ctx, "gateway", "other")
	assert.False(t, open)

	clk.advance(31 * time.Second)
	open, _ = b.IsOpen(ctx, "gateway", "m")
	assert.False(t, open, "half-open lets a probe through")

	assert.Equal(t, time.Minute, b.Open(ctx, "gateway", "m", "rate_limited"))
	assert.Equal(t, 2*time.Minute, b.Open(ctx, "gateway", "m", "rate_limited"))
	assert.Equal(t, 2*time.Minute, b.Open(ctx, "gateway", "m", "payment_required"))

	b.Close(ctx, "gateway", "m")
	open, _ = b.IsOpen(ctx, "gateway", "m")
	assert.False(t, open)
	assert.Equal(t, 30*time.Second, b.Open(ctx, "gateway", "m", "rate_limited"))
}

func TestMemoryStore_Expires(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b, clk := newTestBreaker(NewMemoryStore())

	b.Open(ctx, "anthropic", "m", "rate_limited")
	clk.advance(recordTTL + time.Second)
	rec, err := b.store.Load(ctx, key("anthropic", "m"))
	require.NoError(t, err)
	assert.Equal(t, Record{}, rec)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	s := NewRedisStore(rdb)
	k := key("test", time.Now().Format(time.RFC3339Nano))
	t.Cleanup(func() { _ = s.Delete(ctx, k) })

	want := Record{State: stateOpen, Reason: "rate_limited", Failures: 2,
		OpenedAt: time.Unix(1700000000, 0), RetryAt: time.Unix(1700000060, 0)}
	require.NoError(t, s.Save(ctx, k, want, time.Minute))

	got, err := s.Load(ctx, k)
	require.NoError(t, err)
	assert.Equal(t, want.State, got.State)
	assert.Equal(t, want.Failures, got.Failures)
	assert.True(t, want.RetryAt.Equal(got.RetryAt))

	require.NoError(t, s.Delete(ctx, k))
	got, err = s.Load(ctx, k)
	require.NoError(t, err)
	assert.Equal(t, Record{}, got)
}
