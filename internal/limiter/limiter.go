// Package limiter bounds how many analyses run at once. Each analysis may
// hold a backend request open for up to a minute, so uploads beyond the
// limit wait for a slot or give up with their request context.
package limiter

import (
	"context"
	"sync"

	"github.com/local/syllabusparser/internal/metrics"
)

const DefaultMaxInflight = 4

type Limiter struct {
	maxInflight int
	mu          sync.Mutex
	sem         map[string]chan struct{}
}

func New(maxInflight int) *Limiter {
	if maxInflight <= 0 {
		maxInflight = DefaultMaxInflight
	}
	return &Limiter{maxInflight: maxInflight, sem: map[string]chan struct{}{}}
}

func (l *Limiter) slots(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.sem[key]
	if !ok {
		ch = make(chan struct{}, l.maxInflight)
		l.sem[key] = ch
	}
	return ch
}

// Acquire waits for a slot under key. The returned release function must be
// called exactly once.
func (l *Limiter) Acquire(ctx context.Context, key string) (func(), error) {
	ch := l.slots(key)
	select {
	case ch <- struct{}{}:
		metrics.AddInflight(1)
		var once sync.Once
		return func() {
			once.Do(func() {
				<-ch
				metrics.AddInflight(-1)
			})
		}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// TryAcquire reserves a slot without waiting. It returns false when all
// slots under key are taken.
func (l *Limiter) TryAcquire(key string) (func(), bool) {
	ch := l.slots(key)
	select {
	case ch <- struct{}{}:
		metrics.AddInflight(1)
		var once sync.Once
		return func() {
			once.Do(func() {
				<-ch
				metrics.AddInflight(-1)
			})
		}, true
	default:
		return func() {}, false
	}
}
