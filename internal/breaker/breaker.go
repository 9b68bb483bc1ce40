// Package breaker keeps the structured-output backend in cooldown after it
// answered with a rate-limit or quota status, so the analyzer goes straight
// to pattern extraction instead of hammering it.
package breaker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/local/syllabusparser/internal/metrics"
)

const (
	DefaultBaseBackoff = 30 * time.Second
	DefaultMaxBackoff  = 5 * time.Minute

	stateOpen     = "open"
	stateHalfOpen = "half_open"

	recordTTL = 10 * time.Minute
)

// Record is the persisted breaker state for one provider:model pair.
type Record struct {
	State    string
	Reason   string
	Failures int
	OpenedAt time.Time
	RetryAt  time.Time
}

// Store persists breaker records. Load returns a zero Record when none
// exists.
type Store interface {
	Load(ctx context.Context, key string) (Record, error)
	Save(ctx context.Context, key string, r Record, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Breaker manages cooldown state per provider and model.
type Breaker struct {
	store       Store
	baseBackoff time.Duration
	maxBackoff  time.Duration
	now         func() time.Time
}

func New(store Store, baseBackoff, maxBackoff time.Duration) *Breaker {
	if baseBackoff <= 0 {
		baseBackoff = DefaultBaseBackoff
	}
	if maxBackoff < baseBackoff {
		maxBackoff = max(DefaultMaxBackoff, baseBackoff)
	}
	return &Breaker{store: store, baseBackoff: baseBackoff, maxBackoff: maxBackoff, now: time.Now}
}

func key(provider, model string) string {
	return fmt.Sprintf("cb:%s:%s", strings.ToLower(provider), strings.ToLower(model))
}

// Open starts or extends the cooldown. Consecutive openings double the
// backoff up to the maximum. It returns the cooldown applied.
func (b *Breaker) Open(ctx context.Context, provider, model, reason string) time.Duration {
	k := key(provider, model)
	rec, err := b.store.Load(ctx, k)
	if err != nil {
		log.Warn().Err(err).Str("provider", provider).Msg("breaker state load failed")
	}
	failures := rec.Failures + 1

	backoff := b.baseBackoff
	for i := 1; i < failures; i++ {
		backoff *= 2
		if backoff > b.maxBackoff {
			backoff = b.maxBackoff
			break
		}
	}

	now := b.now()
	rec = Record{State: stateOpen, Reason: reason, Failures: failures, OpenedAt: now, RetryAt: now.Add(backoff)}
	if err := b.store.Save(ctx, k, rec, recordTTL); err != nil {
		log.Warn().Err(err).Str("provider", provider).Msg("breaker state save failed")
	}
	metrics.BreakerOpened(provider, model)

	log.Warn().
		Str("provider", provider).
		Str("model", model).
		Str("reason", reason).
		Dur("cooldown", backoff).
		Int("failures", failures).
		Time("retry_at", rec.RetryAt).
		Msg("backend breaker opened")
	return backoff
}

// IsOpen reports whether the backend is cooling down and why. Once the
// cooldown has passed the breaker moves to half-open and lets one request
// through; its outcome either closes or reopens it.
func (b *Breaker) IsOpen(ctx context.Context, provider, model string) (bool, string) {
	k := key(provider, model)
	rec, err := b.store.Load(ctx, k)
	if err != nil || rec.State != stateOpen {
		return false, ""
	}
	if !b.now().Before(rec.RetryAt) {
		rec.State = stateHalfOpen
		if err := b.store.Save(ctx, k, rec, recordTTL); err != nil {
			log.Warn().Err(err).Str("provider", provider).Msg("breaker state save failed")
		}
		log.Info().Str("provider", provider).Str("model", model).Msg("backend breaker half-open")
		return false, ""
	}
	return true, rec.Reason
}

// Close resets the breaker after a successful request.
func (b *Breaker) Close(ctx context.Context, provider, model string) {
	k := key(provider, model)
	rec, err := b.store.Load(ctx, k)
	if err != nil || rec.State == "" {
		return
	}
	if err := b.store.Delete(ctx, k); err != nil {
		log.Warn().Err(err).Str("provider", provider).Msg("breaker state delete failed")
		return
	}
	metrics.BreakerClosed(provider, model)
	log.Info().Str("provider", provider).Str("model", model).Msg("backend breaker closed")
}
