package breaker

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisStore keeps records as hashes so several instances share cooldowns.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore { return &RedisStore{rdb: rdb} }

func (s *RedisStore) Load(ctx context.Context, key string) (Record, error) {
	m, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, nil
		}
		return Record{}, err
	}
	if len(m) == 0 {
		return Record{}, nil
	}
	failures, _ := strconv.Atoi(m["failures"])
	openedAt, _ := strconv.ParseInt(m["opened_at"], 10, 64)
	retryAt, _ := strconv.ParseInt(m["retry_at"], 10, 64)
	return Record{
		State:    m["state"],
		Reason:   m["reason"],
		Failures: failures,
		OpenedAt: time.Unix(openedAt, 0),
		RetryAt:  time.Unix(retryAt, 0),
	}, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, r Record, ttl time.Duration) error {
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"state":     r.State,
		"reason":    r.Reason,
		"failures":  r.Failures,
		"opened_at": r.OpenedAt.Unix(),
		"retry_at":  r.RetryAt.Unix(),
	})
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

// MemoryStore is the single-instance store used when Redis is not
// configured.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]memoryRecord
	now     func() time.Time
}

type memoryRecord struct {
	rec       Record
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]memoryRecord{}, now: time.Now}
}

func (s *MemoryStore) Load(_ context.Context, key string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[key]
	if !ok {
		return Record{}, nil
	}
	if !s.now().Before(r.expiresAt) {
		delete(s.records, key)
		return Record{}, nil
	}
	return r.rec, nil
}

func (s *MemoryStore) Save(_ context.Context, key string, r Record, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = memoryRecord{rec: r, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}
