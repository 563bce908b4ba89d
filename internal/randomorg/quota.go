package randomorg

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// QuotaCache remembers the last quota reported by random.org so that several
// server replicas do not each ask for it before every game.
type QuotaCache interface {
	Get(ctx context.Context) (bits int64, ok bool, err error)
	Set(ctx context.Context, bits int64) error
	// Consume lowers a cached value; it is a no-op when nothing is cached.
	Consume(ctx context.Context, bits int64) error
}

type RedisQuotaCache struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func NewRedisQuotaCache(rdb *redis.Client, ttl time.Duration) *RedisQuotaCache {
	return &RedisQuotaCache{rdb: rdb, key: "randomorg:quota:bits", ttl: ttl}
}

func (s *RedisQuotaCache) Get(ctx context.Context) (int64, bool, error) {
	v, err := s.rdb.Get(ctx, s.key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

func (s *RedisQuotaCache) Set(ctx context.Context, bits int64) error {
	return s.rdb.Set(ctx, s.key, bits, s.ttl).Err()
}

var consumeScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return redis.call("DECRBY", KEYS[1], ARGV[1])
end
return false
`)

func (s *RedisQuotaCache) Consume(ctx context.Context, bits int64) error {
	err := consumeScript.Run(ctx, s.rdb, []string{s.key}, bits).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

// MemoryQuotaCache is a process-local QuotaCache, used when Redis is not
// configured.
type MemoryQuotaCache struct {
	mu      sync.Mutex
	bits    int64
	expires time.Time
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryQuotaCache(ttl time.Duration) *MemoryQuotaCache {
	return &MemoryQuotaCache{ttl: ttl, now: time.Now}
}

func (m *MemoryQuotaCache) Get(context.Context) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.expires.IsZero() || !m.now().Before(m.expires) {
		return 0, false, nil
	}
	return m.bits, true, nil
}

func (m *MemoryQuotaCache) Set(_ context.Context, bits int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bits = bits
	m.expires = m.now().Add(m.ttl)
	return nil
}

func (m *MemoryQuotaCache) Consume(_ context.Context, bits int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.expires.IsZero() && m.now().Before(m.expires) {
		m.bits -= bits
	}
	return nil
}
