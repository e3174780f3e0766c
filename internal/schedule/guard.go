package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Guard makes sure a rule fires at most once per key across replicas.
type Guard interface {
	// Claim returns true when the caller is the first to claim key within ttl.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// MemoryGuard is a process-local Guard.
type MemoryGuard struct {
	claims map[string]time.Time
	now    func() time.Time
	mu     sync.Mutex
}

// NewMemoryGuard creates an empty in-memory guard.
func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{claims: make(map[string]time.Time), now: time.Now}
}

// Claim implements Guard.
func (g *MemoryGuard) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for k, exp := range g.claims {
		if !now.Before(exp) {
			delete(g.claims, k)
		}
	}
	if _, taken := g.claims[key]; taken {
		return false, nil
	}
	g.claims[key] = now.Add(ttl)
	return true, nil
}

type setNXer interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
}

// RedisGuard claims keys with SET NX so that only one replica fires a rule.
type RedisGuard struct {
	client setNXer
	prefix string
}

// NewRedisGuard creates a guard backed by client. Keys are stored under prefix.
func NewRedisGuard(client redis.Cmdable, prefix string) *RedisGuard {
	return &RedisGuard{client: client, prefix: prefix}
}

// Claim implements Guard.
func (g *RedisGuard) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return g.client.SetNX(ctx, g.prefix+key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
}
