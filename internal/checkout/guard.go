package checkout

import (
	"context"
	"sync"
	"time"

	pkgredis "github.com/tillpointhq/tillpoint-backend/pkg/redis"
)

// InFlightGuard prevents a register from having two checkout submissions
// in flight at once. The lifecycle tracker already gates within one
// process; the guard extends the same gate across instances.
type InFlightGuard interface {
	Acquire(ctx context.Context, registerID string) (bool, error)
	Release(ctx context.Context, registerID string)
}

type redisGuard struct {
	client *pkgredis.Client
	ttl    time.Duration
}

// NewRedisGuard builds a guard backed by a redis SetNX lock. The TTL bounds
// how long a crashed instance can hold the lock.
func NewRedisGuard(client *pkgredis.Client, ttl time.Duration) InFlightGuard {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &redisGuard{client: client, ttl: ttl}
}

func (g *redisGuard) Acquire(ctx context.Context, registerID string) (bool, error) {
	return g.client.AcquireCheckoutLock(ctx, registerID, g.ttl)
}

func (g *redisGuard) Release(ctx context.Context, registerID string) {
	_ = g.client.ReleaseCheckoutLock(ctx, registerID)
}

type memoryGuard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewMemoryGuard builds an in-process guard, used when redis is not
// configured and in tests.
func NewMemoryGuard() InFlightGuard {
	return &memoryGuard{inFlight: map[string]struct{}{}}
}

func (g *memoryGuard) Acquire(_ context.Context, registerID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.inFlight[registerID]; busy {
		return false, nil
	}
	g.inFlight[registerID] = struct{}{}
	return true, nil
}

func (g *memoryGuard) Release(_ context.Context, registerID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.inFlight, registerID)
}
