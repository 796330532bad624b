package redis

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TransitionGuard serializes the mark-as-done transition per obligation so
// that two dashboard sessions (possibly hitting different replicas) cannot
// both push the same obligation upstream at once.  Acquire is best-effort
// mutual exclusion, not a correctness requirement: upstream still rejects
// conflicting transitions.
type TransitionGuard interface {
	// Acquire claims the guard for an obligation.  It returns false when the
	// guard is already held, and a release function otherwise.
	Acquire(ctx context.Context, obligationID string) (release func(), acquired bool, err error)
}

// releaseScript deletes the guard key only when it still holds our token, so
// an expired guard re-acquired by another replica is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// redisGuard implements TransitionGuard on a shared Redis instance.
type redisGuard struct {
	client *Client
	ttl    time.Duration
}

// NewTransitionGuard builds a Redis-backed guard.  ttl bounds how long a
// crashed replica can block an obligation.
func NewTransitionGuard(client *Client, ttl time.Duration) TransitionGuard {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &redisGuard{client: client, ttl: ttl}
}

func (g *redisGuard) Acquire(ctx context.Context, obligationID string) (func(), bool, error) {
	key := "engage:transition:" + obligationID
	token := uuid.New().String()

	ok, err := g.client.Raw().SetNX(ctx, key, token, g.ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, g.client.Raw(), []string{key}, token).Err()
	}
	return release, true, nil
}

// localGuard is the single-process fallback used when Redis is not
// configured.  Same contract, process-local scope.
type localGuard struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocalTransitionGuard builds an in-process guard.
func NewLocalTransitionGuard() TransitionGuard {
	return &localGuard{held: make(map[string]struct{})}
}

func (g *localGuard) Acquire(_ context.Context, obligationID string) (func(), bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, taken := g.held[obligationID]; taken {
		return nil, false, nil
	}
	g.held[obligationID] = struct{}{}

	release := func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.held, obligationID)
	}
	return release, true, nil
}
