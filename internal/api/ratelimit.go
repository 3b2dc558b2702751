package api

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/rebalancer/pkg/redis"
)

// Limiter decides whether a request from key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// LocalLimiter keeps one token bucket per client in process.
type LocalLimiter struct {
	rps   rate.Limit
	burst int

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter allows rps requests per second with the given burst per client.
func NewLocalLimiter(rps float64, burst int) *LocalLimiter {
	return &LocalLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		buckets: make(map[string]*bucket),
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = time.Now()
	return b.limiter.Allow(), nil
}

// Prune drops buckets idle for longer than idle.
func (l *LocalLimiter) Prune(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for k, b := range l.buckets {
		if time.Since(b.lastSeen) > idle {
			delete(l.buckets, k)
			removed++
		}
	}
	return removed
}

// RedisLimiter shares one sliding window per client across instances.
type RedisLimiter struct {
	rl *redis.RateLimiter
}

// NewRedisLimiter converts rps/burst into a redis sliding window.
func NewRedisLimiter(client *redis.Client, rps float64, burst int) *RedisLimiter {
	return &RedisLimiter{
		rl: redis.NewRateLimiter(client, "rebalancer", burst, redis.WindowFor(rps, burst)),
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	allowed, _, err := l.rl.Allow(ctx, key)
	return allowed, err
}

// NewLimiter picks the redis limiter when redis is enabled.
func NewLimiter(client *redis.Client, rps float64, burst int) Limiter {
	if client != nil && client.Enabled() {
		return NewRedisLimiter(client, rps, burst)
	}
	return NewLocalLimiter(rps, burst)
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// PruneJob evicts idle per-client buckets of a LocalLimiter.
type PruneJob struct {
	limiter  *LocalLimiter
	idle     time.Duration
	schedule string
}

// NewPruneJob creates a job that drops buckets idle for longer than idle.
func NewPruneJob(l *LocalLimiter, idle time.Duration, schedule string) *PruneJob {
	return &PruneJob{limiter: l, idle: idle, schedule: schedule}
}

func (j *PruneJob) Name() string     { return "ratelimit_prune" }
func (j *PruneJob) Schedule() string { return j.schedule }

func (j *PruneJob) Run(context.Context) error {
	j.limiter.Prune(j.idle)
	return nil
}
