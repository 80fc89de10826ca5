// Package ratelimit provides per-client, per-endpoint token bucket rate
// limiting for the HTTP API.
package ratelimit

import (
	"strings"
	"sync"
	"time"
)

// Info reports the limit state for one checked request. It feeds the
// X-RateLimit-* response headers.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// bucket is a token bucket for one client+endpoint pair. All fields are
// guarded by the owning Limiter's mutex.
type bucket struct {
	capacity  float64
	perSecond float64
	tokens    float64
	refilled  time.Time
	lastSeen  time.Time
}

// take refills the bucket for elapsed time, then tries to consume one
// token. Reports whether the request is allowed, the whole tokens left,
// and when the bucket will be full again.
func (b *bucket) take(now time.Time) (bool, int, time.Time) {
	b.tokens += now.Sub(b.refilled).Seconds() * b.perSecond
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.refilled = now
	b.lastSeen = now

	allowed := b.tokens >= 1.0
	if allowed {
		b.tokens -= 1.0
	}

	reset := now
	if b.tokens < b.capacity {
		deficit := b.capacity - b.tokens
		reset = now.Add(time.Duration(deficit / b.perSecond * float64(time.Second)))
	}
	return allowed, int(b.tokens), reset
}

// Limiter tracks token buckets keyed by client, path and method.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	cfg     *Config
	stop    chan struct{}
}

// NewLimiter creates a limiter and, when enabled, starts a background
// sweep that drops buckets idle for over an hour.
func NewLimiter(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}

	l := &Limiter{
		buckets: make(map[string]*bucket),
		cfg:     cfg,
		stop:    make(chan struct{}),
	}

	if cfg.Enabled && cfg.CleanupInterval > 0 {
		go l.sweep(cfg.CleanupInterval)
	}
	return l
}

// Allow checks one request against the client's bucket for the matched
// endpoint tier. Whitelisted clients always pass, blacklisted never do.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.cfg.Enabled || l.cfg.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.cfg.Blacklist[clientID] {
		return false, Info{}
	}

	tier := matchEndpoint(path, method, l.cfg.EndpointConfigs)
	if tier == nil {
		tier = &EndpointConfig{
			Limit:  l.cfg.DefaultLimit,
			Window: l.cfg.DefaultWindow,
		}
	}
	if tier.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	l.mu.Lock()
	key := clientID + ":" + method + " " + path
	b, ok := l.buckets[key]
	if !ok {
		capacity := tier.Burst
		if capacity <= 0 {
			capacity = tier.Limit
		}
		b = &bucket{
			capacity:  float64(capacity),
			perSecond: float64(tier.Limit) / tier.Window.Seconds(),
			tokens:    float64(capacity),
			refilled:  time.Now(),
		}
		l.buckets[key] = b
	}
	allowed, remaining, reset := b.take(time.Now())
	l.mu.Unlock()

	info := Info{
		Allowed:   allowed,
		Limit:     tier.Limit,
		Remaining: remaining,
		ResetTime: reset,
	}
	if !allowed {
		if wait := time.Until(reset); wait > 0 {
			info.RetryAfter = wait
		}
	}
	return allowed, info
}

// matchEndpoint resolves the tier for a request. Exact path+method match
// wins; configs whose path ends in "/" also match as prefixes, so
// "PUT /drafts/" covers "PUT /drafts/{id}". The health check is never
// limited.
func matchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		return &EndpointConfig{}
	}

	var prefix *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if prefix == nil && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			prefix = c
		}
	}
	return prefix
}

func (l *Limiter) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.dropIdle(time.Now().Add(-time.Hour))
		case <-l.stop:
			return
		}
	}
}

func (l *Limiter) dropIdle(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop terminates the background sweep.
func (l *Limiter) Stop() {
	select {
	case <-l.stop:
	default:
		close(l.stop)
	}
}
