package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/generate/stream", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},
			{Path: "/drafts/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		},
	}
}

func TestLimiterBurstThenBlocked(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	// Burst capacity of 3, then the hourly refill is far too slow to help
	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("client-a", "/generate/stream", "POST")
		require.True(t, allowed, "request %d should pass", i+1)
		assert.Equal(t, 20, info.Limit)
	}

	allowed, info := l.Allow("client-a", "/generate/stream", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestLimiterClientsIndependent(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, _ := l.Allow("client-a", "/generate/stream", "POST")
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("client-a", "/generate/stream", "POST")
	assert.False(t, allowed)

	allowed, _ = l.Allow("client-b", "/generate/stream", "POST")
	assert.True(t, allowed)
}

func TestLimiterEndpointsIndependent(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, _ := l.Allow("client-a", "/generate/stream", "POST")
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("client-a", "/generate/stream", "POST")
	require.False(t, allowed)

	allowed, info := l.Allow("client-a", "/drafts/abc", "PUT")
	assert.True(t, allowed)
	assert.Equal(t, 100, info.Limit)
}

func TestLimiterDisabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("client-a", "/generate/stream", "POST")
		require.True(t, allowed)
	}
}

func TestLimiterWhitelistAndBlacklist(t *testing.T) {
	cfg := testConfig()
	cfg.Whitelist = map[string]bool{"trusted": true}
	cfg.Blacklist = map[string]bool{"banned": true}
	l := NewLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 50; i++ {
		allowed, _ := l.Allow("trusted", "/generate/stream", "POST")
		require.True(t, allowed)
	}

	allowed, _ := l.Allow("banned", "/health", "POST")
	assert.False(t, allowed)
}

func TestLimiterHealthUnlimited(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultLimit = 1
	l := NewLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 20; i++ {
		allowed, _ := l.Allow("client-a", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestLimiterDefaultTier(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultLimit = 2
	cfg.DefaultWindow = time.Hour
	l := NewLimiter(cfg)
	defer l.Stop()

	allowed, info := l.Allow("client-a", "/drafts", "GET")
	require.True(t, allowed)
	assert.Equal(t, 2, info.Limit)

	allowed, _ = l.Allow("client-a", "/drafts", "GET")
	require.True(t, allowed)

	allowed, _ = l.Allow("client-a", "/drafts", "GET")
	assert.False(t, allowed)
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		name   string
		path   string
		method string
		limit  int
	}{
		{"exact", "/generate/stream", "POST", 20},
		{"prefix", "/drafts/3f9c2e10", "PUT", 100},
		{"prefix segment retry", "/generate/segments/skills/retry", "POST", 60},
		{"health unlimited", "/health", "GET", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier := matchEndpoint(tt.path, tt.method, configs)
			require.NotNil(t, tier)
			assert.Equal(t, tt.limit, tier.Limit)
		})
	}

	assert.Nil(t, matchEndpoint("/drafts", "GET", configs), "unmatched routes fall back to the default tier")
}

func TestBucketRefills(t *testing.T) {
	b := &bucket{capacity: 2, perSecond: 1, tokens: 0, refilled: time.Now().Add(-time.Second)}

	allowed, remaining, _ := b.take(time.Now())
	assert.True(t, allowed)
	assert.Equal(t, 0, remaining)

	allowed, _, reset := b.take(time.Now())
	assert.False(t, allowed)
	assert.True(t, reset.After(time.Now()))
}

func TestDropIdle(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	l.Allow("client-a", "/generate/stream", "POST")
	require.Len(t, l.buckets, 1)

	l.dropIdle(time.Now().Add(-time.Hour))
	assert.Len(t, l.buckets, 1, "fresh buckets survive the sweep")

	l.dropIdle(time.Now().Add(time.Hour))
	assert.Empty(t, l.buckets)
}
