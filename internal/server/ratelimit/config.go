package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the limit tier for one endpoint. A Path ending in "/"
// matches as a prefix.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int           // Requests per window
	Window time.Duration // Refill window
	Burst  int           // Bucket capacity, defaults to Limit when 0
}

// LoadConfig reads rate limiting settings from the environment and attaches
// the endpoint tiers.
func LoadConfig() *Config {
	if !envBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    envInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   envDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: envDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       clientSet(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       clientSet(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the endpoint tiers. Generation and
// ingestion call out to LLM providers and remote sites, so they get the
// strictest limits; draft writes are moderate; reads fall through to the
// default limit and the health check is unlimited.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/generate/stream", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/generate/segments/", Method: "POST", Limit: 60, Window: time.Hour, Burst: 5},
		{Path: "/jobs/ingest", Method: "POST", Limit: 60, Window: time.Hour, Burst: 5},

		{Path: "/drafts", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/drafts/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/drafts/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/generate/abort", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/generate/reset", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
	}
}

func envBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

// clientSet parses a comma-separated client ID list.
func clientSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = true
		}
	}
	return set
}
