package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// CacheConfig tunes the Redis response cache in front of the
// read-heavy endpoints (user listing, migration status). Methods
// lists the HTTP methods eligible for caching; everything here is
// GET-only. MaxBodyBytes caps what gets stored so an unexpectedly
// large user listing cannot bloat Redis.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig builds a CacheConfig from environment variables.
// The 30s default TTL keeps the migration-status endpoint from going
// stale for long after a batch run; the 1 MiB body cap covers user
// listings far beyond the expected account count.
func LoadCacheConfig() CacheConfig {
	ttl := parseDur(getenv("CACHE_TTL", "30s"))
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return CacheConfig{
		Enabled:      getenv("CACHE_ENABLED", "true") == "true",
		Methods:      parseMethods(getenv("CACHE_METHODS", "GET")),
		TTL:          ttl,
		Prefix:       getenv("CACHE_PREFIX", "cache"),
		MaxBodyBytes: atoi(getenv("CACHE_MAX_BODY_BYTES", "1048576")),
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}

// Helpers shared across this package.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Second
	}
	return d
}
