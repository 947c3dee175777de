package config

import (
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration for the submission service.
type Server struct {
	Addr           string
	DatabaseURL    string
	RedisURL       string
	IPHashKey      string
	RateLimit      int
	RateWindow     time.Duration
	BodyLimit      int64
	TrustedProxies []netip.Prefix
	SESRegion      string
	NotifySender   string
}

const (
	defaultAddr       = ":8080"
	defaultRateLimit  = 10
	defaultRateWindow = time.Minute
	defaultBodyLimit  = 64 * 1024
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:         envOr("CANOPY_ADDR", defaultAddr),
		DatabaseURL:  os.Getenv("CANOPY_DATABASE_URL"),
		RedisURL:     os.Getenv("CANOPY_REDIS_URL"),
		IPHashKey:    os.Getenv("CANOPY_IP_HASH_KEY"),
		RateLimit:    defaultRateLimit,
		RateWindow:   defaultRateWindow,
		BodyLimit:    defaultBodyLimit,
		SESRegion:    os.Getenv("CANOPY_SES_REGION"),
		NotifySender: os.Getenv("CANOPY_NOTIFY_SENDER"),
	}

	if cfg.IPHashKey == "" {
		// Use a default for development - should be overridden in production
		cfg.IPHashKey = "dev-hash-key-change-in-production"
	}

	if v := os.Getenv("CANOPY_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimit = n
		}
	}
	if v := os.Getenv("CANOPY_RATE_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RateWindow = d
		}
	}
	if v := os.Getenv("CANOPY_BODY_LIMIT"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.BodyLimit = n
		}
	}

	// Comma-separated CIDR list, e.g. "10.0.0.0/8,172.16.0.0/12".
	if v := os.Getenv("CANOPY_TRUSTED_PROXIES"); v != "" {
		for _, raw := range strings.Split(v, ",") {
			if prefix, err := netip.ParsePrefix(strings.TrimSpace(raw)); err == nil {
				cfg.TrustedProxies = append(cfg.TrustedProxies, prefix)
			}
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
