package ratelimit

import (
	"net/http"
	"strings"
	"time"
)

// Config holds rate limiting configuration.
type Config struct {
	Enabled bool
	// DefaultLimit per DefaultWindow applies to routes without an EndpointConfig.
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// EndpointConfig is the limit for one route. A Path ending in "/" matches every path below it.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	// Burst is the bucket capacity; zero means Limit.
	Burst int
}

// DefaultConfig allows 300 requests a minute per client on ordinary routes.
func DefaultConfig() *Config {
	return NewConfig(true, 300, nil, nil)
}

// NewConfig builds a Config with the API's endpoint limits.
func NewConfig(enabled bool, perMinute int, whitelist, blacklist []string) *Config {
	return &Config{
		Enabled:         enabled,
		DefaultLimit:    perMinute,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       ipSet(whitelist),
		Blacklist:       ipSet(blacklist),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-route limits. Searching hits external job boards and
// drafting calls the text generator, so both are held far below the default.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/v1/search", Method: http.MethodPost, Limit: 10, Window: time.Hour, Burst: 2},
		{Path: "/v1/content/", Method: http.MethodPost, Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/v1/score", Method: http.MethodPost, Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/v1/internships/", Method: http.MethodPatch, Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/v1/internships/", Method: http.MethodDelete, Limit: 100, Window: time.Minute, Burst: 10},
	}
}

func ipSet(ips []string) map[string]bool {
	set := make(map[string]bool, len(ips))
	for _, ip := range ips {
		if ip = strings.TrimSpace(ip); ip != "" {
			set[ip] = true
		}
	}
	return set
}
