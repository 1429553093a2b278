package ratelimit

import (
	"net/http"
	"strings"
)

// unlimited marks routes that are never limited.
var unlimited = EndpointConfig{Path: "/health", Method: http.MethodGet}

// MatchEndpoint returns the config for method and path, or nil when none applies.
// An exact path wins over a prefix; among prefixes the longest wins.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if path == unlimited.Path && method == unlimited.Method {
		u := unlimited
		return &u
	}

	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			if best == nil || len(c.Path) > len(best.Path) {
				best = c
			}
		}
	}
	return best
}
