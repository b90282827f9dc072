package ratelimit

import (
	"strings"
)

// unlimited matches endpoints that are never throttled: the health probe and
// the long-lived event stream, which holds one connection per client.
var unlimited = &EndpointConfig{Path: "-", Limit: 0}

// MatchEndpoint returns the rule for a request, or nil to use the default.
// Exact paths win over prefix rules (paths ending in "/").
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if method == "GET" && (path == "/health" || path == "/v1/events") {
		return unlimited
	}

	for i := range configs {
		config := &configs[i]
		if config.Path == path && config.Method == method {
			return config
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path) {
			return config
		}
	}

	return nil
}
