package metrics

import (
	"strings"
	"time"
)

// RecordHTTPRequest records HTTP request metrics
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	m.safeExecute("RecordHTTPRequest", func() {
		status := categorizeStatus(statusCode)
		m.HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	})
}

// categorizeStatus converts status code to category (2xx, 3xx, 4xx, 5xx)
func categorizeStatus(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}

// ShouldSkipEndpoint reports whether path is an operational endpoint that is
// excluded from request metrics. Websocket upgrades are long-lived and skipped too.
func ShouldSkipEndpoint(path string) bool {
	switch {
	case path == "/metrics", path == "/health", path == "/ready":
		return true
	case strings.HasSuffix(path, "/metrics"), strings.HasSuffix(path, "/health"), strings.HasSuffix(path, "/ready"):
		return true
	case strings.Contains(path, "/ws/"):
		return true
	}
	return false
}
