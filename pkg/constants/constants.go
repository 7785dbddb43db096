package constants

const (
	// APIPrefix is the base path for all versioned API routes.
	APIPrefix = "/api/v1"

	// MetricsPath serves the prometheus endpoint.
	MetricsPath = "/metrics"
)
