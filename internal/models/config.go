package models

import "time"

// FetchOptions contains runtime options shared by the HTTP fetch layer.
type FetchOptions struct {
	Proxies    []string
	Timeout    time.Duration
	UserAgents []string
	// RequestsPerSecond bounds requests per host; zero disables the limiter.
	RequestsPerSecond float64
}
