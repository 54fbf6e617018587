package domain

import (
	"fmt"
	"net/url"
	"time"
)

// Setting defaults.
const (
	DefaultBackendURL        = "http://localhost:8420"
	DefaultBackendTimeout    = 10 * time.Second
	DefaultPollInterval      = 15 * time.Second
	DefaultRequestsPerSecond = 5.0
	DefaultBurst             = 10

	// MinPollInterval keeps a misconfigured interval from hammering the
	// backend.
	MinPollInterval = time.Second
)

// BackendSettings holds restaurant backend connection configuration.
type BackendSettings struct {
	// URL is the base URL of the restaurant API.
	URL string

	// Token is the bearer token sent with every request. May be empty for
	// the demo backend.
	Token string

	// Timeout bounds each request.
	Timeout time.Duration
}

// IsConfigured returns true if a backend URL is set.
func (b BackendSettings) IsConfigured() bool {
	return b.URL != ""
}

// PollingSettings holds view refresh configuration.
type PollingSettings struct {
	// Interval between background refreshes of the visible view.
	Interval time.Duration
}

// RateLimitSettings holds the client-side request budget.
type RateLimitSettings struct {
	RequestsPerSecond float64
	Burst             int
}

// AppSettings holds all application configuration.
type AppSettings struct {
	Backend   BackendSettings
	Polling   PollingSettings
	RateLimit RateLimitSettings
}

// DefaultAppSettings returns the settings used when no config file exists.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Backend: BackendSettings{
			URL:     DefaultBackendURL,
			Timeout: DefaultBackendTimeout,
		},
		Polling: PollingSettings{
			Interval: DefaultPollInterval,
		},
		RateLimit: RateLimitSettings{
			RequestsPerSecond: DefaultRequestsPerSecond,
			Burst:             DefaultBurst,
		},
	}
}

// Validate checks the settings for values that cannot work.
func (s AppSettings) Validate() error {
	if s.Backend.URL != "" {
		u, err := url.Parse(s.Backend.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: backend.url %q is not an absolute URL", ErrInvalidInput, s.Backend.URL)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%w: backend.url scheme must be http or https", ErrInvalidInput)
		}
	}
	if s.Backend.Timeout <= 0 {
		return fmt.Errorf("%w: backend.timeout_seconds must be positive", ErrInvalidInput)
	}
	if s.Polling.Interval < MinPollInterval {
		return fmt.Errorf("%w: polling.interval_seconds must be at least %s", ErrInvalidInput, MinPollInterval)
	}
	if s.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("%w: rate_limit.requests_per_second must be positive", ErrInvalidInput)
	}
	if s.RateLimit.Burst < 1 {
		return fmt.Errorf("%w: rate_limit.burst must be at least 1", ErrInvalidInput)
	}
	return nil
}
