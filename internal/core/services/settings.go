package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/bistro-cli/internal/core/domain"
	"github.com/custodia-labs/bistro-cli/internal/core/ports/driven"
	"github.com/custodia-labs/bistro-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyBackendURL        = "backend.url"
	KeyBackendToken      = "backend.token"
	KeyBackendTimeout    = "backend.timeout_seconds"
	KeyPollInterval      = "polling.interval_seconds"
	KeyRequestsPerSecond = "rate_limit.requests_per_second"
	KeyBurst             = "rate_limit.burst"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Missing or unusable stored
// values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Backend: domain.BackendSettings{
			URL:     s.getString(KeyBackendURL, defaults.Backend.URL),
			Token:   s.configStore.GetString(KeyBackendToken),
			Timeout: s.getSeconds(KeyBackendTimeout, defaults.Backend.Timeout, time.Second),
		},
		Polling: domain.PollingSettings{
			Interval: s.getSeconds(KeyPollInterval, defaults.Polling.Interval, domain.MinPollInterval),
		},
		RateLimit: domain.RateLimitSettings{
			RequestsPerSecond: s.getPositiveFloat(KeyRequestsPerSecond, defaults.RateLimit.RequestsPerSecond),
			Burst:             s.getPositiveInt(KeyBurst, defaults.RateLimit.Burst),
		},
	}

	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(KeyBackendURL, settings.Backend.URL); err != nil {
		return fmt.Errorf("save backend url: %w", err)
	}
	if settings.Backend.Token != "" {
		if err := s.configStore.Set(KeyBackendToken, settings.Backend.Token); err != nil {
			return fmt.Errorf("save backend token: %w", err)
		}
	}
	if err := s.configStore.Set(KeyBackendTimeout, seconds(settings.Backend.Timeout)); err != nil {
		return fmt.Errorf("save backend timeout: %w", err)
	}
	if err := s.configStore.Set(KeyPollInterval, seconds(settings.Polling.Interval)); err != nil {
		return fmt.Errorf("save polling interval: %w", err)
	}
	if err := s.configStore.Set(KeyRequestsPerSecond, settings.RateLimit.RequestsPerSecond); err != nil {
		return fmt.Errorf("save rate limit: %w", err)
	}
	if err := s.configStore.Set(KeyBurst, settings.RateLimit.Burst); err != nil {
		return fmt.Errorf("save rate limit burst: %w", err)
	}

	return nil
}

// Set parses value for key, validates the resulting settings and persists
// only that key.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	value = strings.TrimSpace(value)
	var stored any
	switch key {
	case KeyBackendURL:
		settings.Backend.URL = strings.TrimRight(value, "/")
		stored = settings.Backend.URL
	case KeyBackendToken:
		settings.Backend.Token = value
		stored = value
	case KeyBackendTimeout, KeyPollInterval:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be a whole number of seconds", domain.ErrInvalidInput, key)
		}
		d := time.Duration(n) * time.Second
		if key == KeyBackendTimeout {
			settings.Backend.Timeout = d
		} else {
			settings.Polling.Interval = d
		}
		stored = n
	case KeyRequestsPerSecond:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		settings.RateLimit.RequestsPerSecond = f
		stored = f
	case KeyBurst:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be a whole number", domain.ErrInvalidInput, key)
		}
		settings.RateLimit.Burst = n
		stored = n
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns the settings keys accepted by Set.
func (s *SettingsService) Keys() []string {
	return []string{
		KeyBackendURL,
		KeyBackendToken,
		KeyBackendTimeout,
		KeyPollInterval,
		KeyRequestsPerSecond,
		KeyBurst,
	}
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getSeconds(key string, defaultVal, minVal time.Duration) time.Duration {
	val := time.Duration(s.configStore.GetInt(key)) * time.Second
	if val < minVal {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getPositiveFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func seconds(d time.Duration) int {
	return int(d / time.Second)
}
