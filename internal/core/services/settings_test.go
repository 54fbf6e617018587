package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bistro-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/bistro-cli/internal/core/domain"
)

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set(KeyBackendURL, "https://pos.example.com")
	_ = store.Set(KeyBackendToken, "tok")
	_ = store.Set(KeyBackendTimeout, int64(3))
	_ = store.Set(KeyPollInterval, int64(30))
	_ = store.Set(KeyRequestsPerSecond, 1.5)
	_ = store.Set(KeyBurst, int64(2))

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.Equal(t, "https://pos.example.com", settings.Backend.URL)
	assert.Equal(t, "tok", settings.Backend.Token)
	assert.Equal(t, 3*time.Second, settings.Backend.Timeout)
	assert.Equal(t, 30*time.Second, settings.Polling.Interval)
	assert.InDelta(t, 1.5, settings.RateLimit.RequestsPerSecond, 0.0001)
	assert.Equal(t, 2, settings.RateLimit.Burst)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set(KeyPollInterval, int64(0))
	_ = store.Set(KeyRequestsPerSecond, "fast")
	_ = store.Set(KeyBurst, int64(-1))

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Polling.Interval, settings.Polling.Interval)
	assert.Equal(t, defaults.RateLimit, settings.RateLimit)
}

func TestSettingsService_Save(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings := domain.DefaultAppSettings()
	settings.Backend.URL = "http://10.0.0.5:8420"
	settings.Backend.Token = "tok"
	settings.Polling.Interval = 20 * time.Second

	require.NoError(t, service.Save(&settings))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *got)
	assert.Equal(t, 20, store.GetInt(KeyPollInterval))
}

func TestSettingsService_Save_KeepsTokenWhenEmpty(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set(KeyBackendToken, "existing")
	service := NewSettingsService(store)

	settings := domain.DefaultAppSettings()
	require.NoError(t, service.Save(&settings))

	assert.Equal(t, "existing", store.GetString(KeyBackendToken))
}

func TestSettingsService_Save_RejectsInvalid(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings := domain.DefaultAppSettings()
	settings.Polling.Interval = 0

	err := service.Save(&settings)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, ok := store.Get(KeyBackendURL)
	assert.False(t, ok, "nothing written")
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
		check   func(t *testing.T, s *domain.AppSettings)
	}{
		{
			name: "backend url trims trailing slash", key: KeyBackendURL, value: "https://pos.example.com/",
			check: func(t *testing.T, s *domain.AppSettings) {
				assert.Equal(t, "https://pos.example.com", s.Backend.URL)
			},
		},
		{
			name: "token", key: KeyBackendToken, value: " abc ",
			check: func(t *testing.T, s *domain.AppSettings) { assert.Equal(t, "abc", s.Backend.Token) },
		},
		{
			name: "poll interval", key: KeyPollInterval, value: "30",
			check: func(t *testing.T, s *domain.AppSettings) {
				assert.Equal(t, 30*time.Second, s.Polling.Interval)
			},
		},
		{
			name: "timeout", key: KeyBackendTimeout, value: "4",
			check: func(t *testing.T, s *domain.AppSettings) { assert.Equal(t, 4*time.Second, s.Backend.Timeout) },
		},
		{
			name: "rate", key: KeyRequestsPerSecond, value: "0.5",
			check: func(t *testing.T, s *domain.AppSettings) {
				assert.InDelta(t, 0.5, s.RateLimit.RequestsPerSecond, 0.0001)
			},
		},
		{
			name: "burst", key: KeyBurst, value: "3",
			check: func(t *testing.T, s *domain.AppSettings) { assert.Equal(t, 3, s.RateLimit.Burst) },
		},
		{name: "bad url", key: KeyBackendURL, value: "not a url", wantErr: true},
		{name: "interval not a number", key: KeyPollInterval, value: "soon", wantErr: true},
		{name: "interval too short", key: KeyPollInterval, value: "0", wantErr: true},
		{name: "rate not a number", key: KeyRequestsPerSecond, value: "x", wantErr: true},
		{name: "burst zero", key: KeyBurst, value: "0", wantErr: true},
		{name: "burst not a number", key: KeyBurst, value: "1.5", wantErr: true},
		{name: "unknown key", key: "search.mode", value: "full", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore())

			err := service.Set(tt.key, tt.value)
			if tt.wantErr {
				assert.True(t, errors.Is(err, domain.ErrInvalidInput), "got %v", err)
				return
			}
			require.NoError(t, err)
			settings, err := service.Get()
			require.NoError(t, err)
			tt.check(t, settings)
		})
	}
}

func TestSettingsService_Keys(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	keys := service.Keys()

	assert.Len(t, keys, 6)
	assert.Contains(t, keys, KeyPollInterval)
	for _, k := range keys {
		if err := service.Set(k, "1"); err != nil {
			assert.NotContains(t, err.Error(), "unknown setting", k)
		}
	}
}

func TestSettingsService_GetDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())
	assert.Equal(t, domain.DefaultAppSettings(), service.GetDefaults())
}
