package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("backend.url", "http://pos.local"))
	require.NoError(t, store.Set("backend.url", "http://pos.internal"))

	val, ok := store.Get("backend.url")
	assert.True(t, ok)
	assert.Equal(t, "http://pos.internal", val)

	_, ok = store.Get("backend.token")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("backend.url", "http://pos.local")
	_ = store.Set("polling.interval_seconds", int64(20))
	_ = store.Set("rate_limit.requests_per_second", 2.5)
	_ = store.Set("rate_limit.burst", 4)
	_ = store.Set("demo", true)

	assert.Equal(t, "http://pos.local", store.GetString("backend.url"))
	assert.Equal(t, 20, store.GetInt("polling.interval_seconds"))
	assert.Equal(t, 2, store.GetInt("rate_limit.requests_per_second"))
	assert.InDelta(t, 2.5, store.GetFloat("rate_limit.requests_per_second"), 0.0001)
	assert.InDelta(t, 4.0, store.GetFloat("rate_limit.burst"), 0.0001)
	assert.InDelta(t, 20.0, store.GetFloat("polling.interval_seconds"), 0.0001)
	assert.True(t, store.GetBool("demo"))
}

func TestConfigStore_TypeMismatchReturnsZero(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("backend.url", 42)
	_ = store.Set("rate_limit.burst", "ten")

	assert.Empty(t, store.GetString("backend.url"))
	assert.Zero(t, store.GetInt("rate_limit.burst"))
	assert.Zero(t, store.GetFloat("rate_limit.burst"))
	assert.False(t, store.GetBool("backend.url"))
	assert.Zero(t, store.GetInt("missing"))
}

func TestConfigStore_NoopPersistence(t *testing.T) {
	store := NewConfigStore()

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("rate_limit.burst", n)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("rate_limit.burst")
		}()
	}
	wg.Wait()

	_, ok := store.Get("rate_limit.burst")
	assert.True(t, ok)
}
