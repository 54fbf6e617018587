package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	nestedPath := filepath.Join(t.TempDir(), "nested", "deep")

	store, err := NewConfigStore(nestedPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(nestedPath, "config.toml"), store.Path())

	info, err := os.Stat(nestedPath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("this is not valid TOML {{{[["), 0600)
	require.NoError(t, err)

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("backend.url", "http://pos.local:8420"))
	require.NoError(t, store.Set("backend.timeout_seconds", 12))
	require.NoError(t, store.Set("rate_limit.requests_per_second", 2.5))
	require.NoError(t, store.Set("demo", true))

	assert.Equal(t, "http://pos.local:8420", store.GetString("backend.url"))
	assert.Equal(t, 12, store.GetInt("backend.timeout_seconds"))
	assert.InDelta(t, 12.0, store.GetFloat("backend.timeout_seconds"), 0.0001)
	assert.InDelta(t, 2.5, store.GetFloat("rate_limit.requests_per_second"), 0.0001)
	assert.True(t, store.GetBool("demo"))

	// Wrong types and missing keys read as zero values.
	assert.Empty(t, store.GetString("backend.timeout_seconds"))
	assert.Zero(t, store.GetInt("backend.url"))
	assert.Zero(t, store.GetFloat("backend.url"))
	assert.False(t, store.GetBool("backend.url"))
	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_WritesNestedTables(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("backend.url", "http://pos.local"))
	require.NoError(t, store.Set("polling.interval_seconds", 20))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "[backend]")
	assert.Contains(t, content, "[polling]")
	assert.False(t, strings.Contains(content, `"backend.url"`), "keys are nested, not quoted")
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()
	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store1.Set("backend.url", "http://pos.local"))
	require.NoError(t, store1.Set("backend.token", "s3cret"))
	require.NoError(t, store1.Set("rate_limit.burst", 4))
	require.NoError(t, store1.Set("rate_limit.requests_per_second", 2.5))

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "http://pos.local", store2.GetString("backend.url"))
	assert.Equal(t, "s3cret", store2.GetString("backend.token"))
	assert.Equal(t, 4, store2.GetInt("rate_limit.burst"))
	assert.InDelta(t, 2.5, store2.GetFloat("rate_limit.requests_per_second"), 0.0001)
	assert.Equal(t, []string{
		"backend.token", "backend.url", "rate_limit.burst", "rate_limit.requests_per_second",
	}, store2.Keys())
}

func TestConfigStore_LoadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[backend]
url = "https://pos.example.com"
timeout_seconds = 5

[polling]
interval_seconds = 30
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "https://pos.example.com", store.GetString("backend.url"))
	assert.Equal(t, 5, store.GetInt("backend.timeout_seconds"))
	assert.Equal(t, 30, store.GetInt("polling.interval_seconds"))
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	val, ok := store.Get("backend.url")
	assert.False(t, ok)
	assert.Nil(t, val)
	assert.Empty(t, store.Keys())
}

func TestConfigStore_Load_CommentOnlyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("# Just a comment\n\n"), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Empty(t, store.Keys())
}

func TestConfigStore_Load_PicksUpExternalEdit(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("polling.interval_seconds", 15))

	require.NoError(t, os.WriteFile(store.Path(), []byte("[polling]\ninterval_seconds = 45\n"), 0600))
	require.NoError(t, store.Load())

	assert.Equal(t, 45, store.GetInt("polling.interval_seconds"))
}

func TestConfigStore_Load_InvalidTOML(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("backend.url", "http://pos.local"))

	require.NoError(t, os.WriteFile(store.Path(), []byte("invalid toml syntax ][}{"), 0600))

	assert.Error(t, store.Load())
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("backend.token", "s3cret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_SaveLeavesNoTempFiles(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("backend.url", "http://a"))
	require.NoError(t, store.Set("backend.url", "http://b"))

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "config.toml", entries[0].Name())
}

func TestConfigStore_Save_WriteError(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("backend.url", "http://pos.local"))

	// Replace the file with a directory so the rename fails.
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	err = store.Set("backend.token", "s3cret")
	assert.Error(t, err)

	_, ok := store.Get("backend.token")
	assert.False(t, ok, "failed write is rolled back")
}

func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	err = store.Set("channel", make(chan int))

	assert.Error(t, err)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			key := "rate_limit.k" + string(rune('0'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_ = store.GetFloat(key)
			_, _ = store.Get(key)
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
	assert.Len(t, store.Keys(), 10)
}

func TestNestMap(t *testing.T) {
	flat := map[string]any{
		"backend.url":   "http://pos.local",
		"backend.token": "x",
		"demo":          true,
		"demo.seed":     int64(3),
	}

	nested := nestMap(flat)

	backend, ok := nested["backend"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "http://pos.local", backend["url"])
	assert.Equal(t, true, nested["demo"])
	assert.Equal(t, int64(3), nested["demo.seed"], "conflicting path kept as dotted key")
	assert.Equal(t, flat, flattenMap(nested, ""))
}
