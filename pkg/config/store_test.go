package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileStore_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)
	assert.Equal(t, path, store.Path())
	assert.False(t, store.IsModified())

	all, err := store.GetAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestNewFileStore_DefaultPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	store, err := NewFileStore("")
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".wingman", "config.json"), store.Path())
}

func TestNewFileStore_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0600))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestFileStore_SaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.SetSection("screenshots", map[string]interface{}{"capacity": 3, "backend": "grim"}))
	assert.True(t, store.IsModified())
	require.NoError(t, store.Save())
	assert.False(t, store.IsModified())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var file fileFormat
	require.NoError(t, json.Unmarshal(raw, &file))
	assert.Equal(t, fileVersion, file.Version)
	assert.Equal(t, "grim", file.Sections["screenshots"]["backend"])

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")

	reloaded, err := NewFileStore(path)
	require.NoError(t, err)
	section, err := reloaded.GetSection("screenshots")
	require.NoError(t, err)
	assert.Equal(t, float64(3), section["capacity"])
}

func TestFileStore_Copies(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	in := map[string]interface{}{"k": "v"}
	require.NoError(t, store.SetSection("s", in))
	in["k"] = "mutated"

	out, err := store.GetSection("s")
	require.NoError(t, err)
	assert.Equal(t, "v", out["k"])
	out["k"] = "mutated"

	again, err := store.GetSection("s")
	require.NoError(t, err)
	assert.Equal(t, "v", again["k"])

	missing, err := store.GetSection("nope")
	require.NoError(t, err)
	assert.NotNil(t, missing)
	assert.Empty(t, missing)
}

func TestFileStore_SetAll(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	require.NoError(t, store.SetSection("old", map[string]interface{}{"x": 1}))

	require.NoError(t, store.SetAll(map[string]map[string]interface{}{"new": {"y": 2}}))

	all, err := store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]map[string]interface{}{"new": {"y": 2}}, all)
}
