package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useGlobal initializes the global manager from a file with content and
// restores the previous manager afterwards.
func useGlobal(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	}

	globalMu.Lock()
	prev := globalManager
	globalMu.Unlock()
	t.Cleanup(func() {
		globalMu.Lock()
		globalManager = prev
		globalMu.Unlock()
	})

	require.NoError(t, Initialize(path))
	return path
}

func TestNew_RegistersSections(t *testing.T) {
	m, err := New(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	ids := []string{}
	for _, s := range m.GetSections() {
		ids = append(ids, s.ID())
	}
	assert.Equal(t, []string{SectionIDLLM, SectionIDScreenshots, SectionIDServer}, ids)
	require.NoError(t, m.ValidateAll())
}

func TestNew_RejectsBadTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"1.0","sections":{"screenshots":{"capacity":"five"}}}`), 0600))

	_, err := New(path)
	assert.ErrorContains(t, err, "capacity")
}

func TestGlobalAccessors(t *testing.T) {
	useGlobal(t, `{"version":"1.0","sections":{
		"llm":{"model":"file-model"},
		"screenshots":{"capacity":2},
		"server":{"listen_addr":"127.0.0.1:9999"}}}`)

	assert.True(t, IsInitialized())
	require.NotNil(t, GetLLM())
	assert.Equal(t, "file-model", GetLLM().GetModel())
	assert.Equal(t, 2, GetScreenshots().GetCapacity())
	assert.Equal(t, "127.0.0.1:9999", GetServer().GetListenAddr())
}

func TestSaveAllRoundTrip(t *testing.T) {
	path := useGlobal(t, "")

	require.NoError(t, GetScreenshots().SetData(map[string]interface{}{"capacity": 7}))
	require.NoError(t, Global().SaveAll())

	m, err := New(path)
	require.NoError(t, err)
	section, ok := m.GetSection(SectionIDScreenshots)
	require.True(t, ok)
	assert.Equal(t, 7, section.(*ScreenshotsSection).GetCapacity())
}
