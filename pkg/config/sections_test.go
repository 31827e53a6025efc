package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMSection(t *testing.T) {
	s := NewLLMSection()
	assert.Equal(t, SectionIDLLM, s.ID())
	assert.Equal(t, defaultMaxPromptTokens, s.GetMaxPromptTokens())
	require.NoError(t, s.Validate())

	// Values as they come back from JSON.
	require.NoError(t, s.SetData(map[string]interface{}{
		"model":                "gpt-4o-mini",
		"base_url":             "https://openrouter.ai/api/v1",
		"api_key":              "sk-test",
		"max_prompt_tokens":    float64(1000),
		"max_image_megapixels": float64(1),
		"unknown":              "ignored",
	}))
	assert.Equal(t, "gpt-4o-mini", s.GetModel())
	assert.Equal(t, "https://openrouter.ai/api/v1", s.GetBaseURL())
	assert.Equal(t, "sk-test", s.GetAPIKey())
	assert.Equal(t, 1000, s.GetMaxPromptTokens())
	assert.Equal(t, 1.0, s.GetMaxImageMegapixels())
	require.NoError(t, s.Validate())

	data := s.Data()
	assert.Equal(t, "gpt-4o-mini", data["model"])
	assert.Equal(t, 1000, data["max_prompt_tokens"])

	assert.Error(t, s.SetData(map[string]interface{}{"model": 42}))
	assert.Error(t, s.SetData(map[string]interface{}{"max_prompt_tokens": 1.5}))

	require.NoError(t, s.SetData(map[string]interface{}{"base_url": "not a url", "max_prompt_tokens": -1}))
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url")
	assert.Contains(t, err.Error(), "max_prompt_tokens")

	s.Reset()
	assert.Empty(t, s.GetModel())
	assert.Equal(t, defaultMaxImageMegapixels, s.GetMaxImageMegapixels())
}

func TestScreenshotsSection(t *testing.T) {
	s := NewScreenshotsSection()
	assert.Equal(t, defaultCapacity, s.GetCapacity())
	assert.Equal(t, "auto", s.GetBackend())
	require.NoError(t, s.Validate())

	require.NoError(t, s.SetData(map[string]interface{}{
		"data_dir":       "/tmp/wingman",
		"capacity":       float64(3),
		"purge_on_start": true,
		"backend":        "grim",
	}))
	assert.Equal(t, "/tmp/wingman", s.GetDataDir())
	assert.Equal(t, 3, s.GetCapacity())
	assert.True(t, s.GetPurgeOnStart())
	assert.Equal(t, "grim", s.GetBackend())

	assert.Error(t, s.SetData(map[string]interface{}{"purge_on_start": "yes"}))

	for _, capacity := range []int{0, -1, maxCapacity + 1} {
		require.NoError(t, s.SetData(map[string]interface{}{"capacity": capacity}))
		assert.Error(t, s.Validate(), "capacity %d", capacity)
	}

	s.Reset()
	assert.Equal(t, defaultCapacity, s.GetCapacity())
	assert.False(t, s.GetPurgeOnStart())
}

func TestServerSection(t *testing.T) {
	s := NewServerSection()
	assert.Equal(t, DefaultListenAddr, s.GetListenAddr())
	require.NoError(t, s.Validate())

	require.NoError(t, s.SetData(map[string]interface{}{"listen_addr": "localhost:9000", "max_connections": 4}))
	assert.Equal(t, "localhost:9000", s.GetListenAddr())
	assert.Equal(t, 4, s.GetMaxConnections())
	require.NoError(t, s.Validate())

	require.NoError(t, s.SetData(map[string]interface{}{"listen_addr": "no-port"}))
	assert.ErrorContains(t, s.Validate(), "host:port")

	require.NoError(t, s.SetData(map[string]interface{}{"listen_addr": ":0", "max_connections": 0}))
	assert.Error(t, s.Validate())
}

func TestResolveDataDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvDataDir, "")

	section := NewScreenshotsSection()

	dir, err := ResolveDataDir("", nil)
	require.NoError(t, err)
	def, err := DefaultDataDir()
	require.NoError(t, err)
	assert.Equal(t, def, dir)

	require.NoError(t, section.SetData(map[string]interface{}{"data_dir": "/from/file"}))
	dir, err = ResolveDataDir("", section)
	require.NoError(t, err)
	assert.Equal(t, "/from/file", dir)

	t.Setenv(EnvDataDir, "/from/env")
	dir, err = ResolveDataDir("", section)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", dir)

	dir, err = ResolveDataDir("/from/flag", section)
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", dir)
}
