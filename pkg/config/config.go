package config

import (
	"sync"
)

var (
	globalManager *Manager
	globalMu      sync.Mutex
)

// New creates a manager over a FileStore at path with the wingman sections
// registered and loaded. An empty path means DefaultPath.
func New(path string) (*Manager, error) {
	store, err := NewFileStore(path)
	if err != nil {
		return nil, err
	}

	manager := NewManager(store)
	for _, section := range []Section{
		NewLLMSection(),
		NewScreenshotsSection(),
		NewServerSection(),
	} {
		if err := manager.RegisterSection(section); err != nil {
			return nil, err
		}
	}

	if err := manager.LoadAll(); err != nil {
		return nil, err
	}
	return manager, nil
}

// Initialize creates the global configuration manager.
// Call once at startup, before Global or the Get* helpers.
func Initialize(configPath string) error {
	manager, err := New(configPath)
	if err != nil {
		return err
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	globalManager = manager
	return nil
}

// Global returns the global configuration manager.
// Panics if Initialize has not been called.
func Global() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		panic("config not initialized: call config.Initialize first")
	}
	return globalManager
}

// IsInitialized returns true if the global configuration has been initialized.
func IsInitialized() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalManager != nil
}

func globalSection[T Section](id string) T {
	var zero T
	if !IsInitialized() {
		return zero
	}
	section, ok := Global().GetSection(id)
	if !ok {
		return zero
	}
	typed, ok := section.(T)
	if !ok {
		return zero
	}
	return typed
}

// GetLLM returns the LLM section, or nil before Initialize.
func GetLLM() *LLMSection {
	return globalSection[*LLMSection](SectionIDLLM)
}

// GetScreenshots returns the screenshot section, or nil before Initialize.
func GetScreenshots() *ScreenshotsSection {
	return globalSection[*ScreenshotsSection](SectionIDScreenshots)
}

// GetServer returns the server section, or nil before Initialize.
func GetServer() *ServerSection {
	return globalSection[*ServerSection](SectionIDServer)
}
