package config

import (
	"os"
	"path/filepath"
	"sync"

	v "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// SectionIDScreenshots is the identifier for the screenshot settings section
	SectionIDScreenshots = "screenshots"

	// EnvDataDir overrides the data directory.
	EnvDataDir = "WINGMAN_DATA_DIR"

	defaultCapacity = 5
	defaultBackend  = "auto"
	maxCapacity     = 50
)

// ScreenshotsSection configures where captures go and how many are kept.
type ScreenshotsSection struct {
	DataDir      string `json:"data_dir"`
	Capacity     int    `json:"capacity"`
	PurgeOnStart bool   `json:"purge_on_start"`
	Backend      string `json:"backend"`
	mu           sync.RWMutex
}

// NewScreenshotsSection creates the section with defaults. An empty data
// directory means DefaultDataDir.
func NewScreenshotsSection() *ScreenshotsSection {
	return &ScreenshotsSection{
		Capacity: defaultCapacity,
		Backend:  defaultBackend,
	}
}

// ID returns the section identifier.
func (s *ScreenshotsSection) ID() string {
	return SectionIDScreenshots
}

// Title returns the section title.
func (s *ScreenshotsSection) Title() string {
	return "Screenshot Settings"
}

// Description returns the section description.
func (s *ScreenshotsSection) Description() string {
	return "Data directory holding screenshots/ and extra_screenshots/, per-queue capacity, capture backend, and whether stale captures are purged at startup."
}

// Data returns the current configuration data.
func (s *ScreenshotsSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{
		"data_dir":       s.DataDir,
		"capacity":       s.Capacity,
		"purge_on_start": s.PurgeOnStart,
		"backend":        s.Backend,
	}
}

// SetData updates the configuration from the provided data.
func (s *ScreenshotsSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		var err error
		switch key {
		case "data_dir":
			s.DataDir, err = stringValue(key, value)
		case "capacity":
			s.Capacity, err = intValue(key, value)
		case "purge_on_start":
			s.PurgeOnStart, err = boolValue(key, value)
		case "backend":
			s.Backend, err = stringValue(key, value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Validate validates the current configuration.
func (s *ScreenshotsSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return v.ValidateStruct(s,
		v.Field(&s.Capacity, v.Required, v.Min(1), v.Max(maxCapacity)),
		v.Field(&s.Backend, v.Required),
	)
}

// Reset restores defaults.
func (s *ScreenshotsSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DataDir = ""
	s.Capacity = defaultCapacity
	s.PurgeOnStart = false
	s.Backend = defaultBackend
}

// GetDataDir returns the configured data directory, possibly empty.
func (s *ScreenshotsSection) GetDataDir() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.DataDir
}

// GetCapacity returns the per-queue capacity.
func (s *ScreenshotsSection) GetCapacity() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Capacity
}

// GetPurgeOnStart reports whether orphaned captures are removed at startup.
func (s *ScreenshotsSection) GetPurgeOnStart() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.PurgeOnStart
}

// GetBackend returns the capture backend name.
func (s *ScreenshotsSection) GetBackend() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Backend
}

// DefaultDataDir returns ~/.wingman/data.
func DefaultDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".wingman", "data"), nil
}

// ResolveDataDir picks the data directory: flag, then WINGMAN_DATA_DIR, then
// the section value, then DefaultDataDir. section may be nil.
func ResolveDataDir(cliDataDir string, section *ScreenshotsSection) (string, error) {
	if cliDataDir != "" {
		return cliDataDir, nil
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return env, nil
	}
	if section != nil {
		if dir := section.GetDataDir(); dir != "" {
			return dir, nil
		}
	}
	return DefaultDataDir()
}
