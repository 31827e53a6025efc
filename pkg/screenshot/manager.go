// Package screenshot manages the two bounded screenshot queues behind the assistant.
//
// Each view owns a Queue of PNG paths inside its own directory. Capturing past
// capacity evicts the oldest entry and deletes its file. Queues live for one
// process run only; leftover files from earlier runs are never re-adopted.
package screenshot

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/entrhq/wingman/pkg/logging"
	"github.com/entrhq/wingman/pkg/security/pathguard"
)

const (
	// DefaultCapacity is how many screenshots each queue retains.
	DefaultCapacity = 5

	// PrimaryDirName is the directory under the data root for ViewQueue captures.
	PrimaryDirName = "screenshots"
	// ExtraDirName is the directory under the data root for ViewSolutions captures.
	ExtraDirName = "extra_screenshots"
)

// Backend writes a PNG of the screen to dest.
type Backend interface {
	Capture(ctx context.Context, dest string) error
}

// UIBracket hides the application's own window around a capture so it does not
// appear in the screenshot.
type UIBracket interface {
	Hide()
	Show()
}

// Manager owns the primary and extra queues and the active view.
// All queue mutations happen under mu; backend and filesystem I/O do not.
type Manager struct {
	mu      sync.Mutex
	view    View
	queues  map[View]*Queue
	backend Backend
	logger  *logging.Logger
	newName func() string

	// hides counts captures in flight that asked for the UI to be hidden.
	uiMu  sync.Mutex
	hides int
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(l *logging.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithNameFunc overrides the random file name generator (without extension).
func WithNameFunc(fn func() string) Option {
	return func(m *Manager) {
		m.newName = fn
	}
}

// New creates a Manager rooted at dataDir, creating screenshots/ and
// extra_screenshots/ if needed. Both queues start empty.
func New(dataDir string, capacity int, backend Backend, opts ...Option) (*Manager, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("capacity must be positive, got %d", capacity)
	}
	if backend == nil {
		return nil, fmt.Errorf("capture backend is required")
	}

	root, err := pathguard.Canonicalize(dataDir)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		view:    ViewQueue,
		queues:  make(map[View]*Queue, 2),
		backend: backend,
		logger:  logging.Discard(),
		newName: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(m)
	}

	for view, name := range map[View]string{ViewQueue: PrimaryDirName, ViewSolutions: ExtraDirName} {
		dir := filepath.Join(root, name)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
		// Re-canonicalize in case the directory itself is a symlink.
		dir, err = pathguard.Canonicalize(dir)
		if err != nil {
			return nil, err
		}
		m.queues[view] = newQueue(view, dir, capacity)
	}

	return m, nil
}

// NewGuard returns a path guard confined to this manager's two directories.
func (m *Manager) NewGuard() (*pathguard.Guard, error) {
	return pathguard.NewGuard(m.Dir(ViewQueue), m.Dir(ViewSolutions))
}

// SetView sets the active view.
func (m *Manager) SetView(v View) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.view = v
}

// View returns the active view.
func (m *Manager) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view
}

// Dir returns the directory backing the given view.
func (m *Manager) Dir(v View) string {
	q, ok := m.queues[v]
	if !ok {
		return ""
	}
	return q.Dir()
}

// Capacity returns the per-queue capacity.
func (m *Manager) Capacity() int {
	return m.queues[ViewQueue].Capacity()
}

// Queue returns a snapshot of the given view's queue in capture order.
func (m *Manager) Queue(v View) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.queues[v]
	if !ok {
		return nil
	}
	return q.Items()
}

// ActiveQueue returns a snapshot of the active view's queue.
func (m *Manager) ActiveQueue() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queues[m.view].Items()
}

// Capture takes a screenshot into the active view's directory and queue and
// returns its path. ui is hidden before and shown after the capture whether or
// not it succeeds. Overlapping captures share one bracket: ui is shown only
// when the last of them finishes. A nil ui skips the bracket.
func (m *Manager) Capture(ctx context.Context, ui UIBracket) (string, error) {
	if ui != nil {
		m.hideUI(ui)
		defer m.showUI(ui)
	}

	m.mu.Lock()
	q := m.queues[m.view]
	m.mu.Unlock()

	path := filepath.Join(q.Dir(), m.newName()+".png")
	if err := m.backend.Capture(ctx, path); err != nil {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			m.logAndContinue("remove partial capture", &FileError{Op: "delete", Path: path, Err: rmErr})
		}
		return "", m.reportErr("capture", fmt.Errorf("%w: %w", ErrCaptureBackend, err))
	}

	m.mu.Lock()
	evicted := q.Push(path)
	m.mu.Unlock()

	for _, old := range evicted {
		m.logger.Debugf("evicting %s from %s queue", old, q.View())
		m.logAndContinue("evict old screenshot", removeFile(old))
	}

	m.logger.Infof("captured %s into %s queue", path, q.View())
	return path, nil
}

// Delete removes the file at path and, if that succeeds, drops path from
// whichever queue holds it. path must already have passed the path guard.
// Deleting a path that is not queued is not an error.
func (m *Manager) Delete(path string) Result {
	if err := removeFile(path); err != nil {
		return Failure(m.reportErr("delete screenshot", err))
	}

	m.mu.Lock()
	removed := false
	for _, v := range []View{m.view, m.view.other()} {
		if m.queues[v].Remove(path) {
			removed = true
			break
		}
	}
	m.mu.Unlock()

	m.logger.Infof("deleted %s (queued=%t)", path, removed)
	return Result{Success: true}
}

// Preview returns the file at path as a base64 PNG data URI. path must already
// have passed the path guard.
func (m *Manager) Preview(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", m.reportErr("read preview", &FileError{Op: "read", Path: path, Err: err})
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// ClearAll empties both queues and deletes their files. Individual delete
// failures are logged; the queues end up empty regardless.
func (m *Manager) ClearAll() {
	m.mu.Lock()
	var paths []string
	for _, v := range []View{ViewQueue, ViewSolutions} {
		paths = append(paths, m.queues[v].Reset()...)
	}
	m.mu.Unlock()

	for _, path := range paths {
		m.logAndContinue("clear screenshot", removeFile(path))
	}
	m.logger.Infof("cleared %d screenshots", len(paths))
}

func (m *Manager) hideUI(ui UIBracket) {
	m.uiMu.Lock()
	defer m.uiMu.Unlock()
	if m.hides == 0 {
		ui.Hide()
	}
	m.hides++
}

func (m *Manager) showUI(ui UIBracket) {
	m.uiMu.Lock()
	defer m.uiMu.Unlock()
	m.hides--
	if m.hides == 0 {
		ui.Show()
	}
}

func removeFile(path string) error {
	if err := os.Remove(path); err != nil {
		return &FileError{Op: "delete", Path: path, Err: err}
	}
	return nil
}
