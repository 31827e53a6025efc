// Package app holds the application state behind the dispatch layer: the
// screenshot queues, the window, the assistant and the event bus.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/entrhq/wingman/pkg/assistant"
	"github.com/entrhq/wingman/pkg/logging"
	"github.com/entrhq/wingman/pkg/screenshot"
	"github.com/entrhq/wingman/pkg/security/pathguard"
	"github.com/entrhq/wingman/pkg/types"
	"github.com/entrhq/wingman/pkg/window"
)

// ErrNoProblem is returned when a debug pass runs before any problem was extracted.
var ErrNoProblem = errors.New("no problem has been extracted yet")

// Shot is a queued screenshot with its inline preview.
type Shot struct {
	Path    string `json:"path"`
	Preview string `json:"preview"`
}

// State is the single owner of the screenshot manager and processing state.
type State struct {
	screens   *screenshot.Manager
	window    window.Controller
	assistant *assistant.Assistant
	guard     *pathguard.Guard
	bus       *Bus
	logger    *logging.Logger

	mu       sync.Mutex
	cancel   context.CancelFunc
	runID    int
	problem  *types.ProblemInfo
	solution *types.SolutionResponse
}

// Option configures a State.
type Option func(*State)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *State) {
		s.logger = l
	}
}

// WithBus replaces the event bus.
func WithBus(b *Bus) Option {
	return func(s *State) {
		s.bus = b
	}
}

// New wires a State. asst may be nil, in which case processing and analysis
// report an error; capture and queue management still work.
func New(screens *screenshot.Manager, win window.Controller, asst *assistant.Assistant, guard *pathguard.Guard, opts ...Option) (*State, error) {
	if screens == nil {
		return nil, fmt.Errorf("screenshot manager is required")
	}
	if win == nil {
		return nil, fmt.Errorf("window controller is required")
	}
	if guard == nil {
		return nil, fmt.Errorf("path guard is required")
	}

	s := &State{
		screens:   screens,
		window:    win,
		assistant: asst,
		guard:     guard,
		bus:       NewBus(DefaultSubscriberBuffer),
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Bus returns the event bus.
func (s *State) Bus() *Bus { return s.bus }

// Window returns the window controller.
func (s *State) Window() window.Controller { return s.window }

// Assistant returns the assistant, or nil when none is configured.
func (s *State) Assistant() *assistant.Assistant { return s.assistant }

func (s *State) emit(e *types.Event) {
	s.bus.Publish(e)
}

// View returns the active view.
func (s *State) View() screenshot.View {
	return s.screens.View()
}

// SetView switches the active view.
func (s *State) SetView(v screenshot.View) {
	s.screens.SetView(v)
}

// TakeScreenshot captures into the active queue, hiding the window around the
// capture, and returns the new shot with its preview.
func (s *State) TakeScreenshot(ctx context.Context) (Shot, error) {
	path, err := s.screens.Capture(ctx, s.window)
	if err != nil {
		return Shot{}, err
	}
	preview, err := s.screens.Preview(path)
	if err != nil {
		return Shot{}, err
	}

	shot := Shot{Path: path, Preview: preview}
	s.emit(types.NewEvent(types.EventScreenshotTaken, shot))
	return shot, nil
}

// Screenshots returns the active view's queue with previews, oldest first.
// Any unreadable file fails the whole call.
func (s *State) Screenshots(ctx context.Context) ([]Shot, error) {
	paths := s.screens.ActiveQueue()
	shots := make([]Shot, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		preview, err := s.screens.Preview(path)
		if err != nil {
			return nil, err
		}
		shots = append(shots, Shot{Path: path, Preview: preview})
	}
	return shots, nil
}

// DeleteScreenshot validates raw against the guard and deletes it. It never
// returns an error; failures are reported in the Result.
func (s *State) DeleteScreenshot(raw string) screenshot.Result {
	path, err := s.guard.Validate(raw)
	if err != nil {
		s.logger.Warnf("rejected delete of %q: %v", raw, err)
		return screenshot.Failure(err)
	}
	return s.screens.Delete(path)
}

// ResetQueues deletes every queued screenshot in both views.
func (s *State) ResetQueues() screenshot.Result {
	s.screens.ClearAll()
	return screenshot.Result{Success: true}
}

// SetWindowDimensions forwards the UI's content size. Zero or negative
// values are ignored.
func (s *State) SetWindowDimensions(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.window.SetDimensions(width, height)
	s.emitWindow()
}

// ToggleWindow shows or hides the window.
func (s *State) ToggleWindow() {
	s.window.Toggle()
	s.emitWindow()
}

// MoveWindowLeft moves the window one step left.
func (s *State) MoveWindowLeft() {
	s.window.MoveLeft()
	s.emitWindow()
}

// MoveWindowRight moves the window one step right.
func (s *State) MoveWindowRight() {
	s.window.MoveRight()
	s.emitWindow()
}

func (s *State) emitWindow() {
	s.emit(types.NewEvent(types.EventWindowChanged, s.window.State()))
}

// ValidatePath confines an externally supplied path to the screenshot directories.
func (s *State) ValidatePath(raw string) (string, error) {
	return s.guard.Validate(raw)
}

// Problem returns the most recently extracted problem, if any.
func (s *State) Problem() *types.ProblemInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.problem
}

// Solution returns the most recent solution, if any.
func (s *State) Solution() *types.SolutionResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.solution
}

// Reset cancels processing, clears both queues, returns to the queue view and
// tells the UI to do the same.
func (s *State) Reset() {
	s.CancelProcessing()

	s.mu.Lock()
	s.problem = nil
	s.solution = nil
	s.mu.Unlock()

	s.screens.ClearAll()
	s.screens.SetView(screenshot.ViewQueue)
	s.emit(types.NewEvent(types.EventResetView, nil))
	s.logger.Infof("state reset")
}
