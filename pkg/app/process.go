package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/entrhq/wingman/pkg/screenshot"
	"github.com/entrhq/wingman/pkg/types"
)

// ErrNoAssistant is returned when processing or analysis is requested without
// a configured model.
var ErrNoAssistant = errors.New("no language model configured")

// ProcessScreenshots runs the processing step for the active view and blocks
// until it finishes. Progress and results are published on the bus; the
// returned error mirrors the error event. Starting a new run cancels any
// run still in flight.
//
// In the queue view the primary screenshots are turned into a problem and a
// streamed solution, after which the view switches to solutions. In the
// solutions view the extra screenshots are used to debug that solution.
func (s *State) ProcessScreenshots(ctx context.Context) error {
	view := s.screens.View()
	paths := s.screens.Queue(view)
	if len(paths) == 0 {
		s.emit(types.NewEvent(types.EventProcessingNoScreenshots, view.String()))
		return nil
	}

	ctx, done := s.begin(ctx)
	defer done()

	if view == screenshot.ViewSolutions {
		return s.debug(ctx, paths)
	}
	return s.solve(ctx, paths)
}

// CancelProcessing cancels the run in flight, if any.
func (s *State) CancelProcessing() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		s.logger.Infof("processing cancelled")
	}
}

// Processing reports whether a run is in flight.
func (s *State) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// begin registers a new run, cancelling the previous one.
func (s *State) begin(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.runID++
	id := s.runID
	s.mu.Unlock()

	return ctx, func() {
		cancel()
		s.mu.Lock()
		if s.runID == id {
			s.cancel = nil
		}
		s.mu.Unlock()
	}
}

func (s *State) solve(ctx context.Context, paths []string) error {
	s.emit(types.NewEvent(types.EventSolutionStart, len(paths)))
	if s.assistant == nil {
		return s.fail(types.EventSolutionError, ErrNoAssistant)
	}

	problem, err := s.assistant.ExtractProblem(ctx, paths)
	if err != nil {
		return s.fail(types.EventSolutionError, fmt.Errorf("extract problem: %w", err))
	}
	if err := s.commit(ctx, func() {
		s.problem = problem
		s.emit(types.NewEvent(types.EventProblemExtracted, problem))
	}); err != nil {
		return s.fail(types.EventSolutionError, fmt.Errorf("extract problem: %w", err))
	}

	solution, err := s.assistant.GenerateSolution(ctx, problem, func(token string) {
		s.emit(types.NewEvent(types.EventSolutionToken, token))
	})
	if err != nil {
		return s.fail(types.EventSolutionError, fmt.Errorf("generate solution: %w", err))
	}

	if err := s.commit(ctx, func() {
		s.solution = solution
		s.emit(types.NewEvent(types.EventSolutionSuccess, solution))
		s.screens.SetView(screenshot.ViewSolutions)
	}); err != nil {
		return s.fail(types.EventSolutionError, fmt.Errorf("generate solution: %w", err))
	}
	s.logger.Infof("solution ready; switched to %s view", screenshot.ViewSolutions)
	return nil
}

func (s *State) debug(ctx context.Context, paths []string) error {
	s.emit(types.NewEvent(types.EventDebugStart, len(paths)))
	if s.assistant == nil {
		return s.fail(types.EventDebugError, ErrNoAssistant)
	}

	s.mu.Lock()
	problem := s.problem
	var current string
	if s.solution != nil {
		current = s.solution.Solution.Code
	}
	s.mu.Unlock()

	if problem == nil {
		return s.fail(types.EventDebugError, ErrNoProblem)
	}

	solution, err := s.assistant.DebugSolution(ctx, problem, current, paths)
	if err != nil {
		return s.fail(types.EventDebugError, fmt.Errorf("debug solution: %w", err))
	}

	if err := s.commit(ctx, func() {
		s.solution = solution
		s.emit(types.NewEvent(types.EventDebugSuccess, solution))
	}); err != nil {
		return s.fail(types.EventDebugError, fmt.Errorf("debug solution: %w", err))
	}
	return nil
}

// commit applies update under the state lock unless ctx is already done. A
// run that was cancelled or superseded, including by Reset, never writes
// results or switches the view.
func (s *State) commit(ctx context.Context, update func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	update()
	return nil
}

func (s *State) fail(t types.EventType, err error) error {
	s.logger.Errorf("%s: %v", t, err)
	s.emit(types.NewErrorEvent(t, err))
	return err
}
