package types

import "time"

// EventType names a notification sent from the server to the UI.
type EventType string

const (
	EventScreenshotTaken         EventType = "screenshot_taken"          // EventScreenshotTaken carries the new shot's path and preview.
	EventProcessingNoScreenshots EventType = "processing_no_screenshots" // EventProcessingNoScreenshots means processing was requested with an empty queue.
	EventSolutionStart           EventType = "solution_start"            // EventSolutionStart marks the start of problem extraction.
	EventProblemExtracted        EventType = "problem_extracted"         // EventProblemExtracted carries the ProblemInfo.
	EventSolutionToken           EventType = "solution_token"            // EventSolutionToken carries one streamed token.
	EventSolutionSuccess         EventType = "solution_success"          // EventSolutionSuccess carries the SolutionResponse.
	EventSolutionError           EventType = "solution_error"            // EventSolutionError carries the failure message.
	EventDebugStart              EventType = "debug_start"               // EventDebugStart marks the start of a debug pass over extra screenshots.
	EventDebugSuccess            EventType = "debug_success"             // EventDebugSuccess carries the revised SolutionResponse.
	EventDebugError              EventType = "debug_error"               // EventDebugError carries the failure message.
	EventResetView               EventType = "reset_view"                // EventResetView tells the UI to return to the queue view.
	EventWindowChanged           EventType = "window_changed"            // EventWindowChanged carries the new window state.
)

// Event is a single server-to-UI notification.
type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates an event carrying data.
func NewEvent(t EventType, data interface{}) *Event {
	return &Event{Type: t, Data: data, Timestamp: time.Now()}
}

// NewErrorEvent creates an event carrying an error message.
func NewErrorEvent(t EventType, err error) *Event {
	e := &Event{Type: t, Timestamp: time.Now()}
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// IsError reports whether the event reports a failure.
func (e *Event) IsError() bool {
	return e.Error != "" || e.Type == EventSolutionError || e.Type == EventDebugError
}
