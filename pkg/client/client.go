// Package client is a typed client for the dispatch API, used by the CLI and
// by UI processes written in Go.
package client

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/entrhq/wingman/pkg/app"
	"github.com/entrhq/wingman/pkg/dispatch"
	"github.com/entrhq/wingman/pkg/screenshot"
	"github.com/entrhq/wingman/pkg/types"
	"github.com/entrhq/wingman/pkg/window"
)

// DefaultTimeout bounds every call except Events.
const DefaultTimeout = 30 * time.Second

// APIError is a non-2xx reply from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Event is a streamed server event. Data is left raw; decode it according to Type.
type Event struct {
	Type      types.EventType `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Health is the /health reply.
type Health struct {
	Status     string `json:"status"`
	View       string `json:"view"`
	Model      string `json:"model"`
	Processing bool   `json:"processing"`
}

// Client talks to one wingman server.
type Client struct {
	http *resty.Client
	// stream has no timeout; the event stream stays open indefinitely.
	stream *resty.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// New creates a client for the server at addr ("host:port" or a full URL).
func New(addr string, opts ...Option) *Client {
	base := addr
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	base = strings.TrimRight(base, "/") + "/ipc"
	c := &Client{
		http: resty.New().
			SetBaseURL(base).
			SetTimeout(DefaultTimeout).
			SetHeader("Accept", "application/json").
			SetError(&dispatch.ErrorResponse{}),
		stream: resty.New().SetBaseURL(base),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		msg := strings.TrimSpace(resp.String())
		if e, ok := resp.Error().(*dispatch.ErrorResponse); ok && e.Error != "" {
			msg = e.Error
		}
		return &APIError{Status: resp.StatusCode(), Message: msg}
	}
	return nil
}

// Health reports server status.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, resty.MethodGet, "/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// TakeScreenshot captures a screenshot into the active queue.
func (c *Client) TakeScreenshot(ctx context.Context) (*app.Shot, error) {
	var shot app.Shot
	if err := c.do(ctx, resty.MethodPost, "/take-screenshot", nil, &shot); err != nil {
		return nil, err
	}
	return &shot, nil
}

// Screenshots lists the active queue with previews.
func (c *Client) Screenshots(ctx context.Context) ([]app.Shot, error) {
	var shots []app.Shot
	if err := c.do(ctx, resty.MethodGet, "/screenshots", nil, &shots); err != nil {
		return nil, err
	}
	return shots, nil
}

// DeleteScreenshot deletes one screenshot. The server reports refusals in the Result.
func (c *Client) DeleteScreenshot(ctx context.Context, path string) (screenshot.Result, error) {
	var res screenshot.Result
	err := c.do(ctx, resty.MethodPost, "/delete-screenshot", dispatch.PathBody{Path: path}, &res)
	return res, err
}

// ResetQueues empties both queues.
func (c *Client) ResetQueues(ctx context.Context) (screenshot.Result, error) {
	var res screenshot.Result
	err := c.do(ctx, resty.MethodPost, "/reset-queues", nil, &res)
	return res, err
}

// View returns the active view.
func (c *Client) View(ctx context.Context) (string, error) {
	var v dispatch.ViewResponse
	if err := c.do(ctx, resty.MethodGet, "/view", nil, &v); err != nil {
		return "", err
	}
	return v.View, nil
}

// SetView switches the active view.
func (c *Client) SetView(ctx context.Context, view string) (string, error) {
	var v dispatch.ViewResponse
	if err := c.do(ctx, resty.MethodPost, "/view", dispatch.ViewBody{View: view}, &v); err != nil {
		return "", err
	}
	return v.View, nil
}

// UpdateDimensions reports the UI content size.
func (c *Client) UpdateDimensions(ctx context.Context, width, height int) error {
	return c.do(ctx, resty.MethodPost, "/update-content-dimensions", dispatch.DimensionsBody{Width: width, Height: height}, nil)
}

// ToggleWindow shows or hides the window.
func (c *Client) ToggleWindow(ctx context.Context) error {
	return c.do(ctx, resty.MethodPost, "/toggle-window", nil, nil)
}

// MoveLeft moves the window one step left.
func (c *Client) MoveLeft(ctx context.Context) error {
	return c.do(ctx, resty.MethodPost, "/move-window-left", nil, nil)
}

// MoveRight moves the window one step right.
func (c *Client) MoveRight(ctx context.Context) error {
	return c.do(ctx, resty.MethodPost, "/move-window-right", nil, nil)
}

// Window returns the current window state.
func (c *Client) Window(ctx context.Context) (*window.State, error) {
	var st window.State
	if err := c.do(ctx, resty.MethodGet, "/window", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Process starts processing the active queue. Progress arrives on Events.
func (c *Client) Process(ctx context.Context) error {
	return c.do(ctx, resty.MethodPost, "/process", nil, nil)
}

// Cancel cancels in-flight processing.
func (c *Client) Cancel(ctx context.Context) error {
	return c.do(ctx, resty.MethodPost, "/cancel", nil, nil)
}

// Reset cancels processing, clears both queues and returns to the queue view.
func (c *Client) Reset(ctx context.Context) error {
	return c.do(ctx, resty.MethodPost, "/reset", nil, nil)
}

// AnalyzeAudioBase64 asks the model about base64-encoded audio.
func (c *Client) AnalyzeAudioBase64(ctx context.Context, data, mimeType string) (*types.Analysis, error) {
	var a types.Analysis
	if err := c.do(ctx, resty.MethodPost, "/analyze-audio-base64", dispatch.AudioBody{Data: data, MimeType: mimeType}, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// AnalyzeAudioFile asks the model about an audio file inside the data directory.
func (c *Client) AnalyzeAudioFile(ctx context.Context, path string) (*types.Analysis, error) {
	var a types.Analysis
	if err := c.do(ctx, resty.MethodPost, "/analyze-audio-file", dispatch.PathBody{Path: path}, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// AnalyzeImageFile asks the model about an image inside the data directory.
func (c *Client) AnalyzeImageFile(ctx context.Context, path string) (*types.Analysis, error) {
	var a types.Analysis
	if err := c.do(ctx, resty.MethodPost, "/analyze-image-file", dispatch.PathBody{Path: path}, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Quit asks the server to shut down.
func (c *Client) Quit(ctx context.Context) error {
	return c.do(ctx, resty.MethodPost, "/quit", nil, nil)
}

// Events streams server events until ctx is done or the server closes the
// stream. The returned channel is closed when the stream ends.
func (c *Client) Events(ctx context.Context) (<-chan *Event, error) {
	resp, err := c.stream.R().
		SetContext(ctx).
		SetHeader("Accept", "text/event-stream").
		SetDoNotParseResponse(true).
		Get("/events")
	if err != nil {
		return nil, fmt.Errorf("failed to open event stream: %w", err)
	}
	body := resp.RawBody()
	if resp.IsError() {
		body.Close()
		return nil, &APIError{Status: resp.StatusCode(), Message: resp.Status()}
	}

	events := make(chan *Event, 16)
	go func() {
		defer close(events)
		defer body.Close()

		scanner := bufio.NewScanner(body)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			var e Event
			if err := json.Unmarshal([]byte(strings.TrimSpace(strings.TrimPrefix(line, "data:"))), &e); err != nil {
				continue
			}
			select {
			case events <- &e:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
