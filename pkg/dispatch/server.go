// Package dispatch exposes the application state to the UI process over a
// loopback HTTP API. Every route lives under /ipc; events stream over SSE.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/net/netutil"

	"github.com/entrhq/wingman/pkg/app"
	"github.com/entrhq/wingman/pkg/logging"
)

const (
	// DefaultMaxConnections caps concurrent connections when none is configured.
	DefaultMaxConnections = 16

	shutdownTimeout = 5 * time.Second
	bodyLimit       = 32 * 1024 * 1024 // base64 audio
)

// Server serves the dispatch API for one app.State.
type Server struct {
	app    *fiber.App
	state  *app.State
	logger *logging.Logger

	// ctx outlives individual requests; background processing runs under it.
	ctx    context.Context
	cancel context.CancelFunc

	quit     chan struct{}
	quitOnce sync.Once
	bg       sync.WaitGroup

	heartbeat time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithHeartbeat sets the SSE keep-alive interval.
func WithHeartbeat(d time.Duration) Option {
	return func(s *Server) {
		s.heartbeat = d
	}
}

// New builds the fiber app and registers the routes.
func New(state *app.State, opts ...Option) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		state:     state,
		logger:    logging.Discard(),
		ctx:       ctx,
		cancel:    cancel,
		quit:      make(chan struct{}),
		heartbeat: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "wingman",
		DisableStartupMessage: true,
		BodyLimit:             bodyLimit,
		ErrorHandler:          s.errorHandler,
	})
	s.app.Use(recover.New())
	s.app.Use(logger.New(logger.Config{
		Output:     s.logger.Writer(),
		Format:     "[${time}] [dispatch.http] ${status} ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05.000",
	}))

	s.routes(s.app.Group("/ipc"))
	return s
}

// App returns the fiber app, e.g. for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Quit returns a channel closed when a client asks the server to stop.
func (s *Server) Quit() <-chan struct{} {
	return s.quit
}

// Listen binds addr with at most maxConns concurrent connections.
func Listen(addr string, maxConns int) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if maxConns <= 0 {
		maxConns = DefaultMaxConnections
	}
	return netutil.LimitListener(ln, maxConns), nil
}

// Serve serves on ln until ctx is done or a client calls /ipc/quit, then
// shuts down. In-flight processing is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errc := make(chan error, 1)
	go func() {
		errc <- s.app.Listener(ln)
	}()
	s.logger.Infof("listening on %s", ln.Addr())

	select {
	case err := <-errc:
		s.stop()
		return err
	case <-ctx.Done():
		s.logger.Infof("context done, shutting down")
	case <-s.quit:
		s.logger.Infof("quit requested, shutting down")
	}

	if err := s.Shutdown(); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

// Shutdown stops background work, ends event streams and closes the listener.
func (s *Server) Shutdown() error {
	s.stop()
	if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

func (s *Server) stop() {
	s.requestQuit()
	s.cancel()
	s.state.CancelProcessing()
	s.bg.Wait()
}

func (s *Server) requestQuit() {
	s.quitOnce.Do(func() { close(s.quit) })
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		s.logger.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(ErrorResponse{Error: err.Error()})
}
