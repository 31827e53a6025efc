package capture

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// DefaultCommandTimeout bounds how long an external capture tool may run.
const DefaultCommandTimeout = 15 * time.Second

// CommandBackend shells out to a platform screenshot tool. Args may contain the
// placeholder "{dest}", which is replaced with the destination path.
type CommandBackend struct {
	name    string
	program string
	args    []string
	timeout time.Duration
}

// NewCommandBackend creates a backend running program with args.
func NewCommandBackend(name, program string, args ...string) *CommandBackend {
	return &CommandBackend{
		name:    name,
		program: program,
		args:    args,
		timeout: DefaultCommandTimeout,
	}
}

// DefaultCommandBackends returns the known tools for the current OS, in preference order.
func DefaultCommandBackends() []Backend {
	switch runtime.GOOS {
	case "darwin":
		return []Backend{
			NewCommandBackend("screencapture", "screencapture", "-x", "-t", "png", "{dest}"),
		}
	case "linux", "freebsd", "openbsd":
		return []Backend{
			NewCommandBackend("grim", "grim", "{dest}"),
			NewCommandBackend("gnome-screenshot", "gnome-screenshot", "-f", "{dest}"),
			NewCommandBackend("import", "import", "-window", "root", "{dest}"),
		}
	default:
		return nil
	}
}

// Name implements Backend.
func (b *CommandBackend) Name() string { return b.name }

// Available implements Backend.
func (b *CommandBackend) Available() bool {
	_, err := exec.LookPath(b.program)
	return err == nil
}

// Capture implements Backend.
func (b *CommandBackend) Capture(ctx context.Context, dest string) error {
	execCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	args := make([]string, len(b.args))
	for i, arg := range b.args {
		args[i] = strings.ReplaceAll(arg, "{dest}", dest)
	}

	cmd := exec.CommandContext(execCtx, b.program, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if execCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%s timed out after %s", b.program, b.timeout)
		}
		return fmt.Errorf("%s failed: %w: %s", b.program, err, strings.TrimSpace(stderr.String()))
	}

	// Some tools exit 0 when the user cancels or the compositor refuses.
	info, err := os.Stat(dest)
	if err != nil {
		return fmt.Errorf("%s produced no file: %w", b.program, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%s produced an empty file", b.program)
	}
	return nil
}
