package screenshot

import (
	"errors"
	"fmt"

	"github.com/entrhq/wingman/pkg/security/pathguard"
)

var (
	// ErrInvalidPath marks a path that resolves outside the managed directories.
	ErrInvalidPath = pathguard.ErrInvalidPath

	// ErrCaptureBackend marks a failure of the underlying screen capture.
	ErrCaptureBackend = errors.New("capture backend failed")

	// ErrFileIO marks a read, write or delete failure on an already validated path.
	ErrFileIO = errors.New("file I/O failed")

	// ErrRead is the read-specific kind of ErrFileIO.
	ErrRead = errors.New("read failed")
)

// FileError records a filesystem failure on a managed path.
// errors.Is matches it against ErrFileIO, and against ErrRead for reads.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Is implements the errors.Is hook.
func (e *FileError) Is(target error) bool {
	switch target {
	case ErrFileIO:
		return true
	case ErrRead:
		return e.Op == "read"
	}
	return false
}

// Result is the structured outcome of operations that must not fail loudly.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Failure builds an unsuccessful Result carrying err's message.
func Failure(err error) Result {
	if err == nil {
		return Result{Success: false, Error: "unknown error"}
	}
	return Result{Success: false, Error: err.Error()}
}

// reportErr is the user-facing path: the failure is logged and handed back so
// the caller surfaces it.
func (m *Manager) reportErr(op string, err error) error {
	m.logger.Errorf("%s: %v", op, err)
	return err
}

// logAndContinue is the maintenance path: the failure is logged and dropped.
func (m *Manager) logAndContinue(op string, err error) {
	if err == nil {
		return
	}
	m.logger.Warnf("%s (continuing): %v", op, err)
}
