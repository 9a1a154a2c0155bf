// Package diag implements the three error kinds of the resolver and
// orchestrator's error-handling design: inconclusive preconditions, child
// process failures, and located I/O errors. All three are process-level
// aborts; nothing here attempts local recovery.
package diag

import (
	"fmt"
	"runtime"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Inconclusive is a precondition failure that prevents the test from
// running at all: downstream runners must treat this as "did not run",
// never as "failed".
type Inconclusive struct {
	Reason string
}

func (i *Inconclusive) Error() string { return i.Reason }

// NewInconclusive builds an Inconclusive from a formatted reason.
func NewInconclusive(format string, args ...interface{}) *Inconclusive {
	return &Inconclusive{Reason: fmt.Sprintf(format, args...)}
}

// ProcessError wraps a non-zero child process exit, carrying whatever the
// child wrote to standard error.
type ProcessError struct {
	Op     string
	Stderr []byte
	Err    error
}

func (p *ProcessError) Error() string {
	if len(p.Stderr) == 0 {
		return fmt.Sprintf("%s: %v", p.Op, p.Err)
	}
	return fmt.Sprintf("%s: %v\n%s", p.Op, p.Err, p.Stderr)
}

func (p *ProcessError) Unwrap() error { return p.Err }

// NewProcessError anchors a stack trace onto the wrapped error so later
// located diagnostics still point somewhere useful.
func NewProcessError(op string, stderr []byte, err error) *ProcessError {
	return &ProcessError{Op: op, Stderr: stderr, Err: errors.WithStack(err)}
}

// LocatedError anchors a host I/O failure to the source file/line at which
// it was observed, mirroring the teacher's `#[track_caller]` convention
// from the original Rust `anchor_error` helper.
type LocatedError struct {
	File string
	Line int
	Err  error
}

func (l *LocatedError) Error() string {
	return fmt.Sprintf("%s:%d: %v", l.File, l.Line, l.Err)
}

func (l *LocatedError) Unwrap() error { return l.Err }

// Anchor wraps err with the caller's source location. Call it directly at
// the I/O call site so the location is meaningful: the recorded location is
// always Anchor's direct caller.
func Anchor(err error) error {
	if err == nil {
		return nil
	}
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		return errors.WithStack(err)
	}
	return &LocatedError{File: file, Line: line, Err: errors.WithStack(err)}
}

// Abort writes a final diagnostic and terminates the process. It is the
// only place in the module that calls os.Exit/logrus.Fatal outside of
// cmd/xtestdata-pack's own top-level error handling.
func Abort(err error) {
	logrus.WithError(err).Fatal("xtest-data failed to setup")
}
