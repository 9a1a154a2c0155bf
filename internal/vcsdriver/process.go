package vcsdriver

import (
	"bytes"
	"io"
	"os/exec"

	"github.com/HeroicKatora/xtest-data-go/internal/diag"
)

// Git locates the `git` binary once; all repository handles share it.
type Git struct {
	bin string
}

// New locates `git` on PATH. Absence is an inconclusive precondition
// failure, not a process failure, since no child was ever spawned.
func New() (*Git, error) {
	bin, err := exec.LookPath("git")
	if err != nil {
		return nil, diag.NewInconclusive("no `git` binary found on PATH: %v", err)
	}
	return &Git{bin: bin}, nil
}

// runner builds *exec.Command instances rooted at either a working
// directory (CrateDir) or a bare store (BareRepository). Child standard
// output is muted by default, mirroring the Rust driver's `Stdio::null()`
// default, overridden only by operations that must capture it.
type runner struct {
	git  *Git
	args func() []string // leading args fixed per-handle, e.g. --git-dir <path>
	dir  string           // non-empty only for CrateDir (current-dir form)
}

func (r *runner) command(op string, args ...string) *exec.Cmd {
	full := append(r.args(), args...)
	diag.Command(op, r.dir, full)
	cmd := exec.Command(r.git.bin, full...)
	if r.dir != "" {
		cmd.Dir = r.dir
	}
	return cmd
}

// run executes cmd, muting stdout to the null device and capturing stderr
// into an in-memory buffer so a failure can be reported without letting child
// noise contaminate the calling test harness's own output.
func run(op string, cmd *exec.Cmd) error {
	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return diag.NewProcessError(op, stderr.Bytes(), err)
	}
	return nil
}

// captureStdout executes cmd and returns its standard output whole; stderr
// is still captured for diagnostics on failure.
func captureStdout(op string, cmd *exec.Cmd) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, diag.NewProcessError(op, stderr.Bytes(), err)
	}
	return stdout.Bytes(), nil
}

// feedStdin executes cmd, writing input to its standard input and
// returning standard output whole, used for the hash-object/pack-objects
// pipeline and the sparse-checkout/fallback-checkout input streams.
func feedStdin(op string, cmd *exec.Cmd, input []byte) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, diag.NewProcessError(op, stderr.Bytes(), err)
	}
	return stdout.Bytes(), nil
}
