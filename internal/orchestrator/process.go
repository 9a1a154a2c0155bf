// Package orchestrator implements the developer-side pack-and-ship tool
// (§4.5): pack, archive, test, and fetch-artifacts passes that produce and
// reproduce a ⟨source archive, VCS-info pin, sparse pack⟩ triple.
package orchestrator

import (
	"bytes"
	"os"
	"os/exec"

	"github.com/HeroicKatora/xtest-data-go/internal/diag"
)

// run executes cmd with inherited stdout (so a developer watching the
// recording pass or the re-test run sees live output) but a captured
// stderr, so a failure can still report exactly what the child wrote.
// Standard input is not connected; the child reads from the null device.
func run(op string, cmd *exec.Cmd) error {
	diag.Command(op, cmd.Dir, cmd.Args)
	var stderr bytes.Buffer
	cmd.Stdout = os.Stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return diag.NewProcessError(op, stderr.Bytes(), err)
	}
	return nil
}

// captureStdout executes cmd and returns its standard output whole.
func captureStdout(op string, cmd *exec.Cmd) ([]byte, error) {
	diag.Command(op, cmd.Dir, cmd.Args)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, diag.NewProcessError(op, stderr.Bytes(), err)
	}
	return stdout.Bytes(), nil
}

func withEnv(cmd *exec.Cmd, extra map[string]string) {
	env := os.Environ()
	for k, v := range extra {
		env = append(env, k+"="+v)
	}
	cmd.Env = env
}
