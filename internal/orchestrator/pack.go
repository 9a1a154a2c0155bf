package orchestrator

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/HeroicKatora/xtest-data-go/internal/diag"
	"github.com/HeroicKatora/xtest-data-go/internal/manifest"
)

// PinFile is the VCS-info pin written alongside a packed source archive;
// see §6. Only Git.Sha1 is consumed by a resolver reading it back.
type PinFile struct {
	Git struct {
		Sha1 string `json:"sha1"`
	} `json:"git"`
	PathInVCS string `json:"path_in_vcs"`
}

// PackResult is everything the remaining passes (archive, ci) need from a
// completed pack pass.
type PackResult struct {
	Package     *manifest.Package
	Commit      string
	PackObjects string // target/xtest-data, the recording pass's output dir
	CratePath   string // target/package/<name>-<version>.crate
	PinPath     string // .xtest_vcs_info.json, written into the temporary directory
}

// Pack runs the pack pass (§4.5 step 1-5) against the source tree rooted at
// dir.
func Pack(dir string, allowDirty bool) (*PackResult, error) {
	pkg, err := manifest.Read(dir)
	if err != nil {
		return nil, err
	}

	commit, err := headCommit(dir)
	if err != nil {
		return nil, err
	}

	packObjects := filepath.Join(dir, "target", "xtest-data")
	if err := os.MkdirAll(packObjects, 0o755); err != nil {
		return nil, diag.NewInconclusive("creating pack-objects directory %s: %v", packObjects, err)
	}
	if err := runRecordingPass(dir, packObjects); err != nil {
		return nil, err
	}

	cratePath, err := packageSource(dir, pkg, allowDirty)
	if err != nil {
		return nil, err
	}

	pinPath := filepath.Join(os.TempDir(), ".xtest_vcs_info.json")
	if err := writePin(pinPath, commit); err != nil {
		return nil, err
	}

	return &PackResult{
		Package:     pkg,
		Commit:      commit,
		PackObjects: packObjects,
		CratePath:   cratePath,
		PinPath:     pinPath,
	}, nil
}

// headCommit queries `git show HEAD --oneline --summary --no-abbrev-commit`
// and takes the first whitespace-delimited token as the commit identity.
func headCommit(dir string) (string, error) {
	cmd := exec.Command("git", "show", "HEAD", "--oneline", "--summary", "--no-abbrev-commit")
	cmd.Dir = dir
	out, err := captureStdout("head-commit", cmd)
	if err != nil {
		return "", err
	}
	fields := strings.Fields(string(out))
	if len(fields) == 0 {
		return "", diag.NewInconclusive("`git show HEAD` produced no output in %s", dir)
	}
	return fields[0], nil
}

// runRecordingPass runs the caller's test suite once with
// CARGO_XTEST_DATA_PACK_OBJECTS pointing at packObjects, triggering the
// resolver's Local-mode recording branch.
func runRecordingPass(dir, packObjects string) error {
	cmd := exec.Command("cargo", "test")
	cmd.Dir = dir
	withEnv(cmd, map[string]string{"CARGO_XTEST_DATA_PACK_OBJECTS": packObjects})
	return run("recording-pass", cmd)
}

// packageSource invokes the source-packaging subcommand with
// --allow-dirty --no-verify, matching the orchestrator's own allow-dirty
// flag only when the caller explicitly opted in.
func packageSource(dir string, pkg *manifest.Package, allowDirty bool) (string, error) {
	args := []string{"package", "--no-verify"}
	if allowDirty {
		args = append(args, "--allow-dirty")
	}
	cmd := exec.Command("cargo", args...)
	cmd.Dir = dir
	if err := run("package", cmd); err != nil {
		return "", err
	}
	return filepath.Join(dir, "target", "package", fmt.Sprintf("%s-%s.crate", pkg.Name, pkg.Version)), nil
}

func writePin(path, commit string) error {
	pin := PinFile{PathInVCS: ""}
	pin.Git.Sha1 = commit
	body, err := json.Marshal(pin)
	if err != nil {
		return diag.Anchor(err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return diag.Anchor(err)
	}
	return nil
}
