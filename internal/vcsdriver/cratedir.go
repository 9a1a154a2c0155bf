package vcsdriver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/HeroicKatora/xtest-data-go/internal/diag"
)

// CrateDir is a working copy at Path. Operations run with Path as the
// current directory, matching the Local-mode branch of the resolver.
type CrateDir struct {
	git  *Git
	Path string
}

// NewCrateDir verifies that Path is a valid git working copy by invoking a
// trivial status query, and aborts (returns an Inconclusive) on failure.
func NewCrateDir(git *Git, path string) (*CrateDir, error) {
	cd := &CrateDir{git: git, Path: path}
	cmd := cd.runner().command("status-probe", "rev-parse", "--is-inside-work-tree")
	if err := run("status-probe", cmd); err != nil {
		return nil, diag.NewInconclusive("%s is not a git working copy: %v", path, err)
	}
	return cd, nil
}

func (cd *CrateDir) runner() *runner {
	return &runner{git: cd.git, dir: cd.Path, args: func() []string { return nil }}
}

// Tracked verifies that every given pathspec refers to a tracked file.
// Ignored (`!`) or untracked (`?`) entries abort before any network
// operation occurs. An empty pathspec set is a no-op.
func (cd *CrateDir) Tracked(paths []PathSpec) error {
	if len(paths) == 0 {
		return nil
	}
	args := []string{"status", "--no-renames", "--ignored=matching", "--porcelain=v2", "--short", "-z", "--"}
	for _, p := range paths {
		args = append(args, p.String())
	}
	out, err := captureStdout("status", cd.runner().command("status", args...))
	if err != nil {
		return err
	}
	for _, item := range strings.Split(string(out), "\x00") {
		if item == "" {
			continue
		}
		switch {
		case strings.HasPrefix(item, "!"):
			return diag.NewInconclusive("your test depends on ignored file(s): %s", item)
		case strings.HasPrefix(item, "?"):
			return diag.NewInconclusive("your test depends on untracked file(s): %s", item)
		}
	}
	return nil
}

// PackObjects computes the stable sparse-oid for paths and packs exactly
// the objects reachable from HEAD through them (plus the tree skeleton
// needed to reach them), writing packs as <outputDir>/xtest-data-<hash>.pack
// (with matching .idx files). This
// is the recording-pass branch used by the pack orchestrator.
func (cd *CrateDir) PackObjects(paths []PathSpec, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return diag.NewInconclusive("creating pack-objects output directory %s: %v", outputDir, err)
	}

	var nulList bytes.Buffer
	for _, p := range paths {
		nulList.WriteString(p.String())
		nulList.WriteByte(0)
	}

	oidOut, err := feedStdin("hash-object", cd.runner().command("hash-object", "hash-object", "--stdin"), nulList.Bytes())
	if err != nil {
		return err
	}
	oid := strings.TrimSpace(string(oidOut))

	sparse, err := cd.revList(fmt.Sprintf("--filter=sparse:oid=%s", oid))
	if err != nil {
		return err
	}
	skeleton, err := cd.revList("--filter=blob:none")
	if err != nil {
		return err
	}

	var combined bytes.Buffer
	combined.Write(sparse)
	combined.Write(skeleton)

	base := filepath.Join(outputDir, "xtest-data")
	_, err = feedStdin("pack-objects", cd.runner().command("pack-objects", "pack-objects", "--incremental", base), combined.Bytes())
	return err
}

func (cd *CrateDir) revList(filter string) ([]byte, error) {
	return captureStdout("rev-list", cd.runner().command("rev-list",
		"rev-list", "-n", "1", "--objects", "--no-object-names", filter, "HEAD"))
}
