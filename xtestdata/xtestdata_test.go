package xtestdata

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/go-quicktest/qt"
)

// initGitRepo creates an empty throwaway working copy at dir with a commit
// identity configured; callers add and commit their own fixture files.
func initGitRepo(t *testing.T, dir string) {
	t.Helper()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		qt.Assert(t, qt.IsNil(err), qt.Commentf("git %v: %s", args, out))
	}
	run("init", "--quiet")
	run("config", "user.email", "test@example.invalid")
	run("config", "user.name", "xtest-data")
}

func TestLocalModeResolvesTrackedFile(t *testing.T) {
	dir := t.TempDir()
	initGitRepo(t, dir)

	qt.Assert(t, qt.IsNil(os.MkdirAll(filepath.Join(dir, "tests"), 0o755)))
	fixture := filepath.Join(dir, "tests", "data.zip")
	qt.Assert(t, qt.IsNil(os.WriteFile(fixture, []byte("fixture bytes"), 0o644)))

	add := exec.Command("git", "add", "tests/data.zip")
	add.Dir = dir
	qt.Assert(t, qt.IsNil(add.Run()))
	commit := exec.Command("git", "commit", "--quiet", "-m", "add fixture")
	commit.Dir = dir
	qt.Assert(t, qt.IsNil(commit.Run()))

	setup, err := New("https://example.invalid/repo.git", dir, "")
	qt.Assert(t, qt.IsNil(err))

	key := setup.Add("tests/data.zip")
	data := setup.Build()

	qt.Assert(t, qt.Equals(data.Path(key), filepath.Join(dir, "tests/data.zip")))
}

func TestLocalModeAbortsOnUntrackedFile(t *testing.T) {
	dir := t.TempDir()
	initGitRepo(t, dir)

	qt.Assert(t, qt.IsNil(os.MkdirAll(filepath.Join(dir, "tests"), 0o755)))
	fixture := filepath.Join(dir, "tests", "data.zip")
	qt.Assert(t, qt.IsNil(os.WriteFile(fixture, []byte("fixture bytes"), 0o644)))

	setup, err := New("https://example.invalid/repo.git", dir, "")
	qt.Assert(t, qt.IsNil(err))
	setup.Add("tests/data.zip")

	_, buildErr := setup.build()
	qt.Assert(t, qt.IsNotNil(buildErr))
	qt.Assert(t, qt.StringContains(buildErr.Error(), "untracked"))
}

func TestNewAbortsOnEmptyOrigin(t *testing.T) {
	_, err := New("", t.TempDir(), "")
	qt.Assert(t, qt.IsNotNil(err))
}

func TestNewHonorsRepositoryOriginOverride(t *testing.T) {
	t.Setenv("CARGO_XTEST_DATA_REPOSITORY_ORIGIN", "https://example.invalid/override.git")
	dir := t.TempDir()
	setup, err := New("https://example.invalid/original.git", dir, "")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(setup.origin, "https://example.invalid/override.git"))
}

func TestBuildWithNoRegisteredResourcesIsNoop(t *testing.T) {
	dir := t.TempDir()
	setup, err := New("https://example.invalid/repo.git", dir, "")
	qt.Assert(t, qt.IsNil(err))
	data := setup.Build()
	_, ok := data.PathFor("anything")
	qt.Assert(t, qt.IsFalse(ok))
}
