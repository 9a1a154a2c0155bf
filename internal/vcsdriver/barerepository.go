package vcsdriver

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/HeroicKatora/xtest-data-go/internal/diag"
	"github.com/HeroicKatora/xtest-data-go/internal/filelock"
)

// plainCommand builds a one-off *exec.Cmd for operations that run before a
// handle's fixed argument prefix applies (bare-init, and the clone/probe
// that decide whether a BareRepository handle even exists yet).
func plainCommand(git *Git, op string, args ...string) *exec.Cmd {
	diag.Command(op, "", args)
	return exec.Command(git.bin, args...)
}

// BareRepository is a bare object store at Path; operations reference it
// with an explicit --git-dir flag rather than a current-directory change.
type BareRepository struct {
	git  *Git
	Path string
}

func (br *BareRepository) runner() *runner {
	path := br.Path
	return &runner{git: br.git, args: func() []string { return []string{"--git-dir", path} }}
}

// lockDir is the directory whose sibling xtest-data.lock serializes every
// store-mutating operation against concurrent resolver invocations.
func lockDir(storePath string) string { return filepath.Dir(storePath) }

// BareInit creates an empty bare store at path with no network access and
// pins commit as its shallow boundary, so subsequent operations treat that
// single commit as the shallow history horizon.
func BareInit(git *Git, path string, commit CommitID) (*BareRepository, error) {
	br := &BareRepository{git: git, Path: path}
	err := filelock.WithLock(lockDir(path), func() error {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return diag.NewInconclusive("creating bare store %s: %v", path, err)
		}
		if err := run("init", plainCommand(git, "init", "init", "--bare", "--quiet", path)); err != nil {
			return err
		}
		shallow := filepath.Join(path, "shallow")
		return os.WriteFile(shallow, []byte(commit.String()+"\n"), 0o644)
	})
	if err != nil {
		return nil, err
	}
	return br, nil
}

// ShallowClone prepares path as a shallow clone of origin if it does not
// yet exist, otherwise probes the existing store for validity. Guarded by
// the data-directory advisory lock.
func ShallowClone(git *Git, path string, origin ClearedOrigin) (*BareRepository, error) {
	br := &BareRepository{git: git, Path: path}
	err := filelock.WithLock(lockDir(path), func() error {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			cmd := plainCommand(git, "clone", "clone", "--bare", "--no-checkout", "--filter=blob:none", "--depth=1", "--", origin.String(), path)
			return run("clone", cmd)
		}
		return run("symbolic-ref", plainCommand(git, "symbolic-ref", "--git-dir", path, "symbolic-ref", "HEAD"))
	})
	if err != nil {
		return nil, err
	}
	return br, nil
}

// Fetch retrieves exactly commit from origin into the bare store.
func (br *BareRepository) Fetch(origin ClearedOrigin, commit CommitID) error {
	return filelock.WithLock(lockDir(br.Path), func() error {
		cmd := br.runner().command("fetch", "fetch", "--filter=blob:none", "--depth=1", origin.String(), commit.String())
		return run("fetch", cmd)
	})
}

// Unpack streams every `*pack` file in dir into the store via
// unpack-objects.
func (br *BareRepository) Unpack(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return diag.NewInconclusive("reading pre-shipped pack-objects directory %s: %v", dir, err)
	}
	return filelock.WithLock(lockDir(br.Path), func() error {
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".pack" {
				continue
			}
			f, err := os.Open(filepath.Join(dir, entry.Name()))
			if err != nil {
				return diag.NewInconclusive("opening pack file %s: %v", entry.Name(), err)
			}
			err = func() error {
				defer f.Close()
				cmd := br.runner().command("unpack-objects", "unpack-objects")
				cmd.Stdin = f
				return run("unpack-objects", cmd)
			}()
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Checkout materializes paths from commit into worktree. Simple pathspecs
// go through the fast sparse-checkout path; complex ones (embedded
// newline/NUL) always go through the fallback-slow path. If sparse setup
// itself fails, the full union falls back to the slow path.
func (br *BareRepository) Checkout(worktree string, commit CommitID, paths []PathSpec) error {
	return filelock.WithLock(lockDir(br.Path), func() error {
		addCmd := br.runner().command("worktree-add", "worktree", "add", "--no-checkout", worktree, commit.String())
		if err := run("worktree-add", addCmd); err != nil {
			return err
		}

		simplePaths, complexPaths := partition(paths)

		worktreeRunner := &runner{
			git:  br.git,
			dir:  "",
			args: func() []string { return []string{"--git-dir", br.Path, "--work-tree", worktree} },
		}

		sparseFailed := false
		if len(simplePaths) > 0 {
			var lines []byte
			for _, p := range simplePaths {
				lines = append(lines, []byte(string(p.(Literal))+"\n")...)
			}
			setCmd := worktreeRunner.command("sparse-checkout-set", "sparse-checkout", "set", "--stdin")
			if _, err := feedStdin("sparse-checkout-set", setCmd, lines); err != nil {
				sparseFailed = true
			} else {
				checkoutCmd := worktreeRunner.command("checkout", "checkout", "--force", commit.String())
				if err := run("checkout", checkoutCmd); err != nil {
					sparseFailed = true
				}
			}
		}

		fallback := complexPaths
		if sparseFailed {
			fallback = append(append([]PathSpec{}, simplePaths...), complexPaths...)
		}
		if len(fallback) == 0 {
			return nil
		}
		return fallbackCheckout(worktreeRunner, commit, fallback)
	})
}

// fallbackCheckout is the slow path: one invocation, NUL-delimited
// pathspecs on standard input. Some git versions trigger one remote round
// trip per pathspec here; the design does not attempt to batch that away.
func fallbackCheckout(r *runner, commit CommitID, paths []PathSpec) error {
	var nulList []byte
	for _, p := range paths {
		nulList = append(nulList, []byte(p.String())...)
		nulList = append(nulList, 0)
	}
	cmd := r.command("checkout-fallback", "checkout", "--no-guess", "--force",
		"--pathspec-from-file=-", "--pathspec-file-nul", commit.String())
	_, err := feedStdin("checkout-fallback", cmd, nulList)
	return err
}

