package xtestdata

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/HeroicKatora/xtest-data-go/internal/diag"
	"github.com/HeroicKatora/xtest-data-go/internal/vcsdriver"
)

// resolve runs the finalization state machine (§4.4): Local mode resolves
// every registered path against the manifest directory directly; Packaged
// mode materializes a sparse worktree from the pinned commit and resolves
// against that instead. It returns the resolved path for every distinct
// registered relative path, keyed the same way registry.relatives is
// ordered.
func resolve(git *vcsdriver.Git, mode Mode, origin string, manifestDir string, reg *registry) (map[string]string, error) {
	specs := reg.pathspecs()
	relatives := reg.relatives()

	if !mode.IsPackaged {
		return resolveLocal(git, manifestDir, relatives, specs, mode)
	}
	return resolvePackaged(git, mode, origin, relatives, specs)
}

func resolveLocal(git *vcsdriver.Git, manifestDir string, relatives []string, specs []vcsdriver.PathSpec, mode Mode) (map[string]string, error) {
	crate, err := vcsdriver.NewCrateDir(git, manifestDir)
	if err != nil {
		return nil, err
	}
	if err := crate.Tracked(specs); err != nil {
		return nil, err
	}

	if mode.PackObjects != "" {
		if err := crate.PackObjects(specs, mode.PackObjects); err != nil {
			return nil, err
		}
	}

	resolved := make(map[string]string, len(relatives))
	for _, rel := range relatives {
		resolved[rel] = filepath.Join(manifestDir, rel)
	}
	return resolved, nil
}

func resolvePackaged(git *vcsdriver.Git, mode Mode, originStr string, relatives []string, specs []vcsdriver.PathSpec) (map[string]string, error) {
	storePath := filepath.Join(mode.DataDir, "xtest-data-git")
	worktree, err := allocateWorktree(mode.DataDir)
	if err != nil {
		return nil, err
	}

	var bare *vcsdriver.BareRepository
	if mode.PackObjects != "" {
		bare, err = vcsdriver.BareInit(git, storePath, mode.Commit)
		if err != nil {
			return nil, err
		}
		if err := bare.Unpack(mode.PackObjects); err != nil {
			return nil, err
		}
	} else {
		origin := vcsdriver.Origin(originStr)
		plan := vcsdriver.Plan{
			Store:       storePath,
			Origin:      origin,
			Commit:      mode.Commit,
			Destination: worktree,
			Resources:   specs,
		}
		cleared, err := vcsdriver.Gate(origin, plan)
		if err != nil {
			return nil, err
		}
		bare, err = vcsdriver.ShallowClone(git, storePath, cleared)
		if err != nil {
			return nil, err
		}
		if err := bare.Fetch(cleared, mode.Commit); err != nil {
			return nil, err
		}
	}

	if err := bare.Checkout(worktree, mode.Commit, specs); err != nil {
		return nil, err
	}

	resolved := make(map[string]string, len(relatives))
	for _, rel := range relatives {
		resolved[rel] = filepath.Join(worktree, rel)
	}
	return resolved, nil
}

// allocateWorktree picks a fresh xtest-data-tree-<hex> directory under
// dataDir, retrying on name collision, mirroring the PRNG-suffix design
// that avoids a TOCTOU between name selection and directory creation.
func allocateWorktree(dataDir string) (string, error) {
	for attempt := 0; attempt < 64; attempt++ {
		suffix := randomHex16()
		candidate := filepath.Join(dataDir, fmt.Sprintf("xtest-data-tree-%s", suffix))
		if err := os.Mkdir(candidate, 0o755); err != nil {
			if os.IsExist(err) {
				continue
			}
			return "", diag.NewInconclusive("creating worktree directory %s: %v", candidate, err)
		}
		return candidate, nil
	}
	return "", diag.NewInconclusive("could not allocate a unique worktree directory under %s after 64 attempts", dataDir)
}

func randomHex16() string {
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, 16)
	for i := range buf {
		buf[i] = hexDigits[rand.Intn(len(hexDigits))]
	}
	return string(buf)
}
