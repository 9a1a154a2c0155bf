package orchestrator

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/HeroicKatora/xtest-data-go/internal/diag"
)

// syntheticManifestBody is the minimal workspace manifest written alongside an
// extracted crate, so that the crate's own tests are never accidentally
// absorbed into whatever outer workspace happens to contain tmpRoot.
const syntheticManifestBody = `[workspace]
members = ["%s"]
`

// RunTestPass extracts cratePath into a fresh temporary root and reproduces
// a downstream test run against it (§4.5 test pass). pinOverride, if
// non-empty, is a developer-side pin path exported as CARGO_XTEST_VCS_INFO,
// taking precedence over whatever pin shipped inside the crate.
func RunTestPass(cratePath, pinOverride string) (string, error) {
	tmpRoot, err := os.MkdirTemp("", "xtest-data-test-")
	if err != nil {
		return "", diag.Anchor(err)
	}

	extractDir := filepath.Join(tmpRoot, "extracted")
	if err := extractCrateArchive(cratePath, extractDir); err != nil {
		return "", err
	}

	crateName := firstEntry(extractDir)
	if crateName == "" {
		return "", diag.NewInconclusive("crate archive %s extracted to an empty directory", cratePath)
	}
	manifestPath := filepath.Join(tmpRoot, "Cargo.toml")
	body := fmt.Sprintf(syntheticManifestBody, "extracted/"+crateName)
	if err := os.WriteFile(manifestPath, []byte(body), 0o644); err != nil {
		return "", diag.Anchor(err)
	}

	packObjects := filepath.Join(tmpRoot, "pack-objects")

	cmd := exec.Command("cargo", "test", "--no-fail-fast", "--release", "--", "--nocapture")
	cmd.Dir = tmpRoot
	env := map[string]string{
		"CARGO_XTEST_DATA_TMPDIR":       tmpRoot,
		"CARGO_XTEST_DATA_PACK_OBJECTS": packObjects,
	}
	if pinOverride != "" {
		env["CARGO_XTEST_VCS_INFO"] = pinOverride
	}
	withEnv(cmd, env)
	if err := run("test-pass", cmd); err != nil {
		return "", err
	}
	return tmpRoot, nil
}

func firstEntry(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) == 0 {
		return ""
	}
	return entries[0].Name()
}

// extractCrateArchive dispatches on whether cratePath is a directory: a
// .crate file is itself a tar+gzip archive (Cargo's own convention), while a
// plain directory is copied into destDir directly, useful for reproducing a
// test pass against an unpacked artifact during development.
func extractCrateArchive(cratePath, destDir string) error {
	info, err := os.Stat(cratePath)
	if err != nil {
		return diag.NewInconclusive("crate path %s: %v", cratePath, err)
	}
	if info.IsDir() {
		return copyIntoWorkspace(cratePath, destDir)
	}
	return Unarchive(cratePath, destDir)
}
