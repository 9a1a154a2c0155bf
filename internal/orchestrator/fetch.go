package orchestrator

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/HeroicKatora/xtest-data-go/internal/diag"
	"github.com/HeroicKatora/xtest-data-go/internal/manifest"
)

// FetchArtifacts implements the fetch-artifacts subcommand: given a crate
// path, resolve its pack-artifact URL (reading the crate's own manifest
// unless artifactURL is supplied directly), download it if not already
// present under outputDir, and unpack it into a pack-objects directory,
// returning that directory's path. This is a two-step download-then-unpack
// flow, matching how the original Rust xtask fetched a `_vcs_file.tar.gz`
// artifact before unpacking it.
func FetchArtifacts(crateDir, artifactURL, outputDir string) (string, error) {
	if outputDir == "" {
		var err error
		outputDir, err = os.MkdirTemp("", "xtest-data-fetch-")
		if err != nil {
			return "", diag.Anchor(err)
		}
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", diag.NewInconclusive("creating fetch-artifacts output directory %s: %v", outputDir, err)
	}

	if artifactURL == "" {
		pkg, err := manifest.Read(crateDir)
		if err != nil {
			return "", err
		}
		if pkg.Metadata.PackArtifact == "" {
			return "", diag.NewInconclusive("manifest %s declares no package.metadata.xtest-data.pack-artifact", crateDir)
		}
		artifactURL, err = pkg.Render(pkg.Metadata.PackArtifact)
		if err != nil {
			return "", err
		}
	}

	archivePath := filepath.Join(outputDir, "artifact.tar.gz")
	if _, err := os.Stat(archivePath); err != nil {
		if !os.IsNotExist(err) {
			return "", diag.NewInconclusive("stat %s: %v", archivePath, err)
		}
		if err := download(artifactURL, archivePath); err != nil {
			return "", err
		}
	}

	packObjects := filepath.Join(outputDir, "pack-objects")
	if err := Unarchive(archivePath, packObjects); err != nil {
		return "", err
	}
	return packObjects, nil
}

func download(url, dest string) error {
	client := retryablehttp.NewClient()
	client.Logger = nil

	resp, err := client.Get(url)
	if err != nil {
		return diag.NewInconclusive("fetching artifact %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return diag.NewInconclusive("fetching artifact %s: unexpected status %s", url, resp.Status)
	}

	f, err := os.Create(dest)
	if err != nil {
		return diag.Anchor(err)
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		return diag.Anchor(err)
	}
	return nil
}

