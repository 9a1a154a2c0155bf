package orchestrator

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"

	shutil "github.com/termie/go-shutil"

	"github.com/HeroicKatora/xtest-data-go/internal/diag"
)

// Archive encodes the pack-objects directory as <tmpDir>/artifact.tar.gz,
// the only archive method the manifest's pack-archive key may currently
// select (tar:gz).
func Archive(packObjectsDir, tmpDir string) (string, error) {
	out := filepath.Join(tmpDir, "artifact.tar.gz")
	f, err := os.Create(out)
	if err != nil {
		return "", diag.Anchor(err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	defer gz.Close()
	tw := tar.NewWriter(gz)
	defer tw.Close()

	err = filepath.Walk(packObjectsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(packObjectsDir, path)
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = rel
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(tw, src)
		return err
	})
	if err != nil {
		return "", diag.Anchor(err)
	}
	return out, nil
}

// Unarchive is Archive's inverse: extract archivePath's tar+gzip contents
// into destDir, which is created if absent.
func Unarchive(archivePath, destDir string) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return diag.Anchor(err)
	}
	f, err := os.Open(archivePath)
	if err != nil {
		return diag.Anchor(err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return diag.Anchor(err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return diag.Anchor(err)
		}
		target := filepath.Join(destDir, hdr.Name)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return diag.Anchor(err)
		}
		out, err := os.Create(target)
		if err != nil {
			return diag.Anchor(err)
		}
		if _, err := io.Copy(out, tr); err != nil {
			out.Close()
			return diag.Anchor(err)
		}
		out.Close()
	}
}

// copyIntoWorkspace stages an extracted crate directory into a synthetic
// workspace root, the same directory-copy idiom the teacher uses to
// restore preservation sets around a reparented tree.
func copyIntoWorkspace(crateDir, workspaceRoot string) error {
	dst := filepath.Join(workspaceRoot, filepath.Base(crateDir))
	if err := shutil.CopyTree(crateDir, dst, nil); err != nil {
		return diag.Anchor(err)
	}
	return nil
}
