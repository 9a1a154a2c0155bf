package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-quicktest/qt"
)

const sampleManifest = `
[package]
name = "widget"
version = "1.2.3"
repository = "https://example.invalid/widget.git"

[package.metadata.xtest-data]
pack-archive = "tar:gz"
pack-artifact = "https://example.invalid/dist/{name}-{version}.tar.gz"
pack-objects = "target/xtest-data"
`

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	qt.Assert(t, qt.IsNil(os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte(body), 0o644)))
	return dir
}

func TestReadParsesPackageAndMetadata(t *testing.T) {
	dir := writeManifest(t, sampleManifest)
	pkg, err := Read(dir)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(pkg.Name, "widget"))
	qt.Assert(t, qt.Equals(pkg.Version, "1.2.3"))
	qt.Assert(t, qt.Equals(pkg.Metadata.PackArchive, "tar:gz"))
	qt.Assert(t, qt.Equals(pkg.Metadata.PackObjects, "target/xtest-data"))
}

func TestReadRejectsUnknownArchiveMethod(t *testing.T) {
	dir := writeManifest(t, `
[package]
name = "widget"
version = "1.2.3"

[package.metadata.xtest-data]
pack-archive = "zip"
`)
	_, err := Read(dir)
	qt.Assert(t, qt.IsNotNil(err))
}

func TestReadRejectsUnrecognizedMetadataKey(t *testing.T) {
	dir := writeManifest(t, `
[package]
name = "widget"
version = "1.2.3"

[package.metadata.xtest-data]
pack-method = "whatever"
`)
	_, err := Read(dir)
	qt.Assert(t, qt.IsNotNil(err))
}

func TestRenderSubstitutesPackageFields(t *testing.T) {
	dir := writeManifest(t, sampleManifest)
	pkg, err := Read(dir)
	qt.Assert(t, qt.IsNil(err))

	rendered, err := pkg.Render(pkg.Metadata.PackArtifact)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(rendered, "https://example.invalid/dist/widget-1.2.3.tar.gz"))
}

func TestRenderRejectsUnknownKey(t *testing.T) {
	dir := writeManifest(t, sampleManifest)
	pkg, err := Read(dir)
	qt.Assert(t, qt.IsNil(err))

	_, err = pkg.Render("{nonexistent}")
	qt.Assert(t, qt.IsNotNil(err))
}
