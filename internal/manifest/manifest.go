// Package manifest reads the source manifest's name, version, repository
// URL, and metadata.xtest-data sub-table, and renders the brace-style
// templates that sub-table's string values may carry.
package manifest

import (
	"fmt"
	"path/filepath"

	"github.com/pelletier/go-toml"

	"github.com/HeroicKatora/xtest-data-go/internal/diag"
)

// archiveMethod is the only value accepted for pack-archive today.
const archiveMethod = "tar:gz"

// Metadata is the parsed package.metadata.xtest-data sub-table.
type Metadata struct {
	PackArchive  string
	PackArtifact string
	PackObjects  string
}

// Package is the slice of the manifest the orchestrator consumes: the
// package table flattened into a template environment, plus the optional
// xtest-data metadata sub-table.
type Package struct {
	Name       string
	Version    string
	Repository string
	Metadata   Metadata

	// env is the full package table, string-valued keys only, used as the
	// substitution environment for {name}/{version}-style templates.
	env map[string]string
}

// Read loads and parses dir/Cargo.toml-equivalent manifest. The manifest
// file name is fixed at "Cargo.toml" to match the pin file and CLI
// conventions already fixed by the external interface; only `package` and
// `package.metadata.xtest-data` are consulted.
func Read(dir string) (*Package, error) {
	path := filepath.Join(dir, "Cargo.toml")
	tree, err := toml.LoadFile(path)
	if err != nil {
		return nil, diag.NewInconclusive("reading manifest %s: %v", path, err)
	}

	pkgTree, ok := tree.Get("package").(*toml.Tree)
	if !ok {
		return nil, diag.NewInconclusive("manifest %s has no [package] table", path)
	}

	pkg := &Package{env: map[string]string{}}
	for _, key := range pkgTree.Keys() {
		if s, ok := pkgTree.Get(key).(string); ok {
			pkg.env[key] = s
		}
	}
	pkg.Name, _ = pkg.env["name"]
	pkg.Version, _ = pkg.env["version"]
	pkg.Repository, _ = pkg.env["repository"]
	if pkg.Name == "" || pkg.Version == "" {
		return nil, diag.NewInconclusive("manifest %s is missing package.name or package.version", path)
	}

	metaTree, ok := pkgTree.Get("metadata").(*toml.Tree)
	if !ok {
		return pkg, nil
	}
	xtdTree, ok := metaTree.Get("xtest-data").(*toml.Tree)
	if !ok {
		return pkg, nil
	}

	if v, ok := xtdTree.Get("pack-archive").(string); ok {
		if v != archiveMethod {
			return nil, diag.NewInconclusive("unknown pack-archive method %q (only %q is supported)", v, archiveMethod)
		}
		pkg.Metadata.PackArchive = v
	}
	if v, ok := xtdTree.Get("pack-artifact").(string); ok {
		pkg.Metadata.PackArtifact = v
	}
	if v, ok := xtdTree.Get("pack-objects").(string); ok {
		pkg.Metadata.PackObjects = v
	}
	for _, key := range xtdTree.Keys() {
		switch key {
		case "pack-archive", "pack-artifact", "pack-objects":
		default:
			return nil, diag.NewInconclusive("unrecognized key %q in package.metadata.xtest-data", key)
		}
	}

	return pkg, nil
}

// Render substitutes {key} placeholders in template against the package
// environment. An unresolved placeholder is an error: partially-rendered
// output is never returned.
func (p *Package) Render(template string) (string, error) {
	return render(template, p.env)
}

func (p *Package) String() string {
	return fmt.Sprintf("%s %s", p.Name, p.Version)
}
