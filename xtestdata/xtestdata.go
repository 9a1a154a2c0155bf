// Package xtestdata resolves integration-test fixture paths against either
// a development working copy or a pinned VCS commit fetched on demand, so
// that a packaged source distribution's tests can depend on large binary
// fixtures without embedding them in the archive.
package xtestdata

import (
	"github.com/HeroicKatora/xtest-data-go/internal/diag"
	"github.com/HeroicKatora/xtest-data-go/internal/vcsdriver"
)

// Setup is the builder a caller's integration test constructs once at the
// top of its test binary: register every fixture path, then call Build.
type Setup struct {
	manifestDir string
	mode        Mode
	origin      string
	reg         *registry
}

// New runs mode detection (the Mode Detector, §4.3) against repositoryURL
// and manifestDir, using harnessTmpdir as the preferred object-store data
// directory if non-empty. The mode-detection variables are read exactly once
// here; later mutation of them has no effect on the returned Setup's Build.
// CARGO_XTEST_DATA_FETCH is not part of that snapshot: the consent gate
// reads it when Build runs.
func New(repositoryURL, manifestDir, harnessTmpdir string) (*Setup, error) {
	mode, origin, err := detectMode(repositoryURL, manifestDir, harnessTmpdir)
	if err != nil {
		return nil, err
	}
	return &Setup{
		manifestDir: manifestDir,
		mode:        mode,
		origin:      origin,
		reg:         newRegistry(),
	}, nil
}

// Add registers an owned relative path and returns a stable handle; the
// resolved absolute path is retrieved from FsData after Build.
func (s *Setup) Add(relative string) ResourceKey {
	return s.reg.add(relative)
}

// Borrow registers a mutable reference to the caller's own path variable,
// relative to the manifest directory. Build rewrites *target in place.
func (s *Setup) Borrow(target *string) {
	s.reg.borrow(target)
}

// FsData is the resolved map produced by Build: an ordered, append-only
// association from every registered relative path to its materialized
// absolute path. Handle indices returned by Add remain valid for the
// lifetime of the program.
type FsData struct {
	byKey      []string
	byRelative map[string]string
}

// Path looks up the resolved path for a ResourceKey returned by Add.
func (f *FsData) Path(key ResourceKey) string {
	return f.byKey[key]
}

// PathFor looks up the resolved path for any registered relative path,
// whether originally added via Add or Borrow.
func (f *FsData) PathFor(relative string) (string, bool) {
	p, ok := f.byRelative[relative]
	return p, ok
}

// Build runs the Resource Resolver (§4.4): in Local mode it verifies every
// registered path is tracked and resolves against the manifest directory;
// in Packaged mode it enforces consent (unless a pre-shipped pack-objects
// directory was supplied), materializes a sparse worktree at the pinned
// commit, and resolves against that worktree. Every unmanaged (borrowed)
// path is rewritten in place before Build returns.
//
// Build aborts the process on any failure: there is no partial-success
// return, matching the one-shot build/test nature of the system.
func (s *Setup) Build() *FsData {
	data, err := s.build()
	if err != nil {
		diag.Abort(err)
		panic("unreachable: diag.Abort terminates the process")
	}
	return data
}

func (s *Setup) build() (*FsData, error) {
	if s.reg.empty() {
		return &FsData{byRelative: map[string]string{}}, nil
	}

	git, err := vcsdriver.New()
	if err != nil {
		return nil, err
	}

	resolved, err := resolve(git, s.mode, s.origin, s.manifestDir, s.reg)
	if err != nil {
		return nil, err
	}

	data := &FsData{
		byKey:      make([]string, len(s.reg.managed)),
		byRelative: resolved,
	}
	for i, entry := range s.reg.managed {
		data.byKey[i] = resolved[entry.relative]
	}
	for _, entry := range s.reg.unmanaged {
		*entry.target = resolved[entry.relative]
	}
	return data, nil
}
