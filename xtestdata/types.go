// Package xtestdata resolves integration-test fixture paths against either
// a development working copy or a pinned VCS commit fetched on demand.
package xtestdata

import (
	"github.com/HeroicKatora/xtest-data-go/internal/vcsdriver"
)

// CommitID is an opaque content-addressed commit identity, re-exported from
// the VCS driver so callers never need to import internal/vcsdriver
// directly.
type CommitID = vcsdriver.CommitID

// ParseCommitID validates and constructs a CommitID from a pin file value.
func ParseCommitID(raw string) (CommitID, error) { return vcsdriver.ParseCommitID(raw) }

// Origin is a remote locator (URL or local path) accepted by the VCS binary.
// It becomes usable for network operations only once cleared by the
// consent gate; see ClearedOrigin.
type Origin = vcsdriver.Origin

// ClearedOrigin is an Origin that has passed the consent gate. Only code
// holding one may trigger a network fetch; there is no exported way to
// build one except through the gate itself.
type ClearedOrigin = vcsdriver.ClearedOrigin

// PathSpec is a VCS-safe path expression. Literal is the only implementation
// today; callers must not depend on a particular textual rendering since the
// set of variants may grow.
type PathSpec = vcsdriver.PathSpec

// Literal is a single, top-anchored, literally-interpreted path: no glob
// expansion occurs.
type Literal = vcsdriver.Literal

// ResourceKey is an opaque handle returned by registration. It resolves to a
// concrete filesystem path only after Setup's Build has run.
type ResourceKey int
