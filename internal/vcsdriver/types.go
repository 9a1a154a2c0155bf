// Package vcsdriver is a typed, process-mediated interface to the external
// `git` binary: shallow clones, bare init, fetches, object packing and
// unpacking, sparse/pathspec checkouts, and tracked-file verification. It
// is stateless; each repository handle carries its own working directory
// or bare-store path.
package vcsdriver

import (
	"fmt"
	"strings"
)

// CommitID is an opaque content-addressed commit identity: a trimmed text
// token of at least 40 characters. It is constructed only from a trusted
// pin file or from a `git show HEAD` query at pack time, never derived
// from a remote or other runtime input.
type CommitID string

// ParseCommitID validates a raw token and wraps it as a CommitID.
func ParseCommitID(raw string) (CommitID, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) < 40 {
		return "", fmt.Errorf("commit id %q is shorter than 40 characters", trimmed)
	}
	return CommitID(trimmed), nil
}

func (c CommitID) String() string { return string(c) }

// Origin is a remote locator (URL or file path) accepted by `git`. It
// grants no fetch rights by itself; see Gate.
type Origin string

func (o Origin) String() string { return string(o) }

// ClearedOrigin is an Origin that has passed Gate. Only code holding one
// may call a fetching method (ShallowClone, Fetch); there is no exported
// way to build a ClearedOrigin except through Gate, so a value in scope is
// always evidence the consent gate ran.
type ClearedOrigin struct {
	origin Origin
}

func (c ClearedOrigin) String() string { return c.origin.String() }

// PathSpec is a VCS-safe path expression accepted by the driver. Literal is
// the only implementation today; callers must not depend on the exact
// rendering since the set of variants may grow.
type PathSpec interface {
	String() string
}

// Literal is a single, top-anchored, literally-interpreted path — no glob
// expansion occurs.
type Literal string

func (l Literal) String() string { return ":(top,literal)" + string(l) }

// simple reports whether a pathspec is a plain filesystem path with no
// embedded newline or NUL, i.e. safe for the fast `sparse-checkout set`
// path rather than the one-round-trip-per-path fallback.
func simple(p PathSpec) bool {
	lit, ok := p.(Literal)
	if !ok {
		return false
	}
	s := string(lit)
	return !strings.ContainsAny(s, "\n\x00")
}

// partition splits pathspecs into the simple and complex subsets used by
// Checkout's sparse/fallback-slow branches.
func partition(paths []PathSpec) (simplePaths, complexPaths []PathSpec) {
	for _, p := range paths {
		if simple(p) {
			simplePaths = append(simplePaths, p)
		} else {
			complexPaths = append(complexPaths, p)
		}
	}
	return
}
