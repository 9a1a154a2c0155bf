package vcsdriver

import (
	"fmt"
	"os"
	"strings"

	"github.com/HeroicKatora/xtest-data-go/internal/diag"
)

// consentEnvVar is read once per Gate call; callers needing a single
// snapshot per Setup should cache the Gate result rather than re-invoking.
const consentEnvVar = "CARGO_XTEST_DATA_FETCH"

// Plan describes the network operation Gate is about to perform, used both
// to render the abort diagnostic and (on success) to log what is about to
// happen.
type Plan struct {
	Store       string
	Origin      Origin
	Commit      CommitID
	Destination string
	Resources   []PathSpec
}

func (p Plan) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "xtest-data wants to fetch test data over the network:\n")
	fmt.Fprintf(&b, "  object store:  %s\n", p.Store)
	fmt.Fprintf(&b, "  origin:        %s\n", p.Origin)
	fmt.Fprintf(&b, "  commit:        %s\n", p.Commit)
	fmt.Fprintf(&b, "  destination:   %s\n", p.Destination)
	fmt.Fprintf(&b, "  resources:\n")
	for _, r := range p.Resources {
		fmt.Fprintf(&b, "    - %s\n", r)
	}
	fmt.Fprintf(&b, "Set %s=yes to allow this.\n", consentEnvVar)
	return b.String()
}

// Gate reads CARGO_XTEST_DATA_FETCH and produces a ClearedOrigin only on an
// accepting value (case-sensitive "yes", "1", or "true"). Any other value,
// including absent or non-unicode, writes plan to the diagnostic stream and
// aborts: no fetch may occur without a ClearedOrigin in scope, and this is
// the only function that can produce one.
func Gate(origin Origin, plan Plan) (ClearedOrigin, error) {
	value, ok := os.LookupEnv(consentEnvVar)
	if !ok || (value != "yes" && value != "1" && value != "true") {
		diag.Logger.Info(plan.String())
		return ClearedOrigin{}, diag.NewInconclusive("network fetch consent was not granted (set %s=yes)", consentEnvVar)
	}
	return ClearedOrigin{origin: origin}, nil
}
