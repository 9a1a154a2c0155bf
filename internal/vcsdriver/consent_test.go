package vcsdriver

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestGateRejectsWithoutConsent(t *testing.T) {
	t.Setenv(consentEnvVar, "")
	t.Setenv(consentEnvVar, "") // ensure present-but-empty is also rejected
	_, err := Gate(Origin("https://example.invalid/repo.git"), Plan{
		Store:       "/tmp/store",
		Origin:      Origin("https://example.invalid/repo.git"),
		Commit:      CommitID("0123456789abcdef0123456789abcdef01234567"),
		Destination: "/tmp/tree",
	})
	qt.Assert(t, qt.IsNotNil(err))
}

func TestGateAcceptsYes(t *testing.T) {
	t.Setenv(consentEnvVar, "yes")
	cleared, err := Gate(Origin("https://example.invalid/repo.git"), Plan{})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(cleared.String(), "https://example.invalid/repo.git"))
}

func TestGateRejectsUnrecognizedValue(t *testing.T) {
	t.Setenv(consentEnvVar, "totally")
	_, err := Gate(Origin("https://example.invalid/repo.git"), Plan{})
	qt.Assert(t, qt.IsNotNil(err))
}

func TestPlanStringEnumeratesOriginCommitDestination(t *testing.T) {
	plan := Plan{
		Store:       "/data/xtest-data-git",
		Origin:      Origin("https://example.invalid/repo.git"),
		Commit:      CommitID("0123456789abcdef0123456789abcdef01234567"),
		Destination: "/data/xtest-data-tree-abc",
	}
	rendered := plan.String()
	qt.Assert(t, qt.StringContains(rendered, "https://example.invalid/repo.git"))
	qt.Assert(t, qt.StringContains(rendered, "0123456789abcdef0123456789abcdef01234567"))
	qt.Assert(t, qt.StringContains(rendered, "/data/xtest-data-tree-abc"))
}
