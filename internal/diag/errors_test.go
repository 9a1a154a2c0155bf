package diag

import (
	"errors"
	"testing"

	"github.com/go-quicktest/qt"
)

func TestInconclusiveFormatsReason(t *testing.T) {
	err := NewInconclusive("missing %s binary", "git")
	qt.Assert(t, qt.Equals(err.Error(), "missing git binary"))
}

func TestProcessErrorIncludesStderr(t *testing.T) {
	err := NewProcessError("fetch", []byte("fatal: no such remote"), errors.New("exit status 1"))
	qt.Assert(t, qt.StringContains(err.Error(), "fatal: no such remote"))
	qt.Assert(t, qt.StringContains(err.Error(), "fetch"))
}

func TestProcessErrorOmitsEmptyStderr(t *testing.T) {
	err := NewProcessError("fetch", nil, errors.New("exit status 1"))
	qt.Assert(t, qt.Equals(err.Error(), "fetch: exit status 1"))
}

func TestAnchorAttachesLocation(t *testing.T) {
	err := Anchor(errors.New("boom"))
	var located *LocatedError
	qt.Assert(t, qt.ErrorAs(err, &located))
	qt.Assert(t, qt.IsTrue(located.Line > 0))
}

func TestAnchorPassesNilThrough(t *testing.T) {
	qt.Assert(t, qt.IsNil(Anchor(nil)))
}
