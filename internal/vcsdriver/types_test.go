package vcsdriver

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestParseCommitID(t *testing.T) {
	long := "0123456789abcdef0123456789abcdef01234567"
	commit, err := ParseCommitID(long)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(commit.String(), long))

	_, err = ParseCommitID("abc123")
	qt.Assert(t, qt.IsNotNil(err))
}

func TestParseCommitIDTrimsWhitespace(t *testing.T) {
	long := "0123456789abcdef0123456789abcdef01234567"
	commit, err := ParseCommitID("  " + long + "\n")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(commit.String(), long))
}

func TestLiteralRendering(t *testing.T) {
	qt.Assert(t, qt.Equals(Literal("tests/data.zip").String(), ":(top,literal)tests/data.zip"))
}

func TestPartitionSplitsOnEmbeddedNewline(t *testing.T) {
	simplePaths, complexPaths := partition([]PathSpec{
		Literal("tests/data.zip"),
		Literal("weird\npath"),
	})
	qt.Assert(t, qt.HasLen(simplePaths, 1))
	qt.Assert(t, qt.HasLen(complexPaths, 1))
	qt.Assert(t, qt.Equals(simplePaths[0].(Literal), Literal("tests/data.zip")))
}
