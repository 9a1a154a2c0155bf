package xtestdata

import (
	"encoding/json"
	"fmt"
)

// pinFile mirrors the on-disk VCS-info pin shape. Only git.sha1 is ever
// consumed; path_in_vcs and any other field is parsed but otherwise
// ignored, so future fields can be added without breaking old readers.
type pinFile struct {
	Git struct {
		Sha1 string `json:"sha1"`
	} `json:"git"`
	PathInVCS string `json:"path_in_vcs"`
}

// parsePin decodes a pin file body and extracts the pinned CommitID. Any
// structural mismatch, including a sha1 shorter than 40 characters, is
// reported as an error so the caller can abort as Inconclusive.
func parsePin(body []byte) (CommitID, error) {
	var pin pinFile
	if err := json.Unmarshal(body, &pin); err != nil {
		return "", fmt.Errorf("parsing VCS-info pin file: %w", err)
	}
	commit, err := ParseCommitID(pin.Git.Sha1)
	if err != nil {
		return "", fmt.Errorf("VCS-info pin file: %w", err)
	}
	return commit, nil
}
