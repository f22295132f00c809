// Package sync implements the git synchronization orchestration for a
// notebook directory: reducing repository state to a canonical sync state,
// filtering sync-generated files, driving publish/push/pull workflows, and
// scheduling periodic automatic synchronization.
package sync

import (
	"path"
	"regexp"
	"strings"
)

// Sync-generated files carry a millisecond-epoch timestamp prefix on the file
// name, and sync-generated folders carry a "folder-" token plus the same
// timestamp. A user file that happens to match is misclassified as generated;
// that is a documented limitation of the naming heuristic.
// The folder token must start a path segment: a folder merely ending in
// "folder-<timestamp>" is user-named, not sync-generated.
var (
	generatedFilePattern   = regexp.MustCompile(`^\d{13}-`)
	generatedFolderPattern = regexp.MustCompile(`(^|/)folder-\d{13}`)
)

// IsGeneratedFile reports whether the repository-relative path names a file
// produced by the synchronization subsystem itself. Such files are eligible
// for hiding from manual review.
func IsGeneratedFile(p string) bool {
	p = strings.ReplaceAll(p, "\\", "/")
	dir, file := path.Split(p)

	if generatedFilePattern.MatchString(file) {
		return true
	}
	return generatedFolderPattern.MatchString(dir)
}
