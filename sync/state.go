package sync

import (
	"github.com/grovetools/notesync/config"
	"github.com/grovetools/notesync/git"
)

// State is the canonical synchronization state of a notebook. Exactly one
// value holds at any instant; it is computed fresh from its inputs and never
// stored, so it cannot go stale.
type State string

const (
	// StateError means the last operation recorded a git execution error.
	StateError State = "error"

	// StateNoCommits means the repository has no commits yet.
	StateNoCommits State = "no_commits"

	// StateUnpublished means there are commits but no remote tracking branch.
	StateUnpublished State = "unpublished"

	// StateSyncing means a sync operation is currently in flight.
	StateSyncing State = "syncing"

	// StateChanges means there are uncommitted local changes.
	StateChanges State = "changes"

	// StateUnpushed means local commits exist that are not on the remote.
	StateUnpushed State = "unpushed"

	// StateSynced means local and remote are in agreement.
	StateSynced State = "synced"
)

// RepositoryMetadata describes the repository underneath a notebook. It is
// refreshed on demand by re-querying git and never mutated directly.
// Invariant: HasRemoteBranch implies HasCommits implies IsRepository implies
// IsGitInstalled.
type RepositoryMetadata struct {
	IsGitInstalled  bool         `json:"is_git_installed"`
	IsRepository    bool         `json:"is_repository"`
	CurrentBranch   string       `json:"current_branch"`
	HasCommits      bool         `json:"has_commits"`
	HasRemoteBranch bool         `json:"has_remote_branch"`
	Remotes         []git.Remote `json:"remotes"`
}

// RunStatus carries the scheduler-side bookkeeping the state computation
// depends on.
type RunStatus struct {
	// IsSyncing is true only while an operation is in flight.
	IsSyncing bool `json:"is_syncing"`

	// LastError is the failure message of the last operation, empty on success.
	LastError string `json:"last_error"`
}

// ComputeState reduces repository metadata, raw status, and scheduler state
// to the canonical sync state plus the visible and total uncommitted counts.
// It is a pure function of its inputs: identical inputs yield identical
// output. The first matching rule wins.
//
// The total count drives the Changes state; the visible count exists so that
// automatically-produced churn does not alarm the user, while still being
// truthfully reflected in the state machine.
func ComputeState(meta RepositoryMetadata, status *git.RawStatus, run RunStatus, cfg config.AutoSyncConfig) (State, int, int) {
	total, visible := countUncommitted(status, cfg)

	switch {
	case run.LastError != "":
		return StateError, visible, total
	case !meta.HasCommits:
		return StateNoCommits, visible, total
	case !meta.HasRemoteBranch:
		return StateUnpublished, visible, total
	case run.IsSyncing:
		return StateSyncing, visible, total
	case total > 0:
		return StateChanges, visible, total
	case status != nil && status.Ahead > 0:
		return StateUnpushed, visible, total
	default:
		return StateSynced, visible, total
	}
}

// countUncommitted counts entries that are staged, unstaged, or untracked,
// once per path even when a file is both staged and unstaged. The visible
// count excludes generated files, but only while auto-sync is enabled with
// hiding on; otherwise it equals the total.
func countUncommitted(status *git.RawStatus, cfg config.AutoSyncConfig) (total, visible int) {
	if status == nil {
		return 0, 0
	}

	hide := cfg.Enabled && cfg.HideGeneratedFiles
	seen := make(map[string]bool, len(status.Files))

	for _, f := range status.Files {
		if !f.Staged() && !f.Unstaged() {
			continue
		}
		if seen[f.Path] {
			continue
		}
		seen[f.Path] = true

		total++
		if !hide || !IsGeneratedFile(f.Path) {
			visible++
		}
	}

	return total, visible
}
