package sync

import (
	"context"

	"github.com/grovetools/notesync/config"
	"github.com/grovetools/notesync/git"
)

// Snapshot is a point-in-time view of the notebook's synchronization state,
// suitable for display and for gating operations.
type Snapshot struct {
	Meta               RepositoryMetadata `json:"meta"`
	Status             *git.RawStatus     `json:"status,omitempty"`
	State              State              `json:"state"`
	VisibleUncommitted int                `json:"visible_uncommitted"`
	TotalUncommitted   int                `json:"total_uncommitted"`
	Run                RunStatus          `json:"run"`
}

// Aggregator refreshes repository metadata and raw status from git and
// reduces them to a Snapshot. Reads are not subject to the workflow's
// mutual-exclusion guard and may run concurrently with a mutating
// operation; callers tolerate transient inconsistency.
type Aggregator struct {
	svc   git.Service
	store *config.Store
}

// NewAggregator creates an aggregator over the given git service and
// configuration store.
func NewAggregator(svc git.Service, store *config.Store) *Aggregator {
	return &Aggregator{svc: svc, store: store}
}

// RefreshMetadata re-queries git and rebuilds the repository metadata plus
// the raw status it was derived from. The status is nil when the directory
// is not a repository.
func (a *Aggregator) RefreshMetadata(ctx context.Context) (RepositoryMetadata, *git.RawStatus, error) {
	meta := RepositoryMetadata{}

	meta.IsGitInstalled = a.svc.IsInstalled(ctx)
	if !meta.IsGitInstalled {
		return meta, nil, nil
	}

	meta.IsRepository = a.svc.IsRepository(ctx)
	if !meta.IsRepository {
		return meta, nil, nil
	}

	status, err := a.svc.Status(ctx)
	if err != nil {
		return meta, nil, err
	}

	meta.CurrentBranch = status.Current
	meta.HasCommits = a.svc.HasCommits(ctx)
	meta.HasRemoteBranch = status.Tracking != ""

	remotes, err := a.svc.ListRemotes(ctx)
	if err != nil {
		return meta, status, err
	}
	meta.Remotes = remotes

	return meta, status, nil
}

// Snapshot refreshes metadata and computes the canonical state for the
// given run bookkeeping.
func (a *Aggregator) Snapshot(ctx context.Context, run RunStatus) (*Snapshot, error) {
	meta, status, err := a.RefreshMetadata(ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadAutoSync(a.store)
	if err != nil {
		return nil, err
	}

	state, visible, total := ComputeState(meta, status, run, cfg)
	return &Snapshot{
		Meta:               meta,
		Status:             status,
		State:              state,
		VisibleUncommitted: visible,
		TotalUncommitted:   total,
		Run:                run,
	}, nil
}
