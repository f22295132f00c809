package sync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/notesync/config"
	"github.com/grovetools/notesync/errors"
	"github.com/grovetools/notesync/git"
)

// opGuard is the mutual-exclusion guard over "one git-mutating operation at
// a time", shared across manual push, manual pull, sync-now, and the
// scheduler's timer tick. A second invocation while an operation is in
// flight fails fast rather than queuing.
type opGuard struct {
	mu      sync.Mutex
	current string
}

// acquire claims the guard for op, or fails with OperationInProgress.
func (g *opGuard) acquire(op string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current != "" {
		return errors.OperationInProgress(g.current)
	}
	g.current = op
	return nil
}

// release frees the guard. Always called via defer so every exit path,
// success or failure, releases it.
func (g *opGuard) release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current = ""
}

// busy reports whether an operation is in flight.
func (g *opGuard) busy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current != ""
}

// PushResult reports the outcome of a push.
type PushResult struct {
	// WasPublish is true when the push created the remote tracking branch.
	WasPublish bool `json:"was_publish"`
}

// PullResult reports the outcome of a pull.
type PullResult struct {
	// ContentChanged is true when the pull incorporated remote commits. The
	// caller must then reload application state from disk from scratch;
	// this layer has no merge engine, and losing unsaved in-memory edits
	// across that reload is accepted behavior.
	ContentChanged bool `json:"content_changed"`
}

// SyncOutcome reports what a combined sync cycle actually did.
type SyncOutcome struct {
	Committed      bool `json:"committed"`
	Pulled         bool `json:"pulled"`
	Pushed         bool `json:"pushed"`
	ContentChanged bool `json:"content_changed"`
}

// Workflow drives the outbound and inbound synchronization operations for a
// notebook. All mutating operations go through the shared in-flight guard.
type Workflow struct {
	svc    git.Service
	store  *config.Store
	agg    *Aggregator
	guard  opGuard
	logger *logrus.Entry
}

// NewWorkflow creates a workflow over the given git service and store.
func NewWorkflow(svc git.Service, store *config.Store, logger *logrus.Entry) *Workflow {
	return &Workflow{
		svc:    svc,
		store:  store,
		agg:    NewAggregator(svc, store),
		logger: logger,
	}
}

// Aggregator returns the status aggregator bound to this workflow.
func (w *Workflow) Aggregator() *Aggregator {
	return w.agg
}

// Busy reports whether a mutating operation is in flight.
func (w *Workflow) Busy() bool {
	return w.guard.busy()
}

// Push pushes the current branch to origin. When no remote tracking branch
// exists this is a publish: the push creates the tracking branch and, on
// success, unconditionally enables auto-sync, overriding any prior user
// preference. The configuration change is broadcast with the persisted
// interval so the scheduler re-arms.
func (w *Workflow) Push(ctx context.Context) (*PushResult, error) {
	if err := w.guard.acquire("push"); err != nil {
		return nil, err
	}
	defer w.guard.release()

	meta, status, err := w.agg.RefreshMetadata(ctx)
	if err != nil {
		return nil, errors.Unknown(err)
	}
	if !meta.IsGitInstalled {
		return nil, errors.GitNotInstalled()
	}
	if !meta.IsRepository {
		return nil, errors.NotARepository(w.store.Dir())
	}

	branch := meta.CurrentBranch
	if branch == "" {
		return nil, errors.New(errors.ErrCodeUnknown, "cannot determine current branch")
	}

	if !meta.HasRemoteBranch {
		// First publish: create the tracking branch.
		if err := w.svc.Push(ctx, DefaultRemote, branch, true); err != nil {
			return nil, errors.NetworkOrAuth("push", err)
		}

		cfg, err := config.LoadAutoSync(w.store)
		if err != nil {
			return nil, errors.Unknown(err)
		}
		cfg.Enabled = true
		if err := config.SaveAutoSync(w.store, cfg); err != nil {
			return nil, errors.Unknown(err)
		}

		w.logger.WithField("branch", branch).Info("published branch, auto-sync enabled")
		return &PushResult{WasPublish: true}, nil
	}

	if status.Ahead == 0 {
		return nil, errors.NothingToPush(branch)
	}

	if err := w.svc.Push(ctx, DefaultRemote, branch, false); err != nil {
		return nil, errors.NetworkOrAuth("push", err)
	}

	w.logger.WithFields(logrus.Fields{"branch": branch, "commits": status.Ahead}).Info("pushed")
	return &PushResult{WasPublish: false}, nil
}

// Pull pulls the current branch from origin. Failures from the underlying
// pull are surfaced verbatim as the operation's error message.
func (w *Workflow) Pull(ctx context.Context) (*PullResult, error) {
	if err := w.guard.acquire("pull"); err != nil {
		return nil, err
	}
	defer w.guard.release()

	status, err := w.svc.Status(ctx)
	if err != nil {
		return nil, errors.Unknown(err)
	}
	behindBefore := status.Behind

	branch := status.Current
	if branch == "" {
		return nil, errors.New(errors.ErrCodeUnknown, "cannot determine current branch")
	}

	if err := w.svc.Pull(ctx, DefaultRemote, branch); err != nil {
		return nil, errors.NetworkOrAuth("pull", err)
	}

	after, err := w.svc.Status(ctx)
	if err != nil {
		return nil, errors.Unknown(err)
	}

	changed := behindBefore != 0 && after.Behind == 0
	if changed {
		w.logger.WithField("commits", behindBefore).Info("pull changed content, reload required")
	} else {
		w.logger.Debug("pull: already up to date")
	}

	return &PullResult{ContentChanged: changed}, nil
}

// Sync runs one combined synchronization cycle: stage everything, commit if
// dirty, pull if behind, push if ahead. Callers are expected to have checked
// readiness (commits exist, tracking branch exists); the scheduler skips its
// tick otherwise.
func (w *Workflow) Sync(ctx context.Context) (*SyncOutcome, error) {
	if err := w.guard.acquire("sync"); err != nil {
		return nil, err
	}
	defer w.guard.release()

	outcome := &SyncOutcome{}

	status, err := w.svc.Status(ctx)
	if err != nil {
		return nil, errors.Unknown(err)
	}

	branch := status.Current
	if branch == "" {
		return nil, errors.New(errors.ErrCodeUnknown, "cannot determine current branch")
	}

	if len(status.Files) > 0 {
		if err := w.svc.Add(ctx, nil); err != nil {
			return nil, errors.Unknown(err)
		}
		message := fmt.Sprintf("notesync: automatic sync %s", time.Now().Format("2006-01-02 15:04:05"))
		if err := w.svc.Commit(ctx, message, nil); err != nil {
			return nil, errors.Unknown(err)
		}
		outcome.Committed = true
	}

	status, err = w.svc.Status(ctx)
	if err != nil {
		return nil, errors.Unknown(err)
	}

	if status.Behind > 0 {
		if err := w.svc.Pull(ctx, DefaultRemote, branch); err != nil {
			return nil, errors.NetworkOrAuth("pull", err)
		}
		outcome.Pulled = true
		outcome.ContentChanged = true
	}

	if status.Ahead > 0 || outcome.Committed {
		if err := w.svc.Push(ctx, DefaultRemote, branch, false); err != nil {
			return nil, errors.NetworkOrAuth("push", err)
		}
		outcome.Pushed = true
	}

	return outcome, nil
}
