package sync

import (
	"context"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/notesync/config"
	"github.com/grovetools/notesync/errors"
	"github.com/grovetools/notesync/git"
	"github.com/grovetools/notesync/logging"
)

// Engine wires the synchronization components for one notebook directory and
// is the single entry-point surface exposed to callers: current state plus
// counts, the remote list, scheduler status, and the operation entry points.
// Every entry point returns a result or a failure; none are fire-and-forget.
type Engine struct {
	dir       string
	svc       git.Service
	store     *config.Store
	workflow  *Workflow
	scheduler *Scheduler
	remotes   *RemoteManager
	logger    *logrus.Entry
}

// NewEngine creates an engine for the notebook at dir, backed by the git CLI.
func NewEngine(dir string) *Engine {
	return NewEngineWithService(dir, git.NewCLIService(dir))
}

// NewEngineWithService creates an engine with an injected git service.
func NewEngineWithService(dir string, svc git.Service) *Engine {
	logger := logging.NewLogger("sync")
	store := config.NewStore(dir)
	workflow := NewWorkflow(svc, store, logger)

	return &Engine{
		dir:       dir,
		svc:       svc,
		store:     store,
		workflow:  workflow,
		scheduler: NewScheduler(workflow, store, logger),
		remotes:   NewRemoteManager(svc, logger),
		logger:    logger,
	}
}

// Store returns the notebook's configuration store.
func (e *Engine) Store() *config.Store {
	return e.store
}

// Scheduler returns the auto-sync scheduler.
func (e *Engine) Scheduler() *Scheduler {
	return e.scheduler
}

// Remotes returns the remote configuration manager.
func (e *Engine) Remotes() *RemoteManager {
	return e.remotes
}

// Git returns the underlying git service for read-only queries.
func (e *Engine) Git() git.Service {
	return e.svc
}

// Snapshot returns the current canonical sync state plus counts.
func (e *Engine) Snapshot(ctx context.Context) (*Snapshot, error) {
	return e.workflow.Aggregator().Snapshot(ctx, e.scheduler.RunStatus())
}

// Push pushes (or publishes) the current branch.
func (e *Engine) Push(ctx context.Context) (*PushResult, error) {
	return e.workflow.Push(ctx)
}

// Pull pulls the current branch.
func (e *Engine) Pull(ctx context.Context) (*PullResult, error) {
	return e.workflow.Pull(ctx)
}

// SyncNow runs a combined sync cycle immediately.
func (e *Engine) SyncNow(ctx context.Context) (*SyncOutcome, error) {
	return e.scheduler.SyncNow(ctx)
}

// Init initializes a git repository in the notebook directory and seeds a
// .gitignore excluding notesync's own bookkeeping.
func (e *Engine) Init(ctx context.Context) error {
	if !e.svc.IsInstalled(ctx) {
		return errors.GitNotInstalled()
	}
	if e.svc.IsRepository(ctx) {
		return nil
	}

	if err := e.svc.Init(ctx); err != nil {
		return errors.Unknown(err)
	}

	gitignore := filepath.Join(e.dir, ".gitignore")
	if _, err := os.Stat(gitignore); os.IsNotExist(err) {
		if err := os.WriteFile(gitignore, []byte(".notesync/\n"), 0644); err != nil {
			return errors.Unknown(err)
		}
	}

	e.logger.WithField("dir", e.dir).Info("initialized repository")
	return nil
}
