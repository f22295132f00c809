package sync

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/notesync/config"
	"github.com/grovetools/notesync/errors"
)

// Scheduler owns auto-sync enablement, the periodic timer, and the
// last-result bookkeeping. It is the only autonomous trigger of
// synchronization; every other trigger is externally invoked.
//
// Two locks: mu guards timer management, bookMu guards the per-attempt
// bookkeeping. The loop goroutine takes only bookMu, so Stop and Configure
// may wait for it to exit while holding mu.
type Scheduler struct {
	workflow *Workflow
	store    *config.Store
	logger   *logrus.Entry

	mu       sync.Mutex
	enabled  bool
	interval time.Duration
	ticker   *time.Ticker
	stop     chan struct{}
	done     chan struct{}

	bookMu       sync.Mutex
	lastSyncTime time.Time
	lastError    string
	onComplete   func()
}

// NewScheduler creates a scheduler driving the given workflow. It subscribes
// to the store's notifier so that configuration writes from other components
// (e.g. the workflow enabling auto-sync on first publish) re-arm the timer.
func NewScheduler(workflow *Workflow, store *config.Store, logger *logrus.Entry) *Scheduler {
	s := &Scheduler{
		workflow: workflow,
		store:    store,
		logger:   logger,
	}

	store.Notifier().Subscribe(func(c config.Change) {
		if c.Key != config.AutoSyncSection {
			return
		}
		cfg, err := config.LoadAutoSync(store)
		if err != nil {
			s.logger.WithError(err).Warn("failed to reload auto-sync config")
			return
		}
		s.Configure(cfg)
	})

	return s
}

// Start reads the persisted configuration and arms the timer if enabled.
func (s *Scheduler) Start() error {
	cfg, err := config.LoadAutoSync(s.store)
	if err != nil {
		return err
	}
	s.Configure(cfg)
	return nil
}

// Configure applies new auto-sync settings. Enabling (re)arms the periodic
// timer; disabling disarms it. An interval change while armed disarms and
// rearms rather than accumulating timers.
func (s *Scheduler) Configure(cfg config.AutoSyncConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()

	interval := time.Duration(cfg.IntervalSeconds) * time.Second

	if !cfg.Enabled {
		s.enabled = false
		s.stopTimerLocked()
		s.logger.Debug("auto-sync disabled")
		return
	}

	if s.enabled && s.interval == interval && s.ticker != nil {
		return
	}

	s.stopTimerLocked()
	s.enabled = true
	s.interval = interval

	s.ticker = time.NewTicker(interval)
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go s.loop(s.ticker, s.stop, s.done)
	s.logger.WithField("interval", interval).Info("auto-sync armed")
}

// Stop disarms the timer without changing the persisted enablement.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
}

func (s *Scheduler) stopTimerLocked() {
	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.stop)
	<-s.done
	s.ticker = nil
	s.stop = nil
	s.done = nil
}

func (s *Scheduler) loop(ticker *time.Ticker, stop, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick runs one scheduled sync attempt. Skips are silent: an in-flight
// operation, a repository without commits, or a missing remote branch are
// "not yet ready", not failures. Failures are recorded in lastError and not
// raised anywhere; they self-heal on the next tick.
func (s *Scheduler) tick() {
	ctx := context.Background()

	if s.workflow.Busy() {
		s.logger.Debug("tick skipped: operation in flight")
		return
	}

	meta, _, err := s.workflow.Aggregator().RefreshMetadata(ctx)
	if err != nil {
		s.recordFailure(err)
		return
	}
	if !meta.HasCommits || !meta.HasRemoteBranch {
		s.logger.Debug("tick skipped: repository not ready")
		return
	}

	if _, err := s.workflow.Sync(ctx); err != nil {
		s.recordFailure(err)
	} else {
		s.recordSuccess()
	}
	s.notifyComplete()
}

// SyncNow performs the combined sync immediately, subject to the same
// in-flight guard. Unlike the silent timer tick it re-throws failures so an
// interactive trigger can surface the error.
func (s *Scheduler) SyncNow(ctx context.Context) (*SyncOutcome, error) {
	outcome, err := s.workflow.Sync(ctx)
	if err != nil {
		s.recordFailure(err)
		s.notifyComplete()
		return nil, err
	}
	s.recordSuccess()
	s.notifyComplete()
	return outcome, nil
}

func (s *Scheduler) recordSuccess() {
	s.bookMu.Lock()
	s.lastSyncTime = time.Now()
	s.lastError = ""
	s.bookMu.Unlock()
	s.logger.Debug("sync succeeded")
}

func (s *Scheduler) recordFailure(err error) {
	// A guard rejection means another operation is mid-flight, not that a
	// sync failed; it must not surface as an error state.
	if errors.Is(err, errors.ErrCodeOperationInProgress) {
		s.logger.Debug("sync skipped: operation in flight")
		return
	}
	s.bookMu.Lock()
	s.lastError = err.Error()
	s.bookMu.Unlock()
	s.logger.WithError(err).Warn("sync failed")
}

// OnSyncComplete registers a callback invoked after every sync attempt,
// successful or not. Lets a host push fresh state to connected clients when
// a scheduled sync changes the repository.
func (s *Scheduler) OnSyncComplete(fn func()) {
	s.bookMu.Lock()
	s.onComplete = fn
	s.bookMu.Unlock()
}

func (s *Scheduler) notifyComplete() {
	s.bookMu.Lock()
	fn := s.onComplete
	s.bookMu.Unlock()
	if fn != nil {
		fn()
	}
}

// RunStatus returns the scheduler's bookkeeping for state computation:
// whether a sync is in flight and the last recorded failure.
func (s *Scheduler) RunStatus() RunStatus {
	s.bookMu.Lock()
	defer s.bookMu.Unlock()
	return RunStatus{
		IsSyncing: s.workflow.Busy(),
		LastError: s.lastError,
	}
}

// LastSyncTime returns the time of the last successful sync, zero if none.
func (s *Scheduler) LastSyncTime() time.Time {
	s.bookMu.Lock()
	defer s.bookMu.Unlock()
	return s.lastSyncTime
}

// Enabled reports whether the timer is currently armed.
func (s *Scheduler) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}
