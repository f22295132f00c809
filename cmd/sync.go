package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/grovetools/notesync/cli"
	"github.com/grovetools/notesync/daemon"
	notesync "github.com/grovetools/notesync/sync"
	"github.com/grovetools/notesync/watcher"
)

// NewSyncCmd creates the `sync` command.
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run a sync cycle, or keep the notebook in sync continuously",
		Long: `Without flags, runs a single sync cycle: stage everything, commit if there
are changes, pull if behind, push if ahead.

With --watch, stays running: file changes and the auto-sync timer drive sync
cycles, and the current state is served to UI clients over a local socket.

Examples:
  # One sync cycle now
  notesync sync

  # Keep syncing until interrupted
  notesync sync --watch
`,
		RunE: runSyncE,
	}

	cmd.Flags().Bool("watch", false, "Watch the notebook and sync continuously")

	return cmd
}

func runSyncE(cmd *cobra.Command, args []string) error {
	opts := cli.GetOptions(cmd)
	handler := cli.NewErrorHandler(opts.Verbose)

	dir, err := cli.ResolveDir(cmd)
	if err != nil {
		return err
	}

	watch, _ := cmd.Flags().GetBool("watch")
	if watch {
		return runWatch(cmd, dir)
	}

	engine := notesync.NewEngine(dir)
	defer engine.Scheduler().Stop()

	outcome, err := engine.SyncNow(cmd.Context())
	if err != nil {
		return handler.Handle(err)
	}

	printOutcome(outcome)
	return nil
}

func printOutcome(o *notesync.SyncOutcome) {
	if !o.Committed && !o.Pulled && !o.Pushed {
		fmt.Println("Nothing to sync.")
		return
	}
	if o.Committed {
		fmt.Println("Committed local changes.")
	}
	if o.Pulled {
		if o.ContentChanged {
			fmt.Println("Pulled remote changes. Reload open notes from disk.")
		} else {
			fmt.Println("Pulled from remote.")
		}
	}
	if o.Pushed {
		fmt.Println("Pushed to remote.")
	}
}

// runWatch runs the long-lived sync loop: the scheduler drives periodic
// cycles, the file watcher refreshes clients on edits, and the daemon
// server exposes state over the notebook's Unix socket.
func runWatch(cmd *cobra.Command, dir string) error {
	logger := cli.GetLogger(cmd)

	engine := notesync.NewEngine(dir)
	defer engine.Scheduler().Stop()

	if err := engine.Scheduler().Start(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := daemon.NewServer(engine, daemon.SocketPath(dir))

	// Scheduled sync cycles change repository state without touching any
	// watched file, so they broadcast through the completion hook.
	engine.Scheduler().OnSyncComplete(func() {
		server.NotifyChanged(context.Background())
	})

	w, err := watcher.New(dir, 0, func() {
		server.NotifyChanged(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	go w.Start(ctx)

	logger.WithField("dir", dir).Info("Watching notebook")
	return server.Start(ctx)
}
