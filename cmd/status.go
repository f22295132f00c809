package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/grovetools/notesync/cli"
	"github.com/grovetools/notesync/daemon"
	"github.com/grovetools/notesync/git"
	notesync "github.com/grovetools/notesync/sync"
)

var stateStyles = map[notesync.State]lipgloss.Style{
	notesync.StateError:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
	notesync.StateNoCommits:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	notesync.StateUnpublished: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	notesync.StateSyncing:     lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	notesync.StateChanges:     lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	notesync.StateUnpushed:    lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	notesync.StateSynced:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
}

var mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

// NewStatusCmd creates the `status` command.
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the synchronization state of the notebook",
		Long: `Shows the canonical sync state of the notebook directory, the number of
uncommitted changes, and the configured remotes. When a notesync daemon is
running for the directory, the state is read from it.

Examples:
  # Human-readable status for the current directory
  notesync status

  # Machine-readable status
  notesync status --json

  # Status plus the last ten commits
  notesync status --log
`,
		RunE: runStatusE,
	}

	cmd.Flags().Bool("log", false, "Also show recent commits")
	cmd.Flags().Int("log-count", 10, "Number of commits to show with --log")

	return cmd
}

func runStatusE(cmd *cobra.Command, args []string) error {
	opts := cli.GetOptions(cmd)
	handler := cli.NewErrorHandler(opts.Verbose)

	dir, err := cli.ResolveDir(cmd)
	if err != nil {
		return err
	}

	engine := notesync.NewEngine(dir)
	defer engine.Scheduler().Stop()

	// Prefer the daemon's view when one is running: it carries the live
	// scheduler bookkeeping for the notebook.
	var snapshot *notesync.Snapshot
	client := daemon.NewClient(daemon.SocketPath(dir))
	if client.IsRunning(cmd.Context()) {
		snapshot, err = client.GetStatus(cmd.Context())
	} else {
		snapshot, err = engine.Snapshot(cmd.Context())
	}
	if err != nil {
		return handler.Handle(err)
	}

	if opts.JSONOutput {
		return json.NewEncoder(os.Stdout).Encode(snapshot)
	}

	printSnapshot(snapshot)

	showLog, _ := cmd.Flags().GetBool("log")
	if showLog && snapshot.Meta.HasCommits {
		count, _ := cmd.Flags().GetInt("log-count")
		result, err := engine.Git().Log(cmd.Context(), count)
		if err != nil {
			return handler.Handle(err)
		}
		printLog(result)
	}

	return nil
}

func printSnapshot(s *notesync.Snapshot) {
	style, ok := stateStyles[s.State]
	if !ok {
		style = mutedStyle
	}
	fmt.Printf("State:    %s\n", style.Render(string(s.State)))

	if s.Meta.CurrentBranch != "" {
		fmt.Printf("Branch:   %s\n", s.Meta.CurrentBranch)
	}

	if s.VisibleUncommitted != s.TotalUncommitted {
		fmt.Printf("Changes:  %d %s\n", s.VisibleUncommitted,
			mutedStyle.Render(fmt.Sprintf("(%d including generated files)", s.TotalUncommitted)))
	} else if s.TotalUncommitted > 0 {
		fmt.Printf("Changes:  %d\n", s.TotalUncommitted)
	}

	if s.Status != nil && (s.Status.Ahead > 0 || s.Status.Behind > 0) {
		fmt.Printf("Commits:  %d ahead, %d behind\n", s.Status.Ahead, s.Status.Behind)
	}

	if len(s.Meta.Remotes) > 0 {
		fmt.Println("Remotes:")
		for _, r := range s.Meta.Remotes {
			fmt.Printf("  %s  %s\n", r.Name, mutedStyle.Render(r.FetchURL))
		}
	}

	if s.Run.LastError != "" {
		errStyle := stateStyles[notesync.StateError]
		fmt.Printf("Error:    %s\n", errStyle.Render(s.Run.LastError))
	}
}

func printLog(result *git.LogResult) {
	fmt.Printf("\nCommits (%d total):\n", result.Total)
	for _, e := range result.Entries {
		hash := e.Hash
		if len(hash) > 8 {
			hash = hash[:8]
		}
		fmt.Printf("  %s  %s %s\n", mutedStyle.Render(hash), e.Message, mutedStyle.Render("("+e.Author+")"))
	}
}
