package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grovetools/notesync/cli"
	notesync "github.com/grovetools/notesync/sync"
)

// NewInitCmd creates the `init` command.
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a git repository for the notebook",
		Long: `Initializes a git repository in the notebook directory and seeds a
.gitignore that excludes notesync's own bookkeeping. Does nothing if the
directory is already a repository.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)
			handler := cli.NewErrorHandler(opts.Verbose)

			dir, err := cli.ResolveDir(cmd)
			if err != nil {
				return err
			}

			engine := notesync.NewEngine(dir)
			defer engine.Scheduler().Stop()

			if err := engine.Init(cmd.Context()); err != nil {
				return handler.Handle(err)
			}

			fmt.Printf("Initialized notebook repository in %s\n", dir)
			return nil
		},
	}
}
