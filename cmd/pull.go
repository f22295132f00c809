package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grovetools/notesync/cli"
	notesync "github.com/grovetools/notesync/sync"
)

// NewPullCmd creates the `pull` command.
func NewPullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Pull remote commits into the notebook",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)
			handler := cli.NewErrorHandler(opts.Verbose)

			dir, err := cli.ResolveDir(cmd)
			if err != nil {
				return err
			}

			engine := notesync.NewEngine(dir)
			defer engine.Scheduler().Stop()

			result, err := engine.Pull(cmd.Context())
			if err != nil {
				return handler.Handle(err)
			}

			if result.ContentChanged {
				fmt.Println("Pulled remote changes. Reload open notes from disk.")
			} else {
				fmt.Println("Already up to date.")
			}
			return nil
		},
	}
}
