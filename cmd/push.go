package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grovetools/notesync/cli"
	notesync "github.com/grovetools/notesync/sync"
)

// NewPushCmd creates the `push` command.
func NewPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Push local commits to the remote",
		Long: `Pushes the current branch to its remote. The first push of a branch
publishes it: the remote tracking branch is created and periodic auto-sync
is switched on for the notebook.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)
			handler := cli.NewErrorHandler(opts.Verbose)

			dir, err := cli.ResolveDir(cmd)
			if err != nil {
				return err
			}

			engine := notesync.NewEngine(dir)
			defer engine.Scheduler().Stop()

			result, err := engine.Push(cmd.Context())
			if err != nil {
				return handler.Handle(err)
			}

			if result.WasPublish {
				fmt.Println("Published notebook. Auto-sync is now enabled.")
			} else {
				fmt.Println("Pushed local commits.")
			}
			return nil
		},
	}
}
