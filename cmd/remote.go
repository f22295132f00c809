package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grovetools/notesync/cli"
	notesync "github.com/grovetools/notesync/sync"
)

// NewRemoteCmd creates the `remote` command group.
func NewRemoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Manage the notebook's git remotes",
		Long: `Manages the remotes the notebook syncs against.

Examples:
  # Point the notebook at a repository
  notesync remote add origin git@github.com:user/notes.git

  # Check that the remote is reachable
  notesync remote test origin
`,
	}

	cmd.AddCommand(newRemoteAddCmd())
	cmd.AddCommand(newRemoteRemoveCmd())
	cmd.AddCommand(newRemoteSetURLCmd())
	cmd.AddCommand(newRemoteTestCmd())

	return cmd
}

// remoteEngine builds an engine for the command's notebook directory.
func remoteEngine(cmd *cobra.Command) (*notesync.Engine, *cli.ErrorHandler, error) {
	opts := cli.GetOptions(cmd)
	dir, err := cli.ResolveDir(cmd)
	if err != nil {
		return nil, nil, err
	}
	return notesync.NewEngine(dir), cli.NewErrorHandler(opts.Verbose), nil
}

func newRemoteAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <url>",
		Short: "Add a remote, or update its URL if it already exists",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, handler, err := remoteEngine(cmd)
			if err != nil {
				return err
			}
			defer engine.Scheduler().Stop()

			result, err := engine.Remotes().AddOrUpdateRemote(cmd.Context(), args[0], args[1])
			if err != nil {
				return handler.Handle(err)
			}

			if result.WasUpdate {
				fmt.Printf("Updated remote '%s'\n", args[0])
			} else {
				fmt.Printf("Added remote '%s'\n", args[0])
			}
			return nil
		},
	}
}

func newRemoteRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a remote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, handler, err := remoteEngine(cmd)
			if err != nil {
				return err
			}
			defer engine.Scheduler().Stop()

			if err := engine.Remotes().RemoveRemote(cmd.Context(), args[0]); err != nil {
				return handler.Handle(err)
			}

			fmt.Printf("Removed remote '%s'\n", args[0])
			return nil
		},
	}
}

func newRemoteSetURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-url <name> <url>",
		Short: "Change the URL of an existing remote",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, handler, err := remoteEngine(cmd)
			if err != nil {
				return err
			}
			defer engine.Scheduler().Stop()

			if err := engine.Remotes().SetRemoteURL(cmd.Context(), args[0], args[1]); err != nil {
				return handler.Handle(err)
			}

			fmt.Printf("Updated URL of remote '%s'\n", args[0])
			return nil
		},
	}
}

func newRemoteTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test [name]",
		Short: "Test connectivity to a remote",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := remoteEngine(cmd)
			if err != nil {
				return err
			}
			defer engine.Scheduler().Stop()

			name := notesync.DefaultRemote
			if len(args) > 0 {
				name = args[0]
			}

			result := engine.Remotes().TestConnection(cmd.Context(), name)
			if result.Success {
				fmt.Printf("Remote '%s' is reachable.\n", name)
				return nil
			}

			fmt.Printf("Remote '%s' is not reachable: %s\n", name, result.Message)
			return fmt.Errorf("connection test failed")
		},
	}
}
