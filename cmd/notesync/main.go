package main

import (
	"os"

	"github.com/grovetools/notesync/cli"
	"github.com/grovetools/notesync/cmd"
)

func main() {
	rootCmd := cli.NewStandardCommand(
		"notesync",
		"Keep a notebook directory in sync with a remote git repository",
	)

	rootCmd.AddCommand(cmd.NewStatusCmd())
	rootCmd.AddCommand(cmd.NewInitCmd())
	rootCmd.AddCommand(cmd.NewPushCmd())
	rootCmd.AddCommand(cmd.NewPullCmd())
	rootCmd.AddCommand(cmd.NewSyncCmd())
	rootCmd.AddCommand(cmd.NewRemoteCmd())
	rootCmd.AddCommand(cmd.NewLogsCmd())
	rootCmd.AddCommand(cmd.NewVersionCmd())

	cli.ApplyStyledHelpRecursive(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
