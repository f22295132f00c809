package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpcloud/tail"
	"github.com/spf13/cobra"

	"github.com/grovetools/notesync/cli"
)

// NewLogsCmd creates the `logs` command.
func NewLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Display notesync's own logs for the notebook",
		Long: `Shows the log output notesync writes under .notesync/logs in the notebook
directory. By default, prints the most recent log file.

Examples:
  # Print the current log file
  notesync logs

  # Follow log output as it is written
  notesync logs -f

  # Last 50 lines
  notesync logs --tail 50
`,
		RunE: runLogsE,
	}

	cmd.Flags().BoolP("follow", "f", false, "Follow log output")
	cmd.Flags().Int("tail", -1, "Number of lines to show from the end of the logs (default: all)")

	return cmd
}

func runLogsE(cmd *cobra.Command, args []string) error {
	dir, err := cli.ResolveDir(cmd)
	if err != nil {
		return err
	}

	logsDir := filepath.Join(dir, ".notesync", "logs")
	logFile, err := findLatestLogFile(logsDir)
	if err != nil {
		return fmt.Errorf("no logs found for %s: %w", dir, err)
	}

	follow, _ := cmd.Flags().GetBool("follow")
	tailLines, _ := cmd.Flags().GetInt("tail")

	if !follow {
		return printTail(logFile, tailLines)
	}

	t, err := tail.TailFile(logFile, tail.Config{
		Follow:   true,
		ReOpen:   true,
		Location: &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
		Logger:   tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to tail %s: %w", logFile, err)
	}
	defer t.Stop()

	go func() {
		<-cmd.Context().Done()
		t.Stop()
	}()

	for line := range t.Lines {
		if line.Err != nil {
			continue
		}
		fmt.Println(line.Text)
	}

	return nil
}

// printTail prints the last tailLines lines of the file, or the whole file
// when tailLines is negative.
func printTail(path string, tailLines int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if tailLines >= 0 && tailLines < len(lines) {
		lines = lines[len(lines)-tailLines:]
	}
	for _, line := range lines {
		fmt.Println(line)
	}
	return nil
}

// findLatestLogFile finds the most recently modified non-empty file in a
// directory, falling back to the most recent file of any size.
func findLatestLogFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("could not read log directory %s: %w", dir, err)
	}

	var latestFile os.FileInfo
	var latestPath string
	var latestNonEmptyFile os.FileInfo
	var latestNonEmptyPath string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if latestFile == nil || info.ModTime().After(latestFile.ModTime()) {
			latestFile = info
			latestPath = filepath.Join(dir, entry.Name())
		}
		if info.Size() > 0 {
			if latestNonEmptyFile == nil || info.ModTime().After(latestNonEmptyFile.ModTime()) {
				latestNonEmptyFile = info
				latestNonEmptyPath = filepath.Join(dir, entry.Name())
			}
		}
	}

	if latestNonEmptyFile != nil {
		return latestNonEmptyPath, nil
	}
	if latestFile == nil {
		return "", fmt.Errorf("no log files found in %s", dir)
	}
	return latestPath, nil
}
