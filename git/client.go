package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/grovetools/notesync/command"
)

// CLIService implements Service by shelling out to the git binary for a
// single notebook directory.
type CLIService struct {
	dir        string
	cmdBuilder *command.SafeBuilder
}

// Ensure it implements the interface
var _ Service = (*CLIService)(nil)

// NewCLIService creates a CLI-backed git service rooted at dir.
func NewCLIService(dir string) *CLIService {
	return &CLIService{
		dir:        dir,
		cmdBuilder: command.NewSafeBuilder(),
	}
}

// Dir returns the directory the service operates on.
func (s *CLIService) Dir() string {
	return s.dir
}

// run executes git with the given arguments and returns combined output.
func (s *CLIService) run(ctx context.Context, args ...string) (string, error) {
	cmd, err := s.cmdBuilder.Build(ctx, "git", args...)
	if err != nil {
		return "", fmt.Errorf("failed to build command: %w", err)
	}
	execCmd := cmd.Exec()
	execCmd.Dir = s.dir
	output, err := execCmd.CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(string(output)))
	}
	return string(output), nil
}

// IsInstalled checks whether the git binary is available.
func (s *CLIService) IsInstalled(ctx context.Context) bool {
	_, err := s.run(ctx, "--version")
	return err == nil
}

// IsRepository checks whether the directory is inside a git repository.
func (s *CLIService) IsRepository(ctx context.Context) bool {
	_, err := s.run(ctx, "rev-parse", "--git-dir")
	return err == nil
}

// Init initializes a new repository in the directory.
func (s *CLIService) Init(ctx context.Context) error {
	_, err := s.run(ctx, "init")
	return err
}

// CurrentBranch returns the current branch name.
func (s *CLIService) CurrentBranch(ctx context.Context) (string, error) {
	output, err := s.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// HasCommits reports whether HEAD resolves to a commit.
func (s *CLIService) HasCommits(ctx context.Context) bool {
	_, err := s.run(ctx, "rev-parse", "--verify", "HEAD")
	return err == nil
}

// Status returns the parsed porcelain v2 status.
func (s *CLIService) Status(ctx context.Context) (*RawStatus, error) {
	output, err := s.run(ctx, "status", "--porcelain=v2", "--branch")
	if err != nil {
		if strings.Contains(output, "not a git repository") {
			return nil, fmt.Errorf("not a git repository: %s", s.dir)
		}
		return nil, err
	}
	return ParsePorcelainStatus(output), nil
}

// Log returns up to maxCount commits plus the total commit count.
func (s *CLIService) Log(ctx context.Context, maxCount int) (*LogResult, error) {
	result := &LogResult{}

	if !s.HasCommits(ctx) {
		return result, nil
	}

	countOutput, err := s.run(ctx, "rev-list", "--count", "HEAD")
	if err != nil {
		return nil, err
	}
	result.Total, _ = strconv.Atoi(strings.TrimSpace(countOutput))

	output, err := s.run(ctx, "log",
		fmt.Sprintf("--max-count=%d", maxCount),
		"--pretty=format:%H%x1f%an%x1f%aI%x1f%s")
	if err != nil {
		return nil, err
	}

	for _, line := range strings.Split(output, "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\x1f")
		if len(fields) != 4 {
			continue
		}
		result.Entries = append(result.Entries, LogEntry{
			Hash:    fields[0],
			Author:  fields[1],
			Date:    fields[2],
			Message: fields[3],
		})
	}

	return result, nil
}

// Add stages the given paths, or everything when paths is empty.
func (s *CLIService) Add(ctx context.Context, paths []string) error {
	args := []string{"add"}
	if len(paths) == 0 {
		args = append(args, "--all")
	} else {
		for _, p := range paths {
			if err := s.cmdBuilder.Validate("fileName", p); err != nil {
				return err
			}
		}
		args = append(args, "--")
		args = append(args, paths...)
	}
	_, err := s.run(ctx, args...)
	return err
}

// Commit records a commit with the given message. When paths is non-empty
// only those paths are committed.
func (s *CLIService) Commit(ctx context.Context, message string, paths []string) error {
	args := []string{"commit", "-m", message}
	if len(paths) > 0 {
		args = append(args, "--")
		args = append(args, paths...)
	}
	_, err := s.run(ctx, args...)
	return err
}

// Push pushes branch to remote. With setUpstream the remote tracking
// branch is created (publish semantics).
func (s *CLIService) Push(ctx context.Context, remote, branch string, setUpstream bool) error {
	if err := s.cmdBuilder.Validate("remoteName", remote); err != nil {
		return err
	}
	if err := s.cmdBuilder.Validate("gitRef", branch); err != nil {
		return err
	}

	args := []string{"push"}
	if setUpstream {
		args = append(args, "--set-upstream")
	}
	args = append(args, remote, branch)
	_, err := s.run(ctx, args...)
	return err
}

// Pull pulls branch from remote.
func (s *CLIService) Pull(ctx context.Context, remote, branch string) error {
	if err := s.cmdBuilder.Validate("remoteName", remote); err != nil {
		return err
	}
	if err := s.cmdBuilder.Validate("gitRef", branch); err != nil {
		return err
	}
	_, err := s.run(ctx, "pull", remote, branch)
	return err
}
