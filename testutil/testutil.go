// Package testutil holds shared helpers for tests that exercise real git
// repositories.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// RunGitCommand runs a git command in the given directory and fails the test
// on error.
func RunGitCommand(t *testing.T, dir string, args ...string) {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %s failed with output: %s", strings.Join(args, " "), string(output))
}

// InitGitRepo initializes a git repository in dir with a test identity
// configured. No initial commit is made.
func InitGitRepo(t *testing.T, dir string) {
	t.Helper()

	RunGitCommand(t, dir, "init")
	RunGitCommand(t, dir, "config", "user.email", "test@example.com")
	RunGitCommand(t, dir, "config", "user.name", "Test User")
}

// CreateCommit writes a file and commits it.
func CreateCommit(t *testing.T, dir, filename, content string) {
	t.Helper()

	path := filepath.Join(dir, filename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	RunGitCommand(t, dir, "add", filename)
	RunGitCommand(t, dir, "commit", "-m", "Add "+filename)
}

// CreateBareRemote creates a bare repository at dir/remote.git, clones it
// into dir/local with a test identity, and returns the clone's path. The
// clone's origin points at the bare repository.
func CreateBareRemote(t *testing.T, dir string) string {
	t.Helper()

	remoteDir := filepath.Join(dir, "remote.git")
	require.NoError(t, os.Mkdir(remoteDir, 0755))
	RunGitCommand(t, remoteDir, "init", "--bare", "--initial-branch=main")

	RunGitCommand(t, dir, "clone", "remote.git", "local")

	localDir := filepath.Join(dir, "local")
	RunGitCommand(t, localDir, "config", "user.email", "test@example.com")
	RunGitCommand(t, localDir, "config", "user.name", "Test User")
	return localDir
}

// Chdir changes the working directory for the duration of the test and
// restores the original directory during cleanup. It mirrors
// testing.T.Chdir for toolchains that predate Go 1.24.
func Chdir(t *testing.T, dir string) {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(wd))
	})
}
