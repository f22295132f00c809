package errors

import (
	"fmt"
	"os/exec"
)

// GitNotInstalled creates a git-not-installed error
func GitNotInstalled() *SyncError {
	return New(ErrCodeGitNotInstalled, "git is not installed or not on PATH")
}

// NotARepository creates a not-a-repository error
func NotARepository(path string) *SyncError {
	return New(ErrCodeNotARepository, fmt.Sprintf("not a git repository: %s", path)).
		WithDetail("path", path)
}

// RemoteNotFound creates a remote not found error
func RemoteNotFound(name string) *SyncError {
	return New(ErrCodeRemoteNotFound, fmt.Sprintf("remote '%s' not found", name)).
		WithDetail("remote", name)
}

// InvalidURL creates an invalid remote URL error
func InvalidURL(url string) *SyncError {
	return New(ErrCodeInvalidURL, "remote URL cannot be empty").
		WithDetail("url", url)
}

// NothingToPush creates an error for a push with no outgoing commits
func NothingToPush(branch string) *SyncError {
	return New(ErrCodeNothingToPush, fmt.Sprintf("branch '%s' has no commits to push", branch)).
		WithDetail("branch", branch)
}

// OperationInProgress creates an error for overlapping sync operations
func OperationInProgress(current string) *SyncError {
	return New(ErrCodeOperationInProgress,
		fmt.Sprintf("a %s operation is already in progress", current)).
		WithDetail("operation", current)
}

// NetworkOrAuth wraps a network or authentication failure from git
func NetworkOrAuth(op string, err error) *SyncError {
	syncErr := Wrap(err, ErrCodeNetworkOrAuth, fmt.Sprintf("%s failed: %v", op, err)).
		WithDetail("operation", op)

	// Extract exit code if available
	if exitErr, ok := err.(*exec.ExitError); ok {
		syncErr = syncErr.WithDetail("exitCode", exitErr.ExitCode())
	}

	return syncErr
}

// Unknown wraps an uncategorized failure, preserving the message
func Unknown(err error) *SyncError {
	return Wrap(err, ErrCodeUnknown, err.Error())
}
