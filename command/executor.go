package command

import (
	"context"
	"os/exec"
)

// Executor creates the exec.Cmd instances that run git. Injecting it lets
// tests substitute command creation (e.g. pointing PATH at stub binaries)
// without touching the sync code paths that build the invocations.
type Executor interface {
	// Command creates an exec.Cmd for the given binary and arguments.
	Command(name string, args ...string) *exec.Cmd

	// CommandContext creates a context-aware exec.Cmd, used for the
	// network-bound git operations that carry timeouts.
	CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd
}

// RealExecutor is the production Executor, backed by os/exec.
type RealExecutor struct{}

// Command creates a standard exec.Cmd.
func (e *RealExecutor) Command(name string, args ...string) *exec.Cmd {
	return exec.Command(name, args...)
}

// CommandContext creates a standard context-aware exec.Cmd.
func (e *RealExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, name, args...)
}
