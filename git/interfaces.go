package git

import "context"

// Service defines the git operations the synchronization layer depends on.
// The CLI-backed implementation is CLIService; tests substitute mocks.
type Service interface {
	// Environment
	IsInstalled(ctx context.Context) bool
	IsRepository(ctx context.Context) bool
	Init(ctx context.Context) error

	// Read-only queries
	Status(ctx context.Context) (*RawStatus, error)
	Log(ctx context.Context, maxCount int) (*LogResult, error)
	CurrentBranch(ctx context.Context) (string, error)
	HasCommits(ctx context.Context) bool
	ListRemotes(ctx context.Context) ([]Remote, error)

	// Mutating operations
	Add(ctx context.Context, paths []string) error
	Commit(ctx context.Context, message string, paths []string) error
	Push(ctx context.Context, remote, branch string, setUpstream bool) error
	Pull(ctx context.Context, remote, branch string) error
	AddRemote(ctx context.Context, name, url string) error
	RemoveRemote(ctx context.Context, name string) error
	SetRemoteURL(ctx context.Context, name, url string) error

	// Diagnostics
	TestConnection(ctx context.Context, name string) ProbeResult
}
