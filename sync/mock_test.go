package sync

import (
	"context"
	"fmt"
	gosync "sync"

	"github.com/grovetools/notesync/git"
)

// mockGit is a configurable in-memory git.Service for workflow and
// scheduler tests. Zero-value fields behave like a healthy repository
// with commits and a tracking branch.
type mockGit struct {
	installed  *bool
	repository *bool
	hasCommits *bool

	status    *git.RawStatus
	statusErr error
	// statusQueue, when non-empty, overrides status one call at a time.
	statusQueue []*git.RawStatus

	remotes    []git.Remote
	remotesErr error

	pushErr error
	pullErr error

	probe git.ProbeResult

	// calls records method invocations in order.
	mu    gosync.Mutex
	calls []string

	// blockPush, when set, is received from before Push returns. Lets a
	// test hold an operation in flight.
	blockPush chan struct{}
}

var _ git.Service = (*mockGit)(nil)

func boolDefault(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func (m *mockGit) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockGit) IsInstalled(ctx context.Context) bool  { return boolDefault(m.installed, true) }
func (m *mockGit) IsRepository(ctx context.Context) bool { return boolDefault(m.repository, true) }
func (m *mockGit) HasCommits(ctx context.Context) bool   { return boolDefault(m.hasCommits, true) }

func (m *mockGit) Init(ctx context.Context) error {
	m.record("init")
	return nil
}

func (m *mockGit) Status(ctx context.Context) (*git.RawStatus, error) {
	m.record("status")
	if m.statusErr != nil {
		return nil, m.statusErr
	}
	m.mu.Lock()
	if len(m.statusQueue) > 0 {
		next := m.statusQueue[0]
		m.statusQueue = m.statusQueue[1:]
		m.mu.Unlock()
		return next, nil
	}
	m.mu.Unlock()
	if m.status != nil {
		return m.status, nil
	}
	return &git.RawStatus{Current: "main", Tracking: "origin/main"}, nil
}

func (m *mockGit) Log(ctx context.Context, maxCount int) (*git.LogResult, error) {
	m.record("log")
	return &git.LogResult{}, nil
}

func (m *mockGit) CurrentBranch(ctx context.Context) (string, error) {
	return "main", nil
}

func (m *mockGit) ListRemotes(ctx context.Context) ([]git.Remote, error) {
	m.record("remotes")
	if m.remotesErr != nil {
		return nil, m.remotesErr
	}
	return m.remotes, nil
}

func (m *mockGit) Add(ctx context.Context, paths []string) error {
	m.record("add")
	return nil
}

func (m *mockGit) Commit(ctx context.Context, message string, paths []string) error {
	m.record("commit")
	return nil
}

func (m *mockGit) Push(ctx context.Context, remote, branch string, setUpstream bool) error {
	m.record(fmt.Sprintf("push(%s,%s,upstream=%v)", remote, branch, setUpstream))
	if m.blockPush != nil {
		<-m.blockPush
	}
	return m.pushErr
}

func (m *mockGit) Pull(ctx context.Context, remote, branch string) error {
	m.record(fmt.Sprintf("pull(%s,%s)", remote, branch))
	return m.pullErr
}

func (m *mockGit) AddRemote(ctx context.Context, name, url string) error {
	m.record("addRemote(" + name + ")")
	m.remotes = append(m.remotes, git.Remote{Name: name, FetchURL: url, PushURL: url})
	return nil
}

func (m *mockGit) RemoveRemote(ctx context.Context, name string) error {
	m.record("removeRemote(" + name + ")")
	for i, r := range m.remotes {
		if r.Name == name {
			m.remotes = append(m.remotes[:i], m.remotes[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no such remote: %s", name)
}

func (m *mockGit) SetRemoteURL(ctx context.Context, name, url string) error {
	m.record("setRemoteURL(" + name + ")")
	for i, r := range m.remotes {
		if r.Name == name {
			m.remotes[i].FetchURL = url
			m.remotes[i].PushURL = url
			return nil
		}
	}
	return fmt.Errorf("no such remote: %s", name)
}

func (m *mockGit) TestConnection(ctx context.Context, name string) git.ProbeResult {
	m.record("testConnection(" + name + ")")
	return m.probe
}

func boolPtr(b bool) *bool { return &b }
