package sync

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/notesync/errors"
	"github.com/grovetools/notesync/git"
)

// DefaultRemote is the sole supported remote. The synchronization layer
// assumes a single-remote topology; push and publish always target it.
const DefaultRemote = "origin"

// AddOrUpdateResult distinguishes an add from an update so callers can
// message appropriately.
type AddOrUpdateResult struct {
	WasUpdate bool `json:"was_update"`
}

// RemoteManager manages the notebook's single named remote, enforcing
// singleton-per-name semantics on top of git's remote commands.
type RemoteManager struct {
	svc    git.Service
	logger *logrus.Entry
}

// NewRemoteManager creates a remote manager over the given git service.
func NewRemoteManager(svc git.Service, logger *logrus.Entry) *RemoteManager {
	return &RemoteManager{svc: svc, logger: logger}
}

// AddOrUpdateRemote adds the named remote, or updates its URL when a remote
// with that name already exists. Redefining an existing remote is never a
// duplicate-insert error.
func (m *RemoteManager) AddOrUpdateRemote(ctx context.Context, name, url string) (*AddOrUpdateResult, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.InvalidURL(url)
	}

	existing, err := m.find(ctx, name)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if err := m.svc.SetRemoteURL(ctx, name, url); err != nil {
			return nil, errors.Unknown(err)
		}
		m.logger.WithField("remote", name).Info("updated remote URL")
		return &AddOrUpdateResult{WasUpdate: true}, nil
	}

	if err := m.svc.AddRemote(ctx, name, url); err != nil {
		return nil, errors.Unknown(err)
	}
	m.logger.WithField("remote", name).Info("added remote")
	return &AddOrUpdateResult{WasUpdate: false}, nil
}

// RemoveRemote removes the named remote. Fails with RemoteNotFound when it
// does not exist.
func (m *RemoteManager) RemoveRemote(ctx context.Context, name string) error {
	existing, err := m.find(ctx, name)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.RemoteNotFound(name)
	}

	if err := m.svc.RemoveRemote(ctx, name); err != nil {
		return errors.Unknown(err)
	}
	m.logger.WithField("remote", name).Info("removed remote")
	return nil
}

// SetRemoteURL changes the URL of an existing remote. Fails with
// RemoteNotFound when absent and InvalidURL when the URL is blank.
func (m *RemoteManager) SetRemoteURL(ctx context.Context, name, url string) error {
	if strings.TrimSpace(url) == "" {
		return errors.InvalidURL(url)
	}

	existing, err := m.find(ctx, name)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.RemoteNotFound(name)
	}

	if err := m.svc.SetRemoteURL(ctx, name, url); err != nil {
		return errors.Unknown(err)
	}
	return nil
}

// TestConnection probes the named remote. It never returns an error;
// failures are captured in the result since the probe is advisory.
func (m *RemoteManager) TestConnection(ctx context.Context, name string) git.ProbeResult {
	return m.svc.TestConnection(ctx, name)
}

// find returns the named remote, or nil when it is not configured.
func (m *RemoteManager) find(ctx context.Context, name string) (*git.Remote, error) {
	remotes, err := m.svc.ListRemotes(ctx)
	if err != nil {
		return nil, errors.Unknown(err)
	}
	for i := range remotes {
		if remotes[i].Name == name {
			return &remotes[i], nil
		}
	}
	return nil, nil
}
