package git

import (
	"context"
	"strings"
)

// ListRemotes returns the configured remotes in `git remote -v` order.
func (s *CLIService) ListRemotes(ctx context.Context) ([]Remote, error) {
	output, err := s.run(ctx, "remote", "-v")
	if err != nil {
		return nil, err
	}
	return parseRemotes(output), nil
}

// AddRemote adds a new remote.
func (s *CLIService) AddRemote(ctx context.Context, name, url string) error {
	if err := s.cmdBuilder.Validate("remoteName", name); err != nil {
		return err
	}
	if err := s.cmdBuilder.Validate("remoteURL", url); err != nil {
		return err
	}
	_, err := s.run(ctx, "remote", "add", name, url)
	return err
}

// RemoveRemote removes a remote.
func (s *CLIService) RemoveRemote(ctx context.Context, name string) error {
	if err := s.cmdBuilder.Validate("remoteName", name); err != nil {
		return err
	}
	_, err := s.run(ctx, "remote", "remove", name)
	return err
}

// SetRemoteURL changes the URL of an existing remote.
func (s *CLIService) SetRemoteURL(ctx context.Context, name, url string) error {
	if err := s.cmdBuilder.Validate("remoteName", name); err != nil {
		return err
	}
	if err := s.cmdBuilder.Validate("remoteURL", url); err != nil {
		return err
	}
	_, err := s.run(ctx, "remote", "set-url", name, url)
	return err
}

// TestConnection probes the named remote with a non-mutating listing.
// Network and auth failures are captured in the result, never returned
// as errors, since this operation is advisory.
func (s *CLIService) TestConnection(ctx context.Context, name string) ProbeResult {
	if err := s.cmdBuilder.Validate("remoteName", name); err != nil {
		return ProbeResult{Success: false, Message: err.Error()}
	}

	output, err := s.run(ctx, "ls-remote", "--heads", name)
	if err != nil {
		return ProbeResult{Success: false, Message: strings.TrimSpace(err.Error())}
	}

	if strings.TrimSpace(output) == "" {
		return ProbeResult{Success: true, Message: "remote is reachable (no branches yet)"}
	}
	return ProbeResult{Success: true, Message: "remote is reachable"}
}

// parseRemotes parses `git remote -v` output. Each remote appears twice,
// once with a (fetch) suffix and once with (push).
func parseRemotes(output string) []Remote {
	var remotes []Remote
	index := make(map[string]int)

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		name, url, kind := fields[0], fields[1], fields[2]

		i, seen := index[name]
		if !seen {
			remotes = append(remotes, Remote{Name: name})
			i = len(remotes) - 1
			index[name] = i
		}

		switch kind {
		case "(fetch)":
			remotes[i].FetchURL = url
		case "(push)":
			remotes[i].PushURL = url
		}
	}

	return remotes
}
