package git

// Remote describes a configured remote repository.
type Remote struct {
	// Name is the remote's unique name within the repository.
	Name string `json:"name"`

	// FetchURL is the URL used for fetch and pull operations.
	FetchURL string `json:"fetch_url"`

	// PushURL is the URL used for push operations.
	PushURL string `json:"push_url"`
}

// FileStatusEntry describes the state of a single file in the working tree.
type FileStatusEntry struct {
	// Path is the repository-relative file path.
	Path string `json:"path"`

	// IndexState is the staged status code (' ' when clean, '?' when untracked).
	IndexState byte `json:"index_state"`

	// WorkingState is the unstaged status code (' ' when clean).
	WorkingState byte `json:"working_state"`
}

// Staged reports whether the entry has staged changes.
func (e FileStatusEntry) Staged() bool {
	return e.IndexState != ' ' && e.IndexState != '?' && e.IndexState != 0
}

// Unstaged reports whether the entry has working-tree changes (including untracked).
func (e FileStatusEntry) Unstaged() bool {
	return e.WorkingState != ' ' && e.WorkingState != 0
}

// RawStatus contains the parsed output of a status query.
type RawStatus struct {
	// Files lists every changed, staged, or untracked file.
	Files []FileStatusEntry `json:"files"`

	// Ahead is the number of commits ahead of the tracking branch.
	Ahead int `json:"ahead"`

	// Behind is the number of commits behind the tracking branch.
	Behind int `json:"behind"`

	// Current is the current branch name, empty when detached.
	Current string `json:"current"`

	// Tracking is the upstream tracking branch, empty when none is set.
	Tracking string `json:"tracking"`
}

// LogEntry describes a single commit.
type LogEntry struct {
	Hash    string `json:"hash"`
	Author  string `json:"author"`
	Date    string `json:"date"`
	Message string `json:"message"`
}

// LogResult contains a page of commits plus the total commit count.
type LogResult struct {
	Entries []LogEntry `json:"entries"`
	Total   int        `json:"total"`
}

// ProbeResult is the outcome of a remote reachability test. It is advisory:
// failures are captured in the result, never returned as errors.
type ProbeResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
