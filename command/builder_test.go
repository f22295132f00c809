package command

import (
	"context"
	"testing"
	"time"
)

func TestValidateRemoteName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid name", "origin", false},
		{"valid with hyphen", "my-fork", false},
		{"valid with underscore", "backup_remote", false},
		{"valid with dot", "remote.v2", false},
		{"empty name", "", true},
		{"special characters", "origin@host", true},
		{"starts with hyphen", "-origin", true},
		{"spaces", "my remote", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRemoteName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateRemoteName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRemoteURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https url", "https://github.com/user/notes.git", false},
		{"ssh url", "git@github.com:user/notes.git", false},
		{"local path", "/srv/git/notes.git", false},
		{"empty url", "", true},
		{"whitespace only", "   ", true},
		{"command injection semicolon", "https://example.com; rm -rf /", true},
		{"command injection backtick", "`whoami`", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRemoteURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateRemoteURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateGitRef(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid branch", "main", false},
		{"valid with slash", "feature/add-button", false},
		{"valid with hyphen", "fix-bug", false},
		{"valid with dots", "v1.2.3", false},
		{"empty ref", "", true},
		{"command injection", "main; rm -rf /", true},
		{"spaces", "my branch", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateGitRef(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateGitRef(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFileName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid path", "notes/daily/today.md", false},
		{"timestamped note", "1700000000000-new-note.md", false},
		{"directory traversal", "../etc/passwd", true},
		{"command injection semicolon", "note.md; rm -rf /", true},
		{"command injection pipe", "note.md | cat", true},
		{"empty path", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFileName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateFileName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestSafeBuilder_Build(t *testing.T) {
	sb := NewSafeBuilder()
	ctx := context.Background()

	t.Run("valid command", func(t *testing.T) {
		cmd, err := sb.Build(ctx, "git", "status")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cmd.name != "git" {
			t.Errorf("expected command name 'git', got %q", cmd.name)
		}
		if len(cmd.args) != 1 || cmd.args[0] != "status" {
			t.Errorf("expected args ['status'], got %v", cmd.args)
		}
	})

	t.Run("empty command name", func(t *testing.T) {
		_, err := sb.Build(ctx, "")
		if err == nil {
			t.Error("expected error for empty command name")
		}
	})
}

func TestSafeBuilder_Validate(t *testing.T) {
	sb := NewSafeBuilder()

	t.Run("valid remote name", func(t *testing.T) {
		err := sb.Validate("remoteName", "origin")
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("invalid remote name", func(t *testing.T) {
		err := sb.Validate("remoteName", "origin;evil")
		if err == nil {
			t.Error("expected error for invalid remote name")
		}
	})

	t.Run("unknown validator type", func(t *testing.T) {
		err := sb.Validate("unknownType", "value")
		if err == nil {
			t.Error("expected error for unknown validator type")
		}
	})
}

func TestCommand_WithTimeout(t *testing.T) {
	sb := NewSafeBuilder()
	ctx := context.Background()

	cmd, err := sb.Build(ctx, "sleep", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("custom timeout", func(t *testing.T) {
		customTimeout := 1 * time.Second
		cmd = cmd.WithTimeout(customTimeout)
		if cmd.timeout != customTimeout {
			t.Errorf("expected timeout %v, got %v", customTimeout, cmd.timeout)
		}
	})

	t.Run("exceeds max timeout", func(t *testing.T) {
		cmd = cmd.WithTimeout(20 * time.Minute)
		if cmd.timeout != MaxTimeout {
			t.Errorf("expected timeout to be capped at %v, got %v", MaxTimeout, cmd.timeout)
		}
	})
}
