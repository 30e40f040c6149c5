package security

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSandboxValidatePath(t *testing.T) {
	root := t.TempDir()
	inside := filepath.Join(root, "dir", "file.txt")
	if err := os.MkdirAll(filepath.Dir(inside), 0o755); err != nil {
		t.Fatalf("mk inside: %v", err)
	}
	if err := os.WriteFile(inside, []byte("ok"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	outsideRoot := t.TempDir()
	outside := filepath.Join(outsideRoot, "escape.txt")
	if err := os.WriteFile(outside, []byte("nope"), 0o644); err != nil {
		t.Fatalf("write outside: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		allow   string
		wantErr string
	}{
		{"inside root allowed", inside, "", ""},
		{"new file inside root allowed", filepath.Join(root, "soon.txt"), "", ""},
		{"outside root blocked", outside, "", ErrPathNotAllowed.Error()},
		{"additional allowlist enables path", outside, outsideRoot, ""},
		{"empty path rejected", "   ", "", "empty path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sandbox := NewSandbox(root)
			if tt.allow != "" {
				sandbox.Allow(tt.allow)
			}
			err := sandbox.ValidatePath(tt.path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestSandboxRejectsSymlinkEscape(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(t.TempDir(), "target.txt")
	if err := os.WriteFile(target, []byte("outside"), 0o644); err != nil {
		t.Fatalf("write target: %v", err)
	}
	symlink := filepath.Join(root, "link.txt")
	if err := os.Symlink(target, symlink); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	sandbox := NewSandbox(root)
	if err := sandbox.ValidatePath(symlink); err == nil {
		t.Fatalf("expected symlink escape to be rejected")
	}
}

func TestBlockedCommand(t *testing.T) {
	tests := []struct {
		command string
		blocked bool
	}{
		{"ls -la", false},
		{"rm -rf /", true},
		{"dd if=/dev/zero of=/dev/sda", true},
		{"shutdown -h now", true},
		{"mkfs.ext4 /dev/sdb1", true},
		{"echo hello > out.txt", false},
		{"yes | head > out.txt", false},
		{"yes > /dev/sda", true},
	}

	for _, tt := range tests {
		blocked, pattern := BlockedCommand(tt.command)
		if blocked != tt.blocked {
			t.Fatalf("BlockedCommand(%q) = %v (pattern %q), want %v", tt.command, blocked, pattern, tt.blocked)
		}
	}
}

func TestLineApproverAnswers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "y\n", true},
		{"yes word", "YES\n", true},
		{"no", "n\n", false},
		{"garbage declines", "maybe\n", false},
		{"eof declines", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			approver := NewLineApprover(strings.NewReader(tt.input), &out)
			got, err := approver.Approve(context.Background(), "edit_file", "apply this edit")
			if err != nil {
				t.Fatalf("approve: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Approve() = %v, want %v", got, tt.want)
			}
			if !strings.Contains(out.String(), "apply this edit") {
				t.Fatalf("prompt not shown: %q", out.String())
			}
		})
	}
}
