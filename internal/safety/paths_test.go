package safety_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/sidekick-cli/sidekick/internal/safety"
)

func TestValidateRelPath_BasicRejections(t *testing.T) {
	root := t.TempDir()

	// Absolute path should be rejected (OS-independent)
	abs, err := filepath.Abs(".")
	if err != nil {
		t.Skipf("cannot compute absolute path: %v", err)
	}
	if _, err := safety.ValidateRelPath(root, abs); err == nil {
		t.Fatal("expected error for absolute path")
	}

	// Parent traversal should be rejected
	if _, err := safety.ValidateRelPath(root, "../../x"); err == nil {
		t.Fatal("expected error for parent traversal")
	}
}

func TestValidateRelPath_ReadDenylist(t *testing.T) {
	root := t.TempDir()
	_ = os.Mkdir(filepath.Join(root, ".sidekick"), 0o755)
	_ = os.Mkdir(filepath.Join(root, ".git"), 0o755)

	if _, err := safety.ValidateRelPath(root, ".sidekick/sessions/default_session.jsonl"); err == nil {
		t.Fatal("expected deny for .sidekick/")
	}
	if _, err := safety.ValidateRelPath(root, ".git/HEAD"); err == nil {
		t.Fatal("expected deny for .git/")
	}
	if _, err := safety.ValidateRelPath(root, ".gitignore"); err != nil {
		t.Fatalf(".gitignore is not inside .git/, expected allow: %v", err)
	}
}

func TestValidateRelPath_ToolErrorCodes(t *testing.T) {
	root := t.TempDir()
	_ = os.Mkdir(filepath.Join(root, ".git"), 0o755)

	_, err := safety.ValidateRelPath(root, "../outside")
	if err == nil || !strings.Contains(err.Error(), "ERR_PATH_OUTSIDE_SANDBOX") {
		t.Fatalf("expected ERR_PATH_OUTSIDE_SANDBOX, got %v", err)
	}
	_, err = safety.ValidateRelPath(root, ".git/config")
	if err == nil || !strings.Contains(err.Error(), "ERR_DENIED_READ") {
		t.Fatalf("expected ERR_DENIED_READ, got %v", err)
	}
}

func TestValidateRelPath_SymlinkEscape(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()

	link := filepath.Join(root, "out")
	if runtime.GOOS == "windows" {
		t.Skip("symlink test skipped on Windows")
	}
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlink not allowed on this FS: %v", err)
	}

	target := "out/escape.txt"
	if _, err := safety.ValidateRelPath(root, target); err == nil {
		t.Fatalf("expected reject for symlink escape: %s", target)
	}
}

func TestInitSandboxRoot_DefaultsToCwd(t *testing.T) {
	got, err := safety.InitSandboxRoot("")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	cwd, _ := os.Getwd()
	if r, err := filepath.EvalSymlinks(cwd); err == nil {
		cwd = r
	}
	if got != cwd {
		t.Fatalf("got %q, want cwd %q", got, cwd)
	}
}
