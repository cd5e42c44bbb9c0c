// Package safety provides helpers for sandboxed file access.
package safety

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ToolError is a machine-readable error body for surfacing back to the model as JSON.
type ToolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error returns a compact, single-line JSON string to keep tool results small.
func (e ToolError) Error() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// denyDirs are top-level directories tools may neither read nor write:
// repository internals and this program's own data dir.
var denyDirs = []string{".git", ".sidekick"}

// InitSandboxRoot resolves the absolute workspace root all tool file access
// is confined to. An empty root defaults to the current working directory.
func InitSandboxRoot(root string) (string, error) {
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		root = cwd
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("abs(root): %w", err)
	}

	// Resolve symlinks where possible so future boundary checks are reliable.
	// If EvalSymlinks fails (e.g. the root doesn't exist yet), keep the
	// absolute path as-is.
	if r, err := filepath.EvalSymlinks(abs); err == nil {
		abs = r
	}
	return abs, nil
}

// ValidateRelPath resolves relPath against absRoot and returns an absolute
// path inside the sandbox. It rejects absolute inputs, parent traversal, and
// symlink escapes, and denies access under the deny-listed directories.
// On violation it returns a ToolError.
func ValidateRelPath(absRoot, relPath string) (string, error) {
	candidate, rel, err := resolveInRoot(absRoot, relPath)
	if err != nil {
		return "", err
	}
	if denied(rel) {
		return "", ToolError{Code: "ERR_DENIED_READ", Message: "reads under " + strings.Join(denyDirs, "/ or ") + "/ are not allowed"}
	}
	return candidate, nil
}

// resolveInRoot normalises relPath under absRoot and enforces the sandbox
// boundary. It returns the resolved absolute path and the slash-form
// relative path used for deny checks.
func resolveInRoot(absRoot, relPath string) (candidate, rel string, err error) {
	if filepath.IsAbs(relPath) {
		return "", "", ToolError{Code: "ERR_PATH_OUTSIDE_SANDBOX", Message: "absolute paths are not allowed"}
	}

	cleaned := filepath.Clean(relPath)
	if cleaned == "" {
		cleaned = "."
	}
	candidate = filepath.Join(absRoot, cleaned)

	// Best-effort symlink resolution.
	// 1) Resolve the whole candidate if it exists.
	// 2) Otherwise resolve the deepest existing ancestor (the parent dir)
	//    and rejoin the final segment. This reveals escapes via a symlinked parent.
	if resolved, rerr := filepath.EvalSymlinks(candidate); rerr == nil {
		candidate = resolved
	} else {
		parent := filepath.Dir(candidate)
		if resolvedParent, perr := filepath.EvalSymlinks(parent); perr == nil {
			candidate = filepath.Join(resolvedParent, filepath.Base(candidate))
		}
	}

	// Boundary check via filepath.Rel; a plain prefix match would accept
	// sibling dirs whose name extends the root.
	r, rerr := filepath.Rel(absRoot, candidate)
	if rerr != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) || filepath.IsAbs(r) {
		return "", "", ToolError{Code: "ERR_PATH_OUTSIDE_SANDBOX", Message: "requested path resolves outside the sandbox root"}
	}
	return candidate, filepath.ToSlash(r), nil
}

func denied(rel string) bool {
	for _, d := range denyDirs {
		if rel == d || strings.HasPrefix(rel, d+"/") {
			return true
		}
	}
	return false
}
