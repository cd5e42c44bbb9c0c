package safety

import (
	"path/filepath"
	"strings"
)

// protectedFiles may never be written by tools, anywhere in the tree:
// clobbering module metadata bricks the workspace the program runs in.
var protectedFiles = []string{"go.mod", "go.sum"}

// ValidateWritePath is ValidateRelPath with the write-side policy applied on
// top: deny-listed directories and protected file names are refused with a
// ToolError carrying ERR_DENIED_WRITE.
func ValidateWritePath(absRoot, relPath string) (string, error) {
	candidate, rel, err := resolveInRoot(absRoot, relPath)
	if err != nil {
		return "", err
	}
	if denied(rel) {
		return "", ToolError{Code: "ERR_DENIED_WRITE", Message: "writes under " + strings.Join(denyDirs, "/ or ") + "/ are not allowed"}
	}
	base := filepath.Base(rel)
	for _, p := range protectedFiles {
		if base == p {
			return "", ToolError{Code: "ERR_DENIED_WRITE", Message: p + " is write-protected"}
		}
	}
	return candidate, nil
}
