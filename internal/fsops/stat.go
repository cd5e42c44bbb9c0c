package fsops

import (
	"os"
	"time"

	"github.com/sidekick-cli/sidekick/internal/safety"
)

// FileInfo is the subset of stat data surfaced to tools.
type FileInfo struct {
	Name      string    `json:"name"`
	SizeBytes int64     `json:"size_bytes"`
	Mode      string    `json:"mode"`
	ModTime   time.Time `json:"mod_time"`
	IsDir     bool      `json:"is_dir"`
}

// Stat returns file metadata for a relative path under the workspace.
// Unlike ReadFile, directories are valid targets here.
func Stat(relPath string) (FileInfo, error) {
	root, err := Root()
	if err != nil {
		return FileInfo{}, err
	}

	absPath, err := safety.ValidateRelPath(root, relPath)
	if err != nil {
		return FileInfo{}, err
	}

	fi, err := os.Stat(absPath)
	if err != nil {
		return FileInfo{}, err
	}
	return FileInfo{
		Name:      fi.Name(),
		SizeBytes: fi.Size(),
		Mode:      fi.Mode().String(),
		ModTime:   fi.ModTime().UTC(),
		IsDir:     fi.IsDir(),
	}, nil
}
