package fsops

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/sidekick-cli/sidekick/internal/safety"
)

// maxSearchMatches bounds search output so one broad pattern can't flood a
// tool result.
const maxSearchMatches = 500

// skipDirs are directory names never descended into during a search, on top
// of hidden directories.
var skipDirs = map[string]bool{"node_modules": true, "vendor": true, "__pycache__": true}

// SearchNames walks the tree under relDir and returns workspace-relative
// paths of files whose name contains pattern (case-insensitive), optionally
// filtered by extension (e.g. ".go"). Hidden files and directories are
// skipped. Results follow walk order (lexical) and are capped.
func SearchNames(pattern, relDir, ext string) ([]string, error) {
	root, err := Root()
	if err != nil {
		return nil, err
	}

	if relDir == "" {
		relDir = "."
	}
	absDir, err := safety.ValidateRelPath(root, relDir)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(pattern)
	var matches []string
	walkErr := filepath.WalkDir(absDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != absDir && (strings.HasPrefix(name, ".") || skipDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if ext != "" && !strings.HasSuffix(name, ext) {
			return nil
		}
		if !strings.Contains(strings.ToLower(name), needle) {
			return nil
		}
		rel, rerr := filepath.Rel(absDir, path)
		if rerr != nil {
			return rerr
		}
		matches = append(matches, filepath.ToSlash(rel))
		if len(matches) >= maxSearchMatches {
			return fs.SkipAll
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return matches, nil
}
