package tools

import (
	"encoding/json"
	"fmt"

	"github.com/sidekick-cli/sidekick/internal/fsops"
)

type SearchFilesInput struct {
	Pattern   string `json:"pattern" jsonschema_description:"Substring to match against file names (case-insensitive)."`
	Path      string `json:"path,omitempty" jsonschema_description:"Optional relative directory to search from (defaults to the workspace root)."`
	Extension string `json:"extension,omitempty" jsonschema_description:"Optional file extension filter, e.g. \".go\"."`
}

var SearchFilesDefinition = ToolDefinition{
	Name:        "search_files",
	Description: "Recursively search the workspace for files whose name contains a pattern. Hidden and vendored directories are skipped.",
	InputSchema: SearchFilesInputSchema,
	Function:    SearchFiles,
}

var SearchFilesInputSchema = GenerateSchema[SearchFilesInput]()

// SearchFiles walks the workspace via fsops and returns matches as a
// JSON-encoded []string of relative paths.
func SearchFiles(input json.RawMessage) (string, error) {
	var in SearchFilesInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}
	if in.Pattern == "" {
		return "", fmt.Errorf("pattern is required")
	}

	matches, err := fsops.SearchNames(in.Pattern, in.Path, in.Extension)
	if err != nil {
		return "", err
	}
	if matches == nil {
		matches = []string{}
	}
	b, err := json.Marshal(matches)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
