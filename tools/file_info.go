package tools

import (
	"encoding/json"

	"github.com/sidekick-cli/sidekick/internal/fsops"
)

type FileInfoInput struct {
	Path string `json:"path" jsonschema_description:"Relative path of the file or directory to inspect."`
}

var FileInfoDefinition = ToolDefinition{
	Name:        "file_info",
	Description: "Get metadata for a file or directory within the workspace: size, mode, modification time, and whether it is a directory.",
	InputSchema: FileInfoInputSchema,
	Function:    FileInfo,
}

var FileInfoInputSchema = GenerateSchema[FileInfoInput]()

// FileInfo stats a path via fsops and returns the metadata as JSON.
func FileInfo(input json.RawMessage) (string, error) {
	var in FileInfoInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}
	fi, err := fsops.Stat(in.Path)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(fi)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
